package main

import (
	"github.com/urfave/cli/v2"

	"github.com/tylium-run/oc-cli/internal/api"
)

func permissionCommand() *cli.Command {
	return &cli.Command{
		Name:  "permission",
		Usage: "Answer permission requests",
		Subcommands: []*cli.Command{
			{
				Name:      "reply",
				Usage:     "Reply to a pending permission request",
				ArgsUsage: "<permission-id> <once|always|reject>",
				Action:    runPermissionReply,
			},
		},
	}
}

func questionCommand() *cli.Command {
	return &cli.Command{
		Name:  "question",
		Usage: "Answer questions the session asks",
		Subcommands: []*cli.Command{
			{
				Name:      "answer",
				Usage:     "Answer a pending question with one or more option labels",
				ArgsUsage: "<question-id> <label>...",
				Action:    runQuestionAnswer,
			},
			{
				Name:      "reject",
				Usage:     "Reject a pending question",
				ArgsUsage: "<question-id>",
				Action:    runQuestionReject,
			},
		},
	}
}

func runPermissionReply(c *cli.Context) error {
	if err := requireArgs(c, 2, "permission reply <permission-id> <once|always|reject>"); err != nil {
		return err
	}
	reply := c.Args().Get(1)
	switch reply {
	case api.ReplyOnce, api.ReplyAlways, api.ReplyReject:
	default:
		return cli.Exit("usage: oc permission reply <permission-id> <once|always|reject>", exitCodeUsage)
	}

	client, err := newClient(c)
	if err != nil {
		return exitErr(err)
	}
	return exitErr(client.ReplyPermission(c.Context, c.Args().First(), reply))
}

func runQuestionAnswer(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.Exit("usage: oc question answer <question-id> <label>...", exitCodeUsage)
	}

	client, err := newClient(c)
	if err != nil {
		return exitErr(err)
	}

	answers := [][]string{c.Args().Slice()[1:]}
	return exitErr(client.ReplyQuestion(c.Context, c.Args().First(), answers))
}

func runQuestionReject(c *cli.Context) error {
	if err := requireArgs(c, 1, "question reject <question-id>"); err != nil {
		return err
	}

	client, err := newClient(c)
	if err != nil {
		return exitErr(err)
	}
	return exitErr(client.RejectQuestion(c.Context, c.Args().First()))
}
