package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tylium-run/oc-cli/internal/api"
	"github.com/tylium-run/oc-cli/internal/waiter"
)

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Report what a session is currently doing",
		ArgsUsage: "<session-id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the status as JSON",
			},
		},
		Action: runStatus,
	}
}

func runStatus(c *cli.Context) error {
	if err := requireArgs(c, 1, "status <session-id>"); err != nil {
		return err
	}

	client, err := newClient(c)
	if err != nil {
		return exitErr(err)
	}

	status, err := waiter.CheckSessionStatus(c.Context, client, c.Args().First())
	if err != nil {
		return exitErr(err)
	}

	if c.Bool("json") {
		if err := printJSON(os.Stdout, status); err != nil {
			return exitErr(err)
		}
		return nil
	}

	switch status.Type {
	case api.StatusRetry:
		line := fmt.Sprintf("retry (attempt %d)", status.Attempt)
		if status.Message != "" {
			line += ": " + status.Message
		}
		fmt.Println(line)
	default:
		fmt.Println(status.Type)
	}
	return nil
}
