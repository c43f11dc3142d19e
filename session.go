package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tylium-run/oc-cli/internal/api"
)

func sessionCommand() *cli.Command {
	jsonFlag := &cli.BoolFlag{
		Name:  "json",
		Usage: "Print as JSON",
	}

	return &cli.Command{
		Name:  "session",
		Usage: "Manage sessions",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List sessions",
				Flags:   []cli.Flag{jsonFlag},
				Action:  runSessionList,
			},
			{
				Name:  "create",
				Usage: "Create a session and print its ID",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "title",
						Usage: "Session title",
					},
					jsonFlag,
				},
				Action: runSessionCreate,
			},
			{
				Name:      "get",
				Usage:     "Show one session",
				ArgsUsage: "<session-id>",
				Flags:     []cli.Flag{jsonFlag},
				Action:    runSessionGet,
			},
			{
				Name:      "rename",
				Usage:     "Change a session's title",
				ArgsUsage: "<session-id> <title>",
				Action:    runSessionRename,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a session",
				ArgsUsage: "<session-id>",
				Action:    runSessionDelete,
			},
			{
				Name:      "abort",
				Usage:     "Abort a session's in-flight work",
				ArgsUsage: "<session-id>",
				Action:    runSessionAbort,
			},
			{
				Name:      "diff",
				Usage:     "Show files changed by a session",
				ArgsUsage: "<session-id>",
				Flags:     []cli.Flag{jsonFlag},
				Action:    runSessionDiff,
			},
		},
	}
}

func runSessionList(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return exitErr(err)
	}

	sessions, err := client.ListSessions(c.Context)
	if err != nil {
		return exitErr(err)
	}

	if c.Bool("json") {
		if err := printJSON(os.Stdout, sessions); err != nil {
			return exitErr(err)
		}
		return nil
	}

	w := newTable(os.Stdout)
	fmt.Fprintln(w, "ID\tTITLE\tUPDATED")
	for _, s := range sessions {
		title := s.Title
		if title == "" {
			title = s.Slug
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, title, formatTime(s.Time.Updated))
	}
	return w.Flush()
}

func runSessionCreate(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return exitErr(err)
	}

	req := &api.CreateSessionRequest{}
	if title := c.String("title"); title != "" {
		req.Title = api.String(title)
	}
	session, err := client.CreateSession(c.Context, req)
	if err != nil {
		return exitErr(err)
	}

	if c.Bool("json") {
		if err := printJSON(os.Stdout, session); err != nil {
			return exitErr(err)
		}
		return nil
	}
	fmt.Println(session.ID)
	return nil
}

func runSessionGet(c *cli.Context) error {
	if err := requireArgs(c, 1, "session get <session-id>"); err != nil {
		return err
	}

	client, err := newClient(c)
	if err != nil {
		return exitErr(err)
	}

	session, err := client.GetSession(c.Context, c.Args().First())
	if err != nil {
		return exitErr(err)
	}

	if c.Bool("json") {
		if err := printJSON(os.Stdout, session); err != nil {
			return exitErr(err)
		}
		return nil
	}

	w := newTable(os.Stdout)
	fmt.Fprintf(w, "ID\t%s\n", session.ID)
	fmt.Fprintf(w, "Title\t%s\n", session.Title)
	fmt.Fprintf(w, "Slug\t%s\n", session.Slug)
	fmt.Fprintf(w, "Directory\t%s\n", session.Directory)
	fmt.Fprintf(w, "Created\t%s\n", formatTime(session.Time.Created))
	fmt.Fprintf(w, "Updated\t%s\n", formatTime(session.Time.Updated))
	return w.Flush()
}

func runSessionRename(c *cli.Context) error {
	if err := requireArgs(c, 2, "session rename <session-id> <title>"); err != nil {
		return err
	}

	client, err := newClient(c)
	if err != nil {
		return exitErr(err)
	}

	_, err = client.UpdateSession(c.Context, c.Args().Get(0), &api.UpdateSessionRequest{
		Title: api.String(c.Args().Get(1)),
	})
	return exitErr(err)
}

func runSessionDelete(c *cli.Context) error {
	if err := requireArgs(c, 1, "session delete <session-id>"); err != nil {
		return err
	}

	client, err := newClient(c)
	if err != nil {
		return exitErr(err)
	}

	if err := client.DeleteSession(c.Context, c.Args().First()); err != nil {
		return exitErr(err)
	}
	if !c.Bool("quiet") {
		fmt.Println("Deleted", c.Args().First())
	}
	return nil
}

func runSessionAbort(c *cli.Context) error {
	if err := requireArgs(c, 1, "session abort <session-id>"); err != nil {
		return err
	}

	client, err := newClient(c)
	if err != nil {
		return exitErr(err)
	}

	if err := client.AbortSession(c.Context, c.Args().First()); err != nil {
		return exitErr(err)
	}
	if !c.Bool("quiet") {
		fmt.Println("Aborted", c.Args().First())
	}
	return nil
}

func runSessionDiff(c *cli.Context) error {
	if err := requireArgs(c, 1, "session diff <session-id>"); err != nil {
		return err
	}

	client, err := newClient(c)
	if err != nil {
		return exitErr(err)
	}

	diffs, err := client.GetSessionDiff(c.Context, c.Args().First())
	if err != nil {
		return exitErr(err)
	}

	if c.Bool("json") {
		if err := printJSON(os.Stdout, diffs); err != nil {
			return exitErr(err)
		}
		return nil
	}

	if len(diffs) == 0 {
		fmt.Println("No changes")
		return nil
	}
	w := newTable(os.Stdout)
	for _, d := range diffs {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			d.File,
			addStyle.Render(fmt.Sprintf("+%d", d.Additions)),
			delStyle.Render(fmt.Sprintf("-%d", d.Deletions)))
	}
	return w.Flush()
}
