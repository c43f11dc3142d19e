package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tylium-run/oc-cli/internal/waiter"
)

func waitCommand() *cli.Command {
	return &cli.Command{
		Name:      "wait",
		Usage:     "Block until a session goes idle",
		ArgsUsage: "<session-id>",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:    "timeout",
				Aliases: []string{"t"},
				Usage:   "Give up after this long (0 = no timeout)",
			},
			&cli.BoolFlag{
				Name:  "auto-approve",
				Usage: "Reply \"always\" to every permission request",
			},
			&cli.BoolFlag{
				Name:  "events",
				Usage: "Mirror raw JSON event lines while waiting",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Mirror the formatted transcript while waiting",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the outcome as JSON",
			},
		},
		Action: runWait,
	}
}

func runWait(c *cli.Context) error {
	if err := requireArgs(c, 1, "wait <session-id>"); err != nil {
		return err
	}
	sessionID := c.Args().First()

	client, err := newClient(c)
	if err != nil {
		return exitErr(err)
	}

	// Already-idle sessions resolve without opening a subscription.
	status, err := waiter.CheckSessionStatus(c.Context, client, sessionID)
	if err != nil {
		return exitErr(err)
	}
	if status.IsIdle() {
		return reportWait(c, sessionID, &waiter.Result{Status: waiter.StatusIdle})
	}

	opts := waiter.Options{
		Timeout:     c.Duration("timeout"),
		AutoApprove: c.Bool("auto-approve"),
	}
	var mirror io.Writer
	switch {
	case c.Bool("pretty"):
		mirror, opts.Pretty = os.Stdout, true
	case c.Bool("events"):
		mirror = os.Stdout
	}
	if mirror != nil {
		if c.Bool("json") {
			mirror = os.Stderr
		}
		opts.Mirror = mirror
	}

	res, err := waiter.WaitForSession(c.Context, client, sessionID, opts)
	if err != nil {
		return exitErr(err)
	}
	return reportWait(c, sessionID, res)
}

func reportWait(c *cli.Context, sessionID string, res *waiter.Result) error {
	switch {
	case c.Bool("json"):
		if err := printJSON(os.Stdout, waitReport{SessionID: sessionID, Status: res.Status, Error: res.Err}); err != nil {
			return exitErr(err)
		}
	case res.Status == waiter.StatusIdle && !c.Bool("quiet"):
		fmt.Println("Session idle")
	}
	return exitResult(res)
}
