package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tylium-run/oc-cli/internal/render"
)

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Render the live event stream until interrupted",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "session",
				Aliases: []string{"s"},
				Usage:   "Only show events for this session",
			},
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "Print raw JSON event lines",
			},
		},
		Action: runWatch,
	}
}

func runWatch(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return exitErr(err)
	}

	events, errs, err := client.SubscribeEvents(c.Context)
	if err != nil {
		return exitErr(err)
	}

	sessionID := c.String("session")
	raw := c.Bool("raw")
	renderer := render.New(os.Stdout)
	defer renderer.Flush()

	for {
		select {
		case <-c.Context.Done():
			return nil

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			return exitErr(fmt.Errorf("event stream: %w", err))

		case ev, ok := <-events:
			if !ok {
				renderer.Flush()
				if !c.Bool("quiet") {
					fmt.Fprintln(os.Stderr, "Stream closed")
				}
				return nil
			}
			if sessionID != "" && !render.MatchesSession(ev, sessionID) {
				continue
			}
			if raw {
				line, err := json.Marshal(ev)
				if err != nil {
					continue
				}
				fmt.Println(string(line))
			} else {
				renderer.Render(ev)
			}
		}
	}
}
