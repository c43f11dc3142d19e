package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/tylium-run/oc-cli/internal/api"
	"github.com/tylium-run/oc-cli/internal/waiter"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Send a prompt and stream the session until it finishes",
		ArgsUsage: "[prompt]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "session",
				Aliases: []string{"s"},
				Usage:   "Reuse an existing session instead of creating one",
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "Title for the created session",
			},
			&cli.StringFlag{
				Name:    "model",
				Aliases: []string{"m"},
				Usage:   "Model as provider/model",
			},
			&cli.StringFlag{
				Name:  "agent",
				Usage: "Agent to handle the prompt",
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Read the prompt from a file",
			},
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
				Name:  "json",
				Usage: "Print the outcome as JSON (transcript goes to stderr)",
			},
		},
		Action: runRun,
	}
}

func runRun(c *cli.Context) error {
	prompt, err := readPrompt(c)
	if err != nil {
		return cli.Exit("Error: "+err.Error(), exitCodeUsage)
	}

	req := &api.PromptRequest{
		MessageID: api.String(uuid.New().String()),
		Parts: []interface{}{
			api.TextPartInput{Type: "text", Text: prompt},
		},
	}
	if m := c.String("model"); m != "" {
		provider, model, ok := strings.Cut(m, "/")
		if !ok || provider == "" || model == "" {
			return cli.Exit("Error: --model expects provider/model", exitCodeUsage)
		}
		req.Model = &api.ModelInfo{ProviderID: provider, ModelID: model}
	}
	if agent := c.String("agent"); agent != "" {
		req.Agent = api.String(agent)
	}

	client, err := newClient(c)
	if err != nil {
		return exitErr(err)
	}

	session, err := resolveSession(c, client)
	if err != nil {
		return exitErr(err)
	}

	quiet := c.Bool("quiet")
	jsonOut := c.Bool("json")

	opts := waiter.Options{
		Timeout:     c.Duration("timeout"),
		AutoApprove: c.Bool("auto-approve"),
		Pretty:      true,
	}
	switch {
	case quiet:
	case jsonOut:
		opts.Mirror = os.Stderr
	default:
		opts.Mirror = os.Stdout
	}

	if opts.Mirror != nil {
		line := dimStyle.Render(session.ID)
		if session.Title != "" {
			line = session.Title + " " + line
		}
		fmt.Fprintln(opts.Mirror, line)
	}

	// Subscribe before dispatching so the first events are never missed. A
	// failed dispatch cancels the wait with its error as the cause.
	runCtx, cancel := context.WithCancelCause(c.Context)
	defer cancel(nil)

	w, err := waiter.New(runCtx, client, session.ID, opts)
	if err != nil {
		return exitErr(err)
	}
	go func() {
		if _, err := client.SendPrompt(runCtx, session.ID, req); err != nil {
			cancel(fmt.Errorf("send prompt: %w", err))
		}
	}()

	res, err := w.Wait()
	if err != nil {
		return exitErr(err)
	}

	if jsonOut {
		if err := printJSON(os.Stdout, waitReport{SessionID: session.ID, Status: res.Status, Error: res.Err}); err != nil {
			return exitErr(err)
		}
	}
	return exitResult(res)
}

// resolveSession reuses the session named by --session or creates a fresh
// one.
func resolveSession(c *cli.Context, client *api.Client) (*api.Session, error) {
	if id := c.String("session"); id != "" {
		return client.GetSession(c.Context, id)
	}

	req := &api.CreateSessionRequest{}
	if title := c.String("title"); title != "" {
		req.Title = api.String(title)
	}
	return client.CreateSession(c.Context, req)
}
