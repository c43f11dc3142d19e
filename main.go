package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/tylium-run/oc-cli/internal/api"
	"github.com/tylium-run/oc-cli/internal/config"
	"github.com/tylium-run/oc-cli/internal/waiter"
)

// Exit codes form the scripting contract: waiting commands resolve to one of
// the first five, so outcomes stay distinguishable without parsing output.
const (
	exitCodeOK           = 0
	exitCodeSessionError = 1
	exitCodeTimeout      = 2
	exitCodeTransport    = 3
	exitCodeNotFound     = 4
	exitCodeUsage        = 64
	exitCodeInterrupt    = 130
)

var version = "dev"

func main() {
	_ = godotenv.Load()
	api.SetLogger(api.NewLoggerFromEnv())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		// Exit-coded errors terminate inside RunContext; only flag parsing
		// and similar failures reach here.
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "oc",
		Usage:   "Drive sessions on an OpenCode-compatible server",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "server",
				Usage: "Server base URL",
			},
			&cli.StringFlag{
				Name:    "profile",
				Aliases: []string{"p"},
				Usage:   "Named profile from the config file",
			},
			&cli.StringFlag{
				Name:    "directory",
				Aliases: []string{"C"},
				Usage:   "Working directory sent with every request",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Config file path",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress transcript and status output",
			},
		},
		Commands: []*cli.Command{
			runCommand(),
			waitCommand(),
			statusCommand(),
			watchCommand(),
			sessionCommand(),
			permissionCommand(),
			questionCommand(),
			profileCommand(),
		},
	}
}

// newClient resolves connection settings from flags, environment, and the
// profile file, and builds the API client.
func newClient(c *cli.Context) (*api.Client, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	settings, err := cfg.Resolve(c.String("server"), c.String("profile"), c.String("directory"))
	if err != nil {
		return nil, err
	}

	var opts []api.ClientOption
	if settings.Directory != "" {
		opts = append(opts, api.WithDirectory(settings.Directory))
	}
	return api.NewClient(settings.Server, opts...), nil
}

// exitErr maps a command failure onto the exit-code contract. Interrupts
// exit quietly; a missing session is distinguished from connectivity
// failure.
func exitErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return cli.Exit("", exitCodeInterrupt)
	case api.IsNotFound(err):
		return cli.Exit("Error: "+err.Error(), exitCodeNotFound)
	default:
		return cli.Exit("Error: "+err.Error(), exitCodeTransport)
	}
}

// exitResult maps a wait outcome onto the exit-code contract: nil for idle,
// exit-coded errors for the rest.
func exitResult(res *waiter.Result) error {
	switch res.Status {
	case waiter.StatusIdle:
		return nil
	case waiter.StatusTimeout:
		return cli.Exit("Error: "+res.Err, exitCodeTimeout)
	default:
		return cli.Exit("Error: "+res.Err, exitCodeSessionError)
	}
}

func requireArgs(c *cli.Context, n int, usage string) error {
	if c.NArg() != n {
		return cli.Exit(fmt.Sprintf("usage: oc %s", usage), exitCodeUsage)
	}
	return nil
}
