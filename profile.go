package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tylium-run/oc-cli/internal/config"
)

func profileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Inspect configured server profiles",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List profile names",
				Action:  runProfileList,
			},
			{
				Name:      "show",
				Usage:     "Show a profile (the default one when no name is given)",
				ArgsUsage: "[name]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print as JSON",
					},
				},
				Action: runProfileShow,
			},
		},
	}
}

func runProfileList(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return exitErr(err)
	}

	for _, name := range cfg.Names() {
		if name == cfg.Default {
			fmt.Println(name, dimStyle.Render("(default)"))
		} else {
			fmt.Println(name)
		}
	}
	return nil
}

func runProfileShow(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return exitErr(err)
	}

	name := c.Args().First()
	profile, ok := cfg.Lookup(name)
	if !ok {
		if name == "" {
			name = cfg.Default
		}
		return cli.Exit(fmt.Sprintf("Error: unknown profile %q", name), exitCodeUsage)
	}

	if c.Bool("json") {
		if err := printJSON(os.Stdout, profile); err != nil {
			return exitErr(err)
		}
		return nil
	}

	w := newTable(os.Stdout)
	fmt.Fprintf(w, "Server\t%s\n", profile.Server)
	if profile.Directory != "" {
		fmt.Fprintf(w, "Directory\t%s\n", profile.Directory)
	}
	return w.Flush()
}
