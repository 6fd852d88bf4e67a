package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/mitchellh/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	exitCode, err := newCLI(ctx, os.Args[1:], os.Stdout).Run()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		stop()
		os.Exit(1)
	}

	stop()
	os.Exit(exitCode)
}

func newCLI(ctx context.Context, args []string, out io.Writer) *cli.CLI {
	base := func() *baseCommand {
		return &baseCommand{ctx: ctx, out: out}
	}

	commands := map[string]cli.CommandFactory{
		"seed": func() (cli.Command, error) {
			return &SeedCommand{baseCommand: base()}, nil
		},
		"stream": func() (cli.Command, error) {
			return &StreamCommand{baseCommand: base()}, nil
		},
		"batch": func() (cli.Command, error) {
			return &BatchCommand{baseCommand: base()}, nil
		},
		"paginate": func() (cli.Command, error) {
			return &PaginateCommand{baseCommand: base()}, nil
		},
		"average": func() (cli.Command, error) {
			return &AverageCommand{baseCommand: base()}, nil
		},
		"run": func() (cli.Command, error) {
			return &RunCommand{baseCommand: base()}, nil
		},
	}

	return &cli.CLI{
		Name:     "userstream",
		Args:     args,
		Commands: commands,
		HelpFunc: cli.BasicHelpFunc("userstream"),
	}
}
