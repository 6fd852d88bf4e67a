package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"userstream"
	"userstream/log"
	"userstream/users"
)

const commonOptions = `
	-config="userstream.yaml"	Configuration file
	-source=""	Data source name, the first configured one when empty`

// baseCommand carries the flags and plumbing every command shares.
type baseCommand struct {
	ctx        context.Context
	out        io.Writer
	configPath string
	source     string
	log        log.Logger
}

func (b *baseCommand) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&b.configPath, "config", "userstream.yaml", "config file")
	fs.StringVar(&b.source, "source", "", "data source name")
	return fs
}

// open loads the config and connects. Failures are logged and reported as exit code 1.
func (b *baseCommand) open() (*userstream.Client, bool) {
	cfg, err := userstream.LoadConfig(b.configPath)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error loading config: %s\n", err.Error())
		return nil, false
	}

	b.log = log.New("userstream")
	log.SetOutput(os.Stderr)
	log.SetLevel(log.ParseLevel(cfg.Log.Level))
	log.SetFormat(cfg.Log.Format)

	if b.source == "" && len(cfg.DataSources) > 0 {
		b.source = cfg.DataSources[0].Name
	}

	client, err := userstream.New(b.ctx, cfg, b.source, b.log)
	if err != nil {
		b.log.WithStack(err).Errorf("failed to open data source %s: %s", b.source, err)
		return nil, false
	}

	return client, true
}

func (b *baseCommand) close(client *userstream.Client) {
	if err := client.Close(b.ctx); err != nil {
		b.log.WithStack(err).Error(err)
	}
}

// fail logs err and returns the failure exit code.
func (b *baseCommand) fail(err error) int {
	b.log.With(b.ctx).WithStack(err).Error(err)
	return 1
}

func (b *baseCommand) printUser(u users.User) {
	_, _ = fmt.Fprintf(b.out, "%s\t%s\t%s\t%d\n", u.UserID, u.Name, u.Email, u.Age)
}
