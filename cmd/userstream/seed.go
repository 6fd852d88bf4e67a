package main

import (
	"fmt"
	"os"
	"strings"

	"userstream/seed"

	"github.com/pkg/errors"
)

type SeedCommand struct {
	*baseCommand
}

func (c *SeedCommand) Help() string {
	helpText := `
Usage: userstream seed [options]

  Creates the user table when missing and loads a CSV file with a
  name,email,age header into it. A table that already has rows is left alone.

Options:
` + commonOptions + `
	-csv="user_data.csv"	CSV file to load
	-write-sample	Write the sample data set to -csv first
`

	return strings.TrimSpace(helpText)
}

func (c *SeedCommand) Synopsis() string {
	return "Creates the user table and loads it from CSV"
}

func (c *SeedCommand) Run(args []string) int {
	var (
		csvPath     string
		writeSample bool
	)

	cmdFlags := c.flagSet("seed")
	cmdFlags.StringVar(&csvPath, "csv", "user_data.csv", "csv file")
	cmdFlags.BoolVar(&writeSample, "write-sample", false, "write the sample csv first")

	if err := cmdFlags.Parse(args); err != nil {
		return 1
	}

	if writeSample {
		if err := seed.WriteSample(csvPath); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error writing sample: %s\n", err.Error())
			return 1
		}
	}

	client, ok := c.open()
	if !ok {
		return 1
	}
	defer c.close(client)

	seeder := client.Seeder()
	if err := seeder.CreateTable(c.ctx); err != nil {
		return c.fail(err)
	}

	inserted, err := seeder.InsertFromCSV(c.ctx, csvPath)
	if err != nil {
		return c.fail(errors.Wrap(err, "failed to seed"))
	}

	_, _ = fmt.Fprintf(c.out, "inserted %d rows\n", inserted)
	return 0
}
