package main

import (
	"flag"
	"fmt"
	"strings"

	"userstream/stream"
	"userstream/users"
)

type StreamCommand struct {
	*baseCommand
}

func (c *StreamCommand) Help() string {
	helpText := `
Usage: userstream stream [options]

  Streams users one row at a time, in sort key order.

Options:
` + commonOptions + `
	-limit=0	Stop after this many rows, 0 streams all of them
`

	return strings.TrimSpace(helpText)
}

func (c *StreamCommand) Synopsis() string {
	return "Streams users row by row"
}

func (c *StreamCommand) Run(args []string) int {
	var limit int

	cmdFlags := c.flagSet("stream")
	cmdFlags.IntVar(&limit, "limit", 0, "max rows")

	if err := cmdFlags.Parse(args); err != nil {
		return 1
	}

	client, ok := c.open()
	if !ok {
		return 1
	}
	defer c.close(client)

	rows, err := client.Users().StreamUsers(c.ctx)
	if err != nil {
		return c.fail(err)
	}

	return c.drain(rows, limit)
}

// drain prints up to limit users from it, all of them when limit is 0, and closes it.
func (c *baseCommand) drain(it stream.Iterator[users.User], limit int) int {
	defer it.Close()

	n := 0
	for (limit == 0 || n < limit) && it.Next(c.ctx) {
		c.printUser(it.Value())
		n++
	}

	if err := it.Err(); err != nil {
		return c.fail(err)
	}
	return 0
}

type BatchCommand struct {
	*baseCommand
}

func (c *BatchCommand) Help() string {
	helpText := `
Usage: userstream batch [options]

  Streams users in batches and prints those older than -min-age.

Options:
` + commonOptions + `
	-size=0	Batch size, the configured page size when 0
	-min-age=N	Age threshold, the configured one when not given
`

	return strings.TrimSpace(helpText)
}

func (c *BatchCommand) Synopsis() string {
	return "Streams users in batches, filtered by age"
}

func (c *BatchCommand) Run(args []string) int {
	var size, minAge int

	cmdFlags := c.flagSet("batch")
	cmdFlags.IntVar(&size, "size", 0, "batch size")
	cmdFlags.IntVar(&minAge, "min-age", 0, "age threshold")

	if err := cmdFlags.Parse(args); err != nil {
		return 1
	}

	minAgeSet := false
	cmdFlags.Visit(func(f *flag.Flag) {
		if f.Name == "min-age" {
			minAgeSet = true
		}
	})

	client, ok := c.open()
	if !ok {
		return 1
	}
	defer c.close(client)

	cfg := client.Config().Stream
	if size == 0 {
		size = cfg.PageSize
	}
	if !minAgeSet {
		minAge = cfg.AgeThreshold()
	}

	filtered, err := client.Users().BatchProcessing(c.ctx, size, minAge)
	if err != nil {
		return c.fail(err)
	}

	return c.drain(filtered, 0)
}

type PaginateCommand struct {
	*baseCommand
}

func (c *PaginateCommand) Help() string {
	helpText := `
Usage: userstream paginate [options]

  Fetches users page by page with LIMIT/OFFSET, one query per page.

Options:
` + commonOptions + `
	-size=0	Page size, the configured one when 0
`

	return strings.TrimSpace(helpText)
}

func (c *PaginateCommand) Synopsis() string {
	return "Lazily paginates users"
}

func (c *PaginateCommand) Run(args []string) int {
	var size int

	cmdFlags := c.flagSet("paginate")
	cmdFlags.IntVar(&size, "size", 0, "page size")

	if err := cmdFlags.Parse(args); err != nil {
		return 1
	}

	client, ok := c.open()
	if !ok {
		return 1
	}
	defer c.close(client)

	if size == 0 {
		size = client.Config().Stream.PageSize
	}

	pages, err := client.Users().LazyPaginate(size)
	if err != nil {
		return c.fail(err)
	}
	defer pages.Close()

	for pages.Next(c.ctx) {
		page := pages.Value()
		_, _ = fmt.Fprintf(c.out, "# page offset=%d rows=%d\n", page.Offset, page.Len())
		for _, u := range page.Rows {
			c.printUser(u)
		}
	}

	if err := pages.Err(); err != nil {
		return c.fail(err)
	}
	return 0
}

type AverageCommand struct {
	*baseCommand
}

func (c *AverageCommand) Help() string {
	helpText := `
Usage: userstream average [options]

  Computes the average user age in a single streaming pass.

Options:
` + commonOptions + `
`

	return strings.TrimSpace(helpText)
}

func (c *AverageCommand) Synopsis() string {
	return "Prints the average user age"
}

func (c *AverageCommand) Run(args []string) int {
	cmdFlags := c.flagSet("average")

	if err := cmdFlags.Parse(args); err != nil {
		return 1
	}

	client, ok := c.open()
	if !ok {
		return 1
	}
	defer c.close(client)

	stats, err := client.Users().AverageAge(c.ctx)
	if err != nil {
		return c.fail(err)
	}

	_, _ = fmt.Fprintf(c.out, "Average age of users: %.2f\n", stats.Average)
	return 0
}
