package main

import (
	"strings"

	"userstream"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// params collects repeated -param key=value flags.
type params map[string]interface{}

func (p params) String() string {
	pairs := make([]string, 0, len(p))
	for k, v := range p {
		pairs = append(pairs, k+"="+v.(string))
	}
	return strings.Join(pairs, ",")
}

func (p params) Set(value string) error {
	key, val, ok := strings.Cut(value, "=")
	if !ok || key == "" {
		return errors.Errorf("param %q is not key=value", value)
	}
	p[key] = val
	return nil
}

type RunCommand struct {
	*baseCommand
}

func (c *RunCommand) Help() string {
	helpText := `
Usage: userstream run -query=<code> [options]

  Runs a named query file from the configured runner paths and prints
  the rows as YAML.

Options:
` + commonOptions + `
	-query=""	Query code, the file name without extension
	-param=key=value	Query parameter, may be repeated
	-sort=""	Sort key, "+col" or "-col"
	-limit=0	Page size, requires -sort
	-offset=0	Page offset, requires -sort
`

	return strings.TrimSpace(helpText)
}

func (c *RunCommand) Synopsis() string {
	return "Runs a named query"
}

func (c *RunCommand) Run(args []string) int {
	var (
		query         string
		sort          string
		limit, offset int
		queryParams   = params{}
	)

	cmdFlags := c.flagSet("run")
	cmdFlags.StringVar(&query, "query", "", "query code")
	cmdFlags.StringVar(&sort, "sort", "", "sort key")
	cmdFlags.IntVar(&limit, "limit", 0, "page size")
	cmdFlags.IntVar(&offset, "offset", 0, "page offset")
	cmdFlags.Var(queryParams, "param", "key=value")

	if err := cmdFlags.Parse(args); err != nil {
		return 1
	}

	client, ok := c.open()
	if !ok {
		return 1
	}
	defer c.close(client)

	if query == "" {
		return c.fail(errors.New("-query is required"))
	}

	var rows []map[string]interface{}

	runner := client.Run(query).WithParams(map[string]interface{}(queryParams))
	if sort != "" {
		runner = runner.WithSorting(sort)
	}
	if limit > 0 || offset > 0 {
		runner = runner.WithPaging(userstream.NewPaging(limit, offset))
	}

	if _, err := runner.ScanMaps(&rows).Execute(c.ctx); err != nil {
		return c.fail(err)
	}

	enc := yaml.NewEncoder(c.out)
	defer enc.Close()

	if err := enc.Encode(rows); err != nil {
		return c.fail(err)
	}
	return 0
}
