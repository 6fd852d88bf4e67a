package parser

import (
	"context"

	"github.com/VauntDev/tqla"
	"github.com/pkg/errors"
)

// Parser turns a templated query into a driver query and its positional arguments.
type Parser interface {
	Parse(ctx context.Context, query string, data map[string]any) (string, []any, error)
}

type compiler interface {
	Compile(statement string, data any) (string, []any, error)
}

type parser struct {
	tq compiler
}

// New returns a parser emitting `?` placeholders, understood by both mysql and sqlite3.
// Template actions such as `{{ .min_age }}` become placeholders, their values become args.
func New() Parser {

	tq, err := tqla.New()
	if err != nil {
		// tqla.New only fails on invalid options and none are given
		panic(errors.Wrap(err, "failed to init tqla"))
	}

	return &parser{tq: tq}

}

// Parse compiles query against data.
func (p *parser) Parse(_ context.Context, query string, data map[string]any) (string, []any, error) {

	if data == nil {
		data = map[string]any{}
	}

	compiled, args, err := p.tq.Compile(query, data)
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to compile query template")
	}

	return compiled, args, nil

}
