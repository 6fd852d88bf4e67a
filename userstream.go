// Package userstream is the client for streaming the user_data table. It opens a
// configured data source, exposes the streaming repository and the seeder, and runs
// named query files.
package userstream

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"userstream/log"
	"userstream/seed"
	"userstream/source"
	"userstream/trace"
	"userstream/users"

	"github.com/pkg/errors"
)

type Client struct {
	db      *source.DB
	cfg     *Config
	log     log.Logger
	runners map[string]string
	users   *users.Repository
	seeder  *seed.Seeder
}

// New opens the data source called datasourceName and loads the query files of cfg.Runner.
// The returned client owns the connection, Close releases it.
func New(ctx context.Context, cfg *Config, datasourceName string, logger log.Logger) (*Client, error) {

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}

	// find datasource by name
	ds, err := cfg.FindByName(datasourceName)
	if err != nil {
		return nil, err
	}

	// init runners
	runners, err := initRunners(cfg.Runner.Paths)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load runners")
	}

	// init data source
	db, err := openDataSource(ds, logger)
	if err != nil {
		return nil, err
	}

	repo, err := users.NewRepository(db, logger, users.Options{
		Table: cfg.Stream.Table,
		Sort:  cfg.Stream.Sort,
	})
	if err != nil {
		db.Close(ctx)
		return nil, err
	}

	seeder, err := seed.New(db, logger, seed.Options{Table: cfg.Stream.Table})
	if err != nil {
		db.Close(ctx)
		return nil, err
	}

	logger.WithParams(log.Params{"datasource": ds.Name, "runners": len(runners)}).Debug("client initialized")

	return &Client{
		db:      db,
		cfg:     cfg,
		log:     logger,
		runners: runners,
		users:   repo,
		seeder:  seeder,
	}, nil

}

// initRunners walks through directories, reads all files, and stores their content in a map.
// The map's key is the file name without the extension, and the value is the file's content.
func initRunners(paths []string) (map[string]string, error) {

	contentMap := make(map[string]string)

	for _, rootPath := range paths {
		err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}

			name := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))

			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if _, ok := contentMap[name]; ok {
				return errors.Errorf("runner %s is defined more than once", name)
			}

			contentMap[name] = string(content)
			return nil
		})

		if err != nil {
			return nil, err
		}
	}

	return contentMap, nil

}

// Config returns the normalized configuration the client was built with.
func (c *Client) Config() *Config {
	return c.cfg
}

// Users returns the user_data streaming repository.
func (c *Client) Users() *users.Repository {
	return c.users
}

// Seeder returns the seeder for the streamed table.
func (c *Client) Seeder() *seed.Seeder {
	return c.seeder
}

// Ping checks that the data source is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.db.Ping(ctx)
}

// Close closes the data source.
func (c *Client) Close(ctx context.Context) error {
	return c.db.Close(ctx)
}

// Run starts a runner for the query file named runner.
func (c *Client) Run(runner string) Runnerer {
	return c.newRunner(runner, false)
}

// WithTransaction runs callback in a transaction.
// The transaction is committed when callback returns a nil error, and rolled back when
// it returns an error or panics. Runners started from tx join the transaction.
func (c *Client) WithTransaction(ctx context.Context, callback TxFunc) (out any, err error) {

	ctx = trace.EnsureRequestID(ctx)

	c.log.With(ctx).Debug("beginning transaction")
	ctx, err = c.db.Begin(ctx)
	if err != nil {
		return nil, err
	}

	defer c.handleTransaction(ctx, c.db, &err)

	c.log.With(ctx).Debug("executing callback")
	out, err = callback(ctx, &Tx{client: c})

	return
}

// handleTransaction rolls back the transaction if a panic occurs or if *errIn is set,
// and commits it otherwise. A failed commit is reported through *errIn.
func (c *Client) handleTransaction(ctx context.Context, conn Transactioner, errIn *error) {

	if p := recover(); p != nil {

		c.log.With(ctx).Debug("panic occurred, rolling back transaction")

		if err := conn.Rollback(ctx); err != nil {
			c.log.With(ctx).WithStack(err).Error(err)
		}
		panic(p) // re-throw panic after Rollback

	} else if *errIn != nil {

		c.log.With(ctx).Debug("error occurred, rolling back transaction")

		if err := conn.Rollback(ctx); err != nil {
			c.log.With(ctx).WithStack(err).Error(err)
		}

	} else {

		c.log.With(ctx).Debug("committing transaction")

		if err := conn.Commit(ctx); err != nil {
			*errIn = err
		}

	}
}
