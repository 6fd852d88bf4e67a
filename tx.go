package userstream

import (
	"context"
)

// TxFunc is the body of Client.WithTransaction. Returning an error rolls the transaction back.
type TxFunc func(ctx context.Context, tx *Tx) (out any, err error)

// Tx hands out runners bound to the transaction opened by Client.WithTransaction.
// They must be executed with the context passed to the TxFunc, which carries the transaction.
type Tx struct {
	client *Client
}

// Run starts a runner for the query file named runnerCode inside the transaction.
func (t *Tx) Run(runnerCode string) Runnerer {
	return t.client.newRunner(runnerCode, true)
}
