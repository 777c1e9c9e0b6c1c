package lxdops

import (
	"context"

	lxd "github.com/lxc/lxd/client"
)

// OperationTimeout waits for an LXD operation to finish, cancelling it
// if the context expires first.
func OperationTimeout(ctx context.Context, op lxd.Operation) error {
	done := make(chan error, 1)
	go func() {
		done <- op.Wait()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		op.Cancel()
		return ctx.Err()
	}
}
