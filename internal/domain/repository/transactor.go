package repository

import (
	"context"
	"sync"
)

// Transactor runs fn so that every repository call made with the context it
// receives commits together or not at all.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type inTxKey struct{}

// txState is carried by a transaction context
type txState struct {
	mu          sync.Mutex
	afterCommit []func(ctx context.Context)
}

// MarkInTransaction flags ctx as running inside WithinTransaction
func MarkInTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, inTxKey{}, &txState{})
}

// InTransaction reports whether ctx was handed out by a Transactor.
// Caches use it to avoid storing uncommitted reads.
func InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(inTxKey{}).(*txState)
	return ok
}

// AfterCommit defers fn until the transaction carrying ctx commits. Outside
// a transaction fn runs immediately. Hooks of a rolled back transaction are
// dropped.
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	st, ok := ctx.Value(inTxKey{}).(*txState)
	if !ok {
		fn(ctx)
		return
	}
	st.mu.Lock()
	st.afterCommit = append(st.afterCommit, fn)
	st.mu.Unlock()
}

// RunAfterCommit runs the hooks registered on txCtx with ctx, the context
// the transaction was started from. Transactors call it once the commit
// has succeeded.
func RunAfterCommit(txCtx, ctx context.Context) {
	st, ok := txCtx.Value(inTxKey{}).(*txState)
	if !ok {
		return
	}
	st.mu.Lock()
	hooks := st.afterCommit
	st.afterCommit = nil
	st.mu.Unlock()

	for _, fn := range hooks {
		fn(ctx)
	}
}
