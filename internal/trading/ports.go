package trading

import "context"

// AccountRepository is the capability the order service needs from account
// storage. Get returns (nil, nil) when no account exists for the user.
type AccountRepository interface {
	Get(ctx context.Context, userID string) (*Account, error)
	Update(ctx context.Context, a *Account) error
}

// PositionRepository is the capability the order service needs from
// position storage. Get returns (nil, nil) when no position exists.
type PositionRepository interface {
	Get(ctx context.Context, userID, instrumentID string) (*Position, error)
	Upsert(ctx context.Context, p *Position) error
}

// OrderRepository persists order records, insert-idempotent on order_id
// with on-conflict-update (spec §5).
type OrderRepository interface {
	Upsert(ctx context.Context, o *Order) error
}

// ExecutionPublisher emits execution events to the execution stream.
type ExecutionPublisher interface {
	Publish(ctx context.Context, ev ExecutionEvent) error
}

// UnitOfWork carries the three sub-repositories plus the execution
// publisher for one transactional scope (Design Notes §9).
type UnitOfWork interface {
	Accounts() AccountRepository
	Positions() PositionRepository
	Orders() OrderRepository
	Executions() ExecutionPublisher
}

// UnitOfWorkRunner runs fn inside a transactional scope: commit on normal
// return, rollback on any returned error. Implementations may wrap a
// single-connection database transaction; tests substitute an in-memory
// double.
type UnitOfWorkRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context, uow UnitOfWork) error) error
}

// BookSource resolves the current order-book snapshot for an instrument.
// Implementations return an error satisfying errors.Is(err,
// ErrInstrumentNotFound) when no snapshot has ever been published.
type BookSource interface {
	GetOrderBook(ctx context.Context, instrumentID string) (ListedInstrumentBook, error)
}
