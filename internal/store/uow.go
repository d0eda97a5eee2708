package store

import (
	"context"
	"fmt"

	"github.com/htfilia/tradingboard/internal/bus"
	"github.com/htfilia/tradingboard/internal/trading"
)

// unitOfWork bundles the three repositories plus the execution publisher
// for one transactional scope (Design Notes §9).
type unitOfWork struct {
	accounts   *AccountRepository
	positions  *PositionRepository
	orders     *OrderRepository
	executions *ExecutionPublisher
}

func (u *unitOfWork) Accounts() trading.AccountRepository   { return u.accounts }
func (u *unitOfWork) Positions() trading.PositionRepository { return u.positions }
func (u *unitOfWork) Orders() trading.OrderRepository       { return u.orders }
func (u *unitOfWork) Executions() trading.ExecutionPublisher { return u.executions }

// UnitOfWorkRunner implements trading.UnitOfWorkRunner on top of a Mongo
// client session transaction, grounded in the teacher's
// persist.Snapshotter.Save (client.StartSession() + session.WithTransaction()).
type UnitOfWorkRunner struct {
	store *Store
	bus   bus.Stream
}

// NewUnitOfWorkRunner constructs a transactional runner against store's
// database, publishing execution events to the given stream.
func NewUnitOfWorkRunner(s *Store, b bus.Stream) *UnitOfWorkRunner {
	return &UnitOfWorkRunner{store: s, bus: b}
}

// RunInTransaction runs fn inside a MongoDB multi-document transaction:
// commit on normal return, abort on any returned error.
func (r *UnitOfWorkRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context, uow trading.UnitOfWork) error) error {
	session, err := r.store.Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	db := r.store.DB()
	uow := &unitOfWork{
		accounts:   NewAccountRepository(db),
		positions:  NewPositionRepository(db),
		orders:     NewOrderRepository(db),
		executions: NewExecutionPublisher(r.bus),
	}

	_, err = session.WithTransaction(ctx, func(sc context.Context) (any, error) {
		return nil, fn(sc, uow)
	})
	if err != nil {
		return err
	}
	return nil
}
