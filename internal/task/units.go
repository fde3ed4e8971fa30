package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/offload-api/internal/domain"
	"github.com/phrazzld/offload-api/internal/store"
)

// ErrUnknownOp is returned through the reply when a message carries an op
// the worker does not understand.
var ErrUnknownOp = errors.New("unknown operation")

// StoreContext is the state a store worker owns. Only the worker goroutine
// touches it.
type StoreContext struct {
	Persons  store.PersonStore
	Products store.ProductStore
	Logger   *slog.Logger
	// Timeout bounds each store call. Zero means no bound.
	Timeout time.Duration
	// Processed counts handled messages.
	Processed uint64
}

func (sc *StoreContext) opContext() (context.Context, context.CancelFunc) {
	if sc.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), sc.Timeout)
}

func (sc *StoreContext) logResult(entity string, id fmt.Stringer, op Op, msgID fmt.Stringer, err error) {
	sc.Processed++

	logger := sc.Logger.With(
		"message_id", msgID.String(),
		"entity", entity,
		"entity_id", id.String(),
		"op", string(op),
		"processed", sc.Processed,
	)

	switch {
	case err == nil, store.IsNotFoundError(err), errors.Is(err, store.ErrInvalidEntity):
		logger.Debug("handled message", "error", err)
	default:
		logger.Warn("store command failed", "error", err)
	}
}

// HandlePerson runs the person command in msg and completes its reply.
func HandlePerson(sc *StoreContext, msg PersonMessage) {
	ctx, cancel := sc.opContext()
	defer cancel()

	var err error
	switch msg.Op {
	case OpGet:
		var person *domain.Person
		person, err = sc.Persons.GetPerson(ctx, msg.PersonID)
		msg.Reply.Complete(person, err)
	case OpSave:
		err = sc.Persons.SavePerson(ctx, msg.Person)
		if err != nil {
			msg.Reply.Complete(nil, err)
		} else {
			msg.Reply.Complete(msg.Person, nil)
		}
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownOp, msg.Op)
		msg.Reply.Complete(nil, err)
	}

	sc.logResult("person", msg.PersonID, msg.Op, msg.ID, err)
}

// HandleProduct runs the product command in msg and completes its reply.
func HandleProduct(sc *StoreContext, msg ProductMessage) {
	ctx, cancel := sc.opContext()
	defer cancel()

	var err error
	switch msg.Op {
	case OpGet:
		var product *domain.Product
		product, err = sc.Products.GetProduct(ctx, msg.ProductID)
		msg.Reply.Complete(product, err)
	case OpSave:
		err = sc.Products.SaveProduct(ctx, msg.Product)
		if err != nil {
			msg.Reply.Complete(nil, err)
		} else {
			msg.Reply.Complete(msg.Product, nil)
		}
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownOp, msg.Op)
		msg.Reply.Complete(nil, err)
	}

	sc.logResult("product", msg.ProductID, msg.Op, msg.ID, err)
}
