package task

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/offload-api/internal/domain"
	"github.com/phrazzld/offload-api/internal/platform/memory"
	"github.com/phrazzld/offload-api/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStoreContext() *StoreContext {
	mem := memory.NewStore()
	return &StoreContext{
		Persons:  mem,
		Products: mem,
		Logger:   discardLogger(),
		Timeout:  time.Second,
	}
}

func TestHandlePerson(t *testing.T) {
	t.Parallel()

	sc := newStoreContext()
	ctx := context.Background()
	id, _ := domain.NewPersonID("1")

	get := NewGetPerson(id)
	HandlePerson(sc, get)
	_, err := get.Reply.Wait(ctx)
	assert.ErrorIs(t, err, store.ErrPersonNotFound)

	person, _ := domain.NewPerson(id, "Linus")
	save := NewSavePerson(person)
	HandlePerson(sc, save)
	saved, err := save.Reply.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, person, saved)

	get = NewGetPerson(id)
	HandlePerson(sc, get)
	got, err := get.Reply.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Linus", got.Name)

	assert.Equal(t, uint64(3), sc.Processed)
}

func TestHandlePerson_InvalidSave(t *testing.T) {
	t.Parallel()

	sc := newStoreContext()
	id, _ := domain.NewPersonID("1")

	save := NewSavePerson(&domain.Person{ID: id})
	HandlePerson(sc, save)

	saved, err := save.Reply.Wait(context.Background())
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.Nil(t, saved)
}

func TestHandleProduct(t *testing.T) {
	t.Parallel()

	sc := newStoreContext()
	ctx := context.Background()
	id, _ := domain.NewProductID("sku")
	price, _ := domain.NewPrice(2)
	product, _ := domain.NewProduct(id, "Tea", "", price)

	save := NewSaveProduct(product)
	HandleProduct(sc, save)
	_, err := save.Reply.Wait(ctx)
	require.NoError(t, err)

	get := NewGetProduct(id)
	HandleProduct(sc, get)
	got, err := get.Reply.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, product, got)
}

func TestHandle_UnknownOp(t *testing.T) {
	t.Parallel()

	sc := newStoreContext()
	id, _ := domain.NewProductID("sku")

	msg := NewGetProduct(id)
	msg.Op = "delete"
	HandleProduct(sc, msg)

	_, err := msg.Reply.Wait(context.Background())
	assert.ErrorIs(t, err, ErrUnknownOp)

	pid, _ := domain.NewPersonID("p")
	pmsg := NewGetPerson(pid)
	pmsg.Op = "delete"
	HandlePerson(sc, pmsg)

	_, err = pmsg.Reply.Wait(context.Background())
	assert.ErrorIs(t, err, ErrUnknownOp)
}

func TestHandlePerson_OperationTimeout(t *testing.T) {
	t.Parallel()

	blocking := newBlockingPersonStore()
	defer blocking.release()

	sc := newStoreContext()
	sc.Persons = blocking
	sc.Timeout = 10 * time.Millisecond

	id, _ := domain.NewPersonID("1")
	msg := NewGetPerson(id)
	HandlePerson(sc, msg)

	_, err := msg.Reply.Wait(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
