package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/domain/cart"
	"storefront/domain/catalog"
	"storefront/domain/order"
	"storefront/domain/shared"
	"storefront/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()

	a, err := user.NewAccount(user.Credentials{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, a))

	dup, err := user.NewAccount(user.Credentials{Username: "ALICE", Email: "other@example.com", Password: "secret1"})
	require.NoError(t, err)
	err = repo.Save(ctx, dup)
	assert.True(t, errors.Is(err, shared.ErrConflict))

	found, err := repo.FindByUsername(ctx, "Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, a.ID, found.ID)
	assert.True(t, found.CheckPassword("secret1"))

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestOrderNumbersAndHistoryOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	line := cart.Line{ProductID: "t7", Name: "Volt USB-C Charger", Price: 29.99, Quantity: 1}

	for i := 0; i < 3; i++ {
		id, err := repo.NextIdentity(ctx)
		require.NoError(t, err)
		o, err := order.New(id, base.Add(time.Duration(i)*time.Hour), []cart.Line{line}, 29.99, order.StatusProcessing)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, order.Placement{Order: o, UserID: "u1"}))
	}

	history, err := repo.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "1003", history[0].Order.ID)
	assert.Equal(t, "1001", history[2].Order.ID)

	p, err := repo.FindByID(ctx, "1002")
	require.NoError(t, err)
	p.Order.Items[0].Quantity = 99
	again, _ := repo.FindByID(ctx, "1002")
	assert.Equal(t, 1, again.Order.Items[0].Quantity)
}

func TestProductSearch(t *testing.T) {
	repo := NewProductRepository(catalog.SampleProducts())
	f := catalog.DefaultFilter()
	f.Category = "Laptops"
	f.Sort = catalog.SortByPriceHigh

	got, err := repo.Search(context.Background(), f)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "t4", got[0].ID)
}

func TestUnitOfWorkPublishesOnlyOnSuccess(t *testing.T) {
	bus := shared.NewEventBus()
	var seen []string
	require.NoError(t, bus.Subscribe("test.happened", shared.NewFuncHandler("rec", func(e shared.DomainEvent) error {
		seen = append(seen, e.GetAggregateID())
		return nil
	})))
	uow := NewUnitOfWork(bus, nil)

	err := uow.Execute(context.Background(), func(ctx context.Context) error {
		uow.Collect(ctx, shared.NewBaseEvent("test.happened", "a"))
		return errors.New("boom")
	})
	require.Error(t, err)
	assert.Empty(t, seen)

	err = uow.Execute(context.Background(), func(ctx context.Context) error {
		uow.Collect(ctx, shared.NewBaseEvent("test.happened", "b"))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, seen)
}
