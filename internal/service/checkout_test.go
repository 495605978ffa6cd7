package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/workshop-studio/internal/model"
	"github.com/atelierhq/workshop-studio/internal/repository"
	"github.com/atelierhq/workshop-studio/internal/service"
	"github.com/atelierhq/workshop-studio/internal/service/servicetest"
)

func newCheckoutFixture(t *testing.T) (*servicetest.MemStore, *servicetest.RecordingNotifier, *service.CheckoutService) {
	t.Helper()
	store := servicetest.NewMemStore()
	notifier := servicetest.NewRecordingNotifier()
	return store, notifier, service.NewCheckoutService(store, notifier)
}

func TestCheckoutCreatesPaidOrder(t *testing.T) {
	store, notifier, svc := newCheckoutFixture(t)
	mug := store.AddProduct(model.Product{Name: "Stoneware Mug", PriceCents: 2200, Stock: 10, Active: true})
	bowl := store.AddProduct(model.Product{Name: "Ramen Bowl", PriceCents: 3600, Stock: 4, Active: true})

	order, err := svc.Checkout(context.Background(), "Ada Kline", "ada@example.com", []service.CartItem{
		{ProductID: mug.ID, Quantity: 2},
		{ProductID: bowl.ID, Quantity: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, model.OrderPaid, order.Status)
	assert.Equal(t, uint32(2*2200+3600), order.TotalCents)
	require.Len(t, order.Items, 2)
	assert.Equal(t, uint32(2200), order.Items[0].UnitPriceCents)

	assert.Equal(t, uint32(8), store.Product(mug.ID).Stock)
	assert.Equal(t, uint32(3), store.Product(bowl.ID).Stock)

	require.Eventually(t, func() bool { return notifier.OrderCount() == 1 },
		time.Second, 10*time.Millisecond)
}

func TestCheckoutMergesDuplicateLines(t *testing.T) {
	store, _, svc := newCheckoutFixture(t)
	mug := store.AddProduct(model.Product{Name: "Mug", PriceCents: 1000, Stock: 5, Active: true})

	order, err := svc.Checkout(context.Background(), "B", "b@example.com", []service.CartItem{
		{ProductID: mug.ID, Quantity: 2},
		{ProductID: mug.ID, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, uint32(3), order.Items[0].Quantity)
	assert.Equal(t, uint32(2), store.Product(mug.ID).Stock)
}

func TestCheckoutOutOfStockRollsBackEverything(t *testing.T) {
	store, notifier, svc := newCheckoutFixture(t)
	mug := store.AddProduct(model.Product{Name: "Mug", PriceCents: 1000, Stock: 10, Active: true})
	vase := store.AddProduct(model.Product{Name: "Vase", PriceCents: 5000, Stock: 1, Active: true})

	_, err := svc.Checkout(context.Background(), "C", "c@example.com", []service.CartItem{
		{ProductID: mug.ID, Quantity: 2},
		{ProductID: vase.ID, Quantity: 3},
	})
	require.ErrorIs(t, err, repository.ErrOutOfStock)

	// The mug decrement from the same cart must be undone.
	assert.Equal(t, uint32(10), store.Product(mug.ID).Stock)
	assert.Equal(t, uint32(1), store.Product(vase.ID).Stock)
	assert.Empty(t, store.Orders())
	assert.Empty(t, store.OrderItems())
	assert.Zero(t, notifier.OrderCount())
}

func TestCheckoutUnknownProduct(t *testing.T) {
	_, _, svc := newCheckoutFixture(t)
	_, err := svc.Checkout(context.Background(), "D", "d@example.com", []service.CartItem{
		{ProductID: 42, Quantity: 1},
	})
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestCheckoutValidation(t *testing.T) {
	store, _, svc := newCheckoutFixture(t)
	mug := store.AddProduct(model.Product{Name: "Mug", PriceCents: 1000, Stock: 5, Active: true})

	_, err := svc.Checkout(context.Background(), "", "e@example.com", []service.CartItem{{ProductID: mug.ID, Quantity: 1}})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	_, err = svc.Checkout(context.Background(), "E", "e@example.com", nil)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	_, err = svc.Checkout(context.Background(), "E", "e@example.com", []service.CartItem{{ProductID: mug.ID, Quantity: 0}})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestCheckoutConcurrentLastUnit(t *testing.T) {
	store, _, svc := newCheckoutFixture(t)
	vase := store.AddProduct(model.Product{Name: "Vase", PriceCents: 5000, Stock: 1, Active: true})

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Checkout(context.Background(), "Racer", "racer@example.com",
				[]service.CartItem{{ProductID: vase.ID, Quantity: 1}})
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, repository.ErrOutOfStock)
		}
	}
	assert.Equal(t, 1, won, "exactly one checkout may take the last unit")
	assert.Zero(t, store.Product(vase.ID).Stock)
	assert.Len(t, store.Orders(), 1)
}
