package order

import (
	"context"
	"testing"

	"travelagency/internal/database"
	"travelagency/internal/domain"
	"travelagency/internal/pkg/logger"
	"travelagency/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService(t *testing.T) (*Service, []int64) {
	t.Helper()
	db, err := database.Connect(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	consumables := repository.NewCrudRepository[domain.Consumable](db)
	var ids []int64
	for _, c := range []domain.Consumable{
		{Name: "Travel kit", Price: 75000, Stock: 10},
		{Name: "Lunch box", Price: 40000, Stock: 50},
	} {
		require.NoError(t, consumables.Create(context.Background(), &c))
		ids = append(ids, c.ID)
	}
	return NewService(repository.NewOrderRepository(db), consumables, logger.Discard()), ids
}

func TestCreate_PricesFromCatalog(t *testing.T) {
	svc, ids := setupService(t)

	o, err := svc.Create(context.Background(), 7, CreateOrderRequest{Items: []ItemRequest{
		{ConsumableID: ids[0], Quantity: 1},
		{ConsumableID: ids[1], Quantity: 2},
		{ConsumableID: ids[0], Quantity: 1},
	}})
	require.NoError(t, err)
	assert.Equal(t, int64(2*75000+2*40000), o.TotalAmount)
	require.Len(t, o.Items, 2)
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.Equal(t, domain.OrderPending, o.Status)

	mine, err := svc.ListMine(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Len(t, mine[0].Items, 2)

	others, err := svc.ListMine(context.Background(), 8)
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestCreate_UnknownConsumable(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Create(context.Background(), 7, CreateOrderRequest{Items: []ItemRequest{{ConsumableID: 999, Quantity: 1}}})
	assert.ErrorIs(t, err, ErrConsumableNotFound)
}

func TestUpdateStatus(t *testing.T) {
	svc, ids := setupService(t)
	o, err := svc.Create(context.Background(), 7, CreateOrderRequest{Items: []ItemRequest{{ConsumableID: ids[1], Quantity: 1}}})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), o.ID, "pending")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	got, err := svc.UpdateStatus(context.Background(), o.ID, "paid")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPaid, got.Status)

	_, err = svc.UpdateStatus(context.Background(), o.ID, "cancelled")
	assert.ErrorIs(t, err, ErrAlreadyClosed)

	_, err = svc.UpdateStatus(context.Background(), 12345, "paid")
	assert.ErrorIs(t, err, ErrNotFound)
}
