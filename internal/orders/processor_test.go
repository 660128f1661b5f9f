package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakehouse/internal/bakery"
	"bakehouse/internal/inventory"
	"bakehouse/internal/models"
)

type fixture struct {
	state     *bakery.State
	ledger    *inventory.Ledger
	processor *Processor
	now       time.Time
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	f := &fixture{
		state: bakery.NewState(),
		now:   time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC),
	}
	f.ledger = inventory.NewLedger(f.state, nil)
	cfg.Now = func() time.Time { return f.now }
	f.processor = NewProcessor(f.state, f.ledger, nil, cfg)
	return f
}

// bread returns a Bread product whose recipe takes 2 kg of the given
// flour per unit.
func (f *fixture) bread(t *testing.T, flourID string) *models.Product {
	t.Helper()
	prod, err := f.processor.AddProduct("Bread", 3.5, []models.RecipeLine{
		{IngredientID: flourID, Quantity: 2},
	}, 0)
	require.NoError(t, err)
	return prod
}

func TestAddProduct(t *testing.T) {
	f := newFixture(t, Config{})
	flour, err := f.ledger.AddIngredient("Flour", 10, "kg", 2)
	require.NoError(t, err)

	prod := f.bread(t, flour.ID)
	assert.Contains(t, f.state.Products, prod.ID)

	_, err = f.processor.AddProduct("Cake", 12, []models.RecipeLine{
		{IngredientID: "ghost", Quantity: 1},
	}, 0)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.processor.AddProduct("Mystery", 5, nil, 0)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRestockProduct(t *testing.T) {
	f := newFixture(t, Config{})
	flour, err := f.ledger.AddIngredient("Flour", 10, "kg", 2)
	require.NoError(t, err)
	prod := f.bread(t, flour.ID)

	updated, err := f.processor.RestockProduct(prod.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, 12.0, updated.StockQuantity)

	_, err = f.processor.RestockProduct(prod.ID, -1)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCreateConsumesIngredients(t *testing.T) {
	f := newFixture(t, Config{})
	flour, err := f.ledger.AddIngredient("Flour", 10, "kg", 2)
	require.NoError(t, err)
	prod := f.bread(t, flour.ID)

	order, err := f.processor.Create("Alice", []ItemRequest{{ProductID: prod.ID, Quantity: 3}})
	require.NoError(t, err)

	assert.Equal(t, 4.0, flour.Quantity, "3 breads at 2 kg each consume 6 kg")
	assert.Equal(t, 10.5, order.Total)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, f.now, order.CreatedAt)
	assert.Nil(t, order.CompletedAt)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Bread", order.Items[0].ProductName)
	assert.Equal(t, 3.5, order.Items[0].UnitPrice)
}

func TestCreateInsufficientStock(t *testing.T) {
	f := newFixture(t, Config{})
	flour, err := f.ledger.AddIngredient("Flour", 4, "kg", 2)
	require.NoError(t, err)
	prod := f.bread(t, flour.ID)

	_, err = f.processor.Create("Alice", []ItemRequest{{ProductID: prod.ID, Quantity: 3}})
	assert.ErrorIs(t, err, models.ErrInsufficientStock)
	assert.Equal(t, 4.0, flour.Quantity, "failed order must not consume stock")
	assert.Empty(t, f.state.Orders)
}

func TestCreateAggregatesDemandAcrossItems(t *testing.T) {
	f := newFixture(t, Config{})
	flour, err := f.ledger.AddIngredient("Flour", 10, "kg", 2)
	require.NoError(t, err)
	bread := f.bread(t, flour.ID)
	roll, err := f.processor.AddProduct("Roll", 1.5, []models.RecipeLine{
		{IngredientID: flour.ID, Quantity: 0.5},
	}, 0)
	require.NoError(t, err)

	// 2*4 + 0.5*6 = 11 kg, more than the 10 on hand even though each
	// item alone would fit.
	_, err = f.processor.Create("Bob", []ItemRequest{
		{ProductID: bread.ID, Quantity: 4},
		{ProductID: roll.ID, Quantity: 6},
	})
	assert.ErrorIs(t, err, models.ErrInsufficientStock)
	assert.Equal(t, 10.0, flour.Quantity)

	order, err := f.processor.Create("Bob", []ItemRequest{
		{ProductID: bread.ID, Quantity: 3},
		{ProductID: roll.ID, Quantity: 6},
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, flour.Quantity)
	assert.Equal(t, 3.5*3+1.5*6, order.Total)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t, Config{})

	_, err := f.processor.Create("Alice", nil)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = f.processor.Create("Alice", []ItemRequest{{ProductID: "ghost", Quantity: 1}})
	assert.ErrorIs(t, err, models.ErrNotFound)

	flour, err := f.ledger.AddIngredient("Flour", 10, "kg", 2)
	require.NoError(t, err)
	prod := f.bread(t, flour.ID)

	_, err = f.processor.Create("Alice", []ItemRequest{{ProductID: prod.ID, Quantity: 0}})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestComplete(t *testing.T) {
	f := newFixture(t, Config{})
	flour, err := f.ledger.AddIngredient("Flour", 10, "kg", 2)
	require.NoError(t, err)
	prod := f.bread(t, flour.ID)
	order, err := f.processor.Create("Alice", []ItemRequest{{ProductID: prod.ID, Quantity: 1}})
	require.NoError(t, err)

	f.now = f.now.Add(2 * time.Hour)
	completed, err := f.processor.Complete(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	assert.Equal(t, f.now, *completed.CompletedAt)

	_, err = f.processor.Complete(order.ID)
	assert.ErrorIs(t, err, models.ErrInvalidState)

	_, err = f.processor.Complete("ghost")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteWithoutRestockPolicy(t *testing.T) {
	f := newFixture(t, Config{})
	flour, err := f.ledger.AddIngredient("Flour", 10, "kg", 2)
	require.NoError(t, err)
	prod := f.bread(t, flour.ID)
	order, err := f.processor.Create("Alice", []ItemRequest{{ProductID: prod.ID, Quantity: 3}})
	require.NoError(t, err)

	require.NoError(t, f.processor.Delete(order.ID))
	assert.NotContains(t, f.state.Orders, order.ID)
	assert.Equal(t, 4.0, flour.Quantity, "deletion does not re-credit stock by default")
}

func TestDeleteWithRestockPolicy(t *testing.T) {
	f := newFixture(t, Config{RestockOnDelete: true})
	flour, err := f.ledger.AddIngredient("Flour", 10, "kg", 2)
	require.NoError(t, err)
	prod := f.bread(t, flour.ID)

	pending, err := f.processor.Create("Alice", []ItemRequest{{ProductID: prod.ID, Quantity: 3}})
	require.NoError(t, err)
	require.NoError(t, f.processor.Delete(pending.ID))
	assert.Equal(t, 10.0, flour.Quantity, "pending deletion re-credits ingredients")

	completed, err := f.processor.Create("Bob", []ItemRequest{{ProductID: prod.ID, Quantity: 2}})
	require.NoError(t, err)
	_, err = f.processor.Complete(completed.ID)
	require.NoError(t, err)
	require.NoError(t, f.processor.Delete(completed.ID))
	assert.Equal(t, 6.0, flour.Quantity, "completed orders are never re-credited")
}

func TestDeleteItem(t *testing.T) {
	f := newFixture(t, Config{})
	flour, err := f.ledger.AddIngredient("Flour", 50, "kg", 2)
	require.NoError(t, err)
	bread := f.bread(t, flour.ID)
	cake, err := f.processor.AddProduct("Cake", 10, []models.RecipeLine{
		{IngredientID: flour.ID, Quantity: 1},
	}, 0)
	require.NoError(t, err)

	order, err := f.processor.Create("Alice", []ItemRequest{
		{ProductID: cake.ID, Quantity: 2},
		{ProductID: bread.ID, Quantity: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, 34.0, order.Total)

	err = f.processor.DeleteItem(order.ID, 0)
	assert.ErrorIs(t, err, models.ErrInvalidState, "pending orders reject item removal")

	_, err = f.processor.Complete(order.ID)
	require.NoError(t, err)

	require.NoError(t, f.processor.DeleteItem(order.ID, 0))
	assert.Equal(t, 14.0, order.Total)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Bread", order.Items[0].ProductName)

	err = f.processor.DeleteItem(order.ID, 5)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestAddItem(t *testing.T) {
	f := newFixture(t, Config{})
	flour, err := f.ledger.AddIngredient("Flour", 20, "kg", 2)
	require.NoError(t, err)
	prod := f.bread(t, flour.ID)

	order, err := f.processor.Create("Alice", []ItemRequest{{ProductID: prod.ID, Quantity: 2}})
	require.NoError(t, err)

	_, err = f.processor.AddItem(order.ID, prod.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 10.0, flour.Quantity, "addition consumes stock for the new quantity")
	assert.Equal(t, 17.5, order.Total)
	require.Len(t, order.Items, 1, "same product at the same price merges into one line")
	assert.Equal(t, 5, order.Items[0].Quantity)

	// A price change since the order was placed gets its own line so the
	// original snapshot stays intact.
	prod.Price = 4.0
	_, err = f.processor.AddItem(order.ID, prod.ID, 1)
	require.NoError(t, err)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 3.5, order.Items[0].UnitPrice)
	assert.Equal(t, 4.0, order.Items[1].UnitPrice)
	assert.Equal(t, 21.5, order.Total)

	_, err = f.processor.Complete(order.ID)
	require.NoError(t, err)
	_, err = f.processor.AddItem(order.ID, prod.ID, 1)
	assert.ErrorIs(t, err, models.ErrInvalidState)
}

func TestDeleteProductBlockedByPendingOrder(t *testing.T) {
	f := newFixture(t, Config{})
	flour, err := f.ledger.AddIngredient("Flour", 20, "kg", 2)
	require.NoError(t, err)
	prod := f.bread(t, flour.ID)

	order, err := f.processor.Create("Alice", []ItemRequest{{ProductID: prod.ID, Quantity: 1}})
	require.NoError(t, err)

	err = f.processor.DeleteProduct(prod.ID)
	assert.ErrorIs(t, err, models.ErrReferenced)

	_, err = f.processor.Complete(order.ID)
	require.NoError(t, err)

	require.NoError(t, f.processor.DeleteProduct(prod.ID))
	assert.NotContains(t, f.state.Products, prod.ID)

	// The completed order keeps its snapshots after the product is gone.
	kept, err := f.processor.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bread", kept.Items[0].ProductName)
	assert.Equal(t, 3.5, kept.Total)
}

func TestOrdersSortedByCreation(t *testing.T) {
	f := newFixture(t, Config{})
	flour, err := f.ledger.AddIngredient("Flour", 50, "kg", 2)
	require.NoError(t, err)
	prod := f.bread(t, flour.ID)

	first, err := f.processor.Create("Alice", []ItemRequest{{ProductID: prod.ID, Quantity: 1}})
	require.NoError(t, err)
	f.now = f.now.Add(time.Minute)
	second, err := f.processor.Create("Bob", []ItemRequest{{ProductID: prod.ID, Quantity: 1}})
	require.NoError(t, err)

	all := f.processor.Orders()
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)
}
