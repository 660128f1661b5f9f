package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakehouse/internal/bakery"
	"bakehouse/internal/models"
)

func newTestLedger(t *testing.T) (*Ledger, *bakery.State) {
	t.Helper()
	state := bakery.NewState()
	return NewLedger(state, nil), state
}

func TestAddIngredient(t *testing.T) {
	ledger, state := newTestLedger(t)

	ing, err := ledger.AddIngredient("Flour", 10, "kg", 2)
	require.NoError(t, err)
	assert.Contains(t, state.Ingredients, ing.ID)

	_, err = ledger.AddIngredient("", 10, "kg", 2)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRestock(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ing, err := ledger.AddIngredient("Flour", 10, "kg", 2)
	require.NoError(t, err)

	before := ing.Quantity
	updated, err := ledger.Restock(ing.ID, 4.5)
	require.NoError(t, err)
	assert.Equal(t, before+4.5, updated.Quantity)

	_, err = ledger.Restock(ing.ID, 0)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = ledger.Restock(ing.ID, -3)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = ledger.Restock("ghost", 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestConsume(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ing, err := ledger.AddIngredient("Flour", 10, "kg", 2)
	require.NoError(t, err)

	require.NoError(t, ledger.Consume(ing.ID, 6))
	assert.Equal(t, 4.0, ing.Quantity)

	err = ledger.Consume(ing.ID, 6)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)
	assert.Equal(t, 4.0, ing.Quantity, "failed consume must not change stock")

	// Draining to exactly zero is allowed.
	require.NoError(t, ledger.Consume(ing.ID, 4))
	assert.Equal(t, 0.0, ing.Quantity)
}

func TestConsumeAllIsAtomic(t *testing.T) {
	ledger, _ := newTestLedger(t)
	flour, err := ledger.AddIngredient("Flour", 10, "kg", 2)
	require.NoError(t, err)
	sugar, err := ledger.AddIngredient("Sugar", 5, "kg", 1)
	require.NoError(t, err)
	butter, err := ledger.AddIngredient("Butter", 2, "kg", 1)
	require.NoError(t, err)

	// Butter is short: nothing may be consumed, not even the
	// ingredients that would have sufficed.
	err = ledger.ConsumeAll([]Demand{
		{IngredientID: flour.ID, Amount: 4},
		{IngredientID: sugar.ID, Amount: 2},
		{IngredientID: butter.ID, Amount: 3},
	})
	assert.ErrorIs(t, err, models.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Butter")
	assert.Equal(t, 10.0, flour.Quantity)
	assert.Equal(t, 5.0, sugar.Quantity)
	assert.Equal(t, 2.0, butter.Quantity)

	require.NoError(t, ledger.ConsumeAll([]Demand{
		{IngredientID: flour.ID, Amount: 4},
		{IngredientID: sugar.ID, Amount: 2},
	}))
	assert.Equal(t, 6.0, flour.Quantity)
	assert.Equal(t, 3.0, sugar.Quantity)
}

func TestIsLowStockBoundary(t *testing.T) {
	ledger, _ := newTestLedger(t)

	testCases := []struct {
		name     string
		quantity float64
		reorder  float64
		want     bool
	}{
		{"above reorder level", 5, 2, false},
		{"exactly at reorder level", 2, 2, true},
		{"below reorder level", 1, 2, true},
		{"zero stock", 0, 2, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ing := &models.Ingredient{Quantity: tc.quantity, ReorderLevel: tc.reorder}
			assert.Equal(t, tc.want, ledger.IsLowStock(ing))
		})
	}
}

func TestLowStock(t *testing.T) {
	ledger, _ := newTestLedger(t)
	_, err := ledger.AddIngredient("Flour", 10, "kg", 2)
	require.NoError(t, err)
	_, err = ledger.AddIngredient("Yeast", 1, "kg", 1)
	require.NoError(t, err)
	_, err = ledger.AddIngredient("Butter", 0.5, "kg", 1)
	require.NoError(t, err)

	low := ledger.LowStock()
	require.Len(t, low, 2)
	assert.Equal(t, "Butter", low[0].Name)
	assert.Equal(t, "Yeast", low[1].Name)
}

func TestDeleteBlockedByRecipeReference(t *testing.T) {
	ledger, state := newTestLedger(t)
	ing, err := ledger.AddIngredient("Flour", 10, "kg", 2)
	require.NoError(t, err)

	bread, err := models.NewProduct("Bread", 3.5, []models.RecipeLine{{IngredientID: ing.ID, Quantity: 2}}, 0)
	require.NoError(t, err)
	state.Products[bread.ID] = bread

	err = ledger.Delete(ing.ID)
	assert.ErrorIs(t, err, models.ErrReferenced)
	assert.Contains(t, state.Ingredients, ing.ID)

	delete(state.Products, bread.ID)
	require.NoError(t, ledger.Delete(ing.ID))
	assert.NotContains(t, state.Ingredients, ing.ID)

	assert.ErrorIs(t, ledger.Delete(ing.ID), models.ErrNotFound)
}

func TestList(t *testing.T) {
	ledger, _ := newTestLedger(t)
	_, err := ledger.AddIngredient("Sugar", 5, "kg", 1)
	require.NoError(t, err)
	_, err = ledger.AddIngredient("Flour", 10, "kg", 2)
	require.NoError(t, err)

	names := []string{}
	for _, ing := range ledger.List() {
		names = append(names, ing.Name)
	}
	assert.Equal(t, []string{"Flour", "Sugar"}, names)
}
