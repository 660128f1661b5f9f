package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewIngredient(t *testing.T) {
	ing, err := NewIngredient("Flour", 10, "kg", 2)
	assert.NoError(t, err)
	assert.NotEmpty(t, ing.ID)
	assert.Equal(t, "Flour", ing.Name)
	assert.Equal(t, 10.0, ing.Quantity)

	testCases := []struct {
		name         string
		ingName      string
		quantity     float64
		unit         string
		reorderLevel float64
	}{
		{"empty name", "", 10, "kg", 2},
		{"negative quantity", "Flour", -1, "kg", 2},
		{"empty unit", "Flour", 10, "", 2},
		{"negative reorder level", "Flour", 10, "kg", -1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewIngredient(tc.ingName, tc.quantity, tc.unit, tc.reorderLevel)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestNewProduct(t *testing.T) {
	recipe := []RecipeLine{{IngredientID: "ing-1", Quantity: 2}}

	p, err := NewProduct("Bread", 3.5, recipe, 0)
	assert.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Len(t, p.Recipe, 1)

	_, err = NewProduct("", 3.5, recipe, 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewProduct("Bread", -1, recipe, 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewProduct("Bread", 3.5, nil, 0)
	assert.ErrorIs(t, err, ErrValidation, "empty recipe must be rejected")

	_, err = NewProduct("Bread", 3.5, []RecipeLine{{IngredientID: "ing-1", Quantity: 0}}, 0)
	assert.ErrorIs(t, err, ErrValidation, "non-positive recipe quantity must be rejected")
}

func TestNewOrder(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	items := []OrderItem{
		{ProductID: "p-1", ProductName: "Bread", Quantity: 3, UnitPrice: 3.5},
		{ProductID: "p-2", ProductName: "Croissant", Quantity: 2, UnitPrice: 2.0},
	}

	o, err := NewOrder("Alice", items, now)
	assert.NoError(t, err)
	assert.Equal(t, OrderStatusPending, o.Status)
	assert.Equal(t, 14.5, o.Total)
	assert.Equal(t, now, o.CreatedAt)
	assert.Nil(t, o.CompletedAt)

	_, err = NewOrder("", items, now)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewOrder("Alice", nil, now)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewOrder("Alice", []OrderItem{{ProductID: "p-1", ProductName: "Bread", Quantity: 0, UnitPrice: 3.5}}, now)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOrderItemLineTotal(t *testing.T) {
	it := OrderItem{ProductID: "p-1", ProductName: "Bread", Quantity: 4, UnitPrice: 2.5}
	assert.Equal(t, 10.0, it.LineTotal())
}

func TestNewStaff(t *testing.T) {
	s, err := NewStaff("Bob", "baker", "Mon 6:00-14:00")
	assert.NoError(t, err)
	assert.NotEmpty(t, s.ID)

	_, err = NewStaff("", "baker", "Mon 6:00-14:00")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewStaff("Bob", "", "Mon 6:00-14:00")
	assert.ErrorIs(t, err, ErrValidation)
}
