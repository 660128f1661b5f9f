package models

import "github.com/google/uuid"

// Ingredient represents a raw material in the bakery inventory.
// Quantity is held in the ingredient's own unit and never goes negative.
type Ingredient struct {
	ID           string  `json:"id" validate:"required"`
	Name         string  `json:"name" validate:"required"`
	Quantity     float64 `json:"quantity" validate:"gte=0"`
	Unit         string  `json:"unit" validate:"required"`
	ReorderLevel float64 `json:"reorder_level" validate:"gte=0"`
}

// NewIngredient builds a validated ingredient with a fresh id.
func NewIngredient(name string, quantity float64, unit string, reorderLevel float64) (*Ingredient, error) {
	ing := &Ingredient{
		ID:           uuid.NewString(),
		Name:         name,
		Quantity:     quantity,
		Unit:         unit,
		ReorderLevel: reorderLevel,
	}
	if err := checkStruct(ing); err != nil {
		return nil, err
	}
	return ing, nil
}
