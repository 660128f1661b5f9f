package models

import "github.com/google/uuid"

// RecipeLine is one ingredient requirement of a product's recipe.
// Lines are owned by exactly one product and reference ingredients by id.
type RecipeLine struct {
	IngredientID string  `json:"ingredient_id" validate:"required"`
	Quantity     float64 `json:"quantity" validate:"gt=0"`
}

// Product represents a sellable baked good. The recipe is an ordered
// sequence of ingredient requirements; StockQuantity counts finished
// goods on hand and is managed independently of ingredient stock.
type Product struct {
	ID            string       `json:"id" validate:"required"`
	Name          string       `json:"name" validate:"required"`
	Price         float64      `json:"price" validate:"gte=0"`
	Recipe        []RecipeLine `json:"recipe" validate:"min=1,dive"`
	StockQuantity float64      `json:"stock_quantity" validate:"gte=0"`
}

// NewProduct builds a validated product with a fresh id. The recipe must
// contain at least one line; referential checks against the ingredient
// collection are the order processor's job.
func NewProduct(name string, price float64, recipe []RecipeLine, stockQuantity float64) (*Product, error) {
	p := &Product{
		ID:            uuid.NewString(),
		Name:          name,
		Price:         price,
		Recipe:        recipe,
		StockQuantity: stockQuantity,
	}
	if err := checkStruct(p); err != nil {
		return nil, err
	}
	return p, nil
}
