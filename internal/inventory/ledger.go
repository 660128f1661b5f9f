package inventory

import (
	"fmt"
	"log/slog"
	"sort"

	"bakehouse/internal/bakery"
	"bakehouse/internal/models"
	"bakehouse/internal/monitoring"
)

// Demand is one ingredient requirement of a consumption batch, in the
// order it was first encountered. Keeping the order lets ConsumeAll
// report the first insufficient ingredient deterministically.
type Demand struct {
	IngredientID string
	Amount       float64
}

// Ledger mutates ingredient quantities and answers stock questions. All
// multi-ingredient consumption is all-or-nothing: quantities are checked
// for every ingredient before any is decremented.
type Ledger struct {
	state   *bakery.State
	metrics *monitoring.Collector
	log     *slog.Logger
}

// NewLedger creates a ledger over the given state. The collector may be nil.
func NewLedger(state *bakery.State, metrics *monitoring.Collector) *Ledger {
	return &Ledger{
		state:   state,
		metrics: metrics,
		log:     slog.Default().With("component", "inventory"),
	}
}

// AddIngredient creates a new ingredient and adds it to the inventory.
func (l *Ledger) AddIngredient(name string, quantity float64, unit string, reorderLevel float64) (*models.Ingredient, error) {
	ing, err := models.NewIngredient(name, quantity, unit, reorderLevel)
	if err != nil {
		return nil, err
	}
	l.state.Ingredients[ing.ID] = ing
	l.updateLowStockGauge()
	l.log.Info("ingredient added", "id", ing.ID, "name", ing.Name, "quantity", ing.Quantity, "unit", ing.Unit)
	return ing, nil
}

// Restock increases an ingredient's quantity by a positive amount.
func (l *Ledger) Restock(id string, amount float64) (*models.Ingredient, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: restock amount must be positive, got %v", models.ErrValidation, amount)
	}
	ing, ok := l.state.Ingredients[id]
	if !ok {
		return nil, fmt.Errorf("%w: ingredient %q", models.ErrNotFound, id)
	}
	ing.Quantity += amount
	l.updateLowStockGauge()
	l.log.Info("ingredient restocked", "id", id, "name", ing.Name, "amount", amount, "quantity", ing.Quantity)
	return ing, nil
}

// Consume decreases a single ingredient's quantity by a positive amount.
func (l *Ledger) Consume(id string, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: consume amount must be positive, got %v", models.ErrValidation, amount)
	}
	return l.ConsumeAll([]Demand{{IngredientID: id, Amount: amount}})
}

// ConsumeAll atomically consumes a batch of ingredient demands. Every
// demand is checked against current stock before any quantity changes;
// on failure no ingredient is mutated and the error names the first
// insufficient ingredient in demand order.
func (l *Ledger) ConsumeAll(demands []Demand) error {
	for _, d := range demands {
		if d.Amount <= 0 {
			return fmt.Errorf("%w: consume amount must be positive, got %v", models.ErrValidation, d.Amount)
		}
		ing, ok := l.state.Ingredients[d.IngredientID]
		if !ok {
			return fmt.Errorf("%w: ingredient %q", models.ErrNotFound, d.IngredientID)
		}
		if ing.Quantity < d.Amount {
			return fmt.Errorf("%w: ingredient %q needs %v %s, have %v",
				models.ErrInsufficientStock, ing.Name, d.Amount, ing.Unit, ing.Quantity)
		}
	}
	for _, d := range demands {
		l.state.Ingredients[d.IngredientID].Quantity -= d.Amount
	}
	l.updateLowStockGauge()
	return nil
}

// IsLowStock reports whether an ingredient is at or below its reorder
// level. The boundary is inclusive: quantity == reorder level is low.
func (l *Ledger) IsLowStock(ing *models.Ingredient) bool {
	return ing.Quantity <= ing.ReorderLevel
}

// LowStock returns all low-stock ingredients sorted by name.
func (l *Ledger) LowStock() []*models.Ingredient {
	var low []*models.Ingredient
	for _, ing := range l.state.Ingredients {
		if l.IsLowStock(ing) {
			low = append(low, ing)
		}
	}
	sort.Slice(low, func(i, j int) bool { return low[i].Name < low[j].Name })
	return low
}

// Delete removes an ingredient. Deletion is blocked while any product
// recipe references the ingredient.
func (l *Ledger) Delete(id string) error {
	ing, ok := l.state.Ingredients[id]
	if !ok {
		return fmt.Errorf("%w: ingredient %q", models.ErrNotFound, id)
	}
	for _, p := range l.state.Products {
		for _, line := range p.Recipe {
			if line.IngredientID == id {
				return fmt.Errorf("%w: ingredient %q is used by product %q", models.ErrReferenced, ing.Name, p.Name)
			}
		}
	}
	delete(l.state.Ingredients, id)
	l.updateLowStockGauge()
	l.log.Info("ingredient deleted", "id", id, "name", ing.Name)
	return nil
}

// Get returns an ingredient by id.
func (l *Ledger) Get(id string) (*models.Ingredient, error) {
	ing, ok := l.state.Ingredients[id]
	if !ok {
		return nil, fmt.Errorf("%w: ingredient %q", models.ErrNotFound, id)
	}
	return ing, nil
}

// List returns all ingredients sorted by name.
func (l *Ledger) List() []*models.Ingredient {
	out := make([]*models.Ingredient, 0, len(l.state.Ingredients))
	for _, ing := range l.state.Ingredients {
		out = append(out, ing)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (l *Ledger) updateLowStockGauge() {
	n := 0
	for _, ing := range l.state.Ingredients {
		if l.IsLowStock(ing) {
			n++
		}
	}
	l.metrics.SetLowStockCount(n)
}
