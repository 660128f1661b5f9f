package bakery

import (
	"fmt"
	"sort"

	"bakehouse/internal/models"
)

// State is the explicit, in-memory state object of the bakery. Every
// collection maps entity id to entity. All mutation is routed through
// the component operations (inventory ledger, order processor, staff
// roster); callers never write fields directly.
type State struct {
	Ingredients map[string]*models.Ingredient
	Products    map[string]*models.Product
	Orders      map[string]*models.Order
	Staff       map[string]*models.Staff
}

// NewState returns an empty state.
func NewState() *State {
	return &State{
		Ingredients: make(map[string]*models.Ingredient),
		Products:    make(map[string]*models.Product),
		Orders:      make(map[string]*models.Order),
		Staff:       make(map[string]*models.Staff),
	}
}

// Export produces a deep-copied snapshot of all collections, each sorted
// by entity id so the output is deterministic.
func (s *State) Export() models.Snapshot {
	snap := models.Snapshot{
		Ingredients: make([]models.Ingredient, 0, len(s.Ingredients)),
		Products:    make([]models.Product, 0, len(s.Products)),
		Orders:      make([]models.Order, 0, len(s.Orders)),
		Staff:       make([]models.Staff, 0, len(s.Staff)),
	}
	for _, ing := range s.Ingredients {
		snap.Ingredients = append(snap.Ingredients, *ing)
	}
	for _, p := range s.Products {
		cp := *p
		cp.Recipe = append([]models.RecipeLine(nil), p.Recipe...)
		snap.Products = append(snap.Products, cp)
	}
	for _, o := range s.Orders {
		cp := *o
		cp.Items = append([]models.OrderItem(nil), o.Items...)
		if o.CompletedAt != nil {
			t := *o.CompletedAt
			cp.CompletedAt = &t
		}
		snap.Orders = append(snap.Orders, cp)
	}
	for _, st := range s.Staff {
		snap.Staff = append(snap.Staff, *st)
	}
	sort.Slice(snap.Ingredients, func(i, j int) bool { return snap.Ingredients[i].ID < snap.Ingredients[j].ID })
	sort.Slice(snap.Products, func(i, j int) bool { return snap.Products[i].ID < snap.Products[j].ID })
	sort.Slice(snap.Orders, func(i, j int) bool { return snap.Orders[i].ID < snap.Orders[j].ID })
	sort.Slice(snap.Staff, func(i, j int) bool { return snap.Staff[i].ID < snap.Staff[j].ID })
	return snap
}

// Load reconstructs a state from a snapshot, validating referential
// integrity and value invariants. Any violation fails with
// models.ErrCorruptState and no state is returned.
func Load(snap models.Snapshot) (*State, error) {
	s := NewState()

	for i := range snap.Ingredients {
		ing := snap.Ingredients[i]
		if ing.ID == "" || ing.Name == "" || ing.Unit == "" {
			return nil, fmt.Errorf("%w: ingredient %q missing required fields", models.ErrCorruptState, ing.ID)
		}
		if ing.Quantity < 0 || ing.ReorderLevel < 0 {
			return nil, fmt.Errorf("%w: ingredient %q has negative quantity", models.ErrCorruptState, ing.Name)
		}
		if _, dup := s.Ingredients[ing.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate ingredient id %q", models.ErrCorruptState, ing.ID)
		}
		cp := ing
		s.Ingredients[ing.ID] = &cp
	}

	for i := range snap.Products {
		p := snap.Products[i]
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("%w: product %q missing required fields", models.ErrCorruptState, p.ID)
		}
		if p.Price < 0 || p.StockQuantity < 0 {
			return nil, fmt.Errorf("%w: product %q has negative price or stock", models.ErrCorruptState, p.Name)
		}
		if len(p.Recipe) == 0 {
			return nil, fmt.Errorf("%w: product %q has an empty recipe", models.ErrCorruptState, p.Name)
		}
		for _, line := range p.Recipe {
			if _, ok := s.Ingredients[line.IngredientID]; !ok {
				return nil, fmt.Errorf("%w: product %q references unknown ingredient %q", models.ErrCorruptState, p.Name, line.IngredientID)
			}
			if line.Quantity <= 0 {
				return nil, fmt.Errorf("%w: product %q has a non-positive recipe quantity", models.ErrCorruptState, p.Name)
			}
		}
		if _, dup := s.Products[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product id %q", models.ErrCorruptState, p.ID)
		}
		cp := p
		cp.Recipe = append([]models.RecipeLine(nil), p.Recipe...)
		s.Products[p.ID] = &cp
	}

	for i := range snap.Orders {
		o := snap.Orders[i]
		if o.ID == "" || o.CustomerName == "" {
			return nil, fmt.Errorf("%w: order %q missing required fields", models.ErrCorruptState, o.ID)
		}
		switch o.Status {
		case models.OrderStatusPending, models.OrderStatusCompleted:
		default:
			return nil, fmt.Errorf("%w: order %q has unknown status %q", models.ErrCorruptState, o.ID, o.Status)
		}
		if o.Status == models.OrderStatusCompleted && o.CompletedAt == nil {
			return nil, fmt.Errorf("%w: completed order %q has no completion time", models.ErrCorruptState, o.ID)
		}
		for _, it := range o.Items {
			if it.Quantity <= 0 || it.UnitPrice < 0 {
				return nil, fmt.Errorf("%w: order %q has an invalid item", models.ErrCorruptState, o.ID)
			}
			// Pending orders must still resolve their products; completed
			// orders carry name/price snapshots and may outlive them.
			if o.Status == models.OrderStatusPending {
				if _, ok := s.Products[it.ProductID]; !ok {
					return nil, fmt.Errorf("%w: order %q references unknown product %q", models.ErrCorruptState, o.ID, it.ProductID)
				}
			}
		}
		if _, dup := s.Orders[o.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate order id %q", models.ErrCorruptState, o.ID)
		}
		cp := o
		cp.Items = append([]models.OrderItem(nil), o.Items...)
		if o.CompletedAt != nil {
			t := *o.CompletedAt
			cp.CompletedAt = &t
		}
		s.Orders[o.ID] = &cp
	}

	for i := range snap.Staff {
		st := snap.Staff[i]
		if st.ID == "" || st.Name == "" {
			return nil, fmt.Errorf("%w: staff %q missing required fields", models.ErrCorruptState, st.ID)
		}
		if _, dup := s.Staff[st.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate staff id %q", models.ErrCorruptState, st.ID)
		}
		cp := st
		s.Staff[st.ID] = &cp
	}

	return s, nil
}
