package orders

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"bakehouse/internal/bakery"
	"bakehouse/internal/inventory"
	"bakehouse/internal/models"
	"bakehouse/internal/monitoring"
)

// ItemRequest is one requested order line: a product reference and a
// positive quantity.
type ItemRequest struct {
	ProductID string
	Quantity  int
}

// Config carries the processor's policy knobs.
type Config struct {
	// RestockOnDelete re-credits ingredient stock when a pending order
	// is deleted, computed from the products' current recipes. Completed
	// orders are never re-credited. Off by default: deletion is a
	// record removal, not a cancellation.
	RestockOnDelete bool

	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Processor validates and commits orders against the inventory ledger,
// and manages the product catalog.
type Processor struct {
	state   *bakery.State
	ledger  *inventory.Ledger
	metrics *monitoring.Collector
	cfg     Config
	log     *slog.Logger
}

// NewProcessor creates a processor over the given state and ledger. The
// collector may be nil.
func NewProcessor(state *bakery.State, ledger *inventory.Ledger, metrics *monitoring.Collector, cfg Config) *Processor {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Processor{
		state:   state,
		ledger:  ledger,
		metrics: metrics,
		cfg:     cfg,
		log:     slog.Default().With("component", "orders"),
	}
}

// AddProduct creates a product after checking that every recipe line
// references a known ingredient.
func (p *Processor) AddProduct(name string, price float64, recipe []models.RecipeLine, stockQuantity float64) (*models.Product, error) {
	for _, line := range recipe {
		if _, ok := p.state.Ingredients[line.IngredientID]; !ok {
			return nil, fmt.Errorf("%w: recipe ingredient %q", models.ErrNotFound, line.IngredientID)
		}
	}
	prod, err := models.NewProduct(name, price, recipe, stockQuantity)
	if err != nil {
		return nil, err
	}
	p.state.Products[prod.ID] = prod
	p.log.Info("product added", "id", prod.ID, "name", prod.Name, "price", prod.Price)
	return prod, nil
}

// RestockProduct increases a product's finished-goods stock counter.
func (p *Processor) RestockProduct(id string, amount float64) (*models.Product, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: restock amount must be positive, got %v", models.ErrValidation, amount)
	}
	prod, ok := p.state.Products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product %q", models.ErrNotFound, id)
	}
	prod.StockQuantity += amount
	return prod, nil
}

// DeleteProduct removes a product. Deletion is blocked while a pending
// order references the product; completed orders carry snapshots and do
// not pin it.
func (p *Processor) DeleteProduct(id string) error {
	prod, ok := p.state.Products[id]
	if !ok {
		return fmt.Errorf("%w: product %q", models.ErrNotFound, id)
	}
	for _, o := range p.state.Orders {
		if o.Status != models.OrderStatusPending {
			continue
		}
		for _, it := range o.Items {
			if it.ProductID == id {
				return fmt.Errorf("%w: product %q is on pending order %s", models.ErrReferenced, prod.Name, o.ID)
			}
		}
	}
	delete(p.state.Products, id)
	p.log.Info("product deleted", "id", id, "name", prod.Name)
	return nil
}

// GetProduct returns a product by id.
func (p *Processor) GetProduct(id string) (*models.Product, error) {
	prod, ok := p.state.Products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product %q", models.ErrNotFound, id)
	}
	return prod, nil
}

// Products returns the catalog sorted by name.
func (p *Processor) Products() []*models.Product {
	out := make([]*models.Product, 0, len(p.state.Products))
	for _, prod := range p.state.Products {
		out = append(out, prod)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Create validates and commits a new order. Ingredient demand is
// aggregated across all requested items (the same ingredient may be
// required by several products), checked all-or-nothing against the
// ledger, and consumed only if every ingredient suffices. Prices are
// snapshotted at creation and the order starts pending.
func (p *Processor) Create(customerName string, requests []ItemRequest) (*models.Order, error) {
	if len(requests) == 0 {
		return nil, fmt.Errorf("%w: an order needs at least one item", models.ErrValidation)
	}

	items := make([]models.OrderItem, 0, len(requests))
	var demands []inventory.Demand
	demandIdx := make(map[string]int)

	for _, req := range requests {
		if req.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item quantity must be positive, got %d", models.ErrValidation, req.Quantity)
		}
		prod, ok := p.state.Products[req.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %q", models.ErrNotFound, req.ProductID)
		}
		for _, line := range prod.Recipe {
			need := line.Quantity * float64(req.Quantity)
			if i, seen := demandIdx[line.IngredientID]; seen {
				demands[i].Amount += need
			} else {
				demandIdx[line.IngredientID] = len(demands)
				demands = append(demands, inventory.Demand{IngredientID: line.IngredientID, Amount: need})
			}
		}
		items = append(items, models.OrderItem{
			ProductID:   prod.ID,
			ProductName: prod.Name,
			Quantity:    req.Quantity,
			UnitPrice:   prod.Price,
		})
	}

	if err := p.ledger.ConsumeAll(demands); err != nil {
		return nil, err
	}

	order, err := models.NewOrder(customerName, items, p.cfg.Now())
	if err != nil {
		// Constructor failures must not leak consumed stock.
		p.recredit(demands)
		return nil, err
	}
	p.state.Orders[order.ID] = order
	p.metrics.RecordOrderCreated()
	p.log.Info("order created", "id", order.ID, "customer", order.CustomerName, "total", order.Total)
	return order, nil
}

// Complete transitions an order pending -> completed and stamps the
// completion time. Completing twice fails.
func (p *Processor) Complete(id string) (*models.Order, error) {
	order, ok := p.state.Orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %q", models.ErrNotFound, id)
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%w: order %q is already %s", models.ErrInvalidState, id, order.Status)
	}
	now := p.cfg.Now()
	order.Status = models.OrderStatusCompleted
	order.CompletedAt = &now
	p.metrics.RecordOrderCompleted(order.Total)
	p.log.Info("order completed", "id", id, "total", order.Total)
	return order, nil
}

// Delete removes an order record regardless of status. Ingredients are
// only re-credited for pending orders when the RestockOnDelete policy is
// enabled; the re-credit uses the products' current recipes, which may
// have changed since the order was placed.
func (p *Processor) Delete(id string) error {
	order, ok := p.state.Orders[id]
	if !ok {
		return fmt.Errorf("%w: order %q", models.ErrNotFound, id)
	}
	if p.cfg.RestockOnDelete && order.Status == models.OrderStatusPending {
		p.recredit(p.currentDemand(order))
	}
	delete(p.state.Orders, id)
	p.metrics.RecordOrderDeleted()
	p.log.Info("order deleted", "id", id, "status", order.Status)
	return nil
}

// DeleteItem removes one line from a completed order and subtracts its
// contribution from the total. Sales reporting uses this to correct
// sold-item records; pending orders are rejected.
func (p *Processor) DeleteItem(orderID string, index int) error {
	order, ok := p.state.Orders[orderID]
	if !ok {
		return fmt.Errorf("%w: order %q", models.ErrNotFound, orderID)
	}
	if order.Status != models.OrderStatusCompleted {
		return fmt.Errorf("%w: order %q is still pending", models.ErrInvalidState, orderID)
	}
	if index < 0 || index >= len(order.Items) {
		return fmt.Errorf("%w: item index %d out of range", models.ErrValidation, index)
	}
	item := order.Items[index]
	order.Total -= item.LineTotal()
	order.Items = append(order.Items[:index], order.Items[index+1:]...)
	p.log.Info("order item removed", "order", orderID, "product", item.ProductName, "quantity", item.Quantity)
	return nil
}

// AddItem adds quantity of a product to a pending order, consuming
// ingredient stock for the addition and growing the total at the
// product's current price. The line is merged into an existing one for
// the same product when the snapshot price still matches.
func (p *Processor) AddItem(orderID, productID string, quantity int) (*models.Order, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: item quantity must be positive, got %d", models.ErrValidation, quantity)
	}
	order, ok := p.state.Orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: order %q", models.ErrNotFound, orderID)
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%w: order %q is already %s", models.ErrInvalidState, orderID, order.Status)
	}
	prod, ok := p.state.Products[productID]
	if !ok {
		return nil, fmt.Errorf("%w: product %q", models.ErrNotFound, productID)
	}

	var demands []inventory.Demand
	for _, line := range prod.Recipe {
		demands = append(demands, inventory.Demand{
			IngredientID: line.IngredientID,
			Amount:       line.Quantity * float64(quantity),
		})
	}
	if err := p.ledger.ConsumeAll(demands); err != nil {
		return nil, err
	}

	merged := false
	for i := range order.Items {
		if order.Items[i].ProductID == productID && order.Items[i].UnitPrice == prod.Price {
			order.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   prod.ID,
			ProductName: prod.Name,
			Quantity:    quantity,
			UnitPrice:   prod.Price,
		})
	}
	order.Total += prod.Price * float64(quantity)
	p.log.Info("order item added", "order", orderID, "product", prod.Name, "quantity", quantity)
	return order, nil
}

// Get returns an order by id.
func (p *Processor) Get(id string) (*models.Order, error) {
	order, ok := p.state.Orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %q", models.ErrNotFound, id)
	}
	return order, nil
}

// Orders returns all orders sorted by creation time.
func (p *Processor) Orders() []*models.Order {
	out := make([]*models.Order, 0, len(p.state.Orders))
	for _, o := range p.state.Orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// currentDemand recomputes an order's ingredient demand from the current
// recipes, skipping products that no longer exist.
func (p *Processor) currentDemand(order *models.Order) []inventory.Demand {
	var demands []inventory.Demand
	idx := make(map[string]int)
	for _, it := range order.Items {
		prod, ok := p.state.Products[it.ProductID]
		if !ok {
			continue
		}
		for _, line := range prod.Recipe {
			need := line.Quantity * float64(it.Quantity)
			if i, seen := idx[line.IngredientID]; seen {
				demands[i].Amount += need
			} else {
				idx[line.IngredientID] = len(demands)
				demands = append(demands, inventory.Demand{IngredientID: line.IngredientID, Amount: need})
			}
		}
	}
	return demands
}

func (p *Processor) recredit(demands []inventory.Demand) {
	for _, d := range demands {
		if _, err := p.ledger.Restock(d.IngredientID, d.Amount); err != nil {
			p.log.Warn("re-credit skipped", "ingredient", d.IngredientID, "error", err)
		}
	}
}
