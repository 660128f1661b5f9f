package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"bakehouse/internal/bakery"
	"bakehouse/internal/config"
	"bakehouse/internal/inventory"
	"bakehouse/internal/models"
	"bakehouse/internal/monitoring"
	"bakehouse/internal/orders"
	"bakehouse/internal/sales"
	"bakehouse/internal/staff"
	"bakehouse/internal/store"
)

var configFile = flag.String("config", "config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	if err := run(flag.Args()); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// app wires the state object and every component over it.
type app struct {
	cfg    config.Config
	state  *bakery.State
	store  store.Store
	ledger *inventory.Ledger
	proc   *orders.Processor
	roster *staff.Roster
	agg    *sales.Aggregator
}

func run(args []string) error {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	if len(args) == 0 {
		usage()
		return nil
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	snap, err := st.Load()
	if err != nil {
		return err
	}
	state, err := bakery.Load(snap)
	if err != nil {
		return err
	}

	metrics := monitoring.NewCollector()
	a := &app{
		cfg:    cfg,
		state:  state,
		store:  st,
		ledger: inventory.NewLedger(state, metrics),
		roster: staff.NewRoster(state),
		agg:    sales.New(state),
	}
	a.proc = orders.NewProcessor(state, a.ledger, metrics, orders.Config{
		RestockOnDelete: cfg.RestockOnOrderDelete,
	})

	return a.dispatch(args[0], args[1:])
}

func openStore(cfg config.Config) (store.Store, error) {
	if cfg.Store == config.StoreSQLite {
		return store.NewSQLiteStore(cfg.SQLitePath)
	}
	return store.NewJSONStore(cfg.DataDir)
}

func (a *app) dispatch(cmd string, args []string) error {
	switch cmd {
	case "add-ingredient":
		return a.addIngredient(args)
	case "restock":
		return a.restock(args)
	case "delete-ingredient":
		return a.deleteIngredient(args)
	case "inventory":
		return a.listInventory()
	case "low-stock":
		return a.lowStock()
	case "add-product":
		return a.addProduct(args)
	case "restock-product":
		return a.restockProduct(args)
	case "delete-product":
		return a.deleteProduct(args)
	case "products":
		return a.listProducts()
	case "create-order":
		return a.createOrder(args)
	case "add-order-item":
		return a.addOrderItem(args)
	case "complete-order":
		return a.completeOrder(args)
	case "delete-order":
		return a.deleteOrder(args)
	case "delete-order-item":
		return a.deleteOrderItem(args)
	case "orders":
		return a.listOrders()
	case "pending":
		return a.pendingOrders()
	case "sold-items":
		return a.soldItems(args)
	case "earnings":
		return a.earnings(args)
	case "report":
		return a.report()
	case "add-staff":
		return a.addStaff(args)
	case "remove-staff":
		return a.removeStaff(args)
	case "staff":
		return a.listStaff()
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// save persists the current state after a successful mutation.
func (a *app) save() error {
	return a.store.Save(a.state.Export())
}

func (a *app) addIngredient(args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: add-ingredient <name> <quantity> <unit> <reorder-level>")
	}
	qty, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid quantity %q", args[1])
	}
	reorder, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		return fmt.Errorf("invalid reorder level %q", args[3])
	}
	ing, err := a.ledger.AddIngredient(args[0], qty, args[2], reorder)
	if err != nil {
		return err
	}
	if err := a.save(); err != nil {
		return err
	}
	fmt.Printf("added ingredient %s (%s)\n", ing.Name, ing.ID)
	return nil
}

func (a *app) restock(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: restock <ingredient-id> <amount>")
	}
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[1])
	}
	ing, err := a.ledger.Restock(args[0], amount)
	if err != nil {
		return err
	}
	if err := a.save(); err != nil {
		return err
	}
	fmt.Printf("%s now at %v %s\n", ing.Name, ing.Quantity, ing.Unit)
	return nil
}

func (a *app) deleteIngredient(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete-ingredient <ingredient-id>")
	}
	if err := a.ledger.Delete(args[0]); err != nil {
		return err
	}
	return a.save()
}

func (a *app) listInventory() error {
	for _, ing := range a.ledger.List() {
		marker := ""
		if a.ledger.IsLowStock(ing) {
			marker = "  LOW"
		}
		fmt.Printf("%s  %-20s %10v %-8s reorder at %v%s\n", ing.ID, ing.Name, ing.Quantity, ing.Unit, ing.ReorderLevel, marker)
	}
	return nil
}

func (a *app) lowStock() error {
	for _, ing := range a.ledger.LowStock() {
		fmt.Printf("%s  %-20s %10v %s (reorder at %v)\n", ing.ID, ing.Name, ing.Quantity, ing.Unit, ing.ReorderLevel)
	}
	return nil
}

// addProduct parses recipe lines of the form ingredientID=quantity.
func (a *app) addProduct(args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("usage: add-product <name> <price> <stock> <ingredientID=qty>...")
	}
	price, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid price %q", args[1])
	}
	stock, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid stock %q", args[2])
	}
	var recipe []models.RecipeLine
	for _, spec := range args[3:] {
		id, qty, err := parsePair(spec)
		if err != nil {
			return err
		}
		recipe = append(recipe, models.RecipeLine{IngredientID: id, Quantity: qty})
	}
	prod, err := a.proc.AddProduct(args[0], price, recipe, stock)
	if err != nil {
		return err
	}
	if err := a.save(); err != nil {
		return err
	}
	fmt.Printf("added product %s (%s)\n", prod.Name, prod.ID)
	return nil
}

func (a *app) restockProduct(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: restock-product <product-id> <amount>")
	}
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[1])
	}
	prod, err := a.proc.RestockProduct(args[0], amount)
	if err != nil {
		return err
	}
	if err := a.save(); err != nil {
		return err
	}
	fmt.Printf("%s stock now %v\n", prod.Name, prod.StockQuantity)
	return nil
}

func (a *app) deleteProduct(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete-product <product-id>")
	}
	if err := a.proc.DeleteProduct(args[0]); err != nil {
		return err
	}
	return a.save()
}

func (a *app) listProducts() error {
	for _, prod := range a.proc.Products() {
		parts := make([]string, 0, len(prod.Recipe))
		for _, line := range prod.Recipe {
			name := line.IngredientID
			if ing, ok := a.state.Ingredients[line.IngredientID]; ok {
				name = ing.Name
			}
			parts = append(parts, fmt.Sprintf("%s: %v", name, line.Quantity))
		}
		fmt.Printf("%s  %-20s $%.2f  stock %v  [%s]\n", prod.ID, prod.Name, prod.Price, prod.StockQuantity, strings.Join(parts, ", "))
	}
	return nil
}

func (a *app) createOrder(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: create-order <customer> <productID=qty>...")
	}
	var requests []orders.ItemRequest
	for _, spec := range args[1:] {
		id, qty, err := parsePair(spec)
		if err != nil {
			return err
		}
		requests = append(requests, orders.ItemRequest{ProductID: id, Quantity: int(qty)})
	}
	order, err := a.proc.Create(args[0], requests)
	if err != nil {
		return err
	}
	if err := a.save(); err != nil {
		return err
	}
	fmt.Printf("order %s created, total $%.2f\n", order.ID, order.Total)
	return nil
}

func (a *app) addOrderItem(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: add-order-item <order-id> <product-id> <quantity>")
	}
	qty, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid quantity %q", args[2])
	}
	order, err := a.proc.AddItem(args[0], args[1], qty)
	if err != nil {
		return err
	}
	if err := a.save(); err != nil {
		return err
	}
	fmt.Printf("order %s total now $%.2f\n", order.ID, order.Total)
	return nil
}

func (a *app) completeOrder(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: complete-order <order-id>")
	}
	order, err := a.proc.Complete(args[0])
	if err != nil {
		return err
	}
	if err := a.save(); err != nil {
		return err
	}
	fmt.Printf("order %s completed, total $%.2f\n", order.ID, order.Total)
	return nil
}

func (a *app) deleteOrder(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete-order <order-id>")
	}
	if err := a.proc.Delete(args[0]); err != nil {
		return err
	}
	return a.save()
}

func (a *app) deleteOrderItem(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: delete-order-item <order-id> <item-index>")
	}
	index, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid item index %q", args[1])
	}
	if err := a.proc.DeleteItem(args[0], index); err != nil {
		return err
	}
	return a.save()
}

func (a *app) listOrders() error {
	for _, o := range a.proc.Orders() {
		printOrder(o)
	}
	return nil
}

func (a *app) pendingOrders() error {
	for _, o := range a.agg.PendingOrders() {
		printOrder(o)
	}
	return nil
}

func (a *app) soldItems(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: sold-items <order-id>")
	}
	order, err := a.proc.Get(args[0])
	if err != nil {
		return err
	}
	for i, item := range a.agg.SoldItems(order) {
		fmt.Printf("%d  %-20s x%-4d @ $%.2f = $%.2f\n", i, item.ProductName, item.Quantity, item.UnitPrice, item.LineRevenue)
	}
	return nil
}

func (a *app) earnings(args []string) error {
	ref := time.Now()
	if len(args) > 1 {
		parsed, err := time.Parse("2006-01-02", args[1])
		if err != nil {
			return fmt.Errorf("invalid reference date %q (want YYYY-MM-DD)", args[1])
		}
		ref = parsed
	}
	if len(args) >= 1 {
		period := sales.Period(args[0])
		switch period {
		case sales.PeriodDay, sales.PeriodWeek, sales.PeriodMonth, sales.PeriodAll:
			fmt.Printf("%s: $%.2f\n", period, a.agg.Earnings(period, ref))
			return nil
		default:
			return fmt.Errorf("unknown period %q (want day, week, month or all)", args[0])
		}
	}
	sum := a.agg.EarningsSummary(ref)
	fmt.Printf("today:   $%.2f\n", sum.Day)
	fmt.Printf("week:    $%.2f\n", sum.Week)
	fmt.Printf("month:   $%.2f\n", sum.Month)
	fmt.Printf("all:     $%.2f\n", sum.All)
	return nil
}

func (a *app) report() error {
	rep := a.agg.SalesReport()
	fmt.Printf("total sales:  $%.2f\n", rep.TotalSales)
	fmt.Printf("total orders: %d\n", rep.TotalOrders)
	for i, p := range rep.PopularProducts {
		fmt.Printf("%2d. %-20s %d sold\n", i+1, p.ProductName, p.QuantitySold)
	}
	return nil
}

func (a *app) addStaff(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: add-staff <name> <role> <shift>")
	}
	member, err := a.roster.Add(args[0], args[1], args[2])
	if err != nil {
		return err
	}
	if err := a.save(); err != nil {
		return err
	}
	fmt.Printf("added %s as %s (%s)\n", member.Name, member.Role, member.ID)
	return nil
}

func (a *app) removeStaff(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: remove-staff <staff-id>")
	}
	if err := a.roster.Remove(args[0]); err != nil {
		return err
	}
	return a.save()
}

func (a *app) listStaff() error {
	for _, member := range a.roster.List() {
		fmt.Printf("%s  %-20s %-15s %s\n", member.ID, member.Name, member.Role, member.Shift)
	}
	return nil
}

func printOrder(o *models.Order) {
	parts := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		parts = append(parts, fmt.Sprintf("%s (%d)", it.ProductName, it.Quantity))
	}
	fmt.Printf("%s  %-15s %-9s $%8.2f  %s  [%s]\n",
		o.ID, o.CustomerName, o.Status, o.Total, o.CreatedAt.Format("2006-01-02 15:04"), strings.Join(parts, ", "))
}

func parsePair(spec string) (string, float64, error) {
	id, qtyStr, found := strings.Cut(spec, "=")
	if !found || id == "" {
		return "", 0, fmt.Errorf("invalid item %q (want id=quantity)", spec)
	}
	qty, err := strconv.ParseFloat(qtyStr, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid quantity in %q", spec)
	}
	return id, qty, nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `bakehouse - bakery management

usage: bakehouse [-config file] <command> [args]

inventory:
  add-ingredient <name> <quantity> <unit> <reorder-level>
  restock <ingredient-id> <amount>
  delete-ingredient <ingredient-id>
  inventory
  low-stock

products:
  add-product <name> <price> <stock> <ingredientID=qty>...
  restock-product <product-id> <amount>
  delete-product <product-id>
  products

orders:
  create-order <customer> <productID=qty>...
  add-order-item <order-id> <product-id> <quantity>
  complete-order <order-id>
  delete-order <order-id>
  delete-order-item <order-id> <item-index>
  orders

sales:
  pending
  sold-items <order-id>
  earnings [day|week|month|all] [YYYY-MM-DD]
  report

staff:
  add-staff <name> <role> <shift>
  remove-staff <staff-id>
  staff`)
}
