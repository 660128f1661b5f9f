package sales

import (
	"sort"
	"time"

	"bakehouse/internal/bakery"
	"bakehouse/internal/models"
)

// Period is a time-bucket granularity for earnings reports.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

// SoldItem is one line of a completed order's sold-items breakdown.
type SoldItem struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineRevenue float64 `json:"line_revenue"`
}

// ProductSales ranks a product by total quantity ordered.
type ProductSales struct {
	ProductName  string `json:"product_name"`
	QuantitySold int    `json:"quantity_sold"`
}

// Report is the summary sales view: completed-order revenue, order
// count, and products ranked by popularity.
type Report struct {
	TotalSales      float64        `json:"total_sales"`
	TotalOrders     int            `json:"total_orders"`
	PopularProducts []ProductSales `json:"popular_products"`
}

// Summary holds earnings for every bucket containing the reference time.
type Summary struct {
	Day   float64 `json:"day"`
	Week  float64 `json:"week"`
	Month float64 `json:"month"`
	All   float64 `json:"all"`
}

// Aggregator computes sales reports over the order collection. It only
// reads state and never mutates it.
type Aggregator struct {
	state *bakery.State
}

// New creates an aggregator over the given state.
func New(state *bakery.State) *Aggregator {
	return &Aggregator{state: state}
}

// PendingOrders returns all pending orders sorted by creation time.
func (a *Aggregator) PendingOrders() []*models.Order {
	var pending []*models.Order
	for _, o := range a.state.Orders {
		if o.Status == models.OrderStatusPending {
			pending = append(pending, o)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].CreatedAt.Before(pending[j].CreatedAt) })
	return pending
}

// SoldItems returns the ordered line breakdown of a completed order,
// using the snapshot prices taken at creation. Non-completed orders
// yield nothing.
func (a *Aggregator) SoldItems(order *models.Order) []SoldItem {
	if order == nil || order.Status != models.OrderStatusCompleted {
		return nil
	}
	items := make([]SoldItem, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, SoldItem{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineRevenue: it.LineTotal(),
		})
	}
	return items
}

// Earnings sums the totals of completed orders whose completion time
// falls in the bucket containing ref. Buckets: calendar day, ISO week
// (Monday start, year+week compared), calendar month (year+month
// compared). PeriodAll sums every completed order regardless of date.
func (a *Aggregator) Earnings(period Period, ref time.Time) float64 {
	var sum float64
	for _, o := range a.state.Orders {
		if o.Status != models.OrderStatusCompleted || o.CompletedAt == nil {
			continue
		}
		if inBucket(period, *o.CompletedAt, ref) {
			sum += o.Total
		}
	}
	return sum
}

// EarningsSummary returns earnings for all granularities at once.
func (a *Aggregator) EarningsSummary(ref time.Time) Summary {
	return Summary{
		Day:   a.Earnings(PeriodDay, ref),
		Week:  a.Earnings(PeriodWeek, ref),
		Month: a.Earnings(PeriodMonth, ref),
		All:   a.Earnings(PeriodAll, ref),
	}
}

// SalesReport returns total completed revenue, the overall order count,
// and products ranked by quantity ordered across all orders. Ties rank
// alphabetically so the report is stable.
func (a *Aggregator) SalesReport() Report {
	rep := Report{TotalOrders: len(a.state.Orders)}
	counts := make(map[string]int)
	for _, o := range a.state.Orders {
		if o.Status == models.OrderStatusCompleted {
			rep.TotalSales += o.Total
		}
		for _, it := range o.Items {
			counts[it.ProductName] += it.Quantity
		}
	}
	for name, n := range counts {
		rep.PopularProducts = append(rep.PopularProducts, ProductSales{ProductName: name, QuantitySold: n})
	}
	sort.Slice(rep.PopularProducts, func(i, j int) bool {
		pi, pj := rep.PopularProducts[i], rep.PopularProducts[j]
		if pi.QuantitySold != pj.QuantitySold {
			return pi.QuantitySold > pj.QuantitySold
		}
		return pi.ProductName < pj.ProductName
	})
	return rep
}

func inBucket(period Period, completed, ref time.Time) bool {
	switch period {
	case PeriodDay:
		cy, cm, cd := completed.Date()
		ry, rm, rd := ref.Date()
		return cy == ry && cm == rm && cd == rd
	case PeriodWeek:
		cy, cw := completed.ISOWeek()
		ry, rw := ref.ISOWeek()
		return cy == ry && cw == rw
	case PeriodMonth:
		return completed.Year() == ref.Year() && completed.Month() == ref.Month()
	case PeriodAll:
		return true
	default:
		return false
	}
}
