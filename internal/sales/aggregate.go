// Sales rollups for the report screen. Everything here is pure: the input
// slice is never mutated and the same input always yields the same output.
package sales

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pemafoods/pdv/internal/catalog"
)

// UnknownLocation labels orders committed before locations existed.
const UnknownLocation = "N/A"

type DayTotal struct {
	Day   string          `json:"day"` // YYYY-MM-DD
	Total decimal.Decimal `json:"total"`
}

type LocationTotal struct {
	Location string          `json:"location"`
	Total    decimal.Decimal `json:"total"`
}

type ProductCount struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// FilterByRange keeps orders whose date falls within the calendar days
// [r.From, r.To] inclusive; a zero To means the single day of From. A nil
// range returns the input unchanged.
func FilterByRange(orders []CompletedOrder, r *DateRange) []CompletedOrder {
	if r == nil || r.From.IsZero() {
		return orders
	}
	from := startOfDay(r.From)
	to := r.To
	if to.IsZero() {
		to = r.From
	}
	end := startOfDay(to).AddDate(0, 0, 1) // exclusive

	out := make([]CompletedOrder, 0, len(orders))
	for _, o := range orders {
		if !o.Date.Before(from) && o.Date.Before(end) {
			out = append(out, o)
		}
	}
	return out
}

// ByDay groups orders by calendar day, summing totals, ascending by day.
func ByDay(orders []CompletedOrder) []DayTotal {
	sums := map[string]decimal.Decimal{}
	for _, o := range orders {
		day := o.Date.Format("2006-01-02")
		sums[day] = sums[day].Add(o.Total)
	}
	out := make([]DayTotal, 0, len(sums))
	for day, total := range sums {
		out = append(out, DayTotal{Day: day, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// ByLocation groups orders by location, summing totals, descending by
// total. Orders without a location fall into UnknownLocation.
func ByLocation(orders []CompletedOrder) []LocationTotal {
	sums := map[string]decimal.Decimal{}
	order := []string{} // first-encountered, keeps ties stable
	for _, o := range orders {
		loc := o.Location
		if loc == "" {
			loc = UnknownLocation
		}
		if _, ok := sums[loc]; !ok {
			order = append(order, loc)
		}
		sums[loc] = sums[loc].Add(o.Total)
	}
	out := make([]LocationTotal, 0, len(order))
	for _, loc := range order {
		out = append(out, LocationTotal{Location: loc, Total: sums[loc]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total.GreaterThan(out[j].Total) })
	return out
}

// TopProducts flattens all order items and ranks product codes by summed
// quantity (not revenue), descending, up to limit. Ties keep the order in
// which the code was first encountered.
func TopProducts(orders []CompletedOrder, limit int) []ProductCount {
	if limit <= 0 {
		limit = 10
	}
	counts := map[string]int{}
	products := map[string]catalog.Product{}
	order := []string{}
	for _, o := range orders {
		for _, it := range o.Items {
			code := it.Product.Code
			if _, ok := counts[code]; !ok {
				order = append(order, code)
				products[code] = it.Product
			}
			counts[code] += it.Quantity
		}
	}
	out := make([]ProductCount, 0, len(order))
	for _, code := range order {
		out = append(out, ProductCount{Product: products[code], Quantity: counts[code]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity > out[j].Quantity })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
