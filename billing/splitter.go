// Package billing partitions a table's served-order total across named
// customers. Splitting is a read-side computation for printable receipts; it
// never mutates the underlying orders and posts no payment or settlement
// record.
package billing

import (
	"sort"
	"strings"

	"github.com/thanwa/qr-table-order/models"
	"github.com/thanwa/qr-table-order/utils"
)

// Mode selects how the bill is divided.
type Mode string

const (
	// ModeAuto charges each customer their own items at captured prices.
	ModeAuto Mode = "auto"
	// ModeManual is auto plus signed per-customer adjustments, clamped at 0.
	ModeManual Mode = "manual"
	// ModeEqual divides the grand total evenly across distinct customers.
	ModeEqual Mode = "equal"
)

func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeAuto:
		return ModeAuto, true
	case ModeManual:
		return ModeManual, true
	case ModeEqual:
		return ModeEqual, true
	case "":
		return ModeAuto, true
	}
	return "", false
}

// unknownCustomer buckets items with no recorded name.
const unknownCustomer = "Unknown"

// Splitter computes bill splits over a table's SERVED orders. Unserved and
// cancelled orders never reach billing; NewSplitter drops them.
type Splitter struct {
	orders      []models.Order
	adjustments map[string]float64
}

func NewSplitter(orders []models.Order) *Splitter {
	served := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == models.StatusServed {
			served = append(served, o)
		}
	}
	return &Splitter{
		orders:      served,
		adjustments: make(map[string]float64),
	}
}

// ownerOf resolves the customer a line belongs to: the per-item name when
// recorded, else the order-level name, else "Unknown".
func ownerOf(order models.Order, item models.OrderItem) string {
	if name := strings.TrimSpace(item.CustomerName); name != "" {
		return name
	}
	if order.CustomerName != nil {
		if name := strings.TrimSpace(*order.CustomerName); name != "" {
			return name
		}
	}
	return unknownCustomer
}

// Customers returns the distinct customer names present, sorted.
func (s *Splitter) Customers() []string {
	seen := make(map[string]bool)
	for _, order := range s.orders {
		for _, item := range order.OrderItems {
			seen[ownerOf(order, item)] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GrandTotal is the sum of the served orders' captured totals.
func (s *Splitter) GrandTotal() float64 {
	var total float64
	for _, order := range s.orders {
		total += order.TotalAmount
	}
	return utils.RoundCents(total)
}

// AutoTotals sums each customer's own items: quantity times the unit price
// captured at order time. The totals always sum back to GrandTotal.
func (s *Splitter) AutoTotals() map[string]float64 {
	totals := make(map[string]float64)
	for _, order := range s.orders {
		for _, item := range order.OrderItems {
			totals[ownerOf(order, item)] += item.Subtotal()
		}
	}
	for name, amount := range totals {
		totals[name] = utils.RoundCents(amount)
	}
	return totals
}

// Adjust adds a signed delta to a customer's manual adjustment.
func (s *Splitter) Adjust(customerName string, delta float64) {
	s.adjustments[customerName] += delta
}

// SetAdjustment replaces a customer's adjustment with an absolute amount.
func (s *Splitter) SetAdjustment(customerName string, amount float64) {
	s.adjustments[customerName] = amount
}

// ResetAdjustments zeroes all manual deltas.
func (s *Splitter) ResetAdjustments() {
	s.adjustments = make(map[string]float64)
}

// ManualTotals applies the adjustments on top of the auto totals, clamping
// each customer's final amount at zero.
func (s *Splitter) ManualTotals() map[string]float64 {
	totals := s.AutoTotals()
	for name, total := range totals {
		adjusted := total + s.adjustments[name]
		if adjusted < 0 {
			adjusted = 0
		}
		totals[name] = utils.RoundCents(adjusted)
	}
	return totals
}

// EqualShare is the grand total divided by the number of distinct customers.
// Returns 0 when no customers are present.
func (s *Splitter) EqualShare() float64 {
	customers := s.Customers()
	if len(customers) == 0 {
		return 0
	}
	return utils.RoundCents(s.GrandTotal() / float64(len(customers)))
}

// Entry is one customer's line in a computed split.
type Entry struct {
	CustomerName string  `json:"customer_name"`
	Amount       float64 `json:"amount"`
	Display      string  `json:"display"`
}

// Split is the computed bill for a table under one mode.
type Split struct {
	Mode          Mode    `json:"mode"`
	Entries       []Entry `json:"entries"`
	GrandTotal    float64 `json:"grand_total"`
	CustomerCount int     `json:"customer_count"`
	OrderCount    int     `json:"order_count"`
}

// Compute builds the split for the given mode. Switching modes resets
// nothing: adjustments persist in the manual bucket and simply are not
// applied under auto, while equal mode overrides with the pure average.
func (s *Splitter) Compute(mode Mode) Split {
	customers := s.Customers()
	split := Split{
		Mode:          mode,
		GrandTotal:    s.GrandTotal(),
		CustomerCount: len(customers),
		OrderCount:    len(s.orders),
	}

	var totals map[string]float64
	switch mode {
	case ModeManual:
		totals = s.ManualTotals()
	case ModeEqual:
		share := s.EqualShare()
		totals = make(map[string]float64, len(customers))
		for _, name := range customers {
			totals[name] = share
		}
	default:
		totals = s.AutoTotals()
	}

	for _, name := range customers {
		split.Entries = append(split.Entries, Entry{
			CustomerName: name,
			Amount:       totals[name],
			Display:      utils.FormatBaht(totals[name]),
		})
	}
	return split
}
