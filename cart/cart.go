// Package cart holds the ordering client's in-memory cart. It exists only
// for the duration of a visit: nothing here is persisted, and the cart is
// destroyed on successful submission or an explicit clear. There is no
// server-side draft order.
package cart

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thanwa/qr-table-order/apperr"
	"github.com/thanwa/qr-table-order/models"
)

// unknownCustomer groups items whose customer name was left blank.
const unknownCustomer = "Unknown"

type Item struct {
	ID           string      `json:"id"`
	MenuID       uint        `json:"menu_id"`
	Menu         models.Menu `json:"menu"`
	Quantity     int         `json:"quantity"`
	Notes        string      `json:"notes,omitempty"`
	CustomerName string      `json:"customer_name"`
	AddedAt      time.Time   `json:"added_at"`
}

type Summary struct {
	Items      []Item  `json:"items"`
	TotalItems int     `json:"total_items"`
	// TotalAmount is priced from the current menu; the authoritative captured
	// prices are set server-side at submission.
	TotalAmount    float64           `json:"total_amount"`
	CustomerGroups map[string][]Item `json:"customer_groups"`
}

// CreateOrderItem is one line of the order-creation request.
type CreateOrderItem struct {
	MenuID       uint   `json:"menu_id"`
	Quantity     int    `json:"quantity"`
	Notes        string `json:"notes,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
}

// CreateOrderRequest submits the whole cart as one order. SessionID must be
// the table's current session; the server rejects stale codes.
type CreateOrderRequest struct {
	TableID      uint              `json:"table_id"`
	SessionID    string            `json:"session_id"`
	CustomerName *string           `json:"customer_name,omitempty"`
	Items        []CreateOrderItem `json:"items"`
}

// Submitter sends an assembled order to the server. *Client is the HTTP
// implementation; tests substitute their own.
type Submitter interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error)
}

// Cart is a single-writer store scoped to one browsing session. The mutex
// guards against accidental cross-goroutine use; carts are not shared across
// devices or tabs.
type Cart struct {
	mu        sync.Mutex
	items     []Item
	submitter Submitter
}

func New(submitter Submitter) *Cart {
	return &Cart{submitter: submitter}
}

// Add appends a line with a freshly generated local id. The customer name is
// trimmed; grouping later is case-sensitive on the trimmed string.
func (ct *Cart) Add(menu models.Menu, quantity int, customerName, notes string) Item {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	item := Item{
		ID:           uuid.NewString(),
		MenuID:       menu.ID,
		Menu:         menu,
		Quantity:     quantity,
		Notes:        strings.TrimSpace(notes),
		CustomerName: strings.TrimSpace(customerName),
		AddedAt:      time.Now(),
	}
	ct.items = append(ct.items, item)
	return item
}

func (ct *Cart) Remove(itemID string) {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	ct.removeLocked(itemID)
}

func (ct *Cart) removeLocked(itemID string) {
	kept := ct.items[:0]
	for _, item := range ct.items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	ct.items = kept
}

// SetQuantity updates a line's quantity; anything at or below zero removes
// the line.
func (ct *Cart) SetQuantity(itemID string, quantity int) {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	if quantity <= 0 {
		ct.removeLocked(itemID)
		return
	}
	for i := range ct.items {
		if ct.items[i].ID == itemID {
			ct.items[i].Quantity = quantity
			return
		}
	}
}

func (ct *Cart) SetCustomerName(itemID, customerName string) {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	for i := range ct.items {
		if ct.items[i].ID == itemID {
			ct.items[i].CustomerName = strings.TrimSpace(customerName)
			return
		}
	}
}

func (ct *Cart) SetNotes(itemID, notes string) {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	for i := range ct.items {
		if ct.items[i].ID == itemID {
			ct.items[i].Notes = strings.TrimSpace(notes)
			return
		}
	}
}

func (ct *Cart) Clear() {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	ct.items = nil
}

func (ct *Cart) Len() int {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	return len(ct.items)
}

func (ct *Cart) Items() []Item {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	out := make([]Item, len(ct.items))
	copy(out, ct.items)
	return out
}

// Summary projects the cart into totals and a per-customer grouping. Items
// with the same trimmed name belong to the same group; blank names group
// under "Unknown".
func (ct *Cart) Summary() Summary {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	summary := Summary{
		Items:          make([]Item, len(ct.items)),
		CustomerGroups: make(map[string][]Item),
	}
	copy(summary.Items, ct.items)

	for _, item := range ct.items {
		summary.TotalItems += item.Quantity
		summary.TotalAmount += float64(item.Quantity) * item.Menu.Price

		name := item.CustomerName
		if name == "" {
			name = unknownCustomer
		}
		summary.CustomerGroups[name] = append(summary.CustomerGroups[name], item)
	}
	return summary
}

// CustomerTotal sums one customer's lines at current menu prices.
func (ct *Cart) CustomerTotal(customerName string) float64 {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	var total float64
	for _, item := range ct.items {
		if item.CustomerName == customerName {
			total += float64(item.Quantity) * item.Menu.Price
		}
	}
	return total
}

// Submit sends the entire cart as one order: one Order with many OrderItems,
// not one order per customer. The scanned session id rides along so the
// server can reject carts from before a table reset. An empty cart fails
// with a validation error before any network call. On success the cart is
// cleared; on any failure it is left intact so the user can retry. There is
// no idempotency key, so a double submission under network delay can create
// duplicate orders.
func (ct *Cart) Submit(ctx context.Context, tableID uint, sessionID string) (*models.Order, error) {
	ct.mu.Lock()
	if len(ct.items) == 0 {
		ct.mu.Unlock()
		return nil, apperr.Validation("cart is empty")
	}

	req := CreateOrderRequest{TableID: tableID, SessionID: sessionID}
	for _, item := range ct.items {
		req.Items = append(req.Items, CreateOrderItem{
			MenuID:       item.MenuID,
			Quantity:     item.Quantity,
			Notes:        item.Notes,
			CustomerName: item.CustomerName,
		})
	}
	ct.mu.Unlock()

	order, err := ct.submitter.CreateOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	ct.Clear()
	return order, nil
}
