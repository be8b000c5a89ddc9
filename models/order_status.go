package models

import "fmt"

// OrderStatus is the lifecycle state of an order. The flow is linear with a
// single escape hatch: any non-terminal order can be cancelled, and SERVED
// and CANCELLED admit no further transitions.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusPreparing OrderStatus = "PREPARING"
	StatusReady     OrderStatus = "READY"
	StatusServed    OrderStatus = "SERVED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// orderFlow is the single source of truth for legal transitions. A status
// missing from a target list is unreachable from that state; terminal states
// map to an empty list.
var orderFlow = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusServed, StatusCancelled},
	StatusServed:    {},
	StatusCancelled: {},
}

// AllStatuses returns every status in lifecycle order.
func AllStatuses() []OrderStatus {
	return []OrderStatus{
		StatusPending,
		StatusConfirmed,
		StatusPreparing,
		StatusReady,
		StatusServed,
		StatusCancelled,
	}
}

// ActiveStatuses returns the non-terminal statuses. A table's "open orders"
// are exactly the orders in one of these states.
func ActiveStatuses() []OrderStatus {
	return []OrderStatus{StatusPending, StatusConfirmed, StatusPreparing, StatusReady}
}

func (s OrderStatus) Valid() bool {
	_, ok := orderFlow[s]
	return ok
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	return s == StatusServed || s == StatusCancelled
}

// Active is the complement of Terminal for valid statuses.
func (s OrderStatus) Active() bool {
	return s.Valid() && !s.Terminal()
}

// NextStates returns the statuses reachable in one hop.
func (s OrderStatus) NextStates() []OrderStatus {
	next := orderFlow[s]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}

func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range orderFlow[s] {
		if next == target {
			return true
		}
	}
	return false
}

// InvalidTransitionError reports a rejected status change.
type InvalidTransitionError struct {
	Current   OrderStatus `json:"current"`
	Requested OrderStatus `json:"requested"`
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition: %s -> %s", e.Current, e.Requested)
}

// StatusDescriptor is the presentation mapping for one status, consumed by
// the admin panel and the customer order tracker.
type StatusDescriptor struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

var statusDescriptors = map[OrderStatus]StatusDescriptor{
	StatusPending:   {Label: "Waiting for confirmation", Color: "#f59e0b", Icon: "clock"},
	StatusConfirmed: {Label: "Confirmed", Color: "#3b82f6", Icon: "check-circle"},
	StatusPreparing: {Label: "In the kitchen", Color: "#8b5cf6", Icon: "fire"},
	StatusReady:     {Label: "Ready to serve", Color: "#10b981", Icon: "bell"},
	StatusServed:    {Label: "Served", Color: "#22c55e", Icon: "utensils"},
	StatusCancelled: {Label: "Cancelled", Color: "#ef4444", Icon: "x-circle"},
}

// Descriptor panics on an unknown status; callers validate first, and a
// status outside the map is a programming error, not user input.
func (s OrderStatus) Descriptor() StatusDescriptor {
	desc, ok := statusDescriptors[s]
	if !ok {
		panic(fmt.Sprintf("no descriptor for order status %q", s))
	}
	return desc
}
