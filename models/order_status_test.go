package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// allowed mirrors the lifecycle rules: linear happy path with CANCELLED
// reachable from any non-terminal state.
var allowed = map[OrderStatus]map[OrderStatus]bool{
	StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed: {StatusPreparing: true, StatusCancelled: true},
	StatusPreparing: {StatusReady: true, StatusCancelled: true},
	StatusReady:     {StatusServed: true, StatusCancelled: true},
	StatusServed:    {},
	StatusCancelled: {},
}

func TestTransitionGrid(t *testing.T) {
	for _, from := range AllStatuses() {
		for _, to := range AllStatuses() {
			order := Order{Status: from}
			err := order.TransitionTo(to)

			if allowed[from][to] {
				assert.NoErrorf(t, err, "%s -> %s should be allowed", from, to)
				assert.Equal(t, to, order.Status)
			} else {
				assert.Errorf(t, err, "%s -> %s should be rejected", from, to)
				assert.Equal(t, from, order.Status, "rejected transition must not modify the order")

				transErr, ok := err.(*InvalidTransitionError)
				if assert.True(t, ok, "error should be *InvalidTransitionError") {
					assert.Equal(t, from, transErr.Current)
					assert.Equal(t, to, transErr.Requested)
				}
			}
		}
	}
}

func TestTerminalStatesAdmitNoTransitions(t *testing.T) {
	for _, terminal := range []OrderStatus{StatusServed, StatusCancelled} {
		assert.True(t, terminal.Terminal())
		assert.Empty(t, terminal.NextStates())

		for _, to := range AllStatuses() {
			order := Order{Status: terminal}
			assert.Error(t, order.TransitionTo(to))
			assert.Equal(t, terminal, order.Status)
		}
	}
}

func TestActivePartition(t *testing.T) {
	active := map[OrderStatus]bool{}
	for _, s := range ActiveStatuses() {
		active[s] = true
	}

	for _, s := range AllStatuses() {
		assert.Equal(t, active[s], s.Active(), "Active() must agree with ActiveStatuses() for %s", s)
		assert.Equal(t, !active[s], s.Terminal())
	}
	assert.Len(t, ActiveStatuses(), 4)
}

func TestEveryStatusHasDescriptor(t *testing.T) {
	for _, s := range AllStatuses() {
		desc := s.Descriptor()
		assert.NotEmpty(t, desc.Label)
		assert.NotEmpty(t, desc.Color)
		assert.NotEmpty(t, desc.Icon)
	}
}

func TestUnknownStatusIsInvalid(t *testing.T) {
	bogus := OrderStatus("DELIVERED")
	assert.False(t, bogus.Valid())
	assert.False(t, bogus.CanTransitionTo(StatusServed))

	order := Order{Status: StatusPending}
	assert.Error(t, order.TransitionTo(bogus))
	assert.Equal(t, StatusPending, order.Status)
}
