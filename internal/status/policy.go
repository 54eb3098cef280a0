package status

import "marketplaceOrders/models"

// Policy decides which status changes an order may go through.
// The zero value allows only self-transitions.
type Policy struct {
	edges map[models.OrderStatus][]models.OrderStatus
}

// DefaultPolicy returns the marketplace order lifecycle.
func DefaultPolicy() Policy {
	return Policy{edges: map[models.OrderStatus][]models.OrderStatus{
		models.OrderStatusNew:       {models.OrderStatusAccepted, models.OrderStatusCanceled},
		models.OrderStatusAccepted:  {models.OrderStatusReady, models.OrderStatusCanceled, models.OrderStatusPause},
		models.OrderStatusReady:     {models.OrderStatusOnAWay, models.OrderStatusCanceled, models.OrderStatusPause},
		models.OrderStatusOnAWay:    {models.OrderStatusDelivered, models.OrderStatusCanceled, models.OrderStatusPause},
		models.OrderStatusPause:     {models.OrderStatusAccepted, models.OrderStatusReady, models.OrderStatusOnAWay, models.OrderStatusCanceled},
		models.OrderStatusDelivered: {},
		models.OrderStatusCanceled:  {},
	}}
}

// IsAllowed reports whether an order in from may move to to.
// Keeping the same status is always allowed; an unknown from allows nothing else.
func (p Policy) IsAllowed(from, to models.OrderStatus) bool {
	if from == to {
		return true
	}
	for _, s := range p.edges[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Allowed returns the statuses reachable from from in one step.
func (p Policy) Allowed(from models.OrderStatus) []models.OrderStatus {
	next := p.edges[from]
	out := make([]models.OrderStatus, len(next))
	copy(out, next)
	return out
}

// IsTerminal reports whether s is a known status with no way out.
func (p Policy) IsTerminal(s models.OrderStatus) bool {
	next, ok := p.edges[s]
	return ok && len(next) == 0
}
