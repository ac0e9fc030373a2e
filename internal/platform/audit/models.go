// Package audit defines the audit event model and publisher implementations.
// Assembly services emit events for every payload handed to the gateway so
// payment attempts stay reconstructable after the fact.
package audit

import "time"

// Event is one audit record.
type Event struct {
	ID         string            `json:"id"`
	Action     string            `json:"action"`
	OrderID    string            `json:"order_id,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
	Details    map[string]string `json:"details,omitempty"`
}
