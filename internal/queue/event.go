// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketsIssuedEvent is published once a checkout commits. It carries
// enough information for downstream consumers to log, notify, or trigger
// analytics without querying the primary database.
type TicketsIssuedEvent struct {
	AccountID  int64   `json:"account_id"`
	TicketIDs  []int64 `json:"ticket_ids"`
	TotalCents int64   `json:"total_cents"`
	IssuedAt   string  `json:"issued_at"`
}

// TicketRedeemedEvent is published when a ticket transitions to used.
type TicketRedeemedEvent struct {
	TicketID   int64  `json:"ticket_id"`
	EventID    int64  `json:"event_id"`
	Token      string `json:"token"`
	RedeemedAt string `json:"redeemed_at"`
}
