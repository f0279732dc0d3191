package services

import (
	"context"
	"log"
	"time"

	"ticket-marketplace/internal/models"
	"ticket-marketplace/internal/queue"
	"ticket-marketplace/internal/repositories"
)

// CheckoutStore executes the checkout transaction against the database
type CheckoutStore interface {
	ExecuteCheckout(ctx context.Context, accountID int64, issue repositories.IssueFunc) ([]models.TicketReceipt, int64, error)
}

// CheckoutRecorder replays previously committed checkouts for retried
// idempotency keys
type CheckoutRecorder interface {
	Get(ctx context.Context, accountID int64, key string) ([]models.TicketReceipt, int64, bool, error)
	Save(ctx context.Context, accountID int64, key string, receipts []models.TicketReceipt, total int64) error
}

// CheckoutResult is the outcome of a committed checkout
type CheckoutResult struct {
	Receipts []models.TicketReceipt `json:"tickets"`
	Total    int64                  `json:"total"`
	Replayed bool                   `json:"replayed,omitempty"`
}

// CheckoutService orchestrates cart checkout and ticket issuance
type CheckoutService struct {
	store     CheckoutStore
	issuer    *TicketService
	recorder  CheckoutRecorder
	publisher EventPublisher
}

// NewCheckoutService creates a new checkout service. The recorder and
// publisher may be nil when redis or the broker is not configured.
func NewCheckoutService(store CheckoutStore, issuer *TicketService, recorder CheckoutRecorder, publisher EventPublisher) *CheckoutService {
	return &CheckoutService{
		store:     store,
		issuer:    issuer,
		recorder:  recorder,
		publisher: publisher,
	}
}

// Checkout charges the account for its active cart and issues one ticket
// per unit. When idempotencyKey is non-empty and matches a previously
// committed checkout, the original result is returned without charging
// again.
func (s *CheckoutService) Checkout(ctx context.Context, accountID int64, idempotencyKey string) (*CheckoutResult, error) {
	if idempotencyKey != "" && s.recorder != nil {
		receipts, total, ok, err := s.recorder.Get(ctx, accountID, idempotencyKey)
		if err != nil {
			log.Printf("Warning: idempotency lookup failed for account %d: %v", accountID, err)
		} else if ok {
			return &CheckoutResult{Receipts: receipts, Total: total, Replayed: true}, nil
		}
	}

	receipts, total, err := s.store.ExecuteCheckout(ctx, accountID, func(line models.CartLine, unit int) models.TicketSpec {
		return s.issuer.NewTicketSpec()
	})
	if err != nil {
		return nil, err
	}

	// The transaction has committed; everything below is best effort.
	s.issuer.RenderReceiptsQR(ctx, receipts)

	if idempotencyKey != "" && s.recorder != nil {
		if err := s.recorder.Save(ctx, accountID, idempotencyKey, receipts, total); err != nil {
			log.Printf("Warning: failed to save idempotency record for account %d: %v", accountID, err)
		}
	}

	if s.publisher != nil {
		ids := make([]int64, 0, len(receipts))
		for _, receipt := range receipts {
			ids = append(ids, receipt.TicketID)
		}
		event := queue.TicketsIssuedEvent{
			AccountID:  accountID,
			TicketIDs:  ids,
			TotalCents: total,
			IssuedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.publisher.PublishTicketsIssued(ctx, event); err != nil {
			log.Printf("Warning: failed to publish issuance event for account %d: %v", accountID, err)
		}
	}

	return &CheckoutResult{Receipts: receipts, Total: total}, nil
}
