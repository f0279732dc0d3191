package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ticket-marketplace/internal/models"
)

// IdempotencyStore persists checkout results keyed by client-supplied
// idempotency keys so a retried checkout replays the original receipts
// instead of charging again.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore creates a new idempotency store
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

type checkoutRecord struct {
	Receipts []models.TicketReceipt `json:"receipts"`
	Total    int64                  `json:"total"`
}

func checkoutKey(accountID int64, key string) string {
	return fmt.Sprintf("checkout:%d:%s", accountID, key)
}

// Get returns the recorded result for a key, or ok=false when none exists
func (s *IdempotencyStore) Get(ctx context.Context, accountID int64, key string) ([]models.TicketReceipt, int64, bool, error) {
	data, err := s.client.Get(ctx, checkoutKey(accountID, key)).Bytes()
	if err == redis.Nil {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to read idempotency record: %w", err)
	}

	var record checkoutRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, 0, false, fmt.Errorf("failed to decode idempotency record: %w", err)
	}

	return record.Receipts, record.Total, true, nil
}

// Save records a committed checkout result under the given key
func (s *IdempotencyStore) Save(ctx context.Context, accountID int64, key string, receipts []models.TicketReceipt, total int64) error {
	data, err := json.Marshal(checkoutRecord{Receipts: receipts, Total: total})
	if err != nil {
		return fmt.Errorf("failed to encode idempotency record: %w", err)
	}

	if err := s.client.Set(ctx, checkoutKey(accountID, key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save idempotency record: %w", err)
	}

	return nil
}
