package services

import (
	"context"

	"ticket-marketplace/internal/models"
	"ticket-marketplace/internal/queue"
)

// EventRepository interface for event data operations
type EventRepository interface {
	GetByID(id int64) (*models.Event, error)
	List(limit, offset int) ([]*models.Event, error)
}

// AccountRepository interface for account data operations
type AccountRepository interface {
	GetByID(id int64) (*models.Account, error)
}

// QRRenderer renders a payload into an image
type QRRenderer interface {
	Render(payload string, width, height int) ([]byte, error)
}

// ArtifactStorage defines the interface for ticket artifact storage
type ArtifactStorage interface {
	// Upload stores an artifact and returns its public URL
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Delete removes an artifact from storage
	Delete(ctx context.Context, key string) error

	// GetURL returns the public URL for an artifact
	GetURL(key string) string

	// Exists checks if an artifact exists in storage
	Exists(ctx context.Context, key string) (bool, error)
}

// EventPublisher publishes domain events to the message broker
type EventPublisher interface {
	PublishTicketsIssued(ctx context.Context, event queue.TicketsIssuedEvent) error
	PublishTicketRedeemed(ctx context.Context, event queue.TicketRedeemedEvent) error
}
