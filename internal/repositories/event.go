package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"ticket-marketplace/internal/models"
)

// EventRepository handles event data operations
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(id int64) (*models.Event, error) {
	query := `
		SELECT id, title, venue, price, starts_at, created_at
		FROM events
		WHERE id = $1`

	event := &models.Event{}
	err := r.db.QueryRow(query, id).Scan(
		&event.ID,
		&event.Title,
		&event.Venue,
		&event.Price,
		&event.StartsAt,
		&event.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

// List retrieves events ordered by start time
func (r *EventRepository) List(limit, offset int) ([]*models.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, title, venue, price, starts_at, created_at
		FROM events
		ORDER BY starts_at ASC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Venue,
			&event.Price,
			&event.StartsAt,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// Create creates a new event
func (r *EventRepository) Create(title, venue string, price int, startsAt time.Time) (*models.Event, error) {
	query := `
		INSERT INTO events (title, venue, price, starts_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, venue, price, starts_at, created_at`

	event := &models.Event{}
	err := r.db.QueryRow(query, title, venue, price, startsAt).Scan(
		&event.ID,
		&event.Title,
		&event.Venue,
		&event.Price,
		&event.StartsAt,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return event, nil
}
