package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/google/uuid"

	"ticket-marketplace/internal/models"
	"ticket-marketplace/internal/queue"
)

// TicketRepository interface for ticket data operations
type TicketRepository interface {
	Create(accountID, eventID int64, pricePaid int, spec models.TicketSpec) (*models.Ticket, error)
	GetByToken(token string) (*models.Ticket, error)
	ListByAccount(accountID int64) ([]*models.Ticket, error)
	Redeem(token string) (bool, error)
	PurgeByAccount(accountID int64) ([]string, error)
}

// TicketService issues tickets and validates redemptions
type TicketService struct {
	ticketRepo TicketRepository
	qr         QRRenderer
	storage    ArtifactStorage
	publisher  EventPublisher
	baseURL    string
	qrSize     int
}

// NewTicketService creates a new ticket service. The publisher may be nil
// when no broker is configured.
func NewTicketService(ticketRepo TicketRepository, qr QRRenderer, storage ArtifactStorage, publisher EventPublisher, baseURL string, qrSize int) *TicketService {
	if qrSize <= 0 {
		qrSize = 256
	}
	return &TicketService{
		ticketRepo: ticketRepo,
		qr:         qr,
		storage:    storage,
		publisher:  publisher,
		baseURL:    baseURL,
		qrSize:     qrSize,
	}
}

// NewTicketSpec generates a fresh token and artifact key. It performs no
// I/O, so it is safe to call inside the checkout transaction.
func (s *TicketService) NewTicketSpec() models.TicketSpec {
	token := uuid.NewString()
	return models.TicketSpec{
		Token: token,
		QRKey: fmt.Sprintf("tickets/%s.png", token),
	}
}

// GatePayload builds the URL encoded into a ticket's QR code
func (s *TicketService) GatePayload(token string) string {
	return fmt.Sprintf("%s/redeem?token=%s", s.baseURL, url.QueryEscape(token))
}

// Issue creates a single ticket outside the checkout flow, e.g. for
// comps or support corrections
func (s *TicketService) Issue(ctx context.Context, accountID, eventID int64, pricePaid int) (*models.Ticket, error) {
	if pricePaid < 0 {
		return nil, models.ErrInvalidInput
	}

	spec := s.NewTicketSpec()
	ticket, err := s.ticketRepo.Create(accountID, eventID, pricePaid, spec)
	if err != nil {
		return nil, err
	}

	s.renderAndStore(ctx, ticket.Token, ticket.QRKey)

	return ticket, nil
}

// renderAndStore renders the QR artifact and uploads it. Failures are
// logged, not returned: the token alone is enough to re-render later.
func (s *TicketService) renderAndStore(ctx context.Context, token, key string) {
	png, err := s.qr.Render(s.GatePayload(token), s.qrSize, s.qrSize)
	if err != nil {
		log.Printf("Warning: failed to render qr for ticket %s: %v", token, err)
		return
	}

	if _, err := s.storage.Upload(ctx, key, png, "image/png"); err != nil {
		log.Printf("Warning: failed to store qr artifact %s: %v", key, err)
	}
}

// RenderReceiptsQR renders and stores the QR artifact for each receipt
func (s *TicketService) RenderReceiptsQR(ctx context.Context, receipts []models.TicketReceipt) {
	for _, receipt := range receipts {
		s.renderAndStore(ctx, receipt.Token, receipt.QRKey)
	}
}

// QRImage returns the PNG QR code for a ticket, re-rendering it from the
// token rather than reading the stored artifact
func (s *TicketService) QRImage(token string) ([]byte, error) {
	ticket, err := s.ticketRepo.GetByToken(token)
	if err != nil {
		return nil, err
	}

	return s.qr.Render(s.GatePayload(ticket.Token), s.qrSize, s.qrSize)
}

// Redeem attempts to mark the ticket as used. It returns true exactly
// once per token; repeated or unknown tokens return false. An empty token
// is simply invalid, not an error.
func (s *TicketService) Redeem(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	redeemed, err := s.ticketRepo.Redeem(token)
	if err != nil {
		return false, err
	}

	if redeemed && s.publisher != nil {
		ticket, err := s.ticketRepo.GetByToken(token)
		if err != nil {
			log.Printf("Warning: failed to load redeemed ticket %s: %v", token, err)
			return true, nil
		}

		event := queue.TicketRedeemedEvent{
			TicketID:   ticket.ID,
			EventID:    ticket.EventID,
			Token:      ticket.Token,
			RedeemedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.publisher.PublishTicketRedeemed(ctx, event); err != nil {
			log.Printf("Warning: failed to publish redemption event for ticket %d: %v", ticket.ID, err)
		}
	}

	return redeemed, nil
}

// ListAccountTickets returns all tickets owned by an account
func (s *TicketService) ListAccountTickets(accountID int64) ([]*models.Ticket, error) {
	return s.ticketRepo.ListByAccount(accountID)
}

// PurgeAccountTickets deletes an account's tickets and their stored
// artifacts
func (s *TicketService) PurgeAccountTickets(ctx context.Context, accountID int64) (int, error) {
	keys, err := s.ticketRepo.PurgeByAccount(accountID)
	if err != nil {
		return 0, err
	}

	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.storage.Delete(ctx, key); err != nil {
			log.Printf("Warning: failed to delete qr artifact %s: %v", key, err)
		}
	}

	return len(keys), nil
}
