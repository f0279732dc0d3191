package services

import (
	"fmt"

	"ticket-marketplace/internal/models"
)

// CartRepository interface for cart data operations
type CartRepository interface {
	GetOrCreateActive(accountID int64) (*models.Cart, error)
	AddLine(cartID, eventID int64, quantity, unitPrice int) (*models.CartLine, error)
	GetLineOwner(lineID int64) (*models.CartLine, int64, error)
	UpdateLineQuantity(lineID int64, quantity int) error
	RemoveLine(lineID int64) error
	ClearLines(cartID int64) error
	ComputeTotal(accountID int64) (int64, error)
}

// CartService manages the account's active cart
type CartService struct {
	cartRepo    CartRepository
	eventRepo   EventRepository
	accountRepo AccountRepository
}

// NewCartService creates a new cart service
func NewCartService(cartRepo CartRepository, eventRepo EventRepository, accountRepo AccountRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		eventRepo:   eventRepo,
		accountRepo: accountRepo,
	}
}

// GetCart returns the account's active cart, creating one if needed
func (s *CartService) GetCart(accountID int64) (*models.Cart, error) {
	if _, err := s.accountRepo.GetByID(accountID); err != nil {
		return nil, err
	}
	return s.cartRepo.GetOrCreateActive(accountID)
}

// AddLine adds an event to the cart, capturing the event's current price
// on the line. A quantity of zero defaults to one.
func (s *CartService) AddLine(accountID, eventID int64, quantity int) (*models.Cart, error) {
	if quantity == 0 {
		quantity = 1
	}
	if err := models.ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return nil, err
	}

	cart, err := s.GetCart(accountID)
	if err != nil {
		return nil, err
	}

	if _, err := s.cartRepo.AddLine(cart.ID, eventID, quantity, event.Price); err != nil {
		return nil, fmt.Errorf("failed to add line: %w", err)
	}

	return s.cartRepo.GetOrCreateActive(accountID)
}

// UpdateLine changes a cart line's quantity. The line must belong to the
// account's own cart.
func (s *CartService) UpdateLine(accountID, lineID int64, quantity int) (*models.Cart, error) {
	if err := models.ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	_, ownerID, err := s.cartRepo.GetLineOwner(lineID)
	if err != nil {
		return nil, err
	}
	if ownerID != accountID {
		return nil, models.ErrForbidden
	}

	if err := s.cartRepo.UpdateLineQuantity(lineID, quantity); err != nil {
		return nil, err
	}

	return s.cartRepo.GetOrCreateActive(accountID)
}

// RemoveLine deletes a cart line. Removing a line that is already gone is
// not an error; the current cart is returned either way.
func (s *CartService) RemoveLine(accountID, lineID int64) (*models.Cart, error) {
	_, ownerID, err := s.cartRepo.GetLineOwner(lineID)
	if err != nil {
		if err == models.ErrCartLineNotFound {
			return s.GetCart(accountID)
		}
		return nil, err
	}
	if ownerID != accountID {
		return nil, models.ErrForbidden
	}

	if err := s.cartRepo.RemoveLine(lineID); err != nil && err != models.ErrCartLineNotFound {
		return nil, err
	}

	return s.cartRepo.GetOrCreateActive(accountID)
}

// Clear removes every line from the account's cart
func (s *CartService) Clear(accountID int64) (*models.Cart, error) {
	cart, err := s.GetCart(accountID)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.ClearLines(cart.ID); err != nil {
		return nil, err
	}

	return s.cartRepo.GetOrCreateActive(accountID)
}

// ComputeTotal returns the sum of quantity * captured unit price over the
// account's active cart
func (s *CartService) ComputeTotal(accountID int64) (int64, error) {
	if _, err := s.accountRepo.GetByID(accountID); err != nil {
		return 0, err
	}
	return s.cartRepo.ComputeTotal(accountID)
}
