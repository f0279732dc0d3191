package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ticket-marketplace/internal/models"
	"ticket-marketplace/internal/queue"
	"ticket-marketplace/internal/repositories"
)

// In-memory implementations of the service dependencies, used by tests.
// They mirror the transactional semantics of the SQL repositories: a
// single mutex per store stands in for row locking.

// MockAccountRepository is an in-memory account store
type MockAccountRepository struct {
	mu       sync.Mutex
	accounts map[int64]*models.Account
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[int64]*models.Account)}
}

func (m *MockAccountRepository) Put(account *models.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *account
	m.accounts[account.ID] = &copied
}

func (m *MockAccountRepository) GetByID(id int64) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	if !ok {
		return nil, models.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

// MockEventRepository is an in-memory event store
type MockEventRepository struct {
	mu     sync.Mutex
	events map[int64]*models.Event
}

func NewMockEventRepository() *MockEventRepository {
	return &MockEventRepository{events: make(map[int64]*models.Event)}
}

func (m *MockEventRepository) Put(event *models.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *event
	m.events[event.ID] = &copied
}

func (m *MockEventRepository) GetByID(id int64) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	event, ok := m.events[id]
	if !ok {
		return nil, models.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

func (m *MockEventRepository) List(limit, offset int) ([]*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var events []*models.Event
	for _, event := range m.events {
		copied := *event
		events = append(events, &copied)
	}
	return events, nil
}

// MockStore backs carts, cart lines, tickets, and balances with maps. It
// implements CartRepository, CheckoutStore, and TicketRepository so the
// services under test share one consistent state.
type MockStore struct {
	mu         sync.Mutex
	accounts   *MockAccountRepository
	carts      map[int64]*models.Cart // keyed by account ID
	tickets    map[string]*models.Ticket
	nextCartID int64
	nextLineID int64
	nextTicket int64
}

func NewMockStore(accounts *MockAccountRepository) *MockStore {
	return &MockStore{
		accounts: accounts,
		carts:    make(map[int64]*models.Cart),
		tickets:  make(map[string]*models.Ticket),
	}
}

func (m *MockStore) GetOrCreateActive(accountID int64) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeCartLocked(accountID), nil
}

func (m *MockStore) activeCartLocked(accountID int64) *models.Cart {
	cart, ok := m.carts[accountID]
	if !ok {
		m.nextCartID++
		now := time.Now()
		cart = &models.Cart{
			ID:        m.nextCartID,
			AccountID: accountID,
			Status:    models.CartActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		m.carts[accountID] = cart
	}
	copied := *cart
	copied.Lines = append([]models.CartLine(nil), cart.Lines...)
	return &copied
}

func (m *MockStore) AddLine(cartID, eventID int64, quantity, unitPrice int) (*models.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cart := range m.carts {
		if cart.ID != cartID {
			continue
		}
		m.nextLineID++
		line := models.CartLine{
			ID:        m.nextLineID,
			CartID:    cartID,
			EventID:   eventID,
			Quantity:  quantity,
			UnitPrice: unitPrice,
			CreatedAt: time.Now(),
		}
		cart.Lines = append(cart.Lines, line)
		copied := line
		return &copied, nil
	}
	return nil, models.ErrCartLineNotFound
}

func (m *MockStore) GetLineOwner(lineID int64) (*models.CartLine, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for accountID, cart := range m.carts {
		for _, line := range cart.Lines {
			if line.ID == lineID {
				copied := line
				return &copied, accountID, nil
			}
		}
	}
	return nil, 0, models.ErrCartLineNotFound
}

func (m *MockStore) UpdateLineQuantity(lineID int64, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cart := range m.carts {
		for i := range cart.Lines {
			if cart.Lines[i].ID == lineID {
				cart.Lines[i].Quantity = quantity
				return nil
			}
		}
	}
	return models.ErrCartLineNotFound
}

func (m *MockStore) RemoveLine(lineID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cart := range m.carts {
		for i := range cart.Lines {
			if cart.Lines[i].ID == lineID {
				cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
				return nil
			}
		}
	}
	return models.ErrCartLineNotFound
}

func (m *MockStore) ClearLines(cartID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cart := range m.carts {
		if cart.ID == cartID {
			cart.Lines = nil
			return nil
		}
	}
	return nil
}

func (m *MockStore) ComputeTotal(accountID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[accountID]
	if !ok {
		return 0, nil
	}
	var total int64
	for _, line := range cart.Lines {
		total += line.Subtotal()
	}
	return total, nil
}

func (m *MockStore) ExecuteCheckout(ctx context.Context, accountID int64, issue repositories.IssueFunc) ([]models.TicketReceipt, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, err := m.accounts.GetByID(accountID)
	if err != nil {
		return nil, 0, err
	}

	cart, ok := m.carts[accountID]
	if !ok || len(cart.Lines) == 0 {
		return nil, 0, models.ErrEmptyCart
	}

	var total int64
	for _, line := range cart.Lines {
		total += line.Subtotal()
	}

	if account.Balance < total {
		return nil, 0, models.ErrInsufficientFunds
	}

	account.Balance -= total
	m.accounts.Put(account)

	var receipts []models.TicketReceipt
	for _, line := range cart.Lines {
		for unit := 0; unit < line.Quantity; unit++ {
			spec := issue(line, unit)
			m.nextTicket++
			ticket := &models.Ticket{
				ID:          m.nextTicket,
				AccountID:   accountID,
				EventID:     line.EventID,
				PricePaid:   line.UnitPrice,
				Token:       spec.Token,
				QRKey:       spec.QRKey,
				Status:      models.TicketValid,
				PurchasedAt: time.Now(),
			}
			m.tickets[spec.Token] = ticket
			receipts = append(receipts, models.TicketReceipt{
				TicketID:  ticket.ID,
				EventID:   line.EventID,
				PricePaid: line.UnitPrice,
				Token:     spec.Token,
				QRKey:     spec.QRKey,
			})
		}
	}

	cart.Lines = nil
	cart.UpdatedAt = time.Now()

	return receipts, total, nil
}

func (m *MockStore) Create(accountID, eventID int64, pricePaid int, spec models.TicketSpec) (*models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.tickets[spec.Token]; exists {
		return nil, models.ErrConflict
	}
	m.nextTicket++
	ticket := &models.Ticket{
		ID:          m.nextTicket,
		AccountID:   accountID,
		EventID:     eventID,
		PricePaid:   pricePaid,
		Token:       spec.Token,
		QRKey:       spec.QRKey,
		Status:      models.TicketValid,
		PurchasedAt: time.Now(),
	}
	m.tickets[spec.Token] = ticket
	copied := *ticket
	return &copied, nil
}

func (m *MockStore) GetByToken(token string) (*models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ticket, ok := m.tickets[token]
	if !ok {
		return nil, models.ErrTicketNotFound
	}
	copied := *ticket
	return &copied, nil
}

func (m *MockStore) ListByAccount(accountID int64) ([]*models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var tickets []*models.Ticket
	for _, ticket := range m.tickets {
		if ticket.AccountID == accountID {
			copied := *ticket
			tickets = append(tickets, &copied)
		}
	}
	return tickets, nil
}

func (m *MockStore) Redeem(token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ticket, ok := m.tickets[token]
	if !ok || ticket.Status != models.TicketValid {
		return false, nil
	}
	now := time.Now()
	ticket.Status = models.TicketUsed
	ticket.RedeemedAt = &now
	return true, nil
}

func (m *MockStore) PurgeByAccount(accountID int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for token, ticket := range m.tickets {
		if ticket.AccountID == accountID {
			keys = append(keys, ticket.QRKey)
			delete(m.tickets, token)
		}
	}
	return keys, nil
}

// MockArtifactStorage is an in-memory artifact store
type MockArtifactStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMockArtifactStorage() *MockArtifactStorage {
	return &MockArtifactStorage{objects: make(map[string][]byte)}
}

func (m *MockArtifactStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), data...)
	return "mock://" + key, nil
}

func (m *MockArtifactStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *MockArtifactStorage) GetURL(key string) string {
	return "mock://" + key
}

func (m *MockArtifactStorage) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok, nil
}

func (m *MockArtifactStorage) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// MockPublisher records published events
type MockPublisher struct {
	mu       sync.Mutex
	Issued   []queue.TicketsIssuedEvent
	Redeemed []queue.TicketRedeemedEvent
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishTicketsIssued(ctx context.Context, event queue.TicketsIssuedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Issued = append(m.Issued, event)
	return nil
}

func (m *MockPublisher) PublishTicketRedeemed(ctx context.Context, event queue.TicketRedeemedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Redeemed = append(m.Redeemed, event)
	return nil
}

// MockRecorder is an in-memory idempotency recorder
type MockRecorder struct {
	mu      sync.Mutex
	records map[string]mockRecord
}

type mockRecord struct {
	receipts []models.TicketReceipt
	total    int64
}

func NewMockRecorder() *MockRecorder {
	return &MockRecorder{records: make(map[string]mockRecord)}
}

func (m *MockRecorder) key(accountID int64, key string) string {
	return fmt.Sprintf("%d:%s", accountID, key)
}

func (m *MockRecorder) Get(ctx context.Context, accountID int64, key string) ([]models.TicketReceipt, int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[m.key(accountID, key)]
	if !ok {
		return nil, 0, false, nil
	}
	return record.receipts, record.total, true, nil
}

func (m *MockRecorder) Save(ctx context.Context, accountID int64, key string, receipts []models.TicketReceipt, total int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[m.key(accountID, key)] = mockRecord{receipts: receipts, total: total}
	return nil
}
