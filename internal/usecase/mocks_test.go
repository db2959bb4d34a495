//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"telegram-payment-relay/internal/domain"
	"telegram-payment-relay/internal/domain/model"
	"telegram-payment-relay/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// MockPaymentRepo is an in-memory PaymentRepository with overridable hooks.
type MockPaymentRepo struct {
	mu      sync.Mutex
	records map[string]*model.PaymentRecord

	CreateFunc func(ctx context.Context, tx repository.Tx, rec *model.PaymentRecord) error
	UpdateFunc func(ctx context.Context, tx repository.Tx, paymentID string, patch repository.PaymentPatch) error
}

func NewMockPaymentRepo() *MockPaymentRepo {
	return &MockPaymentRepo{records: map[string]*model.PaymentRecord{}}
}

func (m *MockPaymentRepo) Create(ctx context.Context, tx repository.Tx, rec *model.PaymentRecord) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, tx, rec); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.records[rec.PaymentID] = &cp
	return nil
}

func (m *MockPaymentRepo) FindByID(ctx context.Context, tx repository.Tx, paymentID string) (*model.PaymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.records[paymentID]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *MockPaymentRepo) FindByResultID(ctx context.Context, tx repository.Tx, resultID string) (*model.PaymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.ResultID == resultID {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockPaymentRepo) Update(ctx context.Context, tx repository.Tx, paymentID string, patch repository.PaymentPatch) error {
	if m.UpdateFunc != nil {
		if err := m.UpdateFunc(ctx, tx, paymentID, patch); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[paymentID]
	if !ok {
		return nil // silent no-op, same as the real store
	}
	if patch.InlineMessageID != nil {
		v := *patch.InlineMessageID
		rec.InlineMessageID = &v
	}
	if patch.InvoiceURL != nil {
		v := *patch.InvoiceURL
		rec.InvoiceURL = &v
	}
	if patch.Status != nil {
		rec.Status = *patch.Status
	}
	rec.UpdatedAt = time.Now()
	return nil
}

// MockInvoiceGateway records calls and returns a canned URL or error.
type MockInvoiceGateway struct {
	mu    sync.Mutex
	calls []string // payment ids, in order

	CreateInvoiceFunc func(ctx context.Context, amount int64, paymentID string) (string, error)
}

func (m *MockInvoiceGateway) Name() string { return "mock" }

func (m *MockInvoiceGateway) CreateInvoice(ctx context.Context, amount int64, paymentID string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, paymentID)
	m.mu.Unlock()
	if m.CreateInvoiceFunc != nil {
		return m.CreateInvoiceFunc(ctx, amount, paymentID)
	}
	return "https://pay.example.com/" + paymentID, nil
}

func (m *MockInvoiceGateway) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// editCall captures one MessageEditor invocation.
type editCall struct {
	State           string // "created" | "error" | "paid"
	InlineMessageID string
	Amount          int64
	InvoiceURL      string
}

// MockMessageEditor records edits and can fail on demand.
type MockMessageEditor struct {
	mu    sync.Mutex
	Edits []editCall

	EditErr error
}

func (m *MockMessageEditor) record(c editCall) error {
	m.mu.Lock()
	m.Edits = append(m.Edits, c)
	m.mu.Unlock()
	return m.EditErr
}

func (m *MockMessageEditor) EditInvoiceCreated(ctx context.Context, inlineMessageID string, amount int64, invoiceURL string) error {
	return m.record(editCall{State: "created", InlineMessageID: inlineMessageID, Amount: amount, InvoiceURL: invoiceURL})
}

func (m *MockMessageEditor) EditInvoiceError(ctx context.Context, inlineMessageID string, amount int64) error {
	return m.record(editCall{State: "error", InlineMessageID: inlineMessageID, Amount: amount})
}

func (m *MockMessageEditor) EditInvoicePaid(ctx context.Context, inlineMessageID string, amount int64) error {
	return m.record(editCall{State: "paid", InlineMessageID: inlineMessageID, Amount: amount})
}

func (m *MockMessageEditor) Last() *editCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Edits) == 0 {
		return nil
	}
	c := m.Edits[len(m.Edits)-1]
	return &c
}

// MockEventGuard passes everything through unless primed otherwise.
type MockEventGuard struct {
	mu   sync.Mutex
	seen map[string]bool

	OnceFunc func(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

func NewMockEventGuard() *MockEventGuard {
	return &MockEventGuard{seen: map[string]bool{}}
}

func (m *MockEventGuard) Once(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if m.OnceFunc != nil {
		return m.OnceFunc(ctx, key, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}
