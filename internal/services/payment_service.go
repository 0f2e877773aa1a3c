package services

import (
	"context"
	"fmt"
	"sync"

	"smartpay/internal/core"
	"smartpay/internal/log"
	"smartpay/internal/storage"
)

// Receipt describes the outcome of a successful mutation. The mutation itself
// always holds in memory; SaveErr reports whether it also reached the store.
type Receipt struct {
	ID      int64
	Index   int
	Saved   bool
	SaveErr error
}

// PaymentService owns the in-memory collection and persists it after each
// mutation. Records are addressed either by their current index or by the
// session ID assigned when they entered the collection.
type PaymentService struct {
	mu     sync.Mutex
	items  []core.Payment
	nextID int64
	store  storage.PaymentStore
	logger *log.Logger
}

func NewPaymentService(store storage.PaymentStore, logger *log.Logger) *PaymentService {
	if logger == nil {
		logger = log.Default(log.ComponentRepository)
	}
	return &PaymentService{
		store:  store,
		logger: logger.WithComponent(log.ComponentRepository),
	}
}

// Load replaces the collection with the store contents. A store failure leaves
// an empty collection and is only logged.
func (s *PaymentService) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded, err := s.store.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to load payments, starting empty",
			log.FieldOperation, log.OpLoad, log.FieldError, err)
		loaded = nil
	}

	s.items = make([]core.Payment, 0, len(loaded))
	for _, p := range loaded {
		s.nextID++
		p.ID = s.nextID
		s.items = append(s.items, p)
	}
	s.logger.InfoContext(ctx, "Payments loaded", log.FieldCount, len(s.items))
}

// List returns a copy of the collection in insertion order.
func (s *PaymentService) List() []core.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Payment, len(s.items))
	copy(out, s.items)
	return out
}

func (s *PaymentService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Get returns the record with the given session ID.
func (s *PaymentService) Get(id int64) (core.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.indexOf(id)
	if err != nil {
		return core.Payment{}, err
	}
	return s.items[i], nil
}

// IndexOf returns the current index of the record with the given session ID.
func (s *PaymentService) IndexOf(id int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id)
}

// Add validates p and appends it unpaid.
func (s *PaymentService) Add(ctx context.Context, p core.Payment) (Receipt, error) {
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return Receipt{}, fmt.Errorf("add payment: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(ctx, p), nil
}

// AddIfAllowed is Add gated by policy. The count check and the append happen
// under one lock, so concurrent creates cannot overshoot the limit.
func (s *PaymentService) AddIfAllowed(ctx context.Context, p core.Payment, policy AccessPolicy) (Receipt, error) {
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return Receipt{}, fmt.Errorf("add payment: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !policy.CanCreate(len(s.items)) {
		return Receipt{}, fmt.Errorf("add payment: %w", core.ErrLimitReached)
	}
	return s.addLocked(ctx, p), nil
}

func (s *PaymentService) addLocked(ctx context.Context, p core.Payment) Receipt {
	s.nextID++
	p.ID = s.nextID
	p.Paid = false
	s.items = append(s.items, p)
	index := len(s.items) - 1

	s.logger.InfoContext(ctx, "Payment added",
		log.NewFields().WithOperation(log.OpAdd).WithPayment(p.ID, index, p.Title, p.DueDate, p.Paid).ToSlice()...)
	return s.persist(ctx, p.ID, index)
}

// Update replaces title, amount and due date of the record at index. The paid
// flag is kept, and an empty due date keeps the previous one.
func (s *PaymentService) Update(ctx context.Context, index int, p core.Payment) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndex(index); err != nil {
		return Receipt{}, fmt.Errorf("update payment: %w", err)
	}
	return s.updateAt(ctx, index, p)
}

func (s *PaymentService) UpdateByID(ctx context.Context, id int64, p core.Payment) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	index, err := s.indexOf(id)
	if err != nil {
		return Receipt{}, fmt.Errorf("update payment: %w", err)
	}
	return s.updateAt(ctx, index, p)
}

// MarkPaid sets the paid flag. Marking a paid record again changes nothing and
// does not touch the store.
func (s *PaymentService) MarkPaid(ctx context.Context, index int) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndex(index); err != nil {
		return Receipt{}, fmt.Errorf("mark payment paid: %w", err)
	}
	return s.markPaidAt(ctx, index), nil
}

func (s *PaymentService) MarkPaidByID(ctx context.Context, id int64) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	index, err := s.indexOf(id)
	if err != nil {
		return Receipt{}, fmt.Errorf("mark payment paid: %w", err)
	}
	return s.markPaidAt(ctx, index), nil
}

// Delete removes the record at index; later records shift down by one.
func (s *PaymentService) Delete(ctx context.Context, index int) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndex(index); err != nil {
		return Receipt{}, fmt.Errorf("delete payment: %w", err)
	}
	return s.deleteAt(ctx, index), nil
}

func (s *PaymentService) DeleteByID(ctx context.Context, id int64) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	index, err := s.indexOf(id)
	if err != nil {
		return Receipt{}, fmt.Errorf("delete payment: %w", err)
	}
	return s.deleteAt(ctx, index), nil
}

func (s *PaymentService) updateAt(ctx context.Context, index int, p core.Payment) (Receipt, error) {
	old := s.items[index]
	p = p.Normalize()
	if p.DueDate == "" {
		p.DueDate = old.DueDate
	}
	if err := p.Validate(); err != nil {
		return Receipt{}, fmt.Errorf("update payment: %w", err)
	}
	p.ID = old.ID
	p.Paid = old.Paid
	s.items[index] = p

	s.logger.InfoContext(ctx, "Payment updated",
		log.NewFields().WithOperation(log.OpUpdate).WithPayment(p.ID, index, p.Title, p.DueDate, p.Paid).ToSlice()...)
	return s.persist(ctx, p.ID, index), nil
}

func (s *PaymentService) markPaidAt(ctx context.Context, index int) Receipt {
	p := &s.items[index]
	if p.Paid {
		return Receipt{ID: p.ID, Index: index, Saved: true}
	}
	p.Paid = true

	s.logger.InfoContext(ctx, "Payment marked paid",
		log.NewFields().WithOperation(log.OpMarkPaid).WithPayment(p.ID, index, p.Title, p.DueDate, p.Paid).ToSlice()...)
	return s.persist(ctx, p.ID, index)
}

func (s *PaymentService) deleteAt(ctx context.Context, index int) Receipt {
	p := s.items[index]
	s.items = append(s.items[:index], s.items[index+1:]...)

	s.logger.InfoContext(ctx, "Payment deleted",
		log.NewFields().WithOperation(log.OpDelete).WithPayment(p.ID, index, p.Title, p.DueDate, p.Paid).ToSlice()...)
	return s.persist(ctx, p.ID, index)
}

// persist writes the whole collection. Failures are logged and reported in
// the receipt; memory is never rolled back.
func (s *PaymentService) persist(ctx context.Context, id int64, index int) Receipt {
	r := Receipt{ID: id, Index: index}
	if err := s.store.Save(ctx, s.items); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save payments",
			log.FieldOperation, log.OpSave, log.FieldPaymentID, id, log.FieldError, err)
		r.SaveErr = fmt.Errorf("save payments: %w", err)
		return r
	}
	r.Saved = true
	return r
}

func (s *PaymentService) checkIndex(index int) error {
	if index < 0 || index >= len(s.items) {
		return &core.IndexError{Index: index, Len: len(s.items)}
	}
	return nil
}

func (s *PaymentService) indexOf(id int64) (int, error) {
	for i, p := range s.items {
		if p.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("payment %d: %w", id, core.ErrNotFound)
}
