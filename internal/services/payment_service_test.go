package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"smartpay/internal/core"
	"smartpay/internal/log"
	"smartpay/internal/storage/memory"
)

type failingStore struct {
	loadErr error
	saveErr error
	saves   int
}

func (f *failingStore) Load(context.Context) ([]core.Payment, error) { return nil, f.loadErr }

func (f *failingStore) Save(context.Context, []core.Payment) error {
	f.saves++
	return f.saveErr
}

func quietLogger() *log.Logger {
	return log.New(log.Config{Component: log.ComponentRepository, Output: io.Discard})
}

func newService(t *testing.T, seed ...core.Payment) (*PaymentService, *memory.Store) {
	t.Helper()
	store := memory.New(seed...)
	svc := NewPaymentService(store, quietLogger())
	svc.Load(context.Background())
	return svc, store
}

func TestLoadAssignsIDsInStoredOrder(t *testing.T) {
	svc, _ := newService(t,
		core.Payment{Title: "Rent", Amount: "500", DueDate: "2024-01-01"},
		core.Payment{Title: "Power", Amount: "80", DueDate: "2024-01-03", Paid: true},
	)

	got := svc.List()
	if len(got) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("unexpected ids %d, %d", got[0].ID, got[1].ID)
	}
	if got[0].Title != "Rent" || !got[1].Paid {
		t.Errorf("unexpected payments %+v", got)
	}
}

func TestLoadFailureStartsEmpty(t *testing.T) {
	svc := NewPaymentService(&failingStore{loadErr: errors.New("corrupt")}, quietLogger())
	svc.Load(context.Background())
	if svc.Len() != 0 {
		t.Fatalf("expected empty collection, got %d", svc.Len())
	}
}

func TestAdd(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	r, err := svc.Add(ctx, core.Payment{Title: " Rent ", Amount: "500", DueDate: "2024-01-01", Paid: true})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if r.ID != 1 || r.Index != 0 || !r.Saved || r.SaveErr != nil {
		t.Errorf("unexpected receipt %+v", r)
	}

	p, err := svc.Get(r.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.Title != "Rent" || p.Paid {
		t.Errorf("expected trimmed unpaid record, got %+v", p)
	}
	if store.Saves() != 1 {
		t.Errorf("expected 1 save, got %d", store.Saves())
	}
}

func TestAddRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	tests := []struct {
		name string
		p    core.Payment
		want error
	}{
		{"empty title", core.Payment{Title: "", Amount: "1", DueDate: "2024-01-01"}, core.ErrEmptyTitle},
		{"blank title", core.Payment{Title: "   ", Amount: "1", DueDate: "2024-01-01"}, core.ErrEmptyTitle},
		{"empty amount", core.Payment{Title: "a", Amount: "", DueDate: "2024-01-01"}, core.ErrEmptyAmount},
		{"missing due date", core.Payment{Title: "a", Amount: "1"}, core.ErrMissingDueDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(ctx, tt.p)
			if !errors.Is(err, tt.want) || !errors.Is(err, core.ErrValidation) {
				t.Errorf("Add() error = %v, want %v", err, tt.want)
			}
		})
	}
	if svc.Len() != 0 || store.Saves() != 0 {
		t.Errorf("rejected adds must not change state: len=%d saves=%d", svc.Len(), store.Saves())
	}
}

func TestIDsAreNeverReused(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	a, _ := svc.Add(ctx, core.Payment{Title: "a", Amount: "1", DueDate: "2024-01-01"})
	if _, err := svc.DeleteByID(ctx, a.ID); err != nil {
		t.Fatalf("DeleteByID() error = %v", err)
	}
	b, _ := svc.Add(ctx, core.Payment{Title: "b", Amount: "1", DueDate: "2024-01-01"})
	if b.ID == a.ID {
		t.Fatalf("id %d reused", a.ID)
	}
}

func TestUpdateKeepsPaidAndCarriesDueDate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, core.Payment{Title: "Rent", Amount: "500", DueDate: "2024-01-01", Paid: true})

	r, err := svc.Update(ctx, 0, core.Payment{Title: "Rent Feb", Amount: "550", Paid: false})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !r.Saved {
		t.Errorf("expected saved receipt, got %+v", r)
	}

	got := svc.List()[0]
	want := core.Payment{ID: 1, Title: "Rent Feb", Amount: "550", DueDate: "2024-01-01", Paid: true}
	if got != want {
		t.Errorf("Update() result = %+v, want %+v", got, want)
	}
}

func TestUpdateRejectsEmptyTitle(t *testing.T) {
	svc, _ := newService(t, core.Payment{Title: "Rent", Amount: "500", DueDate: "2024-01-01"})
	_, err := svc.Update(context.Background(), 0, core.Payment{Title: " ", Amount: "1"})
	if !errors.Is(err, core.ErrEmptyTitle) {
		t.Fatalf("Update() error = %v, want ErrEmptyTitle", err)
	}
	if svc.List()[0].Title != "Rent" {
		t.Error("rejected update must not change the record")
	}
}

func TestMarkPaid(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, core.Payment{Title: "Rent", Amount: "500", DueDate: "2024-01-01"})

	if _, err := svc.MarkPaid(ctx, 0); err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}
	if !svc.List()[0].Paid {
		t.Fatal("expected record to be paid")
	}
	if store.Saves() != 1 {
		t.Fatalf("expected 1 save, got %d", store.Saves())
	}

	r, err := svc.MarkPaid(ctx, 0)
	if err != nil {
		t.Fatalf("second MarkPaid() error = %v", err)
	}
	if !r.Saved || store.Saves() != 1 {
		t.Errorf("marking a paid record must not save again: receipt=%+v saves=%d", r, store.Saves())
	}
}

func TestDeleteShiftsIndices(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t,
		core.Payment{Title: "a", Amount: "1", DueDate: "2024-01-01"},
		core.Payment{Title: "b", Amount: "2", DueDate: "2024-01-02"},
	)

	if _, err := svc.Delete(ctx, 0); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got := svc.List(); len(got) != 1 || got[0].Title != "b" {
		t.Fatalf("unexpected collection %+v", got)
	}

	_, err := svc.Delete(ctx, 1)
	var ie *core.IndexError
	if !errors.As(err, &ie) || ie.Index != 1 || ie.Len != 1 {
		t.Fatalf("Delete(1) error = %v, want IndexError", err)
	}
	if !errors.Is(err, core.ErrStaleIndex) {
		t.Errorf("expected ErrStaleIndex, got %v", err)
	}
}

func TestIndexOperationsRejectOutOfRange(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, core.Payment{Title: "a", Amount: "1", DueDate: "2024-01-01"})

	for _, index := range []int{-1, 1, 5} {
		if _, err := svc.Update(ctx, index, core.Payment{Title: "x", Amount: "1"}); !errors.Is(err, core.ErrStaleIndex) {
			t.Errorf("Update(%d) error = %v", index, err)
		}
		if _, err := svc.MarkPaid(ctx, index); !errors.Is(err, core.ErrStaleIndex) {
			t.Errorf("MarkPaid(%d) error = %v", index, err)
		}
		if _, err := svc.Delete(ctx, index); !errors.Is(err, core.ErrStaleIndex) {
			t.Errorf("Delete(%d) error = %v", index, err)
		}
	}
}

func TestByIDOperations(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t,
		core.Payment{Title: "a", Amount: "1", DueDate: "2024-01-01"},
		core.Payment{Title: "b", Amount: "2", DueDate: "2024-01-02"},
	)

	if _, err := svc.MarkPaidByID(ctx, 2); err != nil {
		t.Fatalf("MarkPaidByID() error = %v", err)
	}
	if _, err := svc.UpdateByID(ctx, 2, core.Payment{Title: "bb", Amount: "3"}); err != nil {
		t.Fatalf("UpdateByID() error = %v", err)
	}
	if _, err := svc.DeleteByID(ctx, 1); err != nil {
		t.Fatalf("DeleteByID() error = %v", err)
	}

	index, err := svc.IndexOf(2)
	if err != nil || index != 0 {
		t.Fatalf("IndexOf(2) = %d, %v", index, err)
	}
	p, _ := svc.Get(2)
	if p.Title != "bb" || !p.Paid || p.DueDate != "2024-01-02" {
		t.Errorf("unexpected record %+v", p)
	}

	for _, err := range []error{
		func() error { _, err := svc.Get(1); return err }(),
		func() error { _, err := svc.MarkPaidByID(ctx, 99); return err }(),
		func() error { _, err := svc.UpdateByID(ctx, 99, core.Payment{Title: "x", Amount: "1"}); return err }(),
		func() error { _, err := svc.DeleteByID(ctx, 99); return err }(),
	} {
		if !errors.Is(err, core.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	}
}

func TestSaveFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{saveErr: errors.New("disk full")}
	svc := NewPaymentService(store, quietLogger())
	svc.Load(ctx)

	r, err := svc.Add(ctx, core.Payment{Title: "Rent", Amount: "500", DueDate: "2024-01-01"})
	if err != nil {
		t.Fatalf("Add() must succeed despite save failure, got %v", err)
	}
	if r.Saved || r.SaveErr == nil {
		t.Fatalf("expected save failure in receipt, got %+v", r)
	}
	if svc.Len() != 1 {
		t.Fatalf("memory must keep the record, len=%d", svc.Len())
	}
	if store.saves != 1 {
		t.Errorf("expected one save attempt, got %d", store.saves)
	}
}

func TestListReturnsCopy(t *testing.T) {
	svc, _ := newService(t, core.Payment{Title: "a", Amount: "1", DueDate: "2024-01-01"})
	got := svc.List()
	got[0].Title = "mutated"
	if svc.List()[0].Title != "a" {
		t.Fatal("List must not expose internal storage")
	}
}

func TestAddIfAllowed(t *testing.T) {
	svc, store := newService(t, core.Payment{Title: "a", Amount: "1", DueDate: "2024-01-01"})
	policy := NewAccessPolicy(2)

	r, err := svc.AddIfAllowed(context.Background(), core.Payment{Title: "b", Amount: "1", DueDate: "2024-01-02"}, policy)
	if err != nil || !r.Saved {
		t.Fatalf("expected second record to be accepted, got %+v %v", r, err)
	}

	_, err = svc.AddIfAllowed(context.Background(), core.Payment{Title: "c", Amount: "1", DueDate: "2024-01-03"}, policy)
	if !errors.Is(err, core.ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached, got %v", err)
	}
	if svc.Len() != 2 || store.Saves() != 1 {
		t.Fatalf("rejected create must not change state: len=%d saves=%d", svc.Len(), store.Saves())
	}

	_, err = svc.AddIfAllowed(context.Background(), core.Payment{Title: " ", Amount: "1", DueDate: "2024-01-03"}, policy)
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("validation runs before the gate, got %v", err)
	}
}

func TestAddIfAllowedConcurrent(t *testing.T) {
	svc, _ := newService(t, core.Payment{Title: "a", Amount: "1", DueDate: "2024-01-01"})
	policy := NewAccessPolicy(2)

	const callers = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		limited  int
	)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.AddIfAllowed(context.Background(), core.Payment{Title: "x", Amount: "1", DueDate: "2024-01-02"}, policy)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case errors.Is(err, core.ErrLimitReached):
				limited++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if accepted != 1 || limited != callers-1 {
		t.Fatalf("accepted=%d limited=%d, want 1 and %d", accepted, limited, callers-1)
	}
	if svc.Len() != 2 {
		t.Fatalf("collection grew past the limit: %d", svc.Len())
	}
}
