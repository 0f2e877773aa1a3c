package storage

import (
	"context"

	"smartpay/internal/core"
)

// PaymentStore reads and writes the whole payment collection at once.
// There is no partial update: Save overwrites whatever was stored before.
type PaymentStore interface {
	// Load returns the stored collection in insertion order. An absent
	// document is an empty collection, not an error.
	Load(ctx context.Context) ([]core.Payment, error)
	// Save replaces the stored collection with payments.
	Save(ctx context.Context, payments []core.Payment) error
}

// Closer is implemented by stores holding connections.
type Closer interface {
	Close() error
}
