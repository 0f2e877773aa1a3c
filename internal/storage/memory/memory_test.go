package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartpay/internal/core"
)

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	in := []core.Payment{
		{ID: 7, Title: "Rent", Amount: "500", DueDate: "2024-01-01"},
		{ID: 8, Title: "Tax", Amount: "1200", DueDate: "2024-02-01", Paid: true},
	}
	require.NoError(t, s.Save(ctx, in))
	assert.Equal(t, 1, s.Saves())

	got, err = s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Rent", got[0].Title)
	assert.Zero(t, got[0].ID, "identifiers are session-only")
	assert.True(t, got[1].Paid)
}

func TestStore_LoadReturnsCopy(t *testing.T) {
	s := New(core.Payment{Title: "Rent", Amount: "1", DueDate: "2024-01-01"})
	got, _ := s.Load(context.Background())
	got[0].Title = "changed"

	again, _ := s.Load(context.Background())
	assert.Equal(t, "Rent", again[0].Title)
}
