package services

import (
	"sort"
	"time"

	"smartpay/internal/core"
)

// sortKey orders unpaid before paid, then by days until due.
type sortKey struct {
	rank  int
	delta int
}

func keyOf(p core.Payment, today time.Time) sortKey {
	if p.Paid {
		return sortKey{rank: 1}
	}
	due, err := p.Due()
	if err != nil {
		// A malformed date sorts as if due today.
		return sortKey{rank: 0, delta: 0}
	}
	return sortKey{rank: 0, delta: core.DaysUntil(due, today)}
}

// Order returns the original indices of payments in presentation order:
// unpaid first, most overdue first, then paid records. Ties keep insertion order.
func Order(payments []core.Payment, today time.Time) []int {
	keys := make([]sortKey, len(payments))
	idx := make([]int, len(payments))
	for i, p := range payments {
		keys[i] = keyOf(p, today)
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		if ka.rank != kb.rank {
			return ka.rank < kb.rank
		}
		return ka.delta < kb.delta
	})
	return idx
}

// OrderIDs is Order expressed as payment identifiers.
func OrderIDs(payments []core.Payment, today time.Time) []int64 {
	order := Order(payments, today)
	ids := make([]int64, len(order))
	for i, idx := range order {
		ids[i] = payments[idx].ID
	}
	return ids
}
