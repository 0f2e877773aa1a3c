package services

import (
	"fmt"
	"time"

	"smartpay/internal/core"
	"smartpay/internal/notify"
)

// Reminder texts, as shown by the desktop notifier.
const (
	OverdueTitle  = "SMART PAY: Внимание!"
	DueSoonTitle  = "SMART PAY: Напоминание"
	overdueFormat = "Есть просроченные платежи (%d). Проверьте список."
	dueSoonFormat = "Скоро срок оплаты у %d счетов."
)

// Tally counts the unpaid payments that deserve a reminder.
type Tally struct {
	Overdue int
	Soon    int // DUE_SOON and DUE_TODAY
}

// Count classifies every payment; paid and malformed records count for nothing.
func Count(payments []core.Payment, today time.Time) Tally {
	var t Tally
	for _, p := range payments {
		switch Classify(p, today).Tag {
		case TagOverdue:
			t.Overdue++
		case TagDueSoon, TagDueToday:
			t.Soon++
		}
	}
	return t
}

// Decide maps the collection to at most one notification. Overdue strictly
// dominates due-soon. It keeps no state: the caller decides when to ask.
func Decide(payments []core.Payment, today time.Time) (notify.Notification, bool) {
	t := Count(payments, today)
	switch {
	case t.Overdue > 0:
		return notify.Notification{
			Title:   OverdueTitle,
			Message: fmt.Sprintf(overdueFormat, t.Overdue),
			Urgency: notify.UrgencyHigh,
			Count:   t.Overdue,
			At:      today,
		}, true
	case t.Soon > 0:
		return notify.Notification{
			Title:   DueSoonTitle,
			Message: fmt.Sprintf(dueSoonFormat, t.Soon),
			Urgency: notify.UrgencyMedium,
			Count:   t.Soon,
			At:      today,
		}, true
	default:
		return notify.Notification{}, false
	}
}
