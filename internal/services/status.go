// Package services provides the payment policies and the repository service.
//
// This file maps a payment and a reference date to an urgency tag, a label and a
// fixed color/icon pairing. Classification never fails: a malformed due date is
// reported as DateError.
package services

import (
	"fmt"
	"time"

	"smartpay/internal/core"
)

// Tag is the urgency classification of a payment.
type Tag string

const (
	TagPaid      Tag = "PAID"
	TagOverdue   Tag = "OVERDUE"
	TagDueToday  Tag = "DUE_TODAY"
	TagDueSoon   Tag = "DUE_SOON"
	TagOK        Tag = "OK"
	TagDateError Tag = "DATE_ERROR"
)

// SoonWindowDays is the inclusive upper bound of DUE_SOON.
const SoonWindowDays = 3

// Style is the display pairing of a tag.
type Style struct {
	Color string
	Icon  string
}

// Status is the result of classifying one payment.
type Status struct {
	Tag   Tag
	Label string
	Days  int // Signed days until due; 0 for paid and date errors
	Style
}

// tagStyles is a plain lookup table, no logic lives here.
var tagStyles = map[Tag]Style{
	TagPaid:      {Color: "green", Icon: "check"},
	TagOverdue:   {Color: "red", Icon: "alert"},
	TagDueToday:  {Color: "orange", Icon: "warning"},
	TagDueSoon:   {Color: "yellow", Icon: "clock"},
	TagOK:        {Color: "green", Icon: "check"},
	TagDateError: {Color: "grey", Icon: "error"},
}

// StyleOf returns the color/icon pairing for a tag.
func StyleOf(tag Tag) Style {
	return tagStyles[tag]
}

// Labels renders the human readable part of a status.
type Labels struct {
	Paid      string
	Overdue   func(days int) string
	DueToday  string
	DueSoon   func(days int) string
	OK        func(days int) string
	DateError string
}

var (
	LabelsRU = Labels{
		Paid:      "ОПЛАЧЕНО",
		Overdue:   func(d int) string { return fmt.Sprintf("ПРОСРОЧЕНО (%d дн)", d) },
		DueToday:  "СЕГОДНЯ",
		DueSoon:   func(d int) string { return fmt.Sprintf("СКОРО (%d дн)", d) },
		OK:        func(d int) string { return fmt.Sprintf("ОК (через %d дн)", d) },
		DateError: "Ошибка даты",
	}

	LabelsEN = Labels{
		Paid: "PAID",
		Overdue: func(d int) string {
			if d == 1 {
				return "1 day overdue"
			}
			return fmt.Sprintf("%d days overdue", d)
		},
		DueToday: "due today",
		DueSoon: func(d int) string {
			if d == 1 {
				return "due in 1 day"
			}
			return fmt.Sprintf("due in %d days", d)
		},
		OK:        func(d int) string { return fmt.Sprintf("ok, due in %d days", d) },
		DateError: "date error",
	}
)

// LabelsFor returns the label set for a locale code, defaulting to Russian.
func LabelsFor(locale string) Labels {
	switch locale {
	case "en":
		return LabelsEN
	default:
		return LabelsRU
	}
}

// Classify classifies p relative to today using the default labels.
func Classify(p core.Payment, today time.Time) Status {
	return ClassifyWith(p, today, LabelsRU)
}

// ClassifyWith classifies p relative to today.
func ClassifyWith(p core.Payment, today time.Time, labels Labels) Status {
	if p.Paid {
		return newStatus(TagPaid, labels.Paid, 0)
	}

	due, err := p.Due()
	if err != nil {
		return newStatus(TagDateError, labels.DateError, 0)
	}

	delta := core.DaysUntil(due, today)
	switch {
	case delta < 0:
		return newStatus(TagOverdue, labels.Overdue(-delta), delta)
	case delta == 0:
		return newStatus(TagDueToday, labels.DueToday, 0)
	case delta <= SoonWindowDays:
		return newStatus(TagDueSoon, labels.DueSoon(delta), delta)
	default:
		return newStatus(TagOK, labels.OK(delta), delta)
	}
}

func newStatus(tag Tag, label string, days int) Status {
	return Status{Tag: tag, Label: label, Days: days, Style: StyleOf(tag)}
}
