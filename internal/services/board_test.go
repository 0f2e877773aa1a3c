package services

import (
	"testing"

	"smartpay/internal/core"
)

func TestBuildBoard(t *testing.T) {
	today := day(2024, 1, 5)
	payments := []core.Payment{
		{ID: 1, Title: "Internet", Amount: "15000", DueDate: "2024-01-20"},
		{ID: 2, Title: "Gym", Amount: "9000", DueDate: "2023-12-01", Paid: true},
		{ID: 3, Title: "Rent", Amount: "150000", DueDate: "2024-01-01"},
		{ID: 4, Title: "Water", Amount: "about 300", DueDate: "soon"},
	}

	board := BuildBoard(payments, today, DefaultBoardOptions())

	if board.Total != 4 || board.Unpaid != 3 {
		t.Errorf("Total/Unpaid = %d/%d, want 4/3", board.Total, board.Unpaid)
	}

	wantOrder := Order(payments, today)
	if len(board.Items) != len(wantOrder) {
		t.Fatalf("got %d items, want %d", len(board.Items), len(wantOrder))
	}
	for i, item := range board.Items {
		if item.Index != wantOrder[i] {
			t.Errorf("item %d index = %d, want %d", i, item.Index, wantOrder[i])
		}
		if item.ID != payments[item.Index].ID {
			t.Errorf("item %d id = %d, want %d", i, item.ID, payments[item.Index].ID)
		}
	}

	first := board.Items[0]
	if first.Title != "Rent" || first.Tag != TagOverdue || first.Color != "red" || first.Icon != "alert" {
		t.Errorf("unexpected first item %+v", first)
	}
	if first.AmountDisplay != "150 000 ₸" {
		t.Errorf("AmountDisplay = %q", first.AmountDisplay)
	}

	last := board.Items[len(board.Items)-1]
	if last.Title != "Gym" || last.Tag != TagPaid {
		t.Errorf("paid item should be last, got %+v", last)
	}

	for _, item := range board.Items {
		if item.Title == "Water" {
			if item.Tag != TagDateError || item.AmountDisplay != "about 300" {
				t.Errorf("unexpected degraded item %+v", item)
			}
		}
	}
}

func TestBuildBoardEnglish(t *testing.T) {
	payments := []core.Payment{{ID: 1, Title: "Rent", Amount: "500", DueDate: "2024-01-07"}}
	board := BuildBoard(payments, day(2024, 1, 5), BoardOptions{Labels: LabelsEN, Currency: "USD"})

	item := board.Items[0]
	if item.Label != "due in 2 days" || item.AmountDisplay != "500 USD" || item.Days != 2 {
		t.Errorf("unexpected item %+v", item)
	}
}

func TestBuildBoardZeroOptions(t *testing.T) {
	payments := []core.Payment{{ID: 1, Title: "Rent", Amount: "500", DueDate: "2024-01-05"}}
	item := BuildBoard(payments, day(2024, 1, 5), BoardOptions{}).Items[0]
	if item.Label != "СЕГОДНЯ" || item.AmountDisplay != "500" {
		t.Errorf("unexpected item %+v", item)
	}
}

func TestBuildBoardEmpty(t *testing.T) {
	board := BuildBoard(nil, day(2024, 1, 5), DefaultBoardOptions())
	if board.Items == nil || len(board.Items) != 0 || board.Total != 0 {
		t.Errorf("unexpected empty board %+v", board)
	}
}
