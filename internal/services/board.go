package services

import (
	"time"

	"smartpay/internal/core"
)

// DefaultCurrency is appended to whole amounts on the board.
const DefaultCurrency = "₸"

// BoardItem is one row of the payment list as it is presented.
type BoardItem struct {
	ID            int64  `json:"id" yaml:"id"`
	Index         int    `json:"index" yaml:"index"`
	Title         string `json:"title" yaml:"title"`
	Amount        string `json:"amount" yaml:"amount"`
	AmountDisplay string `json:"amount_display" yaml:"amount_display"`
	DueDate       string `json:"due_date" yaml:"due_date"`
	Paid          bool   `json:"paid" yaml:"paid"`
	Tag           Tag    `json:"tag" yaml:"tag"`
	Label         string `json:"label" yaml:"label"`
	Days          int    `json:"days" yaml:"days"`
	Color         string `json:"color" yaml:"color"`
	Icon          string `json:"icon" yaml:"icon"`
}

// Board is the ordered, classified view of the collection.
type Board struct {
	Items  []BoardItem `json:"items" yaml:"items"`
	Total  int         `json:"total" yaml:"total"`
	Unpaid int         `json:"unpaid" yaml:"unpaid"`
}

// BoardOptions controls wording and amount formatting.
type BoardOptions struct {
	Labels   Labels
	Currency string
}

// DefaultBoardOptions uses Russian labels and tenge.
func DefaultBoardOptions() BoardOptions {
	return BoardOptions{Labels: LabelsRU, Currency: DefaultCurrency}
}

// BuildBoard classifies every payment and lists them in presentation order.
func BuildBoard(payments []core.Payment, today time.Time, opts BoardOptions) Board {
	if opts.Labels.Overdue == nil {
		opts.Labels = LabelsRU
	}

	board := Board{
		Items: make([]BoardItem, 0, len(payments)),
		Total: len(payments),
	}
	for _, i := range Order(payments, today) {
		board.Items = append(board.Items, NewBoardItem(payments[i], i, today, opts))
		if !payments[i].Paid {
			board.Unpaid++
		}
	}
	return board
}

// NewBoardItem presents a single payment found at index.
func NewBoardItem(p core.Payment, index int, today time.Time, opts BoardOptions) BoardItem {
	if opts.Labels.Overdue == nil {
		opts.Labels = LabelsRU
	}
	st := ClassifyWith(p, today, opts.Labels)
	return BoardItem{
		ID:            p.ID,
		Index:         index,
		Title:         p.Title,
		Amount:        p.Amount,
		AmountDisplay: core.DisplayAmount(p.Amount, opts.Currency),
		DueDate:       p.DueDate,
		Paid:          p.Paid,
		Tag:           st.Tag,
		Label:         st.Label,
		Days:          st.Days,
		Color:         st.Color,
		Icon:          st.Icon,
	}
}
