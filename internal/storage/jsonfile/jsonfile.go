// Package jsonfile stores the payment collection as one JSON document on disk.
//
// The document is an array of {"title","amount","due_date","paid"} objects,
// indented with four spaces. Documents written by older releases used "date"
// for the due date and may hold numeric amounts; both are accepted on load.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"smartpay/internal/core"
	"smartpay/internal/storage"
)

// DefaultPath is the document name used when none is configured.
const DefaultPath = "smart_pay.json"

var _ storage.PaymentStore = (*Store)(nil)

type Store struct {
	path string
}

func New(path string) *Store {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Path returns the document location.
func (s *Store) Path() string { return s.path }

type record struct {
	Title      string     `json:"title"`
	Amount     textAmount `json:"amount"`
	DueDate    string     `json:"due_date,omitempty"`
	LegacyDate string     `json:"date,omitempty"`
	Paid       bool       `json:"paid"`
}

// textAmount accepts both "500" and 500.
type textAmount string

func (a *textAmount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = textAmount(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = textAmount(n.String())
	return nil
}

func (s *Store) Load(_ context.Context) ([]core.Payment, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}

	payments := make([]core.Payment, len(records))
	for i, r := range records {
		due := r.DueDate
		if due == "" {
			due = r.LegacyDate
		}
		payments[i] = core.Payment{
			Title:   r.Title,
			Amount:  string(r.Amount),
			DueDate: due,
			Paid:    r.Paid,
		}
	}
	return payments, nil
}

// Save writes the whole collection to a temporary file and renames it over the document.
func (s *Store) Save(_ context.Context, payments []core.Payment) error {
	records := make([]record, len(payments))
	for i, p := range payments {
		records[i] = record{
			Title:   p.Title,
			Amount:  textAmount(p.Amount),
			DueDate: p.DueDate,
			Paid:    p.Paid,
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode payments: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create document directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".smart_pay-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
