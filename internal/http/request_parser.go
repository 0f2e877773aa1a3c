// Package http provides the JSON API over the payment collection.
//
// This file decodes and validates request bodies and path parameters.
package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"smartpay/internal/core"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("amount must be a string or number")
	}
	*f = flexString(n.String())
	return nil
}

// PaymentRequest is the body of create and update requests.
type PaymentRequest struct {
	Title   string     `json:"title"`
	Amount  flexString `json:"amount"`
	DueDate string     `json:"due_date"`
}

// Payment converts the request to a record with sanitized fields.
func (r PaymentRequest) Payment() core.Payment {
	return core.Payment{
		Title:   sanitizeInput(r.Title),
		Amount:  sanitizeInput(string(r.Amount)),
		DueDate: sanitizeInput(r.DueDate),
	}
}

// decodePaymentRequest reads a PaymentRequest. When requireDate is false an
// empty due date is accepted; a present one must still be YYYY-MM-DD.
func decodePaymentRequest(r *http.Request, requireDate bool) (core.Payment, error) {
	var req PaymentRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return core.Payment{}, fmt.Errorf("decode request: %w", err)
	}

	p := req.Payment()
	if p.DueDate == "" && !requireDate {
		return p, nil
	}
	if err := validateDueDate(p.DueDate); err != nil {
		return core.Payment{}, err
	}
	return p, nil
}

// validateDueDate rejects due dates that are not calendar dates in YYYY-MM-DD.
func validateDueDate(s string) error {
	if s == "" {
		return &core.ValidationError{Field: "due_date", Err: core.ErrMissingDueDate}
	}
	if _, err := core.ParseDate(s); err != nil {
		return &core.ValidationError{Field: "due_date", Err: errInvalidDate}
	}
	return nil
}

var errInvalidDate = errors.New("due date must be YYYY-MM-DD")

// parseID extracts the {id} path parameter.
func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid payment id %q", raw)
	}
	return id, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
