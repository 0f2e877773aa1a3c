package sheets

import (
	"fmt"
	"strconv"
	"strings"

	"smartpay/internal/core"
)

// header is written to the first row of the payments sheet.
var header = []interface{}{"Title", "Amount", "Due date", "Paid"}

// parseRows converts a values matrix (as returned by the Sheets API, header
// excluded) into payments. Blank rows are skipped; short rows are padded.
func parseRows(values [][]interface{}) []core.Payment {
	payments := make([]core.Payment, 0, len(values))
	for _, raw := range values {
		row := toStrings(raw)
		title := strings.TrimSpace(safeGet(row, 0))
		amount := strings.TrimSpace(safeGet(row, 1))
		due := strings.TrimSpace(safeGet(row, 2))
		if title == "" && amount == "" && due == "" {
			continue
		}
		payments = append(payments, core.Payment{
			Title:   title,
			Amount:  amount,
			DueDate: due,
			Paid:    parseBool(safeGet(row, 3)),
		})
	}
	return payments
}

// toRows renders payments as sheet rows, header first.
func toRows(payments []core.Payment) [][]interface{} {
	rows := make([][]interface{}, 0, len(payments)+1)
	rows = append(rows, header)
	for _, p := range payments {
		rows = append(rows, []interface{}{p.Title, p.Amount, p.DueDate, p.Paid})
	}
	return rows
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "x", "✓":
		return true
	default:
		return false
	}
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		switch v := v.(type) {
		case nil:
		case float64:
			// Numeric cells arrive as float64; avoid exponent notation.
			out[i] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

func safeGet(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
