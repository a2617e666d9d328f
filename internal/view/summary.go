package view

import (
	"strings"

	"github.com/shopspring/decimal"

	"txadmin/internal/models"
)

// StatusSummary aggregates count and total amount for one status.
type StatusSummary struct {
	Status models.Status
	Count  int
	Total  decimal.Decimal
}

// Summarize groups the list by status (case-insensitively, normalized to
// lower case) and totals amounts with exact decimal arithmetic. Statuses
// appear in first-seen order.
func Summarize(list []models.Transaction) []StatusSummary {
	index := make(map[string]int)
	var out []StatusSummary

	for _, t := range list {
		key := strings.ToLower(string(t.Status))
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, StatusSummary{Status: models.Status(key)})
		}
		out[i].Count++
		out[i].Total = out[i].Total.Add(t.Amount)
	}

	return out
}
