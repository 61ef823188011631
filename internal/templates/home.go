// Package templates renders the HTML dashboard served at "/". Components
// live in .templ files; run `templ generate` after editing them.
package templates

import (
	"fmt"
	"strings"

	"github.com/jjenkins/parlamentar/internal/service"
)

// HomeData is everything the dashboard shows
type HomeData struct {
	HasData bool
	Metrics service.SystemMetrics
	Parties []service.PartyExpense
	Bills   []service.MostVotedBill
}

func billSummary(b service.MostVotedBill) string {
	if b.Summary == nil {
		return ""
	}
	return *b.Summary
}

// brl formats a monetary value as "R$ 1.234,56"
func brl(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	out := "R$ " + grouped.String() + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}
