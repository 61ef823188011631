package service

import (
	"database/sql"
	"math"

	"github.com/jjenkins/parlamentar/internal/store"
)

// Response records of the analytical catalog. The functions below are
// straight projections of the store rows; NULL aggregates become 0 and
// monetary values are rounded here and nowhere else.

type PartyExpense struct {
	ID         int     `json:"id"`
	ExternalID int64   `json:"id_dados_abertos"`
	Code       string  `json:"sigla"`
	FullName   string  `json:"nome_completo"`
	Total      float64 `json:"total_despesas"`
}

type LegislatorExpense struct {
	ID            int     `json:"id"`
	ElectoralName string  `json:"nome_eleitoral"`
	PartyCode     string  `json:"sigla_partido"`
	StateCode     string  `json:"sigla_uf"`
	Total         float64 `json:"total_despesas"`
}

type StateExpense struct {
	StateCode       string  `json:"uf"`
	Total           float64 `json:"total_gasto"`
	Average         float64 `json:"media_gasto"`
	Count           int     `json:"quantidade"`
	LegislatorCount int     `json:"quantidade_deputados"`
}

type ActivitySummary struct {
	LegislatorID  int     `json:"id_deputado"`
	ElectoralName string  `json:"nome_eleitoral"`
	Year          int     `json:"ano"`
	TotalExpenses float64 `json:"total_despesas"`
	SessionCount  int     `json:"total_votacoes"`
}

type ActiveLegislator struct {
	ID            int    `json:"id"`
	ElectoralName string `json:"nome_eleitoral"`
	PartyCode     string `json:"sigla_partido"`
	StateCode     string `json:"sigla_uf"`
	SessionCount  int    `json:"total_votacoes"`
	BillCount     int    `json:"total_proposicoes"`
}

type YesVoter struct {
	ID            int    `json:"id"`
	ElectoralName string `json:"nome_eleitoral"`
	PartyCode     string `json:"sigla_partido"`
	StateCode     string `json:"sigla_uf"`
	YesVotes      int    `json:"total_votos_sim"`
}

type MostVotedBill struct {
	ID           int     `json:"id"`
	ExternalID   int64   `json:"id_dados_abertos"`
	TypeCode     string  `json:"sigla_tipo"`
	Year         int     `json:"ano"`
	Summary      *string `json:"ementa"`
	SessionCount int     `json:"total_votacoes"`
}

// round rounds half away from zero to the given number of decimals
func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// amount coalesces a NULL aggregate to 0 and rounds it
func amount(v sql.NullFloat64, decimals int) float64 {
	if !v.Valid {
		return 0
	}
	return round(v.Float64, decimals)
}

func assemblePartyExpenses(rows []store.PartyExpenseRow) []PartyExpense {
	out := make([]PartyExpense, 0, len(rows))
	for _, r := range rows {
		out = append(out, PartyExpense{
			ID:         r.PartyID,
			ExternalID: r.ExternalID,
			Code:       r.Code,
			FullName:   r.FullName,
			Total:      amount(r.Total, 0),
		})
	}
	return out
}

func assembleLegislatorExpenses(rows []store.LegislatorExpenseRow) []LegislatorExpense {
	out := make([]LegislatorExpense, 0, len(rows))
	for _, r := range rows {
		out = append(out, LegislatorExpense{
			ID:            r.LegislatorID,
			ElectoralName: r.ElectoralName,
			PartyCode:     r.PartyCode,
			StateCode:     r.StateCode,
			Total:         amount(r.Total, 2),
		})
	}
	return out
}

func assembleStateExpenses(rows []store.StateExpenseRow) []StateExpense {
	out := make([]StateExpense, 0, len(rows))
	for _, r := range rows {
		out = append(out, StateExpense{
			StateCode:       r.StateCode,
			Total:           amount(r.Total, 2),
			Average:         amount(r.Average, 2),
			Count:           r.Count,
			LegislatorCount: r.LegislatorCount,
		})
	}
	return out
}

func assembleActivitySummary(legislatorID int, name string, year int, r *store.ActivitySummaryRow) ActivitySummary {
	return ActivitySummary{
		LegislatorID:  legislatorID,
		ElectoralName: name,
		Year:          year,
		TotalExpenses: amount(r.TotalExpenses, 2),
		SessionCount:  r.SessionCount,
	}
}

func assembleActiveLegislators(rows []store.ActivityRow) []ActiveLegislator {
	out := make([]ActiveLegislator, 0, len(rows))
	for _, r := range rows {
		out = append(out, ActiveLegislator{
			ID:            r.LegislatorID,
			ElectoralName: r.ElectoralName,
			PartyCode:     r.PartyCode,
			StateCode:     r.StateCode,
			SessionCount:  r.SessionCount,
			BillCount:     r.BillCount,
		})
	}
	return out
}

func assembleYesVoters(rows []store.YesVoteRow) []YesVoter {
	out := make([]YesVoter, 0, len(rows))
	for _, r := range rows {
		out = append(out, YesVoter{
			ID:            r.LegislatorID,
			ElectoralName: r.ElectoralName,
			PartyCode:     r.PartyCode,
			StateCode:     r.StateCode,
			YesVotes:      r.YesVotes,
		})
	}
	return out
}

func assembleMostVotedBills(rows []store.MostVotedBillRow) []MostVotedBill {
	out := make([]MostVotedBill, 0, len(rows))
	for _, r := range rows {
		b := MostVotedBill{
			ID:           r.BillID,
			ExternalID:   r.ExternalID,
			TypeCode:     r.TypeCode,
			Year:         r.Year,
			SessionCount: r.SessionCount,
		}
		if r.Summary.Valid {
			summary := r.Summary.String
			b.Summary = &summary
		}
		out = append(out, b)
	}
	return out
}
