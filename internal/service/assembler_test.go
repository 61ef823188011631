package service

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjenkins/parlamentar/internal/store"
)

func valid(v float64) sql.NullFloat64 { return sql.NullFloat64{Float64: v, Valid: true} }

func TestRound(t *testing.T) {
	tests := []struct {
		in       float64
		decimals int
		want     float64
	}{
		{1000.5, 0, 1001},
		{1000.49, 0, 1000},
		{1000.5, 2, 1000.5},
		{12.346, 2, 12.35},
		{-2.5, 0, -3},
		{0, 2, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, round(tt.in, tt.decimals), 1e-9, "round(%v, %d)", tt.in, tt.decimals)
	}
}

func TestAssemblePartyExpensesRoundsToUnits(t *testing.T) {
	out := assemblePartyExpenses([]store.PartyExpenseRow{
		{PartyID: 1, ExternalID: 36844, Code: "PT", FullName: "Partido dos Trabalhadores", Total: valid(1234.56)},
		{PartyID: 2, Code: "PL", Total: sql.NullFloat64{}},
	})

	require.Len(t, out, 2)
	assert.Equal(t, PartyExpense{ID: 1, ExternalID: 36844, Code: "PT", FullName: "Partido dos Trabalhadores", Total: 1235}, out[0])
	assert.Zero(t, out[1].Total)
}

func TestAssembleLegislatorExpensesKeepsCents(t *testing.T) {
	out := assembleLegislatorExpenses([]store.LegislatorExpenseRow{
		{LegislatorID: 1, ElectoralName: "A", PartyCode: "PT", StateCode: "SP", Total: valid(1000.5)},
		{LegislatorID: 2, ElectoralName: "B", PartyCode: "PT", StateCode: "SP", Total: sql.NullFloat64{}},
	})

	require.Len(t, out, 2)
	assert.Equal(t, 1000.5, out[0].Total)
	assert.Equal(t, 0.0, out[1].Total)
}

func TestAssembleStateExpenses(t *testing.T) {
	out := assembleStateExpenses([]store.StateExpenseRow{
		{StateCode: "SP", Total: valid(600.004), Average: valid(200.0013), Count: 3, LegislatorCount: 2},
	})

	require.Len(t, out, 1)
	assert.Equal(t, StateExpense{StateCode: "SP", Total: 600, Average: 200, Count: 3, LegislatorCount: 2}, out[0])
}

func TestAssembleActivitySummaryCoalescesNull(t *testing.T) {
	got := assembleActivitySummary(7, "Ana", 2024, &store.ActivitySummaryRow{SessionCount: 4})
	assert.Equal(t, ActivitySummary{LegislatorID: 7, ElectoralName: "Ana", Year: 2024, TotalExpenses: 0, SessionCount: 4}, got)
}

func TestAssembleRankingProjections(t *testing.T) {
	active := assembleActiveLegislators([]store.ActivityRow{{LegislatorID: 1, ElectoralName: "A", PartyCode: "PT", StateCode: "SP", SessionCount: 5, BillCount: 3}})
	assert.Equal(t, []ActiveLegislator{{ID: 1, ElectoralName: "A", PartyCode: "PT", StateCode: "SP", SessionCount: 5, BillCount: 3}}, active)

	yes := assembleYesVoters([]store.YesVoteRow{{LegislatorID: 2, ElectoralName: "B", PartyCode: "PL", StateCode: "RJ", YesVotes: 9}})
	assert.Equal(t, []YesVoter{{ID: 2, ElectoralName: "B", PartyCode: "PL", StateCode: "RJ", YesVotes: 9}}, yes)

	bills := assembleMostVotedBills([]store.MostVotedBillRow{
		{BillID: 3, ExternalID: 99, TypeCode: "PL", Year: 2024, Summary: sql.NullString{String: "Ementa", Valid: true}, SessionCount: 2},
		{BillID: 4, TypeCode: "PEC", Year: 2023, SessionCount: 1},
	})
	require.Len(t, bills, 2)
	require.NotNil(t, bills[0].Summary)
	assert.Equal(t, "Ementa", *bills[0].Summary)
	assert.Nil(t, bills[1].Summary)

	assert.NotNil(t, assembleYesVoters(nil), "empty rankings serialize as []")
}
