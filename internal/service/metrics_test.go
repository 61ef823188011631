package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjenkins/parlamentar/internal/model"
	"github.com/jjenkins/parlamentar/internal/store/storetest"
)

func TestMetricsCalculate(t *testing.T) {
	db := storetest.DB(t)
	ctx := context.Background()

	pt := storetest.SeedParty(t, db, 1, "PT")
	pl := storetest.SeedParty(t, db, 2, "PL")
	a := storetest.SeedLegislator(t, db, 1, "A", pt, "SP")
	b := storetest.SeedLegislator(t, db, 2, "B", pl, "RJ")
	storetest.SeedExpenditure(t, db, a.ID, 2024, 1, 10.5)
	storetest.SeedExpenditure(t, db, b.ID, 2024, 1, 99.75)
	storetest.SeedExpenditure(t, db, b.ID, 2023, 1, 5000)
	bill := storetest.SeedBill(t, db, 1, "PL", 2024)
	s := storetest.SeedSession(t, db, "1-1", bill)
	storetest.SeedVotes(t, db, s, bill, map[*model.Legislator]string{a: model.VoteYes, b: model.VoteNo})

	m, err := NewMetricsService(db).Calculate(ctx, 2024)
	require.NoError(t, err)

	assert.Equal(t, &SystemMetrics{
		Year:              2024,
		TotalLegislators:  2,
		TotalParties:      2,
		TotalExpenditures: 3,
		TotalBills:        1,
		TotalSessions:     1,
		TotalVotes:        2,
		TotalSpent:        110.25,
		TopParty:          "PL",
		TopPartySpent:     100,
	}, m)
}

func TestMetricsCalculateEmpty(t *testing.T) {
	m, err := NewMetricsService(storetest.DB(t)).Calculate(context.Background(), 2024)
	require.NoError(t, err)
	assert.Zero(t, m.TotalSpent)
	assert.Empty(t, m.TopParty)
}
