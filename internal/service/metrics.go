package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jjenkins/parlamentar/internal/store"
)

// MetricsService calculates system-wide metrics
type MetricsService struct {
	parties      *store.PartyStore
	legislators  *store.LegislatorStore
	expenditures *store.ExpenditureStore
	bills        *store.BillStore
	votes        *store.VoteStore
	rankings     *store.RankingStore
}

// NewMetricsService creates a new MetricsService
func NewMetricsService(db *sql.DB) *MetricsService {
	return &MetricsService{
		parties:      store.NewPartyStore(db),
		legislators:  store.NewLegislatorStore(db),
		expenditures: store.NewExpenditureStore(db),
		bills:        store.NewBillStore(db),
		votes:        store.NewVoteStore(db),
		rankings:     store.NewRankingStore(db),
	}
}

// SystemMetrics represents calculated system-wide metrics
type SystemMetrics struct {
	Year              int
	TotalLegislators  int
	TotalParties      int
	TotalExpenditures int
	TotalBills        int
	TotalSessions     int
	TotalVotes        int
	TotalSpent        float64
	TopParty          string
	TopPartySpent     float64
}

// Calculate computes the system metrics for the analysis year
func (m *MetricsService) Calculate(ctx context.Context, year int) (*SystemMetrics, error) {
	metrics := &SystemMetrics{Year: year}

	counts := []struct {
		name  string
		count func(context.Context) (int, error)
		dst   *int
	}{
		{"legislators", m.legislators.CountLegislators, &metrics.TotalLegislators},
		{"parties", m.parties.CountParties, &metrics.TotalParties},
		{"expenditures", m.expenditures.CountExpenditures, &metrics.TotalExpenditures},
		{"bills", m.bills.CountBills, &metrics.TotalBills},
		{"voting sessions", m.votes.CountSessions, &metrics.TotalSessions},
		{"votes", m.votes.CountVotes, &metrics.TotalVotes},
	}
	for _, c := range counts {
		n, err := c.count(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.name, err)
		}
		*c.dst = n
	}

	total, err := m.rankings.TotalExpenses(ctx, year)
	if err != nil {
		return nil, err
	}
	metrics.TotalSpent = round(total, 2)

	// Find top spending party
	parties, err := m.rankings.PartyExpenses(ctx, year)
	if err != nil {
		return nil, err
	}
	if len(parties) > 0 {
		metrics.TopParty = parties[0].Code
		metrics.TopPartySpent = amount(parties[0].Total, 0)
	}

	return metrics, nil
}
