package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/jjenkins/parlamentar/internal/apperr"
	"github.com/jjenkins/parlamentar/internal/logger"
	"github.com/jjenkins/parlamentar/internal/observability"
	"github.com/jjenkins/parlamentar/internal/pagination"
	"github.com/jjenkins/parlamentar/internal/store"
)

// YesVoteBillType is the bill type ranked by the yes-vote endpoint
const YesVoteBillType = "PL"

// RankingService answers the analytical catalog: it runs one aggregation,
// assembles the rows and wraps unexpected failures so that only a generic
// message reaches the client.
type RankingService struct {
	rankings    *store.RankingStore
	legislators *store.LegislatorStore
	defaultYear int
	log         *logger.Logger
}

// NewRankingService creates a RankingService. defaultYear is used whenever
// a request does not name a year.
func NewRankingService(db *sql.DB, defaultYear int, log *logger.Logger) *RankingService {
	return &RankingService{
		rankings:    store.NewRankingStore(db),
		legislators: store.NewLegislatorStore(db),
		defaultYear: defaultYear,
		log:         log,
	}
}

// DefaultYear is the year used when a request does not name one
func (s *RankingService) DefaultYear() int {
	return s.defaultYear
}

func (s *RankingService) year(requested int) (int, error) {
	if requested == 0 {
		return s.defaultYear, nil
	}
	if err := checkYear(requested); err != nil {
		return 0, err
	}
	return requested, nil
}

// fail logs an aggregation failure with its context and hides it behind an
// internal error
func (s *RankingService) fail(ranking string, err error, keysAndValues ...interface{}) error {
	s.log.Error("aggregation failed", append([]interface{}{"ranking", ranking, "error", err}, keysAndValues...)...)
	return apperr.Internal(err, "aggregation "+ranking+" failed")
}

// PartyExpenses ranks parties by the total expenditure of their legislators
func (s *RankingService) PartyExpenses(ctx context.Context, year int) ([]PartyExpense, error) {
	y, err := s.year(year)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := s.rankings.PartyExpenses(ctx, y)
	observability.ObserveAggregation("partidos_despesa", start, err)
	if err != nil {
		return nil, s.fail("partidos_despesa", err, "ano", y)
	}

	return assemblePartyExpenses(rows), nil
}

// LegislatorExpenses ranks every legislator by total expenditure, one page at a time
func (s *RankingService) LegislatorExpenses(ctx context.Context, year int, p pagination.Params) (pagination.Page[LegislatorExpense], error) {
	y, err := s.year(year)
	if err != nil {
		return pagination.Page[LegislatorExpense]{}, err
	}

	start := time.Now()
	rows, total, err := s.rankings.LegislatorExpenses(ctx, y, p.Limit(), p.Offset())
	observability.ObserveAggregation("deputados_despesa", start, err)
	if err != nil {
		return pagination.Page[LegislatorExpense]{}, s.fail("deputados_despesa", err, "ano", y, "page", p.Page)
	}

	return pagination.NewPage(assembleLegislatorExpenses(rows), total, p), nil
}

// StateComparison compares expenditures per state. An empty uf means all
// states; otherwise it must be exactly two uppercase letters.
func (s *RankingService) StateComparison(ctx context.Context, year int, uf string) ([]StateExpense, error) {
	if err := ValidateStateCode(uf); err != nil {
		return nil, err
	}
	y, err := s.year(year)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := s.rankings.StateExpenses(ctx, y, uf)
	observability.ObserveAggregation("comparativo_estados", start, err)
	if err != nil {
		return nil, s.fail("comparativo_estados", err, "ano", y, "uf", uf)
	}

	return assembleStateExpenses(rows), nil
}

// ActivitySummary summarizes one legislator's expenditure and voting activity
func (s *RankingService) ActivitySummary(ctx context.Context, legislatorID, year int) (*ActivitySummary, error) {
	y, err := s.year(year)
	if err != nil {
		return nil, err
	}

	l, err := s.legislators.GetByID(ctx, legislatorID)
	if err != nil {
		return nil, s.fail("resumo", err, "id_deputado", legislatorID)
	}
	if l == nil {
		s.log.Warn("legislator not found", "id_deputado", legislatorID)
		return nil, apperr.NotFound("Deputado com ID %d não encontrado.", legislatorID)
	}

	start := time.Now()
	row, err := s.rankings.ActivitySummary(ctx, legislatorID, y)
	observability.ObserveAggregation("resumo", start, err)
	if err != nil {
		return nil, s.fail("resumo", err, "id_deputado", legislatorID, "ano", y)
	}

	summary := assembleActivitySummary(l.ID, l.ElectoralName, y, row)
	return &summary, nil
}

// MostActive ranks legislators by the voting sessions they took part in
func (s *RankingService) MostActive(ctx context.Context, p pagination.Params) (pagination.Page[ActiveLegislator], error) {
	start := time.Now()
	rows, total, err := s.rankings.MostActive(ctx, p.Limit(), p.Offset())
	observability.ObserveAggregation("atuantes", start, err)
	if err != nil {
		return pagination.Page[ActiveLegislator]{}, s.fail("atuantes", err, "page", p.Page)
	}

	return pagination.NewPage(assembleActiveLegislators(rows), total, p), nil
}

// YesVotes returns the top legislators by Yes votes on bills of the given type
func (s *RankingService) YesVotes(ctx context.Context, typeCode string) ([]YesVoter, error) {
	start := time.Now()
	rows, err := s.rankings.YesVotesByBillType(ctx, typeCode)
	observability.ObserveAggregation("votos_sim", start, err)
	if err != nil {
		return nil, s.fail("votos_sim", err, "sigla_tipo", typeCode)
	}

	return assembleYesVoters(rows), nil
}

// MostVotedBills returns the bills linked to the most voting sessions
func (s *RankingService) MostVotedBills(ctx context.Context) ([]MostVotedBill, error) {
	start := time.Now()
	rows, err := s.rankings.MostVotedBills(ctx)
	observability.ObserveAggregation("mais_votadas", start, err)
	if err != nil {
		return nil, s.fail("mais_votadas", err)
	}

	return assembleMostVotedBills(rows), nil
}
