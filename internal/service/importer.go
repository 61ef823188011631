package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jjenkins/parlamentar/internal/logger"
	"github.com/jjenkins/parlamentar/internal/model"
	"github.com/jjenkins/parlamentar/internal/observability"
	"github.com/jjenkins/parlamentar/internal/store"
)

// ImportStats tracks import statistics of one step
type ImportStats struct {
	Step     string
	Total    int
	Imported int
	Skipped  int
	Failed   int

	mu sync.Mutex
}

func (s *ImportStats) record(imported, skipped bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	outcome := observability.OutcomeFailed
	switch {
	case imported:
		s.Imported++
		outcome = observability.OutcomeImported
	case skipped:
		s.Skipped++
		outcome = observability.OutcomeSkipped
	default:
		s.Failed++
	}
	observability.RecordImport(s.Step, outcome)
}

// Importer orchestrates the open-data import: parties, then deputies with
// their offices, then expenditures, and optionally bills with their votes.
type Importer struct {
	client       *CamaraClient
	parser       *Parser
	parties      *store.PartyStore
	legislators  *store.LegislatorStore
	expenditures *store.ExpenditureStore
	bills        *store.BillStore
	votes        *store.VoteStore
	concurrency  int
	log          *logger.Logger
}

// NewImporter creates a new Importer. concurrency bounds the number of
// deputies fetched in parallel.
func NewImporter(client *CamaraClient, parser *Parser, db *sql.DB, concurrency int, log *logger.Logger) *Importer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Importer{
		client:       client,
		parser:       parser,
		parties:      store.NewPartyStore(db),
		legislators:  store.NewLegislatorStore(db),
		expenditures: store.NewExpenditureStore(db),
		bills:        store.NewBillStore(db),
		votes:        store.NewVoteStore(db),
		concurrency:  concurrency,
		log:          log,
	}
}

// ImportParties fetches and upserts every party of the legislature
func (i *Importer) ImportParties(ctx context.Context) (*ImportStats, error) {
	stats := &ImportStats{Step: "partidos"}

	i.log.Info("fetching parties from open-data API")
	parties, err := i.client.FetchParties(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch parties list: %w", err)
	}
	stats.Total = len(parties)

	for idx := range parties {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		p := &parties[idx]
		if err := i.parties.UpsertParty(ctx, p); err != nil {
			i.log.Error("failed to import party", "sigla", p.Code, "id_dados_abertos", p.ExternalID, "error", err)
			stats.record(false, false)
			continue
		}
		stats.record(true, false)
	}

	return stats, nil
}

// ImportLegislators fetches every deputy, reads its detail document and
// upserts it with its office. Deputies whose party is unknown or
// inconsistent are counted as failed.
func (i *Importer) ImportLegislators(ctx context.Context) (*ImportStats, error) {
	stats := &ImportStats{Step: "deputados"}

	i.log.Info("fetching deputies from open-data API")
	metas, err := i.client.FetchLegislators(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deputies list: %w", err)
	}
	stats.Total = len(metas)

	all, err := i.parties.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	parties := partyIndex{
		byExternalID: make(map[int64]*model.Party, len(all)),
		byCode:       make(map[string]*model.Party, len(all)),
	}
	for idx := range all {
		parties.byExternalID[all[idx].ExternalID] = &all[idx]
		parties.byCode[strings.ToUpper(all[idx].Code)] = &all[idx]
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)
	for idx, meta := range metas {
		progress := fmt.Sprintf("[%d/%d]", idx+1, stats.Total)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := i.importLegislator(gctx, meta, parties); err != nil {
				i.log.Error("failed to import deputy", "progress", progress, "id_dados_abertos", meta.ExternalID, "error", err)
				stats.record(false, false)
				return nil
			}
			i.log.Debug("deputy imported", "progress", progress, "nome", meta.Name)
			stats.record(true, false)
			return nil
		})
	}

	return stats, g.Wait()
}

// partyIndex holds the stored parties by open-data id and by code
type partyIndex struct {
	byExternalID map[int64]*model.Party
	byCode       map[string]*model.Party
}

// lookup finds a deputy's party by the open-data party id. Listings without
// a party uri fall back to the party code.
func (x partyIndex) lookup(meta model.LegislatorMeta) *model.Party {
	if meta.PartyExternalID == 0 {
		return x.byCode[strings.ToUpper(meta.PartyCode)]
	}
	return x.byExternalID[meta.PartyExternalID]
}

func (i *Importer) importLegislator(ctx context.Context, meta model.LegislatorMeta, parties partyIndex) error {
	party := parties.lookup(meta)
	if party == nil {
		return fmt.Errorf("party %q (id %d) was not imported", meta.PartyCode, meta.PartyExternalID)
	}
	if err := CheckPartyConsistency(party, party.ID, meta.PartyCode); err != nil {
		return err
	}

	content, err := i.client.FetchLegislatorDetail(ctx, meta.ExternalID)
	if err != nil {
		return err
	}
	detail, err := i.parser.ParseLegislatorDetail(content)
	if err != nil {
		return err
	}

	office := detail.Office
	l := &model.Legislator{
		ExternalID:    meta.ExternalID,
		CivilName:     detail.CivilName,
		ElectoralName: detail.ElectoralName,
		PartyCode:     party.Code,
		StateCode:     strings.ToUpper(meta.StateCode),
		PartyID:       party.ID,
		LegislatureID: meta.LegislatureID,
		PhotoURL:      meta.PhotoURL,
		Sex:           detail.Sex,
		Office:        &office,
	}
	return i.legislators.UpsertWithOffice(ctx, l)
}

// ImportExpenditures fetches the expenditures of every stored deputy for
// the year. Expenditures already stored (same document code) are skipped.
func (i *Importer) ImportExpenditures(ctx context.Context, year int) (*ImportStats, error) {
	stats := &ImportStats{Step: "despesas"}

	ids, err := i.legislators.ExternalIDMap(ctx)
	if err != nil {
		return nil, err
	}
	i.log.Info("fetching expenditures", "ano", year, "deputados", len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)
	for externalID, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			expenditures, err := i.client.FetchExpenditures(gctx, externalID, year)
			if err != nil {
				i.log.Error("failed to fetch expenditures", "id_dados_abertos", externalID, "error", err)
				stats.mu.Lock()
				stats.Failed++
				stats.mu.Unlock()
				return nil
			}

			stats.mu.Lock()
			stats.Total += len(expenditures)
			stats.mu.Unlock()

			for idx := range expenditures {
				e := &expenditures[idx]
				e.LegislatorID = id
				inserted, err := i.expenditures.InsertIfNew(gctx, e)
				if err != nil {
					i.log.Error("failed to import expenditure", "id_deputado", id, "error", err)
				}
				stats.record(inserted, err == nil && !inserted)
			}
			return nil
		})
	}

	return stats, g.Wait()
}

// ImportVotes fetches the bills of each type presented in the year, the
// voting sessions held on them and the votes of every session. Votes of
// deputies that are not stored are dropped.
func (i *Importer) ImportVotes(ctx context.Context, year int, typeCodes []string) (*ImportStats, error) {
	stats := &ImportStats{Step: "votacoes"}

	ids, err := i.legislators.ExternalIDMap(ctx)
	if err != nil {
		return nil, err
	}

	for _, typeCode := range typeCodes {
		i.log.Info("fetching bills", "sigla_tipo", typeCode, "ano", year)
		bills, err := i.client.FetchBills(ctx, typeCode, year)
		if err != nil {
			return stats, err
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(i.concurrency)
		for idx := range bills {
			b := &bills[idx]
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := i.bills.UpsertBill(gctx, b); err != nil {
					i.log.Error("failed to import bill", "id_dados_abertos", b.ExternalID, "error", err)
					return nil
				}
				i.importBillSessions(gctx, b, ids, stats)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return stats, err
		}
	}

	return stats, nil
}

func (i *Importer) importBillSessions(ctx context.Context, b *model.Bill, ids map[int64]int, stats *ImportStats) {
	sessions, err := i.client.FetchBillSessions(ctx, b.ExternalID)
	if err != nil {
		i.log.Error("failed to fetch voting sessions", "id_proposicao", b.ID, "error", err)
		return
	}

	stats.mu.Lock()
	stats.Total += len(sessions)
	stats.mu.Unlock()

	relation := model.RelationPrincipal
	for idx := range sessions {
		vs := &sessions[idx]
		if err := i.importSession(ctx, b, vs, relation, ids); err != nil {
			i.log.Error("failed to import voting session", "id_dados_abertos", vs.ExternalID, "error", err)
			stats.record(false, false)
			continue
		}
		stats.record(true, false)
	}
}

func (i *Importer) importSession(ctx context.Context, b *model.Bill, vs *model.VotingSession, relation string, ids map[int64]int) error {
	if err := i.votes.UpsertSession(ctx, vs); err != nil {
		return err
	}
	link := &model.BillVotingLink{BillID: b.ID, VotingSessionID: vs.ID, RelationType: &relation}
	if err := i.votes.LinkBill(ctx, link); err != nil {
		return err
	}

	fetched, err := i.client.FetchSessionVotes(ctx, vs.ExternalID)
	if err != nil {
		return err
	}

	votes := make([]model.Vote, 0, len(fetched))
	for _, v := range fetched {
		id, ok := ids[int64(v.LegislatorID)]
		if !ok {
			continue
		}
		v.LegislatorID = id
		votes = append(votes, v)
	}
	return i.votes.InsertVotes(ctx, vs.ID, b.ID, votes)
}

// PrintSummary logs the statistics of one import step
func (i *Importer) PrintSummary(stats *ImportStats) {
	if stats == nil {
		return
	}
	i.log.Info("import summary",
		"step", stats.Step,
		"total", stats.Total,
		"imported", stats.Imported,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
	)
}
