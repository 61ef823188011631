// Package storetest opens throwaway databases with the production schema and
// seeds fixtures for store, service and handler tests.
package storetest

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/jjenkins/parlamentar/internal/model"
	"github.com/jjenkins/parlamentar/internal/store"
)

// DB returns a fresh in-memory SQLite database with the schema applied.
// It is closed when the test ends.
func DB(tb testing.TB) *sql.DB {
	tb.Helper()

	// NewDB pins sqlite to one connection, so each handle owns its own
	// in-memory database
	db, err := store.NewDB("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	tb.Cleanup(func() { db.Close() })

	if err := store.Migrate(context.Background(), db, "sqlite"); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	return db
}

func SeedParty(tb testing.TB, db *sql.DB, externalID int64, code string) *model.Party {
	tb.Helper()
	p := &model.Party{
		ExternalID: externalID,
		Code:       code,
		FullName:   "Partido " + code,
	}
	if err := store.NewPartyStore(db).UpsertParty(context.Background(), p); err != nil {
		tb.Fatalf("seed party: %v", err)
	}
	return p
}

func SeedLegislator(tb testing.TB, db *sql.DB, externalID int64, name string, party *model.Party, uf string) *model.Legislator {
	tb.Helper()
	l := &model.Legislator{
		ExternalID:    externalID,
		CivilName:     name + " Civil",
		ElectoralName: name,
		PartyCode:     party.Code,
		StateCode:     uf,
		PartyID:       party.ID,
		LegislatureID: 57,
		PhotoURL:      fmt.Sprintf("https://www.camara.leg.br/internet/deputado/bandep/%d.jpg", externalID),
		Sex:           "F",
		Office: &model.Office{
			Name:     "Gabinete",
			Building: "4",
			Room:     "101",
			Floor:    "1",
			Phone:    "3215-5101",
			Email:    fmt.Sprintf("dep%d@camara.leg.br", externalID),
		},
	}
	if err := store.NewLegislatorStore(db).CreateWithOffice(context.Background(), l); err != nil {
		tb.Fatalf("seed legislator: %v", err)
	}
	return l
}

func SeedExpenditure(tb testing.TB, db *sql.DB, legislatorID, year, month int, value float64) *model.Expenditure {
	tb.Helper()
	e := &model.Expenditure{
		LegislatorID: legislatorID,
		Year:         year,
		Month:        month,
		ExpenseType:  "COMBUSTÍVEIS E LUBRIFICANTES.",
		NetValue:     value,
	}
	if err := store.NewExpenditureStore(db).Create(context.Background(), e); err != nil {
		tb.Fatalf("seed expenditure: %v", err)
	}
	return e
}

func SeedBill(tb testing.TB, db *sql.DB, externalID int64, typeCode string, year int) *model.Bill {
	tb.Helper()
	summary := fmt.Sprintf("Ementa da %s %d/%d", typeCode, externalID, year)
	b := &model.Bill{
		ExternalID: externalID,
		TypeCode:   typeCode,
		Year:       year,
		Summary:    &summary,
	}
	if err := store.NewBillStore(db).UpsertBill(context.Background(), b); err != nil {
		tb.Fatalf("seed bill: %v", err)
	}
	return b
}

// SeedSession creates a voting session linked to the given bills
func SeedSession(tb testing.TB, db *sql.DB, externalID string, bills ...*model.Bill) *model.VotingSession {
	tb.Helper()
	ctx := context.Background()
	votes := store.NewVoteStore(db)

	vs := &model.VotingSession{
		ExternalID:   externalID,
		RegisteredAt: time.Date(2024, 5, 14, 18, 30, 0, 0, time.UTC),
		Description:  "Votação " + externalID,
	}
	if err := votes.UpsertSession(ctx, vs); err != nil {
		tb.Fatalf("seed voting session: %v", err)
	}
	relation := model.RelationPrincipal
	for _, b := range bills {
		link := &model.BillVotingLink{BillID: b.ID, VotingSessionID: vs.ID, RelationType: &relation}
		if err := votes.LinkBill(ctx, link); err != nil {
			tb.Fatalf("seed bill link: %v", err)
		}
	}
	return vs
}

// SeedVotes records the given votes (legislator -> value) on a session and bill
func SeedVotes(tb testing.TB, db *sql.DB, session *model.VotingSession, bill *model.Bill, values map[*model.Legislator]string) {
	tb.Helper()
	votes := make([]model.Vote, 0, len(values))
	for l, value := range values {
		code := l.PartyCode
		votes = append(votes, model.Vote{
			LegislatorID: l.ID,
			BillID:       bill.ID,
			Value:        value,
			PartyCode:    &code,
		})
	}
	if err := store.NewVoteStore(db).InsertVotes(context.Background(), session.ID, bill.ID, votes); err != nil {
		tb.Fatalf("seed votes: %v", err)
	}
}
