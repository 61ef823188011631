package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjenkins/parlamentar/internal/apperr"
	"github.com/jjenkins/parlamentar/internal/logger"
	"github.com/jjenkins/parlamentar/internal/model"
	"github.com/jjenkins/parlamentar/internal/pagination"
	"github.com/jjenkins/parlamentar/internal/store"
	"github.com/jjenkins/parlamentar/internal/store/storetest"
)

func newLegislatorInput(partyID int, partyCode string) LegislatorInput {
	return LegislatorInput{
		ExternalID:    204554,
		CivilName:     "Maria da Silva",
		ElectoralName: "Maria Silva",
		PartyCode:     partyCode,
		StateCode:     "sp",
		PartyID:       partyID,
		LegislatureID: 57,
		PhotoURL:      "https://www.camara.leg.br/internet/deputado/bandep/204554.jpg",
		Sex:           "f",
		Office: &OfficeInput{
			Name:     "Gabinete 301",
			Building: "4",
			Room:     "301",
			Floor:    "3",
			Phone:    "3215-5301",
			Email:    "dep.mariasilva@camara.leg.br",
		},
	}
}

func TestLegislatorServiceCreate(t *testing.T) {
	db := storetest.DB(t)
	ctx := context.Background()
	svc := NewLegislatorService(db, logger.NewNop())
	party := storetest.SeedParty(t, db, 36844, "PT")

	created, err := svc.Create(ctx, newLegislatorInput(party.ID, "pt"))
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, "PT", created.PartyCode)
	assert.Equal(t, "SP", created.StateCode)
	assert.Equal(t, "F", created.Sex)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Office)
	assert.Equal(t, "301", got.Office.Room)
}

func TestLegislatorServiceCreateRejections(t *testing.T) {
	db := storetest.DB(t)
	ctx := context.Background()
	svc := NewLegislatorService(db, logger.NewNop())
	party := storetest.SeedParty(t, db, 36844, "PT")

	_, err := svc.Create(ctx, newLegislatorInput(party.ID, "PT"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*LegislatorInput)
		kind   apperr.Kind
		msg    string
	}{
		{"duplicate external id", func(in *LegislatorInput) {}, apperr.KindConflict, "já existe"},
		{"missing party", func(in *LegislatorInput) { in.ExternalID = 1; in.PartyID = 999 }, apperr.KindValidation, "inexistente"},
		{"party code mismatch", func(in *LegislatorInput) { in.ExternalID = 2; in.PartyCode = "PL" }, apperr.KindValidation, "inconsistente"},
		{"invalid sex", func(in *LegislatorInput) { in.ExternalID = 3; in.Sex = "X" }, apperr.KindValidation, `"M" ou "F"`},
		{"three letter state", func(in *LegislatorInput) { in.ExternalID = 4; in.StateCode = "SPX" }, apperr.KindValidation, "2 letras"},
		{"missing office", func(in *LegislatorInput) { in.ExternalID = 5; in.Office = nil }, apperr.KindValidation, "gabinete"},
		{"office without email", func(in *LegislatorInput) { in.ExternalID = 6; in.Office.Email = "" }, apperr.KindValidation, "gabinete.email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := newLegislatorInput(party.ID, "PT")
			tt.mutate(&in)

			_, err := svc.Create(ctx, in)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
			assert.Contains(t, apperr.PublicMessage(err), tt.msg)
		})
	}

	count, err := store.NewLegislatorStore(db).CountLegislators(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "rejected creates must not write")
}

func TestLegislatorServiceUpdate(t *testing.T) {
	db := storetest.DB(t)
	ctx := context.Background()
	svc := NewLegislatorService(db, logger.NewNop())
	pt := storetest.SeedParty(t, db, 1, "PT")
	pl := storetest.SeedParty(t, db, 2, "PL")

	created, err := svc.Create(ctx, newLegislatorInput(pt.ID, "PT"))
	require.NoError(t, err)

	in := newLegislatorInput(pl.ID, "pl")
	in.Office.Room = "999"
	updated, err := svc.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, pl.ID, updated.PartyID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "PL", got.PartyCode)
	assert.Equal(t, "999", got.Office.Room)

	_, err = svc.Update(ctx, created.ID, newLegislatorInput(pl.ID, "PT"))
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Update(ctx, 12345, newLegislatorInput(pl.ID, "PL"))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestLegislatorServiceDeleteCascades(t *testing.T) {
	db := storetest.DB(t)
	ctx := context.Background()
	svc := NewLegislatorService(db, logger.NewNop())
	party := storetest.SeedParty(t, db, 1, "PT")
	l := storetest.SeedLegislator(t, db, 1, "A", party, "SP")
	storetest.SeedExpenditure(t, db, l.ID, 2024, 1, 10)
	bill := storetest.SeedBill(t, db, 1, "PL", 2024)
	session := storetest.SeedSession(t, db, "1-1", bill)
	storetest.SeedVotes(t, db, session, bill, map[*model.Legislator]string{l: model.VoteYes})

	require.NoError(t, svc.Delete(ctx, l.ID))

	_, err := svc.Get(ctx, l.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	page, err := NewExpenditureService(db, logger.NewNop()).List(ctx, model.ExpenditureFilter{LegislatorID: l.ID}, pagination.Params{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	votes, err := store.NewVoteStore(db).CountVotes(ctx)
	require.NoError(t, err)
	assert.Zero(t, votes)

	err = svc.Delete(ctx, l.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestLegislatorServiceList(t *testing.T) {
	db := storetest.DB(t)
	ctx := context.Background()
	svc := NewLegislatorService(db, logger.NewNop())
	party := storetest.SeedParty(t, db, 1, "PT")
	for i := 1; i <= 3; i++ {
		storetest.SeedLegislator(t, db, int64(i), "Dep", party, "MG")
	}

	page, err := svc.List(ctx, model.LegislatorFilter{StateCode: "mg"}, pagination.Params{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 1)
}
