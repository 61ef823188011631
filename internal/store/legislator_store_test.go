package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjenkins/parlamentar/internal/model"
	"github.com/jjenkins/parlamentar/internal/store"
	"github.com/jjenkins/parlamentar/internal/store/storetest"
)

func TestLegislatorStoreCreateReadsBackOffice(t *testing.T) {
	db := storetest.DB(t)
	ctx := context.Background()

	party := storetest.SeedParty(t, db, 36844, "PT")
	created := storetest.SeedLegislator(t, db, 204554, "Ana Souza", party, "SP")

	got, err := store.NewLegislatorStore(db).GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, int64(204554), got.ExternalID)
	assert.Equal(t, "Ana Souza", got.ElectoralName)
	assert.Equal(t, party.ID, got.PartyID)
	require.NotNil(t, got.Office)
	assert.Equal(t, created.ID, got.Office.LegislatorID)
	assert.Equal(t, "101", got.Office.Room)
	assert.Equal(t, "dep204554@camara.leg.br", got.Office.Email)
}

func TestLegislatorStoreGetMissing(t *testing.T) {
	db := storetest.DB(t)
	ls := store.NewLegislatorStore(db)

	got, err := ls.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ls.GetByExternalID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLegislatorStoreDuplicateExternalID(t *testing.T) {
	db := storetest.DB(t)
	party := storetest.SeedParty(t, db, 1, "PL")
	first := storetest.SeedLegislator(t, db, 7, "A", party, "RJ")

	dup := *first
	dup.ID = 0
	dup.Office = nil
	err := store.NewLegislatorStore(db).CreateWithOffice(context.Background(), &dup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrDuplicate))
}

func TestLegislatorStoreListFilters(t *testing.T) {
	db := storetest.DB(t)
	ctx := context.Background()

	pt := storetest.SeedParty(t, db, 1, "PT")
	pl := storetest.SeedParty(t, db, 2, "PL")
	storetest.SeedLegislator(t, db, 1, "A", pt, "SP")
	storetest.SeedLegislator(t, db, 2, "B", pl, "SP")
	storetest.SeedLegislator(t, db, 3, "C", pt, "RJ")

	ls := store.NewLegislatorStore(db)

	tests := []struct {
		name   string
		filter model.LegislatorFilter
		want   int
	}{
		{"no filter", model.LegislatorFilter{}, 3},
		{"state lowercased", model.LegislatorFilter{StateCode: "sp"}, 2},
		{"party", model.LegislatorFilter{PartyCode: "pt"}, 2},
		{"state and party", model.LegislatorFilter{StateCode: "SP", PartyCode: "PL"}, 1},
		{"sex", model.LegislatorFilter{Sex: "f"}, 3},
		{"no match", model.LegislatorFilter{Sex: "M"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := ls.List(ctx, tt.filter, 10, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, total)
			assert.Len(t, items, tt.want)
		})
	}

	items, total, err := ls.List(ctx, model.LegislatorFilter{}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, items, 1)
	assert.Equal(t, "C", items[0].ElectoralName)
}

func TestLegislatorStoreUpdateWithOffice(t *testing.T) {
	db := storetest.DB(t)
	ctx := context.Background()
	ls := store.NewLegislatorStore(db)

	pt := storetest.SeedParty(t, db, 1, "PT")
	pl := storetest.SeedParty(t, db, 2, "PL")
	l := storetest.SeedLegislator(t, db, 1, "A", pt, "SP")

	l.PartyID = pl.ID
	l.PartyCode = pl.Code
	l.Office.Room = "505"
	ok, err := ls.UpdateWithOffice(ctx, l)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := ls.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "PL", got.PartyCode)
	assert.Equal(t, "505", got.Office.Room)

	missing := *l
	missing.ID = 9999
	ok, err = ls.UpdateWithOffice(ctx, &missing)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLegislatorStoreUpsertIsIdempotent(t *testing.T) {
	db := storetest.DB(t)
	ctx := context.Background()
	ls := store.NewLegislatorStore(db)
	party := storetest.SeedParty(t, db, 1, "PSD")

	l := &model.Legislator{
		ExternalID:    555,
		CivilName:     "Civil",
		ElectoralName: "Eleitoral",
		PartyCode:     "PSD",
		StateCode:     "MG",
		PartyID:       party.ID,
		LegislatureID: 57,
		Sex:           "M",
		Office:        &model.Office{Name: "G", Room: "1"},
	}
	require.NoError(t, ls.UpsertWithOffice(ctx, l))
	firstID := l.ID

	again := *l
	again.ID = 0
	again.ElectoralName = "Renamed"
	again.Office = &model.Office{Name: "G", Room: "2"}
	require.NoError(t, ls.UpsertWithOffice(ctx, &again))
	assert.Equal(t, firstID, again.ID)

	count, err := ls.CountLegislators(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := ls.GetByExternalID(ctx, 555)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.ElectoralName)
	assert.Equal(t, "2", got.Office.Room)

	ids, err := ls.ExternalIDMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{555: firstID}, ids)
}

func TestLegislatorStoreDeleteCascade(t *testing.T) {
	db := storetest.DB(t)
	ctx := context.Background()
	ls := store.NewLegislatorStore(db)

	party := storetest.SeedParty(t, db, 1, "PT")
	l := storetest.SeedLegislator(t, db, 1, "A", party, "SP")
	other := storetest.SeedLegislator(t, db, 2, "B", party, "SP")
	storetest.SeedExpenditure(t, db, l.ID, 2024, 1, 10)
	storetest.SeedExpenditure(t, db, other.ID, 2024, 1, 10)
	bill := storetest.SeedBill(t, db, 1, "PL", 2024)
	session := storetest.SeedSession(t, db, "1-1", bill)
	storetest.SeedVotes(t, db, session, bill, map[*model.Legislator]string{l: model.VoteYes, other: model.VoteNo})

	ok, err := ls.DeleteCascade(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := ls.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	expenditures, err := store.NewExpenditureStore(db).CountExpenditures(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, expenditures)

	votes, err := store.NewVoteStore(db).CountVotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, votes)

	ok, err = ls.DeleteCascade(ctx, l.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
