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
	"github.com/jjenkins/parlamentar/internal/store/storetest"
)

func TestExpenditureServiceCreate(t *testing.T) {
	db := storetest.DB(t)
	ctx := context.Background()
	svc := NewExpenditureService(db, logger.NewNop())
	party := storetest.SeedParty(t, db, 1, "PT")
	l := storetest.SeedLegislator(t, db, 1, "A", party, "SP")

	e, err := svc.Create(ctx, ExpenditureInput{LegislatorID: l.ID, Year: 2024, Month: 5, ExpenseType: "TELEFONIA", NetValue: 89.9})
	require.NoError(t, err)
	assert.NotZero(t, e.ID)

	_, err = svc.Create(ctx, ExpenditureInput{LegislatorID: 999, Year: 2024, Month: 5, ExpenseType: "TELEFONIA"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.Create(ctx, ExpenditureInput{LegislatorID: l.ID, Year: 2024, Month: 13, ExpenseType: "TELEFONIA"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, "O mês deve estar entre 1 e 12.", apperr.PublicMessage(err))

	_, err = svc.Create(ctx, ExpenditureInput{LegislatorID: l.ID, Year: 1800, Month: 1, ExpenseType: "TELEFONIA"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestExpenditureServicePartialUpdate(t *testing.T) {
	db := storetest.DB(t)
	ctx := context.Background()
	svc := NewExpenditureService(db, logger.NewNop())
	party := storetest.SeedParty(t, db, 1, "PT")
	l := storetest.SeedLegislator(t, db, 1, "A", party, "SP")
	seeded := storetest.SeedExpenditure(t, db, l.ID, 2024, 1, 10)

	value := 25.75
	updated, err := svc.Update(ctx, seeded.ID, ExpenditureUpdate{NetValue: &value})
	require.NoError(t, err)
	assert.Equal(t, 25.75, updated.NetValue)
	assert.Equal(t, 1, updated.Month, "fields not supplied are kept")
	assert.Equal(t, seeded.ExpenseType, updated.ExpenseType)

	month := 0
	_, err = svc.Update(ctx, seeded.ID, ExpenditureUpdate{Month: &month})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Update(ctx, 999, ExpenditureUpdate{NetValue: &value})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestExpenditureServiceDeleteAndList(t *testing.T) {
	db := storetest.DB(t)
	ctx := context.Background()
	svc := NewExpenditureService(db, logger.NewNop())
	party := storetest.SeedParty(t, db, 1, "PT")
	l := storetest.SeedLegislator(t, db, 1, "A", party, "SP")
	first := storetest.SeedExpenditure(t, db, l.ID, 2024, 1, 10)
	storetest.SeedExpenditure(t, db, l.ID, 2024, 2, 20)

	require.NoError(t, svc.Delete(ctx, first.ID))
	assert.True(t, apperr.Is(svc.Delete(ctx, first.ID), apperr.KindNotFound))

	page, err := svc.List(ctx, model.ExpenditureFilter{LegislatorID: l.ID, Year: 2024}, pagination.Params{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.Items[0].Month)
}

func TestBillService(t *testing.T) {
	db := storetest.DB(t)
	ctx := context.Background()
	svc := NewBillService(db, logger.NewNop())
	b := storetest.SeedBill(t, db, 10, "PL", 2024)
	storetest.SeedBill(t, db, 11, "PEC", 2024)

	got, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.ExternalID)

	_, err = svc.Get(ctx, 999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	page, err := svc.List(ctx, model.BillFilter{TypeCode: "pec"}, pagination.Params{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}
