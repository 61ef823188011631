package service

import (
	"context"
	"database/sql"

	"github.com/jjenkins/parlamentar/internal/apperr"
	"github.com/jjenkins/parlamentar/internal/logger"
	"github.com/jjenkins/parlamentar/internal/model"
	"github.com/jjenkins/parlamentar/internal/pagination"
	"github.com/jjenkins/parlamentar/internal/store"
)

// BillService serves the read-only bill endpoints
type BillService struct {
	bills *store.BillStore
	log   *logger.Logger
}

// NewBillService creates a new BillService
func NewBillService(db *sql.DB, log *logger.Logger) *BillService {
	return &BillService{bills: store.NewBillStore(db), log: log}
}

func (s *BillService) Get(ctx context.Context, id int) (*model.Bill, error) {
	b, err := s.bills.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, "get bill")
	}
	if b == nil {
		s.log.Warn("bill not found", "id", id)
		return nil, apperr.NotFound("Proposição não encontrada.")
	}
	return b, nil
}

func (s *BillService) List(ctx context.Context, f model.BillFilter, p pagination.Params) (pagination.Page[model.Bill], error) {
	items, total, err := s.bills.List(ctx, f, p.Limit(), p.Offset())
	if err != nil {
		return pagination.Page[model.Bill]{}, apperr.Internal(err, "list bills")
	}
	return pagination.NewPage(items, total, p), nil
}
