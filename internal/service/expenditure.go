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

// ExpenditureInput is the body of an expenditure create request
type ExpenditureInput struct {
	LegislatorID int     `json:"id_deputado" validate:"required"`
	Year         int     `json:"ano" validate:"min=1900,max=2100"`
	Month        int     `json:"mes" validate:"min=1,max=12"`
	ExpenseType  string  `json:"tipo_despesa" validate:"required"`
	NetValue     float64 `json:"valor_liquido"`
	DocumentType *string `json:"tipo_documento"`
	DocumentURL  *string `json:"url_documento"`
	SupplierName *string `json:"nome_fornecedor"`
}

// ExpenditureUpdate is a partial update: only non-nil fields change
type ExpenditureUpdate struct {
	Year         *int     `json:"ano" validate:"omitempty,min=1900,max=2100"`
	Month        *int     `json:"mes" validate:"omitempty,min=1,max=12"`
	ExpenseType  *string  `json:"tipo_despesa" validate:"omitempty,min=1"`
	NetValue     *float64 `json:"valor_liquido"`
	DocumentType *string  `json:"tipo_documento"`
	DocumentURL  *string  `json:"url_documento"`
	SupplierName *string  `json:"nome_fornecedor"`
}

func (u *ExpenditureUpdate) apply(e *model.Expenditure) {
	if u.Year != nil {
		e.Year = *u.Year
	}
	if u.Month != nil {
		e.Month = *u.Month
	}
	if u.ExpenseType != nil {
		e.ExpenseType = *u.ExpenseType
	}
	if u.NetValue != nil {
		e.NetValue = *u.NetValue
	}
	if u.DocumentType != nil {
		e.DocumentType = u.DocumentType
	}
	if u.DocumentURL != nil {
		e.DocumentURL = u.DocumentURL
	}
	if u.SupplierName != nil {
		e.SupplierName = u.SupplierName
	}
}

// ExpenditureService implements the expenditure CRUD operations
type ExpenditureService struct {
	expenditures *store.ExpenditureStore
	legislators  *store.LegislatorStore
	log          *logger.Logger
}

// NewExpenditureService creates a new ExpenditureService
func NewExpenditureService(db *sql.DB, log *logger.Logger) *ExpenditureService {
	return &ExpenditureService{
		expenditures: store.NewExpenditureStore(db),
		legislators:  store.NewLegislatorStore(db),
		log:          log,
	}
}

// Get returns one expenditure
func (s *ExpenditureService) Get(ctx context.Context, id int) (*model.Expenditure, error) {
	e, err := s.expenditures.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, "get expenditure")
	}
	if e == nil {
		s.log.Warn("expenditure not found", "id", id)
		return nil, apperr.NotFound("Despesa com ID %d não encontrada.", id)
	}
	return e, nil
}

// List returns one page of expenditures matching the filter
func (s *ExpenditureService) List(ctx context.Context, f model.ExpenditureFilter, p pagination.Params) (pagination.Page[model.Expenditure], error) {
	items, total, err := s.expenditures.List(ctx, f, p.Limit(), p.Offset())
	if err != nil {
		return pagination.Page[model.Expenditure]{}, apperr.Internal(err, "list expenditures")
	}
	return pagination.NewPage(items, total, p), nil
}

// Create stores an expenditure for an existing legislator
func (s *ExpenditureService) Create(ctx context.Context, in ExpenditureInput) (*model.Expenditure, error) {
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	l, err := s.legislators.GetByID(ctx, in.LegislatorID)
	if err != nil {
		return nil, apperr.Internal(err, "get legislator")
	}
	if l == nil {
		s.log.Warn("expenditure for unknown legislator", "id_deputado", in.LegislatorID)
		return nil, apperr.NotFound("Deputado com ID %d não encontrado.", in.LegislatorID)
	}

	e := &model.Expenditure{
		LegislatorID: in.LegislatorID,
		Year:         in.Year,
		Month:        in.Month,
		ExpenseType:  in.ExpenseType,
		NetValue:     in.NetValue,
		DocumentType: in.DocumentType,
		DocumentURL:  in.DocumentURL,
		SupplierName: in.SupplierName,
	}
	if err := s.expenditures.Create(ctx, e); err != nil {
		return nil, apperr.Internal(err, "create expenditure")
	}

	s.log.Info("expenditure created", "id", e.ID, "id_deputado", e.LegislatorID)
	return e, nil
}

// Update changes the supplied fields of an expenditure
func (s *ExpenditureService) Update(ctx context.Context, id int, u ExpenditureUpdate) (*model.Expenditure, error) {
	if err := validateStruct(&u); err != nil {
		return nil, err
	}

	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	u.apply(e)
	if err := s.expenditures.Update(ctx, e); err != nil {
		return nil, apperr.Internal(err, "update expenditure")
	}

	s.log.Info("expenditure updated", "id", id)
	return e, nil
}

// Delete removes an expenditure
func (s *ExpenditureService) Delete(ctx context.Context, id int) error {
	ok, err := s.expenditures.Delete(ctx, id)
	if err != nil {
		return apperr.Internal(err, "delete expenditure")
	}
	if !ok {
		s.log.Warn("expenditure not found", "id", id)
		return apperr.NotFound("Despesa com ID %d não encontrada.", id)
	}

	s.log.Info("expenditure deleted", "id", id)
	return nil
}
