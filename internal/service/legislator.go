package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jjenkins/parlamentar/internal/apperr"
	"github.com/jjenkins/parlamentar/internal/logger"
	"github.com/jjenkins/parlamentar/internal/model"
	"github.com/jjenkins/parlamentar/internal/pagination"
	"github.com/jjenkins/parlamentar/internal/store"
)

// OfficeInput is the office nested in a legislator create/update request
type OfficeInput struct {
	Name     string `json:"nome" validate:"required"`
	Building string `json:"predio" validate:"required"`
	Room     string `json:"sala" validate:"required"`
	Floor    string `json:"andar" validate:"required"`
	Phone    string `json:"telefone" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

// LegislatorInput is the body of a legislator create/update request
type LegislatorInput struct {
	ExternalID    int64        `json:"id_dados_abertos" validate:"required,gt=0"`
	CivilName     string       `json:"nome_civil" validate:"required"`
	ElectoralName string       `json:"nome_eleitoral" validate:"required"`
	PartyCode     string       `json:"sigla_partido" validate:"required"`
	StateCode     string       `json:"sigla_uf" validate:"uf"`
	PartyID       int          `json:"id_partido" validate:"required"`
	LegislatureID int          `json:"id_legislativo" validate:"required"`
	PhotoURL      string       `json:"url_foto" validate:"required"`
	Sex           string       `json:"sexo" validate:"sexo"`
	Office        *OfficeInput `json:"gabinete" validate:"required"`
}

// Normalize trims the input and upper-cases the coded fields
func (in *LegislatorInput) Normalize() {
	in.CivilName = strings.TrimSpace(in.CivilName)
	in.ElectoralName = strings.TrimSpace(in.ElectoralName)
	in.PartyCode = strings.ToUpper(strings.TrimSpace(in.PartyCode))
	in.StateCode = strings.ToUpper(strings.TrimSpace(in.StateCode))
	in.Sex = strings.ToUpper(strings.TrimSpace(in.Sex))
	if in.Office != nil {
		in.Office.Email = strings.TrimSpace(in.Office.Email)
	}
}

func (in *LegislatorInput) toModel(id int) *model.Legislator {
	l := &model.Legislator{
		ID:            id,
		ExternalID:    in.ExternalID,
		CivilName:     in.CivilName,
		ElectoralName: in.ElectoralName,
		PartyCode:     in.PartyCode,
		StateCode:     in.StateCode,
		PartyID:       in.PartyID,
		LegislatureID: in.LegislatureID,
		PhotoURL:      in.PhotoURL,
		Sex:           in.Sex,
	}
	if in.Office != nil {
		l.Office = &model.Office{
			Name:     in.Office.Name,
			Building: in.Office.Building,
			Room:     in.Office.Room,
			Floor:    in.Office.Floor,
			Phone:    in.Office.Phone,
			Email:    in.Office.Email,
		}
	}
	return l
}

// LegislatorService implements the legislator CRUD operations
type LegislatorService struct {
	legislators *store.LegislatorStore
	parties     *store.PartyStore
	log         *logger.Logger
}

// NewLegislatorService creates a new LegislatorService
func NewLegislatorService(db *sql.DB, log *logger.Logger) *LegislatorService {
	return &LegislatorService{
		legislators: store.NewLegislatorStore(db),
		parties:     store.NewPartyStore(db),
		log:         log,
	}
}

// Get returns a legislator with its office
func (s *LegislatorService) Get(ctx context.Context, id int) (*model.Legislator, error) {
	l, err := s.legislators.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, "get legislator")
	}
	if l == nil {
		s.log.Warn("legislator not found", "id", id)
		return nil, apperr.NotFound("Deputado com ID %d não encontrado.", id)
	}
	return l, nil
}

// List returns one page of legislators matching the filter
func (s *LegislatorService) List(ctx context.Context, f model.LegislatorFilter, p pagination.Params) (pagination.Page[model.Legislator], error) {
	items, total, err := s.legislators.List(ctx, f, p.Limit(), p.Offset())
	if err != nil {
		return pagination.Page[model.Legislator]{}, apperr.Internal(err, "list legislators")
	}
	return pagination.NewPage(items, total, p), nil
}

// checkParty loads the referenced party and runs the consistency check
func (s *LegislatorService) checkParty(ctx context.Context, in *LegislatorInput) error {
	party, err := s.parties.GetByID(ctx, in.PartyID)
	if err != nil {
		return apperr.Internal(err, "get party")
	}
	if err := CheckPartyConsistency(party, in.PartyID, in.PartyCode); err != nil {
		s.log.Warn("party check failed", "id_partido", in.PartyID, "sigla_partido", in.PartyCode, "error", err)
		return err
	}
	return nil
}

// Create stores a new legislator and its office as one unit of work
func (s *LegislatorService) Create(ctx context.Context, in LegislatorInput) (*model.Legislator, error) {
	in.Normalize()
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	existing, err := s.legislators.GetByExternalID(ctx, in.ExternalID)
	if err != nil {
		return nil, apperr.Internal(err, "get legislator by external id")
	}
	if existing != nil {
		s.log.Warn("duplicate legislator", "id_dados_abertos", in.ExternalID)
		return nil, apperr.Conflict("Deputado com o id_dados_abertos '%d' já existe.", in.ExternalID)
	}

	if err := s.checkParty(ctx, &in); err != nil {
		return nil, err
	}

	l := in.toModel(0)
	if err := s.legislators.CreateWithOffice(ctx, l); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("Deputado com o id_dados_abertos '%d' já existe.", in.ExternalID)
		}
		return nil, apperr.Internal(err, "create legislator")
	}

	s.log.Info("legislator created", "id", l.ID, "id_dados_abertos", l.ExternalID)
	return l, nil
}

// Update overwrites a legislator and its office
func (s *LegislatorService) Update(ctx context.Context, id int, in LegislatorInput) (*model.Legislator, error) {
	in.Normalize()
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	current, err := s.legislators.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, "get legislator")
	}
	if current == nil {
		s.log.Warn("legislator not found", "id", id)
		return nil, apperr.NotFound("Deputado com o id '%d' não encontrado.", id)
	}

	if err := s.checkParty(ctx, &in); err != nil {
		return nil, err
	}

	l := in.toModel(id)
	ok, err := s.legislators.UpdateWithOffice(ctx, l)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("Deputado com o id_dados_abertos '%d' já existe.", in.ExternalID)
		}
		return nil, apperr.Internal(err, "update legislator")
	}
	if !ok {
		return nil, apperr.NotFound("Deputado com o id '%d' não encontrado.", id)
	}

	s.log.Info("legislator updated", "id", id)
	return l, nil
}

// Delete removes a legislator with its expenditures, votes and office
func (s *LegislatorService) Delete(ctx context.Context, id int) error {
	ok, err := s.legislators.DeleteCascade(ctx, id)
	if err != nil {
		return apperr.Internal(err, "delete legislator")
	}
	if !ok {
		s.log.Warn("legislator not found", "id", id)
		return apperr.NotFound("Deputado com o id '%d' não encontrado.", id)
	}

	s.log.Info("legislator deleted", "id", id)
	return nil
}
