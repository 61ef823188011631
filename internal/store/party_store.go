package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jjenkins/parlamentar/internal/model"
)

const partyColumns = `id, id_dados_abertos, sigla, nome_completo, uri_logo, id_legislativo,
		       situacao, total_membros, total_posse_legislatura`

// PartyStore handles database operations for political parties
type PartyStore struct {
	db *sql.DB
}

// NewPartyStore creates a new PartyStore
func NewPartyStore(db *sql.DB) *PartyStore {
	return &PartyStore{db: db}
}

func scanParty(row interface{ Scan(...any) error }, p *model.Party) error {
	return row.Scan(
		&p.ID,
		&p.ExternalID,
		&p.Code,
		&p.FullName,
		&p.LogoURL,
		&p.LegislatureID,
		&p.Status,
		&p.TotalMembers,
		&p.TotalSworn,
	)
}

// GetByID retrieves a party by its surrogate id
func (s *PartyStore) GetByID(ctx context.Context, id int) (*model.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM partidos WHERE id = $1`

	var p model.Party
	err := scanParty(s.db.QueryRowContext(ctx, query, id), &p)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get party %d: %w", id, err)
	}

	return &p, nil
}

// GetByCode retrieves a party by its code, case-insensitively
func (s *PartyStore) GetByCode(ctx context.Context, code string) (*model.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM partidos WHERE UPPER(sigla) = $1`

	var p model.Party
	err := scanParty(s.db.QueryRowContext(ctx, query, strings.ToUpper(code)), &p)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get party %s: %w", code, err)
	}

	return &p, nil
}

// GetAll retrieves all parties ordered by code
func (s *PartyStore) GetAll(ctx context.Context) ([]model.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM partidos ORDER BY sigla`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get parties: %w", err)
	}
	defer rows.Close()

	var parties []model.Party
	for rows.Next() {
		var p model.Party
		if err := scanParty(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan party: %w", err)
		}
		parties = append(parties, p)
	}

	return parties, rows.Err()
}

// UpsertParty inserts or updates a party keyed by its external id
func (s *PartyStore) UpsertParty(ctx context.Context, p *model.Party) error {
	query := `
		INSERT INTO partidos (id_dados_abertos, sigla, nome_completo, uri_logo, id_legislativo,
		                      situacao, total_membros, total_posse_legislatura)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id_dados_abertos) DO UPDATE SET
			sigla = EXCLUDED.sigla,
			nome_completo = EXCLUDED.nome_completo,
			uri_logo = EXCLUDED.uri_logo,
			id_legislativo = EXCLUDED.id_legislativo,
			situacao = EXCLUDED.situacao,
			total_membros = EXCLUDED.total_membros,
			total_posse_legislatura = EXCLUDED.total_posse_legislatura
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		p.ExternalID,
		strings.ToUpper(p.Code),
		p.FullName,
		p.LogoURL,
		p.LegislatureID,
		p.Status,
		p.TotalMembers,
		p.TotalSworn,
	).Scan(&p.ID)

	if err != nil {
		return wrapWriteErr(err, "failed to upsert party %s", p.Code)
	}

	return nil
}

// CountParties returns the total number of parties
func (s *PartyStore) CountParties(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM partidos").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count parties: %w", err)
	}
	return count, nil
}
