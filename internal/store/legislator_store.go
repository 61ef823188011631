package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jjenkins/parlamentar/internal/model"
)

const legislatorSelect = `
		SELECT d.id, d.id_dados_abertos, d.nome_civil, d.nome_eleitoral, d.sigla_partido,
		       d.sigla_uf, d.id_partido, d.id_legislativo, d.url_foto, d.sexo,
		       g.id, g.nome, g.predio, g.sala, g.andar, g.telefone, g.email
		FROM deputados d
		LEFT JOIN gabinetes g ON g.id_deputado = d.id
`

// LegislatorStore handles database operations for legislators and their offices
type LegislatorStore struct {
	db *sql.DB
}

// NewLegislatorStore creates a new LegislatorStore
func NewLegislatorStore(db *sql.DB) *LegislatorStore {
	return &LegislatorStore{db: db}
}

func scanLegislator(row interface{ Scan(...any) error }) (*model.Legislator, error) {
	var (
		l        model.Legislator
		officeID sql.NullInt64
		name     sql.NullString
		building sql.NullString
		room     sql.NullString
		floor    sql.NullString
		phone    sql.NullString
		email    sql.NullString
	)
	err := row.Scan(
		&l.ID,
		&l.ExternalID,
		&l.CivilName,
		&l.ElectoralName,
		&l.PartyCode,
		&l.StateCode,
		&l.PartyID,
		&l.LegislatureID,
		&l.PhotoURL,
		&l.Sex,
		&officeID,
		&name,
		&building,
		&room,
		&floor,
		&phone,
		&email,
	)
	if err != nil {
		return nil, err
	}
	if officeID.Valid {
		l.Office = &model.Office{
			ID:           int(officeID.Int64),
			LegislatorID: l.ID,
			Name:         name.String,
			Building:     building.String,
			Room:         room.String,
			Floor:        floor.String,
			Phone:        phone.String,
			Email:        email.String,
		}
	}
	return &l, nil
}

// GetByID retrieves a legislator with its office
func (s *LegislatorStore) GetByID(ctx context.Context, id int) (*model.Legislator, error) {
	l, err := scanLegislator(s.db.QueryRowContext(ctx, legislatorSelect+` WHERE d.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get legislator %d: %w", id, err)
	}
	return l, nil
}

// GetByExternalID retrieves a legislator by its open-data id
func (s *LegislatorStore) GetByExternalID(ctx context.Context, externalID int64) (*model.Legislator, error) {
	l, err := scanLegislator(s.db.QueryRowContext(ctx, legislatorSelect+` WHERE d.id_dados_abertos = $1`, externalID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get legislator by external id %d: %w", externalID, err)
	}
	return l, nil
}

func legislatorWhere(f model.LegislatorFilter) *whereClause {
	w := &whereClause{}
	if f.StateCode != "" {
		w.add("d.sigla_uf = ?", strings.ToUpper(f.StateCode))
	}
	if f.Sex != "" {
		w.add("d.sexo = ?", strings.ToUpper(f.Sex))
	}
	if f.PartyCode != "" {
		w.add("d.sigla_partido = ?", strings.ToUpper(f.PartyCode))
	}
	return w
}

// List returns one page of legislators matching the filter plus the total
// number of matches
func (s *LegislatorStore) List(ctx context.Context, f model.LegislatorFilter, limit, offset int) ([]model.Legislator, int, error) {
	w := legislatorWhere(f)

	var total int
	countQuery := `SELECT COUNT(*) FROM deputados d` + w.String()
	if err := s.db.QueryRowContext(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count legislators: %w", err)
	}

	query := legislatorSelect + w.String() +
		fmt.Sprintf(" ORDER BY d.id LIMIT %s OFFSET %s", w.bind(limit), w.bind(offset))

	rows, err := s.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list legislators: %w", err)
	}
	defer rows.Close()

	var legislators []model.Legislator
	for rows.Next() {
		l, err := scanLegislator(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan legislator: %w", err)
		}
		legislators = append(legislators, *l)
	}

	return legislators, total, rows.Err()
}

// CreateWithOffice inserts a legislator and its office as one unit of work
func (s *LegislatorStore) CreateWithOffice(ctx context.Context, l *model.Legislator) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO deputados (id_dados_abertos, nome_civil, nome_eleitoral, sigla_partido,
		                       sigla_uf, id_partido, id_legislativo, url_foto, sexo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query,
		l.ExternalID,
		l.CivilName,
		l.ElectoralName,
		l.PartyCode,
		l.StateCode,
		l.PartyID,
		l.LegislatureID,
		l.PhotoURL,
		l.Sex,
	).Scan(&l.ID)
	if err != nil {
		return wrapWriteErr(err, "failed to insert legislator %d", l.ExternalID)
	}

	if l.Office != nil {
		if err := saveOffice(ctx, tx, l.ID, l.Office); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateWithOffice overwrites a legislator and upserts its office as one
// unit of work. Returns false when the legislator does not exist.
func (s *LegislatorStore) UpdateWithOffice(ctx context.Context, l *model.Legislator) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE deputados
		SET id_dados_abertos = $2, nome_civil = $3, nome_eleitoral = $4, sigla_partido = $5,
		    sigla_uf = $6, id_partido = $7, id_legislativo = $8, url_foto = $9, sexo = $10
		WHERE id = $1
	`
	res, err := tx.ExecContext(ctx, query,
		l.ID,
		l.ExternalID,
		l.CivilName,
		l.ElectoralName,
		l.PartyCode,
		l.StateCode,
		l.PartyID,
		l.LegislatureID,
		l.PhotoURL,
		l.Sex,
	)
	if err != nil {
		return false, wrapWriteErr(err, "failed to update legislator %d", l.ID)
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	} else if n == 0 {
		return false, nil
	}

	if l.Office != nil {
		if err := saveOffice(ctx, tx, l.ID, l.Office); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, nil
}

// UpsertWithOffice inserts or refreshes a legislator keyed by its external id,
// together with its office
func (s *LegislatorStore) UpsertWithOffice(ctx context.Context, l *model.Legislator) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO deputados (id_dados_abertos, nome_civil, nome_eleitoral, sigla_partido,
		                       sigla_uf, id_partido, id_legislativo, url_foto, sexo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id_dados_abertos) DO UPDATE SET
			nome_civil = EXCLUDED.nome_civil,
			nome_eleitoral = EXCLUDED.nome_eleitoral,
			sigla_partido = EXCLUDED.sigla_partido,
			sigla_uf = EXCLUDED.sigla_uf,
			id_partido = EXCLUDED.id_partido,
			id_legislativo = EXCLUDED.id_legislativo,
			url_foto = EXCLUDED.url_foto,
			sexo = EXCLUDED.sexo
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query,
		l.ExternalID,
		l.CivilName,
		l.ElectoralName,
		l.PartyCode,
		l.StateCode,
		l.PartyID,
		l.LegislatureID,
		l.PhotoURL,
		l.Sex,
	).Scan(&l.ID)
	if err != nil {
		return wrapWriteErr(err, "failed to upsert legislator %d", l.ExternalID)
	}

	if l.Office != nil {
		if err := saveOffice(ctx, tx, l.ID, l.Office); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func saveOffice(ctx context.Context, tx *sql.Tx, legislatorID int, o *model.Office) error {
	query := `
		INSERT INTO gabinetes (id_deputado, nome, predio, sala, andar, telefone, email)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id_deputado) DO UPDATE SET
			nome = EXCLUDED.nome,
			predio = EXCLUDED.predio,
			sala = EXCLUDED.sala,
			andar = EXCLUDED.andar,
			telefone = EXCLUDED.telefone,
			email = EXCLUDED.email
		RETURNING id
	`
	err := tx.QueryRowContext(ctx, query,
		legislatorID,
		o.Name,
		o.Building,
		o.Room,
		o.Floor,
		o.Phone,
		o.Email,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("failed to save office for legislator %d: %w", legislatorID, err)
	}
	o.LegislatorID = legislatorID
	return nil
}

// DeleteCascade removes a legislator together with its expenditures, votes
// and office as one unit of work. Returns false when it does not exist.
func (s *LegislatorStore) DeleteCascade(ctx context.Context, id int) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM deputados WHERE id = $1`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check legislator %d: %w", id, err)
	}
	if exists == 0 {
		return false, nil
	}

	dependents := []struct {
		table string
		query string
	}{
		{"despesas", `DELETE FROM despesas WHERE id_deputado = $1`},
		{"votos_individuais", `DELETE FROM votos_individuais WHERE id_deputado = $1`},
		{"gabinetes", `DELETE FROM gabinetes WHERE id_deputado = $1`},
		{"deputados", `DELETE FROM deputados WHERE id = $1`},
	}
	for _, d := range dependents {
		if _, err := tx.ExecContext(ctx, d.query, id); err != nil {
			return false, fmt.Errorf("failed to delete %s for legislator %d: %w", d.table, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, nil
}

// ExternalIDMap returns open-data id -> surrogate id for every legislator
func (s *LegislatorStore) ExternalIDMap(ctx context.Context) (map[int64]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id_dados_abertos, id FROM deputados`)
	if err != nil {
		return nil, fmt.Errorf("failed to get legislator ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]int)
	for rows.Next() {
		var externalID int64
		var id int
		if err := rows.Scan(&externalID, &id); err != nil {
			return nil, fmt.Errorf("failed to scan legislator id: %w", err)
		}
		ids[externalID] = id
	}

	return ids, rows.Err()
}

// CountLegislators returns the total number of legislators
func (s *LegislatorStore) CountLegislators(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM deputados").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count legislators: %w", err)
	}
	return count, nil
}
