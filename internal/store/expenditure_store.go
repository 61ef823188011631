package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jjenkins/parlamentar/internal/model"
)

const expenditureColumns = `id, id_dados_abertos, id_deputado, ano, mes, tipo_despesa, valor_liquido,
		       tipo_documento, url_documento, nome_fornecedor`

// ExpenditureStore handles database operations for expenditures
type ExpenditureStore struct {
	db *sql.DB
}

// NewExpenditureStore creates a new ExpenditureStore
func NewExpenditureStore(db *sql.DB) *ExpenditureStore {
	return &ExpenditureStore{db: db}
}

func scanExpenditure(row interface{ Scan(...any) error }, e *model.Expenditure) error {
	return row.Scan(
		&e.ID,
		&e.ExternalID,
		&e.LegislatorID,
		&e.Year,
		&e.Month,
		&e.ExpenseType,
		&e.NetValue,
		&e.DocumentType,
		&e.DocumentURL,
		&e.SupplierName,
	)
}

// GetByID retrieves an expenditure by id
func (s *ExpenditureStore) GetByID(ctx context.Context, id int) (*model.Expenditure, error) {
	query := `SELECT ` + expenditureColumns + ` FROM despesas WHERE id = $1`

	var e model.Expenditure
	err := scanExpenditure(s.db.QueryRowContext(ctx, query, id), &e)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expenditure %d: %w", id, err)
	}
	return &e, nil
}

// List returns one page of expenditures matching the filter plus the total
// number of matches
func (s *ExpenditureStore) List(ctx context.Context, f model.ExpenditureFilter, limit, offset int) ([]model.Expenditure, int, error) {
	w := &whereClause{}
	if f.LegislatorID != 0 {
		w.add("id_deputado = ?", f.LegislatorID)
	}
	if f.Year != 0 {
		w.add("ano = ?", f.Year)
	}
	if f.Month != 0 {
		w.add("mes = ?", f.Month)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM despesas`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenditures: %w", err)
	}

	query := `SELECT ` + expenditureColumns + ` FROM despesas` + w.String() +
		fmt.Sprintf(" ORDER BY id LIMIT %s OFFSET %s", w.bind(limit), w.bind(offset))

	rows, err := s.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenditures: %w", err)
	}
	defer rows.Close()

	var expenditures []model.Expenditure
	for rows.Next() {
		var e model.Expenditure
		if err := scanExpenditure(rows, &e); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expenditure: %w", err)
		}
		expenditures = append(expenditures, e)
	}

	return expenditures, total, rows.Err()
}

// Create inserts an expenditure
func (s *ExpenditureStore) Create(ctx context.Context, e *model.Expenditure) error {
	query := `
		INSERT INTO despesas (id_dados_abertos, id_deputado, ano, mes, tipo_despesa, valor_liquido,
		                      tipo_documento, url_documento, nome_fornecedor)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		e.ExternalID,
		e.LegislatorID,
		e.Year,
		e.Month,
		e.ExpenseType,
		e.NetValue,
		e.DocumentType,
		e.DocumentURL,
		e.SupplierName,
	).Scan(&e.ID)
	if err != nil {
		return wrapWriteErr(err, "failed to insert expenditure for legislator %d", e.LegislatorID)
	}
	return nil
}

// InsertIfNew inserts an imported expenditure unless its external id is
// already stored. Returns whether a row was written.
func (s *ExpenditureStore) InsertIfNew(ctx context.Context, e *model.Expenditure) (bool, error) {
	query := `
		INSERT INTO despesas (id_dados_abertos, id_deputado, ano, mes, tipo_despesa, valor_liquido,
		                      tipo_documento, url_documento, nome_fornecedor)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id_dados_abertos) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query,
		e.ExternalID,
		e.LegislatorID,
		e.Year,
		e.Month,
		e.ExpenseType,
		e.NetValue,
		e.DocumentType,
		e.DocumentURL,
		e.SupplierName,
	)
	if err != nil {
		return false, fmt.Errorf("failed to import expenditure for legislator %d: %w", e.LegislatorID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// Update overwrites every mutable field of an expenditure
func (s *ExpenditureStore) Update(ctx context.Context, e *model.Expenditure) error {
	query := `
		UPDATE despesas
		SET ano = $2, mes = $3, tipo_despesa = $4, valor_liquido = $5,
		    tipo_documento = $6, url_documento = $7, nome_fornecedor = $8
		WHERE id = $1
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ID,
		e.Year,
		e.Month,
		e.ExpenseType,
		e.NetValue,
		e.DocumentType,
		e.DocumentURL,
		e.SupplierName,
	)
	if err != nil {
		return fmt.Errorf("failed to update expenditure %d: %w", e.ID, err)
	}
	return nil
}

// Delete removes an expenditure. Returns false when it does not exist.
func (s *ExpenditureStore) Delete(ctx context.Context, id int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM despesas WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete expenditure %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// CountExpenditures returns the total number of expenditures
func (s *ExpenditureStore) CountExpenditures(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM despesas").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count expenditures: %w", err)
	}
	return count, nil
}
