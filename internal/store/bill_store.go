package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jjenkins/parlamentar/internal/model"
)

const billColumns = `id, id_dados_abertos, sigla_tipo, ano, ementa, data_apresentacao, status, url_inteiro_teor`

// BillStore handles database operations for bills
type BillStore struct {
	db *sql.DB
}

// NewBillStore creates a new BillStore
func NewBillStore(db *sql.DB) *BillStore {
	return &BillStore{db: db}
}

func scanBill(row interface{ Scan(...any) error }, b *model.Bill) error {
	return row.Scan(
		&b.ID,
		&b.ExternalID,
		&b.TypeCode,
		&b.Year,
		&b.Summary,
		&b.PresentedAt,
		&b.Status,
		&b.FullTextURL,
	)
}

// GetByID retrieves a bill by id
func (s *BillStore) GetByID(ctx context.Context, id int) (*model.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM proposicoes WHERE id = $1`

	var b model.Bill
	err := scanBill(s.db.QueryRowContext(ctx, query, id), &b)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill %d: %w", id, err)
	}
	return &b, nil
}

// List returns one page of bills matching the filter plus the total number
// of matches
func (s *BillStore) List(ctx context.Context, f model.BillFilter, limit, offset int) ([]model.Bill, int, error) {
	w := &whereClause{}
	if f.Year != 0 {
		w.add("ano = ?", f.Year)
	}
	if f.TypeCode != "" {
		w.add("sigla_tipo = ?", strings.ToUpper(f.TypeCode))
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM proposicoes`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bills: %w", err)
	}

	query := `SELECT ` + billColumns + ` FROM proposicoes` + w.String() +
		fmt.Sprintf(" ORDER BY id LIMIT %s OFFSET %s", w.bind(limit), w.bind(offset))

	rows, err := s.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []model.Bill
	for rows.Next() {
		var b model.Bill
		if err := scanBill(rows, &b); err != nil {
			return nil, 0, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, b)
	}

	return bills, total, rows.Err()
}

// UpsertBill inserts or updates a bill keyed by its external id
func (s *BillStore) UpsertBill(ctx context.Context, b *model.Bill) error {
	query := `
		INSERT INTO proposicoes (id_dados_abertos, sigla_tipo, ano, ementa, data_apresentacao,
		                         status, url_inteiro_teor)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id_dados_abertos) DO UPDATE SET
			sigla_tipo = EXCLUDED.sigla_tipo,
			ano = EXCLUDED.ano,
			ementa = COALESCE(EXCLUDED.ementa, proposicoes.ementa),
			data_apresentacao = COALESCE(EXCLUDED.data_apresentacao, proposicoes.data_apresentacao),
			status = COALESCE(EXCLUDED.status, proposicoes.status),
			url_inteiro_teor = COALESCE(EXCLUDED.url_inteiro_teor, proposicoes.url_inteiro_teor)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		b.ExternalID,
		strings.ToUpper(b.TypeCode),
		b.Year,
		b.Summary,
		b.PresentedAt,
		b.Status,
		b.FullTextURL,
	).Scan(&b.ID)
	if err != nil {
		return wrapWriteErr(err, "failed to upsert bill %d", b.ExternalID)
	}
	return nil
}

// CountBills returns the total number of bills
func (s *BillStore) CountBills(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM proposicoes").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bills: %w", err)
	}
	return count, nil
}
