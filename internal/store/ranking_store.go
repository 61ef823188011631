package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Row types returned by the aggregation queries. Aggregates that can be
// NULL (no matching rows) are kept nullable; coalescing and rounding happen
// when the rows are assembled into responses.

// PartyExpenseRow is one party's expenditure total for a year
type PartyExpenseRow struct {
	PartyID    int
	ExternalID int64
	Code       string
	FullName   string
	Total      sql.NullFloat64
}

// LegislatorExpenseRow is one legislator's expenditure total for a year
type LegislatorExpenseRow struct {
	LegislatorID  int
	ElectoralName string
	PartyCode     string
	StateCode     string
	Total         sql.NullFloat64
}

// StateExpenseRow aggregates the expenditures of one state for a year
type StateExpenseRow struct {
	StateCode       string
	Total           sql.NullFloat64
	Average         sql.NullFloat64
	Count           int
	LegislatorCount int
}

// ActivityRow counts the voting activity of one legislator
type ActivityRow struct {
	LegislatorID  int
	ElectoralName string
	PartyCode     string
	StateCode     string
	SessionCount  int
	BillCount     int
}

// YesVoteRow counts one legislator's Yes votes
type YesVoteRow struct {
	LegislatorID  int
	ElectoralName string
	PartyCode     string
	StateCode     string
	YesVotes      int
}

// MostVotedBillRow counts the voting sessions linked to one bill
type MostVotedBillRow struct {
	BillID       int
	ExternalID   int64
	TypeCode     string
	Year         int
	Summary      sql.NullString
	SessionCount int
}

// ActivitySummaryRow is the raw activity summary of one legislator
type ActivitySummaryRow struct {
	TotalExpenses sql.NullFloat64
	SessionCount  int
}

// TopListLimit bounds the non-paginated top lists
const TopListLimit = 10

// expensesByLegislator sums each legislator's expenditures for the year
// bound to $1
const expensesByLegislator = `
			SELECT id_deputado, SUM(valor_liquido) AS total_despesas
			FROM despesas
			WHERE ano = $1
			GROUP BY id_deputado
`

// RankingStore runs the fixed catalog of aggregation queries. Every query
// groups inside the database; only aggregated rows are read back.
type RankingStore struct {
	db *sql.DB
}

// NewRankingStore creates a new RankingStore
func NewRankingStore(db *sql.DB) *RankingStore {
	return &RankingStore{db: db}
}

// PartyExpenses ranks parties by the sum of their legislators' totals for
// the year. Ties fall back to party id.
func (s *RankingStore) PartyExpenses(ctx context.Context, year int) ([]PartyExpenseRow, error) {
	query := `
		SELECT p.id, p.id_dados_abertos, p.sigla, p.nome_completo,
		       SUM(dd.total_despesas) AS total_geral_partido
		FROM partidos p
		INNER JOIN deputados d ON d.id_partido = p.id
		INNER JOIN (` + expensesByLegislator + `) dd ON dd.id_deputado = d.id
		GROUP BY p.id, p.id_dados_abertos, p.sigla, p.nome_completo
		ORDER BY total_geral_partido DESC, p.id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to rank parties by expenses: %w", err)
	}
	defer rows.Close()

	var result []PartyExpenseRow
	for rows.Next() {
		var r PartyExpenseRow
		if err := rows.Scan(&r.PartyID, &r.ExternalID, &r.Code, &r.FullName, &r.Total); err != nil {
			return nil, fmt.Errorf("failed to scan party expense row: %w", err)
		}
		result = append(result, r)
	}

	return result, rows.Err()
}

// LegislatorExpenses ranks every legislator by total expenditure for the
// year, including those without expenditures, and returns the page plus the
// total number of ranked legislators. Ties fall back to legislator id.
func (s *RankingStore) LegislatorExpenses(ctx context.Context, year, limit, offset int) ([]LegislatorExpenseRow, int, error) {
	from := `
		FROM deputados d
		LEFT JOIN (` + expensesByLegislator + `) dd ON dd.id_deputado = d.id
	`

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) `+from, year).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count legislator expense ranking: %w", err)
	}

	query := `
		SELECT d.id, d.nome_eleitoral, d.sigla_partido, d.sigla_uf,
		       COALESCE(dd.total_despesas, 0) AS total_despesas
	` + from + `
		ORDER BY total_despesas DESC, d.id ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, year, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to rank legislators by expenses: %w", err)
	}
	defer rows.Close()

	var result []LegislatorExpenseRow
	for rows.Next() {
		var r LegislatorExpenseRow
		if err := rows.Scan(&r.LegislatorID, &r.ElectoralName, &r.PartyCode, &r.StateCode, &r.Total); err != nil {
			return nil, 0, fmt.Errorf("failed to scan legislator expense row: %w", err)
		}
		result = append(result, r)
	}

	return result, total, rows.Err()
}

// StateExpenses compares expenditures per state for the year, optionally
// restricted to one state code
func (s *RankingStore) StateExpenses(ctx context.Context, year int, stateCode string) ([]StateExpenseRow, error) {
	w := &whereClause{}
	w.add("e.ano = ?", year)
	if stateCode != "" {
		w.add("d.sigla_uf = ?", stateCode)
	}

	query := `
		SELECT d.sigla_uf,
		       SUM(e.valor_liquido) AS total_gasto,
		       AVG(e.valor_liquido) AS media_gasto,
		       COUNT(e.id) AS quantidade,
		       COUNT(DISTINCT d.id) AS quantidade_deputados
		FROM despesas e
		INNER JOIN deputados d ON d.id = e.id_deputado
	` + w.String() + `
		GROUP BY d.sigla_uf
		ORDER BY total_gasto DESC, d.sigla_uf ASC
	`

	rows, err := s.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to compare state expenses: %w", err)
	}
	defer rows.Close()

	var result []StateExpenseRow
	for rows.Next() {
		var r StateExpenseRow
		if err := rows.Scan(&r.StateCode, &r.Total, &r.Average, &r.Count, &r.LegislatorCount); err != nil {
			return nil, fmt.Errorf("failed to scan state expense row: %w", err)
		}
		result = append(result, r)
	}

	return result, rows.Err()
}

// ActivitySummary returns one legislator's expenditure total for the year
// and the number of distinct voting sessions they voted in
func (s *RankingStore) ActivitySummary(ctx context.Context, legislatorID, year int) (*ActivitySummaryRow, error) {
	var r ActivitySummaryRow

	err := s.db.QueryRowContext(ctx,
		`SELECT SUM(valor_liquido) FROM despesas WHERE id_deputado = $1 AND ano = $2`,
		legislatorID, year,
	).Scan(&r.TotalExpenses)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses of legislator %d: %w", legislatorID, err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT id_votacao) FROM votos_individuais WHERE id_deputado = $1`,
		legislatorID,
	).Scan(&r.SessionCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count voting sessions of legislator %d: %w", legislatorID, err)
	}

	return &r, nil
}

// MostActive ranks legislators by distinct voting sessions voted in, with
// the distinct bills reached through those sessions. Legislators without
// votes are not ranked. Ties fall back to legislator id.
func (s *RankingStore) MostActive(ctx context.Context, limit, offset int) ([]ActivityRow, int, error) {
	from := `
		FROM deputados d
		INNER JOIN votos_individuais v ON v.id_deputado = d.id
		INNER JOIN votacoes_proposicao vp ON vp.id_votacao = v.id_votacao
	`

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT d.id) `+from).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count active legislators: %w", err)
	}

	query := `
		SELECT d.id, d.nome_eleitoral, d.sigla_partido, d.sigla_uf,
		       COUNT(DISTINCT v.id_votacao) AS total_votacoes,
		       COUNT(DISTINCT vp.id_proposicao) AS total_proposicoes
	` + from + `
		GROUP BY d.id, d.nome_eleitoral, d.sigla_partido, d.sigla_uf
		ORDER BY total_votacoes DESC, d.id ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to rank active legislators: %w", err)
	}
	defer rows.Close()

	var result []ActivityRow
	for rows.Next() {
		var r ActivityRow
		if err := rows.Scan(&r.LegislatorID, &r.ElectoralName, &r.PartyCode, &r.StateCode, &r.SessionCount, &r.BillCount); err != nil {
			return nil, 0, fmt.Errorf("failed to scan activity row: %w", err)
		}
		result = append(result, r)
	}

	return result, total, rows.Err()
}

// YesVotesByBillType ranks the top legislators by Yes votes cast on bills
// of the given type code
func (s *RankingStore) YesVotesByBillType(ctx context.Context, typeCode string) ([]YesVoteRow, error) {
	query := `
		SELECT d.id, d.nome_eleitoral, d.sigla_partido, d.sigla_uf,
		       COUNT(v.id) AS total_votos_sim
		FROM deputados d
		INNER JOIN votos_individuais v ON v.id_deputado = d.id
		INNER JOIN proposicoes p ON p.id = v.id_proposicao
		WHERE p.sigla_tipo = $1 AND UPPER(v.tipo_voto) = 'SIM'
		GROUP BY d.id, d.nome_eleitoral, d.sigla_partido, d.sigla_uf
		ORDER BY total_votos_sim DESC, d.id ASC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, typeCode, TopListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank yes votes for %s: %w", typeCode, err)
	}
	defer rows.Close()

	var result []YesVoteRow
	for rows.Next() {
		var r YesVoteRow
		if err := rows.Scan(&r.LegislatorID, &r.ElectoralName, &r.PartyCode, &r.StateCode, &r.YesVotes); err != nil {
			return nil, fmt.Errorf("failed to scan yes vote row: %w", err)
		}
		result = append(result, r)
	}

	return result, rows.Err()
}

// MostVotedBills ranks the top bills by number of linked voting sessions
func (s *RankingStore) MostVotedBills(ctx context.Context) ([]MostVotedBillRow, error) {
	query := `
		SELECT p.id, p.id_dados_abertos, p.sigla_tipo, p.ano, p.ementa,
		       COUNT(vp.id_votacao) AS total_votacoes
		FROM proposicoes p
		INNER JOIN votacoes_proposicao vp ON vp.id_proposicao = p.id
		GROUP BY p.id, p.id_dados_abertos, p.sigla_tipo, p.ano, p.ementa
		ORDER BY total_votacoes DESC, p.id ASC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, TopListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank most voted bills: %w", err)
	}
	defer rows.Close()

	var result []MostVotedBillRow
	for rows.Next() {
		var r MostVotedBillRow
		if err := rows.Scan(&r.BillID, &r.ExternalID, &r.TypeCode, &r.Year, &r.Summary, &r.SessionCount); err != nil {
			return nil, fmt.Errorf("failed to scan most voted bill row: %w", err)
		}
		result = append(result, r)
	}

	return result, rows.Err()
}

// TotalExpenses sums every expenditure of the year
func (s *RankingStore) TotalExpenses(ctx context.Context, year int) (float64, error) {
	var total sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `SELECT SUM(valor_liquido) FROM despesas WHERE ano = $1`, year).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum expenses for %d: %w", year, err)
	}
	return total.Float64, nil
}
