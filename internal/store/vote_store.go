package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jjenkins/parlamentar/internal/model"
)

// VoteStore handles database operations for voting sessions, their bill
// links and individual votes
type VoteStore struct {
	db *sql.DB
}

// NewVoteStore creates a new VoteStore
func NewVoteStore(db *sql.DB) *VoteStore {
	return &VoteStore{db: db}
}

// UpsertSession inserts or updates a voting session keyed by its external id
func (s *VoteStore) UpsertSession(ctx context.Context, vs *model.VotingSession) error {
	query := `
		INSERT INTO sessoes_votacao (id_dados_abertos, data_hora_registro, descricao,
		                             data_hora_ultima_abertura, sigla_orgao, aprovacao,
		                             descricao_ultima_abertura, uri)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id_dados_abertos) DO UPDATE SET
			data_hora_registro = EXCLUDED.data_hora_registro,
			descricao = EXCLUDED.descricao,
			data_hora_ultima_abertura = EXCLUDED.data_hora_ultima_abertura,
			sigla_orgao = EXCLUDED.sigla_orgao,
			aprovacao = EXCLUDED.aprovacao,
			descricao_ultima_abertura = EXCLUDED.descricao_ultima_abertura,
			uri = EXCLUDED.uri
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		vs.ExternalID,
		vs.RegisteredAt,
		vs.Description,
		vs.LastOpenedAt,
		vs.CommitteeCode,
		vs.Outcome,
		vs.LastOpeningDescription,
		vs.URI,
	).Scan(&vs.ID)
	if err != nil {
		return wrapWriteErr(err, "failed to upsert voting session %s", vs.ExternalID)
	}
	return nil
}

// LinkBill associates a bill with a voting session. Linking twice is a no-op.
func (s *VoteStore) LinkBill(ctx context.Context, link *model.BillVotingLink) error {
	query := `
		INSERT INTO votacoes_proposicao (id_proposicao, id_votacao, tipo_relacao)
		VALUES ($1, $2, $3)
		ON CONFLICT (id_proposicao, id_votacao) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query, link.BillID, link.VotingSessionID, link.RelationType)
	if err != nil {
		return fmt.Errorf("failed to link bill %d to voting session %d: %w", link.BillID, link.VotingSessionID, err)
	}
	return nil
}

// InsertVotes stores the votes cast in one session on one bill atomically.
// Votes already stored for that session and bill are replaced; votes the
// session holds for other bills are left alone.
func (s *VoteStore) InsertVotes(ctx context.Context, sessionID, billID int, votes []model.Vote) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `DELETE FROM votos_individuais WHERE id_votacao = $1 AND id_proposicao = $2`, sessionID, billID)
	if err != nil {
		return fmt.Errorf("failed to clear votes of session %d on bill %d: %w", sessionID, billID, err)
	}

	query := `
		INSERT INTO votos_individuais (id_dados_abertos, id_votacao, id_deputado, id_proposicao,
		                               tipo_voto, data_hora_registro, sigla_partido_deputado, uri_deputado)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	for i := range votes {
		v := &votes[i]
		v.VotingSessionID = sessionID
		v.BillID = billID
		err := tx.QueryRowContext(ctx, query,
			v.ExternalID,
			v.VotingSessionID,
			v.LegislatorID,
			v.BillID,
			v.Value,
			v.RegisteredAt,
			v.PartyCode,
			v.LegislatorURI,
		).Scan(&v.ID)
		if err != nil {
			return wrapWriteErr(err, "failed to insert vote of legislator %d in session %d", v.LegislatorID, sessionID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// CountSessions returns the total number of voting sessions
func (s *VoteStore) CountSessions(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessoes_votacao").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count voting sessions: %w", err)
	}
	return count, nil
}

// CountVotes returns the total number of individual votes
func (s *VoteStore) CountVotes(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM votos_individuais").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return count, nil
}
