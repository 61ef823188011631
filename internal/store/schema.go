package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// identity column placeholder, replaced per driver
const idColumn = "{{ID}}"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS partidos (
		id {{ID}},
		id_dados_abertos BIGINT NOT NULL UNIQUE,
		sigla VARCHAR(10) NOT NULL UNIQUE,
		nome_completo VARCHAR(255) NOT NULL,
		uri_logo VARCHAR(500),
		id_legislativo INTEGER,
		situacao VARCHAR(50),
		total_membros INTEGER,
		total_posse_legislatura INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS deputados (
		id {{ID}},
		id_dados_abertos BIGINT NOT NULL UNIQUE,
		nome_civil VARCHAR(255) NOT NULL,
		nome_eleitoral VARCHAR(255) NOT NULL,
		sigla_partido VARCHAR(10) NOT NULL,
		sigla_uf CHAR(2) NOT NULL,
		id_partido INTEGER NOT NULL REFERENCES partidos(id),
		id_legislativo INTEGER NOT NULL,
		url_foto VARCHAR(500) NOT NULL,
		sexo CHAR(1) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_deputados_partido ON deputados (id_partido)`,
	`CREATE TABLE IF NOT EXISTS gabinetes (
		id {{ID}},
		id_deputado INTEGER NOT NULL UNIQUE REFERENCES deputados(id),
		nome VARCHAR(100) NOT NULL,
		predio VARCHAR(100) NOT NULL,
		sala VARCHAR(50) NOT NULL,
		andar VARCHAR(50) NOT NULL,
		telefone VARCHAR(50) NOT NULL,
		email VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS despesas (
		id {{ID}},
		id_dados_abertos BIGINT UNIQUE,
		id_deputado INTEGER NOT NULL REFERENCES deputados(id),
		ano INTEGER NOT NULL CHECK (ano BETWEEN 1900 AND 2100),
		mes INTEGER NOT NULL CHECK (mes BETWEEN 1 AND 12),
		tipo_despesa VARCHAR(300) NOT NULL,
		valor_liquido DOUBLE PRECISION NOT NULL,
		tipo_documento VARCHAR(100),
		url_documento VARCHAR(500),
		nome_fornecedor VARCHAR(255)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_despesas_deputado_ano ON despesas (id_deputado, ano)`,
	`CREATE INDEX IF NOT EXISTS idx_despesas_ano ON despesas (ano)`,
	`CREATE TABLE IF NOT EXISTS proposicoes (
		id {{ID}},
		id_dados_abertos BIGINT NOT NULL UNIQUE,
		sigla_tipo VARCHAR(10) NOT NULL,
		ano INTEGER NOT NULL,
		ementa TEXT,
		data_apresentacao DATE,
		status VARCHAR(50),
		url_inteiro_teor VARCHAR(500)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_proposicoes_tipo_ano ON proposicoes (sigla_tipo, ano)`,
	`CREATE TABLE IF NOT EXISTS sessoes_votacao (
		id {{ID}},
		id_dados_abertos VARCHAR(50) NOT NULL UNIQUE,
		data_hora_registro TIMESTAMP NOT NULL,
		descricao VARCHAR(500) NOT NULL,
		data_hora_ultima_abertura TIMESTAMP,
		sigla_orgao VARCHAR(50),
		aprovacao VARCHAR(50),
		descricao_ultima_abertura VARCHAR(500),
		uri VARCHAR(500)
	)`,
	`CREATE TABLE IF NOT EXISTS votacoes_proposicao (
		id {{ID}},
		id_proposicao INTEGER NOT NULL REFERENCES proposicoes(id),
		id_votacao INTEGER NOT NULL REFERENCES sessoes_votacao(id),
		tipo_relacao VARCHAR(50),
		UNIQUE (id_proposicao, id_votacao)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_votacoes_proposicao_votacao ON votacoes_proposicao (id_votacao)`,
	`CREATE TABLE IF NOT EXISTS votos_individuais (
		id {{ID}},
		id_dados_abertos BIGINT UNIQUE,
		id_votacao INTEGER NOT NULL REFERENCES sessoes_votacao(id),
		id_deputado INTEGER NOT NULL REFERENCES deputados(id),
		id_proposicao INTEGER NOT NULL REFERENCES proposicoes(id),
		tipo_voto VARCHAR(20) NOT NULL,
		data_hora_registro TIMESTAMP,
		sigla_partido_deputado VARCHAR(50),
		uri_deputado VARCHAR(500)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_votos_deputado ON votos_individuais (id_deputado)`,
	`CREATE INDEX IF NOT EXISTS idx_votos_proposicao ON votos_individuais (id_proposicao)`,
}

// Migrate creates every table and index that does not exist yet
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var id string
	switch driver {
	case "postgres":
		id = "INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY"
	case "sqlite":
		id = "INTEGER PRIMARY KEY AUTOINCREMENT"
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}

	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, strings.ReplaceAll(stmt, idColumn, id)); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
