package model

import "time"

// Bill is a legislative proposal subject to voting
type Bill struct {
	ID          int        `json:"id"`
	ExternalID  int64      `json:"id_dados_abertos"`
	TypeCode    string     `json:"sigla_tipo"`
	Year        int        `json:"ano"`
	Summary     *string    `json:"ementa"`
	PresentedAt *time.Time `json:"data_apresentacao"`
	Status      *string    `json:"status"`
	FullTextURL *string    `json:"url_inteiro_teor"`
}

// BillFilter narrows the bill listing. Zero fields are ignored.
type BillFilter struct {
	Year     int
	TypeCode string
}

// VotingSession is a recorded voting event covering one or more bills
type VotingSession struct {
	ID                     int        `json:"id"`
	ExternalID             string     `json:"id_dados_abertos"`
	RegisteredAt           time.Time  `json:"data_hora_registro"`
	Description            string     `json:"descricao"`
	LastOpenedAt           *time.Time `json:"data_hora_ultima_abertura"`
	CommitteeCode          *string    `json:"sigla_orgao"`
	Outcome                *string    `json:"aprovacao"`
	LastOpeningDescription *string    `json:"descricao_ultima_abertura"`
	URI                    *string    `json:"uri"`
}

// Relation types between a voting session and a bill
const (
	RelationPrincipal = "PRINCIPAL"
	RelationAffected  = "AFETADA"
)

// BillVotingLink associates a bill with a voting session
type BillVotingLink struct {
	ID              int     `json:"id"`
	BillID          int     `json:"id_proposicao"`
	VotingSessionID int     `json:"id_votacao"`
	RelationType    *string `json:"tipo_relacao"`
}

// Vote values as published by the open-data API
const (
	VoteYes         = "Sim"
	VoteNo          = "Não"
	VoteAbstain     = "Abstenção"
	VoteObstruction = "Obstrução"
	VoteAbsent      = "Ausente"
)

// Vote is one legislator's recorded vote in one voting session
type Vote struct {
	ID              int        `json:"id"`
	ExternalID      *int64     `json:"id_dados_abertos,omitempty"`
	VotingSessionID int        `json:"id_votacao"`
	LegislatorID    int        `json:"id_deputado"`
	BillID          int        `json:"id_proposicao"`
	Value           string     `json:"tipo_voto"`
	RegisteredAt    *time.Time `json:"data_hora_registro"`
	PartyCode       *string    `json:"sigla_partido_deputado"`
	LegislatorURI   *string    `json:"uri_deputado"`
}
