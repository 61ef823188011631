package model

// Legislator represents a federal deputy
type Legislator struct {
	ID            int     `json:"id"`
	ExternalID    int64   `json:"id_dados_abertos"`
	CivilName     string  `json:"nome_civil"`
	ElectoralName string  `json:"nome_eleitoral"`
	PartyCode     string  `json:"sigla_partido"`
	StateCode     string  `json:"sigla_uf"`
	PartyID       int     `json:"id_partido"`
	LegislatureID int     `json:"id_legislativo"`
	PhotoURL      string  `json:"url_foto"`
	Sex           string  `json:"sexo"`
	Office        *Office `json:"gabinete"`
}

// Office is the physical workspace assigned to a legislator
type Office struct {
	ID           int    `json:"id"`
	LegislatorID int    `json:"-"`
	Name         string `json:"nome"`
	Building     string `json:"predio"`
	Room         string `json:"sala"`
	Floor        string `json:"andar"`
	Phone        string `json:"telefone"`
	Email        string `json:"email"`
}

// LegislatorFilter narrows the legislator listing. Empty fields are ignored.
type LegislatorFilter struct {
	StateCode string
	Sex       string
	PartyCode string
}

// LegislatorMeta is a deputy as listed by the open-data API
type LegislatorMeta struct {
	ExternalID      int64
	Name            string
	PartyCode       string
	// PartyExternalID is the open-data id of the party, 0 when the listing
	// did not carry the party uri
	PartyExternalID int64
	StateCode       string
	LegislatureID   int
	PhotoURL        string
	URI             string
}

// LegislatorDetail holds the fields only available in a deputy's detail document
type LegislatorDetail struct {
	CivilName     string
	ElectoralName string
	Sex           string
	Office        Office
}
