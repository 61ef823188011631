package model

// Party represents a political party
type Party struct {
	ID            int     `json:"id"`
	ExternalID    int64   `json:"id_dados_abertos"`
	Code          string  `json:"sigla"`
	FullName      string  `json:"nome_completo"`
	LogoURL       *string `json:"uri_logo"`
	LegislatureID *int    `json:"id_legislativo"`
	Status        *string `json:"situacao"`
	TotalMembers  *int    `json:"total_membros"`
	TotalSworn    *int    `json:"total_posse_legislatura"`
}
