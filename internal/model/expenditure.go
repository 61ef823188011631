package model

// Expenditure is a reimbursed cost attributed to a legislator
type Expenditure struct {
	ID           int     `json:"id"`
	ExternalID   *int64  `json:"id_dados_abertos,omitempty"`
	LegislatorID int     `json:"id_deputado"`
	Year         int     `json:"ano"`
	Month        int     `json:"mes"`
	ExpenseType  string  `json:"tipo_despesa"`
	NetValue     float64 `json:"valor_liquido"`
	DocumentType *string `json:"tipo_documento"`
	DocumentURL  *string `json:"url_documento"`
	SupplierName *string `json:"nome_fornecedor"`
}

// ExpenditureFilter narrows the expenditure listing. Zero fields are ignored.
type ExpenditureFilter struct {
	LegislatorID int
	Year         int
	Month        int
}
