package service

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/jjenkins/parlamentar/internal/model"
)

// deputadoXML mirrors the parts of the deputy detail document we read.
// The root element name is not checked.
type deputadoXML struct {
	Dados struct {
		NomeCivil    string `xml:"nomeCivil"`
		Sexo         string `xml:"sexo"`
		UltimoStatus struct {
			Nome          string `xml:"nome"`
			NomeEleitoral string `xml:"nomeEleitoral"`
			Gabinete      struct {
				Nome     string `xml:"nome"`
				Predio   string `xml:"predio"`
				Sala     string `xml:"sala"`
				Andar    string `xml:"andar"`
				Telefone string `xml:"telefone"`
				Email    string `xml:"email"`
			} `xml:"gabinete"`
		} `xml:"ultimoStatus"`
	} `xml:"dados"`
}

// Parser extracts legislator details from the open-data XML documents
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// ParseLegislatorDetail reads civil name, electoral name, sex and office from
// a deputy detail document. Sex is normalized to one uppercase letter.
func (p *Parser) ParseLegislatorDetail(content []byte) (*model.LegislatorDetail, error) {
	var doc deputadoXML
	decoder := xml.NewDecoder(bytes.NewReader(content))
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse deputy detail: %w", err)
	}

	d := doc.Dados
	detail := &model.LegislatorDetail{
		CivilName:     strings.TrimSpace(d.NomeCivil),
		ElectoralName: strings.TrimSpace(d.UltimoStatus.NomeEleitoral),
		Sex:           strings.ToUpper(strings.TrimSpace(d.Sexo)),
		Office: model.Office{
			Name:     strings.TrimSpace(d.UltimoStatus.Gabinete.Nome),
			Building: strings.TrimSpace(d.UltimoStatus.Gabinete.Predio),
			Room:     strings.TrimSpace(d.UltimoStatus.Gabinete.Sala),
			Floor:    strings.TrimSpace(d.UltimoStatus.Gabinete.Andar),
			Phone:    strings.TrimSpace(d.UltimoStatus.Gabinete.Telefone),
			Email:    strings.TrimSpace(d.UltimoStatus.Gabinete.Email),
		},
	}
	if detail.ElectoralName == "" {
		detail.ElectoralName = strings.TrimSpace(d.UltimoStatus.Nome)
	}

	if detail.CivilName == "" && detail.ElectoralName == "" {
		return nil, fmt.Errorf("deputy detail has no names")
	}
	if detail.Sex != "M" && detail.Sex != "F" {
		return nil, fmt.Errorf("deputy detail has invalid sex %q", d.Sexo)
	}
	if detail.CivilName == "" {
		detail.CivilName = detail.ElectoralName
	}

	return detail, nil
}
