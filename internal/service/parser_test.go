package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deputyXML(civil, electoral, name, sex, room string) []byte {
	return []byte(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<xml>
  <dados>
    <id>220593</id>
    <nomeCivil>%s</nomeCivil>
    <ultimoStatus>
      <id>220593</id>
      <nome>%s</nome>
      <siglaPartido>PL</siglaPartido>
      <siglaUf>MT</siglaUf>
      <idLegislatura>57</idLegislatura>
      <nomeEleitoral>%s</nomeEleitoral>
      <gabinete>
        <nome>%s</nome>
        <predio>4</predio>
        <sala>%s</sala>
        <andar>2</andar>
        <telefone>3215-5201</telefone>
        <email>dep.abiliobrunini@camara.leg.br</email>
      </gabinete>
      <situacao>Exercício</situacao>
    </ultimoStatus>
    <sexo>%s</sexo>
    <ufNascimento>MT</ufNascimento>
  </dados>
  <links>
    <link>
      <rel>self</rel>
      <href>https://dadosabertos.camara.leg.br/api/v2/deputados/220593</href>
    </link>
  </links>
</xml>`, civil, name, electoral, room, room, sex))
}

func TestParseLegislatorDetail(t *testing.T) {
	p := NewParser()

	detail, err := p.ParseLegislatorDetail(deputyXML("ABILIO JACQUES BRUNINI MOUMER", " Abilio Brunini ", "ABILIO BRUNINI", "m", "201"))
	require.NoError(t, err)

	assert.Equal(t, "ABILIO JACQUES BRUNINI MOUMER", detail.CivilName)
	assert.Equal(t, "Abilio Brunini", detail.ElectoralName)
	assert.Equal(t, "M", detail.Sex)
	assert.Equal(t, "201", detail.Office.Room)
	assert.Equal(t, "4", detail.Office.Building)
	assert.Equal(t, "dep.abiliobrunini@camara.leg.br", detail.Office.Email)
}

func TestParseLegislatorDetailNameFallbacks(t *testing.T) {
	p := NewParser()

	detail, err := p.ParseLegislatorDetail(deputyXML("", "", "Abilio Brunini", "F", "201"))
	require.NoError(t, err)
	assert.Equal(t, "Abilio Brunini", detail.ElectoralName, "falls back to nome")
	assert.Equal(t, "Abilio Brunini", detail.CivilName, "civil name defaults to the electoral name")
}

func TestParseLegislatorDetailRejects(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name    string
		content []byte
	}{
		{"no names", deputyXML("", "", "", "M", "201")},
		{"invalid sex", deputyXML("Fulano", "Fulano", "Fulano", "X", "201")},
		{"empty sex", deputyXML("Fulano", "Fulano", "Fulano", "", "201")},
		{"malformed", []byte("<xml><dados>")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.ParseLegislatorDetail(tt.content)
			assert.Error(t, err)
		})
	}
}
