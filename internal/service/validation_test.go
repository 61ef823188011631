package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jjenkins/parlamentar/internal/apperr"
	"github.com/jjenkins/parlamentar/internal/model"
)

func TestCheckPartyConsistency(t *testing.T) {
	pt := &model.Party{ID: 3, Code: "PT"}

	assert.NoError(t, CheckPartyConsistency(pt, 3, "PT"))
	assert.NoError(t, CheckPartyConsistency(pt, 3, " pt "))

	err := CheckPartyConsistency(pt, 3, "PL")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, "Sigla do partido com id '3' inconsistente com a sigla fornecida.", apperr.PublicMessage(err))

	err = CheckPartyConsistency(nil, 42, "PT")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, "Partido com o id '42' inexistente.", apperr.PublicMessage(err))
}

func TestValidateStateCode(t *testing.T) {
	for _, ok := range []string{"", "SP", "RJ", "DF"} {
		assert.NoError(t, ValidateStateCode(ok), ok)
	}
	for _, bad := range []string{"sp", "S", "SPX", "S1", " SP"} {
		assert.True(t, apperr.Is(ValidateStateCode(bad), apperr.KindValidation), bad)
	}
}

func TestCheckYear(t *testing.T) {
	assert.NoError(t, checkYear(1900))
	assert.NoError(t, checkYear(2100))
	assert.Error(t, checkYear(1899))
	assert.Error(t, checkYear(2101))
}

func TestLegislatorInputNormalize(t *testing.T) {
	in := newLegislatorInput(1, " pt ")
	in.Normalize()

	assert.Equal(t, "PT", in.PartyCode)
	assert.Equal(t, "SP", in.StateCode)
	assert.Equal(t, "F", in.Sex)
	assert.NoError(t, validateStruct(in))
}
