package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("Deputado com ID %d nao encontrado.", 7), http.StatusNotFound},
		{"conflict", Conflict("duplicado"), http.StatusConflict},
		{"validation", Validation("sexo invalido"), http.StatusBadRequest},
		{"internal", Internal(errors.New("boom"), "ranking"), http.StatusInternalServerError},
		{"untyped", errors.New("plain"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("outer: %w", NotFound("x")), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestPublicMessageHidesInternalDetail(t *testing.T) {
	err := Internal(errors.New(`pq: relation "despesas" does not exist`), "party expense ranking")

	msg := PublicMessage(err)

	assert.NotContains(t, msg, "despesas")
	assert.Equal(t, "Erro interno ao processar a solicitação.", msg)
	assert.Contains(t, err.Error(), "despesas")
}

func TestPublicMessageKeepsClientMessages(t *testing.T) {
	assert.Equal(t, "Deputado com ID 3 nao encontrado.", PublicMessage(NotFound("Deputado com ID %d nao encontrado.", 3)))
	assert.True(t, Is(Validation("x"), KindValidation))
	assert.False(t, Is(Validation("x"), KindConflict))
}
