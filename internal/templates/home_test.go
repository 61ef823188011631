package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjenkins/parlamentar/internal/service"
)

func TestBRL(t *testing.T) {
	tests := map[float64]string{
		0:          "R$ 0,00",
		1000.5:     "R$ 1.000,50",
		1234567.89: "R$ 1.234.567,89",
		-12.3:      "-R$ 12,30",
	}
	for in, want := range tests {
		assert.Equal(t, want, brl(in), "%v", in)
	}
}

func TestHomeRendersRankings(t *testing.T) {
	summary := "Institui <regras>"
	var sb strings.Builder
	err := Home(HomeData{
		HasData: true,
		Metrics: service.SystemMetrics{Year: 2024, TotalLegislators: 513, TopParty: "PL", TopPartySpent: 1500},
		Parties: []service.PartyExpense{{Code: "PL", FullName: "Partido Liberal", Total: 1500}},
		Bills:   []service.MostVotedBill{{TypeCode: "PEC", Year: 2024, Summary: &summary, SessionCount: 4}},
	}).Render(context.Background(), &sb)
	require.NoError(t, err)

	html := sb.String()
	assert.Contains(t, html, "Visão geral (2024)")
	assert.Contains(t, html, "Partido Liberal")
	assert.Contains(t, html, "R$ 1.500,00")
	assert.Contains(t, html, "Institui &lt;regras&gt;")
	assert.NotContains(t, html, "<regras>")
}

func TestHomeWithoutData(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, Home(HomeData{}).Render(context.Background(), &sb))
	assert.Contains(t, sb.String(), "Nenhum dado importado")
}

func TestHomeComponents(t *testing.T) {
	var sb strings.Builder
	err := Home(HomeData{
		HasData: true,
		Metrics: service.SystemMetrics{Year: 2023, TotalLegislators: 2, TotalVotes: 7},
		Bills:   []service.MostVotedBill{{TypeCode: "PL", Year: 2023, SessionCount: 3}},
	}).Render(context.Background(), &sb)
	require.NoError(t, err)

	html := sb.String()
	assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
	assert.Contains(t, html, `<div class="card"><div>Votos</div><strong>7</strong></div>`)
	assert.Contains(t, html, `<tr><td>PL 2023</td><td></td><td class="num">3</td></tr>`)
	assert.NotContains(t, html, "Partido que mais gastou", "no top party without expenditures")
	assert.NotContains(t, html, "Nenhum dado importado")
}

func TestHomeStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sb strings.Builder
	err := Home(HomeData{HasData: true}).Render(ctx, &sb)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sb.String())
}
