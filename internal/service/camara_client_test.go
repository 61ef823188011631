package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjenkins/parlamentar/internal/config"
)

func newTestClient(t *testing.T, h http.Handler) *CamaraClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := NewCamaraClient(config.CamaraConfig{
		BaseURL:     srv.URL + "/",
		Timeout:     5 * time.Second,
		Legislature: 57,
	})
	c.backoff = time.Millisecond
	return c
}

func TestFetchPartiesFollowsNextLinks(t *testing.T) {
	var srvURL string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/partidos", r.URL.Path)
		assert.Equal(t, "57", r.URL.Query().Get("idLegislatura"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("pagina") == "2" {
			fmt.Fprint(w, `{"dados":[{"id":37906,"sigla":"pl","nome":"Partido Liberal"}],"links":[{"rel":"self","href":"x"}]}`)
			return
		}
		assert.Equal(t, "100", r.URL.Query().Get("itens"))
		fmt.Fprintf(w, `{"dados":[{"id":36844,"sigla":"PT","nome":"Partido dos Trabalhadores"}],
			"links":[{"rel":"next","href":"%s/partidos?idLegislatura=57&itens=100&pagina=2"}]}`, srvURL)
	})
	srv := httptest.NewServer(h)
	defer srv.Close()
	srvURL = srv.URL

	c := NewCamaraClient(config.CamaraConfig{BaseURL: srv.URL, Timeout: 5 * time.Second, Legislature: 57})
	parties, err := c.FetchParties(context.Background())
	require.NoError(t, err)

	require.Len(t, parties, 2)
	assert.Equal(t, int64(36844), parties[0].ExternalID)
	assert.Equal(t, "PL", parties[1].Code)
	require.NotNil(t, parties[1].LegislatureID)
	assert.Equal(t, 57, *parties[1].LegislatureID)
}

func TestFetchWithRetryRecoversFromServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"dados":[{"id":1,"siglaTipo":"pl","ano":2024,"ementa":" Dispõe sobre "}],"links":[]}`)
	}))

	bills, err := c.FetchBills(context.Background(), "pl", 2024)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	require.Len(t, bills, 1)
	assert.Equal(t, "PL", bills[0].TypeCode)
	require.NotNil(t, bills[0].Summary)
	assert.Equal(t, "Dispõe sobre", *bills[0].Summary)
}

func TestFetchWithRetryGivesUp(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := c.FetchParties(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Equal(t, int32(maxRetries), calls.Load())
}

func TestFetchWithRetryFailsFastOnClientErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.FetchLegislatorDetail(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchLegislatorDetailAsksForXML(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/deputados/220593", r.URL.Path)
		assert.Equal(t, "application/xml", r.Header.Get("Accept"))
		w.Write(deputyXML("Civil", "Eleitoral", "Nome", "M", "201"))
	}))

	body, err := c.FetchLegislatorDetail(context.Background(), 220593)
	require.NoError(t, err)

	detail, err := NewParser().ParseLegislatorDetail(body)
	require.NoError(t, err)
	assert.Equal(t, "Eleitoral", detail.ElectoralName)
}

func TestFetchExpendituresMapsDocumentCode(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/deputados/204554/despesas", r.URL.Path)
		assert.Equal(t, "2024", r.URL.Query().Get("ano"))
		fmt.Fprint(w, `{"dados":[
			{"ano":2024,"mes":3,"tipoDespesa":"TELEFONIA","codDocumento":7788,"tipoDocumento":"Nota Fiscal","urlDocumento":"","nomeFornecedor":"CLARO","valorLiquido":89.9},
			{"ano":2024,"mes":4,"tipoDespesa":"PASSAGEM AÉREA","codDocumento":0,"valorLiquido":1200}
		],"links":[]}`)
	}))

	expenditures, err := c.FetchExpenditures(context.Background(), 204554, 2024)
	require.NoError(t, err)
	require.Len(t, expenditures, 2)

	require.NotNil(t, expenditures[0].ExternalID)
	assert.Equal(t, int64(7788), *expenditures[0].ExternalID)
	assert.Nil(t, expenditures[0].DocumentURL)
	require.NotNil(t, expenditures[0].SupplierName)
	assert.Equal(t, "CLARO", *expenditures[0].SupplierName)
	assert.Nil(t, expenditures[1].ExternalID)
}

func TestFetchBillSessionsAndVotes(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/proposicoes/2345/votacoes":
			fmt.Fprint(w, `{"dados":[
				{"id":"2345-10","uri":"u","dataHoraRegistro":"2024-05-14T18:30:12","siglaOrgao":"PLEN","descricao":"Aprovado o projeto","aprovacao":1},
				{"id":"2345-11","data":"2024-05-15","descricao":"Rejeitado","aprovacao":0},
				{"id":"2345-12","descricao":"sem data"}
			]}`)
		case "/votacoes/2345-10/votos":
			fmt.Fprint(w, `{"dados":[{"tipoVoto":"Sim","dataRegistroVoto":"2024-05-14T18:29:00","deputado_":{"id":204554,"siglaPartido":"PT","uri":"d"}}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	ctx := context.Background()

	sessions, err := c.FetchBillSessions(ctx, 2345)
	require.NoError(t, err)
	require.Len(t, sessions, 2, "sessions without a timestamp are skipped")
	assert.Equal(t, time.Date(2024, 5, 14, 18, 30, 12, 0, time.UTC), sessions[0].RegisteredAt)
	require.NotNil(t, sessions[0].Outcome)
	assert.Equal(t, "Aprovada", *sessions[0].Outcome)
	assert.Equal(t, "Rejeitada", *sessions[1].Outcome)

	votes, err := c.FetchSessionVotes(ctx, "2345-10")
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, 204554, votes[0].LegislatorID)
	assert.Equal(t, "Sim", votes[0].Value)
	require.NotNil(t, votes[0].RegisteredAt)
}
