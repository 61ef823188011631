package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jjenkins/parlamentar/internal/config"
	"github.com/jjenkins/parlamentar/internal/model"
)

const (
	maxRetries     = 3
	initialBackoff = 2 * time.Second
	pageSize       = 100
	// stop following "next" links after this many pages
	maxPages = 500
)

// CamaraClient handles communication with the Câmara dos Deputados open-data API
type CamaraClient struct {
	client      *http.Client
	baseURL     string
	limiter     *rate.Limiter
	backoff     time.Duration
	legislature int
}

// NewCamaraClient creates a new open-data API client
func NewCamaraClient(cfg config.CamaraConfig) *CamaraClient {
	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	return &CamaraClient{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		limiter:     rate.NewLimiter(limit, 1),
		backoff:     initialBackoff,
		legislature: cfg.Legislature,
	}
}

// envelope is the shape of every JSON listing of the API
type envelope[T any] struct {
	Dados []T `json:"dados"`
	Links []struct {
		Rel  string `json:"rel"`
		Href string `json:"href"`
	} `json:"links"`
}

type partidoJSON struct {
	ID    int64  `json:"id"`
	Sigla string `json:"sigla"`
	Nome  string `json:"nome"`
	URI   string `json:"uri"`
}

type deputadoJSON struct {
	ID            int64  `json:"id"`
	URI           string `json:"uri"`
	Nome          string `json:"nome"`
	SiglaPartido  string `json:"siglaPartido"`
	URIPartido    string `json:"uriPartido"`
	SiglaUf       string `json:"siglaUf"`
	IDLegislatura int    `json:"idLegislatura"`
	URLFoto       string `json:"urlFoto"`
}

type despesaJSON struct {
	Ano            int     `json:"ano"`
	Mes            int     `json:"mes"`
	TipoDespesa    string  `json:"tipoDespesa"`
	CodDocumento   int64   `json:"codDocumento"`
	TipoDocumento  string  `json:"tipoDocumento"`
	URLDocumento   string  `json:"urlDocumento"`
	NomeFornecedor string  `json:"nomeFornecedor"`
	ValorLiquido   float64 `json:"valorLiquido"`
}

type proposicaoJSON struct {
	ID        int64  `json:"id"`
	SiglaTipo string `json:"siglaTipo"`
	Ano       int    `json:"ano"`
	Ementa    string `json:"ementa"`
}

type votacaoJSON struct {
	ID               string `json:"id"`
	URI              string `json:"uri"`
	Data             string `json:"data"`
	DataHoraRegistro string `json:"dataHoraRegistro"`
	SiglaOrgao       string `json:"siglaOrgao"`
	Descricao        string `json:"descricao"`
	Aprovacao        *int   `json:"aprovacao"`
}

type votoJSON struct {
	TipoVoto         string `json:"tipoVoto"`
	DataRegistroVoto string `json:"dataRegistroVoto"`
	Deputado         struct {
		ID           int64  `json:"id"`
		URI          string `json:"uri"`
		SiglaPartido string `json:"siglaPartido"`
	} `json:"deputado_"`
}

// FetchParties retrieves every party of the configured legislature
func (c *CamaraClient) FetchParties(ctx context.Context) ([]model.Party, error) {
	q := url.Values{}
	q.Set("idLegislatura", fmt.Sprint(c.legislature))
	rows, err := fetchAll[partidoJSON](ctx, c, c.endpoint("/partidos", q))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch parties: %w", err)
	}

	parties := make([]model.Party, len(rows))
	for i, p := range rows {
		legislature := c.legislature
		parties[i] = model.Party{
			ExternalID:    p.ID,
			Code:          strings.ToUpper(p.Sigla),
			FullName:      p.Nome,
			LegislatureID: &legislature,
		}
	}
	return parties, nil
}

// FetchLegislators retrieves every deputy of the configured legislature
func (c *CamaraClient) FetchLegislators(ctx context.Context) ([]model.LegislatorMeta, error) {
	q := url.Values{}
	q.Set("idLegislatura", fmt.Sprint(c.legislature))
	rows, err := fetchAll[deputadoJSON](ctx, c, c.endpoint("/deputados", q))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deputies: %w", err)
	}

	legislators := make([]model.LegislatorMeta, len(rows))
	for i, d := range rows {
		legislators[i] = model.LegislatorMeta{
			ExternalID:      d.ID,
			Name:            d.Nome,
			PartyCode:       d.SiglaPartido,
			PartyExternalID: idFromURI(d.URIPartido),
			StateCode:       d.SiglaUf,
			LegislatureID:   d.IDLegislatura,
			PhotoURL:        d.URLFoto,
			URI:             d.URI,
		}
	}
	return legislators, nil
}

// idFromURI returns the numeric id ending a resource uri such as
// ".../partidos/36844", or 0 when there is none.
func idFromURI(uri string) int64 {
	uri = strings.TrimRight(uri, "/")
	id, err := strconv.ParseInt(uri[strings.LastIndex(uri, "/")+1:], 10, 64)
	if err != nil || id < 1 {
		return 0
	}
	return id
}

// FetchLegislatorDetail retrieves the XML detail document of one deputy
func (c *CamaraClient) FetchLegislatorDetail(ctx context.Context, externalID int64) ([]byte, error) {
	body, err := c.fetchWithRetry(ctx, c.endpoint(fmt.Sprintf("/deputados/%d", externalID), nil), "application/xml")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deputy %d detail: %w", externalID, err)
	}
	return body, nil
}

// FetchExpenditures retrieves one deputy's expenditures for a year.
// LegislatorID is left for the caller to resolve.
func (c *CamaraClient) FetchExpenditures(ctx context.Context, externalID int64, year int) ([]model.Expenditure, error) {
	q := url.Values{}
	q.Set("ano", fmt.Sprint(year))
	rows, err := fetchAll[despesaJSON](ctx, c, c.endpoint(fmt.Sprintf("/deputados/%d/despesas", externalID), q))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expenditures of deputy %d: %w", externalID, err)
	}

	expenditures := make([]model.Expenditure, 0, len(rows))
	for _, d := range rows {
		e := model.Expenditure{
			Year:         d.Ano,
			Month:        d.Mes,
			ExpenseType:  d.TipoDespesa,
			NetValue:     d.ValorLiquido,
			DocumentType: optional(d.TipoDocumento),
			DocumentURL:  optional(d.URLDocumento),
			SupplierName: optional(d.NomeFornecedor),
		}
		if d.CodDocumento != 0 {
			code := d.CodDocumento
			e.ExternalID = &code
		}
		expenditures = append(expenditures, e)
	}
	return expenditures, nil
}

// FetchBills retrieves the bills of a type presented in a year
func (c *CamaraClient) FetchBills(ctx context.Context, typeCode string, year int) ([]model.Bill, error) {
	q := url.Values{}
	q.Set("siglaTipo", strings.ToUpper(typeCode))
	q.Set("ano", fmt.Sprint(year))
	rows, err := fetchAll[proposicaoJSON](ctx, c, c.endpoint("/proposicoes", q))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s bills of %d: %w", typeCode, year, err)
	}

	bills := make([]model.Bill, len(rows))
	for i, p := range rows {
		bills[i] = model.Bill{
			ExternalID: p.ID,
			TypeCode:   strings.ToUpper(p.SiglaTipo),
			Year:       p.Ano,
			Summary:    optional(p.Ementa),
		}
	}
	return bills, nil
}

// FetchBillSessions retrieves the voting sessions held on one bill
func (c *CamaraClient) FetchBillSessions(ctx context.Context, billExternalID int64) ([]model.VotingSession, error) {
	body, err := c.fetchWithRetry(ctx, c.endpoint(fmt.Sprintf("/proposicoes/%d/votacoes", billExternalID), nil), "application/json")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch voting sessions of bill %d: %w", billExternalID, err)
	}

	var resp envelope[votacaoJSON]
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse voting sessions response: %w", err)
	}

	sessions := make([]model.VotingSession, 0, len(resp.Dados))
	for _, v := range resp.Dados {
		registered, ok := parseTimestamp(v.DataHoraRegistro)
		if !ok {
			registered, ok = parseTimestamp(v.Data)
		}
		if !ok {
			continue
		}
		vs := model.VotingSession{
			ExternalID:    v.ID,
			RegisteredAt:  registered,
			Description:   v.Descricao,
			CommitteeCode: optional(v.SiglaOrgao),
			URI:           optional(v.URI),
		}
		if v.Aprovacao != nil {
			outcome := "Rejeitada"
			if *v.Aprovacao == 1 {
				outcome = "Aprovada"
			}
			vs.Outcome = &outcome
		}
		sessions = append(sessions, vs)
	}
	return sessions, nil
}

// FetchSessionVotes retrieves the individual votes of one voting session.
// Votes reference deputies by external id in LegislatorID; the caller maps them.
func (c *CamaraClient) FetchSessionVotes(ctx context.Context, sessionExternalID string) ([]model.Vote, error) {
	body, err := c.fetchWithRetry(ctx, c.endpoint("/votacoes/"+url.PathEscape(sessionExternalID)+"/votos", nil), "application/json")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch votes of session %s: %w", sessionExternalID, err)
	}

	var resp envelope[votoJSON]
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse votes response: %w", err)
	}

	votes := make([]model.Vote, 0, len(resp.Dados))
	for _, v := range resp.Dados {
		vote := model.Vote{
			LegislatorID:  int(v.Deputado.ID),
			Value:         v.TipoVoto,
			PartyCode:     optional(v.Deputado.SiglaPartido),
			LegislatorURI: optional(v.Deputado.URI),
		}
		if t, ok := parseTimestamp(v.DataRegistroVoto); ok {
			vote.RegisteredAt = &t
		}
		votes = append(votes, vote)
	}
	return votes, nil
}

func (c *CamaraClient) endpoint(path string, q url.Values) string {
	if q == nil {
		return c.baseURL + path
	}
	return c.baseURL + path + "?" + q.Encode()
}

// fetchAll follows the "next" links of a paginated listing and returns every row
func fetchAll[T any](ctx context.Context, c *CamaraClient, first string) ([]T, error) {
	u, err := url.Parse(first)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", first, err)
	}
	q := u.Query()
	q.Set("itens", fmt.Sprint(pageSize))
	u.RawQuery = q.Encode()

	var all []T
	seen := make(map[string]bool)
	next := u.String()
	for page := 0; next != "" && page < maxPages; page++ {
		if seen[next] {
			break
		}
		seen[next] = true

		body, err := c.fetchWithRetry(ctx, next, "application/json")
		if err != nil {
			return nil, err
		}

		var resp envelope[T]
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to parse response of %s: %w", next, err)
		}
		all = append(all, resp.Dados...)

		next = ""
		for _, l := range resp.Links {
			if l.Rel == "next" {
				next = l.Href
				break
			}
		}
	}

	return all, nil
}

// fetchWithRetry performs an HTTP GET with exponential backoff retry.
// Client errors other than 429 are not retried.
func (c *CamaraClient) fetchWithRetry(ctx context.Context, url, accept string) ([]byte, error) {
	var lastErr error
	backoff := c.backoff

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", accept)

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()

		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limited (HTTP 429)")
			continue
		}

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			continue
		}

		return body, nil
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// parseTimestamp accepts the timestamp layouts used across the API
func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
