package stringdb

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gemdiff/perturbviz/pkg/buildinfo"
	"github.com/gemdiff/perturbviz/pkg/cache"
	"github.com/gemdiff/perturbviz/pkg/errors"
	"github.com/gemdiff/perturbviz/pkg/integrations"
	pkgio "github.com/gemdiff/perturbviz/pkg/io"
	"github.com/gemdiff/perturbviz/pkg/network"
)

// Query defaults.
const (
	DefaultBaseURL         = "https://string-db.org/api"
	DefaultSpecies         = 9606
	DefaultRequiredScore   = 400
	DefaultAdditionalNodes = 50
	DefaultNetworkType     = "functional"

	// CallerIdentity is sent with every request as STRING asks clients to
	// identify themselves.
	CallerIdentity = "PerturbViz"
)

const (
	columnA = "preferredName_A"
	columnB = "preferredName_B"
)

// ErrEmptyNetwork is returned when STRING finds no interactions among the
// query genes.
var ErrEmptyNetwork = errors.New(errors.ErrCodeEmptyNetwork, "no interactions found for the provided genes")

// Query describes one network request.
type Query struct {
	Identifiers     []string // Gene symbols; at least one is required
	Species         int      // NCBI taxonomy ID
	RequiredScore   int      // Minimum combined score, 0-1000
	AdditionalNodes int      // Interactors STRING may add beyond the identifiers
	NetworkType     string   // "functional" or "physical"
}

// SetDefaults fills zero-valued fields. AdditionalNodes is left alone since
// zero is a meaningful request; callers wanting the default set it
// explicitly or use [NewQuery].
func (q *Query) SetDefaults() {
	if q.Species == 0 {
		q.Species = DefaultSpecies
	}
	if q.RequiredScore == 0 {
		q.RequiredScore = DefaultRequiredScore
	}
	if q.NetworkType == "" {
		q.NetworkType = DefaultNetworkType
	}
}

// NewQuery returns a query for genes with every parameter at its default.
func NewQuery(genes []string) Query {
	q := Query{Identifiers: genes, AdditionalNodes: DefaultAdditionalNodes}
	q.SetDefaults()
	return q
}

// Validate checks the query parameters.
func (q Query) Validate() error {
	if len(q.Identifiers) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no genes to query")
	}
	for _, id := range q.Identifiers {
		if err := errors.ValidateGeneID(id); err != nil {
			return err
		}
	}
	if q.Species <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "species must be a positive NCBI taxonomy ID, got %d", q.Species)
	}
	if q.RequiredScore < 0 || q.RequiredScore > 1000 {
		return errors.New(errors.ErrCodeInvalidInput, "required score must be between 0 and 1000, got %d", q.RequiredScore)
	}
	if q.AdditionalNodes < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "additional nodes must not be negative, got %d", q.AdditionalNodes)
	}
	switch q.NetworkType {
	case "functional", "physical":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "network type must be functional or physical, got %q", q.NetworkType)
	}
	return nil
}

func (q Query) form() url.Values {
	return url.Values{
		"identifiers":     {strings.Join(q.Identifiers, "\r")},
		"species":         {strconv.Itoa(q.Species)},
		"caller_identity": {CallerIdentity},
		"add_nodes":       {strconv.Itoa(q.AdditionalNodes)},
		"network_type":    {q.NetworkType},
		"required_score":  {strconv.Itoa(q.RequiredScore)},
	}
}

// Client provides access to the STRING network API.
// It handles HTTP requests with caching and automatic retries.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a STRING client with the given cache backend.
// Pass a null cache to disable caching.
func NewClient(c cache.Cache, cacheTTL time.Duration) *Client {
	headers := map[string]string{"User-Agent": buildinfo.UserAgent()}
	return &Client{
		Client:  integrations.NewClient(c, "stringdb:", cacheTTL, headers),
		baseURL: DefaultBaseURL,
	}
}

// SetBaseURL points the client at another STRING deployment or mirror.
func (c *Client) SetBaseURL(u string) { c.baseURL = strings.TrimRight(u, "/") }

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchNetwork retrieves the interaction network among the query genes.
// Zero-valued query fields take their defaults. If refresh is true the
// cache is bypassed.
//
// Returns:
//   - the edge list in response order on success
//   - [ErrEmptyNetwork] when STRING returns no interactions
//   - an error with code NETWORK_ERROR for transport failures and non-200
//     responses, including the start of the response body
func (c *Client) FetchNetwork(ctx context.Context, q Query, refresh bool) ([]network.Edge, error) {
	q.SetDefaults()
	if err := q.Validate(); err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/tsv/network"
	key := cache.HashKey("network", endpoint, q)
	body, err := c.Cached(ctx, key, refresh, func() ([]byte, error) {
		return c.PostForm(ctx, endpoint, q.form())
	})
	if err != nil {
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "query STRING for %d genes", len(q.Identifiers))
	}

	edges, err := ParseNetwork(body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "parse STRING response")
	}
	if len(edges) == 0 {
		return nil, ErrEmptyNetwork
	}
	return edges, nil
}

// ParseNetwork reads a STRING TSV network response. Rows missing either
// preferred name are skipped.
func ParseNetwork(data []byte) ([]network.Edge, error) {
	headers, rows, err := pkgio.ReadTable(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if headers == nil {
		return nil, nil
	}

	a, b := indexOf(headers, columnA), indexOf(headers, columnB)
	if a < 0 || b < 0 {
		return nil, fmt.Errorf("response has no %s/%s columns", columnA, columnB)
	}

	edges := make([]network.Edge, 0, len(rows))
	for _, row := range rows {
		if a >= len(row) || b >= len(row) || row[a] == "" || row[b] == "" {
			continue
		}
		edges = append(edges, network.Edge{Source: row[a], Target: row[b]})
	}
	return edges, nil
}

func indexOf(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return -1
}
