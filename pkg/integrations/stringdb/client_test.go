package stringdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemdiff/perturbviz/pkg/cache"
	perrors "github.com/gemdiff/perturbviz/pkg/errors"
	"github.com/gemdiff/perturbviz/pkg/network"
)

const sampleTSV = "stringId_A\tstringId_B\tpreferredName_A\tpreferredName_B\tncbiTaxonId\tscore\n" +
	"9606.ENSP00000269305\t9606.ENSP00000258149\tTP53\tMDM2\t9606\t0.999\n" +
	"9606.ENSP00000269305\t9606.ENSP00000244741\tTP53\tCDKN1A\t9606\t0.998\n"

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	calls := new(atomic.Int32)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	client := NewClient(c, time.Hour)
	client.SetHTTPClient(srv.Client())
	client.SetBaseURL(srv.URL + "/")
	return client, calls
}

func TestFetchNetwork(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tsv/network", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "TP53\rMDM2", r.PostForm.Get("identifiers"))
		assert.Equal(t, "9606", r.PostForm.Get("species"))
		assert.Equal(t, "400", r.PostForm.Get("required_score"))
		assert.Equal(t, "50", r.PostForm.Get("add_nodes"))
		assert.Equal(t, "functional", r.PostForm.Get("network_type"))
		assert.Equal(t, CallerIdentity, r.PostForm.Get("caller_identity"))
		assert.Contains(t, r.Header.Get("User-Agent"), "perturbviz/")
		w.Write([]byte(sampleTSV))
	})

	edges, err := client.FetchNetwork(context.Background(), NewQuery([]string{"TP53", "MDM2"}), false)
	require.NoError(t, err)
	assert.Equal(t, []network.Edge{
		{Source: "TP53", Target: "MDM2"},
		{Source: "TP53", Target: "CDKN1A"},
	}, edges)
}

func TestFetchNetworkCachesResponses(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleTSV))
	})
	ctx := context.Background()
	q := NewQuery([]string{"TP53"})

	_, err := client.FetchNetwork(ctx, q, false)
	require.NoError(t, err)
	_, err = client.FetchNetwork(ctx, q, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())

	q.RequiredScore = 700
	_, err = client.FetchNetwork(ctx, q, false)
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load(), "a different query must miss the cache")

	_, err = client.FetchNetwork(ctx, q, true)
	require.NoError(t, err)
	assert.EqualValues(t, 3, calls.Load(), "refresh must bypass the cache")
}

func TestFetchNetworkEmpty(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("stringId_A\tstringId_B\tpreferredName_A\tpreferredName_B\n"))
	})

	_, err := client.FetchNetwork(context.Background(), NewQuery([]string{"NOPE1"}), false)
	assert.True(t, errors.Is(err, ErrEmptyNetwork))
	assert.True(t, perrors.Is(err, perrors.ErrCodeEmptyNetwork))
}

func TestFetchNetworkBadRequest(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Error: species 1 not found"))
	})

	_, err := client.FetchNetwork(context.Background(), Query{Identifiers: []string{"TP53"}, Species: 1}, false)
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.ErrCodeNetwork))
	assert.Contains(t, err.Error(), "species 1 not found")
}

func TestFetchNetworkInvalidQuery(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := client.FetchNetwork(context.Background(), Query{}, false)
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidInput))
	assert.Zero(t, calls.Load())
}

func TestQueryValidate(t *testing.T) {
	valid := NewQuery([]string{"TP53"})
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Query)
	}{
		{"no genes", func(q *Query) { q.Identifiers = nil }},
		{"empty gene", func(q *Query) { q.Identifiers = []string{""} }},
		{"species", func(q *Query) { q.Species = -1 }},
		{"score too high", func(q *Query) { q.RequiredScore = 1001 }},
		{"negative nodes", func(q *Query) { q.AdditionalNodes = -1 }},
		{"network type", func(q *Query) { q.NetworkType = "directed" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQuery([]string{"TP53"})
			tt.mutate(&q)
			assert.True(t, perrors.Is(q.Validate(), perrors.ErrCodeInvalidInput))
		})
	}
}

func TestQuerySetDefaultsKeepsZeroNodes(t *testing.T) {
	q := Query{Identifiers: []string{"TP53"}}
	q.SetDefaults()
	assert.Equal(t, DefaultSpecies, q.Species)
	assert.Equal(t, DefaultRequiredScore, q.RequiredScore)
	assert.Equal(t, DefaultNetworkType, q.NetworkType)
	assert.Zero(t, q.AdditionalNodes)
}

func TestParseNetwork(t *testing.T) {
	edges, err := ParseNetwork([]byte("preferredName_A\tpreferredName_B\nA\tB\n\tC\nD\tE\n"))
	require.NoError(t, err)
	assert.Equal(t, []network.Edge{{Source: "A", Target: "B"}, {Source: "D", Target: "E"}}, edges)

	edges, err = ParseNetwork(nil)
	require.NoError(t, err)
	assert.Empty(t, edges)

	_, err = ParseNetwork([]byte("source\ttarget\nA\tB\n"))
	assert.Error(t, err)
}
