package search

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"storefront_back_end/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestIndex(t *testing.T, status int, body string, seen *[]*http.Request) *Index {
	t.Helper()
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://elastic.test:9200"},
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if seen != nil {
				*seen = append(*seen, r)
			}
			h := http.Header{}
			h.Set("X-Elastic-Product", "Elasticsearch")
			h.Set("Content-Type", "application/json")
			return &http.Response{
				StatusCode: status,
				Header:     h,
				Body:       io.NopCloser(strings.NewReader(body)),
			}, nil
		}),
	})
	require.NoError(t, err)
	return NewIndex(client, "")
}

func TestIndex_SearchIDs(t *testing.T) {
	var seen []*http.Request
	idx := newTestIndex(t, 200, `{"hits":{"hits":[{"_id":"a1"},{"_id":"b2"}]}}`, &seen)

	ids, err := idx.SearchIDs(context.Background(), "robe", 10)

	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "b2"}, ids)
	require.Len(t, seen, 1)
	assert.Equal(t, "/products/_search", seen[0].URL.Path)
}

func TestIndex_SearchIDsError(t *testing.T) {
	idx := newTestIndex(t, 404, `{"error":"index_not_found_exception"}`, nil)

	_, err := idx.SearchIDs(context.Background(), "robe", 10)

	assert.ErrorContains(t, err, "index_not_found_exception")
}

func TestIndex_IndexProduct(t *testing.T) {
	var seen []*http.Request
	idx := newTestIndex(t, 201, `{"result":"created"}`, &seen)
	p := models.Product{
		ID:     primitive.NewObjectID(),
		Title:  "Robe Lina",
		Colors: []models.ColorVariant{{Color: "Rouge"}},
	}

	require.NoError(t, idx.IndexProduct(context.Background(), p))

	require.Len(t, seen, 1)
	assert.Equal(t, http.MethodPut, seen[0].Method)
	assert.Equal(t, "/products/_doc/"+p.ID.Hex(), seen[0].URL.Path)
}

func TestToDocument(t *testing.T) {
	p := models.Product{ID: primitive.NewObjectID(), Title: "Sac", Colors: []models.ColorVariant{{Color: "Bleu"}, {Color: "Vert"}}}

	doc := toDocument(p)

	assert.Equal(t, p.ID.Hex(), doc.ID)
	assert.Equal(t, []string{"Bleu", "Vert"}, doc.Colors)
}
