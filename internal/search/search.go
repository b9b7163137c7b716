// Package search indexe et interroge le catalogue dans Elasticsearch.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"storefront_back_end/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const DefaultIndex = "products"

// document est la forme indexée d'un produit.
type document struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Reference   string   `json:"reference"`
	Description string   `json:"description"`
	Category    string   `json:"category,omitempty"`
	Colors      []string `json:"colors,omitempty"`
}

func toDocument(p models.Product) document {
	doc := document{
		ID:          p.ID.Hex(),
		Title:       p.Title,
		Reference:   p.Reference,
		Description: p.Description,
		Category:    p.Category,
	}
	for _, c := range p.Colors {
		doc.Colors = append(doc.Colors, c.Color)
	}
	return doc
}

type Index struct {
	client *elasticsearch.Client
	name   string
}

func NewIndex(client *elasticsearch.Client, name string) *Index {
	if name == "" {
		name = DefaultIndex
	}
	return &Index{client: client, name: name}
}

// IndexProduct ajoute ou remplace le document du produit.
func (i *Index) IndexProduct(ctx context.Context, p models.Product) error {
	data, err := json.Marshal(toDocument(p))
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      i.name,
		DocumentID: p.ID.Hex(),
		Body:       bytes.NewReader(data),
	}
	res, err := req.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("indexation %s: %w", p.ID.Hex(), err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexation %s: %s", p.ID.Hex(), res.String())
	}
	return nil
}

// Refresh rend visibles les documents indexés.
func (i *Index) Refresh(ctx context.Context) error {
	res, err := esapi.IndicesRefreshRequest{Index: []string{i.name}}.Do(ctx, i.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("refresh %s: %s", i.name, res.String())
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

// SearchIDs retourne les identifiants des produits correspondant à query, par pertinence.
func (i *Index) SearchIDs(ctx context.Context, query string, limit int) ([]string, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^3", "reference^2", "description", "colors", "category"},
				"fuzziness": "AUTO",
			},
		},
		"_source": false,
	}
	if limit > 0 {
		body["size"] = limit
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encodage requête: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{i.name},
		Body:  &buf,
	}
	res, err := req.Do(ctx, i.client)
	if err != nil {
		return nil, fmt.Errorf("requête Elastic: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("recherche Elastic %s: %s", res.Status(), raw)
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("décodage réponse Elastic: %w", err)
	}

	ids := make([]string, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}
