package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Skotchmaster/diary/internal/models"
	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"
)

// Index is the full-text view of diary entries. The store stays the source of
// truth; documents here may lag behind or be missing.
type Index struct {
	ES   *elasticsearch.Client
	Name string
}

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
}

var entryMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"id":        map[string]any{"type": "keyword"},
			"userId":    map[string]any{"type": "keyword"},
			"title":     map[string]any{"type": "text"},
			"content":   map[string]any{"type": "text"},
			"createdAt": map[string]any{"type": "date"},
			"updatedAt": map[string]any{"type": "date"},
		},
	},
}

// EnsureIndex creates the index with the entry mapping when it is absent.
func (ix *Index) EnsureIndex(ctx context.Context) error {
	res, err := ix.ES.Indices.Exists([]string{ix.Name}, ix.ES.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("es: index exists: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, err := encode(entryMapping)
	if err != nil {
		return err
	}
	res, err = ix.ES.Indices.Create(ix.Name,
		ix.ES.Indices.Create.WithContext(ctx),
		ix.ES.Indices.Create.WithBody(body),
	)
	if err != nil {
		return fmt.Errorf("es: create index: %w", err)
	}
	return checkResponse(res, "create index")
}

func (ix *Index) IndexEntry(ctx context.Context, e models.DiaryEntry) error {
	body, err := encode(e)
	if err != nil {
		return err
	}
	res, err := ix.ES.Index(ix.Name, body,
		ix.ES.Index.WithContext(ctx),
		ix.ES.Index.WithDocumentID(e.ID),
		ix.ES.Index.WithRefresh("wait_for"),
	)
	if err != nil {
		return fmt.Errorf("es: index entry: %w", err)
	}
	return checkResponse(res, "index entry")
}

func (ix *Index) DeleteEntry(ctx context.Context, id string) error {
	res, err := ix.ES.Delete(ix.Name, id,
		ix.ES.Delete.WithContext(ctx),
		ix.ES.Delete.WithRefresh("wait_for"),
	)
	if err != nil {
		return fmt.Errorf("es: delete entry: %w", err)
	}
	if res.StatusCode == http.StatusNotFound {
		res.Body.Close()
		return nil
	}
	return checkResponse(res, "delete entry")
}

// Search returns the owner's entries matching query, best match first.
func (ix *Index) Search(ctx context.Context, userID, query string, from, size int) (int64, []models.DiaryEntry, error) {
	body, err := encode(buildQuery(userID, query, from, size))
	if err != nil {
		return 0, nil, err
	}

	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(ctx),
		ix.ES.Search.WithIndex(ix.Name),
		ix.ES.Search.WithBody(body),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("es: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("es: search: %s", res.Status())
	}

	return decodeHits(res.Body)
}

func buildQuery(userID, query string, from, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  query,
						"fields": []string{"title^2", "content"},
					},
				},
				"filter": []any{
					map[string]any{"term": map[string]any{"userId": userID}},
				},
			},
		},
		"from": from,
		"size": size,
	}
}

func decodeHits(r io.Reader) (int64, []models.DiaryEntry, error) {
	var out struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.DiaryEntry `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return 0, nil, fmt.Errorf("es: decode hits: %w", err)
	}

	entries := make([]models.DiaryEntry, len(out.Hits.Hits))
	for i, hit := range out.Hits.Hits {
		entries[i] = hit.Source
	}
	return out.Hits.Total.Value, entries, nil
}

func encode(v any) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("es: encode: %w", err)
	}
	return &buf, nil
}

func checkResponse(res *esapi.Response, op string) error {
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("es: %s: %s: %s", op, res.Status(), bytes.TrimSpace(msg))
	}
	return nil
}
