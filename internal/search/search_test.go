package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Skotchmaster/diary/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	Method string
	Path   string
	Body   string
}

// fakeES answers every request with the status and body picked by route.
func fakeES(t *testing.T, route func(r *http.Request) (int, string)) (*Index, *[]recorded) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		mu.Unlock()

		status, resp := route(r)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, resp)
	}))
	t.Cleanup(srv.Close)

	es, err := NewClient(srv.URL, "", "")
	require.NoError(t, err)
	return &Index{ES: es, Name: "diary_entries"}, &reqs
}

func TestBuildQuery_FiltersByOwner(t *testing.T) {
	raw, err := json.Marshal(buildQuery("u-1", "trip", 20, 10))
	require.NoError(t, err)

	s := string(raw)
	assert.Contains(t, s, `"term":{"userId":"u-1"}`)
	assert.Contains(t, s, `"fields":["title^2","content"]`)
	assert.Contains(t, s, `"from":20`)
	assert.Contains(t, s, `"size":10`)
	assert.NotContains(t, s, "fuzziness")
}

func TestDecodeHits(t *testing.T) {
	total, entries, err := decodeHits(strings.NewReader(`{
		"hits": {
			"total": {"value": 2},
			"hits": [
				{"_source": {"id": "a", "userId": "u", "title": "one"}},
				{"_source": {"id": "b", "userId": "u", "title": "two"}}
			]
		}
	}`))

	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, "two", entries[1].Title)
}

func TestDecodeHits_Malformed(t *testing.T) {
	_, _, err := decodeHits(strings.NewReader("{"))
	assert.Error(t, err)
}

func TestIndex_Search(t *testing.T) {
	ix, reqs := fakeES(t, func(*http.Request) (int, string) {
		return http.StatusOK, `{"hits":{"total":{"value":1},"hits":[{"_source":{"id":"e1","userId":"u-1","title":"trip"}}]}}`
	})

	total, entries, err := ix.Search(context.Background(), "u-1", "trip", 0, 10)

	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, "e1", entries[0].ID)

	require.Len(t, *reqs, 1)
	assert.Equal(t, "/diary_entries/_search", (*reqs)[0].Path)
	assert.Contains(t, (*reqs)[0].Body, `"userId":"u-1"`)
}

func TestIndex_SearchErrorStatus(t *testing.T) {
	ix, _ := fakeES(t, func(*http.Request) (int, string) {
		return http.StatusInternalServerError, `{"error":"boom"}`
	})

	_, _, err := ix.Search(context.Background(), "u", "q", 0, 10)
	assert.Error(t, err)
}

func TestIndex_IndexEntryUsesEntryID(t *testing.T) {
	ix, reqs := fakeES(t, func(*http.Request) (int, string) {
		return http.StatusCreated, `{"result":"created"}`
	})

	err := ix.IndexEntry(context.Background(), models.DiaryEntry{ID: "e1", UserID: "u", Title: "t", Content: "c"})

	require.NoError(t, err)
	require.Len(t, *reqs, 1)
	assert.Equal(t, http.MethodPut, (*reqs)[0].Method)
	assert.Equal(t, "/diary_entries/_doc/e1", (*reqs)[0].Path)
	assert.Contains(t, (*reqs)[0].Body, `"title":"t"`)
}

func TestIndex_DeleteMissingIsNotError(t *testing.T) {
	ix, _ := fakeES(t, func(*http.Request) (int, string) {
		return http.StatusNotFound, `{"result":"not_found"}`
	})

	assert.NoError(t, ix.DeleteEntry(context.Background(), "gone"))
}

func TestIndex_EnsureIndexCreatesWhenAbsent(t *testing.T) {
	ix, reqs := fakeES(t, func(r *http.Request) (int, string) {
		if r.Method == http.MethodHead {
			return http.StatusNotFound, ""
		}
		return http.StatusOK, `{"acknowledged":true}`
	})

	require.NoError(t, ix.EnsureIndex(context.Background()))

	require.Len(t, *reqs, 2)
	assert.Equal(t, http.MethodPut, (*reqs)[1].Method)
	assert.Contains(t, (*reqs)[1].Body, `"userId":{"type":"keyword"}`)
}

func TestIndex_EnsureIndexSkipsExisting(t *testing.T) {
	ix, reqs := fakeES(t, func(*http.Request) (int, string) {
		return http.StatusOK, ""
	})

	require.NoError(t, ix.EnsureIndex(context.Background()))
	assert.Len(t, *reqs, 1)
}
