package wikipedia

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asemenov/chatground/internal/httpclient"
	"github.com/asemenov/chatground/internal/search"
)

func newTestHTTPClient(t *testing.T) *httpclient.Client {
	t.Helper()
	hc, err := httpclient.New("")
	require.NoError(t, err)
	return hc
}

func TestFetchLang(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/ru/"))

		switch r.URL.Query().Get("list") {
		case "search":
			assert.Equal(t, "Гагарин", r.URL.Query().Get("srsearch"))
			assert.Equal(t, "1", r.URL.Query().Get("srlimit"))
			w.Write([]byte(`{"query": {"search": [{"pageid": 42, "title": "Гагарин, Юрий Алексеевич"}]}}`))
		default:
			assert.Equal(t, "extracts", r.URL.Query().Get("prop"))
			assert.Equal(t, "42", r.URL.Query().Get("pageids"))
			w.Write([]byte(`{"query": {"pages": {"42": {"extract": "Первый космонавт."}}}}`))
		}
	}))
	defer srv.Close()

	c := NewClient(newTestHTTPClient(t), srv.URL+"/%s/api.php")
	result := c.FetchLang(context.Background(), "Гагарин", "ru")

	require.NotNil(t, result)
	assert.Equal(t, "Гагарин, Юрий Алексеевич", result.Title)
	assert.Equal(t, "Первый космонавт.", result.Snippet)
	assert.Equal(t, "https://ru.wikipedia.org/wiki/Гагарин,_Юрий_Алексеевич", result.URL)
	assert.Equal(t, "Wikipedia (RU)", result.Source)
}

func TestFetchLangTruncatesExtract(t *testing.T) {
	long := strings.Repeat("а", search.SnippetMax+50)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("list") == "search" {
			w.Write([]byte(`{"query": {"search": [{"pageid": 7, "title": "Статья"}]}}`))
			return
		}
		fmt.Fprintf(w, `{"query": {"pages": {"7": {"extract": "%s"}}}}`, long)
	}))
	defer srv.Close()

	c := NewClient(newTestHTTPClient(t), srv.URL+"/%s/api.php")
	result := c.FetchLang(context.Background(), "статья", "ru")

	require.NotNil(t, result)
	assert.Equal(t, strings.Repeat("а", search.SnippetMax)+"...", result.Snippet)
}

func TestFetchLangNothingFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query": {"search": []}}`))
	}))
	defer srv.Close()

	c := NewClient(newTestHTTPClient(t), srv.URL+"/%s/api.php")
	assert.Nil(t, c.FetchLang(context.Background(), "nothing", "en"))
}

func TestFetchLangServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(newTestHTTPClient(t), srv.URL+"/%s/api.php")
	assert.Nil(t, c.FetchLang(context.Background(), "q", "en"))
}
