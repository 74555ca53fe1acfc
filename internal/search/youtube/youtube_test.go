package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchRequiresAPIKey(t *testing.T) {
	p := NewProvider("")

	_, err := p.Search(context.Background(), "song", 5)
	assert.ErrorIs(t, err, ErrAPIKeyMissing)
}

func TestSearchAppendsQualifyingTerm(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	p := NewProviderWithURL("key", srv.URL)
	_, err := p.Search(context.Background(), "bohemian rhapsody", 5)
	require.NoError(t, err)
	assert.Equal(t, "bohemian rhapsody karaoke", gotQuery)
}

func TestSearchFiltersNonKaraokeTitles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"items": [
				{
					"id": {"videoId": "v1"},
					"snippet": {
						"title": "Bohemian Rhapsody (Karaoke Version)",
						"channelTitle": "Sing King",
						"thumbnails": {"medium": {"url": "http://img/v1"}}
					}
				},
				{
					"id": {"videoId": "v2"},
					"snippet": {
						"title": "Bohemian Rhapsody (Official Video)",
						"channelTitle": "Queen",
						"thumbnails": {"medium": {"url": "http://img/v2"}}
					}
				},
				{
					"id": {"videoId": "v3"},
					"snippet": {
						"title": "bohemian rhapsody KARAOKE with lyrics",
						"channelTitle": "KaraFun",
						"thumbnails": {"default": {"url": "http://img/v3"}}
					}
				}
			]
		}`))
	}))
	defer srv.Close()

	p := NewProviderWithURL("key", srv.URL)
	videos, err := p.Search(context.Background(), "bohemian rhapsody", 10)
	require.NoError(t, err)

	require.Len(t, videos, 2, "titles without the qualifying term must be dropped")
	assert.Equal(t, "v1", videos[0].Id)
	assert.Equal(t, "Sing King", videos[0].ChannelName)
	assert.Equal(t, "http://img/v1", videos[0].Thumbnail)
	assert.Equal(t, "v3", videos[1].Id)
	assert.Equal(t, "http://img/v3", videos[1].Thumbnail, "default thumbnail fills in when medium is missing")
}

func TestSearchSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": {"message": "quotaExceeded"}}`))
	}))
	defer srv.Close()

	p := NewProviderWithURL("key", srv.URL)
	_, err := p.Search(context.Background(), "song", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quotaExceeded")
}
