package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/singparty/server/internal/search"
)

const (
	defaultAPIURL = "https://www.googleapis.com/youtube/v3/search"

	// qualifyingTerm is appended to every query and required in every
	// returned title, so plain music videos are filtered out in favor of
	// karaoke versions.
	qualifyingTerm = "karaoke"
)

var ErrAPIKeyMissing = errors.New("youtube api key not configured")

type Provider struct {
	apiKey string
	apiURL string
	client *http.Client
}

func NewProvider(apiKey string) *Provider {
	return &Provider{
		apiKey: apiKey,
		apiURL: defaultAPIURL,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewProviderWithURL points the provider at a different endpoint, used by
// tests.
func NewProviderWithURL(apiKey, apiURL string) *Provider {
	p := NewProvider(apiKey)
	p.apiURL = apiURL
	return p
}

type searchResponse struct {
	Items []struct {
		Id struct {
			VideoId string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   struct {
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
				Default struct {
					URL string `json:"url"`
				} `json:"default"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Search queries the API with the qualifying term appended and keeps only
// results whose title contains it, case-insensitively.
func (p *Provider) Search(ctx context.Context, query string, maxResults int) ([]search.Video, error) {
	if p.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	if maxResults <= 0 {
		maxResults = 10
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query+" "+qualifyingTerm)
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("key", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("youtube search request failed: %w", err)
	}
	defer resp.Body.Close()

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode youtube response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if body.Error.Message != "" {
			return nil, fmt.Errorf("youtube search failed: %s", body.Error.Message)
		}

		return nil, fmt.Errorf("youtube search failed with status %d", resp.StatusCode)
	}

	videos := make([]search.Video, 0, len(body.Items))
	for _, item := range body.Items {
		if !strings.Contains(strings.ToLower(item.Snippet.Title), qualifyingTerm) {
			continue
		}

		thumbnail := item.Snippet.Thumbnails.Medium.URL
		if thumbnail == "" {
			thumbnail = item.Snippet.Thumbnails.Default.URL
		}

		videos = append(videos, search.Video{
			Id:          item.Id.VideoId,
			Title:       item.Snippet.Title,
			Thumbnail:   thumbnail,
			ChannelName: item.Snippet.ChannelTitle,
		})
	}

	return videos, nil
}
