package room

import (
	"context"
	"fmt"

	"github.com/singparty/server/internal/search"
)

// SearchVideos forwards to the configured search provider. Filtering and
// ranking are the provider's business; the service passes results through.
func (s service) SearchVideos(ctx context.Context, query string, maxResults int) ([]search.Video, error) {
	videos, err := s.searchProvider.Search(ctx, query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	return videos, nil
}
