package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
	"github.com/dmitrijs2005/mediakeeper/internal/logging"
	"github.com/dmitrijs2005/mediakeeper/internal/models"
)

const vimeoAPIBase = "https://api.vimeo.com"

// VimeoFetcher fetches a user's or showcase's videos from the Vimeo API.
// The API requires a bearer token; without one every fetch fails with
// common.ErrCredentialMissing.
type VimeoFetcher struct {
	client  *http.Client
	logger  logging.Logger
	token   string
	apiBase string
}

// NewVimeoFetcher returns a fetcher without a token.
func NewVimeoFetcher(client *http.Client, logger logging.Logger) *VimeoFetcher {
	return &VimeoFetcher{client: client, logger: logger, apiBase: vimeoAPIBase}
}

// SetToken installs (or clears) the API bearer token.
func (f *VimeoFetcher) SetToken(token string) {
	f.token = token
}

type vimeoResponse struct {
	Data []struct {
		URI         string `json:"uri"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Link        string `json:"link"`
		CreatedTime string `json:"created_time"`
		Pictures    struct {
			BaseLink string `json:"base_link"`
		} `json:"pictures"`
		User struct {
			Name string `json:"name"`
		} `json:"user"`
		Stats struct {
			Plays int64 `json:"plays"`
		} `json:"stats"`
	} `json:"data"`
}

func (f *VimeoFetcher) FetchItems(ctx context.Context, src models.Source) ([]models.VideoRecord, error) {
	if f.token == "" {
		return nil, fmt.Errorf("%w: vimeo token not set", common.ErrCredentialMissing)
	}

	var path string
	switch src.Kind {
	case models.SourceKindPlaylist:
		path = fmt.Sprintf("/albums/%s/videos", src.Ref)
	default:
		path = fmt.Sprintf("/users/%s/videos", src.Ref)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.apiBase+path+"?per_page=50", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+f.token)
	req.Header.Set("Accept", "application/vnd.vimeo.*+json;version=3.4")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vimeo api status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, err
	}

	var parsed vimeoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode vimeo response: %w", err)
	}

	records := make([]models.VideoRecord, 0, len(parsed.Data))
	for _, v := range parsed.Data {
		createdAt, _ := time.Parse(time.RFC3339, v.CreatedTime)
		records = append(records, models.VideoRecord{
			ID:          strings.TrimPrefix(v.URI, "/videos/"),
			Title:       v.Name,
			Link:        v.Link,
			PublishedAt: createdAt,
			Thumbnail:   v.Pictures.BaseLink,
			Author:      v.User.Name,
			Description: v.Description,
			Platform:    models.PlatformVimeo,
			ViewCount:   v.Stats.Plays,
		})
	}
	return records, nil
}
