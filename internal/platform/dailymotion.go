package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/mediakeeper/internal/logging"
	"github.com/dmitrijs2005/mediakeeper/internal/models"
)

const dailymotionAPIBase = "https://api.dailymotion.com"

// DailymotionFetcher fetches a user's or playlist's videos from the public
// Dailymotion API. A token raises rate limits but is optional.
type DailymotionFetcher struct {
	client  *http.Client
	logger  logging.Logger
	token   string
	apiBase string
}

// NewDailymotionFetcher returns a fetcher for the public API.
func NewDailymotionFetcher(client *http.Client, logger logging.Logger) *DailymotionFetcher {
	return &DailymotionFetcher{client: client, logger: logger, apiBase: dailymotionAPIBase}
}

// SetToken installs (or clears) the optional API token.
func (f *DailymotionFetcher) SetToken(token string) {
	f.token = token
}

type dailymotionResponse struct {
	List []struct {
		ID              string `json:"id"`
		Title           string `json:"title"`
		URL             string `json:"url"`
		Description     string `json:"description"`
		CreatedTime     int64  `json:"created_time"`
		ThumbnailURL    string `json:"thumbnail_480_url"`
		OwnerScreenname string `json:"owner.screenname"`
		ViewsTotal      int64  `json:"views_total"`
	} `json:"list"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (f *DailymotionFetcher) FetchItems(ctx context.Context, src models.Source) ([]models.VideoRecord, error) {
	var path string
	switch src.Kind {
	case models.SourceKindPlaylist:
		path = fmt.Sprintf("/playlist/%s/videos", src.Ref)
	default:
		path = fmt.Sprintf("/user/%s/videos", src.Ref)
	}

	requestURL := f.apiBase + path +
		"?fields=id,title,url,description,created_time,thumbnail_480_url,owner.screenname,views_total&limit=50"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, err
	}

	var parsed dailymotionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode dailymotion response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("dailymotion api error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dailymotion api status %d", resp.StatusCode)
	}

	records := make([]models.VideoRecord, 0, len(parsed.List))
	for _, v := range parsed.List {
		records = append(records, models.VideoRecord{
			ID:          v.ID,
			Title:       v.Title,
			Link:        v.URL,
			PublishedAt: time.Unix(v.CreatedTime, 0),
			Thumbnail:   v.ThumbnailURL,
			Author:      v.OwnerScreenname,
			Description: v.Description,
			Platform:    models.PlatformDailymotion,
			ViewCount:   v.ViewsTotal,
		})
	}
	return records, nil
}
