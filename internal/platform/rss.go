package platform

import (
	"fmt"

	"github.com/mmcdole/gofeed"

	"github.com/dmitrijs2005/mediakeeper/internal/models"
)

const maxResponseSize = 10 << 20 // 10 MiB

// parseRSS converts an RSS/Atom document into VideoRecords. Fields the feed
// does not carry (view counts) stay zero.
func parseRSS(body string, p models.Platform) ([]models.VideoRecord, error) {
	parsed, err := gofeed.NewParser().ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	records := make([]models.VideoRecord, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}

		rec := models.VideoRecord{
			ID:          item.GUID,
			Title:       item.Title,
			Link:        item.Link,
			Description: item.Description,
			Platform:    p,
		}

		if item.Author != nil {
			rec.Author = item.Author.Name
		}
		if rec.Author == "" && len(item.Authors) > 0 && item.Authors[0] != nil {
			rec.Author = item.Authors[0].Name
		}

		if item.PublishedParsed != nil {
			rec.PublishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			rec.PublishedAt = *item.UpdatedParsed
		}

		if item.Image != nil {
			rec.Thumbnail = item.Image.URL
		}

		if rec.ID == "" {
			rec.ID = rec.Link
		}

		records = append(records, rec)
	}
	return records, nil
}
