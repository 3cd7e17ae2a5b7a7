package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/mediakeeper/internal/models"
)

func TestDailymotion_FetchItems(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"list":[{
			"id":"x8abcde",
			"title":"DM Video",
			"url":"https://www.dailymotion.com/video/x8abcde",
			"description":"desc",
			"created_time":1714557600,
			"thumbnail_480_url":"https://s2.dmcdn.net/v/x8abcde",
			"owner.screenname":"Some Channel",
			"views_total":1234
		}]}`)
	}))
	defer server.Close()

	f := NewDailymotionFetcher(server.Client(), testLogger())
	f.apiBase = server.URL

	src := models.Source{ID: "s1", Platform: models.PlatformDailymotion, Kind: models.SourceKindChannel, Ref: "somechannel"}
	records, err := f.FetchItems(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "/user/somechannel/videos", gotPath)
	assert.Empty(t, gotAuth, "token is optional")

	rec := records[0]
	assert.Equal(t, "x8abcde", rec.ID)
	assert.Equal(t, "DM Video", rec.Title)
	assert.Equal(t, "https://www.dailymotion.com/video/x8abcde", rec.Link)
	assert.Equal(t, "Some Channel", rec.Author)
	assert.Equal(t, int64(1234), rec.ViewCount)
	assert.Equal(t, time.Unix(1714557600, 0), rec.PublishedAt)
	assert.Equal(t, models.PlatformDailymotion, rec.Platform)
}

func TestDailymotion_PlaylistPathAndToken(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"list":[]}`)
	}))
	defer server.Close()

	f := NewDailymotionFetcher(server.Client(), testLogger())
	f.SetToken("dm-token")
	f.apiBase = server.URL

	src := models.Source{ID: "s1", Platform: models.PlatformDailymotion, Kind: models.SourceKindPlaylist, Ref: "x7list"}
	_, err := f.FetchItems(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "/playlist/x7list/videos", gotPath)
	assert.Equal(t, "Bearer dm-token", gotAuth)
}

func TestDailymotion_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":{"code":400,"message":"unknown user"}}`)
	}))
	defer server.Close()

	f := NewDailymotionFetcher(server.Client(), testLogger())
	f.apiBase = server.URL

	src := models.Source{ID: "s1", Platform: models.PlatformDailymotion, Kind: models.SourceKindChannel, Ref: "nobody"}
	_, err := f.FetchItems(context.Background(), src)
	assert.ErrorContains(t, err, "unknown user")
}
