package platform

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ytget/yt-audio/internal/model"
	"github.com/ytget/ytdlp/v2"
)

// Timeout constants
const (
	DefaultPlaylistParseTimeout = 60 * time.Second
)

// URL parameters
const (
	PlaylistQueryKey = "list"
	VideoQueryKey    = "v"
	PlaylistPath     = "/playlist"
)

// Default values
const (
	DefaultPlaylistTitle = "Untitled Playlist"
	DefaultTitleSuffix   = " - Playlist"
	MaxTitleLength       = 50
	TitleTruncateSuffix  = "..."
)

// URL templates
const (
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// PlaylistLister fetches the videos of a playlist id
type PlaylistLister func(ctx context.Context, playlistID string) ([]*model.PlaylistVideo, error)

// PlaylistParserService expands playlist URLs into individual watch URLs
type PlaylistParserService struct {
	timeout time.Duration
	list    PlaylistLister
}

// NewPlaylistParserService creates a parser backed by github.com/ytget/ytdlp/v2
func NewPlaylistParserService() *PlaylistParserService {
	return &PlaylistParserService{
		timeout: DefaultPlaylistParseTimeout,
		list:    listWithYTDLP,
	}
}

// SetTimeout sets the timeout for playlist parsing
func (p *PlaylistParserService) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

// SetLister replaces the backend used to list playlist items
func (p *PlaylistParserService) SetLister(list PlaylistLister) {
	p.list = list
}

// ParsePlaylist parses a playlist URL and returns playlist information
func (p *PlaylistParserService) ParsePlaylist(ctx context.Context, rawURL string) (*model.Playlist, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	playlist := model.NewPlaylist(rawURL)

	playlistID, err := ExtractPlaylistID(rawURL)
	if err != nil {
		playlist.Fail(err)
		return playlist, err
	}
	playlist.ID = playlistID

	videos, err := p.list(ctx, playlistID)
	if err != nil {
		err = fmt.Errorf("failed to get playlist items: %w", err)
		playlist.Fail(err)
		return playlist, err
	}

	for _, video := range videos {
		playlist.AddVideo(video)
	}

	playlist.Title = extractPlaylistTitle(playlist.Videos)
	playlist.UpdateStatus(model.PlaylistStatusReady)

	return playlist, nil
}

// IsPlaylistURL reports whether the URL names a whole playlist. A watch URL
// with both v= and list= names a single video and is not a playlist.
func IsPlaylistURL(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}

	q := u.Query()
	if q.Get(PlaylistQueryKey) == "" {
		return false
	}
	return u.Path == PlaylistPath || q.Get(VideoQueryKey) == ""
}

// ExtractPlaylistID extracts the playlist ID from a YouTube URL. Supported:
//   - https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID&start_radio=1
//   - https://www.youtube.com/playlist?list=PLAYLIST_ID
//   - https://music.youtube.com/playlist?list=PLAYLIST_ID
func ExtractPlaylistID(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("invalid playlist URL format: %s", rawURL)
	}

	id := u.Query().Get(PlaylistQueryKey)
	if id == "" {
		return "", fmt.Errorf("URL does not contain playlist parameter: %s", rawURL)
	}
	return id, nil
}

func listWithYTDLP(ctx context.Context, playlistID string) ([]*model.PlaylistVideo, error) {
	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, err
	}

	videos := make([]*model.PlaylistVideo, 0, len(items))
	for _, it := range items {
		videos = append(videos, &model.PlaylistVideo{
			ID:    it.VideoID,
			Title: it.Title,
			URL:   fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID),
		})
	}
	return videos, nil
}

// extractPlaylistTitle derives a display title from the first video
func extractPlaylistTitle(videos []*model.PlaylistVideo) string {
	if len(videos) == 0 {
		return DefaultPlaylistTitle
	}

	firstTitle := videos[0].Title
	if runes := []rune(firstTitle); len(runes) > MaxTitleLength {
		firstTitle = string(runes[:MaxTitleLength]) + TitleTruncateSuffix
	}

	return firstTitle + DefaultTitleSuffix
}
