package model

import (
	"time"
)

// PlaylistStatus represents the current status of a playlist
type PlaylistStatus string

const (
	PlaylistStatusParsing PlaylistStatus = "parsing"
	PlaylistStatusReady   PlaylistStatus = "ready"
	PlaylistStatusError   PlaylistStatus = "error"
)

// PlaylistVideo represents a single video in a playlist
type PlaylistVideo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Playlist is an expanded list URL
type Playlist struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	URL       string           `json:"url"`
	Videos    []*PlaylistVideo `json:"videos"`
	Status    PlaylistStatus   `json:"status"`
	Error     string           `json:"error,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewPlaylist creates a new playlist instance
func NewPlaylist(url string) *Playlist {
	now := time.Now()
	return &Playlist{
		URL:       url,
		Status:    PlaylistStatusParsing,
		Videos:    make([]*PlaylistVideo, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddVideo adds a video to the playlist, skipping duplicates by ID
func (p *Playlist) AddVideo(video *PlaylistVideo) {
	for _, v := range p.Videos {
		if v.ID == video.ID {
			return
		}
	}
	p.Videos = append(p.Videos, video)
	p.UpdatedAt = time.Now()
}

// UpdateStatus updates the playlist status
func (p *Playlist) UpdateStatus(status PlaylistStatus) {
	p.Status = status
	p.UpdatedAt = time.Now()
}

// Fail records err and moves the playlist to the error state
func (p *Playlist) Fail(err error) {
	p.Error = err.Error()
	p.UpdateStatus(PlaylistStatusError)
}

// URLs returns the watch URLs of all videos in order
func (p *Playlist) URLs() []string {
	urls := make([]string, 0, len(p.Videos))
	for _, v := range p.Videos {
		urls = append(urls, v.URL)
	}
	return urls
}
