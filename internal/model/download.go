package model

import (
	"path/filepath"
	"strings"
)

// MP3Extension is the extension of every file the fetcher produces
const MP3Extension = ".mp3"

// DownloadRequest is a single fetch: the video URL and where the MP3 goes.
// An empty OutputDir means the current working directory.
type DownloadRequest struct {
	URL       string
	OutputDir string
}

// DownloadResult describes a saved MP3. Ownership passes to the caller.
type DownloadResult struct {
	AudioPath string `json:"audio_path"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	URL       string `json:"url"`
	Tagged    bool   `json:"tagged"`
}

// AudioMetadata is the set of fields written into the ID3 tag
type AudioMetadata struct {
	Title       string
	Author      string
	Description string
}

// SourceInfo is the metadata an extractor reports for the downloaded video
type SourceInfo struct {
	ID          string
	Title       string
	Uploader    string
	Description string
}

// Metadata maps extractor output onto the tag fields. The uploader becomes
// the author; a missing description stays empty.
func (s SourceInfo) Metadata() AudioMetadata {
	return AudioMetadata{
		Title:       s.Title,
		Author:      s.Uploader,
		Description: s.Description,
	}
}

// ExtractJob is what the fetcher hands to an extractor backend
type ExtractJob struct {
	URL         string
	OutputDir   string
	BaseName    string
	BitrateKbps int
}

// OutputPath returns {OutputDir}/{BaseName}.mp3
func (j ExtractJob) OutputPath() string {
	return filepath.Join(j.OutputDir, j.BaseName+MP3Extension)
}

// OutputTemplate returns the yt-dlp style output template for the job,
// leaving the extension to the extractor.
func (j ExtractJob) OutputTemplate() string {
	return filepath.Join(j.OutputDir, j.BaseName+".%(ext)s")
}

// BatchItem is the outcome of one URL in a batch run
type BatchItem struct {
	URL    string          `json:"url"`
	Status TaskStatus      `json:"status"`
	Result *DownloadResult `json:"result,omitempty"`
	Err    string          `json:"error,omitempty"`
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (b *BatchItem) GetDisplayTitle() string {
	if b.Result != nil {
		if b.Result.Title != "" {
			return b.Result.Title
		}
		if b.Result.AudioPath != "" {
			name := filepath.Base(b.Result.AudioPath)
			return strings.TrimSuffix(name, filepath.Ext(name))
		}
	}
	return b.URL
}
