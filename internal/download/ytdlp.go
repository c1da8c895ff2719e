package download

import (
	"context"
	"errors"
	"fmt"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/yt-audio/internal/model"
)

// yt-dlp options
const (
	BackendYTDLP = "ytdlp"

	BestAudioFormat = "bestaudio/best"
	AudioFormatMP3  = "mp3"
)

// YTDLPExtractor downloads and transcodes with the yt-dlp binary
type YTDLPExtractor struct {
	executable string
}

// NewYTDLPExtractor returns an extractor running executable, or the
// library default when empty.
func NewYTDLPExtractor(executable string) *YTDLPExtractor {
	return &YTDLPExtractor{executable: executable}
}

func (y *YTDLPExtractor) Name() string {
	return BackendYTDLP
}

// Command configures yt-dlp for a single-video, best-audio MP3 extraction
func (y *YTDLPExtractor) Command(job model.ExtractJob) *ytdlp.Command {
	dl := ytdlp.New().
		Format(BestAudioFormat).
		ExtractAudio().
		AudioFormat(AudioFormatMP3).
		AudioQuality(audioQuality(job.BitrateKbps)).
		NoPlaylist().
		PrintJSON().
		Output(job.OutputTemplate())

	if y.executable != "" {
		dl.SetExecutable(y.executable)
	}
	return dl
}

// Extract runs yt-dlp and returns the metadata it printed
func (y *YTDLPExtractor) Extract(ctx context.Context, job model.ExtractJob) (*model.SourceInfo, error) {
	result, err := y.Command(job).Run(ctx, job.URL)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp failed: %w", err)
	}

	infos, err := result.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to read yt-dlp metadata: %w", err)
	}
	if len(infos) == 0 {
		return nil, errors.New("yt-dlp returned no metadata")
	}

	return sourceInfoFromYTDLP(infos[0]), nil
}

func sourceInfoFromYTDLP(info *ytdlp.ExtractedInfo) *model.SourceInfo {
	return &model.SourceInfo{
		Title:       deref(info.Title),
		Uploader:    deref(info.Uploader),
		Description: deref(info.Description),
	}
}

// audioQuality formats a bitrate the way --audio-quality expects it
func audioQuality(kbps int) string {
	if kbps <= 0 {
		kbps = DefaultBitrateKbps
	}
	return fmt.Sprintf("%dK", kbps)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
