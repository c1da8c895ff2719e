package download

import (
	"context"

	"github.com/ytget/yt-audio/internal/model"
	"github.com/ytget/yt-audio/internal/probe"
)

// Fetcher defines the interface for the download service.
type Fetcher interface {
	FetchAudio(ctx context.Context, req model.DownloadRequest) (*model.DownloadResult, error)
	FetchAll(ctx context.Context, urls []string, outputDir string) []model.BatchItem
	SetUpdateCallback(func(model.BatchItem))
	SetMaxParallel(max int)
}

// Extractor resolves a URL, downloads its best audio stream and leaves an MP3
// at job.OutputPath().
type Extractor interface {
	Name() string
	Extract(ctx context.Context, job model.ExtractJob) (*model.SourceInfo, error)
}

// Tagger writes metadata into a finished MP3.
type Tagger interface {
	ApplyMetadata(mp3Path string, meta model.AudioMetadata, sourceURL string) error
}

// Verifier checks that a produced file really is MP3.
type Verifier interface {
	Available() bool
	VerifyMP3(ctx context.Context, filePath string) (*probe.AudioInfo, error)
}
