package download

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ytget/yt-audio/internal/logger"
	"github.com/ytget/yt-audio/internal/model"
	"github.com/ytget/yt-audio/internal/platform"
)

const (
	// DefaultBitrateKbps is the MP3 bitrate requested from every backend
	DefaultBitrateKbps = 192

	DefaultMaxParallel = 1
	MaxParallelLimit   = 10
)

var _ Fetcher = (*Service)(nil)

// Service handles download operations
type Service struct {
	extractor   Extractor
	tagger      Tagger
	verifier    Verifier
	bitrate     int
	maxParallel int
	newID       func() string
	log         logger.Logger

	updateMutex sync.Mutex
	onUpdate    func(model.BatchItem) // callback for batch progress
}

// NewService creates a new download service
func NewService(extractor Extractor, tagger Tagger) *Service {
	return &Service{
		extractor:   extractor,
		tagger:      tagger,
		bitrate:     DefaultBitrateKbps,
		maxParallel: DefaultMaxParallel,
		newID:       uuid.NewString,
		log:         logger.Get("fetcher"),
	}
}

// SetUpdateCallback sets the callback function for batch item updates
func (s *Service) SetUpdateCallback(callback func(model.BatchItem)) {
	s.onUpdate = callback
}

// SetVerifier enables an ffprobe check of every produced file
func (s *Service) SetVerifier(v Verifier) {
	s.verifier = v
}

// SetBitrate sets the MP3 bitrate in kbps
func (s *Service) SetBitrate(kbps int) {
	if kbps <= 0 {
		kbps = DefaultBitrateKbps
	}
	s.bitrate = kbps
}

// SetMaxParallel sets how many fetches FetchAll runs at once
func (s *Service) SetMaxParallel(max int) {
	if max < 1 {
		max = 1
	}
	if max > MaxParallelLimit {
		max = MaxParallelLimit
	}
	s.maxParallel = max
}

// FetchAudio downloads the best audio of req.URL as {dir}/{uuid}.mp3 and tags
// it. On failure the result is nil and the error is a *FetchError; nothing is
// left on disk and no panic escapes.
func (s *Service) FetchAudio(ctx context.Context, req model.DownloadRequest) (*model.DownloadResult, error) {
	result, err := s.fetch(ctx, req)
	if err != nil {
		s.log.Emit(logger.ERROR, "An error occurred while downloading audio: %v", err)
		return nil, err
	}
	return result, nil
}

func (s *Service) fetch(ctx context.Context, req model.DownloadRequest) (*model.DownloadResult, error) {
	dir, err := platform.ResolveOutputDir(req.OutputDir)
	if err != nil {
		return nil, &FetchError{Kind: model.FailureExtraction, URL: req.URL, Err: err}
	}
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return nil, &FetchError{Kind: model.FailureExtraction, URL: req.URL, Err: fmt.Errorf("failed to create output directory: %w", err)}
	}

	job := model.ExtractJob{
		URL:         req.URL,
		OutputDir:   dir,
		BaseName:    s.newID(),
		BitrateKbps: s.bitrate,
	}
	audioPath := job.OutputPath()

	s.log.Emit(logger.INFO, "Fetching %s via %s", req.URL, s.extractor.Name())

	info, err := s.extract(ctx, job)
	if err != nil {
		s.cleanup(job)
		return nil, &FetchError{Kind: model.FailureExtraction, URL: req.URL, Path: audioPath, Err: err}
	}

	if !platform.FileExists(audioPath) {
		s.cleanup(job)
		return nil, &FetchError{
			Kind: model.FailureMissingOutputFile,
			URL:  req.URL,
			Path: audioPath,
			Err:  fmt.Errorf("could not find the downloaded MP3 file: %s", audioPath),
		}
	}

	if err := s.verify(ctx, audioPath); err != nil {
		s.cleanup(job)
		return nil, &FetchError{Kind: model.FailureInvalidOutputFile, URL: req.URL, Path: audioPath, Err: err}
	}

	result := &model.DownloadResult{
		AudioPath: audioPath,
		Title:     info.Title,
		Author:    info.Uploader,
		URL:       req.URL,
	}

	// A tag failure leaves a playable file; report it without discarding the download.
	if err := s.tagger.ApplyMetadata(audioPath, info.Metadata(), req.URL); err == nil {
		result.Tagged = true
	}

	s.log.Emit(logger.SUCCESS, "Downloaded and extracted audio successfully: %s", info.Title)
	s.log.Emit(logger.INFO, "File saved as: %s", audioPath)

	return result, nil
}

// extract runs the backend and converts a panic into an error
func (s *Service) extract(ctx context.Context, job model.ExtractJob) (info *model.SourceInfo, err error) {
	defer func() {
		if r := recover(); r != nil {
			info = nil
			err = fmt.Errorf("%s extractor panicked: %v", s.extractor.Name(), r)
		}
	}()

	info, err = s.extractor.Extract(ctx, job)
	if err == nil && info == nil {
		err = errors.New("extractor returned no metadata")
	}
	return info, err
}

func (s *Service) verify(ctx context.Context, audioPath string) error {
	if s.verifier == nil {
		return nil
	}
	if !s.verifier.Available() {
		s.log.Emit(logger.WARNING, "ffprobe not available, skipping verification of %s", audioPath)
		return nil
	}

	info, err := s.verifier.VerifyMP3(ctx, audioPath)
	if err != nil {
		return err
	}
	s.log.Emit(logger.DEBUG, "Verified %s: %s %dkbps %.1fs", audioPath, info.Codec, info.BitrateKbps, info.DurationSec)
	return nil
}

// cleanup removes whatever the failed job left behind
func (s *Service) cleanup(job model.ExtractJob) {
	removed, err := platform.RemoveByBaseName(job.OutputDir, job.BaseName)
	if err != nil {
		s.log.Emit(logger.WARNING, "Failed to remove leftovers of %s: %v", job.BaseName, err)
	}
	for _, path := range removed {
		s.log.Emit(logger.DEBUG, "Removed leftover %s", path)
	}
}

// FetchAll fetches every URL into outputDir, starting them in order with at
// most maxParallel in flight. Items are returned in input order.
func (s *Service) FetchAll(ctx context.Context, urls []string, outputDir string) []model.BatchItem {
	items := make([]model.BatchItem, len(urls))
	for i, u := range urls {
		items[i] = model.BatchItem{URL: u, Status: model.TaskStatusPending}
	}

	sem := make(chan struct{}, s.maxParallel)
	var wg sync.WaitGroup

	for i := range items {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			for j := i; j < len(items); j++ {
				s.finishItem(&items[j], nil, ctx.Err())
			}
			wg.Wait()
			return items
		}

		wg.Add(1)
		go func(item *model.BatchItem) {
			defer wg.Done()
			defer func() { <-sem }()

			s.updateItem(item, func(it *model.BatchItem) { it.Status = model.TaskStatusDownloading })

			result, err := s.FetchAudio(ctx, model.DownloadRequest{URL: item.URL, OutputDir: outputDir})
			s.finishItem(item, result, err)
		}(&items[i])
	}

	wg.Wait()
	return items
}

func (s *Service) finishItem(item *model.BatchItem, result *model.DownloadResult, err error) {
	s.updateItem(item, func(it *model.BatchItem) {
		if err != nil {
			it.Status = model.TaskStatusError
			it.Err = err.Error()
			return
		}
		it.Status = model.TaskStatusCompleted
		it.Result = result
	})
}

// updateItem applies fn and notifies the callback with a copy of the item
func (s *Service) updateItem(item *model.BatchItem, fn func(*model.BatchItem)) {
	s.updateMutex.Lock()
	defer s.updateMutex.Unlock()

	fn(item)
	if s.onUpdate != nil {
		s.onUpdate(*item)
	}
}
