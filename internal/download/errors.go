package download

import (
	"errors"
	"fmt"

	"github.com/ytget/yt-audio/internal/model"
)

var (
	// ErrExtraction covers network, parsing, unsupported URL and transcode failures.
	ErrExtraction = errors.New("extraction failure")
	// ErrMissingOutputFile means the extractor finished but the MP3 is not on disk.
	ErrMissingOutputFile = errors.New("missing output file")
	// ErrInvalidOutputFile means the file exists but ffprobe does not see MP3 audio.
	ErrInvalidOutputFile = errors.New("invalid output file")
)

// FetchError is the failure variant of FetchAudio.
type FetchError struct {
	Kind model.FailureKind
	URL  string
	// Path is the expected output file.
	Path string
	Err  error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%s for %s", e.Kind, e.URL)
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() []error {
	errs := []error{kindSentinel(e.Kind)}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func kindSentinel(kind model.FailureKind) error {
	switch kind {
	case model.FailureMissingOutputFile:
		return ErrMissingOutputFile
	case model.FailureInvalidOutputFile:
		return ErrInvalidOutputFile
	default:
		return ErrExtraction
	}
}
