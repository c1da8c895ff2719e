package download

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ytget/yt-audio/internal/model"
)

func TestFetchError_Is(t *testing.T) {
	tests := []struct {
		kind     model.FailureKind
		sentinel error
	}{
		{model.FailureExtraction, ErrExtraction},
		{model.FailureMissingOutputFile, ErrMissingOutputFile},
		{model.FailureInvalidOutputFile, ErrInvalidOutputFile},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			err := error(&FetchError{Kind: tt.kind, URL: "u", Err: io.ErrUnexpectedEOF})
			assert.True(t, errors.Is(err, tt.sentinel))
			assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
		})
	}
}

func TestFetchError_Message(t *testing.T) {
	err := &FetchError{Kind: model.FailureMissingOutputFile, URL: "https://x", Path: "/tmp/a.mp3"}
	assert.Equal(t, "MissingOutputFile for https://x (/tmp/a.mp3)", err.Error())

	err.Err = errors.New("gone")
	assert.Equal(t, "MissingOutputFile for https://x (/tmp/a.mp3): gone", err.Error())
}

func TestFetchError_NilCause(t *testing.T) {
	err := &FetchError{Kind: model.FailureExtraction, URL: "u"}
	assert.Len(t, err.Unwrap(), 1)
	assert.ErrorIs(t, err, ErrExtraction)
}
