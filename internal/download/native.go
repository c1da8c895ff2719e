package download

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/kkdai/youtube/v2"

	"github.com/ytget/yt-audio/internal/model"
)

// FFmpeg constants for MP3 encoding
const (
	BackendNative = "native"

	FFmpegCommand  = "ffmpeg"
	FFmpegLogLevel = "error"
	StdinPipe      = "pipe:0"
	MP3Codec       = "libmp3lame"
	MP3Container   = "mp3"
	PartSuffix     = ".part"

	audioMimePrefix = "audio/"
)

// ErrNoAudioFormat is returned when a video exposes no audio-only stream
var ErrNoAudioFormat = errors.New("no audio format available")

// ErrFFmpegNotFound is returned when the configured ffmpeg cannot be executed
var ErrFFmpegNotFound = errors.New("ffmpeg not found")

// NativeExtractor resolves streams with github.com/kkdai/youtube/v2 and
// encodes them to MP3 with ffmpeg.
type NativeExtractor struct {
	client *youtube.Client
	ffmpeg string
}

// NewNativeExtractor returns an extractor using ffmpegPath, or "ffmpeg" on PATH
func NewNativeExtractor(ffmpegPath string) *NativeExtractor {
	if ffmpegPath == "" {
		ffmpegPath = FFmpegCommand
	}
	return &NativeExtractor{
		client: &youtube.Client{},
		ffmpeg: ffmpegPath,
	}
}

func (n *NativeExtractor) Name() string {
	return BackendNative
}

// Available checks if ffmpeg is executable
func (n *NativeExtractor) Available() bool {
	_, err := exec.LookPath(n.ffmpeg)
	return err == nil
}

// Extract downloads the highest bitrate audio-only stream and encodes it
func (n *NativeExtractor) Extract(ctx context.Context, job model.ExtractJob) (*model.SourceInfo, error) {
	if !n.Available() {
		return nil, fmt.Errorf("%w: %s", ErrFFmpegNotFound, n.ffmpeg)
	}

	video, err := n.client.GetVideoContext(ctx, job.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve video: %w", err)
	}

	format, err := pickBestAudio(video.Formats)
	if err != nil {
		return nil, err
	}

	stream, _, err := n.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio stream (itag %d): %w", format.ItagNo, err)
	}
	defer stream.Close()

	if err := n.Transcode(ctx, stream, job.OutputPath(), job.BitrateKbps); err != nil {
		return nil, err
	}

	return &model.SourceInfo{
		ID:          video.ID,
		Title:       video.Title,
		Uploader:    video.Author,
		Description: video.Description,
	}, nil
}

// Transcode encodes src into an MP3 at outputPath. The file only appears
// under its final name once ffmpeg succeeds.
func (n *NativeExtractor) Transcode(ctx context.Context, src io.Reader, outputPath string, bitrateKbps int) error {
	partPath := outputPath + PartSuffix

	cmd := exec.CommandContext(ctx, n.ffmpeg, n.BuildFFmpegArgs(partPath, bitrateKbps)...)
	cmd.Stdin = src
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		_ = os.Remove(partPath)
		return fmt.Errorf("ffmpeg encode failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	if err := os.Rename(partPath, outputPath); err != nil {
		_ = os.Remove(partPath)
		return fmt.Errorf("failed to move encoded file into place: %w", err)
	}
	return nil
}

// BuildFFmpegArgs builds the ffmpeg command arguments
func (n *NativeExtractor) BuildFFmpegArgs(outputPath string, bitrateKbps int) []string {
	if bitrateKbps <= 0 {
		bitrateKbps = DefaultBitrateKbps
	}
	return []string{
		"-y",           // Overwrite output file
		"-hide_banner", // Quiet header
		"-loglevel", FFmpegLogLevel,
		"-i", StdinPipe, // Source stream on stdin
		"-vn",            // Drop any video
		"-c:a", MP3Codec, // Audio codec
		"-b:a", fmt.Sprintf("%dk", bitrateKbps), // Constant bitrate
		"-f", MP3Container, // Output container, the .part name has no usable extension
		outputPath,
	}
}

// pickBestAudio returns the audio-only format with the highest bitrate
func pickBestAudio(formats youtube.FormatList) (*youtube.Format, error) {
	var audio []youtube.Format
	for _, f := range formats {
		if strings.HasPrefix(f.MimeType, audioMimePrefix) {
			audio = append(audio, f)
		}
	}
	if len(audio) == 0 {
		return nil, ErrNoAudioFormat
	}

	sort.SliceStable(audio, func(i, j int) bool {
		return audio[i].Bitrate > audio[j].Bitrate
	})
	return &audio[0], nil
}
