package probe

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// FFprobe constants
const (
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeAudioStream  = "a:0"
	FFprobeShowEntries  = "stream=codec_name,bit_rate:format=duration"
	FFprobeOutputFormat = "default=noprint_wrappers=1"

	CodecMP3 = "mp3"
)

// ErrNotMP3 is returned by VerifyMP3 when the first audio stream is not MP3
var ErrNotMP3 = errors.New("audio stream is not mp3")

// AudioInfo is what ffprobe reports about the first audio stream
type AudioInfo struct {
	Codec       string
	BitrateKbps int
	DurationSec float64
}

// Prober inspects media files with ffprobe
type Prober struct {
	path string
}

// NewProber returns a Prober. Empty path means "ffprobe" on PATH.
func NewProber(path string) *Prober {
	if path == "" {
		path = FFprobeCommand
	}
	return &Prober{path: path}
}

// Available checks if ffprobe is executable
func (p *Prober) Available() bool {
	_, err := exec.LookPath(p.path)
	return err == nil
}

// BuildArgs builds the ffprobe command arguments
func (p *Prober) BuildArgs(filePath string) []string {
	return []string{
		"-v", FFprobeLogLevel,
		"-select_streams", FFprobeAudioStream,
		"-show_entries", FFprobeShowEntries,
		"-of", FFprobeOutputFormat,
		filePath,
	}
}

// Probe runs ffprobe against filePath
func (p *Prober) Probe(ctx context.Context, filePath string) (*AudioInfo, error) {
	cmd := exec.CommandContext(ctx, p.path, p.BuildArgs(filePath)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to run ffprobe: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return ParseOutput(string(output))
}

// VerifyMP3 probes filePath and fails unless its audio stream is MP3
func (p *Prober) VerifyMP3(ctx context.Context, filePath string) (*AudioInfo, error) {
	info, err := p.Probe(ctx, filePath)
	if err != nil {
		return nil, err
	}
	if info.Codec != CodecMP3 {
		return info, fmt.Errorf("%w: got %q", ErrNotMP3, info.Codec)
	}
	return info, nil
}

// ParseOutput parses key=value lines as printed with noprint_wrappers
func ParseOutput(output string) (*AudioInfo, error) {
	info := &AudioInfo{}
	scanner := bufio.NewScanner(strings.NewReader(output))

	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok || value == "N/A" {
			continue
		}

		switch key {
		case "codec_name":
			info.Codec = value
		case "bit_rate":
			bps, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("failed to parse bit_rate: %w", err)
			}
			info.BitrateKbps = bps / 1000
		case "duration":
			d, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse duration: %w", err)
			}
			info.DurationSec = d
		}
	}

	if info.Codec == "" {
		return nil, errors.New("no audio stream found")
	}
	return info, nil
}
