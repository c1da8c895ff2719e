package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-audio/internal/config"
	"github.com/ytget/yt-audio/internal/logger"
	"github.com/ytget/yt-audio/internal/model"
	"github.com/ytget/yt-audio/internal/platform"
	"github.com/ytget/yt-audio/internal/tag"
)

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-version"}, &stdout, &stderr)

	assert.Equal(t, exitOK, code)
	assert.Equal(t, "yt-audio vdev\n", stdout.String())
}

func TestRunWithoutURLs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, &stdout, &stderr)

	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr.String(), "Usage: yt-audio")
}

func TestRunUnknownFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitUsage, run([]string{"-nope"}, &stdout, &stderr))
}

func TestRunRejectsUnknownBackend(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-backend", "vlc", "https://www.youtube.com/watch?v=abc"}, &stdout, &stderr)

	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr.String(), "unknown backend")
}

func TestRunInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.mp3")
	require.NoError(t, os.WriteFile(path, append([]byte{0xFF, 0xFB, 0x90, 0x64}, make([]byte, 413)...), 0o644))
	require.NoError(t, tag.New("").ApplyMetadata(path, model.AudioMetadata{Title: "Song", Author: "Channel"}, "https://x/v"))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-inspect", path}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	var md tag.Metadata
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &md))
	assert.Equal(t, "Song", md.Title)
	assert.Equal(t, "Channel", md.Artist)
	assert.Equal(t, "YouTube", md.Album)
	assert.Equal(t, "https://x/v", md.SourceURL)
}

func TestRunInspectMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitFailed, run([]string{"-inspect", filepath.Join(t.TempDir(), "none.mp3")}, &stdout, &stderr))
}

func TestApplyFlagsOnlyOverridesSetFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	var opts options
	fs.StringVar(&opts.outputDir, "o", "", "")
	fs.StringVar(&opts.backend, "backend", "", "")
	fs.IntVar(&opts.bitrate, "bitrate", 0, "")
	fs.IntVar(&opts.parallel, "parallel", 0, "")
	fs.BoolVar(&opts.verify, "verify", false, "")
	require.NoError(t, fs.Parse([]string{"-o", "/music", "-parallel", "3"}))

	cfg := &config.Config{Backend: config.BackendNative, BitrateKbps: 128, MaxParallel: 1}
	applyFlags(fs, &opts, cfg)

	assert.Equal(t, "/music", cfg.OutputDir)
	assert.Equal(t, 3, cfg.MaxParallel)
	assert.Equal(t, config.BackendNative, cfg.Backend)
	assert.Equal(t, 128, cfg.BitrateKbps)
	assert.False(t, cfg.Verify)
}

func newTestParser(list platform.PlaylistLister) *platform.PlaylistParserService {
	parser := platform.NewPlaylistParserService()
	parser.SetLister(list)
	return parser
}

func TestExpandURLsKeepsPlainURLs(t *testing.T) {
	parser := newTestParser(func(context.Context, string) ([]*model.PlaylistVideo, error) {
		t.Fatal("plain URLs must not be listed")
		return nil, nil
	})

	urls := []string{"https://www.youtube.com/watch?v=a", "https://youtu.be/b"}
	got := expandURLs(t.Context(), parser, urls, logger.Get("test"))
	assert.Equal(t, urls, got)
}

func TestExpandURLsKeepsVideoInsideMix(t *testing.T) {
	var listed []string
	parser := newTestParser(func(_ context.Context, id string) ([]*model.PlaylistVideo, error) {
		listed = append(listed, id)
		return nil, errors.New("mix lists cannot be listed")
	})

	urls := []string{"https://www.youtube.com/watch?v=a&list=RDa"}
	got := expandURLs(t.Context(), parser, urls, logger.Get("test"))

	assert.Equal(t, urls, got)
	assert.Empty(t, listed)
}

func TestExpandURLsFallsBackWhenListingFails(t *testing.T) {
	parser := newTestParser(func(context.Context, string) ([]*model.PlaylistVideo, error) {
		return nil, errors.New("network down")
	})

	urls := []string{
		"https://www.youtube.com/playlist?list=PLbroken",
		"https://www.youtube.com/watch?v=b",
	}
	got := expandURLs(t.Context(), parser, urls, logger.Get("test"))
	assert.Equal(t, urls, got)
}

func TestExpandURLsExpandsPlaylists(t *testing.T) {
	parser := newTestParser(func(_ context.Context, id string) ([]*model.PlaylistVideo, error) {
		assert.Equal(t, "PL1", id)
		return []*model.PlaylistVideo{
			{ID: "x", Title: "X", URL: "https://www.youtube.com/watch?v=x"},
			{ID: "y", Title: "Y", URL: "https://www.youtube.com/watch?v=y"},
		}, nil
	})

	got := expandURLs(t.Context(), parser, []string{
		"https://www.youtube.com/watch?v=a",
		"https://www.youtube.com/playlist?list=PL1",
	}, logger.Get("test"))

	assert.Equal(t, []string{
		"https://www.youtube.com/watch?v=a",
		"https://www.youtube.com/watch?v=x",
		"https://www.youtube.com/watch?v=y",
	}, got)
}

func TestResolveConfigPath(t *testing.T) {
	t.Chdir(t.TempDir())

	assert.Equal(t, "", resolveConfigPath(""))
	assert.Equal(t, "custom.yaml", resolveConfigPath("custom.yaml"))

	require.NoError(t, os.WriteFile(config.DefaultConfig, []byte("backend: native\n"), 0o644))
	assert.Equal(t, config.DefaultConfig, resolveConfigPath(""))
	assert.Equal(t, "custom.yaml", resolveConfigPath("custom.yaml"))
}

func TestRunLoadsDefaultConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(config.DefaultConfig, []byte("backend: vlc\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := run([]string{"https://www.youtube.com/watch?v=abc"}, &stdout, &stderr)

	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr.String(), "unknown backend")
}

func TestNewService(t *testing.T) {
	cfg := &config.Config{Backend: config.BackendNative, BitrateKbps: 128, MaxParallel: 2, Verify: true}
	svc, err := newService(cfg)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
