package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/ytget/yt-audio/internal/config"
	"github.com/ytget/yt-audio/internal/download"
	"github.com/ytget/yt-audio/internal/logger"
	"github.com/ytget/yt-audio/internal/model"
	"github.com/ytget/yt-audio/internal/platform"
	"github.com/ytget/yt-audio/internal/probe"
	"github.com/ytget/yt-audio/internal/tag"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppName = "yt-audio"

	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

type options struct {
	configPath string
	outputDir  string
	backend    string
	bitrate    int
	parallel   int
	asJSON     bool
	verify     bool
	reveal     bool
	inspect    string
	version    bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.configPath, "config", "", "YAML config file (default: ./"+config.DefaultConfig+" when present)")
	fs.StringVar(&opts.outputDir, "o", "", "output directory (default: current directory)")
	fs.StringVar(&opts.backend, "backend", "", "extractor backend: ytdlp or native")
	fs.IntVar(&opts.bitrate, "bitrate", 0, "MP3 bitrate in kbps")
	fs.IntVar(&opts.parallel, "parallel", 0, "maximum parallel downloads")
	fs.BoolVar(&opts.asJSON, "json", false, "print results as JSON")
	fs.BoolVar(&opts.verify, "verify", false, "check every file with ffprobe")
	fs.BoolVar(&opts.reveal, "reveal", false, "open saved files in the file manager")
	fs.StringVar(&opts.inspect, "inspect", "", "print the tags of an existing MP3 and exit")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [flags] URL...\n\n", AppName)
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\n%s", config.Usage())
	}

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if opts.version {
		fmt.Fprintf(stdout, "%s v%s\n", AppName, version)
		return exitOK
	}

	if opts.inspect != "" {
		return inspect(opts.inspect, stdout, stderr)
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	cfg, err := config.Load(resolveConfigPath(opts.configPath))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	applyFlags(fs, &opts, cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	logger.Log.SetMinStatus(logger.ParseStatus(cfg.LogLevel))
	log := logger.Get("main")
	log.Emit(logger.DEBUG, "%s v%s starting", AppName, version)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	urls := expandURLs(ctx, platform.NewPlaylistParserService(), fs.Args(), log)
	if len(urls) == 0 {
		log.Emit(logger.ERROR, "Nothing to download")
		return exitFailed
	}

	svc, err := newService(cfg)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	svc.SetUpdateCallback(func(item model.BatchItem) {
		if item.Status.IsActive() {
			log.Emit(logger.INFO, "Downloading %s", item.GetDisplayTitle())
			return
		}
		log.Emit(logger.DEBUG, "%s: %s", item.GetDisplayTitle(), item.Status)
	})

	items := svc.FetchAll(ctx, urls, cfg.OutputDir)

	failed := 0
	for _, item := range items {
		if item.Status != model.TaskStatusCompleted {
			failed++
			continue
		}
		if opts.reveal {
			if err := platform.OpenFileInManager(item.Result.AudioPath); err != nil {
				log.Emit(logger.WARNING, "Could not reveal %s: %v", item.Result.AudioPath, err)
			}
		}
	}

	if opts.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			fmt.Fprintln(stderr, err)
			return exitFailed
		}
	}

	log.Emit(logger.INFO, "%d of %d downloads completed", len(items)-failed, len(items))
	if failed > 0 {
		return exitFailed
	}
	return exitOK
}

// applyFlags overrides config values with the flags the user actually set
func applyFlags(fs *flag.FlagSet, opts *options, cfg *config.Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			cfg.OutputDir = opts.outputDir
		case "backend":
			cfg.Backend = opts.backend
		case "bitrate":
			cfg.BitrateKbps = opts.bitrate
		case "parallel":
			cfg.MaxParallel = opts.parallel
		case "verify":
			cfg.Verify = opts.verify
		}
	})
}

// resolveConfigPath picks ./yt-audio.yaml when no -config was given and the
// file exists
func resolveConfigPath(path string) string {
	if path == "" && platform.FileExists(config.DefaultConfig) {
		return config.DefaultConfig
	}
	return path
}

func newService(cfg *config.Config) (download.Fetcher, error) {
	extractor, err := download.NewExtractor(cfg.Backend, download.ExtractorOptions{
		YTDLPPath:  cfg.YTDLPPath,
		FFmpegPath: cfg.FFmpegPath,
	})
	if err != nil {
		return nil, err
	}

	svc := download.NewService(extractor, tag.New(cfg.Album))
	svc.SetBitrate(cfg.BitrateKbps)
	svc.SetMaxParallel(cfg.MaxParallel)
	if cfg.Verify {
		svc.SetVerifier(probe.NewProber(cfg.FFprobePath))
	}
	return svc, nil
}

// expandURLs replaces playlist URLs with the watch URLs of their videos. A
// playlist that cannot be listed is passed through unchanged.
func expandURLs(ctx context.Context, parser *platform.PlaylistParserService, args []string, log logger.Logger) []string {
	var urls []string
	for _, arg := range args {
		if !platform.IsPlaylistURL(arg) {
			urls = append(urls, arg)
			continue
		}

		playlist, err := parser.ParsePlaylist(ctx, arg)
		if err != nil {
			log.Emit(logger.WARNING, "Failed to expand playlist %s: %v", arg, err)
			urls = append(urls, arg)
			continue
		}
		log.Emit(logger.INFO, "%s: %d videos", playlist.Title, len(playlist.Videos))
		urls = append(urls, playlist.URLs()...)
	}
	return urls
}

func inspect(path string, stdout, stderr io.Writer) int {
	md, err := tag.ReadMetadata(path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailed
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(md); err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailed
	}
	return exitOK
}
