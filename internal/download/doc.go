package download

// Package download implements the fetch pipeline: an Extractor backend
// (yt-dlp via github.com/lrstanley/go-ytdlp, or github.com/kkdai/youtube/v2
// piped into ffmpeg) produces {dir}/{uuid}.mp3, the result is checked on disk
// and then tagged. Every failure is logged and returned as a *FetchError.
