package platform

// Package platform contains OS/platform integration and external tooling glue:
// filesystem helpers, playlist expansion via github.com/ytget/ytdlp/v2, and
// revealing saved files in the OS file manager.
