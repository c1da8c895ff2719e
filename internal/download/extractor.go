package download

import "fmt"

// ExtractorOptions carries the binary paths the backends need
type ExtractorOptions struct {
	YTDLPPath  string
	FFmpegPath string
}

// NewExtractor returns the backend registered under name
func NewExtractor(name string, opts ExtractorOptions) (Extractor, error) {
	switch name {
	case "", BackendYTDLP:
		return NewYTDLPExtractor(opts.YTDLPPath), nil
	case BackendNative:
		return NewNativeExtractor(opts.FFmpegPath), nil
	default:
		return nil, fmt.Errorf("unknown extractor backend: %q", name)
	}
}
