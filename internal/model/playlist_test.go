package model

import (
	"errors"
	"testing"
)

func TestPlaylist_AddVideoSkipsDuplicates(t *testing.T) {
	p := NewPlaylist("https://www.youtube.com/playlist?list=PL1")

	p.AddVideo(&PlaylistVideo{ID: "a", URL: "https://www.youtube.com/watch?v=a"})
	p.AddVideo(&PlaylistVideo{ID: "b", URL: "https://www.youtube.com/watch?v=b"})
	p.AddVideo(&PlaylistVideo{ID: "a", URL: "https://www.youtube.com/watch?v=a"})

	urls := p.URLs()
	if len(urls) != 2 {
		t.Fatalf("Expected 2 urls, got %d", len(urls))
	}
	if urls[0] != "https://www.youtube.com/watch?v=a" || urls[1] != "https://www.youtube.com/watch?v=b" {
		t.Errorf("Unexpected order: %v", urls)
	}
}

func TestPlaylist_Fail(t *testing.T) {
	p := NewPlaylist("https://www.youtube.com/playlist?list=PL1")
	if p.Status != PlaylistStatusParsing {
		t.Errorf("Expected parsing status, got %s", p.Status)
	}

	p.Fail(errors.New("boom"))

	if p.Status != PlaylistStatusError {
		t.Errorf("Expected error status, got %s", p.Status)
	}
	if p.Error != "boom" {
		t.Errorf("Expected error 'boom', got '%s'", p.Error)
	}
}
