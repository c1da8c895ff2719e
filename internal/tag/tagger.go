// Package tag writes and reads the ID3v2 frames attached to a downloaded MP3.
package tag

import (
	"errors"
	"fmt"

	"github.com/bogem/id3v2/v2"

	"github.com/ytget/yt-audio/internal/logger"
	"github.com/ytget/yt-audio/internal/model"
)

const (
	// DefaultAlbum identifies the platform the audio came from
	DefaultAlbum = "YouTube"

	CommentLanguage        = "eng"
	DescriptionCommentDesc = "desc"
	URLCommentDesc         = "url"

	tagVersion = 4
)

// ErrTagWrite is matched by every error returned from ApplyMetadata
var ErrTagWrite = errors.New("tag write failure")

// Error describes a failed tag operation on a file. Kind is always
// model.FailureTagWrite.
type Error struct {
	Kind model.FailureKind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", e.Kind, e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{ErrTagWrite, e.Err}
}

func newError(op, path string, err error) *Error {
	return &Error{Kind: model.FailureTagWrite, Op: op, Path: path, Err: err}
}

// Metadata is the set of frames this package manages, as read back from a file
type Metadata struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	Description string `json:"description"`
	SourceURL   string `json:"source_url"`
	Comments    int    `json:"comments"`
}

// Tagger writes title, artist, album and the desc/url comments into MP3 files
type Tagger struct {
	album string
	log   logger.Logger
}

// New returns a Tagger writing album as TALB. Empty album means DefaultAlbum.
func New(album string) *Tagger {
	if album == "" {
		album = DefaultAlbum
	}
	return &Tagger{album: album, log: logger.Get("tagger")}
}

// ApplyMetadata sets TIT2, TPE1, TALB and the two COMM frames on the file at
// mp3Path. A file without a tag gets a fresh ID3v2.4 tag. Comment frames are
// keyed by language and description, so calling it again replaces them.
//
// Frames are staged in memory and committed by a single Save; on any error
// the file on disk keeps its previous tag.
func (t *Tagger) ApplyMetadata(mp3Path string, meta model.AudioMetadata, sourceURL string) error {
	if err := t.apply(mp3Path, meta, sourceURL); err != nil {
		t.log.Emit(logger.ERROR, "An error occurred while adding metadata to MP3: %v", err)
		return err
	}

	t.log.Emit(logger.SUCCESS, "Metadata added successfully to MP3.")
	return nil
}

func (t *Tagger) apply(mp3Path string, meta model.AudioMetadata, sourceURL string) error {
	tag, err := id3v2.Open(mp3Path, id3v2.Options{Parse: true})
	if err != nil {
		return newError("open", mp3Path, err)
	}
	defer tag.Close()

	tag.SetVersion(tagVersion)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	tag.SetTitle(meta.Title)
	tag.SetArtist(meta.Author)
	tag.SetAlbum(t.album)
	tag.AddCommentFrame(commentFrame(DescriptionCommentDesc, meta.Description))
	tag.AddCommentFrame(commentFrame(URLCommentDesc, sourceURL))

	if err := tag.Save(); err != nil {
		return newError("save", mp3Path, err)
	}
	return nil
}

func commentFrame(desc, text string) id3v2.CommentFrame {
	return id3v2.CommentFrame{
		Encoding:    id3v2.EncodingUTF8,
		Language:    CommentLanguage,
		Description: desc,
		Text:        text,
	}
}

// ReadMetadata reads the managed frames back from mp3Path
func ReadMetadata(mp3Path string) (*Metadata, error) {
	tag, err := id3v2.Open(mp3Path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", mp3Path, err)
	}
	defer tag.Close()

	md := &Metadata{
		Title:  tag.Title(),
		Artist: tag.Artist(),
		Album:  tag.Album(),
	}

	for _, f := range tag.GetFrames(tag.CommonID("Comments")) {
		cf, ok := f.(id3v2.CommentFrame)
		if !ok {
			continue
		}
		md.Comments++
		if cf.Language != CommentLanguage {
			continue
		}
		switch cf.Description {
		case DescriptionCommentDesc:
			md.Description = cf.Text
		case URLCommentDesc:
			md.SourceURL = cf.Text
		}
	}

	return md, nil
}
