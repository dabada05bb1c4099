package messages

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/soyeahso/cordkit/snowflake"
)

// sniffLen is how much of an attachment is read to detect its media type.
const sniffLen = 3072

// Attachment is a file sent with a message, or a reference to an existing one
// when editing. Content and DoNotAttach never reach the JSON body.
type Attachment struct {
	ID          *snowflake.Snowflake `json:"id,omitempty"`
	Filename    string               `json:"filename,omitempty"`
	Description string               `json:"description,omitempty" validate:"max=1024"`
	ContentType string               `json:"content_type,omitempty"`

	// Content is uploaded as a multipart file part.
	Content io.Reader `json:"-"`
	// DoNotAttach uploads Content without listing it in the attachments
	// array, so Discord shows it as a plain file.
	DoNotAttach bool `json:"-"`

	// data holds Content once read; buffered is the reader Content was
	// replaced with, so a later reassignment of Content is noticed.
	data     []byte
	buffered *bytes.Reader
}

// NewAttachment wraps in-memory content.
func NewAttachment(filename string, content []byte) *Attachment {
	r := bytes.NewReader(content)
	return &Attachment{Filename: filename, Content: r, data: content, buffered: r}
}

// OpenAttachment reads the file at path into memory.
func OpenAttachment(path string) (*Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading attachment: %w", err)
	}
	return NewAttachment(filepath.Base(path), data), nil
}

// Path is the URL an embed uses to reference the uploaded file.
func (a *Attachment) Path() string {
	return "attachment://" + a.Filename
}

// load reads Content into memory on first use. Later calls return the same
// bytes, which lets one request be prepared any number of times.
func (a *Attachment) load() ([]byte, error) {
	if r, ok := a.Content.(*bytes.Reader); ok && r == a.buffered {
		return a.data, nil
	}
	data, err := io.ReadAll(a.Content)
	if err != nil {
		return nil, fmt.Errorf("reading attachment %q: %w", a.Filename, err)
	}
	a.data = data
	a.buffered = bytes.NewReader(data)
	a.Content = a.buffered
	return data, nil
}

// clone copies a for one payload. The copy gets its own reader over the
// buffered content.
func (a *Attachment) clone() (*Attachment, error) {
	if a.Content == nil {
		cp := *a
		return &cp, nil
	}
	data, err := a.load()
	if err != nil {
		return nil, err
	}
	cp := *a
	cp.Content = bytes.NewReader(data)
	cp.buffered = nil
	return &cp, nil
}

// sniff detects the media type of a cloned attachment, fills ContentType when
// unset and returns the matching file extension, including the leading dot.
func (a *Attachment) sniff() string {
	head := a.data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	mt := mimetype.Detect(head)
	if a.ContentType == "" {
		a.ContentType = mt.String()
	}
	return mt.Extension()
}
