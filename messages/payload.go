package messages

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// File is one multipart file part of a request.
type File struct {
	Field       string
	Filename    string
	ContentType string
	Content     io.Reader
}

// Payload is a prepared request body. Without files it is sent as plain JSON;
// with files the JSON travels in a payload_json part next to files[n] parts.
type Payload struct {
	JSON  []byte
	Files []File
}

func newPayload(body any, files []File) (*Payload, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding message: %w", err)
	}
	return &Payload{JSON: data, Files: files}, nil
}

// IsMultipart reports whether the payload has files to upload.
func (p *Payload) IsMultipart() bool {
	return len(p.Files) > 0
}

// Multipart writes the payload as multipart/form-data and returns the content
// type, boundary included. File contents are consumed.
func (p *Payload) Multipart(w io.Writer) (string, error) {
	mw := multipart.NewWriter(w)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="payload_json"`)
	h.Set("Content-Type", "application/json")
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(p.JSON); err != nil {
		return "", err
	}

	for _, f := range p.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(f.Field), escapeQuotes(f.Filename)))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := mw.CreatePart(h)
		if err != nil {
			return "", err
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return "", fmt.Errorf("writing %s: %w", f.Field, err)
		}
	}

	if err := mw.Close(); err != nil {
		return "", err
	}
	return mw.FormDataContentType(), nil
}

// Body returns the encoded body and its content type.
func (p *Payload) Body() ([]byte, string, error) {
	if !p.IsMultipart() {
		return p.JSON, "application/json", nil
	}
	var buf bytes.Buffer
	ct, err := p.Multipart(&buf)
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), ct, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
