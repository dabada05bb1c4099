package messages

import (
	"time"
	"unicode/utf8"

	"github.com/soyeahso/cordkit/color"
)

// MaxEmbedTextLength caps the combined text of every embed in one message.
const MaxEmbedTextLength = 6000

// Embed is rich content attached to a message.
type Embed struct {
	Title       string         `json:"title,omitempty" validate:"max=256"`
	Type        string         `json:"type,omitempty"`
	Description string         `json:"description,omitempty" validate:"max=4096"`
	URL         string         `json:"url,omitempty"`
	Timestamp   *time.Time     `json:"timestamp,omitempty"`
	Color       *color.Color   `json:"color,omitempty"`
	Footer      *EmbedFooter   `json:"footer,omitempty"`
	Image       *EmbedImage    `json:"image,omitempty"`
	Thumbnail   *EmbedImage    `json:"thumbnail,omitempty"`
	Video       *EmbedVideo    `json:"video,omitempty"`
	Provider    *EmbedProvider `json:"provider,omitempty"`
	Author      *EmbedAuthor   `json:"author,omitempty"`
	Fields      []EmbedField   `json:"fields,omitempty" validate:"max=25,dive"`
}

// EmbedFooter is the small text under an embed.
type EmbedFooter struct {
	Text         string `json:"text" validate:"required,max=2048"`
	IconURL      string `json:"icon_url,omitempty"`
	ProxyIconURL string `json:"proxy_icon_url,omitempty"`
}

// EmbedImage is an embed image or thumbnail. Set Attachment instead of URL to
// upload the picture with the message; it is rewritten to an attachment://
// reference when the request is prepared.
type EmbedImage struct {
	URL        string      `json:"url,omitempty"`
	ProxyURL   string      `json:"proxy_url,omitempty"`
	Height     int         `json:"height,omitempty"`
	Width      int         `json:"width,omitempty"`
	Attachment *Attachment `json:"-"`
}

// EmbedVideo is only ever set by Discord.
type EmbedVideo struct {
	URL      string `json:"url,omitempty"`
	ProxyURL string `json:"proxy_url,omitempty"`
	Height   int    `json:"height,omitempty"`
	Width    int    `json:"width,omitempty"`
}

type EmbedProvider struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

type EmbedAuthor struct {
	Name         string `json:"name" validate:"required,max=256"`
	URL          string `json:"url,omitempty"`
	IconURL      string `json:"icon_url,omitempty"`
	ProxyIconURL string `json:"proxy_icon_url,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name" validate:"required,max=256"`
	Value  string `json:"value" validate:"required,max=1024"`
	Inline bool   `json:"inline,omitempty"`
}

// TextLength counts the characters Discord includes in the embed text limit:
// title, description, footer text, author name and every field name and value.
func (e *Embed) TextLength() int {
	n := utf8.RuneCountInString(e.Title) + utf8.RuneCountInString(e.Description)
	if e.Footer != nil {
		n += utf8.RuneCountInString(e.Footer.Text)
	}
	if e.Author != nil {
		n += utf8.RuneCountInString(e.Author.Name)
	}
	for _, f := range e.Fields {
		n += utf8.RuneCountInString(f.Name) + utf8.RuneCountInString(f.Value)
	}
	return n
}
