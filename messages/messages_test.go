package messages

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"github.com/soyeahso/cordkit/color"
	"github.com/soyeahso/cordkit/components"
	"github.com/soyeahso/cordkit/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func button(t *testing.T, id string) *components.Button {
	t.Helper()
	b, err := components.NewCustomButton(components.ButtonPrimary, "Go", id)
	require.NoError(t, err)
	return b
}

func decodeBody(t *testing.T, p *Payload) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(p.JSON, &m))
	return m
}

func requireInvalid(t *testing.T, err error, contains string) {
	t.Helper()
	require.Error(t, err)
	assert.Contains(t, err.Error(), contains)
}

// --- CreateMessage tests ---

func TestCreateMessage_ContentOnly(t *testing.T) {
	p, err := (&CreateMessage{Content: "hello"}).Prepare()
	require.NoError(t, err)
	assert.False(t, p.IsMultipart())
	assert.JSONEq(t, `{"content":"hello"}`, string(p.JSON))

	body, ct, err := p.Body()
	require.NoError(t, err)
	assert.Equal(t, "application/json", ct)
	assert.Equal(t, p.JSON, body)
}

func TestCreateMessage_Rejects(t *testing.T) {
	manyEmbeds := make([]Embed, 11)
	for i := range manyEmbeds {
		manyEmbeds[i] = Embed{Title: "x"}
	}

	tests := []struct {
		name    string
		msg     CreateMessage
		wantErr string
	}{
		{"empty", CreateMessage{}, "Message must have content, embeds, stickers, components or files"},
		{"content too long", CreateMessage{Content: strings.Repeat("a", 2001)}, "content: must be at most 2000 characters"},
		{"too many embeds", CreateMessage{Embeds: manyEmbeds}, "embeds: must contain at most 10 items"},
		{"embed text total", CreateMessage{Embeds: []Embed{
			{Description: strings.Repeat("a", 4000)},
			{Description: strings.Repeat("b", 2001)},
		}}, "total embed text length must be at most 6000"},
		{"embed field missing value", CreateMessage{Embeds: []Embed{{Fields: []EmbedField{{Name: "n"}}}}}, "embeds[0].fields[0].value: required"},
		{"bad flags", CreateMessage{Content: "x", Flags: 1}, "flags"},
		{"bad allowed mention", CreateMessage{Content: "x", AllowedMentions: &AllowedMentions{Parse: []string{"channels"}}}, "allowed_mentions.parse[0]"},
		{"too many stickers", CreateMessage{StickerIDs: []snowflake.Snowflake{1, 2, 3, 4}}, "sticker_ids"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.msg.Prepare()
			requireInvalid(t, err, tt.wantErr)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestCreateMessage_EmbedTextCountsRunes(t *testing.T) {
	e := Embed{
		Title:       "héllo",
		Description: "ü",
		Footer:      &EmbedFooter{Text: "ab"},
		Author:      &EmbedAuthor{Name: "c"},
		Fields:      []EmbedField{{Name: "d", Value: "ef"}},
	}
	assert.Equal(t, 12, e.TextLength())
}

func TestCreateMessage_StickersOnly(t *testing.T) {
	p, err := (&CreateMessage{StickerIDs: []snowflake.Snowflake{749054660769218631}}).Prepare()
	require.NoError(t, err)
	assert.JSONEq(t, `{"sticker_ids":["749054660769218631"]}`, string(p.JSON))
}

// --- Component normalization tests ---

func TestCreateMessage_WrapsBareComponents(t *testing.T) {
	msg := &CreateMessage{Components: []components.Component{button(t, "a"), button(t, "b")}}
	p, err := msg.Prepare()
	require.NoError(t, err)

	body := decodeBody(t, p)
	rows := body["components"].([]any)
	require.Len(t, rows, 1)
	row := rows[0].(map[string]any)
	assert.Equal(t, float64(1), row["type"])
	assert.Len(t, row["components"], 2)

	// The caller's slice is left alone.
	assert.Equal(t, components.TypeButton, msg.Components[0].Type())
}

func TestCreateMessage_ComponentRules(t *testing.T) {
	row := func() components.Component {
		r, err := components.NewActionRow(button(t, "r"))
		require.NoError(t, err)
		return r
	}
	ti, err := components.NewTextInput(components.TextInput{CustomID: "t", Label: "T"})
	require.NoError(t, err)
	modal, err := components.NewModalRow(ti)
	require.NoError(t, err)

	tests := []struct {
		name    string
		comps   []components.Component
		wantErr string
	}{
		{"mixed", []components.Component{row(), button(t, "x")}, "all components must be wrapped"},
		{"six rows", []components.Component{row(), row(), row(), row(), row(), row()}, "5 or fewer action rows"},
		{"modal row", []components.Component{modal}, "text inputs are only allowed in modals"},
		{"invalid bare set", []components.Component{button(t, "x"), ti}, "Text input components cannot be mixed"},
		{"select posing as row", []components.Component{&components.SelectMenu{Kind: components.TypeActionRow}}, "cannot contain another ActionRow"},
		{"nil row", []components.Component{(*components.ActionRow)(nil)}, "nil action row"},
		{"nil row among rows", []components.Component{row(), (*components.ActionRow)(nil)}, "nil action row"},
		{"nil bare select", []components.Component{(*components.SelectMenu)(nil)}, "nil component"},
		{"nil interface", []components.Component{nil}, "nil component"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&CreateMessage{Components: tt.comps}).Prepare()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err = (&CreateMessage{Components: []components.Component{row(), row()}}).Prepare()
	assert.NoError(t, err)
}

// --- Attachment tests ---

func TestCreateMessage_EmbedImageExtraction(t *testing.T) {
	c := color.Blurple
	msg := &CreateMessage{
		Embeds: []Embed{{
			Title:     "Report",
			Color:     &c,
			Image:     &EmbedImage{Attachment: NewAttachment("", pngData)},
			Thumbnail: &EmbedImage{Attachment: NewAttachment("", pngData)},
		}},
	}
	p, err := msg.Prepare()
	require.NoError(t, err)
	require.True(t, p.IsMultipart())

	body := decodeBody(t, p)
	embed := body["embeds"].([]any)[0].(map[string]any)
	assert.Equal(t, "attachment://image_0.png", embed["image"].(map[string]any)["url"])
	assert.Equal(t, "attachment://thumbnail_1.png", embed["thumbnail"].(map[string]any)["url"])
	assert.Equal(t, float64(color.Blurple), embed["color"])

	atts := body["attachments"].([]any)
	require.Len(t, atts, 2)
	first := atts[0].(map[string]any)
	assert.Equal(t, "0", first["id"])
	assert.Equal(t, "image_0.png", first["filename"])
	assert.Equal(t, "image/png", first["content_type"])

	require.Len(t, p.Files, 2)
	assert.Equal(t, "files[0]", p.Files[0].Field)
	assert.Equal(t, "files[1]", p.Files[1].Field)
	data, err := io.ReadAll(p.Files[0].Content)
	require.NoError(t, err)
	assert.Equal(t, pngData, data)

	// The caller's embed still holds the inline attachment.
	assert.Empty(t, msg.Embeds[0].Image.URL)
	assert.NotNil(t, msg.Embeds[0].Image.Attachment)
}

func TestCreateMessage_PrepareTwice(t *testing.T) {
	content := bytes.Repeat([]byte("0123456789"), 500)
	tests := []struct {
		name string
		att  *Attachment
	}{
		{"in memory", NewAttachment("a.txt", content)},
		{"plain reader", &Attachment{Filename: "a.txt", Content: io.NopCloser(bytes.NewReader(content))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &CreateMessage{Content: "x", Attachments: []*Attachment{tt.att}}

			for i := 0; i < 2; i++ {
				p, err := msg.Prepare()
				require.NoError(t, err)
				require.Len(t, p.Files, 1)
				data, err := io.ReadAll(p.Files[0].Content)
				require.NoError(t, err)
				assert.Equal(t, content, data, "prepare #%d", i+1)
			}
		})
	}
}

func TestCreateMessage_PrepareTwiceEmbedImage(t *testing.T) {
	msg := &CreateMessage{Embeds: []Embed{{
		Image: &EmbedImage{Attachment: &Attachment{Content: bytes.NewBuffer(append([]byte(nil), pngData...))}},
	}}}

	first, err := msg.Prepare()
	require.NoError(t, err)
	second, err := msg.Prepare()
	require.NoError(t, err)
	assert.Equal(t, first.JSON, second.JSON)

	var a, b bytes.Buffer
	_, err = first.Multipart(&a)
	require.NoError(t, err)
	_, err = second.Multipart(&b)
	require.NoError(t, err)
	assert.Contains(t, b.String(), string(pngData))
	assert.Contains(t, a.String(), string(pngData))
}

func TestCreateMessage_ReplacedContent(t *testing.T) {
	att := NewAttachment("a.txt", []byte("old"))
	msg := &CreateMessage{Attachments: []*Attachment{att}}
	_, err := msg.Prepare()
	require.NoError(t, err)

	att.Content = strings.NewReader("new")
	p, err := msg.Prepare()
	require.NoError(t, err)
	data, err := io.ReadAll(p.Files[0].Content)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestCreateMessage_EmbedImageKeepsFilename(t *testing.T) {
	msg := &CreateMessage{Embeds: []Embed{{Image: &EmbedImage{Attachment: NewAttachment("chart.png", pngData)}}}}
	p, err := msg.Prepare()
	require.NoError(t, err)
	embed := decodeBody(t, p)["embeds"].([]any)[0].(map[string]any)
	assert.Equal(t, "attachment://chart.png", embed["image"].(map[string]any)["url"])
}

func TestCreateMessage_EmbedImageWithoutContent(t *testing.T) {
	msg := &CreateMessage{Embeds: []Embed{{Image: &EmbedImage{Attachment: &Attachment{Filename: "x.png"}}}}}
	_, err := msg.Prepare()
	requireInvalid(t, err, "embeds[0].image: attachment must have content")
}

func TestCreateMessage_AttachmentIDs(t *testing.T) {
	msg := &CreateMessage{
		Content:     "files",
		Attachments: []*Attachment{NewAttachment("a.txt", []byte("hello"))},
		Embeds:      []Embed{{Image: &EmbedImage{Attachment: NewAttachment("", pngData)}}},
	}
	p, err := msg.Prepare()
	require.NoError(t, err)

	atts := decodeBody(t, p)["attachments"].([]any)
	require.Len(t, atts, 2)
	assert.Equal(t, "0", atts[0].(map[string]any)["id"])
	assert.Equal(t, "1", atts[1].(map[string]any)["id"])
	assert.Equal(t, "image_0.png", atts[1].(map[string]any)["filename"])
	assert.Nil(t, msg.Attachments[0].ID)

	assert.True(t, strings.HasPrefix(p.Files[0].ContentType, "text/plain"))
}

func TestCreateMessage_AttachmentRules(t *testing.T) {
	id := snowflake.Snowflake(7)
	_, err := (&CreateMessage{Attachments: []*Attachment{
		{ID: &id, Filename: "a"},
		NewAttachment("b", []byte("b")),
	}}).Prepare()
	requireInvalid(t, err, "attachments must have all ids or none of them")

	_, err = (&CreateMessage{Attachments: []*Attachment{{Filename: "a", DoNotAttach: true}}}).Prepare()
	requireInvalid(t, err, "do_not_attach attachments must have content")

	_, err = (&CreateMessage{Attachments: []*Attachment{{Filename: "a", Description: strings.Repeat("d", 1025)}}}).Prepare()
	requireInvalid(t, err, "attachments[0].description")
}

func TestCreateMessage_DoNotAttach(t *testing.T) {
	raw := NewAttachment("raw.bin", []byte{0, 1, 2})
	raw.DoNotAttach = true
	p, err := (&CreateMessage{
		Attachments: []*Attachment{NewAttachment("a.txt", []byte("hi")), raw},
	}).Prepare()
	require.NoError(t, err)

	atts := decodeBody(t, p)["attachments"].([]any)
	require.Len(t, atts, 1)
	assert.Equal(t, "a.txt", atts[0].(map[string]any)["filename"])

	require.Len(t, p.Files, 2)
	assert.Equal(t, "files[1]", p.Files[1].Field)
	assert.Equal(t, "raw.bin", p.Files[1].Filename)
}

// --- Multipart tests ---

func TestPayload_Multipart(t *testing.T) {
	p, err := (&CreateMessage{
		Content:     "see file",
		Attachments: []*Attachment{NewAttachment(`we"ird.png`, pngData)},
	}).Prepare()
	require.NoError(t, err)

	body, ct, err := p.Body()
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(ct)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	r := multipart.NewReader(bytes.NewReader(body), params["boundary"])

	part, err := r.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "payload_json", part.FormName())
	assert.Equal(t, "application/json", part.Header.Get("Content-Type"))
	payload, err := io.ReadAll(part)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"content":"see file"`)

	part, err = r.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "files[0]", part.FormName())
	assert.Equal(t, `we"ird.png`, part.FileName())
	assert.Equal(t, "image/png", part.Header.Get("Content-Type"))
	data, err := io.ReadAll(part)
	require.NoError(t, err)
	assert.Equal(t, pngData, data)

	_, err = r.NextPart()
	assert.ErrorIs(t, err, io.EOF)
}

// --- UpdateMessage tests ---

func TestUpdateMessage(t *testing.T) {
	_, err := (&UpdateMessage{}).Prepare()
	requireInvalid(t, err, "Message must have content")

	empty := ""
	p, err := (&UpdateMessage{Content: &empty}).Prepare()
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":""}`, string(p.JSON))

	p, err = (&UpdateMessage{Flags: FlagSuppressEmbeds}).Prepare()
	require.NoError(t, err)
	assert.JSONEq(t, `{"flags":4}`, string(p.JSON))

	_, err = (&UpdateMessage{Flags: FlagSuppressNotifications}).Prepare()
	requireInvalid(t, err, "only SUPPRESS_EMBEDS")

	long := strings.Repeat("x", 2001)
	_, err = (&UpdateMessage{Content: &long}).Prepare()
	requireInvalid(t, err, "content: must be at most 2000 characters")

	existing := snowflake.Snowflake(1234)
	p, err = (&UpdateMessage{Attachments: []*Attachment{{ID: &existing, Filename: "old.png"}}}).Prepare()
	require.NoError(t, err)
	assert.False(t, p.IsMultipart())
	assert.JSONEq(t, `{"attachments":[{"id":"1234","filename":"old.png"}]}`, string(p.JSON))
}

// --- Message tests ---

func TestMessage_Decode(t *testing.T) {
	data := []byte(`{
		"id": "175928847299117063",
		"channel_id": 41771983423143937,
		"author": {"id": "80351110224678912", "username": "nelly"},
		"content": "hi",
		"timestamp": "2016-04-30T11:18:25.796000+00:00",
		"edited_timestamp": null,
		"tts": false,
		"mention_everyone": false,
		"embeds": [{"title": "t", "color": 5793266}],
		"attachments": [],
		"components": [{"type":1,"components":[{"type":2,"style":1,"custom_id":"a"}]}],
		"pinned": false,
		"type": 0
	}`)

	var m Message
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, snowflake.Snowflake(175928847299117063), m.ID)
	assert.Equal(t, snowflake.Snowflake(41771983423143937), m.ChannelID)
	assert.Equal(t, "nelly", m.Author.Username)
	assert.Equal(t, time.Date(2016, 4, 30, 11, 18, 25, 796_000_000, time.UTC), m.CreatedAt())
	assert.True(t, m.Timestamp.Equal(m.CreatedAt()))
	assert.Nil(t, m.EditedTimestamp)
	require.NotNil(t, m.Embeds[0].Color)
	assert.Equal(t, color.Blurple, *m.Embeds[0].Color)

	comps, err := m.DecodeComponents()
	require.NoError(t, err)
	require.Len(t, comps, 1)
	assert.Equal(t, components.TypeActionRow, comps[0].Type())
}
