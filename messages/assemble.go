package messages

import (
	"fmt"

	"github.com/soyeahso/cordkit/components"
	"github.com/soyeahso/cordkit/snowflake"
)

// assembled holds the normalized parts of a request body.
type assembled struct {
	embeds      []Embed
	rows        []components.Component
	attachments []*Attachment
}

// assemble copies embeds and attachments, pulls inline embed images out into
// attachments, wraps bare components into a row and numbers attachments.
func assemble(embeds []Embed, comps []components.Component, atts []*Attachment) (*assembled, error) {
	a := &assembled{}

	extracted, err := a.extractEmbedImages(embeds)
	if err != nil {
		return nil, err
	}

	total := 0
	for i := range a.embeds {
		total += a.embeds[i].TextLength()
		if total > MaxEmbedTextLength {
			return nil, &ValidationError{Field: "embeds", Message: fmt.Sprintf("total embed text length must be at most %d characters", MaxEmbedTextLength)}
		}
	}

	if a.rows, err = normalizeComponents(comps); err != nil {
		return nil, err
	}

	all := make([]*Attachment, 0, len(atts)+len(extracted))
	for _, att := range atts {
		if att == nil {
			return nil, &ValidationError{Field: "attachments", Message: "nil attachment"}
		}
		cp, err := att.clone()
		if err != nil {
			return nil, err
		}
		all = append(all, cp)
	}
	all = append(all, extracted...)
	if a.attachments, err = numberAttachments(all); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *assembled) extractEmbedImages(embeds []Embed) ([]*Attachment, error) {
	if len(embeds) == 0 {
		return nil, nil
	}
	var extracted []*Attachment
	a.embeds = make([]Embed, len(embeds))
	for i := range embeds {
		e := embeds[i]
		for _, slot := range []struct {
			name string
			img  **EmbedImage
		}{{"image", &e.Image}, {"thumbnail", &e.Thumbnail}} {
			img := *slot.img
			if img == nil || img.Attachment == nil {
				continue
			}
			if img.Attachment.Content == nil {
				return nil, &ValidationError{Field: fmt.Sprintf("embeds[%d].%s", i, slot.name), Message: "attachment must have content"}
			}
			att, err := img.Attachment.clone()
			if err != nil {
				return nil, err
			}
			ext := att.sniff()
			if att.Filename == "" {
				att.Filename = fmt.Sprintf("%s_%d%s", slot.name, len(extracted), ext)
			}
			extracted = append(extracted, att)
			*slot.img = &EmbedImage{URL: att.Path()}
		}
		a.embeds[i] = e
	}
	return extracted, nil
}

// normalizeComponents accepts either only action rows or only bare
// components, never a mix.
func normalizeComponents(comps []components.Component) ([]components.Component, error) {
	if len(comps) == 0 {
		return nil, nil
	}
	if len(comps) > MaxActionRows {
		return nil, &ValidationError{Field: "components", Message: fmt.Sprintf("components must have %d or fewer action rows", MaxActionRows)}
	}

	rows := make([]*components.ActionRow, 0, len(comps))
	for _, c := range comps {
		row, ok := c.(*components.ActionRow)
		if !ok {
			continue
		}
		if row == nil {
			return nil, &ValidationError{Field: "components", Message: "nil action row"}
		}
		rows = append(rows, row)
	}

	switch len(rows) {
	case len(comps):
		for _, row := range rows {
			if err := checkMessageRow(row); err != nil {
				return nil, err
			}
		}
		return append([]components.Component(nil), comps...), nil
	case 0:
		row, err := components.NewActionRow(comps...)
		if err != nil {
			return nil, err
		}
		if err := checkMessageRow(row); err != nil {
			return nil, err
		}
		return []components.Component{row}, nil
	default:
		return nil, &ValidationError{Field: "components", Message: "all components must be wrapped in an ActionRow or none of them"}
	}
}

func checkMessageRow(row *components.ActionRow) error {
	if err := row.Validate(); err != nil {
		return err
	}
	if row.HasTextInputs() {
		return &ValidationError{Field: "components", Message: "text inputs are only allowed in modals"}
	}
	return nil
}

// numberAttachments requires ids on all attachments or on none, and assigns
// list positions when none are set.
func numberAttachments(all []*Attachment) ([]*Attachment, error) {
	withID := 0
	for _, att := range all {
		if att.ID != nil {
			withID++
		}
	}
	if withID != 0 && withID != len(all) {
		return nil, &ValidationError{Field: "attachments", Message: "attachments must have all ids or none of them"}
	}
	for i, att := range all {
		if att.DoNotAttach && att.Content == nil {
			return nil, &ValidationError{Field: fmt.Sprintf("attachments[%d]", i), Message: "do_not_attach attachments must have content"}
		}
		if att.ID == nil {
			id := snowflake.Snowflake(i)
			att.ID = &id
		}
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// listed returns the attachments that belong in the JSON attachments array.
func (a *assembled) listed() []*Attachment {
	var out []*Attachment
	for _, att := range a.attachments {
		if !att.DoNotAttach {
			out = append(out, att)
		}
	}
	return out
}

// files returns one multipart part per attachment that carries content.
func (a *assembled) files() ([]File, error) {
	var out []File
	for _, att := range a.attachments {
		if att.Content == nil {
			continue
		}
		if att.ContentType == "" {
			att.sniff()
		}
		out = append(out, File{
			Field:       "files[" + att.ID.String() + "]",
			Filename:    att.Filename,
			ContentType: att.ContentType,
			Content:     att.Content,
		})
	}
	return out, nil
}
