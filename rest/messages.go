package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/soyeahso/cordkit/messages"
	"github.com/soyeahso/cordkit/snowflake"
)

// ErrInvalidArgument is returned for calls rejected before any request is sent.
var ErrInvalidArgument = errors.New("invalid argument")

// MessageResource operates on the messages of one channel.
type MessageResource struct {
	client    *Client
	channelID snowflake.Snowflake
}

// Messages returns the message resource for channelID.
func (c *Client) Messages(channelID snowflake.Snowflake) *MessageResource {
	return &MessageResource{client: c, channelID: channelID}
}

func (r *MessageResource) path(suffix string) string {
	p := "/channels/" + r.channelID.String() + "/messages"
	if suffix != "" {
		p += "/" + suffix
	}
	return p
}

// ListOptions pages through channel history. At most one of Around, Before
// and After may be set. Limit defaults to Discord's 50 when zero.
type ListOptions struct {
	Around *snowflake.Snowflake
	Before *snowflake.Snowflake
	After  *snowflake.Snowflake
	Limit  int
}

func (o ListOptions) query() (map[string]string, error) {
	q := map[string]string{}
	for name, id := range map[string]*snowflake.Snowflake{"around": o.Around, "before": o.Before, "after": o.After} {
		if id != nil {
			q[name] = id.String()
		}
	}
	if len(q) > 1 {
		return nil, errors.Join(ErrInvalidArgument, errors.New("only one of around, before, after can be specified"))
	}
	if o.Limit != 0 {
		if o.Limit < 1 || o.Limit > 100 {
			return nil, errors.Join(ErrInvalidArgument, errors.New("limit must be between 1 and 100"))
		}
		q["limit"] = strconv.Itoa(o.Limit)
	}
	return q, nil
}

// List fetches messages from the channel, newest first.
func (r *MessageResource) List(ctx context.Context, opts ListOptions) ([]messages.Message, error) {
	q, err := opts.query()
	if err != nil {
		return nil, err
	}
	var out []messages.Message
	err = r.client.do(ctx, call{method: http.MethodGet, path: r.path(""), query: q, out: &out})
	return out, err
}

// Get fetches a single message.
func (r *MessageResource) Get(ctx context.Context, id snowflake.Snowflake) (*messages.Message, error) {
	var out messages.Message
	if err := r.client.do(ctx, call{method: http.MethodGet, path: r.path(id.String()), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create posts a new message.
func (r *MessageResource) Create(ctx context.Context, m *messages.CreateMessage) (*messages.Message, error) {
	payload, err := m.Prepare()
	if err != nil {
		return nil, err
	}
	return r.Send(ctx, payload)
}

// Send posts a payload already produced by CreateMessage.Prepare. File
// contents are consumed, so a payload can be sent once.
func (r *MessageResource) Send(ctx context.Context, payload *messages.Payload) (*messages.Message, error) {
	var out messages.Message
	if err := r.client.do(ctx, call{method: http.MethodPost, path: r.path(""), payload: payload, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update edits a message.
func (r *MessageResource) Update(ctx context.Context, id snowflake.Snowflake, m *messages.UpdateMessage) (*messages.Message, error) {
	payload, err := m.Prepare()
	if err != nil {
		return nil, err
	}
	var out messages.Message
	if err := r.client.do(ctx, call{method: http.MethodPatch, path: r.path(id.String()), payload: payload, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a message. reason, when set, is recorded in the audit log.
func (r *MessageResource) Delete(ctx context.Context, id snowflake.Snowflake, reason string) error {
	return r.client.do(ctx, call{method: http.MethodDelete, path: r.path(id.String()), reason: reason})
}

// BulkDelete removes 2 to 100 messages in one request.
func (r *MessageResource) BulkDelete(ctx context.Context, ids []snowflake.Snowflake, reason string) error {
	if len(ids) < 2 || len(ids) > 100 {
		return errors.Join(ErrInvalidArgument, errors.New("bulk delete takes between 2 and 100 message ids"))
	}
	body := struct {
		Messages []snowflake.Snowflake `json:"messages"`
	}{ids}
	return r.client.do(ctx, call{method: http.MethodPost, path: r.path("bulk-delete"), json: body, reason: reason})
}
