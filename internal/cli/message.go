package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/soyeahso/cordkit/color"
	"github.com/soyeahso/cordkit/internal/hooks"
	"github.com/soyeahso/cordkit/internal/store"
	"github.com/soyeahso/cordkit/messages"
	"github.com/soyeahso/cordkit/rest"
	"github.com/soyeahso/cordkit/snowflake"
	"github.com/spf13/cobra"
)

func newMessageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "message",
		Short: "Send and manage messages",
	}

	cmd.AddCommand(newMessageSendCmd())
	cmd.AddCommand(newMessageEditCmd())
	cmd.AddCommand(newMessageDeleteCmd())
	cmd.AddCommand(newMessageHistoryCmd())
	cmd.AddCommand(newMessagePruneCmd())
	return cmd
}

// signalContext cancels on SIGINT/SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// sendOptions collects the flags of "message send".
type sendOptions struct {
	channel          string
	content          string
	embedTitle       string
	embedDescription string
	embedColor       string
	embedImage       string
	files            []string
	componentsFile   string
	replyTo          string
	silent           bool
	suppressEmbeds   bool
	tts              bool
	nonce            string
	enforceNonce     bool
	dryRun           bool
}

// build turns the flags into a create request.
func (o *sendOptions) build(stdin io.Reader) (*messages.CreateMessage, error) {
	req := &messages.CreateMessage{Content: o.content, TTS: o.tts, Nonce: o.nonce}

	// Discord drops a repeated create with the same enforced nonce.
	if o.enforceNonce {
		if req.Nonce == "" {
			n, err := gonanoid.New()
			if err != nil {
				return nil, fmt.Errorf("generating nonce: %w", err)
			}
			req.Nonce = n
		}
		req.EnforceNonce = true
	}

	if o.embedTitle != "" || o.embedDescription != "" || o.embedImage != "" {
		embed := messages.Embed{Title: o.embedTitle, Description: o.embedDescription}
		if o.embedColor != "" {
			c, err := color.Parse(o.embedColor)
			if err != nil {
				return nil, fmt.Errorf("--embed-color: %w", err)
			}
			embed.Color = &c
		}
		if o.embedImage != "" {
			a, err := messages.OpenAttachment(o.embedImage)
			if err != nil {
				return nil, err
			}
			embed.Image = &messages.EmbedImage{Attachment: a}
		}
		req.Embeds = []messages.Embed{embed}
	}

	for _, path := range o.files {
		a, err := messages.OpenAttachment(path)
		if err != nil {
			return nil, err
		}
		req.Attachments = append(req.Attachments, a)
	}

	if o.componentsFile != "" {
		list, err := readComponents(o.componentsFile, stdin)
		if err != nil {
			return nil, err
		}
		req.Components = list
	}

	if o.replyTo != "" {
		id, err := snowflake.Parse(o.replyTo)
		if err != nil {
			return nil, fmt.Errorf("--reply-to: %w", err)
		}
		req.MessageReference = &messages.MessageReference{MessageID: &id}
	}

	if o.silent {
		req.Flags |= messages.FlagSuppressNotifications
	}
	if o.suppressEmbeds {
		req.Flags |= messages.FlagSuppressEmbeds
	}
	return req, nil
}

func newMessageSendCmd() *cobra.Command {
	var opts sendOptions

	cmd := &cobra.Command{
		Use:   "send [content...]",
		Short: "Send a message to a channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.content == "" {
				opts.content = strings.Join(args, " ")
			}

			channelID, err := resolveChannel(opts.channel)
			if err != nil {
				return err
			}

			req, err := opts.build(cmd.InOrStdin())
			if err != nil {
				return err
			}
			payload, err := req.Prepare()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.dryRun {
				return printPayload(out, payload)
			}

			client, err := newRESTClient()
			if err != nil {
				return err
			}
			mlog, closeLog, err := openMessageLog()
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, stop := signalContext(cmd)
			defer stop()

			hm := newHookManager()
			data := map[string]any{
				"channel_id":  channelID.String(),
				"content":     req.Content,
				"embeds":      len(req.Embeds),
				"attachments": len(payload.Files),
			}
			if err := hm.Run(ctx, hooks.EventMessageSending, data); err != nil {
				return err
			}

			msg, err := client.Messages(channelID).Send(ctx, payload)
			if err != nil {
				hm.Emit(ctx, hooks.EventSendFailed, map[string]any{
					"channel_id": channelID.String(),
					"error":      err.Error(),
					"status":     rest.StatusOf(err),
				})
				return err
			}

			if mlog != nil {
				if _, err := mlog.RecordMessage(ctx, store.ActionSent, msg, payload.JSON); err != nil {
					log.Warn().Err(err).Str("message", msg.ID.String()).Msg("failed to log sent message")
				}
			}

			hm.Emit(ctx, hooks.EventMessageSent, map[string]any{
				"channel_id": msg.ChannelID.String(),
				"message_id": msg.ID.String(),
				"content":    msg.Content,
			})

			fmt.Fprintln(out, msg.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.channel, "channel", "", "channel id (default discord.defaultChannel)")
	f.StringVar(&opts.content, "content", "", "message content (default: the arguments joined)")
	f.StringVar(&opts.embedTitle, "embed-title", "", "embed title")
	f.StringVar(&opts.embedDescription, "embed-description", "", "embed description")
	f.StringVar(&opts.embedColor, "embed-color", "", "embed color as #rrggbb")
	f.StringVar(&opts.embedImage, "embed-image", "", "image file to upload and show in the embed")
	f.StringArrayVar(&opts.files, "file", nil, "file to attach (repeatable)")
	f.StringVar(&opts.componentsFile, "components", "", "JSON file with components (\"-\" for stdin)")
	f.StringVar(&opts.replyTo, "reply-to", "", "message id to reply to")
	f.BoolVar(&opts.silent, "silent", false, "suppress push and desktop notifications")
	f.BoolVar(&opts.suppressEmbeds, "suppress-embeds", false, "do not unfurl links")
	f.BoolVar(&opts.tts, "tts", false, "send as text-to-speech")
	f.StringVar(&opts.nonce, "nonce", "", "nonce sent with the message (max 25 characters)")
	f.BoolVar(&opts.enforceNonce, "enforce-nonce", false, "deduplicate retries by nonce; generates one if --nonce is empty")
	f.BoolVar(&opts.dryRun, "dry-run", false, "validate and print the request without sending it")

	return cmd
}

// printPayload writes the request JSON and the files that would be uploaded.
func printPayload(w io.Writer, p *messages.Payload) error {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, p.JSON, "", "  "); err != nil {
		return err
	}
	fmt.Fprintln(w, pretty.String())
	for _, f := range p.Files {
		fmt.Fprintf(w, "%s: %s (%s)\n", f.Field, f.Filename, f.ContentType)
	}
	return nil
}

func newMessageEditCmd() *cobra.Command {
	var (
		channel      string
		content      string
		clearContent bool
	)

	cmd := &cobra.Command{
		Use:   "edit <message-id> [content...]",
		Short: "Edit the content of a message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channelID, err := resolveChannel(channel)
			if err != nil {
				return err
			}
			id, err := snowflake.Parse(args[0])
			if err != nil {
				return fmt.Errorf("message id: %w", err)
			}
			if content == "" {
				content = strings.Join(args[1:], " ")
			}
			if content == "" && !clearContent {
				return fmt.Errorf("no content given; pass content or --clear")
			}

			client, err := newRESTClient()
			if err != nil {
				return err
			}
			mlog, closeLog, err := openMessageLog()
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, stop := signalContext(cmd)
			defer stop()

			req := &messages.UpdateMessage{Content: &content}
			msg, err := client.Messages(channelID).Update(ctx, id, req)
			if err != nil {
				return err
			}

			if mlog != nil {
				if _, err := mlog.RecordMessage(ctx, store.ActionEdited, msg, nil); err != nil {
					log.Warn().Err(err).Str("message", msg.ID.String()).Msg("failed to log edit")
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), msg.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "", "channel id (default discord.defaultChannel)")
	cmd.Flags().StringVar(&content, "content", "", "new content")
	cmd.Flags().BoolVar(&clearContent, "clear", false, "clear the content")
	return cmd
}

func newMessageDeleteCmd() *cobra.Command {
	var (
		channel string
		reason  string
	)

	cmd := &cobra.Command{
		Use:   "delete <message-id>...",
		Short: "Delete one message, or 2-100 messages in bulk",
		Args:  cobra.RangeArgs(1, 100),
		RunE: func(cmd *cobra.Command, args []string) error {
			channelID, err := resolveChannel(channel)
			if err != nil {
				return err
			}
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			client, err := newRESTClient()
			if err != nil {
				return err
			}
			mlog, closeLog, err := openMessageLog()
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, stop := signalContext(cmd)
			defer stop()

			res := client.Messages(channelID)
			if len(ids) == 1 {
				err = res.Delete(ctx, ids[0], reason)
			} else {
				err = res.BulkDelete(ctx, ids, reason)
			}
			if err != nil {
				return err
			}

			hm := newHookManager()
			waits := make([]func(), 0, len(ids))
			for _, id := range ids {
				if mlog != nil {
					_, err := mlog.Record(ctx, store.Entry{MessageID: id, ChannelID: channelID, Action: store.ActionDeleted})
					if err != nil {
						log.Warn().Err(err).Str("message", id.String()).Msg("failed to log delete")
					}
				}
				waits = append(waits, hm.EmitAsync(ctx, hooks.EventMessageDeleted, map[string]any{
					"channel_id": channelID.String(),
					"message_id": id.String(),
					"reason":     reason,
				}))
			}
			for _, wait := range waits {
				wait()
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d message(s)\n", len(ids))
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "", "channel id (default discord.defaultChannel)")
	cmd.Flags().StringVar(&reason, "reason", "", "audit log reason")
	return cmd
}

func newMessageHistoryCmd() *cobra.Command {
	var (
		channel string
		limit   int
		remote  bool
		before  string
		after   string
		search  string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "history [message-id]",
		Short: "Show logged messages, or fetch recent ones with --remote",
		Long:  "Without arguments, history lists the local log for a channel, newest first.\nWith a message id it shows every logged action for that message.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd)
			defer stop()
			out := cmd.OutOrStdout()

			if len(args) == 1 && (remote || search != "") {
				return fmt.Errorf("a message id cannot be combined with --remote or --search")
			}
			if remote {
				return remoteHistory(ctx, out, channel, limit, before, after, asJSON)
			}
			if before != "" || after != "" {
				return fmt.Errorf("--before and --after need --remote")
			}

			mlog, closeLog, err := openMessageLog()
			if err != nil {
				return err
			}
			defer closeLog()
			if mlog == nil {
				return fmt.Errorf("message log is disabled (store.enabled: false)")
			}

			var entries []store.Entry
			if len(args) == 1 {
				id, perr := snowflake.Parse(args[0])
				if perr != nil {
					return fmt.Errorf("message id: %w", perr)
				}
				entries, err = mlog.ForMessage(ctx, id)
			} else if search != "" {
				entries, err = mlog.Search(ctx, search, limit)
			} else {
				channelID, cerr := resolveChannel(channel)
				if cerr != nil {
					return cerr
				}
				entries, err = mlog.History(ctx, channelID, limit)
			}
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(out, entries)
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %s  %-7s %s\n",
					e.CreatedAt.Local().Format(time.DateTime), e.MessageID, e.Action, e.Content)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&channel, "channel", "", "channel id (default discord.defaultChannel)")
	f.IntVar(&limit, "limit", 20, "maximum number of messages")
	f.BoolVar(&remote, "remote", false, "fetch from Discord instead of the local log")
	f.StringVar(&before, "before", "", "with --remote: messages before this id")
	f.StringVar(&after, "after", "", "with --remote: messages after this id")
	f.StringVar(&search, "search", "", "find logged messages containing all of these words")
	f.BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newMessagePruneCmd() *cobra.Command {
	var before string

	cmd := &cobra.Command{
		Use:   "prune --before <time|age>",
		Short: "Remove local log entries for messages created before a cutoff",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cutoff, err := parseCutoff(before, time.Now())
			if err != nil {
				return err
			}

			mlog, closeLog, err := openMessageLog()
			if err != nil {
				return err
			}
			defer closeLog()
			if mlog == nil {
				return fmt.Errorf("message log is disabled (store.enabled: false)")
			}

			ctx, stop := signalContext(cmd)
			defer stop()

			n, err := mlog.Prune(ctx, cutoff)
			if err != nil {
				return err
			}
			log.Debug().Time("before", cutoff).Int64("removed", n).Msg("message log pruned")
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d entries\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&before, "before", "", "RFC 3339 time, or an age such as 720h")
	_ = cmd.MarkFlagRequired("before")
	return cmd
}

// parseCutoff accepts an RFC 3339 time or a duration counted back from now.
func parseCutoff(s string, now time.Time) (time.Time, error) {
	if d, err := time.ParseDuration(s); err == nil {
		if d < 0 {
			return time.Time{}, fmt.Errorf("--before: age must not be negative")
		}
		return now.Add(-d), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--before: want an RFC 3339 time or a duration, got %q", s)
	}
	return t, nil
}

func remoteHistory(ctx context.Context, out io.Writer, channel string, limit int, before, after string, asJSON bool) error {
	channelID, err := resolveChannel(channel)
	if err != nil {
		return err
	}
	client, err := newRESTClient()
	if err != nil {
		return err
	}

	opts := rest.ListOptions{Limit: limit}
	if before != "" {
		id, err := snowflake.Parse(before)
		if err != nil {
			return fmt.Errorf("--before: %w", err)
		}
		opts.Before = &id
	}
	if after != "" {
		id, err := snowflake.Parse(after)
		if err != nil {
			return fmt.Errorf("--after: %w", err)
		}
		opts.After = &id
	}

	list, err := client.Messages(channelID).List(ctx, opts)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(out, list)
	}
	for _, m := range list {
		fmt.Fprintf(out, "%s  %s  %s: %s\n",
			m.CreatedAt().Local().Format(time.DateTime), m.ID, m.Author.Username, m.Content)
	}
	return nil
}
