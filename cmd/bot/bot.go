package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-poll-bot/internal/client"
	"github.com/MKhiriev/go-poll-bot/internal/logger"
	"github.com/MKhiriev/go-poll-bot/internal/store"
	"github.com/MKhiriev/go-poll-bot/models"
)

const greetedKey = "greeted"

var errUnknownCommand = errors.New("unknown command")

// botClient is the part of *client.Client the echo bot drives.
type botClient interface {
	SendMessage(ctx context.Context, chatID int64, text string) (models.Message, error)
	GetMe(ctx context.Context) (models.User, error)
	SignalStop(ctx context.Context) error
	Halt(ctx context.Context) error
	PauseUpdates()
	ResumeUpdates()
	UpdatesPaused() bool
	NextUpdateOffset() int64
}

// echoBot repeats text messages back to their chat and greets every chat
// once.
type echoBot struct {
	client.NopLifecycle

	sessions store.SessionStore
	logger   *logger.Logger
}

func newEchoBot(sessions store.SessionStore, log *logger.Logger) *echoBot {
	return &echoBot{sessions: sessions, logger: log}
}

func (b *echoBot) OnReady(ctx context.Context, c *client.Client) error {
	return b.ready(ctx, c)
}

func (b *echoBot) OnUpdate(ctx context.Context, c *client.Client, update models.Update) error {
	return b.update(ctx, c, update)
}

func (b *echoBot) OnOccasion(ctx context.Context, c *client.Client) error {
	logger.FromContext(ctx).Info().
		Int64("next_offset", c.NextUpdateOffset()).
		Bool("paused", c.UpdatesPaused()).
		Msg("heartbeat")
	return nil
}

func (b *echoBot) OnInput(ctx context.Context, c *client.Client, line string) error {
	return b.command(ctx, c, line)
}

func (b *echoBot) OnStop(ctx context.Context, _ *client.Client) error {
	logger.FromContext(ctx).Info().Msg("echo bot stopping")
	return nil
}

func (b *echoBot) ready(ctx context.Context, c botClient) error {
	me, err := c.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("get me: %w", err)
	}
	logger.FromContext(ctx).Info().Int64("bot_id", me.ID).Str("username", me.Username).Msg("bot identity")
	return nil
}

func (b *echoBot) update(ctx context.Context, c botClient, update models.Update) error {
	if update.Kind != models.KindMessage {
		return nil
	}

	var msg models.Message
	if err := update.Decode(&msg); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	if msg.Text == "" {
		return nil
	}

	if err := b.greet(ctx, c, msg); err != nil {
		return err
	}

	if _, err := c.SendMessage(ctx, msg.Chat.ID, msg.Text); err != nil {
		return fmt.Errorf("echo to chat %d: %w", msg.Chat.ID, err)
	}
	return nil
}

// greet sends a welcome the first time a chat writes to the bot.
func (b *echoBot) greet(ctx context.Context, c botClient, msg models.Message) error {
	_, greeted, err := b.sessions.Get(ctx, msg.Chat.ID, greetedKey)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if greeted {
		return nil
	}

	name := "there"
	if msg.From != nil && msg.From.FirstName != "" {
		name = msg.From.FirstName
	}
	if _, err = c.SendMessage(ctx, msg.Chat.ID, fmt.Sprintf("Hello, %s! I repeat everything you write.", name)); err != nil {
		return fmt.Errorf("greet chat %d: %w", msg.Chat.ID, err)
	}

	return b.sessions.Put(ctx, msg.Chat.ID, greetedKey, "true")
}

// command runs one console line: stop, halt, pause, resume, status or
// say <chat> <text>.
func (b *echoBot) command(ctx context.Context, c botClient, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	log := logger.FromContext(ctx)
	switch fields[0] {
	case "stop":
		return c.SignalStop(ctx)
	case "halt":
		return c.Halt(ctx)
	case "pause":
		c.PauseUpdates()
		log.Info().Msg("updates paused")
	case "resume":
		c.ResumeUpdates()
		log.Info().Msg("updates resumed")
	case "status":
		log.Info().Int64("next_offset", c.NextUpdateOffset()).Bool("paused", c.UpdatesPaused()).Msg("status")
	case "say":
		if len(fields) < 3 {
			return fmt.Errorf("usage: say <chat> <text>")
		}
		chatID, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return fmt.Errorf("chat id %q: %w", fields[1], err)
		}
		text := strings.TrimSpace(strings.SplitN(strings.TrimSpace(line), fields[1], 2)[1])
		if _, err = c.SendMessage(ctx, chatID, text); err != nil {
			return fmt.Errorf("say to chat %d: %w", chatID, err)
		}
	default:
		return fmt.Errorf("%w: %q", errUnknownCommand, fields[0])
	}
	return nil
}
