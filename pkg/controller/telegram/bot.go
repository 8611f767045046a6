package telegram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/barriolab/vecino/pkg/domain/interfaces"
	"github.com/barriolab/vecino/pkg/domain/model"
	"github.com/barriolab/vecino/pkg/domain/types"
	"github.com/barriolab/vecino/pkg/usecase"
	"github.com/barriolab/vecino/pkg/utils/async"
	"github.com/barriolab/vecino/pkg/utils/errutil"
	"github.com/barriolab/vecino/pkg/utils/logging"
)

// maxVoiceBytes caps voice note downloads before transcription.
const maxVoiceBytes = 10 * 1024 * 1024

// Bot is the Telegram transport adapter. It feeds inbound updates into the
// turn pipeline and implements interfaces.Responder so debounced results
// come back out through the same chat.
type Bot struct {
	api         *tgbotapi.BotAPI
	uc          *usecase.UseCases
	transcriber interfaces.Transcriber
	httpClient  *http.Client

	mu sync.Mutex
	// welcomed remembers users who already got the first-contact message.
	// Process-local; a restart re-welcomes only users with empty history.
	welcomed map[types.UserID]struct{}
	// pendingKeyboards holds the zone keyboard for first-contact users whose
	// first message was already a search, so the keyboard rides along with
	// the search reply instead of a separate welcome.
	pendingKeyboards map[types.UserID]tgbotapi.ReplyKeyboardMarkup
}

type Option func(*Bot)

// WithTranscriber enables voice note handling.
func WithTranscriber(tr interfaces.Transcriber) Option {
	return func(b *Bot) {
		b.transcriber = tr
	}
}

func New(token string, opts ...Option) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create telegram bot client")
	}

	b := &Bot{
		api:              api,
		httpClient:       &http.Client{Timeout: 30 * time.Second},
		welcomed:         make(map[types.UserID]struct{}),
		pendingKeyboards: make(map[types.UserID]tgbotapi.ReplyKeyboardMarkup),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Run polls for updates until ctx is cancelled. Each update is handled in
// its own goroutine; ordering guarantees come from the debounce layer, not
// the transport.
func (b *Bot) Run(ctx context.Context, uc *usecase.UseCases) error {
	b.uc = uc

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	logging.From(ctx).Info("telegram bot started",
		slog.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			msg := update.Message
			// a handler panic must not take down the polling loop
			async.Dispatch(ctx, func(ctx context.Context) error {
				b.handleUpdate(ctx, msg)
				return nil
			})
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, msg *tgbotapi.Message) {
	userID := types.UserID(fmt.Sprintf("%d", msg.Chat.ID))

	switch {
	case msg.Location != nil:
		b.handleLocation(ctx, userID, msg)
	case msg.Voice != nil:
		b.handleVoice(ctx, userID, msg)
	case msg.IsCommand():
		b.handleCommand(ctx, userID, msg)
	case msg.Text != "":
		b.handleText(ctx, userID, msg)
	}
}

func (b *Bot) handleCommand(ctx context.Context, userID types.UserID, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		if err := b.uc.History.Reset(ctx, userID); err != nil {
			errutil.Handle(ctx, err, "failed to reset history on /start")
		}
		b.markWelcomed(userID)
		b.reply(ctx, msg.Chat.ID, startMessage(firstName(msg)), zoneKeyboard())
	case "reset":
		b.handleReset(ctx, userID, msg)
	}
}

func (b *Bot) handleText(ctx context.Context, userID types.UserID, msg *tgbotapi.Message) {
	text := msg.Text

	logging.From(ctx).Info("telegram message",
		slog.String("user_id", userID.String()),
		slog.Int("text_len", len(text)),
	)

	if isResetCommand(text) {
		b.handleReset(ctx, userID, msg)
		return
	}

	// First contact: welcome with the zone keyboard. When the first message
	// already carries a search ("hola quiero pizza"), skip the welcome and
	// attach the keyboard to the search reply instead.
	if b.isNewUser(ctx, userID) {
		b.markWelcomed(userID)
		if !hasSearchIntent(text) {
			b.reply(ctx, msg.Chat.ID, welcomeMessage(firstName(msg)), zoneKeyboard())
			if isGreeting(text) {
				return
			}
		} else {
			b.setPendingKeyboard(userID, zoneKeyboard())
		}
	} else if isGreeting(text) {
		b.reply(ctx, msg.Chat.ID, greetingReply(firstName(msg)), nil)
		return
	}

	// Zone buttons are deliberate single taps: process immediately,
	// bypassing the debounce window.
	if zone, ok := zoneButton(text); ok {
		query := fmt.Sprintf("Qué comercios hay en %s?", zone)
		b.sendTyping(msg.Chat.ID)
		result, err := b.uc.Turn.ProcessNow(ctx, &model.TurnInput{
			UserID: userID,
			Text:   query,
			Zone:   zone,
		})
		if err != nil {
			errutil.Handle(ctx, err, "failed to process zone button")
			b.reply(ctx, msg.Chat.ID, errorMessage, nil)
			return
		}
		if err := b.Deliver(ctx, result); err != nil {
			errutil.Handle(ctx, err, "failed to deliver zone result")
		}
		return
	}

	// "te mando la ubicación" announces a pin, it is not a search.
	if announcesLocation(text) {
		b.reply(ctx, msg.Chat.ID, locationPinPrompt, nil)
		return
	}

	ack, err := b.uc.Turn.Submit(ctx, &model.TurnInput{UserID: userID, Text: text})
	if err != nil {
		errutil.Handle(ctx, err, "failed to submit turn")
		b.reply(ctx, msg.Chat.ID, errorMessage, nil)
		return
	}
	if ack.Reason == types.ReasonRateLimited {
		b.reply(ctx, msg.Chat.ID, rateLimitedMessage, nil)
		return
	}
	b.sendTyping(msg.Chat.ID)
}

func (b *Bot) handleReset(ctx context.Context, userID types.UserID, msg *tgbotapi.Message) {
	if err := b.uc.History.Reset(ctx, userID); err != nil {
		errutil.Handle(ctx, err, "failed to reset history")
		b.reply(ctx, msg.Chat.ID, errorMessage, nil)
		return
	}
	b.reply(ctx, msg.Chat.ID, resetDoneMessage, nil)
}

// handleLocation stores the pin and, when the user already asked for
// something, re-runs that query so the answer comes back distance-ranked.
func (b *Bot) handleLocation(ctx context.Context, userID types.UserID, msg *tgbotapi.Message) {
	b.markWelcomed(userID)
	loc := &model.Location{
		Latitude:  msg.Location.Latitude,
		Longitude: msg.Location.Longitude,
	}

	logging.From(ctx).Info("location received",
		slog.String("user_id", userID.String()))

	prev, ok := b.uc.History.LastUserQuery(ctx, userID, time.Now(), "")
	if !ok {
		if err := b.uc.Turn.StoreLocation(ctx, userID, loc); err != nil {
			errutil.Handle(ctx, err, "failed to store location")
			b.reply(ctx, msg.Chat.ID, errorMessage, nil)
			return
		}
		b.reply(ctx, msg.Chat.ID, locationStoredMessage, nil)
		return
	}

	b.reply(ctx, msg.Chat.ID, locationSearchingMessage, nil)
	b.sendTyping(msg.Chat.ID)
	result, err := b.uc.Turn.ProcessNow(ctx, &model.TurnInput{
		UserID:   userID,
		Text:     prev,
		Location: loc,
	})
	if err != nil {
		errutil.Handle(ctx, err, "failed to re-run query with location")
		b.reply(ctx, msg.Chat.ID, errorMessage, nil)
		return
	}
	if err := b.Deliver(ctx, result); err != nil {
		errutil.Handle(ctx, err, "failed to deliver location result")
	}
}

func (b *Bot) handleVoice(ctx context.Context, userID types.UserID, msg *tgbotapi.Message) {
	b.markWelcomed(userID)

	if b.transcriber == nil {
		b.reply(ctx, msg.Chat.ID, voiceUnavailableMessage, nil)
		return
	}
	if msg.Voice.FileSize > maxVoiceBytes {
		b.reply(ctx, msg.Chat.ID, voiceTooLargeMessage, nil)
		return
	}

	b.reply(ctx, msg.Chat.ID, voiceListeningMessage, nil)
	b.sendTyping(msg.Chat.ID)

	audio, err := b.downloadFile(msg.Voice.FileID)
	if err != nil {
		errutil.Handle(ctx, err, "failed to download voice note")
		b.reply(ctx, msg.Chat.ID, voiceFailedMessage, nil)
		return
	}

	text, err := b.transcriber.Transcribe(ctx, audio, "voice.ogg")
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			errutil.Handle(ctx, err, "failed to transcribe voice note")
		}
		b.reply(ctx, msg.Chat.ID, voiceFailedMessage, nil)
		return
	}

	logging.From(ctx).Info("voice note transcribed",
		slog.String("user_id", userID.String()),
		slog.Int("text_len", len(text)),
	)

	// A voice note is a complete thought, not keystrokes: skip the debounce.
	result, err := b.uc.Turn.ProcessNow(ctx, &model.TurnInput{UserID: userID, Text: text})
	if err != nil {
		errutil.Handle(ctx, err, "failed to process transcribed voice note")
		b.reply(ctx, msg.Chat.ID, errorMessage, nil)
		return
	}
	if err := b.Deliver(ctx, result); err != nil {
		errutil.Handle(ctx, err, "failed to deliver voice result")
	}
}

func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve telegram file")
	}

	resp, err := b.httpClient.Get(file.Link(b.api.Token))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download telegram file")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("telegram file download failed",
			goerr.V("status", resp.StatusCode))
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxVoiceBytes))
}

// isNewUser is true when the user has neither been welcomed in this process
// nor left any visible conversation history.
func (b *Bot) isNewUser(ctx context.Context, userID types.UserID) bool {
	b.mu.Lock()
	_, seen := b.welcomed[userID]
	b.mu.Unlock()
	if seen {
		return false
	}

	entries, err := b.uc.History.Visible(ctx, userID, time.Now())
	if err != nil {
		errutil.Handle(ctx, err, "failed to check history for welcome")
		return false
	}
	if len(entries) > 0 {
		b.markWelcomed(userID)
		return false
	}
	return true
}

func (b *Bot) markWelcomed(userID types.UserID) {
	b.mu.Lock()
	b.welcomed[userID] = struct{}{}
	b.mu.Unlock()
}

func (b *Bot) setPendingKeyboard(userID types.UserID, kb tgbotapi.ReplyKeyboardMarkup) {
	b.mu.Lock()
	b.pendingKeyboards[userID] = kb
	b.mu.Unlock()
}

func (b *Bot) takePendingKeyboard(userID types.UserID) (tgbotapi.ReplyKeyboardMarkup, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	kb, ok := b.pendingKeyboards[userID]
	if ok {
		delete(b.pendingKeyboards, userID)
	}
	return kb, ok
}

func (b *Bot) sendTyping(chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := b.api.Request(action); err != nil {
		logging.Default().Warn("failed to send typing action", slog.Any("error", err))
	}
}

// reply sends Markdown and falls back to plain text when Telegram rejects
// the formatting, so an LLM answer with broken markup still reaches the user.
func (b *Bot) reply(ctx context.Context, chatID int64, text string, keyboard any) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	if keyboard != nil {
		msg.ReplyMarkup = keyboard
	}

	if _, err := b.api.Send(msg); err != nil {
		msg.ParseMode = ""
		if _, err := b.api.Send(msg); err != nil {
			errutil.Handle(ctx, goerr.Wrap(err, "failed to send telegram message"),
				"telegram send failed")
		}
	}
}
