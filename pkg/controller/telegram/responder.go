package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/barriolab/vecino/pkg/domain/model"
	"github.com/barriolab/vecino/pkg/domain/types"
)

// Deliver implements interfaces.Responder: debounced turn results come back
// through the chat that submitted them.
func (b *Bot) Deliver(ctx context.Context, result *model.TurnResult) error {
	chatID, err := strconv.ParseInt(result.UserID.String(), 10, 64)
	if err != nil {
		return goerr.Wrap(err, "user ID is not a telegram chat ID",
			goerr.V("user_id", result.UserID))
	}

	text := result.Answer
	switch {
	case result.Reason == types.ReasonNoMatches:
		text = noMatchesMessage
	case text == "":
		// No composer configured: plain candidate cards.
		text = renderCards(result.Candidates)
	}

	var keyboard any
	if kb, ok := b.takePendingKeyboard(result.UserID); ok {
		keyboard = kb
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	if keyboard != nil {
		msg.ReplyMarkup = keyboard
	}

	if _, err := b.api.Send(msg); err != nil {
		msg.ParseMode = ""
		if _, err := b.api.Send(msg); err != nil {
			return goerr.Wrap(err, "failed to deliver result",
				goerr.V("user_id", result.UserID))
		}
	}
	return nil
}

// renderCards formats candidates as Markdown cards, nearest and most
// relevant first. Used only when no LLM composer is configured.
func renderCards(candidates []model.ScoredCandidate) string {
	if len(candidates) == 0 {
		return noMatchesMessage
	}

	var sb strings.Builder
	sb.WriteString("Encontré esto 👇\n")
	for _, c := range candidates {
		r := c.Record
		sb.WriteString(fmt.Sprintf("\n*%s*", r.Name))

		category := r.Category
		if category == "" {
			category = r.Rubro
		}
		if category != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", category))
		}
		sb.WriteString("\n")

		switch {
		case r.Address != "":
			sb.WriteString(fmt.Sprintf("📍 %s, %s", r.Address, r.Zone))
		case r.Zone.IsSet():
			sb.WriteString(fmt.Sprintf("📍 %s", r.Zone))
		}
		if c.DistanceKm != nil {
			sb.WriteString(fmt.Sprintf(" · a %s", formatDistance(*c.DistanceKm)))
		}
		sb.WriteString("\n")

		if r.HoursSpec != "" {
			sb.WriteString(fmt.Sprintf("🕒 %s", r.HoursSpec))
			switch c.Open {
			case types.OpenStateOpen:
				sb.WriteString(" — *abierto ahora* ✅")
			case types.OpenStateClosed:
				sb.WriteString(" — cerrado ahora")
			}
			sb.WriteString("\n")
		}
		if r.Contact != "" {
			sb.WriteString(fmt.Sprintf("📞 %s\n", r.Contact))
		}
		if r.MapsURL != "" {
			sb.WriteString(fmt.Sprintf("🗺️ %s\n", r.MapsURL))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%d metros", int(km*1000))
	}
	return fmt.Sprintf("%.1f km", km)
}
