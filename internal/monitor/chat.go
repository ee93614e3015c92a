package monitor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"StockAdvisor/internal/chat"
	"StockAdvisor/internal/model"
	"StockAdvisor/internal/notifier"
	"StockAdvisor/internal/recorder"
)

// Trade actions.
const (
	TradeBuy       = "buy"
	TradeSell      = "sell"
	TradeWatchlist = "watchlist"
)

// ErrUnknownTrade is returned by Trade for an action other than buy, sell or watchlist.
var ErrUnknownTrade = errors.New("unknown trade action")

// LiveState returns the values the chat router may quote back. Values come
// only from a bundle built for the active symbol.
func (m *Monitor) LiveState() chat.LiveState {
	state := chat.LiveState{
		Symbol:         m.Symbol(),
		Price:          model.Unavailable,
		Recommendation: model.Unavailable,
	}
	if b := m.Bundle(); b != nil && b.Symbol == state.Symbol {
		state.Price = notifier.FormatPrice(b.Quote.CurrentPrice)
		state.Recommendation = string(b.Verdict.Action)
	}
	return state
}

// Post appends a message to the chat log.
func (m *Monitor) Post(sender, body string) model.ChatMessage {
	msg := model.ChatMessage{
		ID:     uuid.NewString(),
		Sender: sender,
		Body:   body,
		Time:   m.now(),
	}
	m.chatMu.Lock()
	m.messages = append(m.messages, msg)
	m.chatMu.Unlock()

	rec := &recorder.ChatRecord{
		ID:     msg.ID,
		Symbol: m.Symbol(),
		Sender: msg.Sender,
		Body:   msg.Body,
		Time:   msg.Time,
	}
	if err := m.recorder.RecordChat(rec); err != nil {
		log.Error().Err(err).Msg("record chat")
	}
	return msg
}

// Reply answers text from the live state and appends the advisor's message.
func (m *Monitor) Reply(text string) model.ChatMessage {
	intent := chat.Classify(text)
	log.Debug().Stringer("intent", intent).Msg("chat classified")
	return m.Post(model.SenderAdvisor, chat.Respond(intent, m.LiveState()))
}

// Messages returns a copy of the chat log.
func (m *Monitor) Messages() []model.ChatMessage {
	m.chatMu.Lock()
	defer m.chatMu.Unlock()
	out := make([]model.ChatMessage, len(m.messages))
	copy(out, m.messages)
	return out
}

// Trade confirms a trade action through the notifier and logs it to the chat.
// No order is placed anywhere.
func (m *Monitor) Trade(ctx context.Context, action string) (string, error) {
	switch action {
	case TradeBuy, TradeSell, TradeWatchlist:
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownTrade, action)
	}

	state := m.LiveState()
	text := notifier.FormatTrade(action, state.Symbol, state.Price)
	m.notify(ctx, text)
	m.Post(model.SenderSystem, fmt.Sprintf("Action: %s for %s", action, state.Symbol))
	return text, nil
}
