package game

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tom-jt/Diviners-Gambit/internal/game/state"
)

// Notification types.
const (
	NotifyCardRevealed = "CARD_REVEALED"
	NotifyArrow        = "ARROW"
	NotifyPlayerDied   = "PLAYER_DIED"
	NotifyGameEnded    = "GAME_ENDED"
	NotifyTextUpdated  = "TEXT_UPDATED"
	NotifyHandUpdated  = "HAND_UPDATED"
)

// Sink receives presentation updates from a match. Calls are made while the
// match is resolving and must not call back into it.
type Sink interface {
	CardRevealed(playerID, cardID int)
	Arrow(ownerID, targetID int)
	PlayerDied(playerID int)
	// GameEnded reports the winner, or -1 and an empty name for a tie.
	GameEnded(winnerID int, winnerName string)
	TextUpdated(text string)
	HandUpdated(playerID int, hand []state.HandSlot)
}

// Notification is a sink update in transport form.
type Notification struct {
	Type      string                 `json:"type"`
	MatchID   string                 `json:"match_id"`
	PlayerID  int                    `json:"player_id"` // -1 for broadcasts
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// NotificationHandler consumes notifications.
type NotificationHandler func(notification Notification)

// NotifySink converts sink calls into notifications for a handler.
type NotifySink struct {
	matchID string
	handler NotificationHandler
}

// NewNotifySink creates a sink that forwards to handler.
func NewNotifySink(matchID string, handler NotificationHandler) *NotifySink {
	return &NotifySink{matchID: matchID, handler: handler}
}

func (s *NotifySink) emit(kind string, playerID int, data map[string]interface{}) {
	if s.handler == nil {
		return
	}
	s.handler(Notification{
		Type:      kind,
		MatchID:   s.matchID,
		PlayerID:  playerID,
		Timestamp: time.Now(),
		Data:      data,
	})
}

func (s *NotifySink) CardRevealed(playerID, cardID int) {
	s.emit(NotifyCardRevealed, -1, map[string]interface{}{"owner": playerID, "card_id": cardID})
}

func (s *NotifySink) Arrow(ownerID, targetID int) {
	s.emit(NotifyArrow, -1, map[string]interface{}{"owner": ownerID, "target": targetID})
}

func (s *NotifySink) PlayerDied(playerID int) {
	s.emit(NotifyPlayerDied, -1, map[string]interface{}{"player": playerID})
}

func (s *NotifySink) GameEnded(winnerID int, winnerName string) {
	s.emit(NotifyGameEnded, -1, map[string]interface{}{"winner": winnerID, "winner_name": winnerName})
}

func (s *NotifySink) TextUpdated(text string) {
	s.emit(NotifyTextUpdated, -1, map[string]interface{}{"text": text})
}

// HandUpdated is addressed to the hand's owner only.
func (s *NotifySink) HandUpdated(playerID int, hand []state.HandSlot) {
	s.emit(NotifyHandUpdated, playerID, map[string]interface{}{"hand": append([]state.HandSlot(nil), hand...)})
}

// RecordingSink keeps the most recent notifications for later inspection.
type RecordingSink struct {
	*NotifySink

	mu      sync.RWMutex
	entries []Notification
	limit   int
}

// NewRecordingSink creates a sink keeping at most limit notifications
// (200 when limit <= 0).
func NewRecordingSink(limit int) *RecordingSink {
	if limit <= 0 {
		limit = 200
	}
	r := &RecordingSink{entries: make([]Notification, 0, 32), limit: limit}
	r.NotifySink = NewNotifySink("", r.record)
	return r
}

func (r *RecordingSink) record(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, n)
	if len(r.entries) > r.limit {
		r.entries = r.entries[len(r.entries)-r.limit:]
	}
}

// Notifications returns a copy of what was recorded, oldest first.
func (r *RecordingSink) Notifications() []Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Notification, len(r.entries))
	copy(out, r.entries)
	return out
}

// OfType returns the recorded notifications of one type.
func (r *RecordingSink) OfType(kind string) []Notification {
	var out []Notification
	for _, n := range r.Notifications() {
		if n.Type == kind {
			out = append(out, n)
		}
	}
	return out
}

// LogSink writes every update to a logger.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a logging sink. A nil logger discards everything.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) CardRevealed(playerID, cardID int) {
	s.logger.Info("card revealed", zap.Int("player_id", playerID), zap.Int("card_id", cardID))
}

func (s *LogSink) Arrow(ownerID, targetID int) {
	s.logger.Debug("card targeted", zap.Int("owner", ownerID), zap.Int("target", targetID))
}

func (s *LogSink) PlayerDied(playerID int) {
	s.logger.Info("player died", zap.Int("player_id", playerID))
}

func (s *LogSink) GameEnded(winnerID int, winnerName string) {
	if winnerID < 0 {
		s.logger.Info("game tied")
		return
	}
	s.logger.Info("game won", zap.Int("winner", winnerID), zap.String("winner_name", winnerName))
}

func (s *LogSink) TextUpdated(text string) {
	s.logger.Debug("text updated", zap.String("text", text))
}

func (s *LogSink) HandUpdated(playerID int, hand []state.HandSlot) {
	s.logger.Debug("hand updated", zap.Int("player_id", playerID), zap.Int("cards", len(hand)))
}

// MultiSink fans every update out to several sinks in order.
type MultiSink []Sink

func (m MultiSink) CardRevealed(playerID, cardID int) {
	for _, s := range m {
		s.CardRevealed(playerID, cardID)
	}
}

func (m MultiSink) Arrow(ownerID, targetID int) {
	for _, s := range m {
		s.Arrow(ownerID, targetID)
	}
}

func (m MultiSink) PlayerDied(playerID int) {
	for _, s := range m {
		s.PlayerDied(playerID)
	}
}

func (m MultiSink) GameEnded(winnerID int, winnerName string) {
	for _, s := range m {
		s.GameEnded(winnerID, winnerName)
	}
}

func (m MultiSink) TextUpdated(text string) {
	for _, s := range m {
		s.TextUpdated(text)
	}
}

func (m MultiSink) HandUpdated(playerID int, hand []state.HandSlot) {
	for _, s := range m {
		s.HandUpdated(playerID, hand)
	}
}
