// Package lobby groups players into rooms and starts a match per room.
package lobby

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/tom-jt/Diviners-Gambit/internal/game"
	"github.com/tom-jt/Diviners-Gambit/internal/game/settings"
)

// OptionsFunc supplies the match options of a room that is starting, such as
// its notification sink.
type OptionsFunc func(r *Room) game.Options

// Manager manages rooms.
type Manager struct {
	rooms   map[string]*Room
	mu      sync.RWMutex
	options OptionsFunc
	logger  *zap.Logger
}

// NewManager creates a room manager. options may be nil.
func NewManager(options OptionsFunc, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if options == nil {
		options = func(*Room) game.Options { return game.Options{} }
	}
	return &Manager{
		rooms:   make(map[string]*Room),
		options: options,
		logger:  logger,
	}
}

// CreateRoom opens a room hosted by host.
func (m *Manager) CreateRoom(name, host, password string, capacity int, s settings.Settings) (*Room, error) {
	room, err := NewRoom(name, host, password, capacity, s)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.rooms[room.ID] = room
	m.mu.Unlock()

	m.logger.Info("room created",
		zap.String("room_id", room.ID),
		zap.String("name", room.Name),
		zap.String("host", host),
		zap.Int("capacity", room.Capacity),
		zap.Bool("private", room.Private()),
	)
	return room, nil
}

// Room retrieves a room by id.
func (m *Manager) Room(roomID string) (*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Join seats a player in a room.
func (m *Manager) Join(roomID, name, password string) (*Room, error) {
	room, err := m.Room(roomID)
	if err != nil {
		return nil, err
	}
	if err := room.AddPlayer(name, password); err != nil {
		return nil, err
	}
	m.logger.Info("player joined room", zap.String("room_id", roomID), zap.String("player", name))
	return room, nil
}

// Leave removes a player from a room, forfeiting their seat in a running
// match. Empty rooms are closed and removed.
func (m *Manager) Leave(roomID, name string) error {
	room, err := m.Room(roomID)
	if err != nil {
		return err
	}
	empty, err := room.RemovePlayer(name)
	if err != nil {
		return err
	}
	m.logger.Info("player left room", zap.String("room_id", roomID), zap.String("player", name))
	if empty {
		m.RemoveRoom(roomID)
	}
	return nil
}

// Start begins the match of a room. Only the host may start it.
func (m *Manager) Start(roomID, name string) (*game.Match, error) {
	room, err := m.Room(roomID)
	if err != nil {
		return nil, err
	}
	if !room.IsHost(name) {
		return nil, ErrNotHost
	}
	if err := room.start(m.options(room)); err != nil {
		return nil, err
	}

	snap := room.Snapshot()
	m.logger.Info("match started",
		zap.String("room_id", roomID),
		zap.Strings("players", snap.Players),
		zap.String("mode", snap.Mode),
		zap.String("pool", snap.Pool),
	)
	return room.Match(), nil
}

// Rematch starts the next game of a finished match. Only the host may ask.
func (m *Manager) Rematch(roomID, name string) error {
	room, err := m.Room(roomID)
	if err != nil {
		return err
	}
	if !room.IsHost(name) {
		return ErrNotHost
	}
	match := room.Match()
	if match == nil {
		return ErrRoomNotStarted
	}
	return match.Rematch()
}

// RemoveRoom forgets a room.
func (m *Manager) RemoveRoom(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.rooms, roomID)

	m.logger.Info("room removed", zap.String("room_id", roomID))
}

// Rooms returns snapshots of every room, oldest first.
func (m *Manager) Rooms() []RoomSnapshot {
	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		rooms = append(rooms, room)
	}
	m.mu.RUnlock()

	out := make([]RoomSnapshot, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, room.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreateTime.Equal(out[j].CreateTime) {
			return out[i].CreateTime.Before(out[j].CreateTime)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ActiveRoomCount returns the number of rooms with a running match.
func (m *Manager) ActiveRoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, room := range m.rooms {
		room.mu.RLock()
		if room.State == RoomStatePlaying {
			count++
		}
		room.mu.RUnlock()
	}
	return count
}
