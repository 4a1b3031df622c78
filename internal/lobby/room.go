package lobby

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tom-jt/Diviners-Gambit/internal/game"
	"github.com/tom-jt/Diviners-Gambit/internal/game/settings"
)

const (
	MinPlayers = 2
	MaxPlayers = 8
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("room is full")
	ErrRoomStarted    = errors.New("room already started")
	ErrRoomNotStarted = errors.New("room has not started")
	ErrNameTaken      = errors.New("name already taken in this room")
	ErrNotInRoom      = errors.New("player not in room")
	ErrNotHost        = errors.New("only the host can do that")
	ErrWrongPassword  = errors.New("wrong room password")
	ErrInvalidName    = errors.New("invalid player name")
	ErrBadCapacity    = errors.New("capacity must be between 2 and 8")
)

// RoomState is the lifecycle of a room.
type RoomState int

const (
	RoomStateWaiting RoomState = iota
	RoomStatePlaying
	RoomStateClosed
)

func (s RoomState) String() string {
	switch s {
	case RoomStateWaiting:
		return "WAITING"
	case RoomStatePlaying:
		return "PLAYING"
	case RoomStateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Room is a group of players sharing one match. Seats are assigned in join
// order and become match player ids when the room starts.
type Room struct {
	ID         string
	Name       string
	Host       string
	Capacity   int
	Settings   settings.Settings
	State      RoomState
	Seats      []string
	Left       map[string]bool
	Watchers   map[string]bool
	CreateTime time.Time
	StartTime  *time.Time

	passwordHash []byte
	match        *game.Match
	mu           sync.RWMutex
}

// RoomSnapshot captures a consistent view of a room.
type RoomSnapshot struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Host       string     `json:"host"`
	Capacity   int        `json:"capacity"`
	State      string     `json:"state"`
	Private    bool       `json:"private"`
	Mode       string     `json:"mode"`
	Pool       string     `json:"pool"`
	Diviners   bool       `json:"diviners"`
	Players    []string   `json:"players"`
	Watchers   int        `json:"watchers"`
	CreateTime time.Time  `json:"create_time"`
	StartTime  *time.Time `json:"start_time,omitempty"`
}

// NewRoom creates a waiting room with host in the first seat. An empty
// password makes the room public.
func NewRoom(name, host, password string, capacity int, s settings.Settings) (*Room, error) {
	if host == "" {
		return nil, ErrInvalidName
	}
	if capacity == 0 {
		capacity = MaxPlayers
	}
	if capacity < MinPlayers || capacity > MaxPlayers {
		return nil, ErrBadCapacity
	}

	r := &Room{
		ID:         uuid.New().String(),
		Name:       name,
		Host:       host,
		Capacity:   capacity,
		Settings:   s.Normalized(),
		State:      RoomStateWaiting,
		Seats:      []string{host},
		Left:       make(map[string]bool),
		Watchers:   make(map[string]bool),
		CreateTime: time.Now(),
	}
	if r.Name == "" {
		r.Name = fmt.Sprintf("%s's room", host)
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash room password: %w", err)
		}
		r.passwordHash = hash
	}
	return r, nil
}

// Private reports whether joining needs a password.
func (r *Room) Private() bool {
	return len(r.passwordHash) > 0
}

func (r *Room) checkPassword(password string) error {
	if !r.Private() {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword(r.passwordHash, []byte(password)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// AddPlayer seats a player in a waiting room.
func (r *Room) AddPlayer(name, password string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		return ErrInvalidName
	}
	if r.State != RoomStateWaiting {
		return ErrRoomStarted
	}
	if r.seatOf(name) >= 0 {
		return ErrNameTaken
	}
	if len(r.Seats) >= r.Capacity {
		return ErrRoomFull
	}
	if err := r.checkPassword(password); err != nil {
		return err
	}

	r.Seats = append(r.Seats, name)
	return nil
}

// RemovePlayer unseats a player. Before the match starts the seat is freed
// and the host moves to the next seat; once it runs, the player forfeits
// their match seat. It returns true when the room has nobody left.
func (r *Room) RemovePlayer(name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seat := r.seatOf(name)
	if seat < 0 || r.Left[name] {
		return false, ErrNotInRoom
	}

	if r.State == RoomStateWaiting {
		r.Seats = append(r.Seats[:seat], r.Seats[seat+1:]...)
	} else {
		r.Left[name] = true
		if r.match != nil {
			if err := r.match.Leave(seat); err != nil {
				return false, fmt.Errorf("failed to forfeit seat: %w", err)
			}
		}
	}

	if r.Host == name {
		r.Host = r.nextHost()
	}
	empty := r.Host == ""
	if empty {
		r.State = RoomStateClosed
	}
	return empty, nil
}

func (r *Room) nextHost() string {
	for _, name := range r.Seats {
		if !r.Left[name] {
			return name
		}
	}
	return ""
}

func (r *Room) seatOf(name string) int {
	for i, seat := range r.Seats {
		if seat == name {
			return i
		}
	}
	return -1
}

// Seat returns the match player id of name.
func (r *Room) Seat(name string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seat := r.seatOf(name)
	if seat < 0 || r.Left[name] {
		return -1, false
	}
	return seat, true
}

// IsHost checks if the given player hosts the room.
func (r *Room) IsHost(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Host == name
}

// Configure changes the settings of a waiting room.
func (r *Room) Configure(s settings.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.State != RoomStateWaiting {
		return ErrRoomStarted
	}
	r.Settings = s.Normalized()
	return nil
}

// AddWatcher registers a spectator.
func (r *Room) AddWatcher(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Watchers[name] = true
}

// RemoveWatcher removes a spectator.
func (r *Room) RemoveWatcher(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.Watchers[name]; exists {
		delete(r.Watchers, name)
		return true
	}
	return false
}

// start creates and starts the match. opts.Settings is overwritten with the
// room settings.
func (r *Room) start(opts game.Options) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.State != RoomStateWaiting {
		return ErrRoomStarted
	}
	if len(r.Seats) < MinPlayers {
		return game.ErrTooFewPlayers
	}

	opts.Settings = r.Settings
	match, err := game.NewMatch(r.ID, append([]string(nil), r.Seats...), opts)
	if err != nil {
		return err
	}
	if err := match.Start(); err != nil {
		return err
	}

	now := time.Now()
	r.match = match
	r.State = RoomStatePlaying
	r.StartTime = &now
	return nil
}

// Match returns the running match, or nil before the room starts.
func (r *Room) Match() *game.Match {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.match
}

// Snapshot returns a consistent copy of the room state.
func (r *Room) Snapshot() RoomSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := make([]string, 0, len(r.Seats))
	for _, name := range r.Seats {
		if !r.Left[name] {
			players = append(players, name)
		}
	}

	return RoomSnapshot{
		ID:         r.ID,
		Name:       r.Name,
		Host:       r.Host,
		Capacity:   r.Capacity,
		State:      r.State.String(),
		Private:    r.Private(),
		Mode:       r.Settings.Mode.String(),
		Pool:       string(r.Settings.Pool),
		Diviners:   r.Settings.Diviners,
		Players:    players,
		Watchers:   len(r.Watchers),
		CreateTime: r.CreateTime,
		StartTime:  cloneTime(r.StartTime),
	}
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	cp := *src
	return &cp
}
