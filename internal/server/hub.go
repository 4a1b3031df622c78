package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tom-jt/Diviners-Gambit/internal/game"
	"github.com/tom-jt/Diviners-Gambit/internal/game/settings"
	"github.com/tom-jt/Diviners-Gambit/internal/game/state"
	"github.com/tom-jt/Diviners-Gambit/internal/lobby"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 256
)

var (
	errNotInRoom     = errors.New("not in a room")
	errAlreadyInRoom = errors.New("already in a room")
	errNotStarted    = errors.New("match has not started")
)

// Client is one websocket connection. roomID and seat are guarded by the
// hub mutex.
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	name   string
	roomID string
	seat   int
}

// HubOptions configure a Hub.
type HubOptions struct {
	// Defaults apply to rooms that do not pick their own settings.
	Defaults       settings.Settings
	Presets        []settings.Preset
	ReadLimit      int64
	AllowedOrigins []string
}

// Hub connects websocket clients to lobby rooms and their matches.
type Hub struct {
	rooms    *lobby.Manager
	defaults settings.Settings
	presets  []settings.Preset

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex

	upgrader  websocket.Upgrader
	readLimit int64
	logger    *zap.Logger
}

// NewHub creates a hub serving the rooms of rooms.
func NewHub(rooms *lobby.Manager, opts HubOptions, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ReadLimit <= 0 {
		opts.ReadLimit = 4096
	}
	if opts.Presets == nil {
		opts.Presets = settings.Presets
	}
	allowed := append([]string(nil), opts.AllowedOrigins...)

	return &Hub{
		rooms:      rooms,
		defaults:   opts.Defaults.Normalized(),
		presets:    opts.Presets,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return len(allowed) == 0 || slices.Contains(allowed, r.Header.Get("Origin"))
			},
		},
		readLimit: opts.ReadLimit,
		logger:    logger,
	}
}

// Run serves registrations until ctx is cancelled, then disconnects every
// client.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("client registered", zap.String("remote", client.conn.RemoteAddr().String()))

		case client := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[client]
			roomID, name := client.roomID, client.name
			if ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			if ok && roomID != "" {
				go h.departed(roomID, name)
			}
			h.logger.Debug("client unregistered", zap.String("player", name))

		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return nil
		}
	}
}

// departed forfeits a disconnected player.
func (h *Hub) departed(roomID, name string) {
	if err := h.rooms.Leave(roomID, name); err != nil && !errors.Is(err, lobby.ErrRoomNotFound) {
		h.logger.Warn("failed to remove disconnected player",
			zap.String("room_id", roomID),
			zap.String("player", name),
			zap.Error(err),
		)
	}
	h.refreshSeats(roomID)
	h.broadcastState(roomID)
}

// MatchOptions returns a lobby.OptionsFunc that routes match notifications
// of each room to its clients. A zero base seed picks a random seed per match.
func (h *Hub) MatchOptions(base game.Options) lobby.OptionsFunc {
	return func(r *lobby.Room) game.Options {
		opts := base
		notify := game.NewNotifySink(r.ID, h.Notify(r.ID))
		if base.Sink != nil {
			opts.Sink = game.MultiSink{notify, base.Sink}
		} else {
			opts.Sink = notify
		}
		if opts.Seed == 0 {
			opts.Seed = rand.Uint64()
		}
		return opts
	}
}

// Notify returns a handler delivering notifications to the clients of a
// room. Notifications addressed to one player only reach that seat. It is
// called under the match lock and never blocks.
func (h *Hub) Notify(roomID string) game.NotificationHandler {
	return func(n game.Notification) {
		data, err := json.Marshal(WSResponse{Type: n.Type, RoomID: roomID, Data: n})
		if err != nil {
			h.logger.Error("failed to encode notification", zap.String("type", n.Type), zap.Error(err))
			return
		}

		h.mu.RLock()
		defer h.mu.RUnlock()
		for client := range h.clients {
			if client.roomID != roomID {
				continue
			}
			if n.PlayerID != state.NoPlayer && client.seat != n.PlayerID {
				continue
			}
			h.trySend(client, data)
		}
	}
}

// trySend must be called with h.mu held.
func (h *Hub) trySend(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		h.logger.Warn("client send buffer full, dropping message", zap.String("player", client.name))
	}
}

func (h *Hub) sendTo(client *Client, resp WSResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error("failed to encode response", zap.String("type", resp.Type), zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.clients[client] {
		h.trySend(client, data)
	}
}

func (h *Hub) sendError(client *Client, roomID string, err error) {
	h.sendTo(client, WSResponse{Type: MsgError, RoomID: roomID, Error: err.Error()})
}

// position returns the room and seat of a client.
func (h *Hub) position(client *Client) (string, int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return client.roomID, client.seat
}

func (h *Hub) seatClient(client *Client, name, roomID string, seat int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client.name, client.roomID, client.seat = name, roomID, seat
}

// refreshSeats re-reads seat numbers after seats moved in a waiting room.
func (h *Hub) refreshSeats(roomID string) {
	room, err := h.rooms.Room(roomID)
	if err != nil {
		return
	}
	h.mu.RLock()
	members := make([]*Client, 0)
	for client := range h.clients {
		if client.roomID == roomID {
			members = append(members, client)
		}
	}
	h.mu.RUnlock()

	seats := make(map[*Client]int, len(members))
	for _, client := range members {
		seat, ok := room.Seat(client.name)
		if !ok {
			seat = state.NoPlayer
		}
		seats[client] = seat
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client, seat := range seats {
		if client.roomID == roomID {
			client.seat = seat
		}
	}
}

// handleMessage runs one client command. Match errors are reported to the
// client only; state is re-broadcast after every change.
func (h *Hub) handleMessage(client *Client, msg WSMessage) {
	roomID, seat := h.position(client)

	var err error
	switch msg.Type {
	case CmdListRooms:
		h.sendTo(client, WSResponse{Type: MsgRooms, Data: h.rooms.Rooms()})
		return

	case CmdCreateRoom:
		err = h.createRoom(client, roomID, msg.Data)

	case CmdJoinRoom:
		err = h.joinRoom(client, roomID, msg.RoomID, msg.Data)

	case CmdLeaveRoom:
		if roomID == "" {
			err = errNotInRoom
			break
		}
		if err = h.rooms.Leave(roomID, client.name); err != nil {
			break
		}
		h.seatClient(client, client.name, "", state.NoPlayer)
		h.sendTo(client, WSResponse{Type: MsgRoomLeft, RoomID: roomID})
		h.refreshSeats(roomID)
		h.broadcastState(roomID)

	case CmdStart:
		if roomID == "" {
			err = errNotInRoom
			break
		}
		h.refreshSeats(roomID)
		if _, err = h.rooms.Start(roomID, client.name); err == nil {
			h.broadcastState(roomID)
		}

	case CmdPlayCard:
		var d playCardData
		if err = decode(msg.Data, &d); err != nil {
			break
		}
		err = h.withMatch(roomID, func(m *game.Match) error { return m.PlayCard(seat, d.CardID) })

	case CmdChooseTarget:
		var d chooseTargetData
		if err = decode(msg.Data, &d); err != nil {
			break
		}
		err = h.withMatch(roomID, func(m *game.Match) error { return m.ChooseTarget(seat, d.Target) })

	case CmdRematch:
		if roomID == "" {
			err = errNotInRoom
			break
		}
		if err = h.rooms.Rematch(roomID, client.name); err == nil {
			h.broadcastState(roomID)
		}

	case CmdState:
		if roomID == "" {
			err = errNotInRoom
			break
		}
		h.sendState(client, roomID, seat)

	default:
		err = fmt.Errorf("unknown command %q", msg.Type)
	}

	if err != nil {
		h.logger.Debug("command rejected",
			zap.String("type", msg.Type),
			zap.String("player", client.name),
			zap.Error(err),
		)
		h.sendError(client, roomID, err)
	}
}

func (h *Hub) withMatch(roomID string, fn func(m *game.Match) error) error {
	if roomID == "" {
		return errNotInRoom
	}
	room, err := h.rooms.Room(roomID)
	if err != nil {
		return err
	}
	match := room.Match()
	if match == nil {
		return errNotStarted
	}
	if err := fn(match); err != nil {
		return err
	}
	h.broadcastState(roomID)
	return nil
}

func (h *Hub) createRoom(client *Client, current string, raw json.RawMessage) error {
	if current != "" {
		return errAlreadyInRoom
	}
	var d createRoomData
	if err := decode(raw, &d); err != nil {
		return err
	}
	s, err := h.roomSettings(d)
	if err != nil {
		return err
	}
	room, err := h.rooms.CreateRoom(d.Name, d.Player, d.Password, d.Capacity, s)
	if err != nil {
		return err
	}
	h.seatClient(client, d.Player, room.ID, 0)
	h.sendTo(client, WSResponse{Type: MsgRoomJoined, RoomID: room.ID, Data: roomJoinedData{Seat: 0, Room: room.Snapshot()}})
	return nil
}

func (h *Hub) joinRoom(client *Client, current, roomID string, raw json.RawMessage) error {
	if current != "" {
		return errAlreadyInRoom
	}
	var d joinRoomData
	if err := decode(raw, &d); err != nil {
		return err
	}
	room, err := h.rooms.Join(roomID, d.Player, d.Password)
	if err != nil {
		return err
	}
	seat, _ := room.Seat(d.Player)
	h.seatClient(client, d.Player, room.ID, seat)
	h.sendTo(client, WSResponse{Type: MsgRoomJoined, RoomID: room.ID, Data: roomJoinedData{Seat: seat, Room: room.Snapshot()}})
	h.broadcastState(room.ID)
	return nil
}

// roomSettings applies the choices of a create_room command to the defaults.
func (h *Hub) roomSettings(d createRoomData) (settings.Settings, error) {
	s := h.defaults
	if d.Mode != "" {
		mode, err := settings.ParseMode(d.Mode)
		if err != nil {
			return s, err
		}
		s.Mode = mode
	}
	if d.Pool != "" {
		pool := settings.Pool(d.Pool)
		if !pool.Valid() {
			preset, err := settings.FindPreset(h.presets, d.Pool)
			if err != nil {
				return s, err
			}
			pool = preset.Pool
		}
		s.Pool = pool
	}
	if d.Diviners != nil {
		s.Diviners = *d.Diviners
	}
	return s, nil
}

func (h *Hub) sendState(client *Client, roomID string, seat int) {
	room, err := h.rooms.Room(roomID)
	if err != nil {
		h.sendError(client, roomID, err)
		return
	}
	if match := room.Match(); match != nil {
		h.sendTo(client, WSResponse{Type: MsgMatchState, RoomID: roomID, Data: match.View(seat)})
		return
	}
	h.sendTo(client, WSResponse{Type: MsgRoomState, RoomID: roomID, Data: room.Snapshot()})
}

// broadcastState sends every client of a room its own view.
func (h *Hub) broadcastState(roomID string) {
	type member struct {
		client *Client
		seat   int
	}
	h.mu.RLock()
	var members []member
	for client := range h.clients {
		if client.roomID == roomID {
			members = append(members, member{client, client.seat})
		}
	}
	h.mu.RUnlock()

	for _, m := range members {
		h.sendState(m.client, roomID, m.seat)
	}
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return errors.New("missing command data")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid command data: %w", err)
	}
	return nil
}

// ServeWS upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		seat: state.NoPlayer,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go h.writePump(client)
	go h.readPump(client)
}

func (h *Hub) readPump(client *Client) {
	defer func() {
		select {
		case h.unregister <- client:
		case <-h.done:
		}
		client.conn.Close()
	}()

	client.conn.SetReadLimit(h.readLimit)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			h.sendError(client, "", fmt.Errorf("invalid message: %w", err))
			continue
		}
		h.handleMessage(client, msg)
	}
}

func (h *Hub) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
