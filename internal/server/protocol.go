package server

import "encoding/json"

// Commands accepted from websocket clients.
const (
	CmdCreateRoom   = "create_room"
	CmdJoinRoom     = "join_room"
	CmdLeaveRoom    = "leave_room"
	CmdListRooms    = "list_rooms"
	CmdStart        = "start"
	CmdPlayCard     = "play_card"
	CmdChooseTarget = "choose_target"
	CmdRematch      = "rematch"
	CmdState        = "state"
)

// Messages sent to websocket clients, in addition to match notifications
// which keep their own type.
const (
	MsgRoomJoined = "room_joined"
	MsgRoomLeft   = "room_left"
	MsgRooms      = "rooms"
	MsgRoomState  = "room_state"
	MsgMatchState = "match_state"
	MsgError      = "error"
)

// WSMessage is a client command.
type WSMessage struct {
	Type   string          `json:"type"`
	RoomID string          `json:"room_id,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// WSResponse is everything the server sends.
type WSResponse struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id,omitempty"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

type createRoomData struct {
	Name     string `json:"name"`
	Player   string `json:"player"`
	Password string `json:"password"`
	Capacity int    `json:"capacity"`
	Mode     string `json:"mode"`
	Pool     string `json:"pool"`
	Diviners *bool  `json:"diviners"`
}

type joinRoomData struct {
	Player   string `json:"player"`
	Password string `json:"password"`
}

type playCardData struct {
	CardID int `json:"card_id"`
}

type chooseTargetData struct {
	Target int `json:"target"`
}

type roomJoinedData struct {
	Seat int `json:"seat"`
	Room any `json:"room"`
}
