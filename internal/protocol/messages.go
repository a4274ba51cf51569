package protocol

import "fmt"

// HandshakeRequestMsg is HANDSHAKE_REQUEST's payload.
type HandshakeRequestMsg struct {
	PlayerName string
}

func (m HandshakeRequestMsg) Encode() []byte {
	w := NewWriter()
	w.WriteString(m.PlayerName)
	return Frame(HandshakeRequest, w.Bytes())
}

func DecodeHandshakeRequest(payload []byte) (HandshakeRequestMsg, error) {
	r := NewReader(payload)
	name, err := r.ReadString()
	return HandshakeRequestMsg{PlayerName: name}, err
}

// HandshakeAckMsg is S2C_HANDSHAKE_ACK's payload.
type HandshakeAckMsg struct {
	AssignedPlayerID string
}

func (m HandshakeAckMsg) Encode() []byte {
	w := NewWriter()
	w.WriteString(m.AssignedPlayerID)
	return Frame(S2CHandshakeAck, w.Bytes())
}

func DecodeHandshakeAck(payload []byte) (HandshakeAckMsg, error) {
	r := NewReader(payload)
	id, err := r.ReadString()
	return HandshakeAckMsg{AssignedPlayerID: id}, err
}

// RegisterAccountMsg / LoginAccountMsg share the same (username, password)
// shape; password is opaque to the core (spec §1 Non-goals).
type RegisterAccountMsg struct {
	Username string
	Password string
}

func (m RegisterAccountMsg) Encode() []byte {
	w := NewWriter()
	w.WriteString(m.Username)
	w.WriteString(m.Password)
	return Frame(RegisterAccount, w.Bytes())
}

func DecodeRegisterAccount(payload []byte) (RegisterAccountMsg, error) {
	r := NewReader(payload)
	u, err := r.ReadString()
	if err != nil {
		return RegisterAccountMsg{}, err
	}
	p, err := r.ReadString()
	return RegisterAccountMsg{Username: u, Password: p}, err
}

type LoginAccountMsg struct {
	Username string
	Password string
}

func (m LoginAccountMsg) Encode() []byte {
	w := NewWriter()
	w.WriteString(m.Username)
	w.WriteString(m.Password)
	return Frame(LoginAccount, w.Bytes())
}

func DecodeLoginAccount(payload []byte) (LoginAccountMsg, error) {
	r := NewReader(payload)
	u, err := r.ReadString()
	if err != nil {
		return LoginAccountMsg{}, err
	}
	p, err := r.ReadString()
	return LoginAccountMsg{Username: u, Password: p}, err
}

// AuthResultMsg is S2C_AUTH_RESULT's payload.
type AuthResultMsg struct {
	OK         bool
	Message    string
	AuthedName string
}

func (m AuthResultMsg) Encode() []byte {
	w := NewWriter()
	w.WriteBool(m.OK)
	w.WriteString(m.Message)
	w.WriteString(m.AuthedName)
	return Frame(S2CAuthResult, w.Bytes())
}

func DecodeAuthResult(payload []byte) (AuthResultMsg, error) {
	r := NewReader(payload)
	var m AuthResultMsg
	var err error
	if m.OK, err = r.ReadBool(); err != nil {
		return m, err
	}
	if m.Message, err = r.ReadString(); err != nil {
		return m, err
	}
	m.AuthedName, err = r.ReadString()
	return m, err
}

// RoomListEntry is one row of S2C_ROOM_LIST.
type RoomListEntry struct {
	RoomID  string
	Name    string
	Count   int32
	Max     int32
	Private bool
	State   string
}

// RoomListMsg is S2C_ROOM_LIST's payload.
type RoomListMsg struct {
	Rooms []RoomListEntry
}

func (m RoomListMsg) Encode() []byte {
	w := NewWriter()
	w.WriteU32(uint32(len(m.Rooms)))
	for _, r := range m.Rooms {
		w.WriteString(r.RoomID)
		w.WriteString(r.Name)
		w.WriteI32(r.Count)
		w.WriteI32(r.Max)
		w.WriteBool(r.Private)
		w.WriteString(r.State)
	}
	return Frame(S2CRoomList, w.Bytes())
}

func DecodeRoomList(payload []byte) (RoomListMsg, error) {
	r := NewReader(payload)
	n, err := r.ReadU32()
	if err != nil {
		return RoomListMsg{}, err
	}
	rooms := make([]RoomListEntry, 0, n)
	for i := uint32(0); i < n; i++ {
		var e RoomListEntry
		if e.RoomID, err = r.ReadString(); err != nil {
			return RoomListMsg{}, err
		}
		if e.Name, err = r.ReadString(); err != nil {
			return RoomListMsg{}, err
		}
		if e.Count, err = r.ReadI32(); err != nil {
			return RoomListMsg{}, err
		}
		if e.Max, err = r.ReadI32(); err != nil {
			return RoomListMsg{}, err
		}
		if e.Private, err = r.ReadBool(); err != nil {
			return RoomListMsg{}, err
		}
		if e.State, err = r.ReadString(); err != nil {
			return RoomListMsg{}, err
		}
		rooms = append(rooms, e)
	}
	return RoomListMsg{Rooms: rooms}, nil
}

// CreateRoomMsg is C2S_CREATE_ROOM's payload.
type CreateRoomMsg struct {
	Name       string
	MaxPlayers int32
	Private    bool
}

func (m CreateRoomMsg) Encode() []byte {
	w := NewWriter()
	w.WriteString(m.Name)
	w.WriteI32(m.MaxPlayers)
	w.WriteBool(m.Private)
	return Frame(C2SCreateRoom, w.Bytes())
}

func DecodeCreateRoom(payload []byte) (CreateRoomMsg, error) {
	r := NewReader(payload)
	var m CreateRoomMsg
	var err error
	if m.Name, err = r.ReadString(); err != nil {
		return m, err
	}
	if m.MaxPlayers, err = r.ReadI32(); err != nil {
		return m, err
	}
	m.Private, err = r.ReadBool()
	return m, err
}

// JoinRoomMsg is C2S_JOIN_ROOM's payload.
type JoinRoomMsg struct {
	RoomID string
}

func (m JoinRoomMsg) Encode() []byte {
	w := NewWriter()
	w.WriteString(m.RoomID)
	return Frame(C2SJoinRoom, w.Bytes())
}

func DecodeJoinRoom(payload []byte) (JoinRoomMsg, error) {
	r := NewReader(payload)
	id, err := r.ReadString()
	return JoinRoomMsg{RoomID: id}, err
}

// LeaveRoomMsg is C2S_LEAVE_ROOM's (empty) payload.
type LeaveRoomMsg struct{}

func (m LeaveRoomMsg) Encode() []byte { return Frame(C2SLeaveRoom, nil) }

// RoomMemberEntry is one row of S2C_ROOM_STATE's membership list.
type RoomMemberEntry struct {
	PlayerID string
	Name     string
	Host     bool
	Spec     bool
}

// RoomStateMsg is S2C_ROOM_STATE's payload.
type RoomStateMsg struct {
	RoomName string
	Members  []RoomMemberEntry
}

func (m RoomStateMsg) Encode() []byte {
	w := NewWriter()
	w.WriteString(m.RoomName)
	w.WriteU32(uint32(len(m.Members)))
	for _, e := range m.Members {
		w.WriteString(e.PlayerID)
		w.WriteString(e.Name)
		w.WriteBool(e.Host)
		w.WriteBool(e.Spec)
	}
	return Frame(S2CRoomState, w.Bytes())
}

func DecodeRoomState(payload []byte) (RoomStateMsg, error) {
	r := NewReader(payload)
	var m RoomStateMsg
	var err error
	if m.RoomName, err = r.ReadString(); err != nil {
		return m, err
	}
	n, err := r.ReadU32()
	if err != nil {
		return m, err
	}
	m.Members = make([]RoomMemberEntry, 0, n)
	for i := uint32(0); i < n; i++ {
		var e RoomMemberEntry
		if e.PlayerID, err = r.ReadString(); err != nil {
			return m, err
		}
		if e.Name, err = r.ReadString(); err != nil {
			return m, err
		}
		if e.Host, err = r.ReadBool(); err != nil {
			return m, err
		}
		if e.Spec, err = r.ReadBool(); err != nil {
			return m, err
		}
		m.Members = append(m.Members, e)
	}
	return m, nil
}

// LeftRoomMsg is S2C_LEFT_ROOM's payload.
type LeftRoomMsg struct {
	PlayerID string
	Reason   string
	Message  string
}

func (m LeftRoomMsg) Encode() []byte {
	w := NewWriter()
	w.WriteString(m.PlayerID)
	w.WriteString(m.Reason)
	w.WriteString(m.Message)
	return Frame(S2CLeftRoom, w.Bytes())
}

func DecodeLeftRoom(payload []byte) (LeftRoomMsg, error) {
	r := NewReader(payload)
	var m LeftRoomMsg
	var err error
	if m.PlayerID, err = r.ReadString(); err != nil {
		return m, err
	}
	if m.Reason, err = r.ReadString(); err != nil {
		return m, err
	}
	m.Message, err = r.ReadString()
	return m, err
}

// StartGameMsg is C2S_START_GAME's (empty) payload.
type StartGameMsg struct{}

func (m StartGameMsg) Encode() []byte { return Frame(C2SStartGame, nil) }

// GameStartMsg is S2C_GAME_START's payload.
type GameStartMsg struct {
	YourEntityID uint64
	ServerTick   uint64
	Entities     []EntityState
}

func (m GameStartMsg) Encode() []byte {
	w := NewWriter()
	w.WriteU64(m.YourEntityID)
	w.WriteU64(m.ServerTick)
	w.WriteU32(uint32(len(m.Entities)))
	for _, e := range m.Entities {
		e.Encode(w)
	}
	return Frame(S2CGameStart, w.Bytes())
}

func DecodeGameStart(payload []byte) (GameStartMsg, error) {
	r := NewReader(payload)
	var m GameStartMsg
	var err error
	if m.YourEntityID, err = r.ReadU64(); err != nil {
		return m, err
	}
	if m.ServerTick, err = r.ReadU64(); err != nil {
		return m, err
	}
	n, err := r.ReadU32()
	if err != nil {
		return m, err
	}
	m.Entities = make([]EntityState, 0, n)
	for i := uint32(0); i < n; i++ {
		e, err := DecodeEntityState(r)
		if err != nil {
			return m, err
		}
		m.Entities = append(m.Entities, e)
	}
	return m, nil
}

// maxInputRedundancy bounds C2S_PLAYER_INPUT's snapshot list (spec §4.7:
// "last <=12") so a malformed/hostile client can't force unbounded
// allocation while decoding.
const maxInputRedundancy = 12

// PlayerInputMsg is C2S_PLAYER_INPUT's payload: redundant recent input
// snapshots (spec §4.5 step 3 / §8 scenario D) for loss tolerance.
type PlayerInputMsg struct {
	Snapshots []InputSnapshot
}

func (m PlayerInputMsg) Encode() []byte {
	w := NewWriter()
	n := len(m.Snapshots)
	if n > maxInputRedundancy {
		n = maxInputRedundancy
	}
	w.WriteU8(uint8(n))
	for _, s := range m.Snapshots[len(m.Snapshots)-n:] {
		s.Encode(w)
	}
	return Frame(C2SPlayerInput, w.Bytes())
}

func DecodePlayerInput(payload []byte) (PlayerInputMsg, error) {
	r := NewReader(payload)
	n, err := r.ReadU8()
	if err != nil {
		return PlayerInputMsg{}, err
	}
	if n > maxInputRedundancy {
		return PlayerInputMsg{}, fmt.Errorf("protocol: input redundancy %d exceeds max %d", n, maxInputRedundancy)
	}
	snaps := make([]InputSnapshot, 0, n)
	for i := uint8(0); i < n; i++ {
		s, err := DecodeInputSnapshot(r)
		if err != nil {
			return PlayerInputMsg{}, err
		}
		snaps = append(snaps, s)
	}
	return PlayerInputMsg{Snapshots: snaps}, nil
}

// GameStateMsg is S2C_GAME_STATE's payload: the authoritative snapshot
// broadcast unsequenced every tick.
type GameStateMsg struct {
	ServerTick uint64
	Entities   []EntityState
	IsGameOver bool
}

func (m GameStateMsg) Encode() []byte {
	w := NewWriter()
	w.WriteU64(m.ServerTick)
	w.WriteU32(uint32(len(m.Entities)))
	for _, e := range m.Entities {
		e.Encode(w)
	}
	w.WriteBool(m.IsGameOver)
	return Frame(S2CGameState, w.Bytes())
}

func DecodeGameState(payload []byte) (GameStateMsg, error) {
	r := NewReader(payload)
	var m GameStateMsg
	var err error
	if m.ServerTick, err = r.ReadU64(); err != nil {
		return m, err
	}
	n, err := r.ReadU32()
	if err != nil {
		return m, err
	}
	m.Entities = make([]EntityState, 0, n)
	for i := uint32(0); i < n; i++ {
		e, err := DecodeEntityState(r)
		if err != nil {
			return m, err
		}
		m.Entities = append(m.Entities, e)
	}
	m.IsGameOver, err = r.ReadBool()
	return m, err
}

// GameruleUpdateMsg is S2C_GAMERULE_UPDATE's payload.
type GameruleUpdateMsg struct {
	Entries []GameruleEntry
}

func (m GameruleUpdateMsg) Encode() []byte {
	w := NewWriter()
	w.WriteU32(uint32(len(m.Entries)))
	for _, e := range m.Entries {
		w.WriteString(e.Key.String())
		w.WriteF64(e.Value)
	}
	return Frame(S2CGameruleUpdate, w.Bytes())
}

func DecodeGameruleUpdate(payload []byte) (GameruleUpdateMsg, error) {
	r := NewReader(payload)
	n, err := r.ReadU32()
	if err != nil {
		return GameruleUpdateMsg{}, err
	}
	entries := make([]GameruleEntry, 0, n)
	for i := uint32(0); i < n; i++ {
		name, err := r.ReadString()
		if err != nil {
			return GameruleUpdateMsg{}, err
		}
		val, err := r.ReadF64()
		if err != nil {
			return GameruleUpdateMsg{}, err
		}
		// Unknown keys decode to GameruleUnknown and are kept in the
		// list; the client is required to ignore them, not reject the
		// whole message (spec §4.7).
		entries = append(entries, GameruleEntry{Key: ParseGameruleKey(name), Value: val})
	}
	return GameruleUpdateMsg{Entries: entries}, nil
}

// ChatMessageC2S is C2S_CHAT_MESSAGE's payload.
type ChatMessageC2S struct {
	Text string
}

func (m ChatMessageC2S) Encode() []byte {
	w := NewWriter()
	w.WriteString(m.Text)
	return Frame(C2SChatMessage, w.Bytes())
}

func DecodeChatMessageC2S(payload []byte) (ChatMessageC2S, error) {
	r := NewReader(payload)
	text, err := r.ReadString()
	return ChatMessageC2S{Text: text}, err
}

// ChatMessageS2C is S2C_CHAT_MESSAGE's payload.
type ChatMessageS2C struct {
	PlayerID  string
	Name      string
	Text      string
	Timestamp int64
}

func (m ChatMessageS2C) Encode() []byte {
	w := NewWriter()
	w.WriteString(m.PlayerID)
	w.WriteString(m.Name)
	w.WriteString(m.Text)
	w.WriteU64(uint64(m.Timestamp))
	return Frame(S2CChatMessage, w.Bytes())
}

func DecodeChatMessageS2C(payload []byte) (ChatMessageS2C, error) {
	r := NewReader(payload)
	var m ChatMessageS2C
	var err error
	if m.PlayerID, err = r.ReadString(); err != nil {
		return m, err
	}
	if m.Name, err = r.ReadString(); err != nil {
		return m, err
	}
	if m.Text, err = r.ReadString(); err != nil {
		return m, err
	}
	ts, err := r.ReadU64()
	m.Timestamp = int64(ts)
	return m, err
}

// PingMsg / PongMsg carry a timestamp for RTT measurement at the
// application layer (the transport package also tracks RTT independently
// via its own control-plane PING/PONG; this pair is the application-level
// one named explicitly in the §4.7 catalog).
type PingMsg struct{ Timestamp int64 }

func (m PingMsg) Encode() []byte {
	w := NewWriter()
	w.WriteU64(uint64(m.Timestamp))
	return Frame(Ping, w.Bytes())
}

func DecodePing(payload []byte) (PingMsg, error) {
	r := NewReader(payload)
	ts, err := r.ReadU64()
	return PingMsg{Timestamp: int64(ts)}, err
}

type PongMsg struct{ Timestamp int64 }

func (m PongMsg) Encode() []byte {
	w := NewWriter()
	w.WriteU64(uint64(m.Timestamp))
	return Frame(Pong, w.Bytes())
}

func DecodePong(payload []byte) (PongMsg, error) {
	r := NewReader(payload)
	ts, err := r.ReadU64()
	return PongMsg{Timestamp: int64(ts)}, err
}
