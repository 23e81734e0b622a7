package protocol

import (
	"encoding/json"
)

const (
	MsgHello   = "hello"
	MsgCreate  = "create"
	MsgMove    = "move"
	MsgWelcome = "welcome"
	MsgCreated = "created"
	MsgStart   = "start"
	MsgDelta   = "delta"
	MsgOver    = "over"
	MsgError   = "error"
)

const (
	SimTickHz     = 20
	ClientInputHz = 20
	BroadcastHz   = 10
)

// Version is the protocol version clients announce in Hello
const Version = 1

type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"` // raw payload bytes

	bin bool // payload is msgpack
}
