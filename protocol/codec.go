package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Encoding selects the wire format of a connection
type Encoding uint8

const (
	JSON Encoding = iota
	MsgPack
)

func (e Encoding) String() string {
	if e == MsgPack {
		return "msgpack"
	}
	return "json"
}

// ParseEncoding accepts "", "json" and "msgpack"
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "", "json":
		return JSON, nil
	case "msgpack":
		return MsgPack, nil
	}
	return JSON, fmt.Errorf("unknown encoding %q", s)
}

// Binary reports whether frames should go out as websocket binary messages
func (e Encoding) Binary() bool { return e == MsgPack }

func (e Encoding) Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("trying to encode envelope type nil")
	}
	if payload == nil {
		return nil, fmt.Errorf("trying to encode nil payload")
	}
	if e == MsgPack {
		pb, err := marshalMsgpack(payload)
		if err != nil {
			return nil, err
		}
		return marshalMsgpack(Envelope{T: t, P: pb})
	}

	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{T: t, P: pb})
}

func (e Encoding) DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, fmt.Errorf("decode envelope: empty frame")
	}
	var env Envelope
	if e == MsgPack {
		if err := unmarshalMsgpack(b, &env); err != nil {
			return Envelope{}, err
		}
		env.bin = true
		return env, nil
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return Envelope{}, err
	}
	return env, nil
}

// Encode builds a JSON envelope
func Encode(t string, payload any) ([]byte, error) {
	return JSON.Encode(t, payload)
}

// DecodeEnvelope parses a JSON envelope
func DecodeEnvelope(b []byte) (Envelope, error) {
	return JSON.DecodeEnvelope(b)
}

// DecodePayload unpacks the payload in whichever format the envelope was
// decoded from
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("empty payload for type %q", env.T)
	}
	if env.bin {
		err := unmarshalMsgpack(env.P, &out)
		return out, err
	}
	err := json.Unmarshal(env.P, &out)
	return out, err
}

// msgpack reuses the json tags so both encodings share field names
func marshalMsgpack(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func unmarshalMsgpack(b []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}
