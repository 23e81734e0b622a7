package protocol

import (
	"bytes"
	"reflect"
	"testing"
)

func TestEncodeRejectsEmpty(t *testing.T) {
	if _, err := Encode("", Move{}); err == nil {
		t.Fatalf("empty type accepted")
	}
	if _, err := MsgPack.Encode(MsgMove, nil); err == nil {
		t.Fatalf("nil payload accepted")
	}
	if _, err := DecodeEnvelope(nil); err == nil {
		t.Fatalf("empty frame accepted")
	}
}

func TestJSONEnvelopeShape(t *testing.T) {
	b, err := Encode(MsgMove, Move{X: 1, Z: -0.5})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if want := `{"t":"move","p":{"x":1,"z":-0.5}}`; string(b) != want {
		t.Fatalf("frame = %s, want %s", b, want)
	}
}

func TestBothEncodingsCarryDelta(t *testing.T) {
	in := Delta{
		Tick:      40,
		Remaining: 12.5,
		Eaters:    []EaterSnapshot{{ID: "e1", ClientID: "c1", Name: "ann", X: 1.5, Z: 2.25, R: 0.35, Score: 350}},
		Consumed:  []ItemSnapshot{{ID: "i1", Col: 3, Row: 1, Nutrition: "healthy"}},
	}
	for _, enc := range []Encoding{JSON, MsgPack} {
		t.Run(enc.String(), func(t *testing.T) {
			b, err := enc.Encode(MsgDelta, in)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			env, err := enc.DecodeEnvelope(b)
			if err != nil {
				t.Fatalf("decode envelope: %v", err)
			}
			if env.T != MsgDelta {
				t.Fatalf("type = %q", env.T)
			}
			out, err := DecodePayload[Delta](env)
			if err != nil {
				t.Fatalf("decode payload: %v", err)
			}
			if !reflect.DeepEqual(in, out) {
				t.Fatalf("delta = %+v, want %+v", out, in)
			}
		})
	}
}

func TestMsgpackUsesJSONFieldNames(t *testing.T) {
	b, err := MsgPack.Encode(MsgWelcome, Welcome{ClientID: "c1", GameID: "g", TickHz: SimTickHz})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Contains(b, []byte("clientId")) {
		t.Fatalf("msgpack frame lacks json field name: %x", b)
	}
	if _, err := JSON.DecodeEnvelope(b); err == nil {
		t.Fatalf("json decoder accepted a msgpack frame")
	}
}

func TestParseEncoding(t *testing.T) {
	cases := []struct {
		in      string
		want    Encoding
		wantErr bool
	}{
		{"", JSON, false},
		{"json", JSON, false},
		{"msgpack", MsgPack, false},
		{"xml", JSON, true},
	}
	for _, tc := range cases {
		got, err := ParseEncoding(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Fatalf("ParseEncoding(%q) = %v, %v", tc.in, got, err)
		}
	}
}
