package protocol

import "testing"

func TestMessageConstants(t *testing.T) {
	cases := []struct{ got, want string }{
		{MsgHello, "hello"},
		{MsgCreate, "create"},
		{MsgMove, "move"},
		{MsgWelcome, "welcome"},
		{MsgCreated, "created"},
		{MsgStart, "start"},
		{MsgDelta, "delta"},
		{MsgOver, "over"},
		{MsgError, "error"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("message constant = %q, want %q", tc.got, tc.want)
		}
	}
}

func TestTimingSanity(t *testing.T) {
	if SimTickHz <= 0 || ClientInputHz <= 0 || BroadcastHz <= 0 {
		t.Fatalf("timing constants must be > 0")
	}
	if SimTickHz%BroadcastHz != 0 {
		t.Fatalf("SimTickHz %% BroadcastHz != 0 (%d %% %d)", SimTickHz, BroadcastHz)
	}
}
