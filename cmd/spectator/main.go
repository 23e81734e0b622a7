package main

import (
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/gorilla/websocket"

	"github.com/djthomann/snackman/protocol"
)

func main() {
	addr := flag.String("addr", "localhost:8080", "server host:port")
	gameID := flag.String("game", "", "game id to watch")
	encName := flag.String("enc", "json", "wire encoding: json or msgpack")
	mute := flag.Bool("mute", false, "disable sound cues")
	flag.Parse()

	if *gameID == "" {
		fmt.Fprintln(os.Stderr, "usage: spectator -game <id> [-addr host:port] [-enc msgpack]")
		os.Exit(2)
	}
	enc, err := protocol.ParseEncoding(*encName)
	if err != nil {
		log.Fatal(err)
	}

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	if enc == protocol.MsgPack {
		u.RawQuery = "enc=msgpack"
	}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("dial %s: %v", u.String(), err)
	}
	defer conn.Close()

	hello, err := enc.Encode(protocol.MsgHello, protocol.Hello{V: protocol.Version, GameID: *gameID, Spectate: true})
	if err != nil {
		log.Fatal(err)
	}
	msgType := websocket.TextMessage
	if enc.Binary() {
		msgType = websocket.BinaryMessage
	}
	if err := conn.WriteMessage(msgType, hello); err != nil {
		log.Fatalf("hello: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	sound := newTones(*mute)
	defer func() {
		sound.close()
		screen.Fini()
	}()

	if err := run(screen, conn, enc, sound); err != nil {
		screen.Fini()
		log.Fatal(err)
	}
}

func run(screen tcell.Screen, conn *websocket.Conn, enc protocol.Encoding, sound *tones) error {
	frames := make(chan protocol.Envelope, 64)
	readErr := make(chan error, 1)
	go func() {
		for {
			_, b, err := conn.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			env, err := enc.DecodeEnvelope(b)
			if err != nil {
				continue
			}
			frames <- env
		}
	}()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	v := newView()
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
					(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
				v.draw(screen)
			}
		case env := <-frames:
			if err := apply(v, env, sound); err != nil {
				return err
			}
			v.draw(screen)
		case err := <-readErr:
			return fmt.Errorf("connection closed: %w", err)
		}
	}
}

func apply(v *view, env protocol.Envelope, sound *tones) error {
	switch env.T {
	case protocol.MsgStart:
		s, err := protocol.DecodePayload[protocol.GameStart](env)
		if err != nil {
			return err
		}
		v.applyStart(s)
	case protocol.MsgDelta:
		d, err := protocol.DecodePayload[protocol.Delta](env)
		if err != nil {
			return err
		}
		sound.play(v.applyDelta(d))
	case protocol.MsgOver:
		o, err := protocol.DecodePayload[protocol.GameOver](env)
		if err != nil {
			return err
		}
		v.applyOver(o)
	case protocol.MsgError:
		e, _ := protocol.DecodePayload[protocol.Error](env)
		return fmt.Errorf("server: %s: %s", e.Code, e.Message)
	}
	return nil
}
