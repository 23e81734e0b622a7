package network

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/djthomann/snackman/protocol"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 25 * time.Second
	readLimit  = 1 << 20 // 1MB
	sendBuffer = 64
)

// client is one websocket connection. Reads happen on the handler
// goroutine; all writes go through send and the write pump.
type client struct {
	conn *websocket.Conn
	enc  protocol.Encoding
	send chan []byte
	done chan struct{}
	once sync.Once

	// set by hello, read by Notify
	mu        sync.RWMutex
	gameID    string
	clientID  string
	spectator bool
}

func newClient(conn *websocket.Conn, enc protocol.Encoding) *client {
	return &client{
		conn: conn,
		enc:  enc,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

func (c *client) bind(gameID, clientID string, spectator bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gameID, c.clientID, c.spectator = gameID, clientID, spectator
}

func (c *client) identity() (gameID, clientID string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gameID, c.clientID
}

func (c *client) watching() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.spectator
}

// enqueue hands a frame to the write pump without blocking. A full buffer
// drops the frame; the next delta catches the client up.
func (c *client) enqueue(b []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- b:
		return true
	default:
		gameID, clientID := c.identity()
		log.Printf("network: send buffer full for %s/%s, dropping frame", gameID, clientID)
		return false
	}
}

// reply encodes and queues one message for this client only
func (c *client) reply(t string, payload any) {
	b, err := c.enc.Encode(t, payload)
	if err != nil {
		log.Println("encode:", err)
		return
	}
	c.enqueue(b)
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
	})
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	msgType := websocket.TextMessage
	if c.enc.Binary() {
		msgType = websocket.BinaryMessage
	}
	for {
		select {
		case b := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(msgType, b); err != nil {
				log.Println("write:", err)
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
