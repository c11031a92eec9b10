package ws

import (
	"encoding/json"
	"sync"
	"time"

	"bomb_royale/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	sendBuffer = 256
)

// Client is one websocket spectator.
type Client struct {
	Address string
	Conn    *websocket.Conn
	Send    chan []byte
	Hub     *Hub
	Done    chan struct{}

	closeOnce sync.Once
	closed    chan struct{}
}

func NewClient(address string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		Address: address,
		Conn:    conn,
		Send:    make(chan []byte, sendBuffer),
		Hub:     hub,
		Done:    make(chan struct{}),
		closed:  make(chan struct{}),
	}
}

// Run serves the connection until it is closed. Games listed in watch are
// subscribed before the ready handshake.
func (c *Client) Run(watch ...string) {
	go c.writePump()

	for _, token := range watch {
		if token != "" {
			c.subscribe(token)
		}
	}
	c.reply(Message{Type: MsgReady})

	c.readPump()
}

// trySend queues msg without blocking.
func (c *Client) trySend(msg []byte) bool {
	select {
	case <-c.closed:
		return false
	default:
	}
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) reply(m Message) {
	data, err := json.Marshal(m)
	if err != nil {
		return
	}
	c.trySend(data)
}

func (c *Client) subscribe(token string) {
	if !c.Hub.Subscribe(c, token) {
		c.reply(Message{Type: MsgError, Game: token, Error: "too many subscriptions"})
		return
	}
	c.reply(Message{Type: MsgSubscribed, Game: token})
}

func (c *Client) handle(raw []byte) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		c.reply(Message{Type: MsgError, Error: "bad message"})
		return
	}

	switch req.Type {
	case MsgSubscribe:
		if req.Game == "" {
			c.reply(Message{Type: MsgError, Error: "game required"})
			return
		}
		c.subscribe(req.Game)
	case MsgUnsubscribe:
		c.Hub.Unsubscribe(c, req.Game)
	case MsgPing:
		c.reply(Message{Type: MsgPong})
	default:
		c.reply(Message{Type: MsgError, Error: "unknown message type"})
	}
}

//read
func (c *Client) readPump() {
	defer func() {
		c.disconnect()
		close(c.Done)
	}()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("ws: read error", "address", c.Address, "error", err)
			}
			return
		}
		c.handle(msg)
	}
}

//write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("ws: write error", "address", c.Address, "error", err)
				return
			}

		case <-c.closed:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

//disconnect
func (c *Client) disconnect() {
	c.Hub.Remove(c)
	c.closeOnce.Do(func() { close(c.closed) })
	_ = c.Conn.Close()
}
