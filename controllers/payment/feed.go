package paymentControllers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/junaidrashid-git/bistro-boss-api/models"
)

const (
	writeWait = 5 * time.Second
	// sendBuffer is how many payments a slow dashboard may fall behind before it is dropped.
	sendBuffer = 16
)

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Feed pushes every newly recorded payment to connected admin dashboards.
type Feed struct {
	mu       sync.Mutex
	clients  map[*feedClient]struct{}
	closed   bool
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewFeed(logger *zap.Logger) *Feed {
	return &Feed{
		clients: make(map[*feedClient]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// GET /payments/feed
func (f *Feed) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if f.isClosed() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "server shutting down"})
			return
		}

		conn, err := f.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the HTTP error
			_ = c.Error(err)
			return
		}

		client := &feedClient{conn: conn, send: make(chan []byte, sendBuffer)}
		if !f.add(client) {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			_ = conn.Close()
			return
		}
		defer f.remove(client)

		go f.writeLoop(client)

		// dashboards never send; reading only detects the close
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}

// Publish queues payment for every client without waiting on the network.
// A client whose queue is full is dropped.
func (f *Feed) Publish(payment models.Payment) {
	data, err := json.Marshal(payment)
	if err != nil {
		f.logger.Error("failed to encode payment for feed", zap.Error(err))
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for client := range f.clients {
		select {
		case client.send <- data:
		default:
			f.logger.Warn("dropping slow feed client")
			delete(f.clients, client)
			close(client.send)
		}
	}
}

// Clients is the number of connected dashboards.
func (f *Feed) Clients() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

// Close disconnects every client and refuses new ones.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	for client := range f.clients {
		delete(f.clients, client)
		close(client.send)
	}
}

// writeLoop owns all data writes to the connection. It sends a close frame
// once the client's queue is closed.
func (f *Feed) writeLoop(client *feedClient) {
	defer client.conn.Close()

	for data := range client.send {
		_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			f.logger.Warn("feed write failed", zap.Error(err))
			return
		}
	}

	_ = client.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
		time.Now().Add(writeWait))
}

func (f *Feed) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *Feed) add(client *feedClient) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return false
	}
	f.clients[client] = struct{}{}
	return true
}

func (f *Feed) remove(client *feedClient) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.clients[client]; ok {
		delete(f.clients, client)
		close(client.send)
	}
}
