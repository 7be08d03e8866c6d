package simulation

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	. "github.com/ttpr0/go-railway/util"
	"golang.org/x/exp/slog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const write_timeout = 5 * time.Second

//*******************************************
// websocket hub
//*******************************************

// Hub streams the ticks of a Runner to websocket clients.
type Hub struct {
	runner *Runner

	mu      sync.Mutex
	clients Dict[uuid.UUID, *websocket.Conn]
}

func NewHub(runner *Runner) *Hub {
	return &Hub{
		runner:  runner,
		clients: NewDict[uuid.UUID, *websocket.Conn](10),
	}
}

func (self *Hub) ClientCount() int {
	self.mu.Lock()
	defer self.mu.Unlock()

	return self.clients.Length()
}

// Upgrades the request and sends every tick to the client until it
// disconnects.
func (self *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error(fmt.Sprintf("failed to upgrade connection: %v", err.Error()))
		return
	}

	id, ticks := self.runner.Subscribe(16)
	self.mu.Lock()
	self.clients[id] = conn
	slog.Info(fmt.Sprintf("websocket client %v connected, %v clients", id, self.clients.Length()))
	self.mu.Unlock()

	closed := make(chan struct{})
	go self._ReadLoop(conn, closed)

	defer func() {
		self.runner.Unsubscribe(id)
		conn.Close()
		self.mu.Lock()
		delete(self.clients, id)
		slog.Info(fmt.Sprintf("websocket client %v disconnected, %v clients", id, self.clients.Length()))
		self.mu.Unlock()
	}()

	for {
		select {
		case <-closed:
			return
		case event, ok := <-ticks:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(write_timeout))
			if err := conn.WriteJSON(event); err != nil {
				slog.Warn(fmt.Sprintf("websocket write error: %v", err.Error()))
				return
			}
		}
	}
}

// Drains incoming messages so close frames are processed.
func (self *Hub) _ReadLoop(conn *websocket.Conn, closed chan struct{}) {
	defer close(closed)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn(fmt.Sprintf("websocket error: %v", err.Error()))
			}
			return
		}
	}
}
