package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"vela-casino/internal/event"
	"vela-casino/internal/middleware"
	"vela-casino/internal/services"
)

const (
	writeWait = 5 * time.Second
	// sendBuffer is how many messages a client may fall behind before it is dropped.
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const (
	MessagePing          = "PING"
	MessagePong          = "PONG"
	MessageBalanceUpdate = "BALANCE_UPDATE"
	MessageGameUpdate    = "GAME_UPDATE"
	MessageGameCrash     = "GAME_CRASH"
	MessageRoundSettled  = "ROUND_SETTLED"
	MessageCrashStarted  = "CRASH_STARTED"
	MessageSoundCue      = "SOUND_CUE"
	MessageReset         = "RESET"
)

type Message struct {
	Type   string `json:"type"`
	GameID string `json:"game_id,omitempty"`
	Data   any    `json:"data"`
}

type Client struct {
	SessionID string
	Conn      *websocket.Conn
	send      chan *Message
}

func NewClient(sessionID string, conn *websocket.Conn) *Client {
	return &Client{
		SessionID: sessionID,
		Conn:      conn,
		send:      make(chan *Message, sendBuffer),
	}
}

// writePump is the only writer to the connection. It exits when the hub closes send
// or a write fails.
func (c *Client) writePump(logger *zap.Logger) {
	defer c.Conn.Close()
	for msg := range c.send {
		c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.Conn.WriteJSON(msg); err != nil {
			logger.Debug("failed to write to client", zap.String("session_id", c.SessionID), zap.Error(err))
			return
		}
	}
	c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// WebSocketHub fans live game updates out to every connected client. Delivery never
// blocks: a client whose queue is full is dropped.
type WebSocketHub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *zap.Logger
}

func NewWebSocketHub(logger *zap.Logger) *WebSocketHub {
	return &WebSocketHub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

var _ services.Broadcaster = (*WebSocketHub)(nil)

func (hub *WebSocketHub) register(client *Client) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	hub.clients[client] = struct{}{}
	hub.logger.Debug("client registered", zap.String("session_id", client.SessionID))
}

func (hub *WebSocketHub) unregister(client *Client) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if _, ok := hub.clients[client]; ok {
		delete(hub.clients, client)
		close(client.send)
		hub.logger.Debug("client unregistered", zap.String("session_id", client.SessionID))
	}
}

func (hub *WebSocketHub) ClientCount() int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.clients)
}

func (hub *WebSocketHub) broadcast(msg *Message) {
	hub.mu.RLock()
	var slow []*Client
	for c := range hub.clients {
		if !enqueue(c, msg) {
			slow = append(slow, c)
		}
	}
	hub.mu.RUnlock()

	hub.drop(slow)
}

// sendTo queues a message for one client if it is still registered.
func (hub *WebSocketHub) sendTo(client *Client, msg *Message) {
	hub.mu.RLock()
	_, ok := hub.clients[client]
	full := ok && !enqueue(client, msg)
	hub.mu.RUnlock()

	if full {
		hub.drop([]*Client{client})
	}
}

// enqueue must be called with hub.mu held so send cannot be closed underneath it.
func enqueue(c *Client, msg *Message) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (hub *WebSocketHub) drop(clients []*Client) {
	for _, c := range clients {
		hub.logger.Warn("dropping slow websocket client", zap.String("session_id", c.SessionID))
		hub.unregister(c)
	}
}

func (hub *WebSocketHub) BroadcastGameUpdate(roundID string, step int, multiplier float64) {
	hub.broadcast(&Message{
		Type:   MessageGameUpdate,
		GameID: roundID,
		Data: gin.H{
			"game_id":    roundID,
			"step":       step,
			"multiplier": multiplier,
			"timestamp":  time.Now().UnixMilli(),
		},
	})
}

func (hub *WebSocketHub) BroadcastGameCrash(roundID string, crashPoint float64) {
	hub.broadcast(&Message{
		Type:   MessageGameCrash,
		GameID: roundID,
		Data: gin.H{
			"game_id":     roundID,
			"crash_point": crashPoint,
			"timestamp":   time.Now().UnixMilli(),
		},
	})
}

func (hub *WebSocketHub) BroadcastBalance(balance int64) {
	hub.broadcast(&Message{
		Type: MessageBalanceUpdate,
		Data: gin.H{"balance": balance},
	})
}

// Subscribe forwards settlement, crash start, sound cue and reset events to clients.
func (hub *WebSocketHub) Subscribe(bus *event.Bus) {
	bus.Subscribe(event.EventRoundSettled, func(payload any) {
		hub.broadcast(&Message{Type: MessageRoundSettled, Data: payload})
	})
	bus.Subscribe(event.EventCrashStarted, func(payload any) {
		started, _ := payload.(event.CrashStarted)
		hub.broadcast(&Message{Type: MessageCrashStarted, GameID: started.RoundID, Data: payload})
	})
	bus.Subscribe(event.EventSoundCue, func(payload any) {
		hub.broadcast(&Message{Type: MessageSoundCue, Data: payload})
	})
	bus.Subscribe(event.EventLedgerReset, func(any) {
		hub.broadcast(&Message{Type: MessageReset, Data: gin.H{}})
	})
}

type WebSocketHandler struct {
	ledger *services.LedgerStore
	hub    *WebSocketHub
}

func NewWebSocketHandler(ledger *services.LedgerStore, hub *WebSocketHub) *WebSocketHandler {
	return &WebSocketHandler{
		ledger: ledger,
		hub:    hub,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.hub.logger.Warn("failed to upgrade to websocket", zap.Error(err))
		return
	}

	client := NewClient(c.GetString(middleware.ContextSessionID), conn)
	h.hub.register(client)
	go client.writePump(h.hub.logger)

	defer func() {
		h.hub.unregister(client)
		conn.Close()
	}()

	h.sendBalance(c, client)

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.hub.logger.Warn("websocket error", zap.Error(err))
			}
			break
		}

		if msg.Type == MessagePing {
			h.hub.sendTo(client, &Message{
				Type: MessagePong,
				Data: gin.H{"timestamp": time.Now().Unix()},
			})
		}
	}
}

func (h *WebSocketHandler) sendBalance(c *gin.Context, client *Client) {
	account, err := h.ledger.GetAccount(c.Request.Context())
	if err != nil {
		h.hub.logger.Debug("no account for websocket balance", zap.Error(err))
		return
	}
	h.hub.sendTo(client, &Message{
		Type: MessageBalanceUpdate,
		Data: gin.H{"balance": account.Balance},
	})
}
