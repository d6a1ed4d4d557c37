package libraries

import (
	"encoding/json"
	"log"
	"sync"

	"drawing-bot-backend/internal/session"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type WebSocketMessageType string

const (
	WebSocketMessageTypePing         WebSocketMessageType = "ping"
	WebSocketMessageTypePong         WebSocketMessageType = "pong"
	WebSocketMessageTypeError        WebSocketMessageType = "error"
	WebSocketMessageTypeSubscribe    WebSocketMessageType = "subscribe"
	WebSocketMessageTypeUnsubscribe  WebSocketMessageType = "unsubscribe"
	WebSocketMessageTypeSubscribed   WebSocketMessageType = "subscribed"
	WebSocketMessageTypeSceneUpdated WebSocketMessageType = "scene_updated"
)

type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
	once sync.Once
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		Conn: conn,
		Send: make(chan []byte, 64),
	}
}

type subscription struct {
	client    *Client
	drawingID uuid.UUID
	on        bool
}

type publication struct {
	drawingID uuid.UUID
	message   []byte
}

// Hub fans scene updates out to the clients subscribed to each drawing.
// It implements session.Publisher; publishing never blocks the caller.
type Hub struct {
	Clients     map[string]*Client
	subscribers map[uuid.UUID]map[string]*Client

	register   chan *Client
	unregister chan *Client
	subscribe  chan subscription
	publish    chan publication
	quit       chan struct{}
	stopOnce   sync.Once
}

type WebSocketMessage struct {
	Type WebSocketMessageType `json:"type"`
	Data interface{}          `json:"data,omitempty"`
}

type SubscribePayload struct {
	DrawingID string `json:"drawing_id"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type SceneUpdatedPayload struct {
	DrawingID string           `json:"drawing_id"`
	Scene     session.Snapshot `json:"scene"`
}

func NewHub() *Hub {
	return &Hub{
		Clients:     make(map[string]*Client),
		subscribers: make(map[uuid.UUID]map[string]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan subscription),
		publish:     make(chan publication, 256),
		quit:        make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.Clients[client.ID] = client
		case client := <-h.unregister:
			if _, exists := h.Clients[client.ID]; exists {
				delete(h.Clients, client.ID)
				for id, subs := range h.subscribers {
					delete(subs, client.ID)
					if len(subs) == 0 {
						delete(h.subscribers, id)
					}
				}
				client.closeSend()
			}
		case sub := <-h.subscribe:
			h.applySubscription(sub)
		case pub := <-h.publish:
			for _, client := range h.subscribers[pub.drawingID] {
				select {
				case client.Send <- pub.message:
				default:
					log.Printf("websocket: client %s is too slow, dropping update for %s", client.ID, pub.drawingID)
				}
			}
		case <-h.quit:
			return
		}
	}
}

// Stop ends Run. Calls made after Stop return without blocking.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.quit)
	})
}

func (c *Client) closeSend() {
	c.once.Do(func() {
		close(c.Send)
	})
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.quit:
	}
}

// Unregister forgets client and closes its Send channel, even once the hub
// has stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
		client.closeSend()
	}
}

func (h *Hub) applySubscription(sub subscription) {
	if _, ok := h.Clients[sub.client.ID]; !ok {
		return
	}
	subs := h.subscribers[sub.drawingID]
	if sub.on {
		if subs == nil {
			subs = make(map[string]*Client)
			h.subscribers[sub.drawingID] = subs
		}
		subs[sub.client.ID] = sub.client
		return
	}
	delete(subs, sub.client.ID)
	if len(subs) == 0 {
		delete(h.subscribers, sub.drawingID)
	}
}

func (h *Hub) Subscribe(client *Client, drawingID uuid.UUID) {
	h.sendSubscription(subscription{client: client, drawingID: drawingID, on: true})
}

func (h *Hub) Unsubscribe(client *Client, drawingID uuid.UUID) {
	h.sendSubscription(subscription{client: client, drawingID: drawingID})
}

func (h *Hub) sendSubscription(sub subscription) {
	select {
	case h.subscribe <- sub:
	case <-h.quit:
	}
}

// PublishScene is called with the drawing's lock held, so it only enqueues.
func (h *Hub) PublishScene(drawingID uuid.UUID, snap session.Snapshot) {
	message, err := encodeSceneUpdated(drawingID, snap)
	if err != nil {
		log.Println("failed to marshal scene update:", err)
		return
	}
	select {
	case h.publish <- publication{drawingID: drawingID, message: message}:
	default:
		log.Printf("websocket: publish queue full, dropping update for %s", drawingID)
	}
}

func encodeSceneUpdated(drawingID uuid.UUID, snap session.Snapshot) ([]byte, error) {
	return json.Marshal(WebSocketMessage{
		Type: WebSocketMessageTypeSceneUpdated,
		Data: &SceneUpdatedPayload{DrawingID: drawingID.String(), Scene: snap},
	})
}

func (h *Hub) SendMessage(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		log.Printf("websocket: send buffer full for client %s", client.ID)
	}
}

func sendJSON(hub *Hub, client *Client, msg WebSocketMessage) {
	bytes, err := json.Marshal(msg)
	if err != nil {
		log.Printf("failed to marshal %s message: %v", msg.Type, err)
		return
	}
	hub.SendMessage(client, bytes)
}

// SendErrorMessage sends a standardized error message to a client
func SendErrorMessage(hub *Hub, client *Client, errorMsg string) {
	sendJSON(hub, client, WebSocketMessage{Type: WebSocketMessageTypeError, Data: &ErrorPayload{Message: errorMsg}})
}

// parseWebSocketMessage parses incoming websocket message and returns the message structure
func parseWebSocketMessage(msg []byte) (*WebSocketMessage, error) {
	var rawMessage struct {
		Type WebSocketMessageType `json:"type"`
		Data json.RawMessage      `json:"data,omitempty"`
	}
	if err := json.Unmarshal(msg, &rawMessage); err != nil {
		return nil, err
	}

	message := &WebSocketMessage{Type: rawMessage.Type}
	if len(rawMessage.Data) == 0 {
		return message, nil
	}

	switch rawMessage.Type {
	case WebSocketMessageTypeSubscribe, WebSocketMessageTypeUnsubscribe:
		var payload SubscribePayload
		if err := json.Unmarshal(rawMessage.Data, &payload); err != nil {
			return nil, err
		}
		message.Data = &payload
	default:
		var data interface{}
		if err := json.Unmarshal(rawMessage.Data, &data); err != nil {
			return nil, err
		}
		message.Data = data
	}
	return message, nil
}

// SceneLookup returns the current state of a drawing for new subscribers.
type SceneLookup func(drawingID uuid.UUID) (session.Snapshot, error)

func WebSocketHandler(hub *Hub, lookup SceneLookup) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := NewClient(conn)
		hub.Register(client)

		// Write loop
		go func() {
			defer conn.Close()
			for msg := range client.Send {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					log.Println("write error:", err)
					return
				}
			}
		}()

		// Read loop
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			handleClientMessage(hub, client, lookup, msg)
		}

		hub.Unregister(client)
	})
}

func handleClientMessage(hub *Hub, client *Client, lookup SceneLookup, msg []byte) {
	message, err := parseWebSocketMessage(msg)
	if err != nil {
		SendErrorMessage(hub, client, "Invalid JSON format")
		return
	}

	switch message.Type {
	case WebSocketMessageTypePing:
		sendJSON(hub, client, WebSocketMessage{Type: WebSocketMessageTypePong})
	case WebSocketMessageTypeSubscribe, WebSocketMessageTypeUnsubscribe:
		payload, ok := message.Data.(*SubscribePayload)
		if !ok || payload.DrawingID == "" {
			SendErrorMessage(hub, client, "Drawing ID is required")
			return
		}
		drawingID, err := uuid.Parse(payload.DrawingID)
		if err != nil {
			SendErrorMessage(hub, client, "Invalid drawing ID")
			return
		}
		if message.Type == WebSocketMessageTypeUnsubscribe {
			hub.Unsubscribe(client, drawingID)
			return
		}

		var snap session.Snapshot
		if lookup != nil {
			if snap, err = lookup(drawingID); err != nil {
				SendErrorMessage(hub, client, "Drawing not found")
				return
			}
		}
		hub.Subscribe(client, drawingID)
		sendJSON(hub, client, WebSocketMessage{
			Type: WebSocketMessageTypeSubscribed,
			Data: &SceneUpdatedPayload{DrawingID: drawingID.String(), Scene: snap},
		})
	default:
		SendErrorMessage(hub, client, "Type is invalid or not provided")
	}
}
