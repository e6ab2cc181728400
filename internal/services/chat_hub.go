package services

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/moride/moride-backend/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// GatewayEvent is the inbound message envelope on the chat channel.
type GatewayEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// OutboundEvent is the outbound message envelope.
type OutboundEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// ChatClient represents one authenticated chat connection. The user identity
// is bound at connect time and never changes for the connection's lifetime.
type ChatClient struct {
	ID     string
	UserID uint
	Token  string
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *ChatHub

	mu     sync.Mutex
	closed bool
}

// closeSend closes the outbound channel exactly once. Senders go through
// trySend, which holds the same lock, so no send can race the close.
func (c *ChatClient) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// trySend queues a payload for the client. Returns false when the client is
// gone or its buffer is full; the payload is dropped either way.
func (c *ChatClient) trySend(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- payload:
		return true
	default:
		return false
	}
}

// GatewayService is the slice of the chat service the hub consumes.
type GatewayService interface {
	ValidateToken(token string) (uint, error)
	SetUserOnline(userID uint)
	SetUserOffline(userID uint)
	RecentMessages() []models.ChatMessage
	SaveMessage(message *models.ChatMessage) error
	RoomMessages(roomName string, page int) ([]models.ChatMessage, error)
	Contacts(userID uint) ([]Contact, error)
}

// ChatHub maintains the set of active chat clients and their room membership.
type ChatHub struct {
	service    GatewayService
	presence   *Presence
	clients    map[*ChatClient]bool
	rooms      map[string]map[*ChatClient]bool
	register   chan *ChatClient
	unregister chan *ChatClient
	stop       chan struct{}
	mutex      sync.RWMutex
}

// NewChatHub creates a new chat hub
func NewChatHub(service GatewayService, presence *Presence) *ChatHub {
	return &ChatHub{
		service:    service,
		presence:   presence,
		clients:    make(map[*ChatClient]bool),
		rooms:      make(map[string]map[*ChatClient]bool),
		register:   make(chan *ChatClient),
		unregister: make(chan *ChatClient),
		stop:       make(chan struct{}),
	}
}

// Run starts the hub
func (h *ChatHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Chat client %s connected as user %d", client.ID, client.UserID)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				for room, members := range h.rooms {
					delete(members, client)
					if len(members) == 0 {
						delete(h.rooms, room)
					}
				}
				client.closeSend()
			}
			h.mutex.Unlock()
			log.Printf("Chat client %s disconnected", client.ID)

		case <-h.stop:
			return
		}
	}
}

// Stop terminates the hub's run loop.
func (h *ChatHub) Stop() {
	close(h.stop)
}

// JoinRoom adds the client to a room's membership set.
func (h *ChatHub) JoinRoom(client *ChatClient, roomName string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.rooms[roomName] == nil {
		h.rooms[roomName] = make(map[*ChatClient]bool)
	}
	h.rooms[roomName][client] = true
}

// BroadcastToRoom sends a payload to every client joined to the room.
func (h *ChatHub) BroadcastToRoom(roomName string, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.rooms[roomName] {
		if !client.trySend(message) {
			log.Printf("Warning: Could not send to chat client %s", client.ID)
		}
	}
}

// BroadcastToAll sends a payload to every connected client.
func (h *ChatHub) BroadcastToAll(message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if !client.trySend(message) {
			log.Printf("Warning: Could not send to chat client %s", client.ID)
		}
	}
}

// BroadcastActiveUsers pushes the current active-user set to everyone.
func (h *ChatHub) BroadcastActiveUsers() {
	h.emitAll("users", h.presence.ActiveUsers())
}

func (h *ChatHub) emitAll(event string, data interface{}) {
	payload, err := json.Marshal(OutboundEvent{Event: event, Data: data})
	if err != nil {
		log.Printf("Error marshaling %s event: %v", event, err)
		return
	}
	h.BroadcastToAll(payload)
}

func (h *ChatHub) emitRoom(roomName, event string, data interface{}) {
	payload, err := json.Marshal(OutboundEvent{Event: event, Data: data})
	if err != nil {
		log.Printf("Error marshaling %s event: %v", event, err)
		return
	}
	h.BroadcastToRoom(roomName, payload)
}

func (c *ChatClient) emit(event string, data interface{}) {
	payload, err := json.Marshal(OutboundEvent{Event: event, Data: data})
	if err != nil {
		log.Printf("Error marshaling %s event: %v", event, err)
		return
	}
	if !c.trySend(payload) {
		log.Printf("Warning: Could not send to chat client %s", c.ID)
	}
}

func (c *ChatClient) emitError(message string) {
	c.emit("errorMessage", map[string]string{"message": message})
}

// HandleChatSocket upgrades the request and runs the connection lifecycle.
// Token validation happens after the upgrade, so an unauthenticated caller
// only ever observes a closed socket.
func HandleChatSocket(hub *ChatHub, w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("token")
	if token == "" {
		token = r.URL.Query().Get("token")
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Chat socket upgrade error: %v", err)
		return
	}

	if token == "" {
		log.Print("Chat connection rejected: token not provided")
		conn.Close()
		return
	}

	userID, err := hub.service.ValidateToken(token)
	if err != nil {
		log.Printf("Chat connection rejected: %v", err)
		conn.Close()
		return
	}

	client := &ChatClient{
		ID:     uuid.NewString(),
		UserID: userID,
		Token:  token,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		Hub:    hub,
	}

	hub.presence.Add(client.ID, userID)
	hub.service.SetUserOnline(userID)
	hub.register <- client

	// Queue the backlog before the read pump starts: once it runs, a dropped
	// socket can tear the client down concurrently with this function.
	client.emit("recent-messages", hub.service.RecentMessages())

	go client.writePump()
	go client.readPump()

	hub.BroadcastActiveUsers()
}

// readPump pumps events from the websocket connection into the hub. It is the
// only reader of the connection, so per-connection event order is preserved.
func (c *ChatClient) readPump() {
	defer func() {
		c.disconnect()
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Chat socket error: %v", err)
			}
			break
		}

		var event GatewayEvent
		if err := json.Unmarshal(message, &event); err != nil {
			log.Printf("Error unmarshaling chat event: %v", err)
			continue
		}

		switch event.Event {
		case "join_room":
			c.handleJoinRoom(event.Data)
		case "send_message":
			c.handleSendMessage(event.Data)
		case "getContacts":
			c.handleGetContacts()
		case "getmessage":
			c.handleGetMessages(event.Data)
		default:
			log.Printf("Unknown chat event %q from client %s", event.Event, c.ID)
		}
	}
}

// writePump pumps payloads from the hub to the websocket connection
func (c *ChatClient) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("Chat socket write error: %v", err)
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// disconnect tears down presence for the connection. The stored token is
// re-validated first; when it no longer validates, presence cleanup is
// skipped and only logged, which may leave a stale online flag.
func (c *ChatClient) disconnect() {
	userID, err := c.Hub.service.ValidateToken(c.Token)
	if err != nil {
		log.Printf("Skipping presence cleanup for client %s: %v", c.ID, err)
	} else {
		c.Hub.service.SetUserOffline(userID)
		c.Hub.presence.Remove(c.ID)
	}

	c.Hub.unregister <- c
	c.Hub.BroadcastActiveUsers()
}

type joinRoomPayload struct {
	Receiver *uint  `json:"receiver"`
	RoomName string `json:"roomname"`
}

func (c *ChatClient) handleJoinRoom(data json.RawMessage) {
	var payload joinRoomPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.emitError("Invalid join_room payload")
		return
	}

	if payload.Receiver != nil {
		roomName := RoomNameForUsers(c.UserID, *payload.Receiver)
		c.Hub.JoinRoom(c, roomName)
		log.Printf("User %d joined room %s", c.UserID, roomName)
		return
	}

	if payload.RoomName == "" {
		c.emitError("Room name is required")
		return
	}
	if !RoomIncludes(payload.RoomName, c.UserID) {
		c.emitError("Not a member of this room")
		return
	}
	c.Hub.JoinRoom(c, payload.RoomName)
	log.Printf("User %d joined room %s", c.UserID, payload.RoomName)
}

type sendMessagePayload struct {
	Receiver uint   `json:"receiver"`
	Content  string `json:"content"`
	Type     string `json:"type"`
}

func (c *ChatClient) handleSendMessage(data json.RawMessage) {
	var payload sendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.emitError("Invalid send_message payload")
		return
	}
	if payload.Receiver == 0 || payload.Content == "" {
		c.emitError("Receiver and content are required")
		return
	}

	messageType := payload.Type
	if messageType == "" {
		messageType = "text"
	}

	// The sender identity and room are stamped server-side; the client
	// cannot speak for another user.
	message := &models.ChatMessage{
		SenderID:   c.UserID,
		ReceiverID: payload.Receiver,
		Content:    payload.Content,
		Type:       messageType,
		RoomName:   RoomNameForUsers(c.UserID, payload.Receiver),
	}

	if err := c.Hub.service.SaveMessage(message); err != nil {
		log.Printf("Failed to save chat message from user %d: %v", c.UserID, err)
		c.emitError("Message saving failed")
		return
	}

	c.Hub.emitRoom(message.RoomName, "receive_message", message)
}

func (c *ChatClient) handleGetContacts() {
	contacts, err := c.Hub.service.Contacts(c.UserID)
	if err != nil {
		log.Printf("Failed to load contacts for user %d: %v", c.UserID, err)
		c.emitError("Error fetching contacts")
		return
	}
	c.emit("contactsList", contacts)
}

type getMessagesPayload struct {
	RoomName string `json:"roomname"`
	Page     int    `json:"page"`
}

func (c *ChatClient) handleGetMessages(data json.RawMessage) {
	var payload getMessagesPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.emitError("Invalid getmessage payload")
		return
	}
	if payload.RoomName == "" {
		c.emitError("Room name is required")
		return
	}
	if payload.Page == 0 {
		payload.Page = 1
	}

	messages, err := c.Hub.service.RoomMessages(payload.RoomName, payload.Page)
	if err != nil {
		log.Printf("Failed to load messages for room %s: %v", payload.RoomName, err)
		c.emitError("Error fetching messages")
		return
	}

	c.Hub.emitRoom(payload.RoomName, "sendMessageRoom", messages)
}
