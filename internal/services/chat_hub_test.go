package services

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/moride/moride-backend/internal/models"
)

// fakeGatewayService keeps messages in memory and accepts tokens of the form
// "user:<id>" mapped by the test.
type fakeGatewayService struct {
	users    map[string]uint
	messages []models.ChatMessage
	nextID   uint
}

func newFakeGatewayService() *fakeGatewayService {
	return &fakeGatewayService{users: make(map[string]uint)}
}

func (f *fakeGatewayService) ValidateToken(token string) (uint, error) {
	if userID, ok := f.users[token]; ok {
		return userID, nil
	}
	return 0, errors.New("invalid token")
}

func (f *fakeGatewayService) SetUserOnline(userID uint)  {}
func (f *fakeGatewayService) SetUserOffline(userID uint) {}

func (f *fakeGatewayService) RecentMessages() []models.ChatMessage {
	return recentBacklog(f.messages)
}

func (f *fakeGatewayService) SaveMessage(message *models.ChatMessage) error {
	f.nextID++
	message.ID = f.nextID
	message.CreatedAt = time.Now()
	f.messages = append(f.messages, *message)
	return nil
}

func (f *fakeGatewayService) RoomMessages(roomName string, page int) ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	for _, m := range f.messages {
		if m.RoomName == roomName {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeGatewayService) Contacts(userID uint) ([]Contact, error) {
	return foldContacts(userID, f.messages), nil
}

func newTestClient(hub *ChatHub, userID uint, token string) *ChatClient {
	return &ChatClient{
		ID:     token,
		UserID: userID,
		Token:  token,
		Send:   make(chan []byte, 16),
		Hub:    hub,
	}
}

// waitForClients blocks until the hub's run loop has registered n clients.
func waitForClients(t *testing.T, hub *ChatHub, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		hub.mutex.RLock()
		count := len(hub.clients)
		hub.mutex.RUnlock()
		if count == n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timeout waiting for %d registered clients", n)
}

func receiveEvent(t *testing.T, client *ChatClient) OutboundEvent {
	t.Helper()
	select {
	case data := <-client.Send:
		var event OutboundEvent
		if err := json.Unmarshal(data, &event); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		return event
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
	return OutboundEvent{}
}

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewChatHub(newFakeGatewayService(), NewPresence())
	go hub.Run()
	defer hub.Stop()

	client := newTestClient(hub, 1, "user:1")
	hub.register <- client
	waitForClients(t, hub, 1)

	hub.emitAll("users", []uint{1})
	event := receiveEvent(t, client)
	if event.Event != "users" {
		t.Fatalf("expected users event, got %q", event.Event)
	}

	hub.unregister <- client

	// Closed Send channel confirms the unregister was processed.
	select {
	case _, ok := <-client.Send:
		if ok {
			t.Fatal("expected Send channel closed after unregister")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for unregister")
	}
}

func TestEmitAfterUnregisterIsDropped(t *testing.T) {
	hub := NewChatHub(newFakeGatewayService(), NewPresence())
	go hub.Run()
	defer hub.Stop()

	client := newTestClient(hub, 1, "user:1")
	hub.register <- client
	waitForClients(t, hub, 1)
	hub.unregister <- client

	// Wait for the run loop to close the send channel.
	select {
	case _, ok := <-client.Send:
		if ok {
			t.Fatal("expected Send channel closed after unregister")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for unregister")
	}

	// A connect-path emit racing the teardown must be dropped, not panic.
	client.emit("recent-messages", nil)
	hub.emitAll("users", []uint{})
}

func TestRoomBroadcastReachesMembersOnly(t *testing.T) {
	hub := NewChatHub(newFakeGatewayService(), NewPresence())
	go hub.Run()
	defer hub.Stop()

	member := newTestClient(hub, 1, "user:1")
	outsider := newTestClient(hub, 2, "user:2")
	hub.register <- member
	hub.register <- outsider

	hub.JoinRoom(member, "1-2")
	hub.emitRoom("1-2", "receive_message", map[string]string{"content": "hello"})

	event := receiveEvent(t, member)
	if event.Event != "receive_message" {
		t.Fatalf("expected receive_message, got %q", event.Event)
	}

	select {
	case data := <-outsider.Send:
		t.Fatalf("outsider received room broadcast: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestJoinRoomByRawNameRequiresMembership(t *testing.T) {
	hub := NewChatHub(newFakeGatewayService(), NewPresence())
	go hub.Run()
	defer hub.Stop()

	client := newTestClient(hub, 3, "user:3")
	hub.register <- client

	client.handleJoinRoom(json.RawMessage(`{"roomname":"1-2"}`))
	event := receiveEvent(t, client)
	if event.Event != "errorMessage" {
		t.Fatalf("expected errorMessage for foreign room, got %q", event.Event)
	}

	client.handleJoinRoom(json.RawMessage(`{"roomname":"2-3"}`))
	hub.emitRoom("2-3", "receive_message", "ping")
	event = receiveEvent(t, client)
	if event.Event != "receive_message" {
		t.Fatalf("expected join of own room to stick, got %q", event.Event)
	}
}

func TestSendMessageDeliveredToRoom(t *testing.T) {
	service := newFakeGatewayService()
	hub := NewChatHub(service, NewPresence())
	go hub.Run()
	defer hub.Stop()

	alice := newTestClient(hub, 1, "user:alice")
	bob := newTestClient(hub, 2, "user:bob")
	hub.register <- alice
	hub.register <- bob

	// Alice joins the pair room by naming bob as the counterpart; bob joins
	// the same room from his side.
	alice.handleJoinRoom(json.RawMessage(`{"receiver":2}`))
	bob.handleJoinRoom(json.RawMessage(`{"receiver":1}`))

	alice.handleSendMessage(json.RawMessage(`{"receiver":2,"content":"hi"}`))

	for _, client := range []*ChatClient{alice, bob} {
		event := receiveEvent(t, client)
		if event.Event != "receive_message" {
			t.Fatalf("expected receive_message, got %q", event.Event)
		}
		payload, err := json.Marshal(event.Data)
		if err != nil {
			t.Fatalf("re-marshal payload: %v", err)
		}
		var msg models.ChatMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("unmarshal message: %v", err)
		}
		if msg.Content != "hi" || msg.SenderID != 1 {
			t.Fatalf("unexpected message %+v", msg)
		}
		if msg.RoomName != RoomNameForUsers(1, 2) {
			t.Fatalf("message stamped with wrong room %q", msg.RoomName)
		}
	}

	if len(service.messages) != 1 {
		t.Fatalf("expected 1 persisted message, got %d", len(service.messages))
	}
}

func TestGetMessagesBroadcastsRoomHistory(t *testing.T) {
	service := newFakeGatewayService()
	hub := NewChatHub(service, NewPresence())
	go hub.Run()
	defer hub.Stop()

	client := newTestClient(hub, 1, "user:1")
	hub.register <- client
	client.handleJoinRoom(json.RawMessage(`{"receiver":2}`))

	service.SaveMessage(&models.ChatMessage{
		SenderID: 1, ReceiverID: 2, Content: "stored", RoomName: RoomNameForUsers(1, 2),
	})

	client.handleGetMessages(json.RawMessage(`{"roomname":"` + RoomNameForUsers(1, 2) + `"}`))
	event := receiveEvent(t, client)
	if event.Event != "sendMessageRoom" {
		t.Fatalf("expected sendMessageRoom, got %q", event.Event)
	}
}

func TestGetMessagesRequiresRoomName(t *testing.T) {
	hub := NewChatHub(newFakeGatewayService(), NewPresence())
	go hub.Run()
	defer hub.Stop()

	client := newTestClient(hub, 1, "user:1")
	hub.register <- client

	client.handleGetMessages(json.RawMessage(`{}`))
	event := receiveEvent(t, client)
	if event.Event != "errorMessage" {
		t.Fatalf("expected errorMessage, got %q", event.Event)
	}
}

func TestGetContactsEmitsContactsList(t *testing.T) {
	service := newFakeGatewayService()
	hub := NewChatHub(service, NewPresence())
	go hub.Run()
	defer hub.Stop()

	service.SaveMessage(&models.ChatMessage{
		SenderID: 2, ReceiverID: 1, Content: "hello", RoomName: RoomNameForUsers(1, 2),
	})

	client := newTestClient(hub, 1, "user:1")
	hub.register <- client

	client.handleGetContacts()
	event := receiveEvent(t, client)
	if event.Event != "contactsList" {
		t.Fatalf("expected contactsList, got %q", event.Event)
	}
}
