package services

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/moride/moride-backend/internal/models"
	"github.com/moride/moride-backend/pkg/utils"
	"gorm.io/gorm"
)

const (
	recentMessagesLimit = 10
	roomPageSize        = 50
)

// LastMessage is the newest message exchanged with a contact.
type LastMessage struct {
	Content string    `json:"content"`
	Time    time.Time `json:"time"`
}

// Contact is one chat counterpart of a user, carrying only the most recent
// message exchanged with them.
type Contact struct {
	UserID      uint        `json:"userId"`
	Username    string      `json:"username"`
	IsOnline    bool        `json:"isOnline"`
	RoomName    string      `json:"roomName"`
	LastMessage LastMessage `json:"lastMessage"`
}

// ChatService backs the gateway: token validation, presence flags on the
// users table, and message persistence.
type ChatService struct {
	db *gorm.DB
}

// NewChatService creates a chat service on top of the given database.
func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{db: db}
}

// ValidateToken resolves a bearer token to a user id.
func (s *ChatService) ValidateToken(token string) (uint, error) {
	return utils.TokenUserID(token)
}

// SetUserOnline flips the persisted online flag. Best-effort: failures are
// logged and never block the connection lifecycle.
func (s *ChatService) SetUserOnline(userID uint) {
	s.setOnlineFlag(userID, true)
}

// SetUserOffline clears the persisted online flag, best-effort.
func (s *ChatService) SetUserOffline(userID uint) {
	s.setOnlineFlag(userID, false)
}

func (s *ChatService) setOnlineFlag(userID uint, online bool) {
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).
		Update("is_online", online).Error; err != nil {
		log.Printf("Failed to update online flag for user %d: %v", userID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := PublishPresence(ctx, userID, online); err != nil {
		log.Printf("Failed to publish presence for user %d: %v", userID, err)
	}
}

// RecentMessages returns the latest messages across all rooms, newest first.
// Served from the Redis cache when warm.
func (s *ChatService) RecentMessages() []models.ChatMessage {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if cached, err := CachedRecentMessages(ctx); err == nil {
		return cached
	}

	var messages []models.ChatMessage
	if err := s.db.Order("created_at DESC").Limit(recentMessagesLimit).
		Find(&messages).Error; err != nil {
		log.Printf("Failed to load recent messages: %v", err)
		return []models.ChatMessage{}
	}
	messages = recentBacklog(messages)

	if err := CacheRecentMessages(ctx, messages); err != nil {
		log.Printf("Failed to cache recent messages: %v", err)
	}
	return messages
}

// recentBacklog keeps the newest messages up to the backlog limit, newest
// first, regardless of input order.
func recentBacklog(messages []models.ChatMessage) []models.ChatMessage {
	out := make([]models.ChatMessage, len(messages))
	copy(out, messages)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > recentMessagesLimit {
		out = out[:recentMessagesLimit]
	}
	return out
}

// SaveMessage persists a chat message and returns the stored record.
func (s *ChatService) SaveMessage(message *models.ChatMessage) error {
	if err := s.db.Create(message).Error; err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := InvalidateRecentMessages(ctx); err != nil {
		log.Printf("Failed to invalidate recent message cache: %v", err)
	}
	return nil
}

// RoomMessages returns one page of a room's history. Pages are 1-indexed and
// hold up to 50 messages in insertion order.
func (s *ChatService) RoomMessages(roomName string, page int) ([]models.ChatMessage, error) {
	if page < 1 {
		page = 1
	}

	var messages []models.ChatMessage
	err := s.db.Where("room_name = ?", roomName).
		Order("created_at ASC").
		Offset((page - 1) * roomPageSize).
		Limit(roomPageSize).
		Find(&messages).Error
	return messages, err
}

// Contacts returns one entry per chat counterpart of the user, each holding
// the most recent message exchanged with them.
func (s *ChatService) Contacts(userID uint) ([]Contact, error) {
	var messages []models.ChatMessage
	if err := s.db.Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&messages).Error; err != nil {
		return nil, err
	}

	contacts := foldContacts(userID, messages)
	if len(contacts) == 0 {
		return []Contact{}, nil
	}

	ids := make([]uint, 0, len(contacts))
	for _, contact := range contacts {
		ids = append(ids, contact.UserID)
	}

	var users []models.User
	if err := s.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}

	for i := range contacts {
		if user, ok := byID[contacts[i].UserID]; ok {
			contacts[i].Username = user.Username
			contacts[i].IsOnline = user.IsOnline
		}
	}
	return contacts, nil
}

// foldContacts groups messages by counterpart and keeps the most recent one
// per counterpart. Messages must already be sorted newest first.
func foldContacts(userID uint, messages []models.ChatMessage) []Contact {
	seen := make(map[uint]bool)
	contacts := make([]Contact, 0)

	for _, message := range messages {
		counterpart := message.SenderID
		if counterpart == userID {
			counterpart = message.ReceiverID
		}
		if counterpart == userID || seen[counterpart] {
			continue
		}
		seen[counterpart] = true

		roomName := message.RoomName
		if roomName == "" {
			roomName = RoomNameForUsers(userID, counterpart)
		}
		contacts = append(contacts, Contact{
			UserID:   counterpart,
			RoomName: roomName,
			LastMessage: LastMessage{
				Content: message.Content,
				Time:    message.CreatedAt,
			},
		})
	}
	return contacts
}
