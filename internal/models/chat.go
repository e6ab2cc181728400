package models

import (
	"gorm.io/gorm"
)

// ChatMessage is one persisted chat message. Messages are insert-only; the
// room name is the shard key for history reads.
type ChatMessage struct {
	gorm.Model
	SenderID   uint   `json:"senderId" gorm:"not null;index"`
	ReceiverID uint   `json:"receiverId" gorm:"not null;index"`
	Content    string `json:"content" gorm:"not null"`
	Type       string `json:"type" gorm:"not null;default:'text'"`
	RoomName   string `json:"roomName" gorm:"not null;index"`
}

// TableName specifies the table name
func (ChatMessage) TableName() string {
	return "chat_messages"
}
