package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a direct message between two actors. Creating one also creates
// exactly one new_message notification for the receiver, atomically.
type Message struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	SenderID   int64     `json:"sender_id" gorm:"column:sender_id;not null;index"`
	ReceiverID int64     `json:"receiver_id" gorm:"column:receiver_id;not null;index"`
	Content    string    `json:"content" gorm:"column:content;type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`

	Sender   *Actor `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Receiver *Actor `json:"receiver,omitempty" gorm:"foreignKey:ReceiverID"`
}

func (Message) TableName() string { return "messages" }

func (m *Message) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
