package domain

import (
	"encoding/json"
	"time"
)

type NotificationType string

const (
	NotifBookingRequested NotificationType = "booking_requested" // provider: new request
	NotifBookingAccepted  NotificationType = "booking_accepted"  // client: request accepted
	NotifBookingRefused   NotificationType = "booking_refused"   // client: request refused
	NotifBookingCompleted NotificationType = "booking_completed" // client: work done, price settled
	NotifNewMessage       NotificationType = "new_message"       // receiver of a direct message
)

// Notification rows are inserted in the same transaction as the write that
// triggered them. The read flag is the only field ever mutated afterwards.
type Notification struct {
	ID      int64            `json:"id" gorm:"column:id;primaryKey"`
	OwnerID int64            `json:"owner_id" gorm:"column:owner_id;not null;index:idx_notifications_owner_unread"`
	Type    NotificationType `json:"type" gorm:"column:type"`
	Title   string           `json:"title" gorm:"column:title"`
	Body    string           `json:"body,omitempty" gorm:"column:body"`
	Data    json.RawMessage  `json:"data,omitempty" gorm:"column:data"`
	IsRead  bool             `json:"is_read" gorm:"column:is_read;index:idx_notifications_owner_unread"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Notification) TableName() string { return "notifications" }
