package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is a write-once outcome message for one user. It has no
// lifecycle beyond creation; read/unread handling belongs to the front end.
type Notification struct {
	ID       uint64  `gorm:"primaryKey;autoIncrement"`
	UserID   string  `gorm:"type:varchar(100);not null;index"`
	SignalID *uint64 `gorm:"index"`

	Title   string         `gorm:"type:varchar(200);not null"`
	Body    string         `gorm:"type:text;not null"`
	Payload datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (Notification) TableName() string {
	return "notifications"
}
