package models

import (
	"time"

	"github.com/google/uuid"
)

// StatusCheck is a heartbeat left by a client.
type StatusCheck struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	ClientName string    `json:"client_name"`
	Timestamp  time.Time `json:"timestamp" gorm:"index"`
}

func NewStatusCheck(clientName string, now time.Time) StatusCheck {
	return StatusCheck{
		ID:         uuid.NewString(),
		ClientName: clientName,
		Timestamp:  now.UTC(),
	}
}
