package models

import "time"

type Rating struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SandwichID uint      `gorm:"not null;index" json:"sandwich_id"`
	Stars      int       `gorm:"not null" json:"stars"`
	Reason     string    `gorm:"type:varchar(300)" json:"reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
