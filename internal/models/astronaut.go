package models

import (
	"time"
)

type Astronaut struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Craft     string    `gorm:"type:varchar(50);not null;index" json:"craft"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}
