package models

import (
	"time"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36"          json:"id"        bson:"_id"`
	Username     string    `gorm:"uniqueIndex;not null"        json:"username"  bson:"username"`
	PasswordHash string    `gorm:"not null"                    json:"-"         bson:"password_hash"`
	CreatedAt    time.Time `gorm:"not null"                    json:"createdAt" bson:"created_at"`
}

// DiaryEntry is always read and written together with its owner's id.
type DiaryEntry struct {
	ID        string    `gorm:"primaryKey;size:36"          json:"id"        bson:"_id"`
	UserID    string    `gorm:"index;not null;size:36"      json:"userId"    bson:"user_id"`
	Title     string    `gorm:"not null"                    json:"title"     bson:"title"`
	Content   string    `gorm:"not null"                    json:"content"   bson:"content"`
	CreatedAt time.Time `gorm:"index;not null"              json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `gorm:"not null"                    json:"updatedAt" bson:"updated_at"`
}
