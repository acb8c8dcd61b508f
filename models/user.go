package models

import (
	"time"

	"gorm.io/gorm"
)

// DemoUserID is the fixed identity used by the demo login flow. The demo
// explorer never goes through signup and is created on first use. Pinned to
// a well-known UUID so it satisfies the uuid-typed id column.
const DemoUserID = "00000000-0000-4000-8000-000000000001"

// DemoUserSlug is the demo explorer's profile slug.
const DemoUserSlug = "demo-explorer"

// User is a registered explorer identity. One row per registration; the ID is
// assigned at signup and never changes.
type User struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Username string `gorm:"index;not null" json:"username"`
	Slug     string `gorm:"uniqueIndex;not null" json:"slug"`
	Email    string `gorm:"index" json:"email"`

	JoinDate  time.Time `json:"join_date"`
	LastLogin time.Time `json:"last_login"`
	IsOnline  bool      `json:"is_online" gorm:"default:false"`

	Timestamps
}

// NewDemoUser builds the canned demo identity used by the "try it" button.
func NewDemoUser() User {
	now := time.Now()
	return User{
		ID:        DemoUserID,
		Username:  "Demo Explorer",
		Slug:      DemoUserSlug,
		Email:     "demo@inventindia.com",
		JoinDate:  now,
		LastLogin: now,
		IsOnline:  true,
	}
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
