package models

import (
	"time"
)

type Role string

const (
	AdminRole      Role = "ADMIN"
	UserRole       Role = "USER"
	SubscriberRole Role = "SUBSCRIBER"
)

type User struct {
	ID               string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Email            string `json:"email" binding:"required,email" gorm:"uniqueIndex"`
	Password         string `json:"-"`
	UserName         string `json:"username"`
	Role             Role   `json:"role" gorm:"type:varchar(20);default:'USER'"`
	AvatarURL        string `json:"avatarUrl" gorm:"column:avatar_url"`
	StripeCustomerId string `json:"stripeCustomerId"`
	// Identifier of the account on the chat-bot platform. Used as replyToUid
	// in outgoing comment notifications; empty when the account is not linked.
	BotUid    string    `json:"botUid" gorm:"column:bot_uid"`
	Enable    bool      `json:"enable" gorm:"default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UserCreate struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	UserName string `json:"username"`
}

type UserLogin struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (User) TableName() string {
	return "users"
}
