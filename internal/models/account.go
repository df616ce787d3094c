package models

import "time"

type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Screen string

const (
	ScreenUnauthenticated Screen = "unauthenticated"
	ScreenPayment         Screen = "payment"
	ScreenHistory         Screen = "history"
	ScreenAdmin           Screen = "admin"
)

func (s Screen) Valid() bool {
	switch s {
	case ScreenUnauthenticated, ScreenPayment, ScreenHistory, ScreenAdmin:
		return true
	}
	return false
}
