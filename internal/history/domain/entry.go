package domain

import (
	"time"

	userdomain "github.com/AlibekovAA/qa-llm/backend/internal/user/domain"
)

type ID string

type Entry struct {
	ID        ID
	UserID    userdomain.ID
	Question  string
	Answer    string
	CreatedAt time.Time
}

type Page struct {
	Items []Entry
	Total int
}
