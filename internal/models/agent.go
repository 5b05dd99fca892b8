package models

import "time"

type Agent struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	City         string       `json:"city"`
	PasswordHash string       `json:"-"`
	RecordStatus RecordStatus `json:"-"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}
