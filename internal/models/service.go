package models

import "time"

// Service is a catalog entry describing a type of work vendors can offer.
type Service struct {
	ID           int64        `json:"id"`
	Type         string       `json:"type"`
	Description  string       `json:"description"`
	RecordStatus RecordStatus `json:"-"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}
