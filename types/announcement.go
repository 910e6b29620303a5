package types

import "time"

// Announcement is an admin-authored notice visible to all members.
type Announcement struct {
	ID            string    `json:"id" bson:"id"`
	Title         string    `json:"title" bson:"title"`
	Content       string    `json:"content" bson:"content"`
	Category      string    `json:"category" bson:"category"`
	CreatedBy     string    `json:"created_by" bson:"created_by"`
	CreatedByName string    `json:"created_by_name" bson:"created_by_name"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}
