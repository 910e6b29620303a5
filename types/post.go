package types

import "time"

// Post is a feed entry authored by a member. Author name and avatar are
// denormalized onto the document at creation time.
type Post struct {
	ID         string    `json:"id" bson:"id"`
	UserID     string    `json:"user_id" bson:"user_id"`
	UserName   string    `json:"user_name" bson:"user_name"`
	UserAvatar string    `json:"user_avatar,omitempty" bson:"user_avatar,omitempty"`
	Content    string    `json:"content" bson:"content"`
	ImageURL   string    `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Category   string    `json:"category" bson:"category"`
	Likes      []string  `json:"likes" bson:"likes"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// Comment is a reply attached to a post.
type Comment struct {
	ID         string    `json:"id" bson:"id"`
	PostID     string    `json:"post_id" bson:"post_id"`
	UserID     string    `json:"user_id" bson:"user_id"`
	UserName   string    `json:"user_name" bson:"user_name"`
	UserAvatar string    `json:"user_avatar,omitempty" bson:"user_avatar,omitempty"`
	Content    string    `json:"content" bson:"content"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
