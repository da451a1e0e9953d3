// Package comments implements the shared comment wall: any visitor can read
// it, authenticated users can post, and a comment can be deleted by its
// author or an admin.
package comments

import "time"

// Comment is one entry on the wall. Username is denormalized at post time
// so listing does not need a join.
type Comment struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewCommentRequest is the body of a comment post.
type NewCommentRequest struct {
	Text string `json:"text" example:"This song is stuck in my head."`
}
