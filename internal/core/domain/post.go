package domain

import "time"

type Post struct {
	ID       int64     `db:"id"`
	AuthorID int64     `db:"author_id"`
	Created  time.Time `db:"created"`
	Title    string    `db:"title"`
	Body     string    `db:"body"`

	// Username of the author, filled by read queries that join the user table
	Username string `db:"username"`
}

func NewPost(title, body string, authorID int64) *Post {
	return &Post{
		AuthorID: authorID,
		Title:    title,
		Body:     body,
	}
}

// IsAuthoredBy reports whether the post belongs to the given user id
func (p *Post) IsAuthoredBy(userID int64) bool {
	return userID != 0 && p.AuthorID == userID
}
