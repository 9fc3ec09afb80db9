package domain

import "time"

type Post struct {
	ID        int64
	Title     string
	Content   string
	UserID    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Patch struct {
	Title   *string
	Content *string
}
