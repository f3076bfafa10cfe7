package comment

import "time"

// Comment is a reply attached to a review. Author and PubDate are fixed at
// creation; only the text is mutable.
type Comment struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"-"`
	AuthorID string    `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}
