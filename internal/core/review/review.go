package review

import "time"

// Review is a single user's opinion of a title with a 1..10 score.
//
// A user may review a given title at most once. Author, title and PubDate
// are fixed at creation; only Text and Score are mutable.
type Review struct {
	ID       int64     `json:"id"`
	TitleID  int64     `json:"-"`
	AuthorID string    `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	Score    int       `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

const (
	// ScoreMin and ScoreMax bound the accepted review score, inclusive.
	ScoreMin = 1
	ScoreMax = 10
)
