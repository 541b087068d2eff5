package offerdoc

import (
	"strings"
	"time"
)

// Comment is a user review left on a merchant page.
type Comment struct {
	Title    string     `json:"title,omitempty"`
	Body     string     `json:"body"`
	Author   string     `json:"author,omitempty"`
	Date     *time.Time `json:"date,omitempty"`
	Useful   int        `json:"useful,omitempty"`
	Useless  int        `json:"useless,omitempty"`
	Language string     `json:"language,omitempty"`
	Rating   *Rating    `json:"rating,omitempty"`
}

// Validate returns an error if the comment has no body or an invalid rating.
func (c *Comment) Validate() error {
	if strings.TrimSpace(c.Body) == "" {
		return Errorf(EINVALID, "comment body required")
	}
	if c.Useful < 0 || c.Useless < 0 {
		return Errorf(EINVALID, "comment vote counters must not be negative")
	}
	if c.Rating != nil {
		if err := c.Rating.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Question is a customer question with its answers.
type Question struct {
	Text     string     `json:"text"`
	Author   string     `json:"author,omitempty"`
	Date     *time.Time `json:"date,omitempty"`
	Language string     `json:"language,omitempty"`
	Answers  []Answer   `json:"answers,omitempty"`
}

// Answer is a reply to a Question.
type Answer struct {
	Text   string     `json:"text"`
	Author string     `json:"author,omitempty"`
	Date   *time.Time `json:"date,omitempty"`
}

// Validate returns an error if the question or one of its answers has no text.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return Errorf(EINVALID, "question text required")
	}
	for i, a := range q.Answers {
		if strings.TrimSpace(a.Text) == "" {
			return Errorf(EINVALID, "answer %d text required", i)
		}
	}
	return nil
}
