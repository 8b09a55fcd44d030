package catalog

// QuestionType discriminates how a question is answered.
type QuestionType string

const (
	// QuestionRating is answered on a 0..6 scale, 0 meaning not applicable.
	QuestionRating QuestionType = "rating"
	// QuestionFreeText is answered with prose.
	QuestionFreeText QuestionType = "freeText"
)

// Question is one catalog entry of an organization's survey. Annotation is
// resolved per customer at read time and is not part of the question's
// identity.
type Question struct {
	ID           int64        `json:"id"`
	Text         string       `json:"text"`
	Type         QuestionType `json:"type"`
	Category     string       `json:"category"`
	DisplayOrder int          `json:"display_order"`
	Annotation   string       `json:"annotation,omitempty"`
}

// Annotated reports whether the question carries a customer note.
func (q Question) Annotated() bool {
	return q.Annotation != ""
}
