package core

import "time"

const (
	AppName          = "climaqa"
	AppUserAgent     = "climaqa/0.1"
	AppRepositoryURL = "https://github.com/sandevgo/climaqa"
	AppVersion       = "0.1.0"
)

// FallbackAnswer is returned when retrieval finds no passage above the threshold.
const FallbackAnswer = "I do not have enough information to answer."

// Label is the classification of a question.
type Label string

const (
	LabelGeneral  Label = "general"
	LabelSpecific Label = "specific"
)

// Passage is an indexed chunk of a source document.
type Passage struct {
	ID         string  `json:"id"`
	Content    string  `json:"content"`
	SourceFile string  `json:"source_file"`
	PageNumber int     `json:"page_number"`
	Score      float64 `json:"score"`
}

// AnswerMetadata points at a passage that was retrieved for an answer.
// Empty fields are absent.
type AnswerMetadata struct {
	PageNumber string `json:"page_number,omitempty"`
	SourceFile string `json:"source_file,omitempty"`
}

type Turn struct {
	Question  string           `json:"question"`
	Answer    string           `json:"answer"`
	Metadata  []AnswerMetadata `json:"metadata"`
	CreatedAt time.Time        `json:"created_at"`
}

type Result struct {
	Answer   string           `json:"answer"`
	Metadata []AnswerMetadata `json:"metadata"`
	Label    Label            `json:"label"`
}

type Chat struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Model describes a model offered by an LLM provider.
type Model struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContextLength int    `json:"context_length"`
}
