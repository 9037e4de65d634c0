package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// TimestampLayout is the wire format for created_at: UTC, second precision.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Prayer is one journal entry written about a person.
type Prayer struct {
	ID         int64     `json:"id"`
	PersonName string    `json:"person_name"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// MarshalJSON renders created_at in TimestampLayout regardless of the
// precision the backend stored. HTML escaping is left to the calling encoder:
// json.Marshal escapes, an encoder with SetEscapeHTML(false) does not.
func (p Prayer) MarshalJSON() ([]byte, error) {
	type wire struct {
		ID         int64  `json:"id"`
		PersonName string `json:"person_name"`
		AuthorName string `json:"author_name"`
		Content    string `json:"content"`
		CreatedAt  string `json:"created_at"`
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(wire{
		ID:         p.ID,
		PersonName: p.PersonName,
		AuthorName: p.AuthorName,
		Content:    p.Content,
		CreatedAt:  p.CreatedAt.UTC().Format(TimestampLayout),
	})
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Person is a registry entry: someone prayers can be written about.
type Person struct {
	Name      string `json:"name" yaml:"name"`
	Scripture string `json:"scripture" yaml:"scripture"`
	Reference string `json:"reference" yaml:"reference"`
}
