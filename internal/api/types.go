package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is a server-assigned record identifier. The remote API owns its
// representation, so both JSON strings and JSON numbers decode into it.
type ID string

// UnmarshalJSON implements json.Unmarshaler for ID.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", b, err)
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("invalid id %s: not an integer", b)
	}
	*id = ID(n.String())
	return nil
}

// String returns the identifier as text.
func (id ID) String() string { return string(id) }

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}

// Identity is the signed-in account as returned by the auth endpoints.
type Identity struct {
	ID          ID       `json:"id,omitempty"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions"`
}

// User is a staff account.
type User struct {
	ID    ID     `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
	// Password is write-only: sent on create and on update when changed.
	Password    string   `json:"password,omitempty"`
	Permissions []string `json:"permissions"`
}

// Blog is a blog post.
type Blog struct {
	ID          ID       `json:"id,omitempty"`
	Title       string   `json:"title"`
	Image       string   `json:"image"`
	Paragraph   string   `json:"paragraph"`
	Content     string   `json:"content"`
	Author      string   `json:"author"`
	Tags        []string `json:"tags"`
	PublishDate string   `json:"publishDate"`
}

// Portfolio is a showcased project.
type Portfolio struct {
	ID           ID       `json:"id,omitempty"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	ProjectLink  string   `json:"projectLink"`
	Technologies []string `json:"technologies"`
	Category     string   `json:"category"`
	Featured     bool     `json:"featured"`
}

// Testimonial is a client quote.
type Testimonial struct {
	ID          ID     `json:"id,omitempty"`
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Image       string `json:"image"`
	Content     string `json:"content"`
	Rating      int    `json:"rating"`
	Company     string `json:"company"`
	Featured    bool   `json:"featured"`
}
