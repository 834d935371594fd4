package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/mdobak/go-xerrors"
)

// User is the identity kept in a client session.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AuthResponse is returned by both login and register.
type AuthResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Token     string `json:"token"`
}

func (r *AuthResponse) User() User {
	return User{
		ID:        r.ID,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

type Author struct {
	ID        int64  `json:"id"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (a Author) FullName() string {
	return User{FirstName: a.FirstName, LastName: a.LastName}.FullName()
}

type BlogPost struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content,omitempty"`
	ContentPreview string    `json:"contentPreview,omitempty"`
	Author         Author    `json:"author"`
	Tags           []string  `json:"tags"`
	ViewCount      int64     `json:"viewCount"`
	CreatedAt      Timestamp `json:"createdAt"`
	UpdatedAt      Timestamp `json:"updatedAt"`
}

type BlogInput struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

type Comment struct {
	ID         int64     `json:"id"`
	Content    string    `json:"content"`
	BlogID     int64     `json:"blogId"`
	AuthorID   int64     `json:"authorId"`
	AuthorName string    `json:"authorName"`
	IsEdited   bool      `json:"isEdited"`
	CreatedAt  Timestamp `json:"createdAt"`
	UpdatedAt  Timestamp `json:"updatedAt"`
}

type CommentInput struct {
	Content string `json:"content"`
}

type Tag struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Color      string    `json:"color,omitempty"`
	UsageCount int64     `json:"usageCount"`
	CreatedAt  Timestamp `json:"createdAt"`
}

type TagInput struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type UserProfile struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Bio            *string   `json:"bio"`
	ProfilePicture *string   `json:"profilePicture"`
	CreatedAt      Timestamp `json:"createdAt"`
	BlogCount      int64     `json:"blogCount"`
	CommentCount   int64     `json:"commentCount"`
}

type ProfileInput struct {
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Bio            *string `json:"bio,omitempty"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

type ImageRef struct {
	ID           int64  `json:"id"`
	FileName     string `json:"fileName"`
	OriginalName string `json:"originalName"`
	URL          string `json:"url"`
	ContentType  string `json:"contentType"`
	FileSize     int64  `json:"fileSize"`
}

// Page is the pagination envelope returned by every list endpoint.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

func (p *Page[T]) IsEmpty() bool {
	return p == nil || p.TotalPages == 0 || len(p.Content) == 0
}

// Timestamp accepts RFC 3339 as well as the zone-less LocalDateTime form the backend emits.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return xerrors.Newf("timestamp must be a string: %w", err)
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return xerrors.Newf("unsupported timestamp %q", raw)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format("2006-01-02T15:04:05"))
}

func (t Timestamp) MarshalYAML() (any, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.Time.Format("2006-01-02T15:04:05"), nil
}
