package fakeapi

import (
	"strings"
	"time"

	"github.com/siahsang/blogclient/models"
)

// SetClock replaces the time source used for timestamps and token expiry.
func (s *Server) SetClock(now func() time.Time) {
	s.now = now
}

// AddUser registers a user directly and returns it with a fresh token.
func (s *Server) AddUser(email, password, firstName, lastName string) (*models.AuthResponse, error) {
	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}
	user := userRecord{
		ID:           s.newID(),
		Email:        strings.TrimSpace(email),
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	s.users.Store(user.ID, user)

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Token:     token,
	}, nil
}

func (s *Server) AddBlog(authorID int64, title, content string, tags ...string) models.BlogPost {
	now := s.now()
	blog := blogRecord{
		ID:        s.newID(),
		Title:     title,
		Content:   content,
		AuthorID:  authorID,
		Tags:      s.ensureTags(tags),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.blogs.Store(blog.ID, blog)
	return s.blogResponse(blog)
}

func (s *Server) AddComment(blogID, authorID int64, content string) models.Comment {
	now := s.now()
	comment := commentRecord{
		ID:        s.newID(),
		BlogID:    blogID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.comments.Store(comment.ID, comment)
	return commentResponse(comment, s.usersByID())
}

// CommentCount is the number of stored comments on blogID.
func (s *Server) CommentCount(blogID int64) int {
	count := 0
	for _, c := range s.comments.Values() {
		if c.BlogID == blogID {
			count++
		}
	}
	return count
}
