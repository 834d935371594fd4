package core

import (
	"context"
	"log/slog"
	"strings"

	"github.com/siahsang/blogclient/internal/validator"
	"github.com/siahsang/blogclient/models"
)

const (
	MaxNameLength = 100
	MaxBioLength  = 500
)

func ValidateProfileInput(input *models.ProfileInput) *validator.Validator {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	v := validator.New()
	v.CheckNotBlank(input.FirstName, "firstName", "First name is required")
	v.CheckMaxLength(input.FirstName, MaxNameLength, "firstName", "First name must not exceed 100 characters")
	v.CheckNotBlank(input.LastName, "lastName", "Last name is required")
	v.CheckMaxLength(input.LastName, MaxNameLength, "lastName", "Last name must not exceed 100 characters")
	if input.Bio != nil {
		v.CheckMaxLength(*input.Bio, MaxBioLength, "bio", "Bio must not exceed 500 characters")
	}
	return v
}

// ValidateCredentials checks presence only; the backend decides the rest.
func ValidateCredentials(email, password string) *validator.Validator {
	v := validator.New()
	v.CheckNotBlank(email, "email", "Email is required")
	v.CheckNotBlank(password, "password", "Password is required")
	return v
}

func ValidateRegistration(req *models.RegisterRequest) *validator.Validator {
	req.Email = strings.TrimSpace(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	v := ValidateCredentials(req.Email, req.Password)
	if req.Email != "" {
		v.CheckEmail(req.Email, "Email must be valid")
	}
	v.CheckNotBlank(req.FirstName, "firstName", "First name is required")
	v.CheckNotBlank(req.LastName, "lastName", "Last name is required")
	return v
}

func (c *Core) Profile(ctx context.Context) (*models.UserProfile, error) {
	if !c.session.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	return c.backend.CurrentProfile(ctx)
}

func (c *Core) UpdateProfile(ctx context.Context, input models.ProfileInput) (*models.UserProfile, error) {
	if !c.session.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	if v := ValidateProfileInput(&input); !v.IsValid() {
		return nil, v.Err()
	}

	profile, err := c.backend.UpdateProfile(ctx, input)
	if err != nil {
		c.notifier.Error(errorMessage(err, "Failed to update profile"))
		return nil, err
	}

	c.log.Info("profile updated", slog.Int64("user_id", profile.ID))
	c.notifier.Success("Profile updated successfully")
	return profile, nil
}
