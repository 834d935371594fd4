package fakeapi

import (
	"net/http"
	"strings"

	"github.com/siahsang/blogclient/internal/validator"
	"github.com/siahsang/blogclient/models"
)

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var input models.RegisterRequest
	if err := s.readJSON(w, r, &input); err != nil {
		s.badRequestResponse(w, r, &AppError{ErrorMessage: err.Error(), ErrorStack: err})
		return
	}

	input.Email = strings.TrimSpace(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	v := validator.New()
	checkEmail(v, input.Email)
	v.CheckNotBlank(input.Password, "password", "Password is required")
	v.Check(len(input.Password) >= 6, "password", "Password must be at least 6 characters")
	v.CheckNotBlank(input.FirstName, "firstName", "First name is required")
	v.CheckNotBlank(input.LastName, "lastName", "Last name is required")
	if !v.IsValid() {
		s.validationResponse(w, r, v.Errors, v.Err().Error())
		return
	}

	hash, err := s.hashPassword(input.Password)
	if err != nil {
		s.internalErrorResponse(w, r, err)
		return
	}

	s.writeMu.Lock()
	if _, exists := s.userByEmail(input.Email); exists {
		s.writeMu.Unlock()
		s.badRequestResponse(w, r, &AppError{ErrorMessage: "Email is already in use"})
		return
	}
	user := userRecord{
		ID:           s.newID(),
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	s.users.Store(user.ID, user)
	s.writeMu.Unlock()

	s.writeAuthResponse(w, r, http.StatusOK, user)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var input models.LoginRequest
	if err := s.readJSON(w, r, &input); err != nil {
		s.badRequestResponse(w, r, &AppError{ErrorMessage: err.Error(), ErrorStack: err})
		return
	}

	v := validator.New()
	v.CheckNotBlank(input.Email, "email", "Email is required")
	v.CheckNotBlank(input.Password, "password", "Password is required")
	if !v.IsValid() {
		s.validationResponse(w, r, v.Errors, v.Err().Error())
		return
	}

	user, exists := s.userByEmail(strings.TrimSpace(input.Email))
	if !exists {
		s.invalidCredentialsResponse(w, r)
		return
	}
	match, err := isPasswordMatch(user.PasswordHash, input.Password)
	if err != nil {
		s.internalErrorResponse(w, r, err)
		return
	}
	if !match {
		s.invalidCredentialsResponse(w, r)
		return
	}

	s.writeAuthResponse(w, r, http.StatusOK, user)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"}, nil); err != nil {
		s.internalErrorResponse(w, r, err)
	}
}

func (s *Server) invalidCredentialsResponse(w http.ResponseWriter, r *http.Request) {
	s.errorResponse(w, r, http.StatusUnauthorized, &AppError{ErrorMessage: "Invalid email or password"})
}

func (s *Server) writeAuthResponse(w http.ResponseWriter, r *http.Request, status int, user userRecord) {
	token, err := s.generateToken(user)
	if err != nil {
		s.internalErrorResponse(w, r, err)
		return
	}

	response := models.AuthResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Token:     token,
	}
	if err := s.writeJSON(w, status, response, nil); err != nil {
		s.internalErrorResponse(w, r, err)
	}
}

func (s *Server) userByEmail(email string) (userRecord, bool) {
	for _, user := range s.users.Values() {
		if strings.EqualFold(user.Email, email) {
			return user, true
		}
	}
	return userRecord{}, false
}

func checkEmail(v *validator.Validator, email string) {
	v.CheckNotBlank(email, "email", "Email is required")
	v.CheckEmail(email, "Email must be valid")
}
