package fakeapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/siahsang/blogclient/internal/web"
)

const userCtxKey = "user_data"

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		authorization := r.Header.Get("Authorization")
		if authorization != "" {
			authorizationParts := strings.Split(authorization, " ")
			if len(authorizationParts) != 2 || authorizationParts[0] != "Bearer" {
				s.invalidAuthenticationTokenResponse(w, r, nil)
				return
			}
			userID, err := s.parseToken(authorizationParts[1])
			if err != nil {
				s.invalidAuthenticationTokenResponse(w, r, err)
				return
			}

			user, ok := s.users.Get(userID)
			if !ok {
				s.invalidAuthenticationTokenResponse(w, r, nil)
				return
			}
			r = web.AddValueToContext(r, userCtxKey, user)
		}

		next.ServeHTTP(w, r)
	})
}

func authenticatedUser(r *http.Request) (userRecord, bool) {
	return web.GetValueFromContext[userRecord](r, userCtxKey)
}

func (s *Server) requireAuthenticatedUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := authenticatedUser(r); !ok {
			s.authenticationRequiredResponse(w, r)
			return
		}
		next(w, r)
	}
}

func (s *Server) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fn := s.interceptor.Load(); fn != nil && (*fn)(w, r) {
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				s.internalErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
