package fakeapi

import (
	"errors"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mdobak/go-xerrors"
	"golang.org/x/crypto/bcrypt"
)

type userClaim struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (s *Server) generateToken(user userRecord) (string, error) {
	now := s.now()
	claim := userClaim{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claim)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", xerrors.New(err)
	}
	return signed, nil
}

func (s *Server) parseToken(tokenString string) (int64, error) {
	parsedToken, err := jwt.ParseWithClaims(tokenString, &userClaim{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, xerrors.New("unexpected signing method")
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return 0, xerrors.New(err)
	}

	claim, ok := parsedToken.Claims.(*userClaim)
	if !ok || !parsedToken.Valid {
		return 0, xerrors.New("invalid token")
	}

	id, err := strconv.ParseInt(claim.Subject, 10, 64)
	if err != nil {
		return 0, xerrors.New("invalid token subject")
	}
	return id, nil
}

func (s *Server) hashPassword(plainTextPassword string) ([]byte, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), s.config.BcryptCost)
	if err != nil {
		return nil, xerrors.New(err)
	}
	return hashed, nil
}

func isPasswordMatch(hash []byte, plainTextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(hash, []byte(plainTextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, xerrors.New(err)
	}
	return true, nil
}
