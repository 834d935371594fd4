package core

import (
	"fmt"

	"github.com/mdobak/go-xerrors"
)

var (
	ErrNotAuthenticated = xerrors.Message("Please login to continue")
	ErrCancelled        = xerrors.Message("Cancelled")
)

// AuthorizationError means the signed in user does not own the resource.
type AuthorizationError struct {
	Action   string
	Resource string
	UserID   int64
	OwnerID  int64
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("You are not authorized to %s this %s", e.Action, e.Resource)
}

// errorMessage is the text shown to the user for err, or fallback when err has none.
func errorMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
