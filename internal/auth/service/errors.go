package service

import (
	"net/http"

	commonerrors "github.com/zibbid/postboard/internal/common/errors"
)

// ErrInvalidCredentials is returned for both unknown-email and wrong-password
// logins so the response does not reveal which half failed.
var ErrInvalidCredentials = commonerrors.NewDomainError(
	"INVALID_CREDENTIALS",
	commonerrors.CategoryAuth,
	http.StatusUnauthorized,
	"invalid email or password",
)
