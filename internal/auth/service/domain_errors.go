package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/qa-llm/backend/internal/common/errors"
)

var (
	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"incorrect email or password",
	)

	ErrInactiveUser = commonerrors.NewDomainError(
		"INACTIVE_USER",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"inactive user",
	)
)
