package services

import (
	"errors"
	"fmt"
)

// Machine readable error codes returned in the response envelope.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidFile        = "INVALID_FILE"
	CodeProductNotFound    = "PRODUCT_NOT_FOUND"
	CodeStorage            = "STORAGE_ERROR"
	CodeFetchFailed        = "PRODUCT_FETCH_FAILED"
	CodeCreateFailed       = "PRODUCT_CREATE_FAILED"
	CodeUpdateFailed       = "PRODUCT_UPDATE_FAILED"
	CodeDeleteFailed       = "PRODUCT_DELETE_FAILED"
	CodeUserExists         = "USER_EXISTS"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeInternal           = "INTERNAL_ERROR"
)

var (
	// ErrUserExists is returned when a username or email is already registered.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials hides whether the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidRole rejects roles the API does not know.
	ErrInvalidRole = errors.New("invalid role")
)

// PersistenceError is a repository failure tagged with the code of the
// operation that failed.
type PersistenceError struct {
	Code string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistenceError(code string, err error) error {
	return &PersistenceError{Code: code, Err: err}
}
