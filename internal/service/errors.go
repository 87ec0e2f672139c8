package service

import (
	"errors"
	"fmt"
)

// Errores de negocio exportados (los usa el controller)
var (
	ErrDuplicateUser      = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInvalidToken       = errors.New("could not validate credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserNotFound       = errors.New("could not find user")
	ErrOrderNotFound      = errors.New("order not found")
	ErrForbidden          = errors.New("forbidden")
	ErrPersistenceFailure = errors.New("the store did not acknowledge the write")
	ErrInvalidStatus      = errors.New("invalid order status")
)

// Variantes de ErrForbidden; errors.Is(err, ErrForbidden) sigue siendo verdadero.
var (
	ErrWrongOwner     = fmt.Errorf("%w: owner email does not match the authenticated user", ErrForbidden)
	ErrOrderCancelled = fmt.Errorf("%w: the order you are trying to update has been cancelled", ErrForbidden)
)
