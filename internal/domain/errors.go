package domain

import "errors"

// Ошибки ввода дат
var (
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrEndBeforeStart    = errors.New("end date before start date")
)

// Ошибки токенов
var (
	ErrTokenTooShort  = errors.New("token too short")
	ErrTokenMalformed = errors.New("token malformed")
	ErrNoToken        = errors.New("no token linked")
)

// Ошибки хранилища
var (
	ErrUserNotFound = errors.New("user not found")
)
