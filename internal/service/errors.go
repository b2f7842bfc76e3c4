package service

import "errors"

// ValidationError 對應 HTTP 400，Msg 會直接回傳給呼叫端。
type ValidationError struct {
	Msg string
	Err error
}

func (e ValidationError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// AuthError 對應 401；Forbidden 為 true 時對應 403。
type AuthError struct {
	Msg       string
	Forbidden bool
	Err       error
}

func (e AuthError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Forbidden {
		return "forbidden"
	}
	return "unauthorized"
}

func (e AuthError) Unwrap() error { return e.Err }

type NotFoundError struct {
	Msg string
	Err error
}

func (e NotFoundError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "not found"
}

func (e NotFoundError) Unwrap() error { return e.Err }

// CapacityError 表示車位不足或有車位佔用中，對應 HTTP 400。
type CapacityError struct {
	Msg string
}

func (e CapacityError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "capacity exceeded"
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsAuth(err error) bool {
	var target AuthError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target AuthError
	return errors.As(err, &target) && target.Forbidden
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsCapacity(err error) bool {
	var target CapacityError
	return errors.As(err, &target)
}
