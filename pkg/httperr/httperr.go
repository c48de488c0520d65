package httperr

import "errors"

type BadRequestError struct {
	msg string
	err error
}

func (e *BadRequestError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return e.err.Error()
}

func (e *BadRequestError) Unwrap() error { return e.err }

func NewBadRequest(msg string) error { return &BadRequestError{msg: msg} }

// WrapBadRequest classifies err as a bad request while keeping it reachable
// through errors.Is / errors.As.
func WrapBadRequest(err error) error {
	if err == nil {
		return nil
	}
	return &BadRequestError{err: err}
}

func IsBadRequest(err error) bool {
	_, ok := errors.AsType[*BadRequestError](err)
	return ok
}

type NotFoundError struct {
	msg string
	err error
}

func (e *NotFoundError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return e.err.Error()
}

func (e *NotFoundError) Unwrap() error { return e.err }

func NewNotFound(msg string) error { return &NotFoundError{msg: msg} }

func WrapNotFound(err error) error {
	if err == nil {
		return nil
	}
	return &NotFoundError{err: err}
}

func IsNotFound(err error) bool {
	_, ok := errors.AsType[*NotFoundError](err)
	return ok
}
