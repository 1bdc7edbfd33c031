package errcode

import (
	"errors"
	"fmt"
)

// Kind 错误分类
type Kind int

const (
	Internal Kind = iota
	Unauthenticated
	Forbidden
	NotFound
	Validation
	Upstream
	Store
)

var kindNames = map[Kind]string{
	Internal:        "INTERNAL",
	Unauthenticated: "UNAUTHENTICATED",
	Forbidden:       "FORBIDDEN",
	NotFound:        "NOT_FOUND",
	Validation:      "VALIDATION_ERROR",
	Upstream:        "UPSTREAM_FAILURE",
	Store:           "STORE_FAILURE",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[Internal]
}

// Error 应用错误：Kind + 面向用户的 Message + 内部原因 Err
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Extensions is picked up by the GraphQL layer and exposed as `extensions.code`.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Kind.String()}
}

// Public 去掉内部原因，只保留可以返回给客户端的部分
func (e *Error) Public() *Error {
	return &Error{Kind: e.Kind, Message: e.Message}
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf 返回错误分类，非 *Error 一律视为 Internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

var (
	ErrUnauthenticated = New(Unauthenticated, "Please Login/Signup first!")
	ErrForbidden       = New(Forbidden, "You are not allowed to perform this action")
)
