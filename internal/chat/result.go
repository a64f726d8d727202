package chat

import "errors"

// Kind classifies a domain violation carried in a Result.
type Kind string

const (
	KindNotFound      Kind = "not_found"
	KindValidation    Kind = "validation"
	KindAuthorization Kind = "authorization"
	KindConflict      Kind = "conflict"
)

// Names for operations that report several distinct failures.
const (
	NameSame           = "same"
	NameMissingInfo    = "missingInfo"
	NameChannelType    = "channelType"
	NameExists         = "exists"
	NameGeneralChannel = "generalChannel"
)

// ErrAccessDenied is returned by administrative operations given a wrong
// credential. It is a programmer error, not a domain outcome.
var ErrAccessDenied = errors.New("access denied")

// Result is the envelope every domain operation returns. A failed Result has
// Error set and zero Data; store failures are reported through the error
// return instead.
type Result[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Name    string `json:"name,omitempty"`
	Kind    Kind   `json:"kind,omitempty"`
}

func (r Result[T]) OK() bool {
	return r.Error == ""
}

func ok[T any](data T, message string) (Result[T], error) {
	return Result[T]{Data: data, Message: message}, nil
}

func fail[T any](kind Kind, message string) (Result[T], error) {
	return Result[T]{Error: message, Kind: kind}, nil
}

func failNamed[T any](kind Kind, name, message string) (Result[T], error) {
	return Result[T]{Error: message, Name: name, Kind: kind}, nil
}

// relay copies a failed Result into another Result type.
func relay[T, U any](r Result[U]) (Result[T], error) {
	return Result[T]{Error: r.Error, Name: r.Name, Kind: r.Kind}, nil
}
