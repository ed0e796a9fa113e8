package types

import (
	"fmt"
	"net/http"
)

type ResultKind string

const (
	ResultKindSuccess         ResultKind = "success"
	ResultKindError           ResultKind = "error"
	ResultKindUnexpectedError ResultKind = "unexpected-error"
)

// HTTPResponseResult is the outcome of one publisher API operation. Only the
// fields of its Kind are populated: Data for Success, Body for Error and Cause
// for UnexpectedError. HTTPStatus and Header are set for Success and Error.
type HTTPResponseResult[T any] struct {
	Kind       ResultKind
	Data       T
	Body       string
	HTTPStatus int
	Header     http.Header
	Cause      error
}

func SuccessResult[T any](data T, status int, header http.Header) HTTPResponseResult[T] {
	return HTTPResponseResult[T]{Kind: ResultKindSuccess, Data: data, HTTPStatus: status, Header: header}
}

func ErrorResult[T any](body string, status int, header http.Header) HTTPResponseResult[T] {
	return HTTPResponseResult[T]{Kind: ResultKindError, Body: body, HTTPStatus: status, Header: header}
}

func UnexpectedErrorResult[T any](cause error) HTTPResponseResult[T] {
	return HTTPResponseResult[T]{Kind: ResultKindUnexpectedError, Cause: cause}
}

func (r HTTPResponseResult[T]) IsSuccess() bool {
	return r.Kind == ResultKindSuccess
}

func (r HTTPResponseResult[T]) String() string {
	switch r.Kind {
	case ResultKindSuccess:
		return fmt.Sprintf("success: HTTP %d", r.HTTPStatus)
	case ResultKindError:
		return fmt.Sprintf("error: HTTP %d, response: %s", r.HTTPStatus, r.Body)
	default:
		return fmt.Sprintf("unexpected error: %v", r.Cause)
	}
}

// Empty is the payload of operations whose success carries no body.
type Empty struct{}
