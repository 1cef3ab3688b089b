// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"encoding/json"
	"net/http"

	"github.com/commons/commons/internal/model"
)

// Envelope wraps every response body.
type Envelope struct {
	Status  bool          `json:"status"`
	Content any           `json:"content,omitempty"`
	Errors  []ErrorDetail `json:"errors,omitempty"`
}

// ErrorDetail describes one failure.
type ErrorDetail struct {
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Meta is the pagination block of a listing.
type Meta struct {
	Page  int `json:"page"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// DataContent carries a single entity.
type DataContent[T any] struct {
	Data T `json:"data"`
}

// ListContent carries one page of entities.
type ListContent[T any] struct {
	Meta Meta `json:"meta"`
	Data []T  `json:"data"`
}

// Success wraps content in a successful envelope.
func Success(content any) Envelope {
	return Envelope{Status: true, Content: content}
}

// Failure wraps error details in a failed envelope.
func Failure(details ...ErrorDetail) Envelope {
	return Envelope{Status: false, Errors: details}
}

// Data wraps a created entity.
func Data[T any](entity T) Envelope {
	return Success(DataContent[T]{Data: entity})
}

// List wraps a page. Page numbers are reported one-indexed.
func List[T any](page *model.Page[T]) Envelope {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	return Success(ListContent[T]{
		Meta: Meta{Page: page.Number(), Total: page.Total, Pages: page.Pages()},
		Data: items,
	})
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a failed envelope with a single detail.
func WriteError(w http.ResponseWriter, status int, detail ErrorDetail) {
	WriteJSON(w, status, Failure(detail))
}
