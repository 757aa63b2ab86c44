// Package jsonapi implements the document envelope exchanged by the services:
// {data:{type,id,attributes}} for single resources, {data:[...], meta:{...}}
// for collections and {errors:[{detail}]} for failures.
package jsonapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrMissingAttributes is returned when a request document carries no
// data.attributes member.
var ErrMissingAttributes = errors.New("document has no data.attributes")

// Resource is a single resource object.
type Resource struct {
	Type       string `json:"type"`
	ID         string `json:"id"`
	Attributes any    `json:"attributes"`
}

// Meta carries offset pagination info for collection documents.
type Meta struct {
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Total int64 `json:"total"`
}

// Error is a single member of the errors array.
type Error struct {
	Status string `json:"status,omitempty"`
	Code   string `json:"code,omitempty"`
	Detail string `json:"detail"`
}

// Document is the top-level envelope.
type Document struct {
	Data   any     `json:"data,omitempty"`
	Meta   *Meta   `json:"meta,omitempty"`
	Errors []Error `json:"errors,omitempty"`
}

// Write encodes the document onto the response with the given status code.
func Write(w http.ResponseWriter, status int, doc Document) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}

// DecodeAttributes reads a request document and returns its data.attributes
// member decoded into T. A missing data or attributes member is an error.
func DecodeAttributes[T any](r io.Reader) (T, error) {
	var zero T

	var doc struct {
		Data *struct {
			Attributes *T `json:"attributes"`
		} `json:"data"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return zero, fmt.Errorf("decode document: %w", err)
	}
	if doc.Data == nil || doc.Data.Attributes == nil {
		return zero, ErrMissingAttributes
	}

	return *doc.Data.Attributes, nil
}
