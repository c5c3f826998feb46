package api

import (
	"context"
	"net/http"
	"net/url"
)

// Endpoint is the CRUD surface of one resource collection, rooted at
// /<resource>/ with members at /<resource>/<id>/.
type Endpoint[T any] struct {
	client   *Client
	resource string
}

// NewEndpoint returns the endpoint for resource on c.
func NewEndpoint[T any](c *Client, resource string) *Endpoint[T] {
	return &Endpoint[T]{client: c, resource: resource}
}

// Resource returns the collection name, e.g. "blogs".
func (e *Endpoint[T]) Resource() string { return e.resource }

func (e *Endpoint[T]) collectionPath() string {
	return "/" + e.resource + "/"
}

func (e *Endpoint[T]) memberPath(id ID) string {
	return "/" + e.resource + "/" + url.PathEscape(string(id)) + "/"
}

// List fetches every record of the collection. A null body yields an empty
// slice.
func (e *Endpoint[T]) List(ctx context.Context) ([]T, error) {
	var records []T
	if err := e.client.do(ctx, http.MethodGet, e.collectionPath(), nil, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// Get fetches one record.
func (e *Endpoint[T]) Get(ctx context.Context, id ID) (*T, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	var record T
	if err := e.client.do(ctx, http.MethodGet, e.memberPath(id), nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Create posts a new record. The returned record is nil when the server
// answers with an empty body.
func (e *Endpoint[T]) Create(ctx context.Context, payload T) (*T, error) {
	return e.send(ctx, http.MethodPost, e.collectionPath(), payload)
}

// Update replaces the record identified by id.
func (e *Endpoint[T]) Update(ctx context.Context, id ID, payload T) (*T, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	return e.send(ctx, http.MethodPut, e.memberPath(id), payload)
}

// Delete removes the record identified by id.
func (e *Endpoint[T]) Delete(ctx context.Context, id ID) error {
	if id == "" {
		return ErrMissingID
	}
	return e.client.do(ctx, http.MethodDelete, e.memberPath(id), nil, nil)
}

func (e *Endpoint[T]) send(ctx context.Context, method, path string, payload T) (*T, error) {
	var out *T
	if err := e.client.do(ctx, method, path, payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}
