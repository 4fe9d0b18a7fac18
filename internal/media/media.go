// Package media is the boundary to the external object store that keeps uploaded images and
// videos. The feed only needs a durable URL back; key layout is owned by the adapters.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var (
	ErrUpload = errors.New("media upload failed")
	ErrDelete = errors.New("media delete failed")
)

const (
	OpUpload = "upload"
	OpDelete = "delete"
)

type Object struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type Storage interface {
	Upload(ctx context.Context, file io.Reader, mimeType string, originalName string) (*Object, error)
	Delete(ctx context.Context, key string) error
}

// Error reports an adapter failure. It matches ErrUpload or ErrDelete depending on Op.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("media %s(%s): %s", e.Op, e.Key, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrUpload:
		return e.Op == OpUpload
	case ErrDelete:
		return e.Op == OpDelete
	}
	return false
}
