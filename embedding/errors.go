package embedding

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable is returned once the client cannot produce embeddings
	// for the rest of the process.
	ErrUnavailable = errors.New("embedding unavailable")
	// ErrArchMismatch reports a model built for another CPU architecture.
	ErrArchMismatch = errors.New("model architecture mismatch")
	// ErrEmptyAsset reports a staged asset with zero bytes.
	ErrEmptyAsset = errors.New("asset is empty")
	// ErrShapeMismatch reports an inference output that is neither pooled
	// nor per-token.
	ErrShapeMismatch = errors.New("unexpected output shape")
	// ErrClosed reports a call that raced with Close.
	ErrClosed = errors.New("embedding client closed")
)

// AssetError wraps a failure to make one asset available locally.
type AssetError struct {
	Name string
	Err  error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("asset %s: %v", e.Name, e.Err)
}

func (e *AssetError) Unwrap() error { return e.Err }
