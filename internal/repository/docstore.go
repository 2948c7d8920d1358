package repository

import (
	"context"
	"errors"
)

// Storage-level sentinel errors.
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrDocumentExists   = errors.New("document already exists")
	ErrVersionConflict  = errors.New("document version conflict")
)

// Document is one stored training day: the raw JSON body plus the
// version counter maintained by the store on every replace.
type Document struct {
	Date    int64
	Data    []byte
	Version int64
}

// DocumentStore is the persistence boundary: a single collection of
// training documents keyed by unix timestamp. These five primitives are
// everything the bot asks of its storage; Replace is conditional on the
// version last read so concurrent writers cannot silently clobber each
// other's changes.
type DocumentStore interface {
	FindByDate(ctx context.Context, date int64) (*Document, error)
	FindAll(ctx context.Context) ([]Document, error)
	Insert(ctx context.Context, date int64, data []byte) error
	Replace(ctx context.Context, date int64, data []byte, expectedVersion int64) error
	Drop(ctx context.Context) error
}
