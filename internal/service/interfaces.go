package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"iter"
	"time"

	"harvester/internal/domain"
	"harvester/internal/state"
)

// Source serves records page by page. The cursor alone determines the next page.
type Source interface {
	Name() string
	FetchBatch(ctx context.Context, cursor domain.Cursor) (*domain.Batch, error)
}

// Converter turns a record into the payload sent to the sink.
// It returns domain.ErrSkipRecord for records that must be ignored.
type Converter interface {
	Convert(ctx context.Context, record domain.Record) ([]byte, error)
}

// Sink receives uploads and deletes. Both must be idempotent.
type Sink interface {
	Upload(ctx context.Context, identifier string, payload []byte) error
	Delete(ctx context.Context, identifier string) error
}

type Clock interface {
	Now() time.Time
}

type Journal interface {
	HasPendingPass() (bool, error)
	MarkHarvestStart() error
	MarkAdded(identifier, fingerprint string) error
	MarkDeleted(identifier string) error
	AlreadyAdded(identifier, fingerprint string) bool
	AlreadyDeleted(identifier string) bool
	RemainingAdds() (iter.Seq[string], error)
	ToBeDeleted() (iter.Seq[string], error)
	MarkHarvestReady() error
	Reset() error
	Close() error
}

type StateStore interface {
	Load() (*state.RunState, error)
	Save(st *state.RunState) error
	SaveError(detail, record string) error
	LastError() (string, error)
	ClearError() error
	Reset() error
}
