package domain

import (
	"encoding/json"
	"errors"
)

// ErrSkipRecord is returned by a converter for records that must not be sent to the sink.
var ErrSkipRecord = errors.New("skip record")

// Record is a single item served by a source.
type Record interface {
	Identifier() string
	MustAdd() bool
	MustDelete() bool
	String() string
}

// Cursor is an opaque, source defined resumption token. It is stored verbatim in the run state.
type Cursor json.RawMessage

// IsEmpty reports whether the cursor carries no position, meaning "start from the beginning".
func (c Cursor) IsEmpty() bool {
	return len(c) == 0 || string(c) == "null" || string(c) == "{}"
}

func (c Cursor) MarshalJSON() ([]byte, error) {
	if len(c) == 0 {
		return []byte("null"), nil
	}
	return c, nil
}

func (c *Cursor) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = nil
		return nil
	}
	*c = append((*c)[0:0], data...)
	return nil
}

// Batch is one page of records returned by a source fetch.
type Batch struct {
	Records        []Record
	Done           bool
	NextCursor     Cursor
	PauseRequested bool
}
