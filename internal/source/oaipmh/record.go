package oaipmh

import (
	"bytes"
	"context"
	"fmt"

	"harvester/internal/domain"
)

// Record is an OAI-PMH record together with the repository it came from.
type Record struct {
	Repository Repository
	item       OAIRecord
}

// Identifier prefixes the OAI identifier with the repository group, keeping
// identifiers unique across repositories.
func (r *Record) Identifier() string {
	if r.Repository.RepositoryGroupID == "" {
		return r.item.Header.Identifier
	}
	return r.Repository.RepositoryGroupID + ":" + r.item.Header.Identifier
}

// SetSpecs lists the sets the record header claims membership of.
func (r *Record) SetSpecs() []string {
	return r.item.Header.SetSpecs
}

func (r *Record) Deleted() bool {
	return r.item.Header.Status == "deleted"
}

func (r *Record) MustAdd() bool    { return !r.Deleted() }
func (r *Record) MustDelete() bool { return r.Deleted() }

func (r *Record) Metadata() []byte {
	if r.item.Metadata == nil {
		return nil
	}
	return r.item.Metadata.Inner
}

func (r *Record) String() string {
	return "<record>" + r.item.Raw + "</record>"
}

// ExcludeSets returns a record filter dropping records that belong to any of sets.
func ExcludeSets(sets ...string) func(*Record) bool {
	excluded := make(map[string]struct{}, len(sets))
	for _, set := range sets {
		excluded[set] = struct{}{}
	}
	return func(r *Record) bool {
		for _, spec := range r.SetSpecs() {
			if _, ok := excluded[spec]; ok {
				return false
			}
		}
		return true
	}
}

// MetadataConverter sends the contents of the record's metadata element to the sink.
type MetadataConverter struct{}

func (MetadataConverter) Convert(_ context.Context, record domain.Record) ([]byte, error) {
	r, ok := record.(*Record)
	if !ok {
		return nil, fmt.Errorf("unexpected record type %T", record)
	}
	payload := bytes.TrimSpace(r.Metadata())
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: %s has no metadata", domain.ErrSkipRecord, r.Identifier())
	}
	return payload, nil
}
