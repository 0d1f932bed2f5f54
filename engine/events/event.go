// Package events holds the signed event type: construction, canonical
// serialization, verification, the wire JSON form and the read-only queries
// that interpret an event's tags.
package events

import (
	"errors"
	"fmt"

	"nostrevents/engine/library"
	"nostrevents/engine/tags"
)

var (
	ErrSignatureMismatch = errors.New("event signature does not verify")
	ErrHashMismatch      = errors.New("event id does not match its contents")
	ErrEventInFuture     = errors.New("event created_at is in the future")
)

// Event is a signed event. ID is the sha256 of the canonical serialization of
// PubKey, CreatedAt, Kind, Tags and Content. Sig signs ID. Ots is an optional
// OpenTimestamps proof and is not covered by the id.
type Event struct {
	ID        library.Id
	PubKey    library.PublicKey
	CreatedAt library.Unixtime
	Kind      library.Kind
	Tags      []tags.Tag
	Content   string
	Ots       *string
	Sig       library.Signature
}

// PreEvent is everything needed to build an Event.
type PreEvent struct {
	PubKey    library.PublicKey
	CreatedAt library.Unixtime
	Kind      library.Kind
	Tags      []tags.Tag
	Content   string
	Ots       *string
}

// Serialize returns the canonical serialization of the pre-event.
func (pre *PreEvent) Serialize() ([]byte, error) {
	return Serialize(pre.PubKey, pre.CreatedAt, pre.Kind, pre.Tags, pre.Content)
}

// Hash computes the id that an event built from pre would have.
func Hash(pre *PreEvent) (library.Id, error) {
	serialized, err := pre.Serialize()
	if err != nil {
		return library.Id{}, err
	}
	return library.Sha256Sum(serialized), nil
}

// New hashes and signs pre. The signature is BIP-340 over the 32 byte id.
func New(pre PreEvent, key *library.PrivateKey) (*Event, error) {
	id, err := Hash(&pre)
	if err != nil {
		return nil, err
	}
	return assemble(pre, id, key)
}

// NewWithID signs an id that the caller already computed with Hash. It exists
// for callers that searched for an id themselves, such as the proof-of-work miner.
func NewWithID(pre PreEvent, id library.Id, key *library.PrivateKey) (*Event, error) {
	return assemble(pre, id, key)
}

func assemble(pre PreEvent, id library.Id, key *library.PrivateKey) (*Event, error) {
	sig, err := key.SignHash(id)
	if err != nil {
		return nil, fmt.Errorf("signing event %s: %w", id, err)
	}
	return &Event{
		ID:        id,
		PubKey:    pre.PubKey,
		CreatedAt: pre.CreatedAt,
		Kind:      pre.Kind,
		Tags:      pre.Tags,
		Content:   pre.Content,
		Ots:       pre.Ots,
		Sig:       sig,
	}, nil
}

// Serialize returns the canonical serialization of the event's own fields.
func (e *Event) Serialize() ([]byte, error) {
	return Serialize(e.PubKey, e.CreatedAt, e.Kind, e.Tags, e.Content)
}

// Verify checks an event received from elsewhere. The signature and the id are
// both checked against a fresh serialization of the event's fields, and when
// maxTime is not nil events created after it are rejected. Every failing check
// is reported; use errors.Is with ErrSignatureMismatch, ErrHashMismatch and
// ErrEventInFuture to tell them apart.
func (e *Event) Verify(maxTime *library.Unixtime) error {
	serialized, err := e.Serialize()
	if err != nil {
		return err
	}
	digest := library.Sha256Sum(serialized)

	var errs []error
	if err := library.VerifyHash(digest, e.Sig, e.PubKey); err != nil {
		errs = append(errs, fmt.Errorf("%w: %s", ErrSignatureMismatch, err.Error()))
	}
	if maxTime != nil && e.CreatedAt > *maxTime {
		errs = append(errs, fmt.Errorf("%w: %d > %d", ErrEventInFuture, e.CreatedAt, *maxTime))
	}
	if library.Id(digest) != e.ID {
		errs = append(errs, ErrHashMismatch)
	}
	return errors.Join(errs...)
}

// PreEvent returns the unsigned fields of e, with its own copy of the tag list.
func (e *Event) PreEvent() PreEvent {
	return PreEvent{
		PubKey:    e.PubKey,
		CreatedAt: e.CreatedAt,
		Kind:      e.Kind,
		Tags:      tags.Clone(e.Tags),
		Content:   e.Content,
		Ots:       e.Ots,
	}
}
