package events

import (
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"nostrevents/engine/library"
	"nostrevents/engine/tags"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type wireEvent struct {
	ID        string     `json:"id"`
	PubKey    string     `json:"pubkey"`
	CreatedAt int64      `json:"created_at"`
	Kind      uint32     `json:"kind"`
	Tags      [][]string `json:"tags"`
	Content   string     `json:"content"`
	Ots       *string    `json:"ots,omitempty"`
	Sig       string     `json:"sig"`
}

// MarshalJSON writes the event in wire form. Strings use the same escaping as
// the canonical serialization, so the content round trips byte for byte.
func (e Event) MarshalJSON() ([]byte, error) {
	dst := make([]byte, 0, 320+len(e.Content)+len(e.Tags)*80)
	dst = append(dst, `{"id":"`...)
	dst = append(dst, e.ID.Hex()...)
	dst = append(dst, `","pubkey":"`...)
	dst = append(dst, e.PubKey.Hex()...)
	dst = append(dst, `","created_at":`...)
	dst = strconv.AppendInt(dst, int64(e.CreatedAt), 10)
	dst = append(dst, `,"kind":`...)
	dst = strconv.AppendUint(dst, uint64(e.Kind), 10)
	dst = append(dst, `,"tags":`...)
	dst, err := appendTags(dst, e.Tags)
	if err != nil {
		return nil, err
	}
	dst = append(dst, `,"content":`...)
	if dst, err = appendString(dst, e.Content); err != nil {
		return nil, err
	}
	if e.Ots != nil {
		dst = append(dst, `,"ots":`...)
		if dst, err = appendString(dst, *e.Ots); err != nil {
			return nil, err
		}
	}
	dst = append(dst, `,"sig":"`...)
	dst = append(dst, e.Sig.Hex()...)
	dst = append(dst, `"}`...)
	return dst, nil
}

// UnmarshalJSON reads an event in wire form. Hex fields may be either case;
// tags are decoded with tags.Parse and never cause an error.
func (e *Event) UnmarshalJSON(data []byte) error {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	id, err := library.IdFromHex(w.ID)
	if err != nil {
		return fmt.Errorf("event id: %w", err)
	}
	pubkey, err := library.PublicKeyFromHex(w.PubKey)
	if err != nil {
		return fmt.Errorf("event pubkey: %w", err)
	}
	sig, err := library.SignatureFromHex(w.Sig)
	if err != nil {
		return fmt.Errorf("event sig: %w", err)
	}
	*e = Event{
		ID:        id,
		PubKey:    pubkey,
		CreatedAt: library.Unixtime(w.CreatedAt),
		Kind:      library.Kind(w.Kind),
		Tags:      tags.FromStrings(w.Tags),
		Content:   w.Content,
		Ots:       w.Ots,
		Sig:       sig,
	}
	return nil
}

// ParseJSON is a convenience wrapper around UnmarshalJSON.
func ParseJSON(data []byte) (*Event, error) {
	e := new(Event)
	if err := e.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return e, nil
}
