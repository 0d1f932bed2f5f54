package events

import (
	"github.com/nbd-wtf/go-nostr"

	"nostrevents/engine/library"
	"nostrevents/engine/tags"
)

// ToNostr converts to the go-nostr event type for use with its relay client.
func (e *Event) ToNostr() nostr.Event {
	out := nostr.Event{
		ID:        e.ID.Hex(),
		PubKey:    e.PubKey.Hex(),
		CreatedAt: nostr.Timestamp(e.CreatedAt),
		Kind:      int(e.Kind),
		Tags:      make(nostr.Tags, 0, len(e.Tags)),
		Content:   e.Content,
		Sig:       e.Sig.Hex(),
	}
	for _, t := range e.Tags {
		out.Tags = append(out.Tags, nostr.Tag(t.Strings()))
	}
	return out
}

// FromNostr converts an event received through go-nostr. The result is not
// verified.
func FromNostr(n nostr.Event) (*Event, error) {
	id, err := library.IdFromHex(n.ID)
	if err != nil {
		return nil, err
	}
	pubkey, err := library.PublicKeyFromHex(n.PubKey)
	if err != nil {
		return nil, err
	}
	sig, err := library.SignatureFromHex(n.Sig)
	if err != nil {
		return nil, err
	}
	raw := make([][]string, 0, len(n.Tags))
	for _, t := range n.Tags {
		raw = append(raw, []string(t))
	}
	return &Event{
		ID:        id,
		PubKey:    pubkey,
		CreatedAt: library.Unixtime(n.CreatedAt),
		Kind:      library.Kind(n.Kind),
		Tags:      tags.FromStrings(raw),
		Content:   n.Content,
		Sig:       sig,
	}, nil
}
