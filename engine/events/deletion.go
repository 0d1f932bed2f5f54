package events

import (
	"nostrevents/engine/library"
	"nostrevents/engine/tags"
)

// NewDeletion builds an unsigned kind 5 event asking relays to drop ids.
func NewDeletion(pubkey library.PublicKey, reason string, ids ...library.Id) PreEvent {
	list := make([]tags.Tag, 0, len(ids))
	for _, id := range ids {
		list = append(list, tags.Event{ID: id})
	}
	return PreEvent{
		PubKey:    pubkey,
		CreatedAt: library.Now(),
		Kind:      library.EventDeletion,
		Tags:      list,
		Content:   reason,
	}
}
