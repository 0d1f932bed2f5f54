package events

import (
	"strconv"
	"strings"

	"golang.org/x/exp/slices"

	"nostrevents/engine/library"
	"nostrevents/engine/tags"
)

// PersonRef is a 'p' tag with its relay hint checked.
type PersonRef struct {
	Pubkey  library.PublicKey
	Relay   *library.RelayURL
	Petname *string
}

// EventRef is an 'e' tag with its relay hint checked.
type EventRef struct {
	ID     library.Id
	Relay  *library.RelayURL
	Marker *string
}

type Reaction struct {
	ID      library.Id
	Content string
	Relay   *library.RelayURL
}

type Deletion struct {
	IDs    []library.Id
	Reason string
}

const (
	MarkerRoot    = "root"
	MarkerReply   = "reply"
	MarkerMention = "mention"
)

// relay turns a relay hint into a RelayURL, dropping hints that are not ws or wss urls.
func relay(u *library.UncheckedURL) *library.RelayURL {
	if u == nil {
		return nil
	}
	r, err := library.ParseRelayURL(*u)
	if err != nil {
		return nil
	}
	return &r
}

func unmarked(marker *string) bool {
	return marker == nil || *marker == ""
}

func hasMarker(marker *string, want string) bool {
	return marker != nil && *marker == want
}

func toEventRef(t tags.Event) EventRef {
	return EventRef{ID: t.ID, Relay: relay(t.RelayURL), Marker: t.Marker}
}

func toPersonRef(t tags.Pubkey) PersonRef {
	return PersonRef{Pubkey: t.Pubkey, Relay: relay(t.RelayURL), Petname: t.Petname}
}

func (e *Event) eventTags() []tags.Event {
	var out []tags.Event
	for _, t := range e.Tags {
		if et, ok := t.(tags.Event); ok {
			out = append(out, et)
		}
	}
	return out
}

// People returns every 'p' tag in order.
func (e *Event) People() []PersonRef {
	var out []PersonRef
	for _, t := range e.Tags {
		if p, ok := t.(tags.Pubkey); ok {
			out = append(out, toPersonRef(p))
		}
	}
	return out
}

// ReferencedPeople returns the 'p' tags at index n for which the content
// contains the literal "#[n]".
func (e *Event) ReferencedPeople() []PersonRef {
	var out []PersonRef
	for n, t := range e.Tags {
		p, ok := t.(tags.Pubkey)
		if !ok {
			continue
		}
		if strings.Contains(e.Content, "#["+strconv.Itoa(n)+"]") {
			out = append(out, toPersonRef(p))
		}
	}
	return out
}

// RepliesTo finds the event this one replies to. A tag marked reply wins over
// one marked root; failing both, the last 'e' tag is used if it is unmarked.
// Reposts never reply.
func (e *Event) RepliesTo() (EventRef, bool) {
	if !e.Kind.IsFeedDisplayable() || e.Kind == library.Repost {
		return EventRef{}, false
	}
	list := e.eventTags()
	if len(list) == 0 {
		return EventRef{}, false
	}
	for _, want := range []string{MarkerReply, MarkerRoot} {
		if i := slices.IndexFunc(list, func(t tags.Event) bool { return hasMarker(t.Marker, want) }); i >= 0 {
			return toEventRef(list[i]), true
		}
	}
	if last := list[len(list)-1]; unmarked(last.Marker) {
		return toEventRef(last), true
	}
	return EventRef{}, false
}

// RepliesToRoot finds the root of the thread: the first tag marked root, or
// else the first 'e' tag if it is unmarked.
func (e *Event) RepliesToRoot() (EventRef, bool) {
	if !e.Kind.IsFeedDisplayable() {
		return EventRef{}, false
	}
	list := e.eventTags()
	if i := slices.IndexFunc(list, func(t tags.Event) bool { return hasMarker(t.Marker, MarkerRoot) }); i >= 0 {
		return toEventRef(list[i]), true
	}
	if len(list) > 0 && unmarked(list[0].Marker) {
		return toEventRef(list[0]), true
	}
	return EventRef{}, false
}

// ReferredEvents returns every 'e' tag regardless of kind or marker.
func (e *Event) ReferredEvents() []EventRef {
	var out []EventRef
	for _, t := range e.eventTags() {
		out = append(out, toEventRef(t))
	}
	return out
}

// Mentions returns the events this one mentions. For reposts that is every
// 'e' tag. Otherwise it is the tags marked mention followed by the unmarked
// tags that are neither the first nor the last 'e' tag.
func (e *Event) Mentions() []EventRef {
	if !e.Kind.IsFeedDisplayable() {
		return nil
	}
	list := e.eventTags()
	if e.Kind == library.Repost {
		return e.ReferredEvents()
	}
	var out []EventRef
	for _, t := range list {
		if hasMarker(t.Marker, MarkerMention) {
			out = append(out, toEventRef(t))
		}
	}
	if len(list) > 2 {
		for _, t := range list[1 : len(list)-1] {
			if unmarked(t.Marker) {
				out = append(out, toEventRef(t))
			}
		}
	}
	return out
}

// ReactsTo returns the target of a reaction, which is the last 'e' tag.
func (e *Event) ReactsTo() (Reaction, bool) {
	if e.Kind != library.Reaction {
		return Reaction{}, false
	}
	list := e.eventTags()
	if len(list) == 0 {
		return Reaction{}, false
	}
	last := list[len(list)-1]
	return Reaction{ID: last.ID, Content: e.Content, Relay: relay(last.RelayURL)}, true
}

// Deletes returns the ids a deletion event removes, with the content as the reason.
func (e *Event) Deletes() (Deletion, bool) {
	if e.Kind != library.EventDeletion {
		return Deletion{}, false
	}
	var ids []library.Id
	for _, t := range e.eventTags() {
		ids = append(ids, t.ID)
	}
	if len(ids) == 0 {
		return Deletion{}, false
	}
	return Deletion{IDs: ids, Reason: e.Content}, true
}

// Client returns the first value of a "client" tag.
func (e *Event) Client() (string, bool) {
	for _, t := range e.Tags {
		if o, ok := t.(tags.Other); ok && o.Tag == "client" && len(o.Data) > 0 {
			return o.Data[0], true
		}
	}
	return "", false
}

func (e *Event) Subject() (string, bool) {
	for _, t := range e.Tags {
		if s, ok := t.(tags.Subject); ok {
			return s.Subject, true
		}
	}
	return "", false
}

func (e *Event) ContentWarning() (string, bool) {
	for _, t := range e.Tags {
		if w, ok := t.(tags.ContentWarning); ok {
			return w.Warning, true
		}
	}
	return "", false
}

// Parameter is only defined for parameterized replaceable kinds. Without a
// parameter tag it is the empty string.
func (e *Event) Parameter() (string, bool) {
	if !e.Kind.IsParameterizedReplaceable() {
		return "", false
	}
	for _, t := range e.Tags {
		if p, ok := t.(tags.Parameter); ok {
			return p.Value, true
		}
	}
	return "", true
}

// Identifier returns the value of the first 'd' tag.
func (e *Event) Identifier() (string, bool) {
	for _, t := range e.Tags {
		if d, ok := t.(tags.Identifier); ok {
			return d.Value, true
		}
	}
	return "", false
}

// Expiration returns the time of the first expiration tag.
func (e *Event) Expiration() (library.Unixtime, bool) {
	for _, t := range e.Tags {
		if x, ok := t.(tags.Expiration); ok {
			return x.Time, true
		}
	}
	return 0, false
}

// Expired reports whether the event has an expiration at or before now.
func (e *Event) Expired(now library.Unixtime) bool {
	at, ok := e.Expiration()
	return ok && at <= now
}

func (e *Event) Hashtags() []string {
	if !e.Kind.IsFeedDisplayable() {
		return nil
	}
	var out []string
	for _, t := range e.Tags {
		if h, ok := t.(tags.Hashtag); ok {
			out = append(out, h.Hashtag)
		}
	}
	return out
}

// URLs returns the 'r' tags that hold valid relay urls.
func (e *Event) URLs() []library.RelayURL {
	if !e.Kind.IsFeedDisplayable() {
		return nil
	}
	var out []library.RelayURL
	for _, t := range e.Tags {
		if r, ok := t.(tags.Reference); ok {
			if u, err := library.ParseRelayURL(r.URL); err == nil {
				out = append(out, u)
			}
		}
	}
	return out
}

// Pow is the proof of work the author committed to: the number of leading
// zero bits in the id, capped by the target of the first nonce tag. An event
// without a target has no proof of work however lucky its id.
func (e *Event) Pow() uint8 {
	zeros := library.LeadingZeroBits(e.ID[:])
	var target uint8
	if i := slices.IndexFunc(e.Tags, func(t tags.Tag) bool { _, ok := t.(tags.Nonce); return ok }); i >= 0 {
		if n := e.Tags[i].(tags.Nonce); n.Target != nil {
			if v, err := strconv.ParseUint(*n.Target, 10, 8); err == nil {
				target = uint8(v)
			}
		}
	}
	if zeros < target {
		return zeros
	}
	return target
}
