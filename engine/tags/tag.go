// Package tags is the codec for event tags: positional arrays of strings whose
// first element names the tag.
package tags

import (
	"strconv"

	"nostrevents/engine/library"
)

// Tag is one of the variants in this package. Strings returns the wire form.
type Tag interface {
	Name() string
	Strings() []string
}

// Address ('a') points at a parameterized replaceable event as kind:pubkey:d.
type Address struct {
	Kind     library.Kind
	Pubkey   library.PublicKey
	D        string
	RelayURL *library.UncheckedURL
	Marker   *string
	Trailing []string
}

type ContentWarning struct {
	Warning string
}

// Delegation carries a NIP-26 delegation token. Fields are kept exactly as
// received; they are only decoded when the delegation is verified.
type Delegation struct {
	Pubkey     string
	Conditions string
	Sig        string
	Trailing   []string
}

// Event ('e') references another event.
type Event struct {
	ID       library.Id
	RelayURL *library.UncheckedURL
	Marker   *string
	Trailing []string
}

type Expiration struct {
	Time library.Unixtime
}

// Pubkey ('p') references a person.
type Pubkey struct {
	Pubkey   library.PublicKey
	RelayURL *library.UncheckedURL
	Petname  *string
	Trailing []string
}

type Hashtag struct {
	Hashtag string
}

// Reference ('r') points at a url.
type Reference struct {
	URL    library.UncheckedURL
	Marker *string
}

type Geohash struct {
	Geohash string
}

// Identifier ('d') defaults to the empty string when the tag has no value.
type Identifier struct {
	Value string
	bare  bool
}

type Subject struct {
	Subject string
}

// Nonce holds the proof-of-work nonce and the number of bits the author aimed for.
type Nonce struct {
	Value    string
	Target   *string
	Trailing []string
}

// Parameter defaults to the empty string when the tag has no value.
type Parameter struct {
	Value string
	bare  bool
}

type Title struct {
	Title string
}

// Other is any tag that is not one of the known variants, or a known tag whose
// fields could not be decoded.
type Other struct {
	Tag  string
	Data []string
}

// Empty is a zero length tag. It is kept so that the signed bytes survive a round trip.
type Empty struct{}

func (Address) Name() string        { return "a" }
func (ContentWarning) Name() string { return "content-warning" }
func (Delegation) Name() string     { return "delegation" }
func (Event) Name() string          { return "e" }
func (Expiration) Name() string     { return "expiration" }
func (Pubkey) Name() string         { return "p" }
func (Hashtag) Name() string        { return "t" }
func (Reference) Name() string      { return "r" }
func (Geohash) Name() string        { return "g" }
func (Identifier) Name() string     { return "d" }
func (Subject) Name() string        { return "subject" }
func (Nonce) Name() string          { return "nonce" }
func (Parameter) Name() string      { return "parameter" }
func (Title) Name() string          { return "title" }
func (o Other) Name() string        { return o.Tag }
func (Empty) Name() string          { return "" }

func (t Address) Strings() []string {
	packed := strconv.FormatUint(uint64(t.Kind), 10) + ":" + t.Pubkey.Hex() + ":" + t.D
	return positional([]string{"a", packed}, t.Trailing, (*string)(t.RelayURL), t.Marker)
}

func (t ContentWarning) Strings() []string {
	return []string{"content-warning", t.Warning}
}

func (t Delegation) Strings() []string {
	return append([]string{"delegation", t.Pubkey, t.Conditions, t.Sig}, t.Trailing...)
}

func (t Event) Strings() []string {
	return positional([]string{"e", t.ID.Hex()}, t.Trailing, (*string)(t.RelayURL), t.Marker)
}

func (t Expiration) Strings() []string {
	return []string{"expiration", strconv.FormatInt(int64(t.Time), 10)}
}

func (t Pubkey) Strings() []string {
	return positional([]string{"p", t.Pubkey.Hex()}, t.Trailing, (*string)(t.RelayURL), t.Petname)
}

func (t Hashtag) Strings() []string { return []string{"t", t.Hashtag} }

func (t Reference) Strings() []string {
	return positional([]string{"r", string(t.URL)}, nil, t.Marker)
}

func (t Geohash) Strings() []string { return []string{"g", t.Geohash} }

func (t Identifier) Strings() []string {
	if t.bare && t.Value == "" {
		return []string{"d"}
	}
	return []string{"d", t.Value}
}

func (t Subject) Strings() []string { return []string{"subject", t.Subject} }

func (t Nonce) Strings() []string {
	return positional([]string{"nonce", t.Value}, t.Trailing, t.Target)
}

func (t Parameter) Strings() []string {
	if t.bare && t.Value == "" {
		return []string{"parameter"}
	}
	return []string{"parameter", t.Value}
}

func (t Title) Strings() []string { return []string{"title", t.Title} }

func (t Other) Strings() []string {
	return append([]string{t.Tag}, t.Data...)
}

func (Empty) Strings() []string { return []string{} }

// positional appends optional fields after head. An absent field is written as ""
// when a later field, or any trailing data, is present so positions are kept.
func positional(head []string, trailing []string, optional ...*string) []string {
	last := -1
	for i, o := range optional {
		if o != nil {
			last = i
		}
	}
	if len(trailing) > 0 {
		last = len(optional) - 1
	}
	out := head
	for i := 0; i <= last; i++ {
		if optional[i] == nil {
			out = append(out, "")
		} else {
			out = append(out, *optional[i])
		}
	}
	return append(out, trailing...)
}

// Ptr is a small helper for filling optional fields.
func Ptr[T any](v T) *T {
	return &v
}
