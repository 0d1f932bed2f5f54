package tags

import (
	"strconv"
	"strings"

	"golang.org/x/exp/slices"

	"nostrevents/engine/library"
)

type parser func(fields []string) (Tag, bool)

// parsers is keyed on the wire name. Each parser reads a bounded number of
// positional fields and reports false when a required field is missing or malformed.
var parsers map[string]parser

func init() {
	parsers = map[string]parser{
		"a":               parseAddress,
		"content-warning": single(func(s string) Tag { return ContentWarning{Warning: s} }),
		"delegation":      parseDelegation,
		"e":               parseEvent,
		"expiration":      parseExpiration,
		"p":               parsePubkey,
		"t":               single(func(s string) Tag { return Hashtag{Hashtag: s} }),
		"r":               parseReference,
		"g":               single(func(s string) Tag { return Geohash{Geohash: s} }),
		"d":               parseIdentifier,
		"subject":         single(func(s string) Tag { return Subject{Subject: s} }),
		"nonce":           parseNonce,
		"parameter":       parseParameter,
		"title":           single(func(s string) Tag { return Title{Title: s} }),
	}
}

// Parse decodes one tag. It never fails: an empty array is Empty, and anything
// that does not decode cleanly into a known variant is returned as Other with
// every string preserved. A variant is only returned when encoding it again
// gives back exactly the same strings, so signed bytes survive a round trip.
func Parse(fields []string) Tag {
	if len(fields) == 0 {
		return Empty{}
	}
	if p, ok := parsers[fields[0]]; ok {
		if t, ok := p(fields); ok && slices.Equal(t.Strings(), fields) {
			return t
		}
	}
	return Other{Tag: fields[0], Data: rest(fields, 1)}
}

func single(build func(string) Tag) parser {
	return func(fields []string) (Tag, bool) {
		if len(fields) < 2 {
			return nil, false
		}
		return build(fields[1]), true
	}
}

func parseAddress(fields []string) (Tag, bool) {
	if len(fields) < 2 {
		return nil, false
	}
	parts := strings.Split(fields[1], ":")
	if len(parts) != 3 {
		return nil, false
	}
	kind, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return nil, false
	}
	pubkey, err := library.PublicKeyFromHex(parts[1])
	if err != nil {
		return nil, false
	}
	return Address{
		Kind:     library.Kind(kind),
		Pubkey:   pubkey,
		D:        parts[2],
		RelayURL: optionalURL(fields, 2),
		Marker:   optional(fields, 3),
		Trailing: rest(fields, 4),
	}, true
}

func parseDelegation(fields []string) (Tag, bool) {
	if len(fields) < 4 {
		return nil, false
	}
	return Delegation{
		Pubkey:     fields[1],
		Conditions: fields[2],
		Sig:        fields[3],
		Trailing:   rest(fields, 4),
	}, true
}

func parseEvent(fields []string) (Tag, bool) {
	if len(fields) < 2 {
		return nil, false
	}
	id, err := library.IdFromHex(fields[1])
	if err != nil {
		return nil, false
	}
	return Event{
		ID:       id,
		RelayURL: optionalURL(fields, 2),
		Marker:   optional(fields, 3),
		Trailing: rest(fields, 4),
	}, true
}

func parseExpiration(fields []string) (Tag, bool) {
	if len(fields) < 2 {
		return nil, false
	}
	t, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, false
	}
	return Expiration{Time: library.Unixtime(t)}, true
}

func parsePubkey(fields []string) (Tag, bool) {
	if len(fields) < 2 {
		return nil, false
	}
	pubkey, err := library.PublicKeyFromHex(fields[1])
	if err != nil {
		return nil, false
	}
	return Pubkey{
		Pubkey:   pubkey,
		RelayURL: optionalURL(fields, 2),
		Petname:  optional(fields, 3),
		Trailing: rest(fields, 4),
	}, true
}

func parseReference(fields []string) (Tag, bool) {
	if len(fields) < 2 {
		return nil, false
	}
	return Reference{URL: library.UncheckedURL(fields[1]), Marker: optional(fields, 2)}, true
}

func parseIdentifier(fields []string) (Tag, bool) {
	if len(fields) < 2 {
		return Identifier{bare: true}, true
	}
	return Identifier{Value: fields[1]}, true
}

func parseNonce(fields []string) (Tag, bool) {
	if len(fields) < 2 {
		return nil, false
	}
	return Nonce{Value: fields[1], Target: optional(fields, 2), Trailing: rest(fields, 3)}, true
}

func parseParameter(fields []string) (Tag, bool) {
	if len(fields) < 2 {
		return Parameter{bare: true}, true
	}
	return Parameter{Value: fields[1]}, true
}

// optional reads field i. An empty placeholder followed by further fields is
// read as absent, which is how positional encodes a missing field.
func optional(fields []string, i int) *string {
	if i >= len(fields) {
		return nil
	}
	if fields[i] == "" && i+1 < len(fields) {
		return nil
	}
	s := fields[i]
	return &s
}

func optionalURL(fields []string, i int) *library.UncheckedURL {
	return (*library.UncheckedURL)(optional(fields, i))
}

func rest(fields []string, i int) []string {
	if i >= len(fields) {
		return nil
	}
	out := make([]string, len(fields)-i)
	copy(out, fields[i:])
	return out
}
