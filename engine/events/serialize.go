package events

import (
	"errors"
	"strconv"
	"unicode/utf8"

	"nostrevents/engine/library"
	"nostrevents/engine/tags"
)

var ErrMalformedUTF8 = errors.New("string is not valid UTF-8")

const hexDigits = "0123456789abcdef"

// Serialize produces the bytes that are hashed to form an event id:
//
//	[0,"<pubkey>",<created_at>,<kind>,[<tags>],"<content>"]
//
// with no whitespace. Strings are escaped the way NIP-01 requires, which is
// not how encoding/json escapes them.
func Serialize(pubkey library.PublicKey, createdAt library.Unixtime, kind library.Kind, list []tags.Tag, content string) ([]byte, error) {
	dst := make([]byte, 0, 100+len(content)+len(list)*80)
	dst = append(dst, `[0,"`...)
	dst = append(dst, pubkey.Hex()...)
	dst = append(dst, `",`...)
	dst = strconv.AppendInt(dst, int64(createdAt), 10)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, uint64(kind), 10)
	dst = append(dst, ',')
	dst, err := appendTags(dst, list)
	if err != nil {
		return nil, err
	}
	dst = append(dst, ',')
	if dst, err = appendString(dst, content); err != nil {
		return nil, err
	}
	dst = append(dst, ']')
	return dst, nil
}

func appendTags(dst []byte, list []tags.Tag) ([]byte, error) {
	var err error
	dst = append(dst, '[')
	for i, t := range list {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = append(dst, '[')
		for j, s := range t.Strings() {
			if j > 0 {
				dst = append(dst, ',')
			}
			if dst, err = appendString(dst, s); err != nil {
				return nil, err
			}
		}
		dst = append(dst, ']')
	}
	return append(dst, ']'), nil
}

// appendString writes s as a quoted JSON string. Only '"', '\\' and control
// characters are escaped; everything else, including non-ASCII, is written as is.
func appendString(dst []byte, s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, ErrMalformedUTF8
	}
	dst = append(dst, '"')
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		dst = append(dst, s[start:i]...)
		switch c {
		case '"':
			dst = append(dst, '\\', '"')
		case '\\':
			dst = append(dst, '\\', '\\')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		}
		start = i + 1
	}
	dst = append(dst, s[start:]...)
	return append(dst, '"'), nil
}
