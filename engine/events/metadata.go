package events

import (
	"errors"
	"net/mail"
	"strings"

	"nostrevents/engine/library"
)

var ErrWrongEventKind = errors.New("wrong event kind")

// Profile is the json object carried in the content of a kind 0 event.
type Profile struct {
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	About       string `json:"about,omitempty"`
	Picture     string `json:"picture,omitempty"`
	Banner      string `json:"banner,omitempty"`
	Website     string `json:"website,omitempty"`
	Nip05       string `json:"nip05,omitempty"`
	Lud06       string `json:"lud06,omitempty"`
	Lud16       string `json:"lud16,omitempty"`
}

// NewSetMetadata builds an unsigned kind 0 event carrying profile.
func NewSetMetadata(pubkey library.PublicKey, profile Profile) (PreEvent, error) {
	content, err := json.Marshal(profile)
	if err != nil {
		return PreEvent{}, err
	}
	return PreEvent{
		PubKey:    pubkey,
		CreatedAt: library.Now(),
		Kind:      library.Metadata,
		Content:   string(content),
	}, nil
}

// Profile decodes the content of a kind 0 event.
func (e *Event) Profile() (p Profile, err error) {
	if e.Kind != library.Metadata {
		return p, ErrWrongEventKind
	}
	err = json.Unmarshal([]byte(e.Content), &p)
	return
}

// LightningAddress returns the profile's lud16 address if it parses as an email address.
func (p Profile) LightningAddress() (string, bool) {
	if p.Lud16 == "" {
		return "", false
	}
	addr, err := mail.ParseAddress(p.Lud16)
	if err != nil {
		return "", false
	}
	return strings.Trim(addr.String(), "<>"), true
}
