package zaps

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"github.com/fiatjaf/go-lnurl"

	"nostrevents/engine/events"
	"nostrevents/engine/library"
	"nostrevents/engine/tags"
)

// Request describes a zap request. Zapped is nil when a person rather than an
// event is zapped. LightningAddress is the recipient's lud16 and may be empty.
type Request struct {
	Recipient        library.PublicKey
	Zapped           *library.Id
	Amount           library.MilliSatoshi
	Relays           []library.RelayURL
	Content          string
	LightningAddress string
}

// NewRequest builds and signs the kind 9734 event that is sent to the
// recipient's lnurl callback.
func NewRequest(key *library.PrivateKey, r Request) (*events.Event, error) {
	relays := make([]string, 0, len(r.Relays))
	for _, u := range r.Relays {
		relays = append(relays, string(u))
	}
	list := []tags.Tag{
		tags.Other{Tag: "relays", Data: relays},
		tags.Other{Tag: "amount", Data: []string{strconv.FormatUint(uint64(r.Amount), 10)}},
	}
	if r.LightningAddress != "" {
		encoded, err := Lud16ToLud06(r.LightningAddress)
		if err != nil {
			return nil, err
		}
		list = append(list, tags.Other{Tag: "lnurl", Data: []string{encoded}})
	}
	list = append(list, tags.Pubkey{Pubkey: r.Recipient})
	if r.Zapped != nil {
		list = append(list, tags.Event{ID: *r.Zapped})
	}
	return events.New(events.PreEvent{
		PubKey:    key.PublicKey(),
		CreatedAt: library.Now(),
		Kind:      library.ZapRequest,
		Tags:      list,
		Content:   r.Content,
	}, key)
}

// Lud16ToLud06 turns a lightning address into the bech32 lnurl of its
// well-known pay endpoint.
func Lud16ToLud06(lud16 string) (string, error) {
	u, err := lud16ToUrl(lud16)
	if err != nil {
		return "", err
	}
	return lnurl.Encode(u)
}

func lud16ToUrl(address string) (string, error) {
	addr, err := mail.ParseAddress(address)
	if err != nil {
		return "", fmt.Errorf("invalid lightning address %q: %w", address, err)
	}
	split := strings.Split(addr.Address, "@")
	if len(split) != 2 {
		return "", fmt.Errorf("invalid lightning address %q", address)
	}
	return "https://" + split[1] + "/.well-known/lnurlp/" + split[0], nil
}
