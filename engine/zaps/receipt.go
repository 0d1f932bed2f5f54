// Package zaps reads lightning zap receipts and builds zap requests.
package zaps

import (
	"errors"
	"fmt"

	"nostrevents/engine/events"
	"nostrevents/engine/library"
	"nostrevents/engine/tags"
)

var (
	ErrMissingBolt11Value = errors.New("missing bolt11 tag value")
	ErrInvoiceParse       = errors.New("bolt11 failed to parse")
	ErrInvoiceSignature   = errors.New("bolt11 signature check failed")
	ErrPayeeKey           = errors.New("payee public key error")
	ErrMissingAmount      = errors.New("amount missing from zap receipt")
	ErrMissingPayeeKey    = errors.New("missing payee public key")
)

// ZapData is what a zap receipt claims. The caller still has to check that
// Pubkey belongs to the recipient's lightning service.
type ZapData struct {
	ID     library.Id
	Amount library.MilliSatoshi
	Pubkey library.PublicKey
}

// FromEvent extracts the zapped event, the amount and the payee key from a zap
// receipt. Events of another kind, and receipts that zap a person rather than
// an event, give nil and no error. The last 'e' tag and the last bolt11 tag
// are used. A nil dec means DecodePay.
func FromEvent(e *events.Event, dec InvoiceDecoder) (*ZapData, error) {
	if e.Kind != library.Zap {
		return nil, nil
	}
	if dec == nil {
		dec = DecodePay{}
	}

	var zapped *library.Id
	var bolt11 *tags.Other
	for _, t := range e.Tags {
		switch t := t.(type) {
		case tags.Event:
			id := t.ID
			zapped = &id
		case tags.Other:
			if t.Tag == "bolt11" {
				b := t
				bolt11 = &b
			}
		}
	}
	if zapped == nil {
		return nil, nil
	}
	if bolt11 == nil {
		return nil, ErrMissingAmount
	}
	if len(bolt11.Data) == 0 {
		return nil, ErrMissingBolt11Value
	}

	inv, err := dec.Decode(bolt11.Data[0])
	if err != nil {
		if errors.Is(err, ErrInvoiceSignature) || errors.Is(err, ErrInvoiceParse) || errors.Is(err, ErrPayeeKey) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrInvoiceParse, err.Error())
	}
	if len(inv.PayeeKey) == 0 {
		return nil, ErrMissingPayeeKey
	}
	pubkey, err := library.XOnlyFromCompressed(inv.PayeeKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPayeeKey, err.Error())
	}
	if inv.Amount == nil {
		return nil, ErrMissingAmount
	}
	return &ZapData{ID: *zapped, Amount: *inv.Amount, Pubkey: pubkey}, nil
}
