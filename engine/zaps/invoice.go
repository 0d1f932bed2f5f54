package zaps

import (
	"encoding/hex"
	"fmt"
	"strings"

	decodepay "github.com/nbd-wtf/ln-decodepay"

	"nostrevents/engine/library"
)

// Invoice is the part of a decoded bolt11 invoice that a zap receipt needs.
// PayeeKey is the 33 byte compressed key, Amount is nil for open invoices.
type Invoice struct {
	PayeeKey []byte
	Amount   *library.MilliSatoshi
}

// InvoiceDecoder decodes a bolt11 string. Implementations must check the
// invoice signature and recover the payee key when it is not stated. Errors
// should wrap ErrInvoiceParse or ErrInvoiceSignature.
type InvoiceDecoder interface {
	Decode(bolt11 string) (Invoice, error)
}

// DecodePay decodes invoices with ln-decodepay.
type DecodePay struct{}

func (DecodePay) Decode(bolt11 string) (inv Invoice, err error) {
	decoded, err := decodepay.Decodepay(bolt11)
	if err != nil {
		// zpay32 only reports bad signatures as text: "invalid invoice signature",
		// "unable to deserialize signature: ..." or the "signature R is 0" family
		// from secp256k1 key recovery.
		if strings.Contains(strings.ToLower(err.Error()), "signature") {
			return inv, fmt.Errorf("%w: %s", ErrInvoiceSignature, err.Error())
		}
		return inv, fmt.Errorf("%w: %s", ErrInvoiceParse, err.Error())
	}
	if decoded.Payee != "" {
		if inv.PayeeKey, err = hex.DecodeString(decoded.Payee); err != nil {
			return inv, fmt.Errorf("%w: %s", ErrPayeeKey, err.Error())
		}
	}
	if decoded.MSatoshi > 0 {
		msat := library.MilliSatoshi(decoded.MSatoshi)
		inv.Amount = &msat
	}
	return inv, nil
}
