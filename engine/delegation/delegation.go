package delegation

import (
	"fmt"

	"nostrevents/engine/events"
	"nostrevents/engine/library"
	"nostrevents/engine/tags"
)

// Token is the string the delegator signs.
func (c *Conditions) Token(delegatee library.PublicKey) string {
	return "nostr:delegation:" + delegatee.Hex() + ":" + c.raw
}

// Sign produces the delegator's signature over the sha256 of the token.
func (c *Conditions) Sign(delegatee library.PublicKey, delegator *library.PrivateKey) (library.Signature, error) {
	return delegator.SignHash(library.Sha256Sum([]byte(c.Token(delegatee))))
}

// VerifySignature checks a signature made by Sign.
func (c *Conditions) VerifySignature(delegator, delegatee library.PublicKey, sig library.Signature) error {
	return library.VerifyHash(library.Sha256Sum([]byte(c.Token(delegatee))), sig, delegator)
}

// NewTag signs conditions for delegatee and returns the tag the delegatee
// adds to its events.
func NewTag(delegator *library.PrivateKey, delegatee library.PublicKey, conditions string) (tags.Delegation, error) {
	c, err := ParseConditions(conditions)
	if err != nil {
		return tags.Delegation{}, err
	}
	sig, err := c.Sign(delegatee, delegator)
	if err != nil {
		return tags.Delegation{}, err
	}
	return tags.Delegation{
		Pubkey:     delegator.PublicKey().Hex(),
		Conditions: c.String(),
		Sig:        sig.Hex(),
	}, nil
}

type Status int

const (
	NotDelegated Status = iota
	DelegatedBy
	Invalid
)

func (s Status) String() string {
	switch s {
	case NotDelegated:
		return "not delegated"
	case DelegatedBy:
		return "delegated"
	case Invalid:
		return "invalid delegation"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result is the outcome of Verify. Delegator is set when Status is
// DelegatedBy, Reason when it is Invalid.
type Result struct {
	Status    Status
	Delegator library.PublicKey
	Reason    string
}

// Verify inspects the first delegation tag of e. It does not verify e itself.
func Verify(e *events.Event) Result {
	for _, t := range e.Tags {
		d, ok := t.(tags.Delegation)
		if !ok {
			continue
		}
		return verifyTag(e, d)
	}
	return Result{Status: NotDelegated}
}

func verifyTag(e *events.Event, d tags.Delegation) Result {
	invalid := func(err error) Result {
		return Result{Status: Invalid, Reason: err.Error()}
	}
	sig, err := library.SignatureFromHex(d.Sig)
	if err != nil {
		return invalid(fmt.Errorf("delegation sig: %w", err))
	}
	delegator, err := library.PublicKeyFromHex(d.Pubkey)
	if err != nil {
		return invalid(fmt.Errorf("delegator pubkey: %w", err))
	}
	c, err := ParseConditions(d.Conditions)
	if err != nil {
		return invalid(err)
	}
	if err := c.VerifySignature(delegator, e.PubKey, sig); err != nil {
		return invalid(err)
	}
	if reason := c.Check(e.Kind, e.CreatedAt); reason != "" {
		return Result{Status: Invalid, Reason: reason}
	}
	return Result{Status: DelegatedBy, Delegator: delegator}
}
