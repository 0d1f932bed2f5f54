// Package delegation signs and checks NIP-26 delegation tokens, which let one
// key publish events on behalf of another under a set of conditions.
package delegation

import (
	"fmt"
	"strconv"
	"strings"

	"nostrevents/engine/library"
)

// ConditionsError reports why a conditions string could not be parsed.
type ConditionsError struct {
	Conditions string
	Clause     string
	Reason     string
}

func (e *ConditionsError) Error() string {
	if e.Clause == "" {
		return fmt.Sprintf("delegation conditions %q: %s", e.Conditions, e.Reason)
	}
	return fmt.Sprintf("delegation conditions %q: clause %q: %s", e.Conditions, e.Clause, e.Reason)
}

// Conditions restrict what a delegatee may publish. A nil field is not restricted.
// The original string is kept because the delegation signature covers it verbatim.
type Conditions struct {
	Kind          *library.Kind
	CreatedAfter  *library.Unixtime
	CreatedBefore *library.Unixtime
	raw           string
}

// ParseConditions reads clauses of the form kind=N, created_at>N and
// created_at<N joined by '&'. Each clause may appear at most once.
func ParseConditions(s string) (*Conditions, error) {
	c := &Conditions{raw: s}
	for _, clause := range strings.Split(s, "&") {
		fail := func(reason string) error {
			return &ConditionsError{Conditions: s, Clause: clause, Reason: reason}
		}
		switch {
		case strings.HasPrefix(clause, "kind="):
			if c.Kind != nil {
				return nil, fail("repeated")
			}
			n, err := strconv.ParseUint(strings.TrimPrefix(clause, "kind="), 10, 32)
			if err != nil {
				return nil, fail("kind is not a number")
			}
			k := library.Kind(n)
			c.Kind = &k
		case strings.HasPrefix(clause, "created_at>"):
			if c.CreatedAfter != nil {
				return nil, fail("repeated")
			}
			t, err := parseTime(strings.TrimPrefix(clause, "created_at>"))
			if err != nil {
				return nil, fail("time is not a number")
			}
			c.CreatedAfter = &t
		case strings.HasPrefix(clause, "created_at<"):
			if c.CreatedBefore != nil {
				return nil, fail("repeated")
			}
			t, err := parseTime(strings.TrimPrefix(clause, "created_at<"))
			if err != nil {
				return nil, fail("time is not a number")
			}
			c.CreatedBefore = &t
		default:
			return nil, fail("unknown condition")
		}
	}
	return c, nil
}

func parseTime(s string) (library.Unixtime, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	return library.Unixtime(n), err
}

// String returns the conditions exactly as they were parsed.
func (c *Conditions) String() string {
	return c.raw
}

// Check returns an empty string if an event of kind k created at t satisfies c,
// or the reason it does not.
func (c *Conditions) Check(k library.Kind, t library.Unixtime) string {
	if c.Kind != nil && *c.Kind != k {
		return "Event Kind not delegated"
	}
	if c.CreatedAfter != nil && t < *c.CreatedAfter {
		return "Event created before delegation started"
	}
	if c.CreatedBefore != nil && t > *c.CreatedBefore {
		return "Event created after delegation ended"
	}
	return ""
}
