package tags

// FromStrings decodes a list of tags in wire form.
func FromStrings(raw [][]string) []Tag {
	out := make([]Tag, 0, len(raw))
	for _, fields := range raw {
		out = append(out, Parse(fields))
	}
	return out
}

// ToStrings encodes a list of tags to wire form.
func ToStrings(list []Tag) [][]string {
	out := make([][]string, 0, len(list))
	for _, t := range list {
		out = append(out, t.Strings())
	}
	return out
}

// Clone copies the list so that entries can be replaced without touching the original.
func Clone(list []Tag) []Tag {
	out := make([]Tag, len(list))
	copy(out, list)
	return out
}
