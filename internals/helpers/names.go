package helper

import "strings"

// NameParts is the 8-slot decomposition of a Kuwaiti full name.
type NameParts struct {
	First     string
	Second    string
	Third     string
	Fourth    string
	Fifth     string
	Sixth     string
	SubFamily string
	Family    string
}

// ParseFullName splits a free-form full name on whitespace:
//   - 1 token  → first = family = token
//   - 2 tokens → first, family
//   - ≥3       → first, family=last, sub_family=last-1, middles fill
//     second..sixth in order; anything past sixth is discarded.
func ParseFullName(full string) NameParts {
	tokens := strings.Fields(full)
	var p NameParts
	switch len(tokens) {
	case 0:
		return p
	case 1:
		p.First = tokens[0]
		p.Family = tokens[0]
		return p
	case 2:
		p.First = tokens[0]
		p.Family = tokens[1]
		return p
	}

	p.First = tokens[0]
	p.Family = tokens[len(tokens)-1]
	p.SubFamily = tokens[len(tokens)-2]

	middles := tokens[1 : len(tokens)-2]
	slots := []*string{&p.Second, &p.Third, &p.Fourth, &p.Fifth, &p.Sixth}
	for i, m := range middles {
		if i >= len(slots) {
			break
		}
		*slots[i] = m
	}
	return p
}

// JoinName builds the display name from the six given-name parts.
func (p NameParts) JoinName() string {
	parts := []string{p.First, p.Second, p.Third, p.Fourth, p.Fifth, p.Sixth}
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, " ")
}
