package parser

import (
	"slices"
	"strings"
)

const (
	prefixName        = "n/"
	prefixSku         = "s/"
	prefixPrice       = "p/"
	prefixQuantity    = "q/"
	prefixImage       = "i/"
	prefixTag         = "t/"
	prefixDate        = "d/"
	prefixSupplier    = "r/"
	prefixUsername    = "u/"
	prefixPassword    = "w/"
	prefixNewPassword = "nw/"
	prefixRole        = "o/"
	prefixFile        = "f/"
	prefixStatus      = "st/"
	prefixMinQuantity = "min/"
	prefixMaxQuantity = "max/"
	prefixMinPrice    = "minp/"
	prefixMaxPrice    = "maxp/"
)

// arguments are the values found after each prefix, in order of appearance.
type arguments struct {
	preamble string
	values   map[string][]string
}

// tokenize splits args on whitespace. A word starting with one of prefixes opens a new
// value; following words without a prefix are appended to it.
func tokenize(args string, prefixes ...string) arguments {
	sorted := slices.Clone(prefixes)
	slices.SortFunc(sorted, func(a, b string) int { return len(b) - len(a) })

	out := arguments{values: make(map[string][]string)}
	var preamble []string
	current := ""
	var words []string

	flush := func() {
		if current != "" {
			out.values[current] = append(out.values[current], strings.Join(words, " "))
		}
		words = nil
	}

	for _, field := range strings.Fields(args) {
		matched := ""
		for _, p := range sorted {
			if strings.HasPrefix(field, p) {
				matched = p
				break
			}
		}
		if matched == "" {
			if current == "" {
				preamble = append(preamble, field)
			} else {
				words = append(words, field)
			}
			continue
		}
		flush()
		current = matched
		if rest := strings.TrimPrefix(field, matched); rest != "" {
			words = append(words, rest)
		}
	}
	flush()

	out.preamble = strings.Join(preamble, " ")
	return out
}

func (a arguments) has(prefix string) bool {
	_, ok := a.values[prefix]
	return ok
}

// value is the last value given for prefix.
func (a arguments) value(prefix string) (string, bool) {
	vals := a.values[prefix]
	if len(vals) == 0 {
		return "", false
	}
	return vals[len(vals)-1], true
}

func (a arguments) get(prefix string) string {
	v, _ := a.value(prefix)
	return v
}

func (a arguments) all(prefix string) []string {
	return a.values[prefix]
}

func (a arguments) hasAll(prefixes ...string) bool {
	for _, p := range prefixes {
		if !a.has(p) {
			return false
		}
	}
	return true
}
