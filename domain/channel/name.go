// Package channel models the identity of an instrumentation data channel:
// a named, typed, physically quantified signal produced by a recording
// system. It provides name decomposition, validated attribute handling, and
// list filtering. Remote catalog and data-server access goes through the
// ports defined in the ports package.
package channel

import "regexp"

// Name holds the semantic components of a channel name. An empty field
// means that component is absent from the name.
type Name struct {
	Observatory string // site prefix, e.g. "H1"
	System      string // e.g. "PSL"
	Subsystem   string // e.g. "ISS"
	Signal      string // e.g. "FIXME"
}

var (
	observatoryRe = regexp.MustCompile(`^[A-Z][0-9]:`)
	delimiterRe   = regexp.MustCompile(`[-_]`)
)

// ParseName decomposes a channel name of the form
//
//	[<PREFIX>:]<SYSTEM>[-_<SUBSYSTEM>[-_<SIGNAL>]]
//
// where <PREFIX> is one uppercase letter followed by one digit. An empty
// name yields the zero Name. At most three delimiter splits are performed;
// anything after the third delimiter is discarded rather than folded into
// Signal, so names with more than three delimited segments lose their tail.
func ParseName(name string) Name {
	var n Name
	if name == "" {
		return n
	}
	rest := name
	if observatoryRe.MatchString(rest) {
		n.Observatory = rest[:2]
		rest = rest[3:]
	}
	tags := delimiterRe.Split(rest, 4)
	n.System = tags[0]
	if len(tags) > 1 {
		n.Subsystem = tags[1]
	}
	if len(tags) > 2 {
		n.Signal = tags[2]
	}
	return n
}
