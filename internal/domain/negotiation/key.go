package negotiation

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies which decision flow a pending negotiation belongs to.
type Kind string

const (
	KindSensitiveApproval Kind = "sensitive-approval"
	KindShopSelection     Kind = "shop-selection"
	KindSelfDelivery      Kind = "self-delivery"
)

// Valid reports whether the kind is one of the known flows.
func (k Kind) Valid() bool {
	switch k {
	case KindSensitiveApproval, KindShopSelection, KindSelfDelivery:
		return true
	}
	return false
}

// Key correlates one pending decision across every approver it was fanned
// out to. LocationID is zero for flows that carry no location.
type Key struct {
	Kind        Kind
	AccountID   int64
	ProductCode int64
	LocationID  int64
}

// Encode serializes the key with length-prefixed components so that numeric
// ids can never be confused with a separator. Layout:
//
//	<kind>.<len>#<accountID><len>#<productCode><len>#<locationID>
func (k Key) Encode() string {
	var b strings.Builder
	b.WriteString(string(k.Kind))
	b.WriteByte('.')
	for _, v := range []int64{k.AccountID, k.ProductCode, k.LocationID} {
		s := strconv.FormatInt(v, 10)
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte('#')
		b.WriteString(s)
	}
	return b.String()
}

// ParseKey is the inverse of Encode. It fails on unknown kinds, truncated
// input and trailing garbage.
func ParseKey(s string) (Key, error) {
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return Key{}, fmt.Errorf("negotiation key %q: missing kind separator", s)
	}
	kind := Kind(s[:dot])
	if !kind.Valid() {
		return Key{}, fmt.Errorf("negotiation key %q: unknown kind %q", s, s[:dot])
	}

	rest := s[dot+1:]
	var parts [3]int64
	for i := range parts {
		hash := strings.IndexByte(rest, '#')
		if hash < 0 {
			return Key{}, fmt.Errorf("negotiation key %q: component %d truncated", s, i)
		}
		n, err := strconv.Atoi(rest[:hash])
		if err != nil || n < 0 {
			return Key{}, fmt.Errorf("negotiation key %q: bad length prefix for component %d", s, i)
		}
		rest = rest[hash+1:]
		if len(rest) < n {
			return Key{}, fmt.Errorf("negotiation key %q: component %d shorter than declared", s, i)
		}
		v, err := strconv.ParseInt(rest[:n], 10, 64)
		if err != nil {
			return Key{}, fmt.Errorf("negotiation key %q: component %d not numeric", s, i)
		}
		parts[i] = v
		rest = rest[n:]
	}
	if rest != "" {
		return Key{}, fmt.Errorf("negotiation key %q: trailing data", s)
	}
	return Key{Kind: kind, AccountID: parts[0], ProductCode: parts[1], LocationID: parts[2]}, nil
}
