// Package gid converts resource references to the canonical global-id form the
// commerce backend expects, gid://shopify/<Kind>/<id>, and back.
//
// All functions are total: malformed input yields a malformed canonical id that
// the backend rejects, nothing is validated here.
package gid

import "strings"

const (
	Scheme = "gid://"
	Shop   = "shopify"
)

type Kind string

const (
	ProductVariant Kind = "ProductVariant"
	Product        Kind = "Product"
	Cart           Kind = "Cart"
	CartLine       Kind = "CartLine"
)

func (k Kind) prefix() string {
	return Scheme + Shop + "/" + string(k) + "/"
}

// Canonical returns raw in canonical form for kind. Canonical input is returned
// unchanged, so Canonical(k, Canonical(k, x)) == Canonical(k, x).
func Canonical(kind Kind, raw string) string {
	if IsCanonical(raw) {
		return raw
	}

	id := strings.ReplaceAll(raw, string(kind)+"/", "")
	id = strings.TrimLeft(id, "/")

	return kind.prefix() + id
}

func MerchandiseID(raw string) string {
	return Canonical(ProductVariant, raw)
}

func CartID(raw string) string {
	return Canonical(Cart, raw)
}

func IsCanonical(raw string) bool {
	return strings.HasPrefix(raw, Scheme)
}

// KindOf reports the resource kind of a canonical id.
func KindOf(raw string) (Kind, bool) {
	if !IsCanonical(raw) {
		return "", false
	}

	rest := strings.TrimPrefix(raw, Scheme)
	parts := strings.SplitN(rest, "/", 3)
	if len(parts) < 3 || parts[1] == "" {
		return "", false
	}

	return Kind(parts[1]), true
}

// Short returns the trailing id segment of a canonical id without its query
// string. Non-canonical input is returned as is.
func Short(raw string) string {
	if !IsCanonical(raw) {
		return raw
	}

	id := raw
	if i := strings.IndexByte(id, '?'); i >= 0 {
		id = id[:i]
	}
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		id = id[i+1:]
	}

	return id
}
