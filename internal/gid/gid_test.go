package gid_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/storefront/internal/gid"
	"github.com/stretchr/testify/assert"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		name string
		kind gid.Kind
		raw  string
		want string
	}{
		{
			name: "bare numeric variant",
			kind: gid.ProductVariant,
			raw:  "44188016197814",
			want: "gid://shopify/ProductVariant/44188016197814",
		},
		{
			name: "already canonical variant",
			kind: gid.ProductVariant,
			raw:  "gid://shopify/ProductVariant/44188016197814",
			want: "gid://shopify/ProductVariant/44188016197814",
		},
		{
			name: "embedded resource prefix",
			kind: gid.ProductVariant,
			raw:  "ProductVariant/44188016197814",
			want: "gid://shopify/ProductVariant/44188016197814",
		},
		{
			name: "cart token with key",
			kind: gid.Cart,
			raw:  "Z2NwLWV1cm9wZTI?key=abc",
			want: "gid://shopify/Cart/Z2NwLWV1cm9wZTI?key=abc",
		},
		{
			name: "canonical cart",
			kind: gid.Cart,
			raw:  "gid://shopify/Cart/Z2NwLWV1cm9wZTI?key=abc",
			want: "gid://shopify/Cart/Z2NwLWV1cm9wZTI?key=abc",
		},
		{
			name: "empty input is wrapped, not rejected",
			kind: gid.ProductVariant,
			raw:  "",
			want: "gid://shopify/ProductVariant/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gid.Canonical(tt.kind, tt.raw))
		})
	}
}

func TestCanonical_Idempotent(t *testing.T) {
	inputs := []string{
		"1",
		"ProductVariant/1",
		"/ProductVariant/1",
		"gid://shopify/ProductVariant/1",
		"not a number",
	}
	for range 20 {
		inputs = append(inputs, gofakeit.Numerify("##########"), gofakeit.LetterN(12))
	}

	for _, raw := range inputs {
		once := gid.MerchandiseID(raw)
		assert.Equal(t, once, gid.MerchandiseID(once), "raw=%q", raw)

		onceCart := gid.CartID(raw)
		assert.Equal(t, onceCart, gid.CartID(onceCart), "raw=%q", raw)
	}
}

func TestShort(t *testing.T) {
	assert.Equal(t, "123", gid.Short("gid://shopify/ProductVariant/123"))
	assert.Equal(t, "abc", gid.Short("gid://shopify/Cart/abc?key=def"))
	assert.Equal(t, "123", gid.Short("123"))

	raw := gofakeit.Numerify("########")
	assert.Equal(t, raw, gid.Short(gid.MerchandiseID(raw)))
}

func TestKindOf(t *testing.T) {
	kind, ok := gid.KindOf("gid://shopify/Cart/abc")
	assert.True(t, ok)
	assert.Equal(t, gid.Cart, kind)

	kind, ok = gid.KindOf(gid.MerchandiseID("9"))
	assert.True(t, ok)
	assert.Equal(t, gid.ProductVariant, kind)

	_, ok = gid.KindOf("9")
	assert.False(t, ok)

	_, ok = gid.KindOf("gid://shopify")
	assert.False(t, ok)
}
