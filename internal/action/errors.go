package action

import (
	"errors"
	"strings"
)

const (
	// Success is the literal result of every action that completed.
	Success = "Success"

	errorPrefix = "Error: "
)

const (
	MsgNoVariant       = "Missing product variant ID"
	MsgInvalidQuantity = "Quantity must be positive"
	MsgAddFailed       = "Failed to add item to cart"
	MsgCreateFailed    = "Failed to create cart"
	MsgMissingCart     = "Missing cart ID"
	MsgCartFetch       = "Error fetching cart"
	MsgItemNotFound    = "Item not found in cart"
	MsgNoCheckoutURL   = "No checkout URL found"
)

var (
	ErrNoVariant       = errors.New(MsgNoVariant)
	ErrInvalidQuantity = errors.New(MsgInvalidQuantity)
	ErrAddFailed       = errors.New(MsgAddFailed)
	ErrCreateFailed    = errors.New(MsgCreateFailed)
	ErrMissingCart     = errors.New(MsgMissingCart)
	ErrCartFetch       = errors.New(MsgCartFetch)
	ErrItemNotFound    = errors.New(MsgItemNotFound)
	ErrNoCheckoutURL   = errors.New(MsgNoCheckoutURL)
)

// Result renders err in the string contract presentation code compares
// against. Wrapped errors are reported by their innermost message, so a
// backend failure reads as the backend's own text.
func Result(err error) string {
	if err == nil {
		return Success
	}
	return errorPrefix + rootCause(err).Error()
}

// IsError reports whether result is a failure rendered by Result.
func IsError(result string) bool {
	return strings.HasPrefix(result, errorPrefix)
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
