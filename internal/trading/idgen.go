package trading

import (
	"crypto/rand"
	"encoding/hex"
)

// NewOrderID generates a fresh opaque order identifier. The engine
// generates a fresh id per submission (spec §7); idempotence then comes
// from the orders repository's insert-on-conflict-update on that id.
func NewOrderID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("trading: failed to read random bytes for order id: " + err.Error())
	}
	return "ord_" + hex.EncodeToString(b)
}
