package payments

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

const txidCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateTransactionID returns a client-side correlation tag of the form
// PB<epoch-ms>APP<8 base36 chars>. Call it once per payment attempt, right
// before order creation, so the timestamp reflects attempt start. Uniqueness
// is probabilistic; the server treats it as a tag, never as a key.
func GenerateTransactionID() string {
	var b strings.Builder
	for range 8 {
		b.WriteByte(txidCharset[rand.IntN(len(txidCharset))])
	}
	return fmt.Sprintf("PB%dAPP%s", time.Now().UnixMilli(), b.String())
}
