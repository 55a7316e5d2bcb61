package payments

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var txidPattern = regexp.MustCompile(`^PB(\d+)APP([0-9A-Z]{8})$`)

func TestGenerateTransactionIDFormat(t *testing.T) {
	before := time.Now().UnixMilli()
	id := GenerateTransactionID()
	after := time.Now().UnixMilli()

	m := txidPattern.FindStringSubmatch(id)
	require.NotNil(t, m, "id %q does not match the expected format", id)

	epoch, err := strconv.ParseInt(m[1], 10, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, epoch, before)
	assert.LessOrEqual(t, epoch, after)

	for _, ch := range m[2] {
		assert.True(t, strings.ContainsRune(txidCharset, ch))
	}
}

func TestGenerateTransactionIDUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		id := GenerateTransactionID()
		require.False(t, seen[id], "duplicate id %q", id)
		seen[id] = true
	}
}
