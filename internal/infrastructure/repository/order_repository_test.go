package repository

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderNoSequenceWidensPastFourDigits(t *testing.T) {
	prefix := orderNoPrefix(time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, "TRX20260901", prefix)

	assert.Equal(t, "TRX202609010001", formatOrderNo(prefix, 1))
	assert.Equal(t, "TRX202609019999", formatOrderNo(prefix, 9999))
	assert.Equal(t, "TRX2026090110000", formatOrderNo(prefix, 10000))

	// the sequence read back is whatever follows the prefix, whatever its
	// width, so a busy day keeps counting instead of wrapping
	for _, seq := range []int{1, 9999, 10000, 123456} {
		orderNo := formatOrderNo(prefix, seq)
		parsed, err := strconv.Atoi(orderNo[len(prefix):])
		require.NoError(t, err)
		assert.Equal(t, seq, parsed)
	}
}
