package transfer

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressWriterThrottlesReports(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	var reports []int64
	var out bytes.Buffer

	pw := newProgressWriter(&out, 100*time.Millisecond, func(sent int64) { reports = append(reports, sent) })
	pw.now = func() time.Time { return now }
	pw.last = start

	chunk := []byte("0123456789")
	for i := 0; i < 10; i++ {
		now = now.Add(30 * time.Millisecond)
		n, err := pw.Write(chunk)
		require.NoError(t, err)
		require.Equal(t, len(chunk), n)
	}

	assert.Equal(t, 100, out.Len())
	assert.Equal(t, []int64{40, 80}, reports)
}
