package ringchan_test

import (
	"testing"

	"github.com/srg/lantern/internal/ringchan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendDropsOldestWhenFull(t *testing.T) {
	rc := ringchan.New[int](3)

	for i := 1; i <= 5; i++ {
		rc.Send(i)
	}

	require.Equal(t, 3, rc.Len())
	rc.Close()

	var got []int
	for v := range rc.C() {
		got = append(got, v)
	}
	assert.Equal(t, []int{3, 4, 5}, got)
}

func TestTrySendFailsWhenFull(t *testing.T) {
	rc := ringchan.New[string](1)

	assert.True(t, rc.TrySend("a"))
	assert.False(t, rc.TrySend("b"))
	assert.Equal(t, 1, rc.Len())
}

func TestSendReportsDrop(t *testing.T) {
	rc := ringchan.New[int](1)

	assert.False(t, rc.Send(1))
	assert.True(t, rc.Send(2))
}

func TestNewPanicsOnZeroCapacity(t *testing.T) {
	assert.Panics(t, func() { ringchan.New[int](0) })
}
