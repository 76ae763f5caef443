package goroutine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverableGo(t *testing.T) {
	res := []string{}

	ch := RecoverableGo(func() {
		res = append(res, "run task")
	})

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, []string{"run task"}, res)
}

func TestRecoverableGoPanicked(t *testing.T) {
	ch := RecoverableGo(func() {
		panic("boom")
	})

	event, ok := <-ch
	require.True(t, ok)
	assert.Equal(t, "boom", event.Panic)
	assert.NotEmpty(t, event.Stack)

	_, ok = <-ch
	assert.False(t, ok)
}
