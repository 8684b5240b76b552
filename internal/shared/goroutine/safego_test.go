package goroutine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/civicpulse/civicpulse/internal/shared/logger"
)

func TestRun_RecoversPanic(t *testing.T) {
	ok := Run(logger.NewNop(), "boom", func() { panic("kaboom") })
	assert.False(t, ok)
}

func TestRun_ReturnsTrue(t *testing.T) {
	called := false
	ok := Run(logger.NewNop(), "fine", func() { called = true })
	assert.True(t, ok)
	assert.True(t, called)
}

func TestSafeGo_RunsAsync(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	SafeGo(logger.NewNop(), "async", func() {
		defer wg.Done()
		panic("ignored")
	})
	wg.Wait()
}
