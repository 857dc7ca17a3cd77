package application

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	locks := newKeyedMutex()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("user-1|company-1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestKeyedMutex_IndependentKeysDoNotBlock(t *testing.T) {
	locks := newKeyedMutex()

	unlockA := locks.Lock("a")
	// "a" を保持したまま "b" が獲得できること
	unlockB := locks.Lock("b")
	unlockB()
	unlockA()
}

func TestKeyedMutex_EntryIsFreedAfterUnlock(t *testing.T) {
	locks := newKeyedMutex()

	unlock := locks.Lock("key")
	unlock()

	locks.mu.Lock()
	defer locks.mu.Unlock()
	assert.Empty(t, locks.locks)
}
