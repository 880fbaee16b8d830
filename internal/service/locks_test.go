package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex(t *testing.T) {
	k := newKeyedMutex()

	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock("trip-1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, k.size())
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	k := newKeyedMutex()

	unlockA := k.Lock("a")
	unlockB := k.Lock("b") // must not block on "a"
	assert.Equal(t, 2, k.size())

	unlockA()
	unlockB()
	assert.Equal(t, 0, k.size())
}

func TestClassify(t *testing.T) {
	ve := invalid("op", ErrTripNotFound, "trip x not found")
	assert.Same(t, ve, classify("outer", ve))
	assert.Equal(t, "op: trip x not found", ve.Error())

	err := classify("op", assert.AnError)
	assert.True(t, IsInfrastructure(err))
	assert.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, classify("op", nil))
}
