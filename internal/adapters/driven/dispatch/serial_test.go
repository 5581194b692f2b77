package dispatch

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerial_SyncRunsAndAwaits(t *testing.T) {
	s := NewSerial()
	defer s.Close()

	ran := false
	s.Sync(func() { ran = true })
	assert.True(t, ran)
}

func TestSerial_PreservesSubmissionOrder(t *testing.T) {
	s := NewSerial()
	defer s.Close()

	const n = 200
	var (
		mu  sync.Mutex
		got []int
		wg  sync.WaitGroup
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			s.Sync(func() {
				mu.Lock()
				got = append(got, 1)
				mu.Unlock()
			})
		}()
	}
	close(start)
	wg.Wait()

	assert.Len(t, got, n)
}

func TestSerial_CallbacksNeverOverlap(t *testing.T) {
	s := NewSerial()
	defer s.Close()

	var inFlight, maxInFlight int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Sync(func() {
				mu.Lock()
				inFlight++
				if inFlight > maxInFlight {
					maxInFlight = inFlight
				}
				mu.Unlock()

				mu.Lock()
				inFlight--
				mu.Unlock()
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInFlight)
}

func TestSerial_SyncAfterCloseRunsInline(t *testing.T) {
	s := NewSerial()
	require.NoError(t, s.Close())

	ran := false
	s.Sync(func() { ran = true })
	assert.True(t, ran)

	// Closing again is harmless.
	require.NoError(t, s.Close())
}

func TestInline_Sync(t *testing.T) {
	var i Inline

	ran := false
	i.Sync(func() { ran = true })
	assert.True(t, ran)
}
