package circuit

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreaker_InitialState(t *testing.T) {
	b := New("bankid_provider")
	assert.False(t, b.IsOpen())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "bankid_provider", b.Name())
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b := New("bankid_provider", WithFailureThreshold(3))

	// First two failures don't open
	useFallback, change := b.RecordFailure()
	assert.False(t, useFallback)
	assert.False(t, change.Opened)

	useFallback, change = b.RecordFailure()
	assert.False(t, useFallback)
	assert.False(t, change.Opened)

	// Third failure opens the circuit
	useFallback, change = b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())
}

func TestBreaker_ClosesAfterSuccessThreshold(t *testing.T) {
	b := New("bankid_provider", WithFailureThreshold(1), WithSuccessThreshold(2))

	// Open the circuit
	b.RecordFailure()
	assert.True(t, b.IsOpen())

	// First success doesn't close
	usePrimary, change := b.RecordSuccess()
	assert.False(t, usePrimary)
	assert.False(t, change.Closed)
	assert.True(t, b.IsOpen())

	// Second success closes
	usePrimary, change = b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)
	assert.False(t, b.IsOpen())
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b := New("bankid_provider", WithFailureThreshold(3))

	// Two failures
	b.RecordFailure()
	b.RecordFailure()
	assert.False(t, b.IsOpen())

	// Success resets count
	b.RecordSuccess()

	// Two more failures don't open (count was reset)
	b.RecordFailure()
	b.RecordFailure()
	assert.False(t, b.IsOpen())

	// Third failure opens
	b.RecordFailure()
	assert.True(t, b.IsOpen())
}

func TestBreaker_FailureResetsSuccessCount(t *testing.T) {
	b := New("bankid_provider", WithFailureThreshold(1), WithSuccessThreshold(3))

	// Open the circuit
	b.RecordFailure()
	assert.True(t, b.IsOpen())

	// Two successes
	b.RecordSuccess()
	b.RecordSuccess()

	// Failure resets success count (stays open)
	b.RecordFailure()
	assert.True(t, b.IsOpen())

	// Need 3 successes again to close
	b.RecordSuccess()
	b.RecordSuccess()
	assert.True(t, b.IsOpen())
	b.RecordSuccess()
	assert.False(t, b.IsOpen())
}

func TestBreaker_Reset(t *testing.T) {
	b := New("bankid_provider", WithFailureThreshold(1))

	// Open the circuit
	b.RecordFailure()
	assert.True(t, b.IsOpen())

	// Reset closes it
	b.Reset()
	assert.False(t, b.IsOpen())
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_OpenCircuitReturnsFallback(t *testing.T) {
	b := New("bankid_provider", WithFailureThreshold(1))

	// Open the circuit
	b.RecordFailure()

	// Additional failures return fallback without state change
	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.False(t, change.Opened) // Already open, no state change
}

func TestBreaker_ConcurrentFailuresOpenOnce(t *testing.T) {
	b := New("bankid_provider", WithFailureThreshold(10))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		opened int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, change := b.RecordFailure(); change.Opened {
				mu.Lock()
				opened++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, opened)
	assert.Equal(t, StateOpen, b.State())
}

func TestBreaker_IgnoresNonPositiveThresholds(t *testing.T) {
	b := New("bankid_provider", WithFailureThreshold(0), WithSuccessThreshold(-1))
	for range defaultFailureThreshold - 1 {
		b.RecordFailure()
	}
	assert.False(t, b.IsOpen())
	b.RecordFailure()
	assert.True(t, b.IsOpen())
}

var (
	errProviderDown = errors.New("provider unavailable")
	errTokenExpired = errors.New("token expired")
	errNoProfile    = errors.New("profile not found")
)

// providerFailure counts only outages; caller-side failures say nothing about
// the provider's health.
func providerFailure(err error) bool {
	return errors.Is(err, errProviderDown)
}

func TestBreaker_ObserveIgnoresCallerFailures(t *testing.T) {
	b := New("bankid_provider", WithFailureThreshold(2), WithSuccessThreshold(1))

	for _, err := range []error{errTokenExpired, errNoProfile, errTokenExpired, errNoProfile} {
		change := b.Observe(err, providerFailure)
		assert.Equal(t, StateChange{}, change)
	}
	assert.Equal(t, StateClosed, b.State())

	// Ignored errors neither add to nor reset the failure streak.
	assert.False(t, b.Observe(errProviderDown, providerFailure).Opened)
	b.Observe(errNoProfile, providerFailure)
	assert.True(t, b.Observe(errProviderDown, providerFailure).Opened)

	// While open, caller failures do not interrupt recovery either.
	b.Observe(errTokenExpired, providerFailure)
	assert.True(t, b.IsOpen())
	assert.True(t, b.Observe(nil, providerFailure).Closed)
}

func TestBreaker_ObserveWithoutPredicateCountsEveryError(t *testing.T) {
	b := New("bankid_provider", WithFailureThreshold(2))
	b.Observe(errTokenExpired, nil)
	assert.True(t, b.Observe(errNoProfile, nil).Opened)
}
