package usecase

import "time"

// KeyedMutex is exported for testing
type KeyedMutex = keyedMutex

// NewKeyedMutex is exported for testing
var NewKeyedMutex = newKeyedMutex

// Size returns the number of live lock entries
func (k *keyedMutex) Size() int {
	return k.size()
}

// SetStateClock replaces the clock used to issue and verify OAuth state
func (uc *OAuthUseCase) SetStateClock(now func() time.Time) {
	uc.state.now = now
}
