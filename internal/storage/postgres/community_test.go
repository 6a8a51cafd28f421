package postgres

import (
	"testing"

	"github.com/bumpbuddy/backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// scriptedToggle replays a fixed sequence of toggle attempt outcomes and
// records how many attempts ran.
type scriptedToggle struct {
	calls   int
	results []toggleResult
}

type toggleResult struct {
	state storage.LikeState
	count int
	err   error
}

func (s *scriptedToggle) attempt() (storage.LikeState, int, error) {
	r := s.results[s.calls]
	s.calls++
	return r.state, r.count, r.err
}

func TestToggleWithRetry_SingleAttemptOnSuccess(t *testing.T) {
	script := &scriptedToggle{results: []toggleResult{
		{state: storage.Liked, count: 1},
	}}

	state, count, err := toggleWithRetry(script.attempt)
	assert.NoError(t, err)
	assert.Equal(t, storage.Liked, state)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, script.calls)
}

func TestToggleWithRetry_LostInsertRetriesAsUnlike(t *testing.T) {
	script := &scriptedToggle{results: []toggleResult{
		{err: gorm.ErrDuplicatedKey},
		{state: storage.Unliked, count: 3},
	}}

	state, count, err := toggleWithRetry(script.attempt)
	assert.NoError(t, err)
	assert.Equal(t, storage.Unliked, state)
	assert.Equal(t, 3, count)
	assert.Equal(t, 2, script.calls)
}

func TestToggleWithRetry_LostDeleteRetriesAsLike(t *testing.T) {
	script := &scriptedToggle{results: []toggleResult{
		{err: errLikeRowGone},
		{state: storage.Liked, count: 1},
	}}

	state, count, err := toggleWithRetry(script.attempt)
	assert.NoError(t, err)
	assert.Equal(t, storage.Liked, state)
	assert.Equal(t, 1, count)
	assert.Equal(t, 2, script.calls)
}

func TestToggleWithRetry_SecondRaceIsConflict(t *testing.T) {
	script := &scriptedToggle{results: []toggleResult{
		{err: gorm.ErrDuplicatedKey},
		{err: errLikeRowGone},
	}}

	state, count, err := toggleWithRetry(script.attempt)
	assert.ErrorIs(t, err, storage.ErrLikeConflict)
	assert.Equal(t, storage.Unliked, state)
	assert.Zero(t, count)
	assert.Equal(t, 2, script.calls)
}

func TestToggleWithRetry_OtherErrorsPassThrough(t *testing.T) {
	script := &scriptedToggle{results: []toggleResult{
		{err: storage.ErrPostNotFound},
	}}

	_, _, err := toggleWithRetry(script.attempt)
	assert.ErrorIs(t, err, storage.ErrPostNotFound)
	assert.Equal(t, 1, script.calls)
}
