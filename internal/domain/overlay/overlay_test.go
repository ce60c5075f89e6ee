package overlay

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	shortDelay = 30 * time.Millisecond
	waitFor    = time.Second
	tick       = 5 * time.Millisecond
)

func TestOverlay_DefaultDelays(t *testing.T) {
	o := New()
	assert.Equal(t, 2*time.Second, o.successDelay)
	assert.Equal(t, 3*time.Second, o.errorDelay)
	assert.False(t, o.Current().Visible())
}

func TestOverlay_SuccessClears(t *testing.T) {
	o := New(WithDelays(shortDelay, time.Hour))

	op := o.Begin("Encrypting...")
	assert.Equal(t, State{Status: StatusPending, Message: "Encrypting..."}, o.Current())

	require.True(t, op.Succeed("done"))
	assert.Equal(t, State{Status: StatusSuccess, Message: "done"}, o.Current())

	assert.Eventually(t, func() bool { return !o.Current().Visible() }, waitFor, tick)
}

func TestOverlay_ErrorClears(t *testing.T) {
	o := New(WithDelays(time.Hour, shortDelay))

	op := o.Begin("Rejecting...")
	require.True(t, op.Fail("Rejection failed: boom"))
	assert.Equal(t, StatusError, o.Current().Status)

	assert.Eventually(t, func() bool { return !o.Current().Visible() }, waitFor, tick)
}

func TestOverlay_ErrorOutlivesSuccessDelay(t *testing.T) {
	o := New(WithDelays(shortDelay, 10*shortDelay))

	o.Begin("x").Fail("failed")

	assert.Never(t, func() bool { return !o.Current().Visible() }, 3*shortDelay, tick)
}

func TestOverlay_NewOperationCancelsPendingClear(t *testing.T) {
	o := New(WithDelays(shortDelay, shortDelay))

	first := o.Begin("first")
	first.Succeed("first done")
	second := o.Begin("second")

	assert.Never(t, func() bool { return o.Current().Status != StatusPending }, 4*shortDelay, tick)
	assert.Equal(t, "second", o.Current().Message)
	assert.False(t, first.Current())
	assert.True(t, second.Current())
}

func TestOverlay_SupersededCompletionIgnored(t *testing.T) {
	o := New(WithDelays(time.Hour, time.Hour))

	first := o.Begin("first")
	second := o.Begin("second")

	assert.False(t, first.Fail("first failed"))
	assert.Equal(t, State{Status: StatusPending, Message: "second"}, o.Current())

	assert.True(t, second.Succeed("second done"))
	assert.Equal(t, State{Status: StatusSuccess, Message: "second done"}, o.Current())
}

func TestOverlay_Reset(t *testing.T) {
	o := New(WithDelays(time.Hour, time.Hour))
	op := o.Begin("x")

	o.Reset()

	assert.False(t, o.Current().Visible())
	assert.False(t, op.Succeed("late"))
	assert.False(t, o.Current().Visible())
}

func TestOverlay_Subscribe(t *testing.T) {
	o := New(WithDelays(shortDelay, shortDelay))

	var mu sync.Mutex
	var seen []Status
	o.Subscribe(func(s State) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, s.Status)
	})

	o.Begin("x").Succeed("y")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 3
	}, waitFor, tick)
	mu.Lock()
	assert.Equal(t, []Status{StatusPending, StatusSuccess, StatusIdle}, seen)
	mu.Unlock()
}

func TestOverlay_SubscribersEndOnCurrentState(t *testing.T) {
	o := New(WithDelays(time.Hour, time.Hour))

	entered := make(chan struct{})
	release := make(chan struct{})
	var first sync.Once
	var mu sync.Mutex
	var last State
	o.Subscribe(func(s State) {
		hold := false
		first.Do(func() { hold = true })
		if hold {
			close(entered)
			<-release
		}
		mu.Lock()
		last = s
		mu.Unlock()
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		o.Begin("Submitting")
	}()
	<-entered

	go func() {
		defer wg.Done()
		o.Reset()
	}()
	require.Eventually(t, func() bool { return !o.Current().Visible() }, waitFor, tick)

	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, o.Current(), last)
	assert.Equal(t, State{}, last)
}
