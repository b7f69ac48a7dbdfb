package flowcontrol

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sup-codac/oac-tree-gui/internal/model"
)

func TestController_ProceedNeverBlocks(t *testing.T) {
	c := New()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, c.Wait(ctx))
}

func TestController_WaitForReleaseBlocksUntilStep(t *testing.T) {
	c := New()
	c.SetWaitingMode(model.WaitingModeWaitForRelease)

	done := make(chan error, 1)
	go func() {
		done <- c.Wait(context.Background())
	}()

	select {
	case <-done:
		t.Fatal("Wait returned before Step was called")
	case <-time.After(30 * time.Millisecond):
	}

	c.Step()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Step")
	}
}

func TestController_WaitForReleaseConsumesExactlyOneStep(t *testing.T) {
	c := New()
	c.SetWaitingMode(model.WaitingModeWaitForRelease)
	c.Step()
	c.Step() // a second Step before any Wait should not grant two releases

	require.NoError(t, c.Wait(context.Background()))

	done := make(chan error, 1)
	go func() { done <- c.Wait(context.Background()) }()

	select {
	case <-done:
		t.Fatal("second Wait returned without a matching Step")
	case <-time.After(30 * time.Millisecond):
	}
	c.Step()
	<-done
}

func TestController_InterruptUnblocksWaitForRelease(t *testing.T) {
	c := New()
	c.SetWaitingMode(model.WaitingModeWaitForRelease)

	done := make(chan error, 1)
	go func() { done <- c.Wait(context.Background()) }()

	time.Sleep(20 * time.Millisecond)
	c.Interrupt()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Interrupt did not unblock Wait")
	}
}

func TestController_ContextCancelUnblocksWaitForRelease(t *testing.T) {
	c := New()
	c.SetWaitingMode(model.WaitingModeWaitForRelease)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- c.Wait(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("context cancellation did not unblock Wait")
	}
}

func TestController_SleepForPacesOnTickTimeout(t *testing.T) {
	c := New()
	c.SetTickTimeout(30 * time.Millisecond)
	c.SetWaitingMode(model.WaitingModeSleepFor)

	start := time.Now()
	require.NoError(t, c.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestController_StepDepositedBeforeWaitForReleaseIsConsumedByIt(t *testing.T) {
	c := New()
	c.Step() // deposited while in WaitingModeProceed, before any Pause

	c.SetWaitingMode(model.WaitingModeWaitForRelease)

	done := make(chan error, 1)
	go func() { done <- c.Wait(context.Background()) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Wait did not consume the step token deposited before the mode switch")
	}
}

func TestController_InterruptThenResetRestoresNormalWait(t *testing.T) {
	c := New()
	c.SetWaitingMode(model.WaitingModeWaitForRelease)
	c.Interrupt()
	require.NoError(t, c.Wait(context.Background()))

	c.Reset()
	done := make(chan error, 1)
	go func() { done <- c.Wait(context.Background()) }()

	select {
	case <-done:
		t.Fatal("Wait returned before Step after Reset")
	case <-time.After(30 * time.Millisecond):
	}
	c.Step()
	<-done
}
