package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sup-codac/oac-tree-gui/internal/engine"
)

func TestNew_RequiresTaskQueue(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
}

func TestNew_RequiresClientOrClientOptions(t *testing.T) {
	_, err := New(Options{WorkerOptions: WorkerOptions{TaskQueue: "jobs"}})
	require.Error(t, err)
}

func TestConvertRetryPolicy_ZeroValueIsNil(t *testing.T) {
	assert.Nil(t, convertRetryPolicy(engine.RetryPolicy{}))
}

func TestConvertRetryPolicy_TranslatesFields(t *testing.T) {
	rp := convertRetryPolicy(engine.RetryPolicy{
		MaxAttempts:        3,
		InitialInterval:    time.Second,
		BackoffCoefficient: 2.0,
	})
	require.NotNil(t, rp)
	assert.EqualValues(t, 3, rp.MaximumAttempts)
	assert.Equal(t, time.Second, rp.InitialInterval)
	assert.Equal(t, 2.0, rp.BackoffCoefficient)
}

func TestMergeRetryPolicies_OverrideWinsPerField(t *testing.T) {
	base := engine.RetryPolicy{MaxAttempts: 5, InitialInterval: time.Second, BackoffCoefficient: 1.5}
	override := engine.RetryPolicy{MaxAttempts: 2}
	got := mergeRetryPolicies(base, override)
	assert.Equal(t, 2, got.MaxAttempts)
	assert.Equal(t, time.Second, got.InitialInterval)
	assert.Equal(t, 1.5, got.BackoffCoefficient)
}

func TestNormalizeTemporalError_NilIsNil(t *testing.T) {
	assert.NoError(t, normalizeTemporalError(nil))
}
