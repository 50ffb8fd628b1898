package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	"bankimport-workers/internal/common/config"
	"bankimport-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(n int) *RetryConfig {
	return &RetryConfig{MaxRetries: n, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry(5), "probe", logger.NewTestLogger(t), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("dial tcp: connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry(5), "probe", nil, func(context.Context) error {
		calls++
		return errors.New("invalid gateway address")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, err.Error(), "probe failed")
}

func TestRetry_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	transient := errors.New("rpc error: code = Unavailable")
	err := Retry(context.Background(), fastRetry(3), "probe", nil, func(context.Context) error {
		calls++
		return transient
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, transient)
	assert.Equal(t, 3, calls)
}

func TestRetry_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rc := &RetryConfig{MaxRetries: 5, BaseDelay: time.Hour}

	err := Retry(ctx, rc, "probe", nil, func(context.Context) error {
		cancel()
		return errors.New("i/o timeout")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.True(t, IsRetryable(errors.New("context deadline exceeded")))
	assert.True(t, IsRetryable(errors.New("read: connection reset by peer")))
	assert.False(t, IsRetryable(errors.New("permission denied")))
}

func TestConfigFrom(t *testing.T) {
	cc := ConfigFrom(config.CamundaConfig{BrokerAddress: "zeebe:26500", Plaintext: true, RequestTimeout: 1500})

	assert.Equal(t, "zeebe:26500", cc.GatewayAddress)
	assert.True(t, cc.UsePlaintextConnection)
	assert.Equal(t, 1500*time.Millisecond, cc.ConnectionTimeout)
	assert.Same(t, DefaultRetryConfig, cc.RetryConfig)

	assert.Equal(t, 10*time.Second, ConfigFrom(config.CamundaConfig{}).ConnectionTimeout)
}
