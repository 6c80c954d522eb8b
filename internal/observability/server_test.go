package observability

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RegistrationsTotal.WithLabelValues("success").Inc()
	m.LoginsTotal.WithLabelValues("denied").Add(2)
	m.IntrospectionsTotal.WithLabelValues("confirmed").Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.RegistrationsTotal.WithLabelValues("success")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.LoginsTotal.WithLabelValues("denied")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.IntrospectionsTotal.WithLabelValues("confirmed")))
}

func TestServerLifecycle(t *testing.T) {
	defer goleak.VerifyNone(t)
	defer http.DefaultClient.CloseIdleConnections()

	srv := NewServer("127.0.0.1:0", func() bool { return true })

	errCh, err := srv.Start()
	require.NoError(t, err)
	require.NotEmpty(t, srv.Addr())

	t.Run("metrics endpoint serves", func(t *testing.T) {
		srv.Metrics().RegistrationsTotal.WithLabelValues("success").Inc()

		resp, err := http.Get(fmt.Sprintf("http://%s/metrics", srv.Addr()))
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "gatehouse_registrations_total")
	})

	t.Run("liveness returns ok", func(t *testing.T) {
		resp, err := http.Get(fmt.Sprintf("http://%s/healthz/liveness", srv.Addr()))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("readiness returns ok when ready", func(t *testing.T) {
		resp, err := http.Get(fmt.Sprintf("http://%s/healthz/readiness", srv.Addr()))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("double start fails", func(t *testing.T) {
		_, err := srv.Start()
		assert.Error(t, err)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))

	// Channel closes on graceful shutdown without reporting an error.
	serveErr, open := <-errCh
	assert.NoError(t, serveErr)
	assert.False(t, open)
}

func TestServerReadinessNotReady(t *testing.T) {
	defer goleak.VerifyNone(t)
	defer http.DefaultClient.CloseIdleConnections()

	srv := NewServer("127.0.0.1:0", func() bool { return false })
	_, err := srv.Start()
	require.NoError(t, err)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
	}()

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz/readiness", srv.Addr()))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestStopWithoutStart(t *testing.T) {
	srv := NewServer("127.0.0.1:0", nil)
	assert.NoError(t, srv.Stop(context.Background()))
}
