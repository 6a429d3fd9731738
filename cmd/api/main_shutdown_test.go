package main

import (
	"context"
	"os"
	osSignal "os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"scaffoldapi/internal/app"
	"scaffoldapi/internal/config"
)

func TestShutdownSignals(t *testing.T) {
	t.Cleanup(func() {
		signalNotify = osSignal.Notify
	})

	var registered []os.Signal
	signalNotify = func(ch chan<- os.Signal, sig ...os.Signal) {
		registered = sig
		go func() {
			ch <- syscall.SIGTERM
		}()
	}

	settings, err := config.Load(config.WithEnvFile(""), config.WithEnviron(func() []string { return []string{"LOG_FILE="} }))
	require.NoError(t, err)

	flushed := make(chan struct{}, 1)
	a, err := app.New(settings, zap.NewNop(),
		app.WithRegistry(prometheus.NewRegistry()),
		app.WithTracingShutdown(func(context.Context) error {
			flushed <- struct{}{}
			return nil
		}),
	)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.InfoLevel)
	shutdown(a, time.Second, zap.New(core))

	select {
	case <-flushed:
	case <-time.After(time.Second):
		t.Fatalf("expected tracing flush on shutdown")
	}
	assert.Equal(t, 1, logs.FilterMessage("shutting down server").Len())
	assert.Equal(t, []os.Signal{os.Interrupt, syscall.SIGTERM}, registered)
	assert.Equal(t, app.StateStopped, a.State())
}
