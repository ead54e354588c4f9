package grpc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/test/bufconn"

	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

func TestStart_ServeFailureReleasesShutdownHandler(t *testing.T) {
	listener := bufconn.Listen(1 << 10)
	require.NoError(t, listener.Close())

	server := NewDaemonServer(nil, nil, NewGraphHolder(recipe.NewGraph()), listener, ServerOptions{
		ShutdownTimeout: time.Second,
	})

	err := server.Start()
	require.Error(t, err)

	select {
	case <-server.done:
	case <-time.After(time.Second):
		t.Fatal("shutdown handler still running after serve failure")
	}
	assert.NotPanics(t, server.Stop)
}
