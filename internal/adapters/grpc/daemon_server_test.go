package grpc_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	grpcadapter "github.com/andrescamacho/focusplanner/internal/adapters/grpc"
	planningQueries "github.com/andrescamacho/focusplanner/internal/application/planning/queries"
	"github.com/andrescamacho/focusplanner/internal/application/recipes"
	"github.com/andrescamacho/focusplanner/internal/application/setup"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
	"github.com/andrescamacho/focusplanner/internal/infrastructure/config"
	"github.com/andrescamacho/focusplanner/test/helpers"
)

type daemonFixture struct {
	server *grpcadapter.DaemonServer
	client *grpcadapter.PlannerClientGRPC
	repo   *helpers.MockRecipeRepository
	done   chan error
}

func startDaemon(t *testing.T, rateLimit config.RateLimitConfig, records ...recipe.Record) *daemonFixture {
	t.Helper()
	ctx := context.Background()

	repo := helpers.NewMockRecipeRepository()
	repo.Seed(records...)

	book := recipes.NewBook(repo)
	_, err := book.Load(ctx)
	require.NoError(t, err)

	graphs := grpcadapter.NewGraphHolder(book.Graph())
	registry := setup.NewHandlerRegistry(book, graphs, nil, planningQueries.Options{
		DefaultMode:   recipe.YieldModeSafe,
		SearchCeiling: 1_000_000,
	})
	med, err := registry.CreateConfiguredMediator()
	require.NoError(t, err)

	listener := bufconn.Listen(1 << 20)
	server := grpcadapter.NewDaemonServer(med, book, graphs, listener, grpcadapter.ServerOptions{
		RateLimit:       rateLimit,
		ShutdownTimeout: time.Second,
	})

	done := make(chan error, 1)
	go func() { done <- server.Start() }()

	client, err := grpcadapter.NewPlannerClientGRPC("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
	)
	require.NoError(t, err)

	fixture := &daemonFixture{server: server, client: client, repo: repo, done: done}
	t.Cleanup(func() {
		client.Close()
		server.Stop()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("daemon did not stop")
		}
	})
	return fixture
}

func TestDaemon_EvaluateMatchesLocalEngine(t *testing.T) {
	daemon := startDaemon(t, config.RateLimitConfig{}, helpers.BurningPowderRecords()...)

	plan, err := daemon.client.Evaluate(context.Background(), "Burning Powder", 15, "")

	require.NoError(t, err)
	assert.Equal(t, "Burning Powder", plan.Target)
	assert.Equal(t, recipe.YieldModeSafe, plan.Mode)
	assert.InDelta(t, 20.0, plan.TotalFocus, 1e-9)
	require.Len(t, plan.Lines, 3)
	assert.Equal(t, "Logs", plan.Lines[2].Material)
	assert.Equal(t, int64(28), plan.Lines[2].Crafts)
	assert.Equal(t, recipe.ActionGather, plan.Lines[2].Action)
	assert.Equal(t, 2, plan.Lines[2].Level)
	assert.InDelta(t, 170.0, plan.TotalTimeSeconds(), 1e-9)
}

func TestDaemon_MaxCraftable(t *testing.T) {
	daemon := startDaemon(t, config.RateLimitConfig{}, helpers.BurningPowderRecords()...)

	result, err := daemon.client.MaxCraftable(context.Background(), "Burning Powder", 100, recipe.YieldModeSafe)

	require.NoError(t, err)
	assert.Equal(t, int64(75), result.Quantity)
	assert.False(t, result.Unbounded)
	assert.InDelta(t, 100.0, result.FocusUsed, 1e-9)
	assert.Positive(t, result.Evaluations)
}

func TestDaemon_Checklist(t *testing.T) {
	daemon := startDaemon(t, config.RateLimitConfig{}, helpers.BurningPowderRecords()...)

	plan, rows, err := daemon.client.Checklist(context.Background(), "Burning Powder", 15, "")

	require.NoError(t, err)
	assert.InDelta(t, 20.0, plan.TotalFocus, 1e-9)
	require.Len(t, rows, 1)
	assert.Equal(t, "Logs", rows[0].Material)
	assert.InDelta(t, 28.0, rows[0].Units, 1e-9)
	assert.Equal(t, int64(28), rows[0].Crafts)
}

func TestDaemon_MapsDomainErrorsToStatusCodes(t *testing.T) {
	records := append(helpers.BurningPowderRecords(), helpers.CycleRecords()...)
	daemon := startDaemon(t, config.RateLimitConfig{}, records...)
	ctx := context.Background()

	_, err := daemon.client.Evaluate(ctx, "Unobtainium", 1, "")
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = daemon.client.Evaluate(ctx, "A", 1, "")
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = daemon.client.Evaluate(ctx, "Burning Powder", -1, "")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = daemon.client.Evaluate(ctx, "Burning Powder", 1, "sideways")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestDaemon_ReloadSwapsServedGraph(t *testing.T) {
	daemon := startDaemon(t, config.RateLimitConfig{}, helpers.BurningPowderRecords()...)
	ctx := context.Background()

	_, err := daemon.client.Evaluate(ctx, "Lucky Ore", 1, "")
	require.Equal(t, codes.NotFound, status.Code(err))

	daemon.repo.Seed(helpers.LuckyOreRecord())
	loaded, dropped, err := daemon.client.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, loaded)
	assert.Empty(t, dropped)

	plan, err := daemon.client.Evaluate(ctx, "Lucky Ore", 2, recipe.YieldModeOptimistic)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, plan.TotalFocus, 1e-9)
}

func TestDaemon_RateLimitRejectsBurst(t *testing.T) {
	daemon := startDaemon(t, config.RateLimitConfig{Requests: 1, Burst: 1}, helpers.BurningPowderRecords()...)
	ctx := context.Background()

	_, err := daemon.client.Evaluate(ctx, "Burning Powder", 1, "")
	require.NoError(t, err)

	_, err = daemon.client.Evaluate(ctx, "Burning Powder", 1, "")
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
}

func TestGraphHolder_SnapshotIsDetachedFromSource(t *testing.T) {
	source := helpers.BurningPowderGraph()
	holder := grpcadapter.NewGraphHolder(source)

	source.Remove("Logs")

	_, ok := holder.Snapshot().Get("Logs")
	assert.True(t, ok)
	assert.Equal(t, 3, holder.Len())
}
