package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/focusplanner/internal/domain/planning"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// PlannerClientGRPC implements planning.Planner by calling the planner daemon
type PlannerClientGRPC struct {
	conn *grpc.ClientConn
}

// NewPlannerClientGRPC creates a client for the daemon at address
// (host:port or unix:///path/to/socket). Extra dial options are appended after
// the insecure transport credentials.
func NewPlannerClientGRPC(address string, opts ...grpc.DialOption) (*PlannerClientGRPC, error) {
	dialOptions := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, opts...)

	conn, err := grpc.NewClient(address, dialOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to planner daemon at %s: %w", address, err)
	}

	return &PlannerClientGRPC{conn: conn}, nil
}

// Close closes the gRPC connection
func (c *PlannerClientGRPC) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Evaluate prices units of target on the daemon
func (c *PlannerClientGRPC) Evaluate(ctx context.Context, target string, units float64, mode recipe.YieldMode) (*planning.Plan, error) {
	in, err := encodePlanRequest(target, units, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to encode evaluate request: %w", err)
	}

	out, err := c.invoke(ctx, MethodEvaluate, in)
	if err != nil {
		return nil, fmt.Errorf("daemon evaluate failed: %w", err)
	}

	return decodePlan(out)
}

// MaxCraftable runs the budget search on the daemon
func (c *PlannerClientGRPC) MaxCraftable(ctx context.Context, target string, budget float64, mode recipe.YieldMode) (*planning.BudgetResult, error) {
	in, err := encodeBudgetRequest(target, budget, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to encode max-craftable request: %w", err)
	}

	out, err := c.invoke(ctx, MethodMaxCraftable, in)
	if err != nil {
		return nil, fmt.Errorf("daemon max-craftable failed: %w", err)
	}

	return decodeBudgetResult(out), nil
}

// Checklist evaluates target on the daemon and returns its leaf rows
func (c *PlannerClientGRPC) Checklist(ctx context.Context, target string, units float64, mode recipe.YieldMode) (*planning.Plan, []planning.LeafRow, error) {
	in, err := encodePlanRequest(target, units, mode)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode checklist request: %w", err)
	}

	out, err := c.invoke(ctx, MethodChecklist, in)
	if err != nil {
		return nil, nil, fmt.Errorf("daemon checklist failed: %w", err)
	}

	return decodeChecklist(out)
}

// Reload asks the daemon to re-read its recipe book
func (c *PlannerClientGRPC) Reload(ctx context.Context) (int, []string, error) {
	out, err := c.invoke(ctx, MethodReload, &structpb.Struct{})
	if err != nil {
		return 0, nil, fmt.Errorf("daemon reload failed: %w", err)
	}

	loaded, dropped := decodeReloadResult(out)
	return loaded, dropped, nil
}

func (c *PlannerClientGRPC) invoke(ctx context.Context, method string, in *structpb.Struct) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, fullMethod(method), in, out); err != nil {
		return nil, err
	}
	return out, nil
}
