package grpc

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/focusplanner/internal/application/logging"
	"github.com/andrescamacho/focusplanner/internal/application/mediator"
	planningCommands "github.com/andrescamacho/focusplanner/internal/application/planning/commands"
	planningQueries "github.com/andrescamacho/focusplanner/internal/application/planning/queries"
)

// plannerService adapts PlannerServer calls to mediator requests
type plannerService struct {
	server *DaemonServer
}

func newPlannerService(server *DaemonServer) *plannerService {
	return &plannerService{server: server}
}

func (s *plannerService) Evaluate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decodePlanRequest(in)
	if err != nil {
		return nil, invalidArgument(err)
	}

	response, err := s.server.mediator.Send(ctx, &planningQueries.EvaluatePlanQuery{
		Target: req.Target,
		Units:  req.Units,
		Mode:   req.Mode,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	plan := response.(*planningQueries.EvaluatePlanResponse).Plan
	s.record(ctx, &planningCommands.RecordPlanRunCommand{Plan: plan})

	out, err := encodePlan(plan)
	if err != nil {
		return nil, toStatusError(err)
	}
	return out, nil
}

func (s *plannerService) MaxCraftable(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decodeBudgetRequest(in)
	if err != nil {
		return nil, invalidArgument(err)
	}

	response, err := s.server.mediator.Send(ctx, &planningQueries.MaxCraftableQuery{
		Target: req.Target,
		Budget: req.Budget,
		Mode:   req.Mode,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	result := response.(*planningQueries.MaxCraftableResponse).Result
	s.record(ctx, &planningCommands.RecordPlanRunCommand{Budget: result})

	out, err := encodeBudgetResult(result)
	if err != nil {
		return nil, toStatusError(err)
	}
	return out, nil
}

func (s *plannerService) Checklist(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decodePlanRequest(in)
	if err != nil {
		return nil, invalidArgument(err)
	}

	response, err := s.server.mediator.Send(ctx, &planningQueries.LeafChecklistQuery{
		Target: req.Target,
		Units:  req.Units,
		Mode:   req.Mode,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	checklist := response.(*planningQueries.LeafChecklistResponse)
	out, err := encodeChecklist(checklist.Plan, checklist.Rows)
	if err != nil {
		return nil, toStatusError(err)
	}
	return out, nil
}

func (s *plannerService) Reload(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	result, err := s.server.Reload(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	out, err := encodeReloadResult(result)
	if err != nil {
		return nil, toStatusError(err)
	}
	return out, nil
}

// record stores plan history; a failure is logged and never fails the request
func (s *plannerService) record(ctx context.Context, cmd mediator.Request) {
	if !s.server.options.RecordRuns {
		return
	}
	if _, err := s.server.mediator.Send(ctx, cmd); err != nil {
		logging.LoggerFromContext(ctx).Log(logging.LevelWarn, "failed to record plan run", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
