package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name of the planner daemon
const ServiceName = "focusplanner.v1.Planner"

// Method names of the planner service
const (
	MethodEvaluate     = "Evaluate"
	MethodMaxCraftable = "MaxCraftable"
	MethodChecklist    = "Checklist"
	MethodReload       = "Reload"
)

// PlannerServer is the server API of the planner service.
// Every message is a google.protobuf.Struct document; see messages.go for the field layout.
type PlannerServer interface {
	Evaluate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	MaxCraftable(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Checklist(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Reload(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

// PlannerServiceDesc describes the planner service for grpc.Server registration
var PlannerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PlannerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodEvaluate, Handler: unaryHandler(MethodEvaluate, PlannerServer.Evaluate)},
		{MethodName: MethodMaxCraftable, Handler: unaryHandler(MethodMaxCraftable, PlannerServer.MaxCraftable)},
		{MethodName: MethodChecklist, Handler: unaryHandler(MethodChecklist, PlannerServer.Checklist)},
		{MethodName: MethodReload, Handler: unaryHandler(MethodReload, PlannerServer.Reload)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "focusplanner/v1/planner.proto",
}

// RegisterPlannerServer registers srv on a gRPC server
func RegisterPlannerServer(registrar grpc.ServiceRegistrar, srv PlannerServer) {
	registrar.RegisterService(&PlannerServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type unaryCall func(PlannerServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// unaryHandler decodes the request document and runs it through the interceptor chain
func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	name := fullMethod(method)

	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PlannerServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: name,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(PlannerServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
