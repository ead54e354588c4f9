package logging

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/focusplanner/internal/application/mediator"
)

// Middleware logs every request dispatched through the mediator with its duration.
// Failures are logged at ERROR, everything else at DEBUG.
func Middleware() mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		logger := LoggerFromContext(ctx)
		name := RequestName(request)

		start := time.Now()
		response, err := next(ctx, request)
		elapsed := time.Since(start)

		metadata := map[string]interface{}{
			"request":     name,
			"duration_ms": elapsed.Milliseconds(),
		}
		if err != nil {
			metadata["error"] = err.Error()
			logger.Log(LevelError, "request failed", metadata)
			return response, err
		}

		logger.Log(LevelDebug, "request handled", metadata)
		return response, nil
	}
}

// RequestName strips the pointer and package prefix from a request's type name:
// "*queries.EvaluatePlanQuery" becomes "EvaluatePlanQuery".
func RequestName(request mediator.Request) string {
	if request == nil {
		return "UnknownRequest"
	}
	fullName := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if idx := strings.LastIndex(fullName, "."); idx >= 0 {
		return fullName[idx+1:]
	}
	return fullName
}
