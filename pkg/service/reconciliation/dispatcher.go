package reconciliation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/payme"
)

// Dispatcher routes decoded calls to the Service and always answers with a
// well-formed protocol envelope.
type Dispatcher struct {
	svc    *Service
	logger *slog.Logger
}

// NewDispatcher creates a Dispatcher over svc.
func NewDispatcher(svc *Service, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{svc: svc, logger: logger.With("component", "dispatcher")}
}

// Dispatch executes req and encodes the outcome. Unexpected errors and
// panics are reported as the system error.
func (d *Dispatcher) Dispatch(ctx context.Context, req *payme.Request) (resp *payme.Response) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("panic while dispatching", "method", req.Method, "panic", r)
			resp = payme.NewError(req.ID, payme.ErrSystem)
		}
	}()

	result, err := d.route(ctx, req)
	if err != nil {
		var pe *payme.Error
		if !errors.As(err, &pe) {
			d.logger.Error("method failed", "method", req.Method, "error", err)
		}
		return payme.NewError(req.ID, payme.AsError(err))
	}
	return payme.NewResult(req.ID, result)
}

func (d *Dispatcher) route(ctx context.Context, req *payme.Request) (any, error) {
	switch method := payme.ParseMethod(req.Method); method {
	case payme.MethodCheckPerformTransaction:
		return call(ctx, req.Params, d.svc.CheckPerformTransaction)
	case payme.MethodCreateTransaction:
		return call(ctx, req.Params, d.svc.CreateTransaction)
	case payme.MethodPerformTransaction:
		return call(ctx, req.Params, d.svc.PerformTransaction)
	case payme.MethodCancelTransaction:
		return call(ctx, req.Params, d.svc.CancelTransaction)
	case payme.MethodCheckTransaction:
		return call(ctx, req.Params, d.svc.CheckTransaction)
	case payme.MethodGetStatement:
		return call(ctx, req.Params, d.svc.GetStatement)
	case payme.MethodUnknown:
		return nil, payme.ErrMethodNotFound.WithData("method")
	default:
		return nil, fmt.Errorf("unhandled method %v", method)
	}
}

func call[P any, R any](
	ctx context.Context,
	raw json.RawMessage,
	op func(context.Context, *P) (*R, error),
) (any, error) {
	params, perr := payme.DecodeParams[P](raw)
	if perr != nil {
		return nil, perr
	}
	result, err := op(ctx, params)
	if err != nil {
		return nil, err
	}
	return result, nil
}
