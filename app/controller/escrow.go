package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-escrow/app/escrow"
	"github.com/vibast-solutions/ms-go-escrow/app/factory"
	"github.com/vibast-solutions/ms-go-escrow/app/mapper"
	"github.com/vibast-solutions/ms-go-escrow/app/service"
	"github.com/vibast-solutions/ms-go-escrow/app/types"
)

type EscrowController struct {
	escrowService *service.EscrowService
	logger        logrus.FieldLogger
}

func NewEscrowController(escrowService *service.EscrowService) *EscrowController {
	return &EscrowController{
		escrowService: escrowService,
		logger:        factory.NewModuleLogger("escrow-controller"),
	}
}

func (c *EscrowController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

func (c *EscrowController) RequestPayment(ctx echo.Context) error {
	call, err := types.NewCallFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}
	req, err := types.NewRequestPaymentRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	res, err := c.escrowService.RequestPayment(requestContext(ctx), call, req)
	if err != nil {
		return c.handleError(ctx, err, "Request payment failed")
	}

	return ctx.JSON(http.StatusCreated, actionResponse(res))
}

func (c *EscrowController) Pay(ctx echo.Context) error {
	return c.paymentAction(ctx, "Pay failed", func(reqCtx context.Context, call escrow.Call, req *types.PaymentActionRequest) (*service.Result, error) {
		return c.escrowService.Pay(reqCtx, call, req)
	})
}

func (c *EscrowController) Confirm(ctx echo.Context) error {
	return c.paymentAction(ctx, "Confirm failed", func(reqCtx context.Context, call escrow.Call, req *types.PaymentActionRequest) (*service.Result, error) {
		return c.escrowService.Confirm(reqCtx, call, req)
	})
}

func (c *EscrowController) Claim(ctx echo.Context) error {
	return c.paymentAction(ctx, "Claim failed", func(reqCtx context.Context, call escrow.Call, req *types.PaymentActionRequest) (*service.Result, error) {
		return c.escrowService.Claim(reqCtx, call, req)
	})
}

func (c *EscrowController) paymentAction(
	ctx echo.Context,
	failure string,
	action func(context.Context, escrow.Call, *types.PaymentActionRequest) (*service.Result, error),
) error {
	call, err := types.NewCallFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}
	req, err := types.NewPaymentActionRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	res, err := action(requestContext(ctx), call, req)
	if err != nil {
		return c.handleError(ctx, err, failure)
	}

	return ctx.JSON(http.StatusOK, actionResponse(res))
}

func (c *EscrowController) Withdraw(ctx echo.Context) error {
	call, err := types.NewCallFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	res, err := c.escrowService.Withdraw(requestContext(ctx), call)
	if err != nil {
		return c.handleError(ctx, err, "Withdraw failed")
	}

	return ctx.JSON(http.StatusOK, withdrawResponse(res))
}

func (c *EscrowController) SetFeeRate(ctx echo.Context) error {
	call, err := types.NewCallFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}
	req, err := types.NewSetFeeRateRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	res, err := c.escrowService.SetFeeRate(requestContext(ctx), call, req)
	if err != nil {
		return c.handleError(ctx, err, "Set fee rate failed")
	}

	return ctx.JSON(http.StatusOK, &types.MediatorResponse{Mediator: mapper.MediatorToProto(res.Mediator)})
}

func (c *EscrowController) GetPayment(ctx echo.Context) error {
	req, err := types.NewGetPaymentRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.escrowService.GetPayment(requestContext(ctx), req)
	if err != nil {
		return c.handleError(ctx, err, "Get payment failed")
	}

	return ctx.JSON(http.StatusOK, &types.PaymentResponse{Payment: mapper.PaymentToProto(item)})
}

func (c *EscrowController) ListPaymentTransfers(ctx echo.Context) error {
	req, err := types.NewGetPaymentRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	items, err := c.escrowService.ListPaymentTransfers(requestContext(ctx), req)
	if err != nil {
		return c.handleError(ctx, err, "List payment transfers failed")
	}

	return ctx.JSON(http.StatusOK, &types.PaymentTransfersResponse{Transfers: mapper.TransfersToProto(items)})
}

func (c *EscrowController) ListPaymentEvents(ctx echo.Context) error {
	req, err := types.NewGetPaymentRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	items, err := c.escrowService.ListPaymentEvents(requestContext(ctx), req)
	if err != nil {
		return c.handleError(ctx, err, "List payment events failed")
	}

	return ctx.JSON(http.StatusOK, &types.PaymentEventsResponse{Events: mapper.PaymentEventsToProto(items)})
}

func (c *EscrowController) GetPaymentByOrder(ctx echo.Context) error {
	req, err := types.NewGetPaymentByOrderRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.escrowService.GetPaymentByOrder(requestContext(ctx), req)
	if err != nil {
		return c.handleError(ctx, err, "Get payment by order failed")
	}

	return ctx.JSON(http.StatusOK, &types.PaymentResponse{Payment: mapper.PaymentToProto(item)})
}

func (c *EscrowController) ListPayments(ctx echo.Context) error {
	req, err := types.NewListPaymentsRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	items, err := c.escrowService.ListPayments(requestContext(ctx), req)
	if err != nil {
		return c.handleError(ctx, err, "List payments failed")
	}

	return ctx.JSON(http.StatusOK, &types.ListPaymentsResponse{Payments: mapper.PaymentsToProto(items)})
}

func (c *EscrowController) GetMediator(ctx echo.Context) error {
	m, err := c.escrowService.GetMediator(requestContext(ctx))
	if err != nil {
		return c.handleError(ctx, err, "Get mediator failed")
	}

	return ctx.JSON(http.StatusOK, &types.MediatorResponse{Mediator: mapper.MediatorToProto(m)})
}

func (c *EscrowController) HandleTransferReceipt(ctx echo.Context) error {
	req, err := types.NewHandleTransferReceiptRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	if _, err := c.escrowService.HandleTransferReceipt(requestContext(ctx), req); err != nil {
		if errors.Is(err, service.ErrReceiptRejected) {
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		}
		return c.handleError(ctx, err, "Handle transfer receipt failed")
	}

	return ctx.JSON(http.StatusOK, &types.HandleTransferReceiptResponse{Accepted: true, Message: "Transfer receipt processed"})
}

func (c *EscrowController) handleError(ctx echo.Context, err error, failure string) error {
	if status, ok := statusForError(err); ok {
		return c.writeError(ctx, status, err.Error())
	}
	factory.LoggerWithContext(c.logger, ctx).WithError(err).Error(failure)
	return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
}

func (c *EscrowController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}

func statusForError(err error) (int, bool) {
	switch {
	case errors.Is(err, service.ErrInvalidParameter):
		return http.StatusBadRequest, true
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, service.ErrAccessDenied), errors.Is(err, service.ErrUnauthorized):
		return http.StatusForbidden, true
	case errors.Is(err, service.ErrInsufficientFunds):
		return http.StatusPaymentRequired, true
	case errors.Is(err, service.ErrInvalidState), errors.Is(err, service.ErrDuplicateOrder):
		return http.StatusConflict, true
	case errors.Is(err, service.ErrMediatorNotInitialized):
		return http.StatusServiceUnavailable, true
	default:
		return 0, false
	}
}

func requestContext(ctx echo.Context) context.Context {
	reqCtx := ctx.Request().Context()
	if requestID := ctx.Response().Header().Get(echo.HeaderXRequestID); requestID != "" {
		return factory.ContextWithRequestID(reqCtx, requestID)
	}
	return factory.ContextWithRequestID(reqCtx, ctx.Request().Header.Get(echo.HeaderXRequestID))
}

func actionResponse(res *service.Result) *types.PaymentActionResponse {
	return &types.PaymentActionResponse{
		Payment:   mapper.PaymentToProto(res.Payment),
		Transfers: mapper.TransfersToProto(res.Transfers),
	}
}

func withdrawResponse(res *service.Result) *types.WithdrawResponse {
	amount := res.Event.Fields["amount"]
	if amount == "" {
		amount = "0"
	}
	return &types.WithdrawResponse{
		Amount:    amount,
		Mediator:  mapper.MediatorToProto(res.Mediator),
		Transfers: mapper.TransfersToProto(res.Transfers),
	}
}
