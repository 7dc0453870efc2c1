package grpc

import (
	"context"
	"errors"

	"github.com/vibast-solutions/ms-go-escrow/app/escrow"
	"github.com/vibast-solutions/ms-go-escrow/app/mapper"
	"github.com/vibast-solutions/ms-go-escrow/app/service"
	"github.com/vibast-solutions/ms-go-escrow/app/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Server struct {
	types.UnimplementedEscrowServiceServer
	escrowService *service.EscrowService
}

func NewServer(escrowService *service.EscrowService) *Server {
	return &Server{escrowService: escrowService}
}

func (s *Server) RequestPayment(ctx context.Context, req *types.RequestPaymentRequest) (*types.PaymentActionResponse, error) {
	call, err := types.NewCallFromIncomingContext(ctx)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := req.Validate(); err != nil {
		loggerWithContext(ctx).WithError(err).Debug("Request payment validation failed")
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	res, err := s.escrowService.RequestPayment(ctx, call, req)
	if err != nil {
		return nil, toStatus(ctx, err, "Request payment failed")
	}

	return actionResponse(res), nil
}

func (s *Server) Pay(ctx context.Context, req *types.PaymentActionRequest) (*types.PaymentActionResponse, error) {
	return s.paymentAction(ctx, req, "Pay failed", func(ctx context.Context, call escrow.Call) (*service.Result, error) {
		return s.escrowService.Pay(ctx, call, req)
	})
}

func (s *Server) Confirm(ctx context.Context, req *types.PaymentActionRequest) (*types.PaymentActionResponse, error) {
	return s.paymentAction(ctx, req, "Confirm failed", func(ctx context.Context, call escrow.Call) (*service.Result, error) {
		return s.escrowService.Confirm(ctx, call, req)
	})
}

func (s *Server) Claim(ctx context.Context, req *types.PaymentActionRequest) (*types.PaymentActionResponse, error) {
	return s.paymentAction(ctx, req, "Claim failed", func(ctx context.Context, call escrow.Call) (*service.Result, error) {
		return s.escrowService.Claim(ctx, call, req)
	})
}

func (s *Server) paymentAction(
	ctx context.Context,
	req *types.PaymentActionRequest,
	failure string,
	action func(context.Context, escrow.Call) (*service.Result, error),
) (*types.PaymentActionResponse, error) {
	call, err := types.NewCallFromIncomingContext(ctx)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	res, err := action(ctx, call)
	if err != nil {
		return nil, toStatus(ctx, err, failure)
	}

	return actionResponse(res), nil
}

func (s *Server) Withdraw(ctx context.Context, _ *types.WithdrawRequest) (*types.WithdrawResponse, error) {
	call, err := types.NewCallFromIncomingContext(ctx)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	res, err := s.escrowService.Withdraw(ctx, call)
	if err != nil {
		return nil, toStatus(ctx, err, "Withdraw failed")
	}

	amount := res.Event.Fields["amount"]
	if amount == "" {
		amount = "0"
	}
	return &types.WithdrawResponse{
		Amount:    amount,
		Mediator:  mapper.MediatorToProto(res.Mediator),
		Transfers: mapper.TransfersToProto(res.Transfers),
	}, nil
}

func (s *Server) SetFeeRate(ctx context.Context, req *types.SetFeeRateRequest) (*types.MediatorResponse, error) {
	call, err := types.NewCallFromIncomingContext(ctx)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	res, err := s.escrowService.SetFeeRate(ctx, call, req)
	if err != nil {
		return nil, toStatus(ctx, err, "Set fee rate failed")
	}

	return &types.MediatorResponse{Mediator: mapper.MediatorToProto(res.Mediator)}, nil
}

func (s *Server) GetPayment(ctx context.Context, req *types.GetPaymentRequest) (*types.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	item, err := s.escrowService.GetPayment(ctx, req)
	if err != nil {
		return nil, toStatus(ctx, err, "Get payment failed")
	}

	return &types.PaymentResponse{Payment: mapper.PaymentToProto(item)}, nil
}

func (s *Server) ListPaymentTransfers(ctx context.Context, req *types.GetPaymentRequest) (*types.PaymentTransfersResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	items, err := s.escrowService.ListPaymentTransfers(ctx, req)
	if err != nil {
		return nil, toStatus(ctx, err, "List payment transfers failed")
	}

	return &types.PaymentTransfersResponse{Transfers: mapper.TransfersToProto(items)}, nil
}

func (s *Server) ListPaymentEvents(ctx context.Context, req *types.GetPaymentRequest) (*types.PaymentEventsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	items, err := s.escrowService.ListPaymentEvents(ctx, req)
	if err != nil {
		return nil, toStatus(ctx, err, "List payment events failed")
	}

	return &types.PaymentEventsResponse{Events: mapper.PaymentEventsToProto(items)}, nil
}

func (s *Server) GetPaymentByOrder(ctx context.Context, req *types.GetPaymentByOrderRequest) (*types.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	item, err := s.escrowService.GetPaymentByOrder(ctx, req)
	if err != nil {
		return nil, toStatus(ctx, err, "Get payment by order failed")
	}

	return &types.PaymentResponse{Payment: mapper.PaymentToProto(item)}, nil
}

func (s *Server) ListPayments(ctx context.Context, req *types.ListPaymentsRequest) (*types.ListPaymentsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	items, err := s.escrowService.ListPayments(ctx, req)
	if err != nil {
		return nil, toStatus(ctx, err, "List payments failed")
	}

	return &types.ListPaymentsResponse{Payments: mapper.PaymentsToProto(items)}, nil
}

func (s *Server) GetMediator(ctx context.Context, _ *types.GetMediatorRequest) (*types.MediatorResponse, error) {
	m, err := s.escrowService.GetMediator(ctx)
	if err != nil {
		return nil, toStatus(ctx, err, "Get mediator failed")
	}

	return &types.MediatorResponse{Mediator: mapper.MediatorToProto(m)}, nil
}

func (s *Server) HandleTransferReceipt(ctx context.Context, req *types.HandleTransferReceiptRequest) (*types.HandleTransferReceiptResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if _, err := s.escrowService.HandleTransferReceipt(ctx, req); err != nil {
		if errors.Is(err, service.ErrReceiptRejected) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		return nil, toStatus(ctx, err, "Handle transfer receipt failed")
	}

	return &types.HandleTransferReceiptResponse{Accepted: true, Message: "Transfer receipt processed"}, nil
}

func toStatus(ctx context.Context, err error, failure string) error {
	switch {
	case errors.Is(err, service.ErrInvalidParameter):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrAccessDenied), errors.Is(err, service.ErrUnauthorized):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, service.ErrInvalidState), errors.Is(err, service.ErrInsufficientFunds):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, service.ErrDuplicateOrder):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, service.ErrMediatorNotInitialized):
		return status.Error(codes.Unavailable, err.Error())
	default:
		loggerWithContext(ctx).WithError(err).Error(failure)
		return status.Error(codes.Internal, "internal server error")
	}
}

func actionResponse(res *service.Result) *types.PaymentActionResponse {
	return &types.PaymentActionResponse{
		Payment:   mapper.PaymentToProto(res.Payment),
		Transfers: mapper.TransfersToProto(res.Transfers),
	}
}
