package types

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const EscrowServiceName = "escrow.v1.EscrowService"

const (
	EscrowService_RequestPayment_FullMethodName        = "/" + EscrowServiceName + "/RequestPayment"
	EscrowService_Pay_FullMethodName                   = "/" + EscrowServiceName + "/Pay"
	EscrowService_Confirm_FullMethodName               = "/" + EscrowServiceName + "/Confirm"
	EscrowService_Claim_FullMethodName                 = "/" + EscrowServiceName + "/Claim"
	EscrowService_Withdraw_FullMethodName              = "/" + EscrowServiceName + "/Withdraw"
	EscrowService_SetFeeRate_FullMethodName            = "/" + EscrowServiceName + "/SetFeeRate"
	EscrowService_GetPayment_FullMethodName            = "/" + EscrowServiceName + "/GetPayment"
	EscrowService_GetPaymentByOrder_FullMethodName     = "/" + EscrowServiceName + "/GetPaymentByOrder"
	EscrowService_ListPayments_FullMethodName          = "/" + EscrowServiceName + "/ListPayments"
	EscrowService_ListPaymentTransfers_FullMethodName  = "/" + EscrowServiceName + "/ListPaymentTransfers"
	EscrowService_ListPaymentEvents_FullMethodName     = "/" + EscrowServiceName + "/ListPaymentEvents"
	EscrowService_GetMediator_FullMethodName           = "/" + EscrowServiceName + "/GetMediator"
	EscrowService_HandleTransferReceipt_FullMethodName = "/" + EscrowServiceName + "/HandleTransferReceipt"
)

type EscrowServiceServer interface {
	RequestPayment(context.Context, *RequestPaymentRequest) (*PaymentActionResponse, error)
	Pay(context.Context, *PaymentActionRequest) (*PaymentActionResponse, error)
	Confirm(context.Context, *PaymentActionRequest) (*PaymentActionResponse, error)
	Claim(context.Context, *PaymentActionRequest) (*PaymentActionResponse, error)
	Withdraw(context.Context, *WithdrawRequest) (*WithdrawResponse, error)
	SetFeeRate(context.Context, *SetFeeRateRequest) (*MediatorResponse, error)
	GetPayment(context.Context, *GetPaymentRequest) (*PaymentResponse, error)
	GetPaymentByOrder(context.Context, *GetPaymentByOrderRequest) (*PaymentResponse, error)
	ListPayments(context.Context, *ListPaymentsRequest) (*ListPaymentsResponse, error)
	ListPaymentTransfers(context.Context, *GetPaymentRequest) (*PaymentTransfersResponse, error)
	ListPaymentEvents(context.Context, *GetPaymentRequest) (*PaymentEventsResponse, error)
	GetMediator(context.Context, *GetMediatorRequest) (*MediatorResponse, error)
	HandleTransferReceipt(context.Context, *HandleTransferReceiptRequest) (*HandleTransferReceiptResponse, error)
}

// UnimplementedEscrowServiceServer answers Unimplemented for every method.
type UnimplementedEscrowServiceServer struct{}

func (UnimplementedEscrowServiceServer) RequestPayment(context.Context, *RequestPaymentRequest) (*PaymentActionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RequestPayment not implemented")
}

func (UnimplementedEscrowServiceServer) Pay(context.Context, *PaymentActionRequest) (*PaymentActionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Pay not implemented")
}

func (UnimplementedEscrowServiceServer) Confirm(context.Context, *PaymentActionRequest) (*PaymentActionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Confirm not implemented")
}

func (UnimplementedEscrowServiceServer) Claim(context.Context, *PaymentActionRequest) (*PaymentActionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Claim not implemented")
}

func (UnimplementedEscrowServiceServer) Withdraw(context.Context, *WithdrawRequest) (*WithdrawResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Withdraw not implemented")
}

func (UnimplementedEscrowServiceServer) SetFeeRate(context.Context, *SetFeeRateRequest) (*MediatorResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SetFeeRate not implemented")
}

func (UnimplementedEscrowServiceServer) GetPayment(context.Context, *GetPaymentRequest) (*PaymentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetPayment not implemented")
}

func (UnimplementedEscrowServiceServer) GetPaymentByOrder(context.Context, *GetPaymentByOrderRequest) (*PaymentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetPaymentByOrder not implemented")
}

func (UnimplementedEscrowServiceServer) ListPayments(context.Context, *ListPaymentsRequest) (*ListPaymentsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListPayments not implemented")
}

func (UnimplementedEscrowServiceServer) ListPaymentTransfers(context.Context, *GetPaymentRequest) (*PaymentTransfersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListPaymentTransfers not implemented")
}

func (UnimplementedEscrowServiceServer) ListPaymentEvents(context.Context, *GetPaymentRequest) (*PaymentEventsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListPaymentEvents not implemented")
}

func (UnimplementedEscrowServiceServer) GetMediator(context.Context, *GetMediatorRequest) (*MediatorResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetMediator not implemented")
}

func (UnimplementedEscrowServiceServer) HandleTransferReceipt(context.Context, *HandleTransferReceiptRequest) (*HandleTransferReceiptResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method HandleTransferReceipt not implemented")
}

func unaryHandler[Req any, Resp any](fullMethod string, call func(EscrowServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(EscrowServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(EscrowServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var EscrowService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: EscrowServiceName,
	HandlerType: (*EscrowServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RequestPayment", Handler: unaryHandler(EscrowService_RequestPayment_FullMethodName, EscrowServiceServer.RequestPayment)},
		{MethodName: "Pay", Handler: unaryHandler(EscrowService_Pay_FullMethodName, EscrowServiceServer.Pay)},
		{MethodName: "Confirm", Handler: unaryHandler(EscrowService_Confirm_FullMethodName, EscrowServiceServer.Confirm)},
		{MethodName: "Claim", Handler: unaryHandler(EscrowService_Claim_FullMethodName, EscrowServiceServer.Claim)},
		{MethodName: "Withdraw", Handler: unaryHandler(EscrowService_Withdraw_FullMethodName, EscrowServiceServer.Withdraw)},
		{MethodName: "SetFeeRate", Handler: unaryHandler(EscrowService_SetFeeRate_FullMethodName, EscrowServiceServer.SetFeeRate)},
		{MethodName: "GetPayment", Handler: unaryHandler(EscrowService_GetPayment_FullMethodName, EscrowServiceServer.GetPayment)},
		{MethodName: "GetPaymentByOrder", Handler: unaryHandler(EscrowService_GetPaymentByOrder_FullMethodName, EscrowServiceServer.GetPaymentByOrder)},
		{MethodName: "ListPayments", Handler: unaryHandler(EscrowService_ListPayments_FullMethodName, EscrowServiceServer.ListPayments)},
		{MethodName: "ListPaymentTransfers", Handler: unaryHandler(EscrowService_ListPaymentTransfers_FullMethodName, EscrowServiceServer.ListPaymentTransfers)},
		{MethodName: "ListPaymentEvents", Handler: unaryHandler(EscrowService_ListPaymentEvents_FullMethodName, EscrowServiceServer.ListPaymentEvents)},
		{MethodName: "GetMediator", Handler: unaryHandler(EscrowService_GetMediator_FullMethodName, EscrowServiceServer.GetMediator)},
		{MethodName: "HandleTransferReceipt", Handler: unaryHandler(EscrowService_HandleTransferReceipt_FullMethodName, EscrowServiceServer.HandleTransferReceipt)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "escrow/v1/escrow.proto",
}

func RegisterEscrowServiceServer(s grpc.ServiceRegistrar, srv EscrowServiceServer) {
	s.RegisterService(&EscrowService_ServiceDesc, srv)
}

type EscrowServiceClient interface {
	RequestPayment(ctx context.Context, in *RequestPaymentRequest, opts ...grpc.CallOption) (*PaymentActionResponse, error)
	Pay(ctx context.Context, in *PaymentActionRequest, opts ...grpc.CallOption) (*PaymentActionResponse, error)
	Confirm(ctx context.Context, in *PaymentActionRequest, opts ...grpc.CallOption) (*PaymentActionResponse, error)
	Claim(ctx context.Context, in *PaymentActionRequest, opts ...grpc.CallOption) (*PaymentActionResponse, error)
	Withdraw(ctx context.Context, in *WithdrawRequest, opts ...grpc.CallOption) (*WithdrawResponse, error)
	SetFeeRate(ctx context.Context, in *SetFeeRateRequest, opts ...grpc.CallOption) (*MediatorResponse, error)
	GetPayment(ctx context.Context, in *GetPaymentRequest, opts ...grpc.CallOption) (*PaymentResponse, error)
	GetPaymentByOrder(ctx context.Context, in *GetPaymentByOrderRequest, opts ...grpc.CallOption) (*PaymentResponse, error)
	ListPayments(ctx context.Context, in *ListPaymentsRequest, opts ...grpc.CallOption) (*ListPaymentsResponse, error)
	ListPaymentTransfers(ctx context.Context, in *GetPaymentRequest, opts ...grpc.CallOption) (*PaymentTransfersResponse, error)
	ListPaymentEvents(ctx context.Context, in *GetPaymentRequest, opts ...grpc.CallOption) (*PaymentEventsResponse, error)
	GetMediator(ctx context.Context, in *GetMediatorRequest, opts ...grpc.CallOption) (*MediatorResponse, error)
	HandleTransferReceipt(ctx context.Context, in *HandleTransferReceiptRequest, opts ...grpc.CallOption) (*HandleTransferReceiptResponse, error)
}

type escrowServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewEscrowServiceClient(cc grpc.ClientConnInterface) EscrowServiceClient {
	return &escrowServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in interface{}, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *escrowServiceClient) RequestPayment(ctx context.Context, in *RequestPaymentRequest, opts ...grpc.CallOption) (*PaymentActionResponse, error) {
	return invoke[PaymentActionResponse](ctx, c.cc, EscrowService_RequestPayment_FullMethodName, in, opts)
}

func (c *escrowServiceClient) Pay(ctx context.Context, in *PaymentActionRequest, opts ...grpc.CallOption) (*PaymentActionResponse, error) {
	return invoke[PaymentActionResponse](ctx, c.cc, EscrowService_Pay_FullMethodName, in, opts)
}

func (c *escrowServiceClient) Confirm(ctx context.Context, in *PaymentActionRequest, opts ...grpc.CallOption) (*PaymentActionResponse, error) {
	return invoke[PaymentActionResponse](ctx, c.cc, EscrowService_Confirm_FullMethodName, in, opts)
}

func (c *escrowServiceClient) Claim(ctx context.Context, in *PaymentActionRequest, opts ...grpc.CallOption) (*PaymentActionResponse, error) {
	return invoke[PaymentActionResponse](ctx, c.cc, EscrowService_Claim_FullMethodName, in, opts)
}

func (c *escrowServiceClient) Withdraw(ctx context.Context, in *WithdrawRequest, opts ...grpc.CallOption) (*WithdrawResponse, error) {
	return invoke[WithdrawResponse](ctx, c.cc, EscrowService_Withdraw_FullMethodName, in, opts)
}

func (c *escrowServiceClient) SetFeeRate(ctx context.Context, in *SetFeeRateRequest, opts ...grpc.CallOption) (*MediatorResponse, error) {
	return invoke[MediatorResponse](ctx, c.cc, EscrowService_SetFeeRate_FullMethodName, in, opts)
}

func (c *escrowServiceClient) GetPayment(ctx context.Context, in *GetPaymentRequest, opts ...grpc.CallOption) (*PaymentResponse, error) {
	return invoke[PaymentResponse](ctx, c.cc, EscrowService_GetPayment_FullMethodName, in, opts)
}

func (c *escrowServiceClient) GetPaymentByOrder(ctx context.Context, in *GetPaymentByOrderRequest, opts ...grpc.CallOption) (*PaymentResponse, error) {
	return invoke[PaymentResponse](ctx, c.cc, EscrowService_GetPaymentByOrder_FullMethodName, in, opts)
}

func (c *escrowServiceClient) ListPayments(ctx context.Context, in *ListPaymentsRequest, opts ...grpc.CallOption) (*ListPaymentsResponse, error) {
	return invoke[ListPaymentsResponse](ctx, c.cc, EscrowService_ListPayments_FullMethodName, in, opts)
}

func (c *escrowServiceClient) ListPaymentTransfers(ctx context.Context, in *GetPaymentRequest, opts ...grpc.CallOption) (*PaymentTransfersResponse, error) {
	return invoke[PaymentTransfersResponse](ctx, c.cc, EscrowService_ListPaymentTransfers_FullMethodName, in, opts)
}

func (c *escrowServiceClient) ListPaymentEvents(ctx context.Context, in *GetPaymentRequest, opts ...grpc.CallOption) (*PaymentEventsResponse, error) {
	return invoke[PaymentEventsResponse](ctx, c.cc, EscrowService_ListPaymentEvents_FullMethodName, in, opts)
}

func (c *escrowServiceClient) GetMediator(ctx context.Context, in *GetMediatorRequest, opts ...grpc.CallOption) (*MediatorResponse, error) {
	return invoke[MediatorResponse](ctx, c.cc, EscrowService_GetMediator_FullMethodName, in, opts)
}

func (c *escrowServiceClient) HandleTransferReceipt(ctx context.Context, in *HandleTransferReceiptRequest, opts ...grpc.CallOption) (*HandleTransferReceiptResponse, error) {
	return invoke[HandleTransferReceiptResponse](ctx, c.cc, EscrowService_HandleTransferReceipt_FullMethodName, in, opts)
}
