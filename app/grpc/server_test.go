package grpc

import (
	"context"
	"database/sql"
	"net"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-escrow/app/escrow"
	"github.com/vibast-solutions/ms-go-escrow/app/ledger"
	"github.com/vibast-solutions/ms-go-escrow/app/repository"
	"github.com/vibast-solutions/ms-go-escrow/app/service"
	"github.com/vibast-solutions/ms-go-escrow/app/types"
	"github.com/vibast-solutions/ms-go-escrow/config"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const (
	ownerAccount = "mediator.owner"
	shopAccount  = "alice.shop"
	userAccount  = "bob.user"
)

func newEscrowServiceForTest(t *testing.T, initialize bool) *service.EscrowService {
	t.Helper()
	db, err := sql.Open("sqlite3", "file:"+filepath.Join(t.TempDir(), "escrow.db")+"?_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := repository.Migrate(context.Background(), db, repository.DialectSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc := service.NewEscrowService(
		service.NewSQLStore(repository.NewStore(db, repository.DialectSQLite)),
		escrow.NewEngine(escrow.DefaultPolicy(), repository.StorageMeter{ByteCost: decimal.NewFromInt(1)}),
		ledger.NewHTTPClient(ledger.HTTPConfig{}),
		config.TransfersConfig{MaxAttempts: 3, JobBatchSize: 10},
	)
	if initialize {
		if _, err := svc.Initialize(context.Background(), ownerAccount, "20000"); err != nil {
			t.Fatalf("initialize: %v", err)
		}
	}
	return svc
}

// newClientForTest serves the escrow service over an in-memory listener with
// the production interceptor chain.
func newClientForTest(t *testing.T, svc *service.EscrowService) types.EscrowServiceClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		RecoveryInterceptor(),
		RequestIDInterceptor(),
		LoggingInterceptor(),
	))
	types.RegisterEscrowServiceServer(srv, NewServer(svc))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial bufnet: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return types.NewEscrowServiceClient(conn)
}

func callContext(caller, attached string) context.Context {
	ctx := metadata.AppendToOutgoingContext(context.Background(), requestIDHeader, "grpc-req-1")
	if caller == "" {
		return ctx
	}
	return types.AppendCallToOutgoingContext(ctx, caller, attached)
}

func TestRequestPaymentValidation(t *testing.T) {
	client := newClientForTest(t, newEscrowServiceForTest(t, true))

	_, err := client.RequestPayment(callContext(shopAccount, "1000"), &types.RequestPaymentRequest{Fee: "10"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}

	_, err = client.RequestPayment(callContext("", ""), &types.RequestPaymentRequest{User: userAccount, Fee: "10"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument without caller, got %v", err)
	}
}

func TestRequestIDIsRequired(t *testing.T) {
	client := newClientForTest(t, newEscrowServiceForTest(t, true))

	_, err := client.GetMediator(context.Background(), &types.GetMediatorRequest{})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument without request id, got %v", err)
	}
}

func TestPaymentLifecycleOverGRPC(t *testing.T) {
	client := newClientForTest(t, newEscrowServiceForTest(t, true))

	created, err := client.RequestPayment(callContext(shopAccount, "1000"), &types.RequestPaymentRequest{
		OrderId: "5",
		User:    userAccount,
		Message: "Hello",
		Fee:     "10000000",
	})
	if err != nil {
		t.Fatalf("request payment failed: %v", err)
	}
	if created.Payment.Id != "1" || created.Payment.Status != "REQUESTING" {
		t.Fatalf("unexpected payment: %+v", created.Payment)
	}

	_, err = client.RequestPayment(callContext(shopAccount, "1000"), &types.RequestPaymentRequest{OrderId: "5", User: userAccount, Fee: "1"})
	if status.Code(err) != codes.AlreadyExists {
		t.Fatalf("expected AlreadyExists for duplicate order, got %v", err)
	}

	action := &types.PaymentActionRequest{Id: "1"}
	if _, err := client.Pay(callContext(userAccount, "9"), action); status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("expected FailedPrecondition for short pay, got %v", err)
	}
	if _, err := client.Pay(callContext(userAccount, "10000000"), action); err != nil {
		t.Fatalf("pay failed: %v", err)
	}
	if _, err := client.Confirm(callContext(shopAccount, "1"), action); status.Code(err) != codes.PermissionDenied {
		t.Fatalf("expected PermissionDenied for shop confirm, got %v", err)
	}
	if _, err := client.Confirm(callContext(userAccount, "1"), action); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	claimed, err := client.Claim(callContext(shopAccount, "1"), action)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if claimed.Payment.Status != "CLAIMED" || len(claimed.Transfers) != 1 || claimed.Transfers[0].Amount != "8000000" {
		t.Fatalf("unexpected claim response: %+v %+v", claimed.Payment, claimed.Transfers)
	}

	byOrder, err := client.GetPaymentByOrder(callContext("", ""), &types.GetPaymentByOrderRequest{OrderId: "5"})
	if err != nil {
		t.Fatalf("get by order failed: %v", err)
	}
	if byOrder.Payment.Status != "CLAIMED" {
		t.Fatalf("expected CLAIMED, got %s", byOrder.Payment.Status)
	}

	transfers, err := client.ListPaymentTransfers(callContext("", ""), &types.GetPaymentRequest{Id: "1"})
	if err != nil {
		t.Fatalf("list payment transfers failed: %v", err)
	}
	payouts := 0
	for _, tr := range transfers.Transfers {
		if tr.PaymentId != "1" {
			t.Fatalf("transfer of another payment listed: %+v", tr)
		}
		if tr.Kind == "payout" && tr.Amount == "8000000" && tr.Status == "pending" {
			payouts++
		}
	}
	if payouts != 1 {
		t.Fatalf("expected one pending payout, got %+v", transfers.Transfers)
	}

	events, err := client.ListPaymentEvents(callContext("", ""), &types.GetPaymentRequest{Id: "1"})
	if err != nil {
		t.Fatalf("list payment events failed: %v", err)
	}
	wantEvents := []string{"payment_requested", "payment_paid", "payment_confirmed", "payment_claimed"}
	if len(events.Events) != len(wantEvents) {
		t.Fatalf("expected %d events, got %+v", len(wantEvents), events.Events)
	}
	for i, want := range wantEvents {
		if events.Events[i].EventType != want {
			t.Fatalf("event %d: expected %s, got %s", i, want, events.Events[i].EventType)
		}
	}
	if events.Events[3].OldStatus != "CONFIRMED" || events.Events[3].NewStatus != "CLAIMED" {
		t.Fatalf("unexpected claim event: %+v", events.Events[3])
	}

	if _, err := client.ListPaymentEvents(callContext("", ""), &types.GetPaymentRequest{Id: "42"}); status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound for unknown payment events, got %v", err)
	}

	withdrawn, err := client.Withdraw(callContext(ownerAccount, "1"), &types.WithdrawRequest{})
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if withdrawn.Amount != "2000000" {
		t.Fatalf("expected 2000000 withdrawn, got %s", withdrawn.Amount)
	}

	again, err := client.Withdraw(callContext(ownerAccount, "1"), &types.WithdrawRequest{})
	if err != nil {
		t.Fatalf("second withdraw failed: %v", err)
	}
	if again.Amount != "0" || len(again.Transfers) != 0 {
		t.Fatalf("expected empty second withdraw, got %+v", again)
	}
}

func TestSetFeeRateOverGRPC(t *testing.T) {
	client := newClientForTest(t, newEscrowServiceForTest(t, true))

	if _, err := client.SetFeeRate(callContext(shopAccount, "1"), &types.SetFeeRateRequest{FeeRate: "10"}); status.Code(err) != codes.PermissionDenied {
		t.Fatalf("expected PermissionDenied, got %v", err)
	}
	if _, err := client.SetFeeRate(callContext(ownerAccount, "1"), &types.SetFeeRateRequest{FeeRate: "100001"}); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}

	resp, err := client.SetFeeRate(callContext(ownerAccount, "1"), &types.SetFeeRateRequest{FeeRate: "10"})
	if err != nil {
		t.Fatalf("set fee rate failed: %v", err)
	}
	if resp.Mediator.FeeRate != "10" {
		t.Fatalf("expected fee rate 10, got %s", resp.Mediator.FeeRate)
	}
}

func TestQueriesOverGRPC(t *testing.T) {
	client := newClientForTest(t, newEscrowServiceForTest(t, true))

	if _, err := client.GetPayment(callContext("", ""), &types.GetPaymentRequest{Id: "3"}); status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}

	list, err := client.ListPayments(callContext("", ""), &types.ListPaymentsRequest{Limit: 10})
	if err != nil {
		t.Fatalf("list payments failed: %v", err)
	}
	if len(list.Payments) != 0 {
		t.Fatalf("expected no payments, got %d", len(list.Payments))
	}

	summary, err := client.GetMediator(callContext("", ""), &types.GetMediatorRequest{})
	if err != nil {
		t.Fatalf("get mediator failed: %v", err)
	}
	if summary.Mediator.Owner != ownerAccount || summary.Mediator.LastPaymentId != "0" {
		t.Fatalf("unexpected summary: %+v", summary.Mediator)
	}
}

func TestMediatorNotInitializedIsUnavailable(t *testing.T) {
	client := newClientForTest(t, newEscrowServiceForTest(t, false))

	_, err := client.Withdraw(callContext(ownerAccount, "1"), &types.WithdrawRequest{})
	if status.Code(err) != codes.Unavailable {
		t.Fatalf("expected Unavailable, got %v", err)
	}
}

func TestHandleTransferReceiptRejectedOverGRPC(t *testing.T) {
	client := newClientForTest(t, newEscrowServiceForTest(t, true))

	_, err := client.HandleTransferReceipt(callContext("", ""), &types.HandleTransferReceiptRequest{
		RequestId:   "r-1",
		ReceiptHash: "hash-1",
		Signature:   "t=1,v1=00",
		Payload:     `{"id":"evt_1"}`,
	})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for rejected receipt, got %v", err)
	}
}
