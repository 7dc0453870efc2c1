package types

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/vibast-solutions/ms-go-escrow/app/entity"
	"google.golang.org/grpc/metadata"
)

func TestNewRequestPaymentRequestFromContextTrims(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("POST", "/payments", bytes.NewBufferString(`{"order_id":" 1 ","user":" bob.user ","message":" Hello ","fee":"10"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	ctx := e.NewContext(req, httptest.NewRecorder())

	parsed, err := NewRequestPaymentRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.GetOrderId() != "1" || parsed.GetUser() != "bob.user" {
		t.Fatalf("unexpected trimming: %+v", parsed)
	}
	if parsed.GetMessage() != " Hello " {
		t.Fatalf("message must be echoed verbatim, got %q", parsed.GetMessage())
	}
	if err := parsed.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestRequestPaymentValidate(t *testing.T) {
	cases := []struct {
		name    string
		req     *RequestPaymentRequest
		wantErr string
	}{
		{"missing user", &RequestPaymentRequest{Fee: "10"}, "user is required"},
		{"missing fee", &RequestPaymentRequest{User: "bob.user"}, "fee is required"},
		{"negative fee", &RequestPaymentRequest{User: "bob.user", Fee: "-1"}, "fee must be an unsigned 128-bit integer"},
		{"fractional fee", &RequestPaymentRequest{User: "bob.user", Fee: "1.5"}, "fee must be an unsigned 128-bit integer"},
		{"fee overflow", &RequestPaymentRequest{User: "bob.user", Fee: "340282366920938463463374607431768211456"}, "fee must be an unsigned 128-bit integer"},
		{"bad order", &RequestPaymentRequest{User: "bob.user", Fee: "1", OrderId: "x"}, "order_id must be an unsigned 128-bit integer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if err == nil || err.Error() != tc.wantErr {
				t.Fatalf("expected %q, got %v", tc.wantErr, err)
			}
		})
	}

	max := &RequestPaymentRequest{User: "bob.user", Fee: entity.MaxUint128.String(), OrderId: "0"}
	if err := max.Validate(); err != nil {
		t.Fatalf("expected max fee to validate, got %v", err)
	}
}

func TestNewListPaymentsRequestFromContextAndValidate(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("GET", "/payments?status=paid&shop=alice.shop&limit=20&offset=3", nil)
	ctx := e.NewContext(req, httptest.NewRecorder())

	parsed, err := NewListPaymentsRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.GetStatus() != "PAID" || parsed.GetShop() != "alice.shop" {
		t.Fatalf("unexpected parse: %+v", parsed)
	}
	if parsed.GetLimit() != 20 || parsed.GetOffset() != 3 {
		t.Fatalf("unexpected pagination: %+v", parsed)
	}
	if err := parsed.Validate(); err != nil {
		t.Fatalf("expected valid list request, got %v", err)
	}

	bad := &ListPaymentsRequest{Limit: 1000}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected limit validation error")
	}
	badStatus := &ListPaymentsRequest{Status: "refunded"}
	if err := badStatus.Validate(); err == nil {
		t.Fatal("expected status validation error")
	}
	defaults := &ListPaymentsRequest{}
	if err := defaults.Validate(); err != nil || defaults.Limit != defaultListLimit {
		t.Fatalf("expected default limit, got %d %v", defaults.Limit, err)
	}
}

func TestPaymentActionValidate(t *testing.T) {
	if err := (&PaymentActionRequest{Id: "0"}).Validate(); err == nil {
		t.Fatal("expected error for id 0")
	}
	if err := (&PaymentActionRequest{Id: "abc"}).Validate(); err == nil {
		t.Fatal("expected error for non numeric id")
	}
	if err := (&PaymentActionRequest{Id: "42"}).Validate(); err != nil {
		t.Fatalf("expected valid id, got %v", err)
	}
}

func TestNewHandleTransferReceiptRequestFromContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("POST", "/webhooks/ledger/hash-1", strings.NewReader(`{"id":"evt_1"}`))
	req.Header.Set(echo.HeaderXRequestID, "req-1")
	req.Header.Set(HeaderLedgerSignature, "t=1,v1=ab")
	ctx := e.NewContext(req, httptest.NewRecorder())
	ctx.SetParamNames("hash")
	ctx.SetParamValues("hash-1")

	parsed, err := NewHandleTransferReceiptRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.GetReceiptHash() != "hash-1" || parsed.GetSignature() != "t=1,v1=ab" || parsed.GetPayload() != `{"id":"evt_1"}` {
		t.Fatalf("unexpected receipt request %+v", parsed)
	}
	if err := parsed.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
	if err := (&HandleTransferReceiptRequest{RequestId: "r", ReceiptHash: "h", Payload: "{}"}).Validate(); err == nil {
		t.Fatal("expected signature validation error")
	}
}

func TestNewCall(t *testing.T) {
	call, err := NewCall(" alice.shop ", "10")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if call.Caller != "alice.shop" || call.Attached.String() != "10" {
		t.Fatalf("unexpected call %+v", call)
	}

	empty, err := NewCall("alice.shop", "")
	if err != nil || !empty.Attached.IsZero() {
		t.Fatalf("expected zero attached value, got %+v %v", empty, err)
	}

	if _, err := NewCall("", "10"); err != ErrMissingCaller {
		t.Fatalf("expected ErrMissingCaller, got %v", err)
	}
	if _, err := NewCall("alice.shop", "-3"); err == nil {
		t.Fatal("expected invalid attached value error")
	}

	if _, err := NewCall(strings.Repeat("a", MaxAccountLength), "1"); err != nil {
		t.Fatalf("expected account of max length to pass, got %v", err)
	}
	if _, err := NewCall(strings.Repeat("a", MaxAccountLength+1), "1"); err != ErrCallerTooLong {
		t.Fatalf("expected ErrCallerTooLong, got %v", err)
	}
}

func TestNewCallFromHeadersAndMetadata(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("POST", "/payments/1/pay", nil)
	req.Header.Set(HeaderCallerAccount, "bob.user")
	req.Header.Set(HeaderAttachedValue, "10")
	call, err := NewCallFromContext(e.NewContext(req, httptest.NewRecorder()))
	if err != nil || call.Caller != "bob.user" || call.Attached.String() != "10" {
		t.Fatalf("unexpected call from headers %+v %v", call, err)
	}

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(MetadataCallerAccount, "bob.user", MetadataAttachedValue, "7"))
	call, err = NewCallFromIncomingContext(ctx)
	if err != nil || call.Caller != "bob.user" || call.Attached.String() != "7" {
		t.Fatalf("unexpected call from metadata %+v %v", call, err)
	}

	if _, err := NewCallFromIncomingContext(context.Background()); err != ErrMissingCaller {
		t.Fatalf("expected ErrMissingCaller, got %v", err)
	}
}

func TestJSONCodec(t *testing.T) {
	codec := jsonCodec{}
	raw, err := codec.Marshal(&PaymentActionRequest{Id: "5"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out PaymentActionRequest
	if err := codec.Unmarshal(raw, &out); err != nil || out.Id != "5" {
		t.Fatalf("unexpected unmarshal %+v %v", out, err)
	}
	if codec.Name() != CodecName {
		t.Fatalf("unexpected codec name %s", codec.Name())
	}
}
