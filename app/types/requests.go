package types

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const defaultListLimit = 100

func NewRequestPaymentRequestFromContext(ctx echo.Context) (*RequestPaymentRequest, error) {
	var body RequestPaymentRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	body.OrderId = strings.TrimSpace(body.OrderId)
	body.User = strings.TrimSpace(body.User)
	body.Fee = strings.TrimSpace(body.Fee)

	return &body, nil
}

func (r *RequestPaymentRequest) Validate() error {
	return validateStruct(r)
}

func NewPaymentActionRequestFromContext(ctx echo.Context) (*PaymentActionRequest, error) {
	return &PaymentActionRequest{Id: strings.TrimSpace(ctx.Param("id"))}, nil
}

func (r *PaymentActionRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if r.GetId() == "0" {
		return errors.New("invalid payment id")
	}
	return nil
}

func NewSetFeeRateRequestFromContext(ctx echo.Context) (*SetFeeRateRequest, error) {
	var body SetFeeRateRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.FeeRate = strings.TrimSpace(body.FeeRate)
	return &body, nil
}

func (r *SetFeeRateRequest) Validate() error {
	return validateStruct(r)
}

func NewGetPaymentRequestFromContext(ctx echo.Context) (*GetPaymentRequest, error) {
	return &GetPaymentRequest{Id: strings.TrimSpace(ctx.Param("id"))}, nil
}

func (r *GetPaymentRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if r.GetId() == "0" {
		return errors.New("invalid payment id")
	}
	return nil
}

func NewGetPaymentByOrderRequestFromContext(ctx echo.Context) (*GetPaymentByOrderRequest, error) {
	return &GetPaymentByOrderRequest{OrderId: strings.TrimSpace(ctx.Param("order_id"))}, nil
}

func (r *GetPaymentByOrderRequest) Validate() error {
	return validateStruct(r)
}

func NewListPaymentsRequestFromContext(ctx echo.Context) (*ListPaymentsRequest, error) {
	req := &ListPaymentsRequest{
		Shop:   strings.TrimSpace(ctx.QueryParam("shop")),
		User:   strings.TrimSpace(ctx.QueryParam("user")),
		Status: strings.ToUpper(strings.TrimSpace(ctx.QueryParam("status"))),
		Limit:  defaultListLimit,
		Offset: 0,
	}

	if limitRaw := strings.TrimSpace(ctx.QueryParam("limit")); limitRaw != "" {
		limit, err := strconv.ParseInt(limitRaw, 10, 32)
		if err != nil {
			return nil, err
		}
		req.Limit = int32(limit)
	}

	if offsetRaw := strings.TrimSpace(ctx.QueryParam("offset")); offsetRaw != "" {
		offset, err := strconv.ParseInt(offsetRaw, 10, 32)
		if err != nil {
			return nil, err
		}
		req.Offset = int32(offset)
	}

	return req, nil
}

func (r *ListPaymentsRequest) Validate() error {
	if r.Limit == 0 {
		r.Limit = defaultListLimit
	}
	r.Status = strings.ToUpper(strings.TrimSpace(r.Status))
	return validateStruct(r)
}

func NewHandleTransferReceiptRequestFromContext(ctx echo.Context) (*HandleTransferReceiptRequest, error) {
	rawBody, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return nil, err
	}

	return &HandleTransferReceiptRequest{
		RequestId:   strings.TrimSpace(ctx.Request().Header.Get(echo.HeaderXRequestID)),
		ReceiptHash: strings.TrimSpace(ctx.Param("hash")),
		Signature:   strings.TrimSpace(ctx.Request().Header.Get(HeaderLedgerSignature)),
		Payload:     string(rawBody),
	}, nil
}

func (r *HandleTransferReceiptRequest) Validate() error {
	return validateStruct(r)
}
