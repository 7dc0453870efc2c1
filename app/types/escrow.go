package types

// Wire messages of the escrow service. Every 128-bit value travels as a
// base-10 string.

type Payment struct {
	Id        string `json:"id"`
	OrderId   string `json:"order_id,omitempty"`
	Shop      string `json:"shop"`
	User      string `json:"user"`
	Message   string `json:"message"`
	Fee       string `json:"fee"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type Mediator struct {
	Owner             string `json:"owner"`
	LastPaymentId     string `json:"last_payment_id"`
	FeeRate           string `json:"fee_rate"`
	FeeRateScale      int64  `json:"fee_rate_scale"`
	FeeAccruedTotal   string `json:"fee_accrued_total"`
	FeeWithdrawnTotal string `json:"fee_withdrawn_total"`
	PendingFees       string `json:"pending_fees"`
}

type Transfer struct {
	Id        string `json:"id"`
	PaymentId string `json:"payment_id,omitempty"`
	Kind      string `json:"kind"`
	Receiver  string `json:"receiver"`
	Amount    string `json:"amount"`
	Status    string `json:"status"`
}

type PaymentEvent struct {
	Id        uint64 `json:"id"`
	PaymentId string `json:"payment_id,omitempty"`
	EventType string `json:"event_type"`
	Caller    string `json:"caller"`
	OldStatus string `json:"old_status,omitempty"`
	NewStatus string `json:"new_status,omitempty"`
	Payload   string `json:"payload,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type RequestPaymentRequest struct {
	OrderId string `json:"order_id,omitempty" validate:"omitempty,u128"`
	User    string `json:"user" validate:"required,max=128"`
	Message string `json:"message" validate:"max=4096"`
	Fee     string `json:"fee" validate:"required,u128"`
}

func (r *RequestPaymentRequest) GetOrderId() string {
	if r == nil {
		return ""
	}
	return r.OrderId
}

func (r *RequestPaymentRequest) GetUser() string {
	if r == nil {
		return ""
	}
	return r.User
}

func (r *RequestPaymentRequest) GetMessage() string {
	if r == nil {
		return ""
	}
	return r.Message
}

func (r *RequestPaymentRequest) GetFee() string {
	if r == nil {
		return ""
	}
	return r.Fee
}

// PaymentActionRequest addresses pay, confirm and claim.
type PaymentActionRequest struct {
	Id string `json:"id" validate:"required,u128"`
}

func (r *PaymentActionRequest) GetId() string {
	if r == nil {
		return ""
	}
	return r.Id
}

type PaymentActionResponse struct {
	Payment   *Payment    `json:"payment"`
	Transfers []*Transfer `json:"transfers"`
}

type WithdrawRequest struct{}

type WithdrawResponse struct {
	Amount    string      `json:"amount"`
	Mediator  *Mediator   `json:"mediator"`
	Transfers []*Transfer `json:"transfers"`
}

type SetFeeRateRequest struct {
	FeeRate string `json:"fee_rate" validate:"required,u128"`
}

func (r *SetFeeRateRequest) GetFeeRate() string {
	if r == nil {
		return ""
	}
	return r.FeeRate
}

type GetPaymentRequest struct {
	Id string `json:"id" validate:"required,u128"`
}

func (r *GetPaymentRequest) GetId() string {
	if r == nil {
		return ""
	}
	return r.Id
}

type GetPaymentByOrderRequest struct {
	OrderId string `json:"order_id" validate:"required,u128"`
}

func (r *GetPaymentByOrderRequest) GetOrderId() string {
	if r == nil {
		return ""
	}
	return r.OrderId
}

type PaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type ListPaymentsRequest struct {
	Shop   string `json:"shop,omitempty" validate:"max=128"`
	User   string `json:"user,omitempty" validate:"max=128"`
	Status string `json:"status,omitempty" validate:"omitempty,oneof=REQUESTING PAID CONFIRMED CLAIMED"`
	Limit  int32  `json:"limit" validate:"gte=1,lte=500"`
	Offset int32  `json:"offset" validate:"gte=0"`
}

func (r *ListPaymentsRequest) GetShop() string {
	if r == nil {
		return ""
	}
	return r.Shop
}

func (r *ListPaymentsRequest) GetUser() string {
	if r == nil {
		return ""
	}
	return r.User
}

func (r *ListPaymentsRequest) GetStatus() string {
	if r == nil {
		return ""
	}
	return r.Status
}

func (r *ListPaymentsRequest) GetLimit() int32 {
	if r == nil {
		return 0
	}
	return r.Limit
}

func (r *ListPaymentsRequest) GetOffset() int32 {
	if r == nil {
		return 0
	}
	return r.Offset
}

type ListPaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}

type PaymentTransfersResponse struct {
	Transfers []*Transfer `json:"transfers"`
}

type PaymentEventsResponse struct {
	Events []*PaymentEvent `json:"events"`
}

type GetMediatorRequest struct{}

type MediatorResponse struct {
	Mediator *Mediator `json:"mediator"`
}

type HandleTransferReceiptRequest struct {
	RequestId   string `json:"request_id" validate:"required"`
	ReceiptHash string `json:"receipt_hash" validate:"required"`
	Signature   string `json:"signature" validate:"required"`
	Payload     string `json:"payload" validate:"required"`
}

func (r *HandleTransferReceiptRequest) GetRequestId() string {
	if r == nil {
		return ""
	}
	return r.RequestId
}

func (r *HandleTransferReceiptRequest) GetReceiptHash() string {
	if r == nil {
		return ""
	}
	return r.ReceiptHash
}

func (r *HandleTransferReceiptRequest) GetSignature() string {
	if r == nil {
		return ""
	}
	return r.Signature
}

func (r *HandleTransferReceiptRequest) GetPayload() string {
	if r == nil {
		return ""
	}
	return r.Payload
}

type HandleTransferReceiptResponse struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
