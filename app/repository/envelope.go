package repository

import (
	"errors"
	"fmt"

	"github.com/vibast-solutions/ms-go-escrow/app/entity"
	"google.golang.org/protobuf/encoding/protowire"
)

// Envelope variants. Each variant is a field of the outer message so a later
// revision adds a field number and keeps old bytes readable.
const (
	envelopeV1 protowire.Number = 1
)

// Fields of the V1 payment message.
const (
	v1ID      protowire.Number = 1
	v1OrderID protowire.Number = 2
	v1Shop    protowire.Number = 3
	v1User    protowire.Number = 4
	v1Message protowire.Number = 5
	v1Fee     protowire.Number = 6
	v1Status  protowire.Number = 7
)

var (
	ErrUnknownEnvelopeVariant = errors.New("unknown payment envelope variant")
	ErrMalformedEnvelope      = errors.New("malformed payment envelope")
)

// EncodeEnvelope wraps payment in the current envelope variant.
func EncodeEnvelope(payment *entity.Payment) ([]byte, error) {
	inner, err := encodeV1(payment)
	if err != nil {
		return nil, err
	}
	var b []byte
	b = protowire.AppendTag(b, envelopeV1, protowire.BytesType)
	b = protowire.AppendBytes(b, inner)
	return b, nil
}

// DecodeEnvelope reads any known variant into the current in-memory shape.
func DecodeEnvelope(b []byte) (*entity.Payment, error) {
	var payment *entity.Payment
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, protowire.ParseError(n))
		}
		b = b[n:]
		if num != envelopeV1 || typ != protowire.BytesType {
			return nil, fmt.Errorf("%w: field %d", ErrUnknownEnvelopeVariant, num)
		}
		inner, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, protowire.ParseError(n))
		}
		b = b[n:]
		p, err := decodeV1(inner)
		if err != nil {
			return nil, err
		}
		payment = p
	}
	if payment == nil {
		return nil, fmt.Errorf("%w: empty", ErrMalformedEnvelope)
	}
	return payment, nil
}

func encodeV1(payment *entity.Payment) ([]byte, error) {
	id, err := EncodeKey(payment.ID)
	if err != nil {
		return nil, fmt.Errorf("payment id: %w", err)
	}
	fee, err := EncodeKey(payment.Fee)
	if err != nil {
		return nil, fmt.Errorf("payment fee: %w", err)
	}

	var b []byte
	b = protowire.AppendTag(b, v1ID, protowire.BytesType)
	b = protowire.AppendBytes(b, id)
	if payment.OrderID != nil {
		orderID, err := EncodeKey(*payment.OrderID)
		if err != nil {
			return nil, fmt.Errorf("order id: %w", err)
		}
		b = protowire.AppendTag(b, v1OrderID, protowire.BytesType)
		b = protowire.AppendBytes(b, orderID)
	}
	b = protowire.AppendTag(b, v1Shop, protowire.BytesType)
	b = protowire.AppendString(b, payment.Shop)
	b = protowire.AppendTag(b, v1User, protowire.BytesType)
	b = protowire.AppendString(b, payment.User)
	b = protowire.AppendTag(b, v1Message, protowire.BytesType)
	b = protowire.AppendString(b, payment.Message)
	b = protowire.AppendTag(b, v1Fee, protowire.BytesType)
	b = protowire.AppendBytes(b, fee)
	b = protowire.AppendTag(b, v1Status, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(payment.Status))
	return b, nil
}

func decodeV1(b []byte) (*entity.Payment, error) {
	payment := &entity.Payment{}
	var hasID, hasFee bool

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case typ == protowire.BytesType && (num == v1ID || num == v1OrderID || num == v1Fee):
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, protowire.ParseError(n))
			}
			b = b[n:]
			v, err := DecodeKey(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: field %d: %v", ErrMalformedEnvelope, num, err)
			}
			switch num {
			case v1ID:
				payment.ID, hasID = v, true
			case v1OrderID:
				payment.OrderID = &v
			case v1Fee:
				payment.Fee, hasFee = v, true
			}
		case typ == protowire.BytesType && (num == v1Shop || num == v1User || num == v1Message):
			s, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, protowire.ParseError(n))
			}
			b = b[n:]
			switch num {
			case v1Shop:
				payment.Shop = s
			case v1User:
				payment.User = s
			case v1Message:
				payment.Message = s
			}
		case typ == protowire.VarintType && num == v1Status:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, protowire.ParseError(n))
			}
			b = b[n:]
			payment.Status = entity.PaymentStatus(v)
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}

	if !hasID || !hasFee {
		return nil, fmt.Errorf("%w: missing id or fee", ErrMalformedEnvelope)
	}
	if !payment.Status.Valid() {
		return nil, fmt.Errorf("%w: status %d", ErrMalformedEnvelope, payment.Status)
	}
	return payment, nil
}
