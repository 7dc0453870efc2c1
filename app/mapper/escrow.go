package mapper

import (
	"time"

	"github.com/vibast-solutions/ms-go-escrow/app/entity"
	"github.com/vibast-solutions/ms-go-escrow/app/types"
)

func PaymentToProto(item *entity.Payment) *types.Payment {
	if item == nil {
		return nil
	}

	out := &types.Payment{
		Id:      item.ID.String(),
		Shop:    item.Shop,
		User:    item.User,
		Message: item.Message,
		Fee:     item.Fee.String(),
		Status:  item.Status.String(),
	}
	if item.OrderID != nil {
		out.OrderId = item.OrderID.String()
	}
	if !item.CreatedAt.IsZero() {
		out.CreatedAt = item.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !item.UpdatedAt.IsZero() {
		out.UpdatedAt = item.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func PaymentsToProto(items []*entity.Payment) []*types.Payment {
	out := make([]*types.Payment, 0, len(items))
	for _, item := range items {
		out = append(out, PaymentToProto(item))
	}
	return out
}

func MediatorToProto(item *entity.Mediator) *types.Mediator {
	if item == nil {
		return nil
	}

	return &types.Mediator{
		Owner:             item.Owner,
		LastPaymentId:     item.LastPaymentID.String(),
		FeeRate:           item.FeeRate.String(),
		FeeRateScale:      entity.FeeRateScale,
		FeeAccruedTotal:   item.FeeAccruedTotal.String(),
		FeeWithdrawnTotal: item.FeeWithdrawnTotal.String(),
		PendingFees:       item.PendingFees().String(),
	}
}

func TransfersToProto(items []*entity.Transfer) []*types.Transfer {
	out := make([]*types.Transfer, 0, len(items))
	for _, item := range items {
		t := &types.Transfer{
			Id:       item.ID,
			Kind:     item.Kind.String(),
			Receiver: item.Receiver,
			Amount:   item.Amount.String(),
			Status:   item.Status.String(),
		}
		if item.PaymentID != nil {
			t.PaymentId = item.PaymentID.String()
		}
		out = append(out, t)
	}
	return out
}

func PaymentEventsToProto(items []*entity.PaymentEvent) []*types.PaymentEvent {
	out := make([]*types.PaymentEvent, 0, len(items))
	for _, item := range items {
		e := &types.PaymentEvent{
			Id:        item.ID,
			EventType: item.EventType,
			Caller:    item.Caller,
		}
		if item.PaymentID != nil {
			e.PaymentId = item.PaymentID.String()
		}
		if item.OldStatus != nil {
			e.OldStatus = item.OldStatus.String()
		}
		if item.NewStatus != entity.PaymentStatusUnspecified {
			e.NewStatus = item.NewStatus.String()
		}
		if item.PayloadJSON != nil {
			e.Payload = *item.PayloadJSON
		}
		if !item.CreatedAt.IsZero() {
			e.CreatedAt = item.CreatedAt.UTC().Format(time.RFC3339)
		}
		out = append(out, e)
	}
	return out
}
