package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

type ChargeRequest struct {
	Amount      decimal.Decimal
	Currency    string
	CardToken   string
	Description string
	PayerEmail  string
	Reference   string
}

type ChargeResult struct {
	TransactionID string
	Status        string
	Approved      bool
	CardLast4     string
	CardBrand     string
}

type RefundResult struct {
	TransactionID string
	Status        string
}

// Gateway charges and refunds cards through an external provider.
//
//go:generate mockgen -destination=../../mocks/payment_gateway_mock.go -package=mocks . Gateway
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
	// Refund refunds amount of transactionID; full refunds the whole charge.
	Refund(ctx context.Context, transactionID string, amount decimal.Decimal, full bool) (RefundResult, error)
}
