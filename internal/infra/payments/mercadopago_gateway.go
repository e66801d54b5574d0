// Package payments implements payment.Gateway on Mercado Pago.
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/refund"
	"github.com/shopspring/decimal"

	domain "github.com/gardenpro/landscape-api/internal/domain/payment"
	"github.com/gardenpro/landscape-api/internal/metrics"
)

const GatewayName = "mercadopago"

var ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
var ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")

type MercadoPagoGateway struct {
	payments payments
	refunds  refund.Client
	mockMode bool
}

// payments is the subset of the SDK payment client used here.
type payments interface {
	Create(ctx context.Context, request mppayment.Request) (*mppayment.Response, error)
}

func NewMercadoPagoGateway(accessToken string) (*MercadoPagoGateway, error) {
	if isPaymentGatewayMockEnabled() {
		log.Printf("[payment][gateway] mock mode enabled")
		return &MercadoPagoGateway{mockMode: true}, nil
	}

	if accessToken == "" {
		log.Printf("[payment][gateway] missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		log.Printf("[payment][gateway] failed creating sdk config err=%v", err)
		return nil, err
	}
	log.Printf("[payment][gateway] Mercado Pago client initialized")

	return &MercadoPagoGateway{
		payments: mppayment.NewClient(cfg),
		refunds:  refund.NewClient(cfg),
	}, nil
}

// providerPayment picks the fields we keep from a payment response.
type providerPayment struct {
	ID              int64  `json:"id"`
	Status          string `json:"status"`
	PaymentMethodID string `json:"payment_method_id"`
	Card            struct {
		LastFourDigits string `json:"last_four_digits"`
	} `json:"card"`
}

type providerRefund struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

func (g *MercadoPagoGateway) Charge(ctx context.Context, in domain.ChargeRequest) (domain.ChargeResult, error) {
	res, err := g.charge(ctx, in)
	metrics.GatewayCalls.WithLabelValues("charge", metrics.Result(err)).Inc()
	return res, err
}

func (g *MercadoPagoGateway) charge(ctx context.Context, in domain.ChargeRequest) (domain.ChargeResult, error) {
	if g != nil && g.mockMode {
		id := strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
		log.Printf("[payment][gateway] mock charge success provider_payment_id=%s amount=%s", id, in.Amount.StringFixed(2))
		return domain.ChargeResult{
			TransactionID: id,
			Status:        "approved",
			Approved:      true,
			CardLast4:     "4242",
			CardBrand:     "visa",
		}, nil
	}

	if g == nil || g.payments == nil {
		log.Printf("[payment][gateway] gateway not configured")
		return domain.ChargeResult{}, ErrMercadoPagoGatewayNotConfigured
	}

	payload, err := chargePayload(in)
	if err != nil {
		return domain.ChargeResult{}, err
	}

	var req mppayment.Request
	if err := json.Unmarshal(payload, &req); err != nil {
		log.Printf("[payment][gateway] payload unmarshal failed err=%v", err)
		return domain.ChargeResult{}, err
	}

	log.Printf("[payment][gateway] charge start reference=%s", in.Reference)
	resp, err := g.payments.Create(ctx, req)
	if err != nil {
		log.Printf("[payment][gateway] sdk create failed err=%v", err)
		return domain.ChargeResult{}, err
	}

	var out providerPayment
	if err := remarshal(resp, &out); err != nil {
		log.Printf("[payment][gateway] response decode failed err=%v", err)
		return domain.ChargeResult{}, err
	}
	log.Printf("[payment][gateway] charge done provider_payment_id=%d provider_status=%s", out.ID, out.Status)

	return domain.ChargeResult{
		TransactionID: strconv.FormatInt(out.ID, 10),
		Status:        out.Status,
		Approved:      out.Status == "approved",
		CardLast4:     out.Card.LastFourDigits,
		CardBrand:     out.PaymentMethodID,
	}, nil
}

func (g *MercadoPagoGateway) Refund(ctx context.Context, transactionID string, amount decimal.Decimal, full bool) (domain.RefundResult, error) {
	res, err := g.refund(ctx, transactionID, amount, full)
	metrics.GatewayCalls.WithLabelValues("refund", metrics.Result(err)).Inc()
	return res, err
}

func (g *MercadoPagoGateway) refund(ctx context.Context, transactionID string, amount decimal.Decimal, full bool) (domain.RefundResult, error) {
	if g != nil && g.mockMode {
		id := strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
		log.Printf("[payment][gateway] mock refund success payment=%s refund=%s", transactionID, id)
		return domain.RefundResult{TransactionID: id, Status: "approved"}, nil
	}

	if g == nil || g.refunds == nil {
		return domain.RefundResult{}, ErrMercadoPagoGatewayNotConfigured
	}

	paymentID, err := strconv.Atoi(transactionID)
	if err != nil {
		return domain.RefundResult{}, fmt.Errorf("invalid provider payment id %q", transactionID)
	}

	var resp any
	if full {
		resp, err = g.refunds.Create(ctx, paymentID)
	} else {
		resp, err = g.refunds.CreatePartialRefund(ctx, paymentID, amount.InexactFloat64())
	}
	if err != nil {
		log.Printf("[payment][gateway] sdk refund failed payment=%d err=%v", paymentID, err)
		return domain.RefundResult{}, err
	}

	var out providerRefund
	if err := remarshal(resp, &out); err != nil {
		return domain.RefundResult{}, err
	}
	log.Printf("[payment][gateway] refund done payment=%d refund=%d status=%s", paymentID, out.ID, out.Status)

	return domain.RefundResult{TransactionID: strconv.FormatInt(out.ID, 10), Status: out.Status}, nil
}

func chargePayload(in domain.ChargeRequest) (json.RawMessage, error) {
	if strings.TrimSpace(in.CardToken) == "" {
		return nil, errors.New("card token is required")
	}
	return json.Marshal(map[string]any{
		"transaction_amount": in.Amount.InexactFloat64(),
		"token":              in.CardToken,
		"description":        in.Description,
		"installments":       1,
		"external_reference": in.Reference,
		"payer": map[string]any{
			"email": in.PayerEmail,
		},
	})
}

func remarshal(from, to any) error {
	b, err := json.Marshal(from)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, to)
}

func isPaymentGatewayMockEnabled() bool {
	for _, key := range []string{"PAYMENT_GATEWAY_MOCK", "MERCADOPAGO_MOCK"} {
		v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		switch v {
		case "1", "true", "yes", "on", "mock":
			return true
		}
	}
	return false
}

var _ domain.Gateway = (*MercadoPagoGateway)(nil)
