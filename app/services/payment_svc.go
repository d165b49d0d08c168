package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rakhulsr/go-fooddelivery/app/models"
	"github.com/Rakhulsr/go-fooddelivery/app/utils/calc"
	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const midtransNameLimit = 50

type OnlinePaymentInput struct {
	OrderCode      string
	Amount         decimal.Decimal
	Items          []models.CartItem
	TaxAmount      decimal.Decimal
	PromoDiscount  decimal.Decimal
	DeliveryCharge decimal.Decimal
	Tip            decimal.Decimal
	Mobile         string
	Customer       *models.UserSettings
}

type PaymentGateway interface {
	CreatePayment(ctx context.Context, in OnlinePaymentInput) (*models.PendingPayment, error)
	IsSettled(ctx context.Context, orderCode string) (bool, error)
}

type midtransGateway struct {
	snapClient *snap.Client
	coreClient *coreapi.Client
	finishURL  string
}

// NewMidtransGateway returns nil when midtrans is not configured.
func NewMidtransGateway(snapClient *snap.Client, coreClient *coreapi.Client, appURL string) PaymentGateway {
	if snapClient == nil || coreClient == nil {
		return nil
	}
	return &midtransGateway{
		snapClient: snapClient,
		coreClient: coreClient,
		finishURL:  appURL + "/checkout/finish",
	}
}

func truncateName(name string) string {
	if len(name) > midtransNameLimit {
		return name[:midtransNameLimit]
	}
	return name
}

// midtransItems mirrors the payable breakdown; a final adjustment row absorbs rounding
// so the item sum always equals the gross amount.
func midtransItems(in OnlinePaymentInput) []midtrans.ItemDetails {
	var items []midtrans.ItemDetails
	for _, it := range in.Items {
		if it.Qty <= 0 {
			continue
		}
		unit := calc.LineTotal(it).Div(decimal.NewFromInt(int64(it.Qty)))
		items = append(items, midtrans.ItemDetails{
			ID:    it.VariantID,
			Name:  truncateName(it.Name),
			Price: unit.Round(0).IntPart(),
			Qty:   int32(it.Qty),
		})
	}
	extras := []struct {
		id, name string
		amount   decimal.Decimal
	}{
		{"TAX", "Tax", in.TaxAmount},
		{"PROMO", "Promo discount", in.PromoDiscount.Neg()},
		{"DELIVERY_FEE", "Delivery charge", in.DeliveryCharge},
		{"DELIVERY_TIP", "Delivery tip", in.Tip},
	}
	for _, e := range extras {
		if e.amount.IsZero() {
			continue
		}
		items = append(items, midtrans.ItemDetails{ID: e.id, Name: e.name, Price: e.amount.Round(0).IntPart(), Qty: 1})
	}

	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromInt(it.Price).Mul(decimal.NewFromInt32(it.Qty)))
	}
	if diff := in.Amount.Round(0).Sub(sum); !diff.IsZero() {
		items = append(items, midtrans.ItemDetails{ID: "ADJUSTMENT", Name: "Price adjustment", Price: diff.IntPart(), Qty: 1})
	}
	return items
}

func (g *midtransGateway) CreatePayment(ctx context.Context, in OnlinePaymentInput) (*models.PendingPayment, error) {
	items := midtransItems(in)
	cust := &midtrans.CustomerDetails{Phone: in.Mobile}
	if in.Customer != nil {
		cust.FName = in.Customer.Username
		cust.Email = in.Customer.Email
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  in.OrderCode,
			GrossAmt: in.Amount.Round(0).IntPart(),
		},
		Items:           &items,
		CustomerDetail:  cust,
		EnabledPayments: snap.AllSnapPaymentType,
		Callbacks: &snap.Callbacks{
			Finish: g.finishURL + "?order_code=" + in.OrderCode,
		},
	}

	resp, mErr := g.snapClient.CreateTransaction(req)
	if mErr != nil {
		return nil, fmt.Errorf("failed to create midtrans transaction: %w", mErr)
	}
	if resp == nil || resp.Token == "" || resp.RedirectURL == "" {
		return nil, errors.New("midtrans returned an empty snap response")
	}

	log.Info().Str("order_code", in.OrderCode).Msg("midtrans snap transaction created")
	return &models.PendingPayment{
		OrderCode:   in.OrderCode,
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
		Amount:      in.Amount,
	}, nil
}

func (g *midtransGateway) IsSettled(ctx context.Context, orderCode string) (bool, error) {
	status, mErr := g.coreClient.CheckTransaction(orderCode)
	if mErr != nil {
		return false, fmt.Errorf("failed to check midtrans transaction %s: %w", orderCode, mErr)
	}
	if status == nil {
		return false, errors.New("midtrans returned an empty transaction status")
	}
	return isSettledStatus(status.TransactionStatus, status.FraudStatus), nil
}

func isSettledStatus(transactionStatus, fraudStatus string) bool {
	switch transactionStatus {
	case "settlement":
		return fraudStatus == "" || fraudStatus == "accept"
	case "capture":
		return fraudStatus == "accept"
	}
	return false
}

// PaymentService decides whether a payment method can settle the current payable.
type PaymentService struct {
	gateway PaymentGateway
}

func NewPaymentService(gateway PaymentGateway) *PaymentService {
	return &PaymentService{gateway: gateway}
}

func (s *PaymentService) OnlineEnabled() bool {
	return s.gateway != nil
}

// CheckMethod must be called with st locked.
func (s *PaymentService) CheckMethod(st *AppState, method models.PaymentMethod) error {
	switch method {
	case models.PaymentMethodCOD:
		return nil
	case models.PaymentMethodWallet:
		if st.Settings == nil {
			return validationError("wallet balance unknown, please retry")
		}
		if st.Settings.WalletBalance.LessThan(st.TotalPayable) {
			return validationError("insufficient wallet balance")
		}
		return nil
	case models.PaymentMethodMidtrans:
		if !s.OnlineEnabled() {
			return &CheckoutError{Kind: KindValidation, Message: "online payment is not available", Cause: ErrPaymentNotReady}
		}
		if st.Pending == nil {
			return validationError("online payment has not been started")
		}
		if !st.Pending.Amount.Equal(st.TotalPayable) {
			return validationError("order total changed since the payment was started, please pay again")
		}
		return nil
	}
	return validationError(fmt.Sprintf("unknown payment method %q", method))
}

// Open must be called with st locked.
func (s *PaymentService) Open(ctx context.Context, st *AppState) (*models.PendingPayment, error) {
	if !s.OnlineEnabled() {
		return nil, &CheckoutError{Kind: KindValidation, Message: "online payment is not available", Cause: ErrPaymentNotReady}
	}
	if !st.TotalPayable.IsPositive() {
		return nil, validationError("nothing to pay online")
	}

	in := OnlinePaymentInput{
		OrderCode:     "FD-" + uuid.NewString(),
		Amount:        st.TotalPayable,
		Items:         st.Cart.CartItems,
		TaxAmount:     st.Cart.TaxAmount,
		PromoDiscount: st.Checkout.PromoDiscount(),
		Mobile:        st.Checkout.Contact.Mobile,
		Customer:      st.Settings,
	}
	if st.Checkout.Delivery.IsDelivery() {
		in.Tip = st.Checkout.Delivery.Tip
		if !st.Checkout.Delivery.IsFreeDelivery {
			in.DeliveryCharge = st.Checkout.Delivery.DeliveryCharge
		}
	}

	pending, err := s.gateway.CreatePayment(ctx, in)
	if err != nil {
		return nil, remoteError("could not start online payment", err)
	}
	st.Pending = pending
	return pending, nil
}

// Confirm returns the transaction id to hand to the backend once the payment settled.
func (s *PaymentService) Confirm(ctx context.Context, st *AppState) (string, error) {
	if st.Pending == nil {
		return "", validationError("online payment has not been started")
	}
	settled, err := s.gateway.IsSettled(ctx, st.Pending.OrderCode)
	if err != nil {
		return "", remoteError("could not verify online payment", err)
	}
	if !settled {
		return "", validationError("online payment is not completed yet")
	}
	return st.Pending.OrderCode, nil
}
