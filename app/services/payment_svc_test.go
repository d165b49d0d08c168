package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Rakhulsr/go-fooddelivery/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	created   []OnlinePaymentInput
	settled   bool
	createErr error
	checkErr  error
}

func (g *fakeGateway) CreatePayment(_ context.Context, in OnlinePaymentInput) (*models.PendingPayment, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.created = append(g.created, in)
	return &models.PendingPayment{OrderCode: in.OrderCode, Token: "snap-token", RedirectURL: "https://pay/" + in.OrderCode, Amount: in.Amount}, nil
}

func (g *fakeGateway) IsSettled(context.Context, string) (bool, error) {
	return g.settled, g.checkErr
}

func paymentState(total int64) *AppState {
	st := NewAppState("s1")
	st.Cart = &models.Cart{
		CartItems: []models.CartItem{{VariantID: "v1", Name: "Sate", Qty: 2, Price: decimal.NewFromInt(45), Stock: 5}},
		SubTotal:  decimal.NewFromInt(90),
		TaxAmount: decimal.NewFromInt(10),
	}
	st.TotalPayable = decimal.NewFromInt(total)
	return st
}

func TestCheckMethodWallet(t *testing.T) {
	svc := NewPaymentService(nil)
	st := paymentState(100)

	err := svc.CheckMethod(st, models.PaymentMethodWallet)
	assert.True(t, IsKind(err, KindValidation))

	st.Settings = &models.UserSettings{WalletBalance: decimal.NewFromInt(99)}
	err = svc.CheckMethod(st, models.PaymentMethodWallet)
	assert.True(t, IsKind(err, KindValidation))

	st.Settings.WalletBalance = decimal.NewFromInt(100)
	assert.NoError(t, svc.CheckMethod(st, models.PaymentMethodWallet))
	assert.NoError(t, svc.CheckMethod(st, models.PaymentMethodCOD))
	assert.True(t, IsKind(svc.CheckMethod(st, "bitcoin"), KindValidation))
}

func TestCheckMethodMidtransDisabled(t *testing.T) {
	svc := NewPaymentService(nil)
	err := svc.CheckMethod(paymentState(100), models.PaymentMethodMidtrans)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPaymentNotReady)
}

func TestOpenAndConfirmOnlinePayment(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewPaymentService(gw)
	st := paymentState(100)

	pending, err := svc.Open(context.Background(), st)
	require.NoError(t, err)
	assert.Same(t, pending, st.Pending)
	assert.True(t, pending.Amount.Equal(decimal.NewFromInt(100)))
	require.Len(t, gw.created, 1)
	assert.True(t, gw.created[0].DeliveryCharge.IsZero())
	assert.NoError(t, svc.CheckMethod(st, models.PaymentMethodMidtrans))

	_, err = svc.Confirm(context.Background(), st)
	assert.True(t, IsKind(err, KindValidation))

	gw.settled = true
	txID, err := svc.Confirm(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, pending.OrderCode, txID)

	st.TotalPayable = decimal.NewFromInt(120)
	assert.True(t, IsKind(svc.CheckMethod(st, models.PaymentMethodMidtrans), KindValidation))
}

func TestOpenOnlinePaymentGatewayFailure(t *testing.T) {
	svc := NewPaymentService(&fakeGateway{createErr: errors.New("timeout")})
	st := paymentState(100)

	_, err := svc.Open(context.Background(), st)
	assert.True(t, IsKind(err, KindRemote))
	assert.Nil(t, st.Pending)
}

func TestMidtransItemsMatchGrossAmount(t *testing.T) {
	in := OnlinePaymentInput{
		OrderCode: "FD-1",
		Amount:    decimal.RequireFromString("118.40"),
		Items: []models.CartItem{
			{VariantID: "v1", Name: "Nasi Goreng Spesial Dengan Telur Mata Sapi Dan Kerupuk Udang", Qty: 3, Price: decimal.RequireFromString("33.33")},
		},
		TaxAmount:      decimal.NewFromInt(10),
		PromoDiscount:  decimal.NewFromInt(5),
		DeliveryCharge: decimal.NewFromInt(12),
		Tip:            decimal.NewFromInt(2),
	}

	items := midtransItems(in)
	sum := decimal.Zero
	for _, it := range items {
		assert.LessOrEqual(t, len(it.Name), midtransNameLimit)
		sum = sum.Add(decimal.NewFromInt(it.Price).Mul(decimal.NewFromInt32(it.Qty)))
	}
	assert.True(t, sum.Equal(in.Amount.Round(0)), "sum %s", sum)
}

func TestIsSettledStatus(t *testing.T) {
	assert.True(t, isSettledStatus("settlement", ""))
	assert.True(t, isSettledStatus("capture", "accept"))
	assert.False(t, isSettledStatus("capture", "challenge"))
	assert.False(t, isSettledStatus("pending", ""))
	assert.False(t, isSettledStatus("expire", ""))
}
