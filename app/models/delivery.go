package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type DeliveryMode string

const (
	DeliveryModeDelivery   DeliveryMode = "Delivery"
	DeliveryModeSelfPickup DeliveryMode = "Self-Pickup"
)

func ParseDeliveryMode(s string) (DeliveryMode, error) {
	switch DeliveryMode(s) {
	case DeliveryModeDelivery:
		return DeliveryModeDelivery, nil
	case DeliveryModeSelfPickup:
		return DeliveryModeSelfPickup, nil
	}
	return "", fmt.Errorf("unknown delivery mode %q", s)
}

type DeliveryAddress struct {
	ID      string `json:"id"`
	Label   string `json:"label,omitempty"`
	Address string `json:"address,omitempty"`
	CityID  string `json:"city_id,omitempty"`
}

type DeliveryContext struct {
	Mode           DeliveryMode     `json:"mode"`
	Address        *DeliveryAddress `json:"address"`
	DeliveryCharge decimal.Decimal  `json:"delivery_charge"`
	IsFreeDelivery bool             `json:"is_free_delivery"`
	Tip            decimal.Decimal  `json:"tip"`
}

func (d DeliveryContext) IsDelivery() bool {
	return d.Mode == DeliveryModeDelivery
}
