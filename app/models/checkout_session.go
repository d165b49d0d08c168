package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CheckoutSession is the persisted snapshot of one browser session's checkout.
type CheckoutSession struct {
	ID             string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Step           int             `gorm:"not null;default:1" json:"step"`
	DeliveryMode   string          `gorm:"size:20;not null;default:'Delivery'" json:"delivery_mode"`
	AddressID      string          `gorm:"size:64" json:"address_id"`
	AddressLabel   string          `gorm:"type:text" json:"address_label"`
	DeliveryCharge decimal.Decimal `gorm:"type:decimal(16,2);" json:"delivery_charge"`
	IsFreeDelivery bool            `gorm:"default:false" json:"is_free_delivery"`
	Tip            decimal.Decimal `gorm:"type:decimal(16,2);" json:"tip"`
	PromoCode      string          `gorm:"size:100" json:"promo_code"`
	PromoDiscount  decimal.Decimal `gorm:"type:decimal(16,2);" json:"promo_discount"`
	Mobile         string          `gorm:"size:20" json:"mobile"`
	OrderNote      string          `gorm:"type:text" json:"order_note"`
	OrderID        string          `gorm:"size:64" json:"order_id"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (cs *CheckoutSession) BeforeCreate(tx *gorm.DB) (err error) {
	if cs.ID == "" {
		cs.ID = uuid.New().String()
	}
	return
}
