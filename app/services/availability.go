package services

import (
	"time"

	"github.com/Rakhulsr/go-fooddelivery/app/models"
)

const clockLayout = "15:04:05"

type UnavailableReason string

const (
	ReasonOutsideWindow UnavailableReason = "outside_availability_window"
	ReasonOutOfStock    UnavailableReason = "out_of_stock"
)

type UnavailableItem struct {
	VariantID string            `json:"product_variant_id"`
	Name      string            `json:"name"`
	Reason    UnavailableReason `json:"reason"`
	StartTime string            `json:"start_time,omitempty"`
	EndTime   string            `json:"end_time,omitempty"`
}

type AvailabilityReport struct {
	AllAvailable bool              `json:"all_available"`
	AllInStock   bool              `json:"all_in_stock"`
	Items        []UnavailableItem `json:"items,omitempty"`
}

func (r AvailabilityReport) OK() bool {
	return r.AllAvailable && r.AllInStock
}

// withinWindow compares fixed-width HH:MM:SS strings, which orders the same as the clock.
func withinWindow(item models.CartItem, clock string) bool {
	if item.IsAlwaysAvailable() {
		return true
	}
	return item.StartTime <= clock && clock <= item.EndTime
}

func IsAllAvailable(items []models.CartItem, now time.Time) bool {
	if len(items) == 0 {
		return false
	}
	clock := now.Format(clockLayout)
	for _, item := range items {
		if !withinWindow(item, clock) {
			return false
		}
	}
	return true
}

func IsAllInStock(items []models.CartItem) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if item.Stock <= 0 {
			return false
		}
	}
	return true
}

// CheckAvailability lists every offending item so the warning chip can name them.
func CheckAvailability(items []models.CartItem, now time.Time) AvailabilityReport {
	report := AvailabilityReport{
		AllAvailable: IsAllAvailable(items, now),
		AllInStock:   IsAllInStock(items),
	}
	clock := now.Format(clockLayout)
	for _, item := range items {
		if !withinWindow(item, clock) {
			report.Items = append(report.Items, UnavailableItem{
				VariantID: item.VariantID,
				Name:      item.Name,
				Reason:    ReasonOutsideWindow,
				StartTime: item.StartTime,
				EndTime:   item.EndTime,
			})
		}
		if item.Stock <= 0 {
			report.Items = append(report.Items, UnavailableItem{
				VariantID: item.VariantID,
				Name:      item.Name,
				Reason:    ReasonOutOfStock,
			})
		}
	}
	return report
}
