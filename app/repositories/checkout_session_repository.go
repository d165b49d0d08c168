package repositories

import (
	"context"
	"errors"

	"github.com/Rakhulsr/go-fooddelivery/app/models"
	"gorm.io/gorm"
)

type CheckoutSessionRepository interface {
	FindByID(ctx context.Context, id string) (*models.CheckoutSession, error)
	Save(ctx context.Context, session *models.CheckoutSession) error
	Delete(ctx context.Context, id string) error
}

type gormCheckoutSessionRepository struct {
	db *gorm.DB
}

func NewCheckoutSessionRepository(db *gorm.DB) CheckoutSessionRepository {
	return &gormCheckoutSessionRepository{db: db}
}

func (r *gormCheckoutSessionRepository) FindByID(ctx context.Context, id string) (*models.CheckoutSession, error) {
	var session models.CheckoutSession
	err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// Save inserts or fully overwrites the snapshot keyed by its ID.
func (r *gormCheckoutSessionRepository) Save(ctx context.Context, session *models.CheckoutSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *gormCheckoutSessionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CheckoutSession{}).Error
}
