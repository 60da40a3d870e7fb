package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/kommerce/shop/internal/models"
)

func (r *GormRepo) FindCartByUser(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// SaveCart writes the cart and its full item set in one transaction. The
// item rows are replaced wholesale so removed lines do not linger.
func (r *GormRepo) SaveCart(ctx context.Context, cart *models.Cart) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if cart.ID == 0 {
			return tx.Create(cart).Error
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		items := cart.Items
		cart.Items = nil
		if err := tx.Save(cart).Error; err != nil {
			cart.Items = items
			return err
		}

		for i := range items {
			items[i].ID = 0
			items[i].CartID = cart.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				cart.Items = items
				return err
			}
		}
		cart.Items = items
		return nil
	})
}

func (r *GormRepo) DeleteCartByUser(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&cart).Error
	})
}
