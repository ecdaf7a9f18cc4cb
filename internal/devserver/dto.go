package devserver

import (
	"errors"
	"time"

	"github.com/oleastore/storefront/internal/api"
	"gorm.io/gorm"
)

// The devserver answers with the same JSON shapes the client decodes, so
// the contract is pinned by one set of types.

func productDTO(p Product) api.Product {
	return api.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
		Stock:       p.Stock,
	}
}

func userDTO(u User) api.User {
	return api.User{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

// loadProduct resolves a product reference, tolerating rows whose product
// has since been deleted.
func loadProduct(db *gorm.DB, id uint) (api.Product, error) {
	var p Product
	if err := db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return api.Product{ID: id}, nil
		}
		return api.Product{}, err
	}
	return productDTO(p), nil
}

func cartItemDTO(db *gorm.DB, item CartItem) (api.CartItem, error) {
	p, err := loadProduct(db, item.ProductID)
	if err != nil {
		return api.CartItem{}, err
	}
	return api.CartItem{ID: item.ID, Product: p, Quantity: item.Quantity}, nil
}

func wishlistItemDTO(db *gorm.DB, item WishlistItem) (api.WishlistItem, error) {
	p, err := loadProduct(db, item.ProductID)
	if err != nil {
		return api.WishlistItem{}, err
	}
	return api.WishlistItem{ID: item.ID, Product: p}, nil
}

func orderDTO(db *gorm.DB, order Order) (api.Order, error) {
	var rows []OrderItem
	if err := db.Where("order_id = ?", order.ID).Find(&rows).Error; err != nil {
		return api.Order{}, err
	}
	items := make([]api.OrderItem, 0, len(rows))
	for _, row := range rows {
		p, err := loadProduct(db, row.ProductID)
		if err != nil {
			return api.Order{}, err
		}
		items = append(items, api.OrderItem{
			ID:       row.ID,
			Product:  p,
			Quantity: row.Quantity,
			Price:    row.Price,
		})
	}
	return api.Order{
		OrderID:       order.ID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		Items:         items,
		TotalAmount:   order.TotalAmount,
		CreatedAt:     order.CreatedAt.Format(time.RFC3339),
	}, nil
}
