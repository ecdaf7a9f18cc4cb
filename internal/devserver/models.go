package devserver

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
	Blocked      bool   `gorm:"default:false"            json:"blocked"`
}

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null"                 json:"name"`
	Description string  `gorm:"not null"                 json:"description"`
	Price       float64 `gorm:"not null"                 json:"price"`
	Image       string  `json:"image"`
	Category    string  `gorm:"index"                    json:"category"`
	Stock       uint    `json:"stock"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	JTI       string `gorm:"index"           json:"jti"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                 json:"id"`
	UserID    uint `gorm:"index;not null"             json:"user_id"`
	ProductID uint `gorm:"not null"                   json:"product_id"`
	Quantity  uint `gorm:"default:1;check:quantity>0" json:"quantity"`
}

// WishlistItem is a set membership per (user, product); duplicates are
// rejected at the handler before the unique index ever fires.
type WishlistItem struct {
	ID        uint `gorm:"primaryKey"                            json:"id"`
	UserID    uint `gorm:"index:idx_wish_user_product,unique"    json:"user_id"`
	ProductID uint `gorm:"index:idx_wish_user_product,unique"    json:"product_id"`
}

type Order struct {
	ID              uint      `gorm:"primaryKey"     json:"id"`
	UserID          uint      `gorm:"index;not null" json:"user_id"`
	Status          string    `gorm:"not null"       json:"status"`
	PaymentStatus   string    `gorm:"not null"       json:"payment_status"`
	TotalAmount     float64   `gorm:"not null"       json:"total_amount"`
	RazorpayOrderID string    `gorm:"index"          json:"razorpay_order_id"`
	CreatedAt       time.Time `json:"created_at"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey"     json:"id"`
	OrderID   uint    `gorm:"index;not null" json:"order_id"`
	UserID    uint    `gorm:"index;not null" json:"user_id"`
	ProductID uint    `gorm:"not null"       json:"product_id"`
	Quantity  uint    `gorm:"not null"       json:"quantity"`
	Price     float64 `gorm:"not null"       json:"price"`
}

// PasswordReset holds one OTP for the forgot-password flow.
type PasswordReset struct {
	ID        uint   `gorm:"primaryKey"     json:"id"`
	Email     string `gorm:"index;not null" json:"email"`
	OTP       string `gorm:"not null"       json:"-"`
	ExpiresAt int64  `gorm:"not null"       json:"expires_at"`
	Used      bool   `gorm:"default:false"  json:"used"`
}
