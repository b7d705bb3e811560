package domain

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
)

func ParseOrderStatus(v string) (OrderStatus, bool) {
	switch OrderStatus(v) {
	case OrderPending, OrderPaid, OrderCancelled:
		return OrderStatus(v), true
	}
	return "", false
}

type Order struct {
	ID          int64       `json:"id" gorm:"primaryKey"`
	UserID      int64       `json:"userId" gorm:"index;not null"`
	BookingCode string      `json:"bookingId,omitempty" gorm:"type:varchar(32);index"`
	TotalAmount int64       `json:"totalAmount"`
	Status      OrderStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	Items       []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// OrderItem keeps the consumable name and price as they were when ordered.
type OrderItem struct {
	ID           int64  `json:"id" gorm:"primaryKey"`
	OrderID      int64  `json:"orderId" gorm:"index;not null"`
	ConsumableID int64  `json:"consumableId" gorm:"not null"`
	Name         string `json:"name" gorm:"type:varchar(160)"`
	UnitPrice    int64  `json:"unitPrice"`
	Quantity     int    `json:"quantity"`
	Subtotal     int64  `json:"subtotal"`
}
