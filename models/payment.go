package models

import "time"

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending" // Recorded, not yet fulfilled
)

// Payment is written once per checkout and never changed afterwards.
type Payment struct {
	ID            string        `json:"_id,omitempty" bson:"_id,omitempty" gorm:"primaryKey"`
	Email         string        `json:"email" bson:"email" gorm:"index;not null"`
	Price         float64       `json:"price" bson:"price"`
	TransactionID string        `json:"transactionId" bson:"transactionId"`
	Date          time.Time     `json:"date" bson:"date"`
	CartIDs       []string      `json:"cartIds" bson:"cartIds" gorm:"serializer:json"`
	MenuItemIDs   []string      `json:"menuItemIds" bson:"menuItemIds" gorm:"serializer:json"`
	Status        PaymentStatus `json:"status" bson:"status" gorm:"type:VARCHAR(20);default:'pending'"`
}
