package models

// CartItem is one menu item placed in a user's cart. Name, image and price are
// copied from the menu so the cart renders without a join.
type CartItem struct {
	ID         string  `json:"_id,omitempty" bson:"_id,omitempty" gorm:"primaryKey"`
	MenuItemID string  `json:"menuItemId" bson:"menuItemId"`
	Email      string  `json:"email" bson:"email" gorm:"index"`
	Name       string  `json:"name" bson:"name"`
	Image      string  `json:"image" bson:"image"`
	Price      float64 `json:"price" bson:"price"`
}
