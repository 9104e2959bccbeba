package models

type MenuItem struct {
	ID       string  `json:"_id,omitempty" bson:"_id,omitempty" gorm:"primaryKey"`
	Name     string  `json:"name" bson:"name" gorm:"not null"`
	Recipe   string  `json:"recipe" bson:"recipe"` // Description
	Image    string  `json:"image" bson:"image"`
	Category string  `json:"category" bson:"category" gorm:"index"`
	Price    float64 `json:"price" bson:"price"`
}

func (MenuItem) TableName() string { return "menu" }
