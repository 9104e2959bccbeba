package models

type Review struct {
	ID      string  `json:"_id,omitempty" bson:"_id,omitempty" gorm:"primaryKey"`
	Name    string  `json:"name" bson:"name"`
	Details string  `json:"details" bson:"details"`
	Rating  float64 `json:"rating" bson:"rating"`
}
