package models

// Counts are approximate collection sizes for the admin dashboard.
type Counts struct {
	Users     int64
	MenuItems int64
	Payments  int64
}

type AdminStats struct {
	Users     int64   `json:"users"`
	MenuItems int64   `json:"menuItems"`
	Orders    int64   `json:"orders"`
	Revenue   float64 `json:"revenue"`
}

// CategoryStats is one row of the per-category order breakdown.
type CategoryStats struct {
	Category string  `json:"category" bson:"category"`
	Count    int64   `json:"count" bson:"count"`
	Total    float64 `json:"total" bson:"total"`
}
