package models

// RoleAdmin is the only role the gate recognises; users without it have no role.
const RoleAdmin = "admin"

type User struct {
	ID       string `json:"_id,omitempty" bson:"_id,omitempty" gorm:"primaryKey"`
	Name     string `json:"name" bson:"name"`
	Email    string `json:"email" bson:"email" gorm:"uniqueIndex;not null"`
	PhotoURL string `json:"photoURL,omitempty" bson:"photoURL,omitempty"`
	Role     string `json:"role,omitempty" bson:"role,omitempty"`
}

// IsAdmin reports whether the stored role grants admin access.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
