package model

type User struct {
	BaseModel
	Name     string `db:"name" json:"name"`
	Username string `db:"username" json:"username"`
	Role     string `db:"role" json:"role"`
	IsActive bool   `db:"is_active" json:"isActive"`
}
