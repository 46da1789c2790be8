package model

type Category struct {
	BaseModel
	ParentID    *string    `db:"parent_id" json:"parentId"` // Nullable
	Name        string     `db:"name" json:"name"`
	Description *string    `db:"description" json:"description"`
	ImageURL    *string    `db:"image_url" json:"imageUrl"`
	SortOrder   int        `db:"sort_order" json:"sortOrder"`
	IsActive    bool       `db:"is_active" json:"isActive"`
	Children    []Category `db:"-" json:"children,omitempty"` // For tree structure, not in DB
}
