package dto

import "github.com/fekuna/omnipos-sales-service/internal/pagination"

type CategoryFilters struct {
	ParentID *string // Nil means ignore, empty string means root categories
	IsActive *bool
	pagination.Params
}

type CreateCategoryInput struct {
	ParentID    *string
	Name        string
	Description string
	ImageURL    string
	SortOrder   int
}

type UpdateCategoryInput struct {
	ID          string
	ParentID    *string
	Name        string
	Description string
	ImageURL    string
	SortOrder   int
	IsActive    bool
}
