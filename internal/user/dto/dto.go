package dto

type CreateUserInput struct {
	Name     string
	Username string
	Role     string
}
