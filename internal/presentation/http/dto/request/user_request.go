package request

// CreateUserRequest represents a staff account creation request
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	FullName string `json:"full_name" binding:"required,min=2,max=255"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
}

// UpdateUserRequest represents a staff account update request
type UpdateUserRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,min=2,max=255"`
	Role     *string `json:"role"`
	Active   *bool   `json:"active"`
	Password *string `json:"password" binding:"omitempty,min=8"`
}
