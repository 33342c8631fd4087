package request

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	Name     string  `json:"name" binding:"required,min=2,max=255"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Address  *string `json:"address"`
	AsMember bool    `json:"as_member"`
}

// UpdateCustomerRequest represents a customer update request. Loyalty
// fields are not editable through this endpoint.
type UpdateCustomerRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=2,max=255"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Address *string `json:"address"`
	Active  *bool   `json:"active"`
}
