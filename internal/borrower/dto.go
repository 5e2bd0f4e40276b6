package borrower

// CreateBorrowerRequest represents the request to register a borrower
type CreateBorrowerRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
}

// UpdateBorrowerRequest represents the request to edit a borrower
type UpdateBorrowerRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
}
