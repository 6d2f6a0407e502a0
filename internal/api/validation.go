package api

import "fmt"

// Validate checks that LoginRequest has all required fields.
func (r *LoginRequest) Validate() error {
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// Validate checks that GroupCreateRequest has all required fields.
func (r *GroupCreateRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// Validate checks that ExpenseCreateRequest has all required fields.
func (r *ExpenseCreateRequest) Validate() error {
	if r.Description == "" {
		return fmt.Errorf("description is required")
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}
	return nil
}
