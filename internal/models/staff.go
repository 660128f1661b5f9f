package models

import "github.com/google/uuid"

// Staff represents a bakery staff member on the roster.
type Staff struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Role  string `json:"role" validate:"required"`
	Shift string `json:"shift" validate:"required"`
}

// NewStaff builds a validated staff member with a fresh id.
func NewStaff(name, role, shift string) (*Staff, error) {
	s := &Staff{
		ID:    uuid.NewString(),
		Name:  name,
		Role:  role,
		Shift: shift,
	}
	if err := checkStruct(s); err != nil {
		return nil, err
	}
	return s, nil
}
