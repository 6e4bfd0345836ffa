package dto

// UserResponse login account without secrets
type UserResponse struct {
	ID           string  `json:"id"`
	Username     string  `json:"username"`
	Role         string  `json:"role"`
	OperatorID   *string `json:"operator_id,omitempty"`
	OperatorName string  `json:"operator_name,omitempty"`
}
