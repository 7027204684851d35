package domain

// Status is a registration-status reference entry (code + human description).
// The table is seeded at bootstrap with the lifecycle statuses and is
// editable by admins only.
type Status struct {
	StatusID    string `json:"id" dynamodbav:"status_id"`
	Code        string `json:"code" dynamodbav:"code"`
	Description string `json:"description" dynamodbav:"description"`
}

type StatusInput struct {
	Code        string `json:"code" validate:"required"`
	Description string `json:"description" validate:"required"`
}
