package domain

// Operator roles the dashboard backend encodes in its service tokens.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)
