package domain

// Account roles carried in JWT claims and checked by route middleware.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
