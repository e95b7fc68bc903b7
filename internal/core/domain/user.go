package domain

// User represents a platform user. Authentication happens at the HTTP
// boundary; services only ever see the already-resolved user ID.
type User struct {
	UserID           string  `json:"userID" db:"user_id"`
	Name             string  `json:"name" db:"name"`
	Email            string  `json:"email" db:"email"`
	PasswordHash     string  `json:"-" db:"password_hash"`
	RefreshTokenHash *string `json:"-" db:"refresh_token_hash"`
	IsPlatformAdmin  bool    `json:"isPlatformAdmin" db:"is_platform_admin"`
	AuditFields
}
