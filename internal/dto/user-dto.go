package dto

type UserResponse struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Username     *string `json:"username,omitempty"`
	FullName     string  `json:"full_name"`
	Role         string  `json:"role"`
	IsActive     bool    `json:"is_active"`
	IsVerified   bool    `json:"is_verified"`
	AuthProvider string  `json:"auth_provider"`
	AvatarURL    *string `json:"avatar_url,omitempty"`
	Bio          *string `json:"bio,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// UpdateUserRequest is a field-level PATCH; nil fields are left untouched.
type UpdateUserRequest struct {
	Email     *string `json:"email,omitempty"`
	Username  *string `json:"username,omitempty"`
	FullName  *string `json:"full_name,omitempty"`
	Password  *string `json:"password,omitempty"`
	Role      *string `json:"role,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

// CreateUserByAdminRequest pre-provisions a federated account that will later
// sign in through Google.
type CreateUserByAdminRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role,omitempty"`
}

type ListUsersQuery struct {
	Skip     int     `query:"skip"`
	Limit    int     `query:"limit"`
	Role     *string `query:"role"`
	IsActive *bool   `query:"is_active"`
	Search   *string `query:"search"`
}
