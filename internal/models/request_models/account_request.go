package request_models

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SignUpRequest struct {
	Nickname  string `json:"nickname" binding:"required,min=3,max=50"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Age       *int   `json:"age" binding:"omitempty,min=13,max=120"`
	Gender    string `json:"gender" binding:"omitempty,oneof=Male Female Other"`
	Subscribe bool   `json:"subscribe"`
}

// UpdateProfileRequest only touches the fields that are present.
type UpdateProfileRequest struct {
	Nickname  *string `json:"nickname" binding:"omitempty,min=3,max=50"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Age       *int    `json:"age" binding:"omitempty,min=13,max=120"`
	Gender    *string `json:"gender" binding:"omitempty,oneof=Male Female Other"`
	Subscribe *bool   `json:"subscribe"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

type VerifyPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

type ActivateThemeRequest struct {
	ItemID string `json:"item_id" binding:"required"`
}
