package dto

type UpdateAccountRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
	Name  string `json:"name" validate:"omitempty,max=255"`
}

type AvatarResponse struct {
	Avatar string `json:"avatar"`
}
