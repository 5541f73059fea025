package dto

type CreateRiderRequest struct {
	Name     string  `json:"name"     validate:"required,min=2"`
	Phone    string  `json:"phone"    validate:"required,min=7"`
	Whatsapp *string `json:"whatsapp" validate:"omitempty,min=7"`
}

type UpdateRiderRequest struct {
	Name     string  `json:"name"     validate:"required,min=2"`
	Phone    string  `json:"phone"    validate:"required,min=7"`
	Whatsapp *string `json:"whatsapp" validate:"omitempty,min=7"`
}

type RiderResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Whatsapp  *string `json:"whatsapp"`
	IsActive  bool    `json:"is_active"`
	CreatedAt string  `json:"created_at"`
}
