package handler

// registerRequest is the payload for POST /users/register.
type registerRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Email       string `json:"email" validate:"required,email,max=100"`
	Password    string `json:"password" validate:"required,min=8"`
	FirstName   string `json:"first_name" validate:"required,max=50"`
	LastName    string `json:"last_name" validate:"required,max=50"`
	CompanyName string `json:"company_name" validate:"max=100"`
	PhoneNumber string `json:"phone_number" validate:"max=20"`
	UserType    string `json:"user_type" validate:"omitempty,oneof=INTERNAL EXTERNAL internal external"`
}

// loginRequest is the payload for POST /users/login. The identifier is
// resolved as username first, then email.
type loginRequest struct {
	UsernameOrEmail string `json:"username_or_email" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

// updateUserRequest is the payload for PUT /users/:id. Password is
// optional; when present the credential is replaced.
type updateUserRequest struct {
	Email       string `json:"email" validate:"required,email,max=100"`
	Password    string `json:"password" validate:"omitempty,min=8"`
	FirstName   string `json:"first_name" validate:"required,max=50"`
	LastName    string `json:"last_name" validate:"required,max=50"`
	CompanyName string `json:"company_name" validate:"max=100"`
	PhoneNumber string `json:"phone_number" validate:"max=20"`
	UserType    string `json:"user_type" validate:"omitempty,oneof=INTERNAL EXTERNAL internal external"`
}
