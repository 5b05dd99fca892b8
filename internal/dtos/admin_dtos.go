package dtos

type CreateAdminRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type CreateAgentRequest struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,min=7,max=15"`
	City  string `json:"city" validate:"required"`
}

type CreateVendorRequest struct {
	Name        string  `json:"name" validate:"required,min=2"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       string  `json:"phone" validate:"required,min=7,max=15"`
	City        string  `json:"city" validate:"required"`
	CompanyName string  `json:"companyName" validate:"required"`
	ServiceIDs  []int64 `json:"serviceIds" validate:"required,min=1,dive,gt=0"`
}

type UpdateAgentRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,min=7,max=15"`
	City  *string `json:"city,omitempty" validate:"omitempty,min=1"`
}

type UpdateVendorRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,min=7,max=15"`
	City        *string `json:"city,omitempty" validate:"omitempty,min=1"`
	CompanyName *string `json:"companyName,omitempty" validate:"omitempty,min=1"`
	ServiceIDs  []int64 `json:"serviceIds,omitempty" validate:"omitempty,min=1,dive,gt=0"`
}

type UpdateVendorServicesRequest struct {
	ServiceIDs []int64 `json:"serviceIds" validate:"required,min=1,dive,gt=0"`
}

type CreateServiceRequest struct {
	Type        string `json:"type" validate:"required,min=2"`
	Description string `json:"description" validate:"required"`
}

type UpdateServiceRequest struct {
	Type        string `json:"type" validate:"required,min=2"`
	Description string `json:"description" validate:"required"`
}

type UpdatePropertyStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
