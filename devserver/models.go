package devserver

// Request bodies.

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	AgreeToTerms    bool   `json:"agreeToTerms"`
}

type ActivationRequest struct {
	Email          string `json:"email"`
	ActivationCode string `json:"activation_code"`
}

type ResendActivationRequest struct {
	Email string `json:"email"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type PasswordResetVerifyRequest struct {
	Email     string `json:"email"`
	ResetCode string `json:"reset_code"`
}

// Response bodies. The hosted API grew organically and names the token
// field differently per endpoint; the dev server reproduces that so
// clients exercise the same normalization paths.

type UserPayload struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

type LoginResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
	User         UserPayload `json:"user"`
}

type ActivationResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         UserPayload `json:"user"`
}

type RefreshResponse struct {
	Access    string `json:"access"`
	ExpiresIn int    `json:"expires_in"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type CredentialErrorResponse struct {
	NonFieldErrors []string `json:"non_field_errors"`
}

// Nutrition reference data.

type Equation struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type Calculation struct {
	ID        int                `json:"id"`
	Equation  string             `json:"equation"`
	Inputs    map[string]float64 `json:"inputs"`
	Result    float64            `json:"result"`
	CreatedAt string             `json:"created_at"`
}

type DrugCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Drug struct {
	ID                      int    `json:"id"`
	Category                int    `json:"category"`
	Name                    string `json:"name"`
	DrugEffect              string `json:"drug_effect"`
	NutritionalImplications string `json:"nutritional_implications"`
}
