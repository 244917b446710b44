package api

// LoginRequest is the JSON body for POST /users/login/.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the JSON body for POST /users/register/.
type SignupRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	AgreeToTerms    bool   `json:"agreeToTerms"`
}

// ActivationRequest is the JSON body for POST /users/activate/.
type ActivationRequest struct {
	Email          string `json:"email"`
	ActivationCode string `json:"activation_code"`
}

type resendActivationRequest struct {
	Email string `json:"email"`
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

type passwordResetVerifyRequest struct {
	Email     string `json:"email"`
	ResetCode string `json:"reset_code"`
}

// userPayload is the user object embedded in token-bearing responses.
type userPayload struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// tokenEnvelope captures every response shape the backend is known to issue
// for token-bearing calls. Deployments have produced the access token under
// three different keys; normalize collapses them into one canonical grant at
// the network boundary so nothing downstream sees the duck typing.
type tokenEnvelope struct {
	Token        string       `json:"token"`
	AccessToken  string       `json:"access_token"`
	Access       string       `json:"access"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
	User         *userPayload `json:"user"`

	Message        string   `json:"message"`
	Error          string   `json:"error"`
	Detail         string   `json:"detail"`
	NonFieldErrors []string `json:"non_field_errors"`
}

// Equation is a nutrition equation definition (BMI, Mifflin-St Jeor, ...).
type Equation struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// Calculation is a stored equation run with its inputs and result.
type Calculation struct {
	ID        int                `json:"id"`
	Equation  string             `json:"equation"`
	Inputs    map[string]float64 `json:"inputs"`
	Result    float64            `json:"result"`
	CreatedAt string             `json:"created_at"`
}

// DrugCategory groups drugs for the interaction lookup.
type DrugCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Drug is a medication with its nutrition-relevant effects.
type Drug struct {
	ID                      int    `json:"id"`
	Category                int    `json:"category"`
	Name                    string `json:"name"`
	DrugEffect              string `json:"drug_effect"`
	NutritionalImplications string `json:"nutritional_implications"`
}
