package api

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"displayName"`
	MonthlyLimit float64    `json:"monthlyLimit"`
	Currency     string     `json:"currency"`
	CreatedAt    *Timestamp `json:"createdAt"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// UpdatePreferencesRequest changes the caller's profile. Unset fields keep
// their current value.
type UpdatePreferencesRequest struct {
	DisplayName  *string  `json:"displayName,omitempty"`
	MonthlyLimit *float64 `json:"monthlyLimit,omitempty"`
	Currency     *string  `json:"currency,omitempty"`
}

type UpdatePreferencesResponse struct {
	User *User `json:"user"`
}
