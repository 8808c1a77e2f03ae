package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"

	"github.com/neonwriters/backend/internal/registry"
)

// AuthHandler exposes the user registry over HTTP. The store-backed
// session semantics live in the registry; the token minted here only
// guards the API surface.
type AuthHandler struct {
	registry *registry.Registry
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(reg *registry.Registry) *AuthHandler {
	return &AuthHandler{registry: reg}
}

// RegisterRequest mirrors the registration payload the pages submit.
type RegisterRequest struct {
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Password    string  `json:"password"`
	Balance     float64 `json:"balance"`
	Subscribed  *bool   `json:"subscribed"`
	PaymentMade *bool   `json:"paymentMade"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the registry result plus the API token.
type AuthResponse struct {
	Success      bool           `json:"success"`
	Message      string         `json:"message"`
	User         *registry.User `json:"user,omitempty"`
	Token        string         `json:"token,omitempty"`
	UserNotFound bool           `json:"userNotFound,omitempty"`
}

// Register creates a new user account
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} AuthResponse
// @Failure 400 {object} AuthResponse
// @Failure 409 {object} AuthResponse
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log.Printf("[Auth] Registration attempt from IP: %s", r.RemoteAddr)

	var req RegisterRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		log.Printf("[Auth] Registration failed - invalid request: %v", err)
		SendErrorResponse(w, "Invalid request", http.StatusBadRequest, nil)
		return
	}

	result := h.registry.Register(r.Context(), registry.RegisterInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		Password:    req.Password,
		Balance:     req.Balance,
		Subscribed:  req.Subscribed,
		PaymentMade: req.PaymentMade,
	})
	if !result.Success {
		status := http.StatusBadRequest
		if result.Message == "Email already registered" {
			status = http.StatusConflict
		}
		sendJSONStatus(w, status, AuthResponse{Message: result.Message})
		return
	}

	token, err := generateJWT(result.User)
	if err != nil {
		log.Printf("[Auth] JWT generation failed for %s: %v", result.User.Email, err)
		SendErrorResponse(w, "Failed to generate token", http.StatusInternalServerError, nil)
		return
	}

	sendJSON(w, AuthResponse{
		Success: true,
		Message: result.Message,
		User:    result.User,
		Token:   token,
	})
}

// Login authenticates a user
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} AuthResponse
// @Failure 401 {object} AuthResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log.Printf("[Auth] Login attempt from IP: %s", r.RemoteAddr)

	var req LoginRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		log.Printf("[Auth] Login failed - invalid request: %v", err)
		SendErrorResponse(w, "Invalid request", http.StatusBadRequest, nil)
		return
	}

	result := h.registry.Authenticate(r.Context(), req.Email, req.Password)
	if !result.Success {
		sendJSONStatus(w, http.StatusUnauthorized, AuthResponse{Message: result.Message, UserNotFound: result.UserNotFound})
		return
	}

	token, err := generateJWT(result.User)
	if err != nil {
		log.Printf("[Auth] JWT generation failed for %s: %v", result.User.Email, err)
		SendErrorResponse(w, "Failed to generate token", http.StatusInternalServerError, nil)
		return
	}

	sendJSON(w, AuthResponse{
		Success: true,
		Message: result.Message,
		User:    result.User,
		Token:   token,
	})
}

// Logout ends the active session
// @Summary Logout user
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.registry.Logout(r.Context())
	sendJSON(w, map[string]string{"message": "Logout successful"})
}

// Account returns the authenticated user's record
// @Summary Get user account details
// @Tags auth
// @Produce json
// @Success 200 {object} registry.User
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/auth/account [get]
func (h *AuthHandler) Account(w http.ResponseWriter, r *http.Request) {
	email, ok := r.Context().Value("userEmail").(string)
	if !ok || email == "" {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	user := h.registry.FindUserByEmail(r.Context(), email)
	if user == nil {
		SendErrorResponse(w, "User not found", http.StatusNotFound, nil)
		return
	}

	sendJSON(w, user)
}

func generateJWT(user *registry.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(time.Duration(viper.GetInt("jwt.expiry_hours")) * time.Hour).Unix(),
	})

	return token.SignedString([]byte(viper.GetString("jwt.secret_key")))
}
