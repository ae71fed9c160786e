package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bookvault/internal/auth"
	"bookvault/internal/middleware"
	"bookvault/internal/models"
	"bookvault/internal/services"
)

// AuthHandlerOptions configures the authentication routes.
type AuthHandlerOptions struct {
	// RateLimit, when set, runs before every /auth route.
	RateLimit fiber.Handler
	// ResetOTPRequiresAuth puts send-reset-otp behind the session guard.
	ResetOTPRequiresAuth bool
}

// AuthHandler handles HTTP requests for authentication and profiles.
type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
	sessions    *auth.SessionIssuer
	guards      Guards
	opts        AuthHandlerOptions
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	authService *services.AuthService,
	userService *services.UserService,
	sessions *auth.SessionIssuer,
	guards Guards,
	opts AuthHandlerOptions,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		sessions:    sessions,
		guards:      guards,
		opts:        opts,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	if h.opts.RateLimit != nil {
		authRoutes.Use(h.opts.RateLimit)
	}

	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/public-register", h.HandleRegister)
	authRoutes.Post("/admin-register", h.guards.Auth, h.HandleAdminRegister)
	authRoutes.Get("/verify-email", h.HandleVerifyEmail)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/logout", h.HandleLogout)

	if h.opts.ResetOTPRequiresAuth {
		authRoutes.Post("/send-reset-otp", h.guards.Auth, h.HandleSendResetOTP)
	} else {
		authRoutes.Post("/send-reset-otp", h.HandleSendResetOTP)
	}
	authRoutes.Post("/verify-reset-otp", h.HandleVerifyResetOTP)
	authRoutes.Post("/reset-password", h.HandleResetPassword)

	authRoutes.Get("/me", h.guards.Auth, h.HandleMe)
	authRoutes.Get("/verify", h.HandleVerifySession)
	authRoutes.Put("/edit-profile", h.guards.Auth, h.HandleEditProfile)
	authRoutes.Get("/user/:id", h.guards.Auth, h.HandleGetUser)
}

// RegisterRequest is the body of a self-service registration.
type RegisterRequest struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"password"`
}

func (r RegisterRequest) input() services.RegisterInput {
	return services.RegisterInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Password:  r.Password,
	}
}

// AdminRegisterRequest adds the privileged fields an admin may set.
type AdminRegisterRequest struct {
	RegisterRequest
	Role         models.Role `json:"role"`
	Subscription bool        `json:"subscription"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if _, err := h.authService.RegisterSelf(c.UserContext(), req.input()); err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, "Registration successful. Please check your email for verification.", nil)
}

// HandleAdminRegister lets an admin create a verified account with a role.
func (h *AuthHandler) HandleAdminRegister(c *fiber.Ctx) error {
	var req AdminRegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.authService.RegisterAsAdmin(c.UserContext(), middleware.CurrentUser(c), services.AdminRegisterInput{
		RegisterInput: req.input(),
		Role:          req.Role,
		Subscription:  req.Subscription,
	})
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, "User registered successfully", fiber.Map{"user": user.Public()})
}

// HandleVerifyEmail consumes the link sent by email.
func (h *AuthHandler) HandleVerifyEmail(c *fiber.Ctx) error {
	if err := h.authService.VerifyEmail(c.UserContext(), c.Query("email"), c.Query("token")); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Email verified successfully. You can now login.", nil)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin checks the credentials, sets the session cookie and returns the token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	res, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.Cookie(h.sessions.Cookie(res.Token, res.ExpiresAt))
	return ok(c, fiber.StatusOK, "Login successful!", fiber.Map{
		"token":  res.Token,
		"userId": res.User.ID,
		"role":   res.User.Role,
		"user":   res.User.Public(),
	})
}

// HandleLogout clears the session cookie. Tokens are stateless, so nothing
// is revoked server side.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(h.sessions.ClearCookie())
	return ok(c, fiber.StatusOK, "Logged out successfully", nil)
}

type emailRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) HandleSendResetOTP(c *fiber.Ctx) error {
	var req emailRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.authService.SendResetOTP(c.UserContext(), req.Email); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "OTP sent to your email.", nil)
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp" validate:"omitempty,numeric,len=6"`
}

func (h *AuthHandler) HandleVerifyResetOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.authService.VerifyResetOTP(c.UserContext(), req.Email, req.OTP); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "OTP verified successfully.", nil)
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.authService.ResetPassword(c.UserContext(), req.Email, req.NewPassword); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Password reset successful", nil)
}

// HandleMe returns the identity resolved by the session guard.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return ok(c, fiber.StatusOK, "", fiber.Map{
		"user": fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// HandleVerifySession resolves the session cookie without requiring a
// verified account, so the frontend can tell pending accounts apart.
func (h *AuthHandler) HandleVerifySession(c *fiber.Ctx) error {
	user, err := h.authService.CurrentUser(c.UserContext(), middleware.SessionToken(c, h.sessions.CookieName()))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{
		"user": fiber.Map{
			"id":         user.ID,
			"email":      user.Email,
			"role":       user.Role,
			"isVerified": user.IsVerified,
		},
	})
}

type editProfileRequest struct {
	FirstName        string `json:"firstname" form:"firstname"`
	LastName         string `json:"lastname" form:"lastname"`
	NativeLanguage   string `json:"nativeLanguage" form:"nativeLanguage"`
	LearningLanguage string `json:"learningLanguage" form:"learningLanguage"`
	Location         string `json:"location" form:"location"`
}

// HandleEditProfile updates the caller's profile from a multipart or JSON body.
func (h *AuthHandler) HandleEditProfile(c *fiber.Ctx) error {
	var req editProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	picture, err := formFile(c, "profilePicture")
	if err != nil {
		return err
	}

	user, err := h.userService.UpdateProfile(c.UserContext(), middleware.CurrentUser(c).ID, services.ProfileUpdate{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		NativeLanguage:   req.NativeLanguage,
		LearningLanguage: req.LearningLanguage,
		Location:         req.Location,
	}, picture)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Profile updated successfully!", fiber.Map{"user": user.Public()})
}

func (h *AuthHandler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.userService.GetUserByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"user": user.Public()})
}
