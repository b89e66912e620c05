package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/andradm/Journal-project/internal/auth"
	"github.com/andradm/Journal-project/internal/dto"
	"github.com/andradm/Journal-project/internal/repo"
	"github.com/andradm/Journal-project/internal/service"
	"github.com/andradm/Journal-project/internal/validate"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles login, register and logout.
type AuthHandler struct {
	sessions   auth.Sessions
	userSvc    *service.UserService
	userRepo   repo.UserRepo
	sessionTTL time.Duration
}

// NewAuthHandler returns a new AuthHandler. userRepo backs the
// state-dependent registration checks (username/email already taken).
func NewAuthHandler(sessions auth.Sessions, userSvc *service.UserService, userRepo repo.UserRepo, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{sessions: sessions, userSvc: userSvc, userRepo: userRepo, sessionTTL: sessionTTL}
}

// RegisterForm godoc
// @Summary      Blank registration form
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.FormResponse
// @Router       /register [get]
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	c.JSON(http.StatusOK, dto.FormResponse{Values: dto.RegisterRequest{}})
}

// Register godoc
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Registration fields"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  dto.FormResponse
// @Failure      409   {object}  dto.FormResponse
// @Failure      500   {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fieldErrs, err := validate.Register(c.Request.Context(), h.userRepo, validate.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Password2: req.Password2,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, dto.FormResponse{Values: echoRegister(req), Errors: fieldErrs})
		return
	}
	user, err := h.userSvc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		// Validation passed but the insert lost a uniqueness race.
		if errors.Is(err, service.ErrDuplicateUser) {
			c.JSON(http.StatusConflict, dto.FormResponse{
				Values: echoRegister(req),
				Errors: []validate.FieldError{{Field: "username", Message: "User already exists."}},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	// No session here: registering does not log the user in.
	c.JSON(http.StatusCreated, gin.H{
		"message": "Welcome! You registered!",
		"user":    dto.UserResponse{ID: user.ID, Username: user.Username, JoinedAt: user.JoinedAt},
	})
}

// LoginForm godoc
// @Summary      Blank login form
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.FormResponse
// @Router       /login [get]
func (h *AuthHandler) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, dto.FormResponse{Values: dto.LoginRequest{}})
}

// Login godoc
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  dto.FormResponse
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if fieldErrs := validate.Login(validate.LoginInput(req)); len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, dto.FormResponse{
			Values: dto.LoginRequest{Email: req.Email},
			Errors: fieldErrs,
		})
		return
	}
	user, err := h.userSvc.ValidateCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// Deliberately generic: never reveal which field was wrong.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Your email or password doesn't match!"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	sessionID, err := h.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	c.SetCookie(auth.CookieName, sessionID, int(h.sessionTTL/time.Second), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"message": "You've been logged in!",
		"user":    dto.UserResponse{ID: user.ID, Username: user.Username, JoinedAt: user.JoinedAt},
	})
}

// Logout godoc
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  map[string]string
// @Router       /logout [get]
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID, err := c.Cookie(auth.CookieName)
	if err == nil && sessionID != "" {
		_ = h.sessions.Delete(c.Request.Context(), sessionID)
	}
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "You've been logged out. See you soon!"})
}

// echoRegister returns the submitted values with the password fields blanked.
func echoRegister(req dto.RegisterRequest) dto.RegisterRequest {
	return dto.RegisterRequest{Username: req.Username, Email: req.Email}
}
