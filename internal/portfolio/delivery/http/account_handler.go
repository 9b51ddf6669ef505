package http

import (
	"errors"
	"net/http"

	"go-stock-portfolio/internal/entity"
	"go-stock-portfolio/internal/portfolio/dto"
	"go-stock-portfolio/internal/portfolio/service"
	"go-stock-portfolio/pkg/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// AccountHandler handles HTTP requests for registration, login and the
// token-driven confirmation/reset flows.
type AccountHandler struct {
	accountService service.AccountService
	sessionService service.SessionService
	logger         *logger.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService service.AccountService, sessionService service.SessionService, logger *logger.Logger) *AccountHandler {
	return &AccountHandler{accountService: accountService, sessionService: sessionService, logger: logger}
}

// RegisterRoutes registers the account routes to the Echo group.
func (h *AccountHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.GET("/confirm/:token", h.ConfirmEmail)
	g.POST("/resend_confirmation", h.ResendConfirmation)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
	g.POST("/password_reset_via_email", h.RequestPasswordReset)
	g.POST("/password_reset/:token", h.ResetPassword)
}

// Register godoc
// @Summary Register a new account
// @Description Create an account and send a confirmation email
// @Tags users
// @Accept  json
// @Produce  json
// @Param   user  body    dto.RegisterRequest   true    "Account to create"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /users/register [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email and password are required"})
	}

	user, err := h.accountService.Register(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to register user", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to register"})
	}

	return c.JSON(http.StatusCreated, mapToUserResponse(user))
}

// ConfirmEmail godoc
// @Summary Confirm an email address
// @Description Consume an email confirmation token
// @Tags users
// @Produce  json
// @Param   token  path    string true    "Confirmation token"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /users/confirm/{token} [get]
func (h *AccountHandler) ConfirmEmail(c echo.Context) error {
	result, err := h.accountService.ConfirmEmail(c.Request().Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "The confirmation link is invalid or has expired"})
		}
		h.logger.Error("Failed to confirm email", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to confirm email"})
	}

	if result == service.AlreadyConfirmed {
		return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Account already confirmed"})
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Thank you for confirming your email address"})
}

// ResendConfirmation godoc
// @Summary Resend the confirmation email
// @Tags users
// @Accept  json
// @Produce  json
// @Param   request  body    dto.RequestPasswordResetRequest true    "Email address"
// @Success 200 {object} dto.MessageResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /users/resend_confirmation [post]
func (h *AccountHandler) ResendConfirmation(c echo.Context) error {
	var req dto.RequestPasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	err := h.accountService.ResendConfirmation(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, service.ErrConfirmationThrottled) {
			return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "A confirmation email was sent recently, please wait"})
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Unknown email address"})
		}
		h.logger.Error("Failed to resend confirmation", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to resend confirmation"})
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Confirmation email sent"})
}

// Login godoc
// @Summary Log in
// @Description Check credentials and start a session
// @Tags users
// @Accept  json
// @Produce  json
// @Param   credentials  body    dto.LoginRequest   true    "Credentials"
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /users/login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	user, err := h.accountService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid email or password"})
	}

	sessionID, err := h.sessionService.Create(c.Request().Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to create session", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to log in"})
	}

	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, mapToUserResponse(user))
}

// Logout godoc
// @Summary Log out
// @Tags users
// @Produce  json
// @Success 200 {object} dto.MessageResponse
// @Router /users/logout [post]
func (h *AccountHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessionService.Destroy(c.Request().Context(), cookie.Value); err != nil {
			h.logger.Error("Failed to destroy session", logger.ErrorField(err))
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Goodbye"})
}

// RequestPasswordReset godoc
// @Summary Request a password reset email
// @Tags users
// @Accept  json
// @Produce  json
// @Param   request  body    dto.RequestPasswordResetRequest   true    "Email address"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /users/password_reset_via_email [post]
func (h *AccountHandler) RequestPasswordReset(c echo.Context) error {
	var req dto.RequestPasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	err := h.accountService.RequestPasswordReset(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, service.ErrEmailNotConfirmed) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "Your email address must be confirmed before resetting the password"})
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Unknown email address"})
		}
		h.logger.Error("Failed to request password reset", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to request password reset"})
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password reset email sent"})
}

// ResetPassword godoc
// @Summary Reset the password with a token
// @Tags users
// @Accept  json
// @Produce  json
// @Param   token  path    string true    "Reset token"
// @Param   request  body    dto.ResetPasswordRequest   true    "New password"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /users/password_reset/{token} [post]
func (h *AccountHandler) ResetPassword(c echo.Context) error {
	var req dto.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Password is required"})
	}

	err := h.accountService.ResetPassword(c.Request().Context(), c.Param("token"), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "The password reset link is invalid or has expired"})
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Unknown account"})
		}
		h.logger.Error("Failed to reset password", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to reset password"})
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Your password has been updated"})
}

func mapToUserResponse(user *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:               user.ID,
		Name:             user.Name,
		Email:            user.Email,
		RegisteredOn:     user.RegisteredOn,
		EmailConfirmed:   user.EmailConfirmed,
		EmailConfirmedOn: user.EmailConfirmedOn,
	}
}
