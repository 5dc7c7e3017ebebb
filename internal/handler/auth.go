package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/bookreviews/internal/middleware"
	"github.com/snnyvrz/bookreviews/internal/service"
	"github.com/snnyvrz/bookreviews/internal/validation"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// RegisterRoutes mounts the auth routes. public wraps register and login,
// guard wraps the routes that need a token.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, public []gin.HandlerFunc, guard []gin.HandlerFunc) {
	g := r.Group("/auth")

	open := g.Group("", public...)
	{
		open.POST("/register", h.Register)
		open.POST("/login", h.Login)
	}

	secured := g.Group("", guard...)
	{
		secured.POST("/logout", h.Logout)
		secured.GET("/me", h.Me)
	}
}

// Register godoc
// @Summary      Register a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      RegisterRequest  true  "New account"
// @Success      201      {object}  SessionResponse
// @Failure      400      {object}  validation.ErrorResponse   "Validation error"
// @Failure      409      {object}  validation.ErrorResponse   "Username or email taken"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	session, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toSessionResponse(session))
}

// Login godoc
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      LoginRequest  true  "Credentials"
// @Success      200      {object}  SessionResponse
// @Failure      400      {object}  validation.ErrorResponse   "Validation error"
// @Failure      401      {object}  validation.ErrorResponse   "Invalid credentials"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	session, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSessionResponse(session))
}

// Logout godoc
// @Summary      Log out
// @Description  Revoke the presented token
// @Tags         auth
// @Security     BearerAuth
// @Success      204  {string}  string  "No content"
// @Failure      401  {object}  validation.ErrorResponse   "Missing or invalid token"
// @Failure      500  {object}  validation.ErrorResponse   "Internal server error"
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "MISSING_TOKEN", "authentication required")
		return
	}

	if err := h.svc.Logout(c.Request.Context(), claims); err != nil {
		writeAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  User
// @Failure      401  {object}  validation.ErrorResponse   "Missing or invalid token"
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "MISSING_TOKEN", "authentication required")
		return
	}

	user, err := h.svc.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		writeAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUser(*user))
}
