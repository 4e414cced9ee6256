package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xinwork/repair-order-api/internal/constants"
	"github.com/xinwork/repair-order-api/internal/dto"
	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"github.com/xinwork/repair-order-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	tokenTTL    int64
}

// NewAuthHandler creates a new AuthHandler. tokenTTL is the token lifetime in seconds.
func NewAuthHandler(authService *services.AuthService, tokenTTL int64) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokenTTL:    tokenTTL,
	}
}

// Token exchanges form-encoded credentials for a bearer token.
func (h *AuthHandler) Token(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		apierrors.BadRequest(c, "username and password are required")
		return
	}

	token, _, err := h.authService.Login(c.Request.Context(), username, password)
	if err != nil {
		c.Header("WWW-Authenticate", "Bearer")
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken: token,
		TokenType:   constants.TokenType,
		ExpiresIn:   h.tokenTTL,
	})
}

// Register creates a worker account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), actor.ID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
