package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mitrahse/vendorhr-api/internal/middleware"
	"github.com/mitrahse/vendorhr-api/internal/services"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// @Summary Health Check
// @Description Checks if the API is running
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "vendorhr-api",
		"version": "1.0.0",
	})
}

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary Admin login
// @Description Authenticates an internal administrator
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login Credentials"
// @Success 200 {object} services.LoginResult
// @Failure 401 {object} map[string]string
// @Router /account/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username dan password wajib diisi"})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Username, req.Password, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Verify admin token
// @Description Confirms the admin token is valid and the account still active
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /account/verify [get]
func (h *AuthHandler) Verify(c *gin.Context) {
	account, err := h.authService.VerifyAccount(c.Request.Context(), middleware.GetAccountID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "account": account.ToResponse()})
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// @Summary Refresh Token
// @Description Rotates the admin refresh token and issues a new access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh Token"
// @Success 200 {object} services.LoginResult
// @Router /account/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "refresh token wajib diisi"})
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Admin logout
// @Description Invalidates the refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest false "Refresh Token"
// @Success 200 {object} map[string]string
// @Router /account/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req RefreshRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "berhasil keluar"})
}

// @Summary Company user login
// @Description Authenticates a vendor-company user and returns the token with its access pages
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login Credentials"
// @Success 200 {object} services.UserLoginResult
// @Failure 401 {object} map[string]string
// @Router /accountuser/login [post]
func (h *AuthHandler) LoginUser(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username dan password wajib diisi"})
		return
	}

	result, err := h.authService.LoginUser(c.Request.Context(), req.Username, req.Password, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Verify company user token
// @Description Re-checks the user and, when path is given, that the page is allowed
// @Tags Auth
// @Produce json
// @Param path query string false "Page path to check"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /accountuser/verify [get]
func (h *AuthHandler) VerifyUser(c *gin.Context) {
	user, err := h.authService.VerifyUser(c.Request.Context(), middleware.GetAccountID(c), c.Query("path"))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := user.ToResponse()
	c.JSON(http.StatusOK, gin.H{"valid": true, "user": resp, "access_pages": resp.AccessPages})
}

// @Summary Company user logout
// @Description User tokens are stateless; the client drops its stored token
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /accountuser/logout [post]
func (h *AuthHandler) LogoutUser(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "berhasil keluar"})
}
