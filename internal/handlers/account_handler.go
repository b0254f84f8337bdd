package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mitrahse/vendorhr-api/internal/models"
	"github.com/mitrahse/vendorhr-api/internal/repository"
	"github.com/mitrahse/vendorhr-api/internal/services"
)

type AccountHandler struct {
	accountService *services.AccountService
}

func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

func listQuery(c *gin.Context, filters ...string) *repository.ListQuery {
	query := repository.NewListQuery()
	query.Page, query.PerPage = pagination(c)
	query.Search = c.Query("search_term")
	for _, key := range filters {
		query.Filters[key] = c.Query(key)
	}
	return query
}

// @Summary List admin accounts
// @Tags Accounts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "active|inactive"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /account/users [get]
func (h *AccountHandler) IndexAccounts(c *gin.Context) {
	query := listQuery(c, "status")
	accounts, total, err := h.accountService.ListAccounts(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.AccountResponse, 0, len(accounts))
	for i := range accounts {
		responses = append(responses, accounts[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{
		"accounts":   responses,
		"pagination": paginationBody(query.Page, query.PerPage, total),
	})
}

// @Summary Create admin account
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body services.AccountInput true "Account"
// @Success 201 {object} models.AccountResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /account/users [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req services.AccountInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username dan password wajib diisi"})
		return
	}
	account, err := h.accountService.CreateAccount(c.Request.Context(), req, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"account": account.ToResponse(), "message": "akun admin dibuat"})
}

// @Summary List company users
// @Tags Accounts
// @Produce json
// @Param tenant query string false "Tenant slug"
// @Param status query string false "active|inactive"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /accountuser/users [get]
func (h *AccountHandler) IndexUsers(c *gin.Context) {
	query := listQuery(c, "tenant", "status")
	users, total, err := h.accountService.ListAccountUsers(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.AccountUserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{
		"users":      responses,
		"pagination": paginationBody(query.Page, query.PerPage, total),
	})
}

// @Summary Get company user
// @Tags Accounts
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.AccountUserResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /accountuser/users/{id} [get]
func (h *AccountHandler) ShowUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := h.accountService.GetAccountUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.ToResponse()})
}

// @Summary Create company user
// @Description Binds a login to one tenant with its permitted pages
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body services.AccountUserInput true "User"
// @Success 201 {object} models.AccountUserResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /accountuser/users [post]
func (h *AccountHandler) CreateUser(c *gin.Context) {
	var req services.AccountUserInput
	if !bindPayload(c, "user", &req) {
		return
	}
	user, err := h.accountService.CreateAccountUser(c.Request.Context(), req, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user.ToResponse(), "message": "pengguna dibuat"})
}

// @Summary Update company user
// @Tags Accounts
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body services.AccountUserInput true "User"
// @Success 200 {object} models.AccountUserResponse
// @Security BearerAuth
// @Router /accountuser/users/{id} [put]
func (h *AccountHandler) UpdateUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.AccountUserInput
	if !bindPayload(c, "user", &req) {
		return
	}
	user, err := h.accountService.UpdateAccountUser(c.Request.Context(), id, req, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.ToResponse(), "message": "pengguna diperbarui"})
}

// @Summary Delete company user
// @Tags Accounts
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /accountuser/users/{id} [delete]
func (h *AccountHandler) DeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.accountService.DeleteAccountUser(c.Request.Context(), id, actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "pengguna dihapus"})
}
