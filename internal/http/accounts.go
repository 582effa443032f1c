package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tmills/rosterd/internal/audit"
	"github.com/tmills/rosterd/internal/auth"
	"github.com/tmills/rosterd/internal/authz"
	"github.com/tmills/rosterd/internal/entities"
)

// AccountController handles account management endpoints. Creating and
// updating accounts needs Supervisor; deleting needs Admin.
type AccountController struct {
	service      *auth.Service
	auditService *audit.Service
}

// NewAccountController creates a new account controller.
func NewAccountController(service *auth.Service, auditService *audit.Service) *AccountController {
	return &AccountController{service: service, auditService: auditService}
}

type createAccountRequest struct {
	Email    string        `json:"email" binding:"required"`
	Password string        `json:"password" binding:"required"`
	Role     entities.Role `json:"role" binding:"required"`
}

type updateRoleRequest struct {
	Role entities.Role `json:"role" binding:"required"`
}

// List returns all accounts.
func (ac *AccountController) List(c *gin.Context) {
	actor := auth.GetAccount(c)
	if err := authz.RequireRole(actor, authz.MinRoleRead); err != nil {
		abortWithError(c, err)
		return
	}

	accounts, err := ac.service.ListAccounts()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// Create adds a new account with its default config.
func (ac *AccountController) Create(c *gin.Context) {
	actor := auth.GetAccount(c)
	if err := authz.RequireRole(actor, authz.MinRoleManageAccount); err != nil {
		abortWithError(c, err)
		return
	}

	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email, password and role are required"})
		return
	}

	account, err := ac.service.CreateAccount(req.Email, req.Password, req.Role)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if ac.auditService != nil {
		ac.auditService.LogAccount(actor.ID, "account_create", account.ID, nil)
	}
	c.JSON(http.StatusCreated, account)
}

// UpdateRole changes another account's role.
func (ac *AccountController) UpdateRole(c *gin.Context) {
	actor := auth.GetAccount(c)
	if err := authz.RequireRole(actor, authz.MinRoleManageAccount); err != nil {
		abortWithError(c, err)
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role is required"})
		return
	}

	if err := ac.service.UpdateRole(id, req.Role); err != nil {
		abortWithError(c, err)
		return
	}

	if ac.auditService != nil {
		ac.auditService.LogAccount(actor.ID, "account_role_update", id, nil)
	}
	c.JSON(http.StatusOK, gin.H{"message": "role updated"})
}

// Delete removes an account and everything hanging off it. Admin only.
func (ac *AccountController) Delete(c *gin.Context) {
	actor := auth.GetAccount(c)
	if err := authz.RequireRole(actor, authz.MinRoleDeleteAccount); err != nil {
		if ac.auditService != nil && actor != nil {
			ac.auditService.LogDenied(actor.ID, "account_delete", "account", nil, err)
		}
		abortWithError(c, err)
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := ac.service.DeleteAccount(id); err != nil {
		abortWithError(c, err)
		return
	}

	if ac.auditService != nil {
		ac.auditService.LogAccount(actor.ID, "account_delete", id, nil)
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}
