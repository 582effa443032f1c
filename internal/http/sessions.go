package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tmills/rosterd/internal/audit"
	"github.com/tmills/rosterd/internal/auth"
)

// SessionController handles login, logout and password changes.
type SessionController struct {
	service      *auth.Service
	auditService *audit.Service
}

// NewSessionController creates a new session controller.
func NewSessionController(service *auth.Service, auditService *audit.Service) *SessionController {
	return &SessionController{service: service, auditService: auditService}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// Login verifies credentials and hands back a session token together with
// the account summary. Bad credentials are always reported identically.
func (sc *SessionController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	account, token, err := sc.service.Login(req.Email, req.Password)
	if err != nil {
		sc.logAuth(0, "login", c.ClientIP(), false)
		abortWithError(c, err)
		return
	}

	sc.logAuth(account.ID, "login", c.ClientIP(), true)
	c.JSON(http.StatusOK, gin.H{
		"account": account.Summary(),
		"token":   token,
	})
}

// Logout deletes the presented session. Repeating a logout succeeds quietly.
func (sc *SessionController) Logout(c *gin.Context) {
	account := auth.GetAccount(c)
	token := auth.GetToken(c)

	if err := sc.service.Logout(token); err != nil {
		abortWithError(c, err)
		return
	}

	if account != nil {
		sc.logAuth(account.ID, "logout", c.ClientIP(), true)
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// ChangePassword replaces the caller's password hash after verifying the old
// password. Existing sessions, this one included, stay valid.
func (sc *SessionController) ChangePassword(c *gin.Context) {
	account := auth.GetAccount(c)

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "old and new password are required"})
		return
	}

	err := sc.service.ChangePassword(account.ID, req.OldPassword, req.NewPassword)
	if err != nil {
		sc.logAuth(account.ID, "change_password", c.ClientIP(), false)
		abortWithError(c, err)
		return
	}

	sc.logAuth(account.ID, "change_password", c.ClientIP(), true)
	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

func (sc *SessionController) logAuth(accountID uint, action, ip string, success bool) {
	if sc.auditService == nil {
		return
	}
	sc.auditService.LogAuth(accountID, action, ip, success)
}
