package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tmills/rosterd/internal/audit"
	"github.com/tmills/rosterd/internal/auth"
	"github.com/tmills/rosterd/internal/authz"
	"github.com/tmills/rosterd/internal/configs"
	dbconfigs "github.com/tmills/rosterd/internal/database/configs"
	"github.com/tmills/rosterd/internal/entities"
	"github.com/tmills/rosterd/internal/utils"
)

// ConfigController handles calendar config endpoints. Configs are strictly
// per-account; the lifecycle keeps the active pointer honest.
type ConfigController struct {
	repo         *dbconfigs.Repository
	lifecycle    *configs.Lifecycle
	auditService *audit.Service
}

// NewConfigController creates a new config controller.
func NewConfigController(repo *dbconfigs.Repository, lifecycle *configs.Lifecycle, auditService *audit.Service) *ConfigController {
	return &ConfigController{repo: repo, lifecycle: lifecycle, auditService: auditService}
}

type configRequest struct {
	Name          string                 `json:"name" binding:"required"`
	HourFormat    entities.HourFormat    `json:"hour_format"`
	LastNameStyle entities.LastNameStyle `json:"last_name_style"`
	View          entities.CalendarView  `json:"view"`
	ViewDate      time.Time              `json:"view_date"`
	ShowMinutes   bool                   `json:"show_minutes"`
	ShowShifts    bool                   `json:"show_shifts"`
	ShowVacations bool                   `json:"show_vacations"`
	ShowDisabled  bool                   `json:"show_disabled"`
}

type employeeColorRequest struct {
	EmployeeID uint   `json:"employee_id" binding:"required"`
	Color      string `json:"color" binding:"required"`
}

// List returns the caller's configs along with the active pointer.
func (cc *ConfigController) List(c *gin.Context) {
	account := auth.GetAccount(c)

	owned, err := cc.repo.ListForAccount(account.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"configs":          owned,
		"active_config_id": account.ActiveConfigID,
	})
}

// Create adds a further config for the caller.
func (cc *ConfigController) Create(c *gin.Context) {
	account := auth.GetAccount(c)

	var req configRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	config := configFromRequest(account.ID, req)
	if err := cc.repo.Create(config); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, config)
}

// Update saves preference changes to a config the caller owns.
func (cc *ConfigController) Update(c *gin.Context) {
	account := auth.GetAccount(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	existing, err := cc.repo.GetByID(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if existing.AccountID != account.ID {
		abortWithError(c, authz.ErrIdentityMismatch)
		return
	}

	var req configRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	applyConfigRequest(existing, req)
	if err := cc.repo.Update(existing); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, existing)
}

// SetActive re-points the caller's active config.
func (cc *ConfigController) SetActive(c *gin.Context) {
	account := auth.GetAccount(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := cc.lifecycle.SetActive(account, id); err != nil {
		abortWithError(c, err)
		return
	}

	if cc.auditService != nil {
		cc.auditService.LogConfig(account.ID, "config_set_active", id, nil)
	}
	c.JSON(http.StatusOK, gin.H{"active_config_id": account.ActiveConfigID})
}

// Delete removes a config via the lifecycle. Deleting the last config is a
// quiet no-op; the response reports the surviving active pointer either way.
func (cc *ConfigController) Delete(c *gin.Context) {
	account := auth.GetAccount(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := cc.lifecycle.Remove(account, id); err != nil {
		abortWithError(c, err)
		return
	}

	if cc.auditService != nil {
		cc.auditService.LogConfig(account.ID, "config_delete", id, nil)
	}
	c.JSON(http.StatusOK, gin.H{"active_config_id": account.ActiveConfigID})
}

// SetEmployeeColor assigns a display color for one employee in one config.
func (cc *ConfigController) SetEmployeeColor(c *gin.Context) {
	account := auth.GetAccount(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	existing, err := cc.repo.GetByID(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if existing.AccountID != account.ID {
		abortWithError(c, authz.ErrIdentityMismatch)
		return
	}

	var req employeeColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employee_id and color are required"})
		return
	}

	color, err := utils.NormalizeHexColor(req.Color)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "color must be a hex RGB value like #AABBCC"})
		return
	}

	if err := cc.repo.SetEmployeeColor(existing.ID, req.EmployeeID, color); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "color set"})
}

func configFromRequest(accountID uint, req configRequest) *entities.Config {
	config := entities.DefaultConfig(accountID)
	config.Name = req.Name
	applyConfigRequest(config, req)
	return config
}

func applyConfigRequest(config *entities.Config, req configRequest) {
	config.Name = req.Name
	if req.HourFormat != "" {
		config.HourFormat = req.HourFormat
	}
	if req.LastNameStyle != "" {
		config.LastNameStyle = req.LastNameStyle
	}
	if req.View != "" {
		config.View = req.View
	}
	if !req.ViewDate.IsZero() {
		config.ViewDate = req.ViewDate
	}
	config.ShowMinutes = req.ShowMinutes
	config.ShowShifts = req.ShowShifts
	config.ShowVacations = req.ShowVacations
	config.ShowDisabled = req.ShowDisabled
}
