package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tmills/rosterd/internal/audit"
	"github.com/tmills/rosterd/internal/auth"
	"github.com/tmills/rosterd/internal/authz"
	"github.com/tmills/rosterd/internal/database/schedule"
	"github.com/tmills/rosterd/internal/entities"
)

// ScheduleController handles employee, shift and vacation endpoints. Reads
// are open to every authenticated role; mutations run through the
// authorization gate: role minimum first, then ownership against the
// existing record.
type ScheduleController struct {
	repo         *schedule.Repository
	auditService *audit.Service
}

// NewScheduleController creates a new schedule controller.
func NewScheduleController(repo *schedule.Repository, auditService *audit.Service) *ScheduleController {
	return &ScheduleController{repo: repo, auditService: auditService}
}

type employeeRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	PhoneNumber string `json:"phone_number"`
	Active      *bool  `json:"active"`
}

type shiftRequest struct {
	EmployeeID uint      `json:"employee_id" binding:"required"`
	Start      time.Time `json:"start" binding:"required"`
	Hours      float64   `json:"hours" binding:"required"`
	OnCall     bool      `json:"on_call"`
}

type vacationRequest struct {
	EmployeeID uint      `json:"employee_id" binding:"required"`
	Start      time.Time `json:"start" binding:"required"`
	Days       int       `json:"days" binding:"required"`
}

// ListEmployees returns all employees.
func (sc *ScheduleController) ListEmployees(c *gin.Context) {
	account := auth.GetAccount(c)
	if err := authz.RequireRole(account, authz.MinRoleRead); err != nil {
		abortWithError(c, err)
		return
	}

	employees, err := sc.repo.ListEmployees()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"employees": employees})
}

// CreateEmployee adds an employee owned by the caller.
func (sc *ScheduleController) CreateEmployee(c *gin.Context) {
	account := auth.GetAccount(c)
	if err := authz.CanMutate(account, authz.MinRoleMutateRecord, nil); err != nil {
		sc.logDenied(account, "employee_create", "employee", nil, err)
		abortWithError(c, err)
		return
	}

	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "first_name and last_name are required"})
		return
	}

	employee := &entities.Employee{
		SupervisorID: &account.ID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNumber:  req.PhoneNumber,
		Active:       true,
	}
	if req.Active != nil {
		employee.Active = *req.Active
	}

	if err := sc.repo.CreateEmployee(employee); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, employee)
}

// UpdateEmployee saves changes to an employee the caller owns. An unowned
// employee may be updated (and thereby claimed) by any supervisor.
func (sc *ScheduleController) UpdateEmployee(c *gin.Context) {
	account := auth.GetAccount(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	employee, err := sc.repo.GetEmployee(id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := authz.CanMutate(account, authz.MinRoleMutateRecord, employee); err != nil {
		sc.logDenied(account, "employee_update", "employee", &id, err)
		abortWithError(c, err)
		return
	}

	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "first_name and last_name are required"})
		return
	}

	employee.FirstName = req.FirstName
	employee.LastName = req.LastName
	employee.PhoneNumber = req.PhoneNumber
	if req.Active != nil {
		employee.Active = *req.Active
	}
	if employee.SupervisorID == nil {
		employee.SupervisorID = &account.ID
	}

	if err := sc.repo.UpdateEmployee(employee); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

// DeleteEmployee removes an employee the caller owns.
func (sc *ScheduleController) DeleteEmployee(c *gin.Context) {
	account := auth.GetAccount(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	employee, err := sc.repo.GetEmployee(id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := authz.CanMutate(account, authz.MinRoleMutateRecord, employee); err != nil {
		sc.logDenied(account, "employee_delete", "employee", &id, err)
		abortWithError(c, err)
		return
	}

	if err := sc.repo.DeleteEmployee(id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "employee deleted"})
}

// ListShifts returns an employee's shifts.
func (sc *ScheduleController) ListShifts(c *gin.Context) {
	account := auth.GetAccount(c)
	if err := authz.RequireRole(account, authz.MinRoleRead); err != nil {
		abortWithError(c, err)
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}

	shifts, err := sc.repo.ListShifts(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shifts": shifts})
}

// ListShiftsBetween returns all shifts starting inside [from, to). Both
// bounds are required RFC 3339 timestamps.
func (sc *ScheduleController) ListShiftsBetween(c *gin.Context) {
	account := auth.GetAccount(c)
	if err := authz.RequireRole(account, authz.MinRoleRead); err != nil {
		abortWithError(c, err)
		return
	}

	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be an RFC 3339 timestamp"})
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be an RFC 3339 timestamp"})
		return
	}

	shifts, err := sc.repo.ListShiftsBetween(from, to)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shifts": shifts})
}

// CreateShift adds a shift owned by the caller.
func (sc *ScheduleController) CreateShift(c *gin.Context) {
	account := auth.GetAccount(c)
	if err := authz.CanMutate(account, authz.MinRoleMutateRecord, nil); err != nil {
		sc.logDenied(account, "shift_create", "shift", nil, err)
		abortWithError(c, err)
		return
	}

	var req shiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employee_id, start and hours are required"})
		return
	}

	shift := &entities.Shift{
		SupervisorID: &account.ID,
		EmployeeID:   req.EmployeeID,
		Start:        req.Start,
		Hours:        req.Hours,
		OnCall:       req.OnCall,
	}
	if err := sc.repo.CreateShift(shift); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shift)
}

// UpdateShift saves changes to a shift the caller owns.
func (sc *ScheduleController) UpdateShift(c *gin.Context) {
	account := auth.GetAccount(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	shift, err := sc.repo.GetShift(id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := authz.CanMutate(account, authz.MinRoleMutateRecord, shift); err != nil {
		sc.logDenied(account, "shift_update", "shift", &id, err)
		abortWithError(c, err)
		return
	}

	var req shiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employee_id, start and hours are required"})
		return
	}

	shift.EmployeeID = req.EmployeeID
	shift.Start = req.Start
	shift.Hours = req.Hours
	shift.OnCall = req.OnCall
	if shift.SupervisorID == nil {
		shift.SupervisorID = &account.ID
	}

	if err := sc.repo.UpdateShift(shift); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, shift)
}

// DeleteShift removes a shift the caller owns.
func (sc *ScheduleController) DeleteShift(c *gin.Context) {
	account := auth.GetAccount(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	shift, err := sc.repo.GetShift(id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := authz.CanMutate(account, authz.MinRoleMutateRecord, shift); err != nil {
		sc.logDenied(account, "shift_delete", "shift", &id, err)
		abortWithError(c, err)
		return
	}

	if err := sc.repo.DeleteShift(id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "shift deleted"})
}

// ListVacations returns an employee's vacations.
func (sc *ScheduleController) ListVacations(c *gin.Context) {
	account := auth.GetAccount(c)
	if err := authz.RequireRole(account, authz.MinRoleRead); err != nil {
		abortWithError(c, err)
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}

	vacations, err := sc.repo.ListVacations(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vacations": vacations})
}

// CreateVacation files a vacation request supervised by the caller.
func (sc *ScheduleController) CreateVacation(c *gin.Context) {
	account := auth.GetAccount(c)
	if err := authz.CanMutate(account, authz.MinRoleMutateRecord, nil); err != nil {
		sc.logDenied(account, "vacation_create", "vacation", nil, err)
		abortWithError(c, err)
		return
	}

	var req vacationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employee_id, start and days are required"})
		return
	}

	vacation := &entities.Vacation{
		SupervisorID: &account.ID,
		EmployeeID:   req.EmployeeID,
		Start:        req.Start,
		Days:         req.Days,
	}
	if err := sc.repo.CreateVacation(vacation); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vacation)
}

// ApproveVacation marks a vacation approved. Only the designated supervisor
// may approve, regardless of role.
func (sc *ScheduleController) ApproveVacation(c *gin.Context) {
	account := auth.GetAccount(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	vacation, err := sc.repo.GetVacation(id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := authz.CanApprove(account, vacation); err != nil {
		sc.logDenied(account, "vacation_approve", "vacation", &id, err)
		abortWithError(c, err)
		return
	}

	vacation.Approved = true
	if err := sc.repo.UpdateVacation(vacation); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, vacation)
}

// DeleteVacation removes a vacation the caller supervises.
func (sc *ScheduleController) DeleteVacation(c *gin.Context) {
	account := auth.GetAccount(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	vacation, err := sc.repo.GetVacation(id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := authz.CanMutate(account, authz.MinRoleMutateRecord, vacation); err != nil {
		sc.logDenied(account, "vacation_delete", "vacation", &id, err)
		abortWithError(c, err)
		return
	}

	if err := sc.repo.DeleteVacation(id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vacation deleted"})
}

func (sc *ScheduleController) logDenied(account *entities.Account, action, entityType string, entityID *uint, err error) {
	if sc.auditService == nil || account == nil {
		return
	}
	sc.auditService.LogDenied(account.ID, action, entityType, entityID, err)
}
