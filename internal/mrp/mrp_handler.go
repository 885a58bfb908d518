package mrp

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"mrplan/internal/repository"
	"mrplan/pkg/metadata"
	"mrplan/pkg/models"
	"mrplan/pkg/security"

	"github.com/gin-gonic/gin"
)

// AuditTrailReader serves the persisted audit entries of a record.
type AuditTrailReader interface {
	GetRecordTrail(id int, recordType string) (*[]models.AuditLog, error)
}

type MRPHandler struct {
	RunRepository RunRepository
	Service       *Service
	AuditTrail    AuditTrailReader
}

type ExecuteRunRequest struct {
	PlanningHorizonDays int `json:"planning_horizon_days"`
}

type AbortRunRequest struct {
	Reason string `json:"reason"`
}

func NewHandler(runRepo RunRepository, service *Service, auditTrail AuditTrailReader) *MRPHandler {
	return &MRPHandler{
		RunRepository: runRepo,
		Service:       service,
		AuditTrail:    auditTrail,
	}
}

func (h *MRPHandler) RegisterRoutes(router *gin.RouterGroup) {
	h.RegisterReadRoutes(router)
	h.RegisterWriteRoutes(router)
}

func (h *MRPHandler) RegisterReadRoutes(router *gin.RouterGroup) {
	router.GET("/mrp/runs", h.RetrieveRunList)
	router.GET("/mrp/runs/:id", h.GetRun)
	router.GET("/mrp/runs/:id/requirements", h.GetRunRequirements)
	router.GET("/mrp/runs/:id/shortages", h.GetRunShortages)
	router.GET("/mrp/runs/:id/audit", h.GetRunAuditTrail)
}

func (h *MRPHandler) RegisterWriteRoutes(router *gin.RouterGroup) {
	router.POST("/mrp/runs", h.ExecuteRun)
	router.POST("/mrp/runs/:id/abort", h.AbortRun)
	router.DELETE("/mrp/runs/:id", h.DeleteRun)
}

func (h *MRPHandler) ExecuteRun(c *gin.Context) {
	var req ExecuteRunRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		log.Println("Error binding JSON:", err)
		return
	}

	if req.PlanningHorizonDays <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Planning horizon must be a positive number of days", "code": "invalid_horizon"})
		return
	}

	run, err := h.Service.ExecuteRun(req.PlanningHorizonDays, initiatingUser(c))
	if err != nil {
		if errors.Is(err, ErrInvalidHorizon) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "MRP run failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, run)
}

func (h *MRPHandler) RetrieveRunList(c *gin.Context) {
	conditions := repository.NewQueryBuilder()

	if status := c.Query("status"); status != "" {
		runStatus, err := metadata.NewRunStatus(status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		conditions.AddCondition("status", string(runStatus))
	}

	from, err := parseDateParam(c, "from")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	to, err := parseDateParam(c, "to")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	conditions.AddDateRange("run_date", from, to)

	limit, offset, err := parsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	runs, err := h.RunRepository.GetRuns(conditions, limit, offset)
	if err != nil {
		log.Println("Error executing SQL statement: ", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get MRP runs", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, runs)
}

func (h *MRPHandler) GetRun(c *gin.Context) {
	runID, err := strconv.Atoi(c.Param("id"))
	if err != nil || runID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Run ID is required"})
		return
	}

	run, err := h.RunRepository.GetRun(runID)
	if err != nil {
		log.Println("Error executing SQL statement: ", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get MRP run", "details": err.Error()})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "MRP run not found"})
		return
	}

	c.JSON(http.StatusOK, run)
}

func (h *MRPHandler) GetRunRequirements(c *gin.Context) {
	runID, err := strconv.Atoi(c.Param("id"))
	if err != nil || runID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Run ID is required"})
		return
	}

	requirements, err := h.RunRepository.GetRequirements(runID)
	if err != nil {
		log.Println("Error executing SQL statement: ", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get MRP requirements", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, requirements)
}

func (h *MRPHandler) GetRunShortages(c *gin.Context) {
	runID, err := strconv.Atoi(c.Param("id"))
	if err != nil || runID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Run ID is required"})
		return
	}

	shortages, err := h.RunRepository.GetShortages(runID)
	if err != nil {
		log.Println("Error executing SQL statement: ", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get MRP shortages", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, shortages)
}

func (h *MRPHandler) GetRunAuditTrail(c *gin.Context) {
	runID, err := strconv.Atoi(c.Param("id"))
	if err != nil || runID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Run ID is required"})
		return
	}

	run, err := h.RunRepository.GetRun(runID)
	if err != nil {
		log.Println("Error executing SQL statement: ", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get MRP run", "details": err.Error()})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "MRP run not found"})
		return
	}

	trail, err := h.AuditTrail.GetRecordTrail(runID, "mrp_run")
	if err != nil {
		log.Println("Error executing SQL statement: ", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get audit trail", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, trail)
}

func (h *MRPHandler) AbortRun(c *gin.Context) {
	runID, err := strconv.Atoi(c.Param("id"))
	if err != nil || runID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Run ID is required"})
		return
	}

	// Body is optional for abort.
	var req AbortRunRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.Service.AbortRun(runID, initiatingUser(c), req.Reason); err != nil {
		if errors.Is(err, ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "MRP run not found"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": "Unable to abort MRP run", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "MRP run aborted successfully"})
}

func (h *MRPHandler) DeleteRun(c *gin.Context) {
	runID, err := strconv.Atoi(c.Param("id"))
	if err != nil || runID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Run ID is required"})
		return
	}

	if err := h.Service.DeleteRun(runID, initiatingUser(c)); err != nil {
		switch {
		case errors.Is(err, ErrRunNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "MRP run not found"})
		case errors.Is(err, ErrRunStillRunning):
			c.JSON(http.StatusConflict, gin.H{"error": "Cannot delete a running MRP run", "code": "run_still_running"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to delete MRP run", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "MRP run deleted successfully"})
}

// initiatingUser pulls the user id out of the JWT claims when present.
func initiatingUser(c *gin.Context) *int {
	userID, err := security.GetUserIDFromToken(c)
	if err != nil {
		return nil
	}
	id, err := strconv.Atoi(userID)
	if err != nil {
		return nil
	}
	return &id
}

func parseDateParam(c *gin.Context, key string) (*time.Time, error) {
	value := c.Query(key)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, errors.New("invalid " + key + " date, expected YYYY-MM-DD")
	}
	return &parsed, nil
}

func parsePagination(c *gin.Context) (uint, uint, error) {
	limit := uint(50)
	offset := uint(0)

	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || parsed == 0 {
			return 0, 0, errors.New("invalid limit parameter, must be a positive integer")
		}
		limit = uint(parsed)
	}

	if raw := c.Query("offset"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return 0, 0, errors.New("invalid offset parameter, must be a non-negative integer")
		}
		offset = uint(parsed)
	}

	return limit, offset, nil
}
