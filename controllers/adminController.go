package controllers

import (
	"net/http"
	"strconv"

	"voice-be/middlewares"
	"voice-be/models"
	"voice-be/services"

	"github.com/gin-gonic/gin"
)

// AdminController serves the administrative triage surface. Every handler
// here runs behind the admin middleware, so the acting admin account is
// always present on the context.
type AdminController struct {
	admin *services.AdminService
	audit *services.AuditService
}

func NewAdminController(admin *services.AdminService, audit *services.AuditService) *AdminController {
	return &AdminController{admin: admin, audit: audit}
}

func actingAdmin(c *gin.Context) *models.Admin {
	admin, _ := c.Get(middlewares.CtxAdmin)
	return admin.(*models.Admin)
}

// Dashboard returns the region-scoped aggregates.
func (ac *AdminController) Dashboard(c *gin.Context) {
	dashboard, err := ac.admin.LoadDashboard(c.Request.Context(), actingAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "analytics": dashboard})
}

// ListIssues returns the issues within the admin's region, filtered and
// paginated. Superadmins see every region.
func (ac *AdminController) ListIssues(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	issues, pagination, err := ac.admin.ListIssues(c.Request.Context(), actingAdmin(c), services.ListIssuesQuery{
		Status:    c.Query("status"),
		Authority: c.Query("category"),
		Search:    c.Query("search"),
		Sort:      c.DefaultQuery("sort", "createdAt"),
		Order:     c.DefaultQuery("order", "desc"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"issues":     issues,
		"pagination": pagination,
	})
}

// UpdateStatus applies a status transition and writes the audit record.
func (ac *AdminController) UpdateStatus(c *gin.Context) {
	var input struct {
		Status  string `json:"status" binding:"required"`
		Comment string `json:"comment,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "invalid_request", "message": err.Error()})
		return
	}

	issue, err := ac.admin.UpdateStatus(c.Request.Context(), actingAdmin(c), c.Param("id"), input.Status, input.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Issue status updated successfully",
		"issue":   issue,
	})
}

// Delete removes an issue, recording the reason in the audit log.
func (ac *AdminController) Delete(c *gin.Context) {
	var input struct {
		Reason string `json:"reason,omitempty"`
	}
	// The body is optional on deletes.
	_ = c.ShouldBindJSON(&input)

	if err := ac.admin.DeleteIssue(c.Request.Context(), actingAdmin(c), c.Param("id"), input.Reason); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Issue deleted successfully"})
}

// ListActions returns the audit history, filterable by issue, admin, or
// action type, newest first.
func (ac *AdminController) ListActions(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	actions, pagination, err := ac.audit.List(c.Request.Context(), services.ActionQuery{
		IssueID:    c.Query("issue"),
		AdminID:    c.Query("admin"),
		ActionType: c.Query("actionType"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"actions":    actions,
		"pagination": pagination,
	})
}
