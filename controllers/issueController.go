package controllers

import (
	"net/http"
	"strconv"

	"voice-be/middlewares"
	"voice-be/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func parseObjectID(s string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(s)
	return oid, err == nil
}

// IssueController serves the citizen issue surface, including the upvote
// ledger endpoints.
type IssueController struct {
	issues  *services.IssueService
	upvotes *services.UpvoteService
}

func NewIssueController(issues *services.IssueService, upvotes *services.UpvoteService) *IssueController {
	return &IssueController{issues: issues, upvotes: upvotes}
}

// Create handles the reporting of a new issue.
func (ic *IssueController) Create(c *gin.Context) {
	userID, exists := c.Get(middlewares.CtxUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "code": "unauthenticated", "message": "User not authenticated"})
		return
	}

	var input struct {
		Title            string    `json:"title" binding:"required,max=200"`
		Description      string    `json:"description" binding:"required,max=2000"`
		ConcernAuthority string    `json:"concernAuthority" binding:"required,max=100"`
		Colony           string    `json:"colony" binding:"required,max=100"`
		Pincode          string    `json:"pincode" binding:"required,max=10"`
		Priority         string    `json:"priority,omitempty"`
		Images           []string  `json:"images,omitempty"`
		Tags             []string  `json:"tags,omitempty"`
		Coordinates      []float64 `json:"coordinates,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "invalid_request", "message": err.Error()})
		return
	}

	issue, err := ic.issues.Create(c.Request.Context(), userID.(string), services.CreateIssueInput{
		Title:            input.Title,
		Description:      input.Description,
		ConcernAuthority: input.ConcernAuthority,
		Colony:           input.Colony,
		Pincode:          input.Pincode,
		Priority:         input.Priority,
		Images:           input.Images,
		Tags:             input.Tags,
		Coordinates:      input.Coordinates,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "issue": issue})
}

// List returns the public issue feed.
func (ic *IssueController) List(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "0"), 10, 64)

	issues, err := ic.issues.List(c.Request.Context(), c.Query("sort"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "issues": issues})
}

// Get returns a single issue. When the caller is authenticated, the response
// reports whether they hold an upvote on it.
func (ic *IssueController) Get(c *gin.Context) {
	issue, err := ic.issues.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{"success": true, "issue": issue}
	if name := ic.issues.ReporterName(c.Request.Context(), issue); name != "" {
		response["reporterName"] = name
	}
	if userID, exists := c.Get(middlewares.CtxUserID); exists {
		response["userHasUpvoted"] = false
		if oid, ok := parseObjectID(userID.(string)); ok {
			if _, upvoted := issue.HasUpvote(oid); upvoted {
				response["userHasUpvoted"] = true
			}
		}
	}

	c.JSON(http.StatusOK, response)
}

// Analytics returns the public platform counters.
func (ic *IssueController) Analytics(c *gin.Context) {
	analytics, err := ic.issues.Analytics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"totalIssues":    analytics.TotalIssues,
		"resolvedIssues": analytics.ResolvedIssues,
		"pendingIssues":  analytics.PendingIssues,
		"totalUsers":     analytics.TotalUsers,
	})
}

// Upvote adds the caller's upvote to an issue.
func (ic *IssueController) Upvote(c *gin.Context) {
	userID, exists := c.Get(middlewares.CtxUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "code": "unauthenticated", "message": "User not authenticated"})
		return
	}

	result, err := ic.upvotes.AddUpvote(c.Request.Context(), c.Param("id"), userID.(string))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Upvote added successfully",
		"upvoteCount": result.UpvoteCount,
		"upvotedAt":   result.UpvotedAt,
		"canUndo":     result.CanUndo,
	})
}

// RemoveUpvote retracts the caller's upvote within the undo window.
func (ic *IssueController) RemoveUpvote(c *gin.Context) {
	userID, exists := c.Get(middlewares.CtxUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "code": "unauthenticated", "message": "User not authenticated"})
		return
	}

	count, err := ic.upvotes.RemoveUpvote(c.Request.Context(), c.Param("id"), userID.(string))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Upvote removed successfully",
		"upvoteCount": count,
	})
}
