package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"voice-be/middlewares"
	"voice-be/models"
	"voice-be/store"
	authUtils "voice-be/utils"

	"github.com/gin-gonic/gin"
)

// AuthController handles signup and login for citizens and admins. Identity
// verification beyond this point is the auth middleware's job.
type AuthController struct {
	users     *store.Users
	admins    *store.Admins
	jwtSecret string
}

func NewAuthController(users *store.Users, admins *store.Admins, jwtSecret string) *AuthController {
	return &AuthController{users: users, admins: admins, jwtSecret: jwtSecret}
}

// Register handles citizen signup.
func (ac *AuthController) Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Phone    string `json:"phone" binding:"required,len=10,numeric"`
		Password string `json:"password" binding:"required,min=6"`
		Address  string `json:"address" binding:"required,max=200"`
		Landmark string `json:"landmark" binding:"required,max=100"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "invalid_request", "message": err.Error()})
		return
	}

	email := strings.ToLower(input.Email)
	ctx := c.Request.Context()

	count, err := ac.users.CountByEmailOrPhone(ctx, email, input.Phone)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "code": "storage_unavailable", "message": "Something went wrong"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "invalid_request", "message": "User with this email or phone already exists"})
		return
	}

	user := models.User{
		Name:      input.Name,
		Email:     email,
		Phone:     input.Phone,
		Password:  input.Password,
		Address:   input.Address,
		Landmark:  input.Landmark,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := user.HashPassword(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "code": "internal_error", "message": "Something went wrong"})
		return
	}
	if err := ac.users.Insert(ctx, &user); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "code": "storage_unavailable", "message": "Something went wrong"})
		return
	}

	token, err := authUtils.GenerateUserToken(ac.jwtSecret, user.ID.Hex())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "code": "internal_error", "message": "Something went wrong"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"phone": user.Phone,
		},
	})
}

// Login handles citizen login by email or phone.
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		EmailOrPhone string `json:"emailOrPhone" binding:"required"`
		Password     string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "invalid_request", "message": err.Error()})
		return
	}

	user, err := ac.users.FindByEmailOrPhone(c.Request.Context(), strings.ToLower(input.EmailOrPhone))
	if err != nil || !user.ComparePassword(input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "code": "unauthenticated", "message": "Invalid credentials"})
		return
	}

	token, err := authUtils.GenerateUserToken(ac.jwtSecret, user.ID.Hex())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "code": "internal_error", "message": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"phone": user.Phone,
		},
	})
}

// Me returns the authenticated user's profile.
func (ac *AuthController) Me(c *gin.Context) {
	userID, exists := c.Get(middlewares.CtxUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "code": "unauthenticated", "message": "User not authenticated"})
		return
	}

	oid, ok := parseObjectID(userID.(string))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "invalid_id", "message": "Invalid user ID"})
		return
	}

	user, err := ac.users.Get(c.Request.Context(), oid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "code": "user_not_found", "message": "User not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "code": "storage_unavailable", "message": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// AdminLogin authenticates an admin account and mints a token carrying the
// admin role and region.
func (ac *AuthController) AdminLogin(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": "invalid_request", "message": err.Error()})
		return
	}

	ctx := c.Request.Context()
	admin, err := ac.admins.FindByEmail(ctx, strings.ToLower(input.Email))
	if err != nil || !admin.ComparePassword(input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "code": "unauthenticated", "message": "Invalid credentials"})
		return
	}
	if !admin.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "code": "admin_inactive", "message": "Admin account is inactive"})
		return
	}

	token, err := authUtils.GenerateAdminToken(ac.jwtSecret, admin.ID.Hex(), string(admin.Role), admin.Region)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "code": "internal_error", "message": "Something went wrong"})
		return
	}

	// Best effort; a failed stamp must not block the login.
	_ = ac.admins.TouchLastLogin(ctx, admin.ID, time.Now().UTC())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"admin": gin.H{
			"id":     admin.ID,
			"name":   admin.Name,
			"email":  admin.Email,
			"role":   admin.Role,
			"region": admin.Region,
		},
	})
}
