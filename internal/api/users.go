package api

import (
	"net/http" // HTTP status codes
	"regexp"   // Regular expressions
	"strconv"  // Header values
	"strings"  // String manipulation

	"wallet_ledger/internal/cache"  // Cache invalidation
	"wallet_ledger/internal/ledger" // Ledger engine

	"github.com/gin-gonic/gin" // Gin web framework
)

// UserCreateRequest is the body of POST /users/
type UserCreateRequest struct {
	Username    string  `json:"username" binding:"required,min=3,max=50"` // Username must be provided
	Email       string  `json:"email" binding:"required,email,max=100"`   // Email must be valid
	Password    string  `json:"password" binding:"required,min=8,max=72"` // bcrypt accepts at most 72 bytes
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=15"`  // Optional phone number
}

// UserUpdateRequest is the body of PUT /users/{id}; absent fields are left untouched
type UserUpdateRequest struct {
	Username    *string `json:"username" binding:"omitempty,min=3,max=50"` // New username
	Email       *string `json:"email" binding:"omitempty,email,max=100"`   // New email
	Password    *string `json:"password" binding:"omitempty,min=8,max=72"` // New password
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=15"`   // New phone number
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// isValidUsername checks if the username contains only letters, digits and underscores
func isValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// CreateUserHandler registers a user and their wallet
func CreateUserHandler(l *ledger.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UserCreateRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			badRequest(c, "Invalid request: "+err.Error())
			return
		}
		// Validate username
		if !isValidUsername(req.Username) {
			badRequest(c, "Username may contain only letters, digits and underscores")
			return
		}
		// Create user with lowercase username and email to ensure uniqueness
		user, err := l.CreateUser(c.Request.Context(), ledger.UserCreate{
			Username:    strings.ToLower(req.Username),
			Email:       strings.ToLower(req.Email),
			Password:    req.Password,
			PhoneNumber: req.PhoneNumber,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user) // Return created user
	}
}

// GetUserHandler returns one user
func GetUserHandler(l *ledger.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		user, err := l.GetUser(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// ListUsersHandler returns one page of users; pagination details go in headers
func ListUsersHandler(l *ledger.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := l.ListUsers(c.Request.Context(), queryInt(c, "page"), queryInt(c, "page_size"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("X-Total-Count", strconv.FormatInt(page.Total, 10)) // Total number of users
		c.Header("X-Page", strconv.Itoa(page.Page))                  // Current page
		c.Header("X-Page-Size", strconv.Itoa(page.PageSize))         // Page size
		c.Header("X-Total-Pages", strconv.Itoa(page.TotalPages))     // Total pages
		c.JSON(http.StatusOK, page.Items)
	}
}

// UpdateUserHandler merges the provided fields into a user
func UpdateUserHandler(l *ledger.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req UserUpdateRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request: "+err.Error())
			return
		}
		update := ledger.UserUpdate{Password: req.Password, PhoneNumber: req.PhoneNumber}
		if req.Username != nil {
			if !isValidUsername(*req.Username) {
				badRequest(c, "Username may contain only letters, digits and underscores")
				return
			}
			username := strings.ToLower(*req.Username)
			update.Username = &username
		}
		if req.Email != nil {
			email := strings.ToLower(*req.Email)
			update.Email = &email
		}
		user, err := l.UpdateUser(c.Request.Context(), id, update)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// DeleteUserHandler removes a user with their wallet and transactions
func DeleteUserHandler(l *ledger.Engine, store cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		user, err := l.DeleteUser(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c.Request.Context(), store, id) // Drop cached wallet and history
		c.JSON(http.StatusOK, user)
	}
}
