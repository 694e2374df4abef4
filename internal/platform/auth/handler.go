package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &AuthHandler{svc: svc}
	r.POST("/auth/login", h.Login)
	r.POST("/auth/register", h.Register)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request"})
		return
	}

	token, role, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "email or password is incorrect"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"role":    role,
		"message": "login successful",
	})
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"` // "hr" | "employee"

	// HR登録時のみ
	CompanyName *string `json:"company_name,omitempty"`
	LogoURL     *string `json:"logo_url,omitempty"`
	PackageTier *string `json:"package_tier,omitempty"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request"})
		return
	}

	var err error
	switch req.Role {
	case RoleEmployee:
		err = h.svc.RegisterEmployee(c.Request.Context(), req.Email, req.Name, req.Password)
	case RoleHR:
		if req.CompanyName == nil || req.PackageTier == nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "company_name and package_tier are required for hr"})
			return
		}
		err = h.svc.RegisterHR(c.Request.Context(), req.Email, req.Name, req.Password, *req.CompanyName, req.LogoURL, *req.PackageTier)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "role must be hr or employee"})
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "account already exists"})
		case errors.Is(err, ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "missing or malformed fields"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "registration failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "registered"})
}
