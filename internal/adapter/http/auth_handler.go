package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gabzlaundry/gab/configs"
	domain "github.com/gabzlaundry/gab/internal/entity"
	"github.com/gabzlaundry/gab/internal/security"
	"github.com/gabzlaundry/gab/internal/usecase"
)

type AuthHandler struct {
	cfg   configs.Config
	users usecase.UserDirectory
}

func NewAuthHandler(cfg configs.Config, users usecase.UserDirectory) *AuthHandler {
	return &AuthHandler{cfg: cfg, users: users}
}

type registerReq struct {
	Email     string       `json:"email" binding:"required"`
	Password  string       `json:"password" binding:"required"`
	FirstName string       `json:"firstName" binding:"required"`
	LastName  string       `json:"lastName"`
	Phone     domain.Phone `json:"phone"`
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a customer account and signs it in.
// POST /v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	h.createAccount(c, domain.RoleCustomer)
}

// CreateStaff creates a staff account. Owner only.
// POST /v1/staff
func (h *AuthHandler) CreateStaff(c *gin.Context) {
	h.createAccount(c, domain.RoleStaff)
}

func (h *AuthHandler) createAccount(c *gin.Context, role domain.Role) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, domain.Errorf(domain.EINVALID, "malformed registration payload"))
		return
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		fail(c, domain.Errorf(domain.EINVALID, "%s", err))
		return
	}

	u := &domain.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         role,
		PasswordHash: hash,
	}
	if err := u.Validate(); err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.users.Create(ctx, u); err != nil {
		fail(c, err)
		return
	}

	signed, expiresIn, err := h.issueToken(u)
	if err != nil {
		fail(c, domain.WrapError(err, domain.EINTERNAL, "could not issue token"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":         userBody(u),
		"access_token": signed,
		"token_type":   "Bearer",
		"expires_in":   expiresIn,
	})
}

// Login verifies credentials and issues a JWT.
// POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, domain.Errorf(domain.EINVALID, "malformed login payload"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	// Unknown email and wrong password answer identically.
	u, err := h.users.GetByEmail(ctx, req.Email)
	if err != nil || !security.CheckPassword(u.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	signed, expiresIn, err := h.issueToken(u)
	if err != nil {
		fail(c, domain.WrapError(err, domain.EINTERNAL, "could not issue token"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":         userBody(u),
		"access_token": signed,
		"token_type":   "Bearer",
		"expires_in":   expiresIn,
	})
}

func (h *AuthHandler) issueToken(u *domain.User) (string, int64, error) {
	now := time.Now()
	ttl := h.cfg.Security.TokenTTL
	claims := jwt.MapClaims{
		"iss":   h.cfg.Security.Issuer,   // issuer
		"aud":   h.cfg.Security.Audience, // audience
		"iat":   now.Unix(),              // issued at
		"nbf":   now.Unix(),              // not before
		"exp":   now.Add(ttl).Unix(),     // expire
		"sub":   u.ID,
		"role":  string(u.Role),
		"perms": security.PermissionsFor(u.Role),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.Security.JWTSecret))
	if err != nil {
		return "", 0, err
	}
	return signed, int64(ttl.Seconds()), nil
}

func userBody(u *domain.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"email":     u.Email,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"phone":     u.Phone.Normalize(),
		"role":      u.Role,
	}
}
