package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gardenpro/landscape-api/internal/config"
	"github.com/gardenpro/landscape-api/internal/dto"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/httpresp"
	"github.com/gardenpro/landscape-api/internal/middleware"
	"github.com/gardenpro/landscape-api/internal/models"
	"github.com/gardenpro/landscape-api/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config

	checkDomain func(email string) bool
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		db:          db,
		config:      cfg,
		checkDomain: validators.IsEmailDomainValid,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

const minPasswordLength = 6

// --------- Handlers ---------

// Register creates a customer account with a placeholder property profile.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Please provide name, email and password")
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if !validators.IsEmail(email) {
		httperr.BadRequest(c, "Please add a valid email")
		return
	}
	if !h.checkDomain(email) {
		httperr.BadRequest(c, "Email domain does not accept mail")
		return
	}
	if len(req.Password) < minPasswordLength {
		httperr.BadRequest(c, "Password must be at least 6 characters")
		return
	}

	user := models.User{
		Name:   req.Name,
		Email:  email,
		Phone:  req.Phone,
		Role:   models.RoleCustomer,
		Active: true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		httperr.Handle(c, err)
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		profile := models.NewPlaceholderCustomer(user.ID)
		return tx.Create(&profile).Error
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, &user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Please provide an email and password")
		return
	}

	var user models.User
	err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", validators.NormalizeEmail(req.Email)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Unauthorized(c, "Invalid credentials")
		return
	}
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	if !user.CheckPassword(req.Password) || !user.Active {
		httperr.Unauthorized(c, "Invalid credentials")
		return
	}

	h.respondWithToken(c, http.StatusOK, &user)
}

// Me returns the caller's account; customers also get their profile.
func (h *AuthHandler) Me(c *gin.Context) {
	actor := middleware.Actor(c)

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, actor.UserID).Error; err != nil {
		httperr.Handle(c, httperr.NotFoundOr(err, "User not found"))
		return
	}

	out := gin.H{"user": dto.NewUserDTO(&user)}
	if user.Role == models.RoleCustomer {
		var profile models.Customer
		err := h.db.WithContext(c.Request.Context()).Where("user_id = ?", user.ID).First(&profile).Error
		if err == nil {
			out["customer"] = profile
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Handle(c, err)
			return
		}
	}

	httpresp.OK(c, out)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, err := middleware.IssueToken(h.config, user.ID, user.Role, func() int64 { return time.Now().Unix() })
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	c.JSON(status, dto.AuthResponse{
		Success: true,
		Token:   token,
		User:    dto.NewUserDTO(user),
	})
}
