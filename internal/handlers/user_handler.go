package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/dto"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/httpresp"
	"github.com/gardenpro/landscape-api/internal/middleware"
	"github.com/gardenpro/landscape-api/internal/models"
	"github.com/gardenpro/landscape-api/internal/query"
	"github.com/gardenpro/landscape-api/internal/validators"
)

type UserHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewUserHandler(db *gorm.DB, audit *audit.Dispatcher) *UserHandler {
	return &UserHandler{db: db, audit: audit}
}

var userQuery = query.Options{
	Columns: map[string]string{
		"id":        "id",
		"name":      "name",
		"email":     "email",
		"role":      "role",
		"active":    "active",
		"createdAt": "created_at",
	},
	Searchable:  []string{"name", "email"},
	DefaultSort: "-createdAt",
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role"`
	Active   *bool   `json:"active"`
	Password *string `json:"password"`
}

func (h *UserHandler) List(c *gin.Context) {
	p, err := query.Parse(c.Request.URL.Query(), userQuery)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	users, page, err := query.Find[models.User](c.Request.Context(), h.db, p)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.Page(c, dto.NewUserDTOs(users), page)
}

// Create adds an account of any role. Customer accounts get a placeholder
// profile, as on self-registration.
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Please provide name, email and password")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleCustomer
	}
	if !models.IsValidRole(role) {
		httperr.BadRequest(c, fmt.Sprintf("Invalid role %s", role))
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if !validators.IsEmail(email) {
		httperr.BadRequest(c, "Please add a valid email")
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
		Role:   role,
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
		if role != models.RoleCustomer {
			return nil
		}
		profile := models.NewPlaceholderCustomer(user.ID)
		return tx.Create(&profile).Error
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	writeAudit(h.audit, middleware.Actor(c), "user_created", "user", user.ID, gin.H{"role": role})
	httpresp.Created(c, dto.NewUserDTO(&user))
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	actor := middleware.Actor(c)
	var user models.User
	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, id).Error; err != nil {
			return httperr.NotFoundOr(err, fmt.Sprintf("User not found with id of %d", id))
		}

		if req.Name != nil && *req.Name != "" {
			user.Name = *req.Name
		}
		if req.Phone != nil {
			user.Phone = *req.Phone
		}
		if req.Role != nil {
			if !models.IsValidRole(*req.Role) {
				return httperr.ErrValidation(fmt.Sprintf("Invalid role %s", *req.Role))
			}
			if user.ID == actor.UserID && *req.Role != models.RoleAdmin {
				return httperr.ErrValidation("Admins cannot remove their own admin role")
			}
			user.Role = *req.Role
		}
		if req.Active != nil {
			if user.ID == actor.UserID && !*req.Active {
				return httperr.ErrValidation("Admins cannot deactivate themselves")
			}
			user.Active = *req.Active
		}
		if req.Password != nil {
			if len(*req.Password) < minPasswordLength {
				return httperr.ErrValidation("Password must be at least 6 characters")
			}
			if err := user.SetPassword(*req.Password); err != nil {
				return err
			}
		}
		return tx.Save(&user).Error
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	writeAudit(h.audit, actor, "user_updated", "user", id, nil)
	httpresp.OK(c, dto.NewUserDTO(&user))
}
