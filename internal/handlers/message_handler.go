package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gardenpro/landscape-api/internal/domain/communication"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/httpresp"
	"github.com/gardenpro/landscape-api/internal/middleware"
	"github.com/gardenpro/landscape-api/internal/models"
	"github.com/gardenpro/landscape-api/internal/query"
)

type MessageHandler struct {
	db *gorm.DB
}

func NewMessageHandler(db *gorm.DB) *MessageHandler {
	return &MessageHandler{db: db}
}

var messageQuery = query.Options{
	Columns: map[string]string{
		"id":         "id",
		"senderId":   "sender_id",
		"receiverId": "receiver_id",
		"type":       "type",
		"status":     "status",
		"isRead":     "is_read",
		"createdAt":  "created_at",
	},
	Searchable:  []string{"content"},
	DefaultSort: "-createdAt",
}

var messagePreloads = []string{"Sender", "Receiver"}

type createMessageRequest struct {
	ReceiverID uint              `json:"receiverId"`
	Content    string            `json:"content"`
	Type       string            `json:"type"`
	Metadata   datatypes.JSONMap `json:"metadata"`
}

type updateMessageRequest struct {
	Content  *string            `json:"content"`
	Metadata *datatypes.JSONMap `json:"metadata"`
}

func (h *MessageHandler) Create(c *gin.Context) {
	var req createMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ReceiverID == 0 || req.Content == "" {
		httperr.BadRequest(c, "Please provide receiverId and content")
		return
	}

	actor := middleware.Actor(c)
	if req.ReceiverID == actor.UserID {
		httperr.BadRequest(c, "You cannot message yourself")
		return
	}
	typ, err := communication.ParseMessageType(req.Type)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	ctx := c.Request.Context()
	var receiver models.User
	if err := h.db.WithContext(ctx).Where("id = ? AND active = ?", req.ReceiverID, true).First(&receiver).Error; err != nil {
		httperr.Handle(c, httperr.NotFoundOr(err, fmt.Sprintf("User not found with id of %d", req.ReceiverID)))
		return
	}

	m := models.Message{
		SenderID:   actor.UserID,
		ReceiverID: receiver.ID,
		Content:    req.Content,
		Type:       typ,
		Status:     communication.MessageSent,
		Metadata:   req.Metadata,
	}
	if err := h.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	created, err := h.load(c, m.ID)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.Created(c, created)
}

// List returns the caller's sent and received messages. Admins see all.
func (h *MessageHandler) List(c *gin.Context) {
	p, err := query.Parse(c.Request.URL.Query(), messageQuery)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	db := h.db
	if actor := middleware.Actor(c); !actor.IsAdmin() {
		db = db.Where("(sender_id = ? OR receiver_id = ?)", actor.UserID, actor.UserID)
	}

	items, page, err := query.Find[models.Message](c.Request.Context(), db, p, messagePreloads...)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.Page(c, items, page)
}

func (h *MessageHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	m, err := h.load(c, id)
	if err == nil {
		actor := middleware.Actor(c)
		err = communication.CanView(m, actor.UserID, actor.IsAdmin())
	}
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.OK(c, m)
}

func (h *MessageHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req updateMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Content != nil && *req.Content == "" {
		httperr.BadRequest(c, "Message content cannot be empty")
		return
	}

	err := h.mutate(c, id, func(m *models.Message, userID uint) error {
		if err := communication.CanEdit(m, userID); err != nil {
			return err
		}
		if req.Content != nil {
			m.Content = *req.Content
		}
		if req.Metadata != nil {
			m.Metadata = *req.Metadata
		}
		return nil
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	h.respond(c, id)
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.mutate(c, id, communication.MarkRead); err != nil {
		httperr.Handle(c, err)
		return
	}
	h.respond(c, id)
}

func (h *MessageHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	userID := middleware.Actor(c).UserID
	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var m models.Message
		if err := tx.First(&m, id).Error; err != nil {
			return httperr.NotFoundOr(err, fmt.Sprintf("No message found with id of %d", id))
		}
		if err := communication.CanDelete(&m, userID); err != nil {
			return err
		}
		return tx.Delete(&m).Error
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.Deleted(c)
}

// mutate loads the message under lock, applies fn and saves it.
func (h *MessageHandler) mutate(c *gin.Context, id uint, fn func(m *models.Message, userID uint) error) error {
	userID := middleware.Actor(c).UserID
	return h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var m models.Message
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, id).Error; err != nil {
			return httperr.NotFoundOr(err, fmt.Sprintf("No message found with id of %d", id))
		}
		if err := fn(&m, userID); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(&m).Error
	})
}

func (h *MessageHandler) respond(c *gin.Context, id uint) {
	m, err := h.load(c, id)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.OK(c, m)
}

func (h *MessageHandler) load(c *gin.Context, id uint) (*models.Message, error) {
	var m models.Message
	q := h.db.WithContext(c.Request.Context())
	for _, p := range messagePreloads {
		q = q.Preload(p)
	}
	if err := q.First(&m, id).Error; err != nil {
		return nil, httperr.NotFoundOr(err, fmt.Sprintf("No message found with id of %d", id))
	}
	return &m, nil
}
