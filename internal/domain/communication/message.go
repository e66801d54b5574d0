package communication

import (
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
)

const (
	MessageSent      = "sent"
	MessageDelivered = "delivered"
	MessageRead      = "read"
)

var messageTypes = []string{"text", "image", "file"}

// ParseMessageType defaults an empty type to text.
func ParseMessageType(s string) (string, error) {
	if s == "" {
		return "text", nil
	}
	return oneOf("type", s, messageTypes)
}

func isParticipant(m *models.Message, userID uint) bool {
	return m.SenderID == userID || m.ReceiverID == userID
}

// CanView allows the two participants and admins.
func CanView(m *models.Message, userID uint, admin bool) error {
	if admin || isParticipant(m, userID) {
		return nil
	}
	return httperr.ErrForbidden("Not authorized to access this message")
}

// CanEdit allows only the sender to change the content.
func CanEdit(m *models.Message, userID uint) error {
	if m.SenderID != userID {
		return httperr.ErrForbidden("Not authorized to update this message")
	}
	return nil
}

func CanDelete(m *models.Message, userID uint) error {
	if !isParticipant(m, userID) {
		return httperr.ErrForbidden("Not authorized to delete this message")
	}
	return nil
}

// MarkRead flags the message read. Only the receiver may do it.
func MarkRead(m *models.Message, userID uint) error {
	if m.ReceiverID != userID {
		return httperr.ErrForbidden("Not authorized to mark this message as read")
	}
	m.IsRead = true
	m.Status = MessageRead
	return nil
}
