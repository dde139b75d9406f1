package models

import "time"

type Message struct {
	ID              int       `json:"id"`
	SenderID        int       `json:"sender_id"`
	SenderName      string    `json:"sender_name,omitempty"`
	ReceiverID      int       `json:"receiver_id"`
	ReceiverName    string    `json:"receiver_name,omitempty"`
	ParentID        *int      `json:"parent_id,omitempty"`
	Subject         string    `json:"subject"`
	Body            string    `json:"body"`
	IsRead          bool      `json:"is_read"`
	SenderDeleted   bool      `json:"-"`
	ReceiverDeleted bool      `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

// DeletedBy reports whether userID removed the message from their side.
func (m Message) DeletedBy(userID int) bool {
	return (m.SenderID == userID && m.SenderDeleted) || (m.ReceiverID == userID && m.ReceiverDeleted)
}

// CanMessage reports whether a user with senderRole may write to receiverRole.
// Customers and carriers only talk to the owner.
func CanMessage(senderRole, receiverRole string) bool {
	if senderRole == RoleOwner {
		return ValidRole(receiverRole)
	}
	if senderRole == RoleCustomer || senderRole == RoleCarrier {
		return receiverRole == RoleOwner
	}
	return false
}
