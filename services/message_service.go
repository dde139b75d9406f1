package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"grocery-store/libs"
	"grocery-store/models"

	"github.com/rs/zerolog/log"
)

const maxSubjectLength = 255

type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
	FindByID(ctx context.Context, id int) (*models.Message, error)
	Inbox(ctx context.Context, userID, page, limit int) ([]models.Message, int, error)
	Sent(ctx context.Context, userID, page, limit int) ([]models.Message, int, error)
	MarkRead(ctx context.Context, id, receiverID int) error
	CountUnread(ctx context.Context, userID int) (int, error)
	Delete(ctx context.Context, id, userID int) error
}

type MessageService struct {
	messageRepo MessageStore
	userRepo    UserStore
}

func NewMessageService(messageRepo MessageStore, userRepo UserStore) *MessageService {
	return &MessageService{messageRepo: messageRepo, userRepo: userRepo}
}

func (s *MessageService) Send(ctx context.Context, senderID int, senderRole string, req models.SendMessageRequest) (*models.Message, error) {
	subject := strings.TrimSpace(req.Subject)
	body := strings.TrimSpace(req.Body)
	if subject == "" || body == "" {
		return nil, validationError("subject and body are required")
	}
	if utf8.RuneCountInString(subject) > maxSubjectLength {
		return nil, validationError("subject is too long")
	}

	msg := &models.Message{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Subject:    subject,
		Body:       body,
	}
	if err := s.deliver(ctx, senderRole, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Reply answers a message the user sent or received; the reply goes to the
// other participant.
func (s *MessageService) Reply(ctx context.Context, userID int, role string, parentID int, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, validationError("body is required")
	}

	parent, err := s.messageRepo.FindByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if parent.DeletedBy(userID) {
		return nil, models.ErrNotFound
	}

	var receiverID int
	switch userID {
	case parent.ReceiverID:
		receiverID = parent.SenderID
	case parent.SenderID:
		receiverID = parent.ReceiverID
	default:
		return nil, models.ErrForbidden
	}

	subject := parent.Subject
	if !strings.HasPrefix(strings.ToLower(subject), "re:") {
		subject = "Re: " + subject
	}
	if runes := []rune(subject); len(runes) > maxSubjectLength {
		subject = string(runes[:maxSubjectLength])
	}

	msg := &models.Message{
		SenderID:   userID,
		ReceiverID: receiverID,
		ParentID:   &parent.ID,
		Subject:    subject,
		Body:       body,
	}
	if err := s.deliver(ctx, role, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *MessageService) deliver(ctx context.Context, senderRole string, msg *models.Message) error {
	if msg.SenderID == msg.ReceiverID {
		return validationError("cannot send a message to yourself")
	}

	receiver, err := s.userRepo.FindByID(ctx, msg.ReceiverID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return validationError("receiver does not exist")
		}
		return err
	}
	if !models.CanMessage(senderRole, receiver.Role) {
		return models.ErrForbidden
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return err
	}
	msg.ReceiverName = receiver.FullName

	libs.MessagesSent.Inc()
	log.Debug().Int("message_id", msg.ID).Int("sender_id", msg.SenderID).Int("receiver_id", msg.ReceiverID).Msg("message sent")
	return nil
}

func (s *MessageService) Inbox(ctx context.Context, userID, page, limit int) (*models.PaginationResponse, error) {
	messages, total, err := s.messageRepo.Inbox(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	return &models.PaginationResponse{
		Success: true,
		Message: "Inbox retrieved successfully",
		Data:    messages,
		Meta:    models.NewMetaData(page, limit, total),
	}, nil
}

func (s *MessageService) Sent(ctx context.Context, userID, page, limit int) (*models.PaginationResponse, error) {
	messages, total, err := s.messageRepo.Sent(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	return &models.PaginationResponse{
		Success: true,
		Message: "Sent messages retrieved successfully",
		Data:    messages,
		Meta:    models.NewMetaData(page, limit, total),
	}, nil
}

// Get returns a message to one of its participants and marks it read when
// the receiver opens it.
func (s *MessageService) Get(ctx context.Context, userID, id int) (*models.Message, error) {
	msg, err := s.messageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != userID && msg.ReceiverID != userID {
		return nil, models.ErrForbidden
	}
	if msg.DeletedBy(userID) {
		return nil, models.ErrNotFound
	}

	if msg.ReceiverID == userID && !msg.IsRead {
		if err := s.messageRepo.MarkRead(ctx, id, userID); err != nil {
			return nil, err
		}
		msg.IsRead = true
	}
	return msg, nil
}

func (s *MessageService) UnreadCount(ctx context.Context, userID int) (int, error) {
	return s.messageRepo.CountUnread(ctx, userID)
}

func (s *MessageService) Delete(ctx context.Context, userID, id int) error {
	return s.messageRepo.Delete(ctx, id, userID)
}

// Contacts lists who the user may write to.
func (s *MessageService) Contacts(ctx context.Context, userID int, role string) ([]models.Contact, error) {
	roles := []string{models.RoleOwner}
	if role == models.RoleOwner {
		roles = []string{models.RoleCustomer, models.RoleCarrier, models.RoleOwner}
	}
	return s.userRepo.ListContacts(ctx, roles, userID)
}
