package services

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"grocery-store/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessageFixture() (*MessageService, *fakeMessages) {
	users := newFakeUsers(
		models.User{ID: customerID, FullName: "Cathy", Role: models.RoleCustomer},
		models.User{ID: carrierID, FullName: "Karl", Role: models.RoleCarrier},
		models.User{ID: ownerID, FullName: "Olga", Role: models.RoleOwner},
	)
	messages := &fakeMessages{}
	return NewMessageService(messages, users), messages
}

func TestSendMessageRoleRules(t *testing.T) {
	svc, _ := newMessageFixture()
	ctx := context.Background()

	msg, err := svc.Send(ctx, customerID, models.RoleCustomer, models.SendMessageRequest{
		ReceiverID: ownerID, Subject: "  Late order ", Body: "Where is it?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Late order", msg.Subject)
	assert.Equal(t, "Olga", msg.ReceiverName)

	_, err = svc.Send(ctx, customerID, models.RoleCustomer, models.SendMessageRequest{
		ReceiverID: carrierID, Subject: "Hi", Body: "Hello",
	})
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = svc.Send(ctx, ownerID, models.RoleOwner, models.SendMessageRequest{
		ReceiverID: carrierID, Subject: "Route", Body: "Take order 5",
	})
	assert.NoError(t, err)
}

func TestSendMessageValidation(t *testing.T) {
	svc, _ := newMessageFixture()
	ctx := context.Background()

	cases := map[string]models.SendMessageRequest{
		"blank body":       {ReceiverID: ownerID, Subject: "Hi", Body: "   "},
		"to self":          {ReceiverID: customerID, Subject: "Hi", Body: "Me"},
		"unknown receiver": {ReceiverID: 77, Subject: "Hi", Body: "Anyone?"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Send(ctx, customerID, models.RoleCustomer, req)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestReplyGoesToOtherParticipant(t *testing.T) {
	svc, _ := newMessageFixture()
	ctx := context.Background()

	original, err := svc.Send(ctx, carrierID, models.RoleCarrier, models.SendMessageRequest{
		ReceiverID: ownerID, Subject: "Flat tyre", Body: "Delayed an hour",
	})
	require.NoError(t, err)

	reply, err := svc.Reply(ctx, ownerID, models.RoleOwner, original.ID, "Thanks")
	require.NoError(t, err)
	assert.Equal(t, carrierID, reply.ReceiverID)
	assert.Equal(t, "Re: Flat tyre", reply.Subject)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, original.ID, *reply.ParentID)

	again, err := svc.Reply(ctx, carrierID, models.RoleCarrier, reply.ID, "Back on route")
	require.NoError(t, err)
	assert.Equal(t, ownerID, again.ReceiverID)
	assert.Equal(t, "Re: Flat tyre", again.Subject)

	_, err = svc.Reply(ctx, customerID, models.RoleCustomer, original.ID, "Me too")
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestGetMarksReadForReceiverOnly(t *testing.T) {
	svc, _ := newMessageFixture()
	ctx := context.Background()

	msg, err := svc.Send(ctx, customerID, models.RoleCustomer, models.SendMessageRequest{
		ReceiverID: ownerID, Subject: "Hi", Body: "Question",
	})
	require.NoError(t, err)

	unread, err := svc.UnreadCount(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	got, err := svc.Get(ctx, customerID, msg.ID)
	require.NoError(t, err)
	assert.False(t, got.IsRead)

	got, err = svc.Get(ctx, ownerID, msg.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)

	unread, err = svc.UnreadCount(ctx, ownerID)
	require.NoError(t, err)
	assert.Zero(t, unread)

	_, err = svc.Get(ctx, carrierID, msg.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestContactsByRole(t *testing.T) {
	svc, _ := newMessageFixture()
	ctx := context.Background()

	contacts, err := svc.Contacts(ctx, customerID, models.RoleCustomer)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, ownerID, contacts[0].ID)

	contacts, err = svc.Contacts(ctx, ownerID, models.RoleOwner)
	require.NoError(t, err)
	assert.Len(t, contacts, 2)
}

func TestSubjectLengthCountsCharacters(t *testing.T) {
	svc, _ := newMessageFixture()
	ctx := context.Background()

	accented := strings.Repeat("é", 200)
	msg, err := svc.Send(ctx, customerID, models.RoleCustomer, models.SendMessageRequest{
		ReceiverID: ownerID, Subject: accented, Body: "Long subject",
	})
	require.NoError(t, err)
	assert.Equal(t, accented, msg.Subject)

	_, err = svc.Send(ctx, customerID, models.RoleCustomer, models.SendMessageRequest{
		ReceiverID: ownerID, Subject: strings.Repeat("é", maxSubjectLength+1), Body: "Too long",
	})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestReplyTruncatesOnCharacterBoundary(t *testing.T) {
	svc, _ := newMessageFixture()
	ctx := context.Background()

	original, err := svc.Send(ctx, customerID, models.RoleCustomer, models.SendMessageRequest{
		ReceiverID: ownerID, Subject: strings.Repeat("é", maxSubjectLength), Body: "Question",
	})
	require.NoError(t, err)

	reply, err := svc.Reply(ctx, ownerID, models.RoleOwner, original.ID, "Answer")
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(reply.Subject))
	assert.Equal(t, maxSubjectLength, utf8.RuneCountInString(reply.Subject))
	assert.True(t, strings.HasPrefix(reply.Subject, "Re: é"))
}

func TestDeleteHidesMessageForOneSide(t *testing.T) {
	svc, _ := newMessageFixture()
	ctx := context.Background()

	msg, err := svc.Send(ctx, customerID, models.RoleCustomer, models.SendMessageRequest{
		ReceiverID: ownerID, Subject: "Refund", Body: "Bruised apples",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, ownerID, msg.ID))

	_, err = svc.Get(ctx, ownerID, msg.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = svc.Reply(ctx, ownerID, models.RoleOwner, msg.ID, "Sorry")
	assert.ErrorIs(t, err, models.ErrNotFound)

	inbox, err := svc.Inbox(ctx, ownerID, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, inbox.Meta.TotalItems)
	unread, err := svc.UnreadCount(ctx, ownerID)
	require.NoError(t, err)
	assert.Zero(t, unread)

	got, err := svc.Get(ctx, customerID, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "Refund", got.Subject)
	sent, err := svc.Sent(ctx, customerID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, sent.Meta.TotalItems)

	_, err = svc.Reply(ctx, customerID, models.RoleCustomer, msg.ID, "Any news?")
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, carrierID, msg.ID), models.ErrNotFound)
}
