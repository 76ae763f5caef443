package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/permapi/base/ctx"
	"github.com/x-xyz/permapi/domain"
	"github.com/x-xyz/permapi/domain/admin"
	mAdmin "github.com/x-xyz/permapi/domain/admin/mocks"
	"github.com/x-xyz/permapi/domain/permission"
	mPermission "github.com/x-xyz/permapi/domain/permission/mocks"
)

var (
	approver = domain.Address("0x00000000000000000000000000000000000000aa")
	member   = domain.Address("0x00000000000000000000000000000000000000bb")
)

func TestIsAdmin(t *testing.T) {
	req := require.New(t)
	mockRepo := &mAdmin.Repo{}
	mockEvents := &mPermission.EventRepo{}
	u := New(mockRepo, mockEvents)

	mockRepo.On("FindOne", mock.Anything, member).Return(&admin.Admin{Address: member}, nil).Once()
	res, err := u.IsAdmin(ctx.Background(), member)
	req.NoError(err)
	req.True(res)

	mockRepo.On("FindOne", mock.Anything, member).Return(nil, nil).Once()
	res, err = u.IsAdmin(ctx.Background(), member)
	req.NoError(err)
	req.False(res)
}

func TestAddEmitsEvent(t *testing.T) {
	req := require.New(t)
	mockRepo := &mAdmin.Repo{}
	mockEvents := &mPermission.EventRepo{}
	u := New(mockRepo, mockEvents)

	mockRepo.On("FindOne", mock.Anything, member).Return(nil, nil).Once()
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(a admin.Admin) bool {
		return a.Address == member && a.Name == "ops"
	})).Return(nil).Once()
	mockEvents.On("Insert", mock.Anything, mock.MatchedBy(func(e *permission.Event) bool {
		return e.Type == permission.EventTypeAdminAdded && e.Approver == approver && e.Signer == member
	})).Return(nil).Once()

	req.NoError(u.Add(ctx.Background(), approver, member, "ops"))
	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestAddExistingAdminConflicts(t *testing.T) {
	req := require.New(t)
	mockRepo := &mAdmin.Repo{}
	mockEvents := &mPermission.EventRepo{}
	u := New(mockRepo, mockEvents)

	mockRepo.On("FindOne", mock.Anything, member).Return(&admin.Admin{Address: member}, nil).Once()

	req.Equal(domain.ErrConflict, u.Add(ctx.Background(), approver, member, "ops"))
}

func TestAddInvokesChangeHook(t *testing.T) {
	req := require.New(t)
	mockRepo := &mAdmin.Repo{}
	mockEvents := &mPermission.EventRepo{}
	u := New(mockRepo, mockEvents)

	called := make(chan string, 1)
	u.RegisterChangeHook(func(c ctx.Ctx, eventType string, approver, address domain.Address) {
		called <- eventType
	})

	mockRepo.On("FindOne", mock.Anything, member).Return(nil, nil).Once()
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	mockEvents.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()

	req.NoError(u.Add(ctx.Background(), approver, member, "ops"))

	select {
	case eventType := <-called:
		req.Equal(permission.EventTypeAdminAdded, eventType)
	case <-time.After(time.Second):
		t.Fatal("change hook was not invoked")
	}
}

func TestRemoveEmitsEvent(t *testing.T) {
	req := require.New(t)
	mockRepo := &mAdmin.Repo{}
	mockEvents := &mPermission.EventRepo{}
	u := New(mockRepo, mockEvents)

	mockRepo.On("Delete", mock.Anything, member).Return(nil).Once()
	mockEvents.On("Insert", mock.Anything, mock.MatchedBy(func(e *permission.Event) bool {
		return e.Type == permission.EventTypeAdminRemoved && e.Approver == approver && e.Signer == member
	})).Return(nil).Once()

	req.NoError(u.Remove(ctx.Background(), approver, member))
	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestRemoveMissingAdmin(t *testing.T) {
	req := require.New(t)
	mockRepo := &mAdmin.Repo{}
	mockEvents := &mPermission.EventRepo{}
	u := New(mockRepo, mockEvents)

	mockRepo.On("Delete", mock.Anything, member).Return(domain.ErrNotFound).Once()

	req.Equal(domain.ErrNotFound, u.Remove(ctx.Background(), approver, member))
	// no audit record for a change that did not happen
	mockEvents.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}
