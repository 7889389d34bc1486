package access

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fvnks/konecte-relay/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUsers struct {
	users []model.User
	err   error
}

func (m *mockUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.users {
		if m.users[i].ID == id {
			return &m.users[i], nil
		}
	}
	return nil, nil
}

func (m *mockUsers) FindBySuffix(_ context.Context, suffix string) (*model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.users {
		if strings.HasSuffix(m.users[i].Phone, suffix) {
			return &m.users[i], nil
		}
	}
	return nil, nil
}

func fixtureUsers() []model.User {
	return []model.User{
		{ID: 1, Name: "Valentina", Phone: "+56987654321", Plan: "pro", PhoneVerified: true, PlanWhatsApp: true},
		{ID: 2, Name: "Diego", Phone: "56955556666", Plan: "free", PhoneVerified: false, PlanWhatsApp: false},
		{ID: 3, Name: "Camila", Phone: "+56933334444", Plan: "free", PhoneVerified: true, PlanWhatsApp: false},
	}
}

func TestCheckByPhoneSuffixMatch(t *testing.T) {
	assert := assert.New(t)
	svc := New(&mockUsers{users: fixtureUsers()})

	// bare 9-digit suffix resolves the "+56..." stored record
	res, err := svc.CheckByPhone(context.Background(), "987654321")
	require.NoError(t, err)
	assert.True(res.Granted)
	assert.Equal(int64(1), res.UserID)

	// full international rendering resolves the same user
	res, err = svc.CheckByPhone(context.Background(), "+56 9 8765 4321")
	require.NoError(t, err)
	assert.True(res.Granted)
	assert.Equal(int64(1), res.UserID)
}

func TestCheckByPhoneNotVerified(t *testing.T) {
	svc := New(&mockUsers{users: fixtureUsers()})

	res, err := svc.CheckByPhone(context.Background(), "56955556666")
	require.NoError(t, err)
	assert.False(t, res.Granted)
	assert.Equal(t, ReasonNotVerified, res.Reason)
	assert.Equal(t, int64(2), res.UserID)
}

func TestCheckByPhoneNotFound(t *testing.T) {
	svc := New(&mockUsers{users: fixtureUsers()})

	_, err := svc.CheckByPhone(context.Background(), "+56900000000")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCheckByPhoneNoDigits(t *testing.T) {
	svc := New(&mockUsers{users: fixtureUsers()})

	_, err := svc.CheckByPhone(context.Background(), "not-a-phone")
	assert.ErrorIs(t, err, ErrInvalidPhone)
}

func TestCheckByPhoneRepositoryError(t *testing.T) {
	svc := New(&mockUsers{err: errors.New("mysql is down")})

	_, err := svc.CheckByPhone(context.Background(), "987654321")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

func TestCheckByIDPlanFlag(t *testing.T) {
	assert := assert.New(t)
	svc := New(&mockUsers{users: fixtureUsers()})

	res, err := svc.CheckByID(context.Background(), 1)
	require.NoError(t, err)
	assert.True(res.Granted)

	res, err = svc.CheckByID(context.Background(), 3)
	require.NoError(t, err)
	assert.False(res.Granted)
	assert.Equal(ReasonPlanLacksAccess, res.Reason)
}

func TestCheckByIDNotFound(t *testing.T) {
	svc := New(&mockUsers{users: fixtureUsers()})

	_, err := svc.CheckByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
