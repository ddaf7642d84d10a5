package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockChecker struct {
	mock.Mock
}

func (m *MockChecker) IdentityExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func TestResolver_Resolve(t *testing.T) {
	t.Run("Known email resolves to existing", func(t *testing.T) {
		backend := new(MockChecker)
		backend.On("IdentityExists", mock.Anything, "jean@example.com").Return(true, nil)

		branch, err := NewResolver(backend).Resolve(context.Background(), "jean@example.com")

		assert.NoError(t, err)
		assert.Equal(t, BranchExisting, branch)
	})

	t.Run("Unknown email resolves to new", func(t *testing.T) {
		backend := new(MockChecker)
		backend.On("IdentityExists", mock.Anything, "new@example.com").Return(false, nil)

		branch, err := NewResolver(backend).Resolve(context.Background(), "new@example.com")

		assert.NoError(t, err)
		assert.Equal(t, BranchNew, branch)
	})

	t.Run("Backend failure never picks a branch", func(t *testing.T) {
		backend := new(MockChecker)
		backend.On("IdentityExists", mock.Anything, mock.Anything).
			Return(false, errors.New("connection refused"))

		branch, err := NewResolver(backend).Resolve(context.Background(), "jean@example.com")

		assert.ErrorIs(t, err, ErrResolutionUnavailable)
		assert.Empty(t, branch)
	})
}
