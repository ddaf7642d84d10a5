package identity

import (
	"context"
	"fmt"

	"darkitchen/internal/logger"

	"go.uber.org/zap"
)

// ExistenceChecker is the single backend call the resolver needs.
type ExistenceChecker interface {
	IdentityExists(ctx context.Context, email string) (bool, error)
}

// Resolver classifies a checkout email as an existing account or a new
// one. It has no side effects and never guesses: when the backend is
// unreachable the caller gets ErrResolutionUnavailable and must retry,
// not assume a branch.
type Resolver struct {
	backend ExistenceChecker
}

func NewResolver(backend ExistenceChecker) *Resolver {
	return &Resolver{backend: backend}
}

func (r *Resolver) Resolve(ctx context.Context, email string) (Branch, error) {
	exists, err := r.backend.IdentityExists(ctx, email)
	if err != nil {
		logger.FromCtx(ctx).Warn("identity resolution failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrResolutionUnavailable, err)
	}

	if exists {
		return BranchExisting, nil
	}
	return BranchNew, nil
}
