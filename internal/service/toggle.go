package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/d60-Lab/moments/internal/repository"
	"github.com/d60-Lab/moments/pkg/errcode"
	"github.com/d60-Lab/moments/pkg/metrics"
)

// Toggler flips an (actor, target) relation: delete it if present, create it otherwise.
// Existence is decided by the delete itself, so there is no read-then-write window.
type Toggler struct {
	name string
	repo repository.RelationRepository
}

func NewToggler(name string, repo repository.RelationRepository) *Toggler {
	return &Toggler{name: name, repo: repo}
}

// Toggle returns true when the relation now exists.
func (t *Toggler) Toggle(ctx context.Context, actorID, targetID string) (bool, error) {
	if actorID == "" {
		return false, errcode.ErrUnauthenticated
	}

	err := t.repo.Delete(ctx, actorID, targetID)
	switch {
	case err == nil:
		metrics.ObserveToggle(t.name, false)
		return false, nil
	case errors.Is(err, repository.ErrNotFound):
		if err := t.repo.Create(ctx, actorID, targetID); err != nil {
			return false, storeErr(t.failure(), err)
		}
		metrics.ObserveToggle(t.name, true)
		return true, nil
	default:
		return false, storeErr(t.failure(), err)
	}
}

func (t *Toggler) failure() string {
	return fmt.Sprintf("An error occurred while toggling the %s.", t.name)
}
