package prefs

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/agimports/storefront-backend/pkg/errors"
	"github.com/agimports/storefront-backend/pkg/observe"
)

const hiddenProductsSet = "hidden_products"

type prefsStore interface {
	SAdd(ctx context.Context, key string, members ...any) error
	SRem(ctx context.Context, key string, members ...any) error
	SMembers(ctx context.Context, key string) ([]string, error)
	PrefsKey(userID, name string) string
}

type eventPublisher interface {
	Publish(event observe.Event)
}

// Service manages per-user storefront preferences. Today that is the
// hidden-products set backing the catalog's exclusion filter.
type Service interface {
	HiddenProducts(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]struct{}, error)
	HiddenProductIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	HideProduct(ctx context.Context, userID, productID uuid.UUID) error
	UnhideProduct(ctx context.Context, userID, productID uuid.UUID) error
}

// ServiceParams groups dependencies for the prefs service.
type ServiceParams struct {
	Store prefsStore
	Hub   eventPublisher
}

type service struct {
	store prefsStore
	hub   eventPublisher
}

// NewService builds a prefs service backed by Redis.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("prefs store is required")
	}
	return &service{
		store: params.Store,
		hub:   params.Hub,
	}, nil
}

// HiddenProducts loads the user's hidden set as a membership map for the
// catalog pipeline.
func (s *service) HiddenProducts(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	ids, err := s.HiddenProductIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// HiddenProductIDs loads the user's hidden set in storage order. Entries that
// no longer parse as UUIDs are skipped.
func (s *service) HiddenProductIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	members, err := s.store.SMembers(ctx, s.key(userID))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load hidden products")
	}
	ids := make([]uuid.UUID, 0, len(members))
	for _, member := range members {
		id, err := uuid.Parse(member)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// HideProduct adds the product to the user's hidden set and broadcasts the
// new set size. Hiding an already-hidden product is a no-op.
func (s *service) HideProduct(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.validate(userID, productID); err != nil {
		return err
	}
	if err := s.store.SAdd(ctx, s.key(userID), productID.String()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "hide product")
	}
	s.publish(ctx, userID)
	return nil
}

// UnhideProduct removes the product from the hidden set; idempotent.
func (s *service) UnhideProduct(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.validate(userID, productID); err != nil {
		return err
	}
	if err := s.store.SRem(ctx, s.key(userID), productID.String()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unhide product")
	}
	s.publish(ctx, userID)
	return nil
}

func (s *service) validate(userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return nil
}

func (s *service) key(userID uuid.UUID) string {
	return s.store.PrefsKey(userID.String(), hiddenProductsSet)
}

func (s *service) publish(ctx context.Context, userID uuid.UUID) {
	if s.hub == nil {
		return
	}
	ids, err := s.HiddenProductIDs(ctx, userID)
	if err != nil {
		return
	}
	s.hub.Publish(observe.Event{
		Topic:   observe.TopicHiddenProducts,
		UserID:  userID,
		Count:   len(ids),
		Payload: ids,
	})
}
