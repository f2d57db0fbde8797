package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"pix-link-gateway/internal/core/domain"

	"github.com/google/uuid"
)

// --- In-Memory Vendor Repo ---

type inMemoryVendorRepo struct {
	mu      sync.RWMutex
	vendors map[uuid.UUID]*domain.Vendor
}

func newInMemoryVendorRepo() *inMemoryVendorRepo {
	return &inMemoryVendorRepo{vendors: make(map[uuid.UUID]*domain.Vendor)}
}

func (r *inMemoryVendorRepo) Create(ctx context.Context, v *domain.Vendor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.vendors {
		if existing.Username == v.Username {
			return fmt.Errorf("username already exists")
		}
	}
	r.vendors[v.ID] = v
	return nil
}

func (r *inMemoryVendorRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vendor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vendors[id]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (r *inMemoryVendorRepo) GetByUsername(ctx context.Context, username string) (*domain.Vendor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.vendors {
		if v.Username == username {
			return v, nil
		}
	}
	return nil, nil
}

// --- In-Memory Link Repo ---

type inMemoryLinkRepo struct {
	mu    sync.RWMutex
	links map[string]*domain.PaymentLink // keyed by code
}

func newInMemoryLinkRepo() *inMemoryLinkRepo {
	return &inMemoryLinkRepo{links: make(map[string]*domain.PaymentLink)}
}

func (r *inMemoryLinkRepo) Create(ctx context.Context, link *domain.PaymentLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.links[link.Code]; exists {
		return domain.ErrCodeConflict
	}
	cp := *link
	r.links[link.Code] = &cp
	return nil
}

func (r *inMemoryLinkRepo) GetByCode(ctx context.Context, code string) (*domain.PaymentLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.links[code]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *inMemoryLinkRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.links[code]
	return ok, nil
}

func (r *inMemoryLinkRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.PaymentLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.PaymentLink
	for _, l := range r.links {
		if l.OwnerID != nil && *l.OwnerID == ownerID {
			result = append(result, *l)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *inMemoryLinkRepo) TouchActive(ctx context.Context, code string) (*domain.PaymentLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.links[code]
	if !ok || !l.IsActive {
		return nil, nil
	}
	l.AccessCount++
	cp := *l
	return &cp, nil
}

func (r *inMemoryLinkRepo) Deactivate(ctx context.Context, ownerID uuid.UUID, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.links[code]
	if !ok || !l.IsActive || l.OwnerID == nil || *l.OwnerID != ownerID {
		return false, nil
	}
	l.IsActive = false
	return true, nil
}

// --- In-Memory Credential Repo ---

type inMemoryCredentialRepo struct {
	mu    sync.RWMutex
	creds map[uuid.UUID]*domain.GatewayCredential
}

func newInMemoryCredentialRepo() *inMemoryCredentialRepo {
	return &inMemoryCredentialRepo{creds: make(map[uuid.UUID]*domain.GatewayCredential)}
}

func (r *inMemoryCredentialRepo) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.GatewayCredential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.creds[ownerID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *inMemoryCredentialRepo) Upsert(ctx context.Context, cred *domain.GatewayCredential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *cred
	r.creds[cred.OwnerID] = &cp
	return nil
}
