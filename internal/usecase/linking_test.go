package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/wekeepgrowing/billing-sync/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/billing-sync/internal/domain/errors"
	"go.uber.org/zap"
)

// fakeMappingStore is an in-memory IdentityMappingRepository with the same
// compare-and-insert semantics the database enforces through its unique
// index.
type fakeMappingStore struct {
	mu      sync.Mutex
	byExtID map[string]string
}

func newFakeMappingStore() *fakeMappingStore {
	return &fakeMappingStore{byExtID: make(map[string]string)}
}

func (s *fakeMappingStore) Link(_ context.Context, participant, externalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byExtID[externalID]; exists {
		return domainErrors.ErrAlreadyLinked
	}
	s.byExtID[externalID] = participant
	return nil
}

func (s *fakeMappingStore) Unlink(_ context.Context, externalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byExtID[externalID]; !exists {
		return domainErrors.ErrMappingNotFound
	}
	delete(s.byExtID, externalID)
	return nil
}

func (s *fakeMappingStore) ResolveParticipant(_ context.Context, externalID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	participant, exists := s.byExtID[externalID]
	if !exists {
		return "", domainErrors.ErrMappingNotFound
	}
	return participant, nil
}

func (s *fakeMappingStore) GetByParticipant(_ context.Context, participant string) (*entity.IdentityMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for extID, p := range s.byExtID {
		if p == participant {
			return &entity.IdentityMapping{Participant: p, ExternalID: extID}, nil
		}
	}
	return nil, nil
}

func newTestLinkService(customers, accounts *fakeMappingStore, gateway *MockGateway) *IdentityLinkService {
	return NewIdentityLinkService(customers, accounts, gateway, zap.NewNop())
}

func TestLinking_RoundTrip(t *testing.T) {
	customers := newFakeMappingStore()
	accounts := newFakeMappingStore()
	service := newTestLinkService(customers, accounts, new(MockGateway))
	ctx := context.Background()

	err := service.LinkParticipantToCustomer(ctx, "alice", "cus_1")
	assert.NoError(t, err)

	participant, err := customers.ResolveParticipant(ctx, "cus_1")
	assert.NoError(t, err)
	assert.Equal(t, "alice", participant)

	err = service.UnlinkParticipantFromCustomer(ctx, "cus_1")
	assert.NoError(t, err)

	_, err = customers.ResolveParticipant(ctx, "cus_1")
	assert.ErrorIs(t, err, domainErrors.ErrMappingNotFound)
}

func TestLinking_ExternalIDUniqueness(t *testing.T) {
	customers := newFakeMappingStore()
	accounts := newFakeMappingStore()
	service := newTestLinkService(customers, accounts, new(MockGateway))
	ctx := context.Background()

	assert.NoError(t, service.LinkParticipantToCustomer(ctx, "alice", "cus_1"))

	err := service.LinkParticipantToCustomer(ctx, "bob", "cus_1")
	assert.ErrorIs(t, err, domainErrors.ErrAlreadyLinked)

	// The first winner keeps the mapping.
	participant, err := customers.ResolveParticipant(ctx, "cus_1")
	assert.NoError(t, err)
	assert.Equal(t, "alice", participant)
}

func TestLinking_KindsAreIndependent(t *testing.T) {
	customers := newFakeMappingStore()
	accounts := newFakeMappingStore()
	service := newTestLinkService(customers, accounts, new(MockGateway))
	ctx := context.Background()

	// The same external id string in the other kind is a different identity.
	assert.NoError(t, service.LinkParticipantToCustomer(ctx, "alice", "ext_1"))
	assert.NoError(t, service.LinkParticipantToConnectedAccount(ctx, "alice", "ext_1"))

	assert.NoError(t, service.UnlinkParticipantFromConnectedAccount(ctx, "ext_1"))

	participant, err := customers.ResolveParticipant(ctx, "ext_1")
	assert.NoError(t, err)
	assert.Equal(t, "alice", participant)
}

func TestLinking_UnlinkUnknown(t *testing.T) {
	customers := newFakeMappingStore()
	accounts := newFakeMappingStore()
	service := newTestLinkService(customers, accounts, new(MockGateway))

	err := service.UnlinkParticipantFromCustomer(context.Background(), "cus_missing")
	assert.ErrorIs(t, err, domainErrors.ErrMappingNotFound)
}

func TestLinking_ConcurrentLinkOneWinner(t *testing.T) {
	customers := newFakeMappingStore()
	accounts := newFakeMappingStore()
	service := newTestLinkService(customers, accounts, new(MockGateway))
	ctx := context.Background()

	const racers = 16
	var wg sync.WaitGroup
	errs := make([]error, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = service.LinkParticipantToCustomer(ctx, "racer", "cus_race")
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, domainErrors.ErrAlreadyLinked)
		}
	}
	assert.Equal(t, 1, winners)
}

func TestProvisionCustomer(t *testing.T) {
	customers := newFakeMappingStore()
	accounts := newFakeMappingStore()
	gateway := new(MockGateway)
	gateway.On("CreateCustomer", mock.Anything, "alice@example.com").Return("cus_new", nil)

	service := newTestLinkService(customers, accounts, gateway)
	ctx := context.Background()

	customerID, err := service.ProvisionCustomer(ctx, "alice", "alice@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "cus_new", customerID)

	participant, err := customers.ResolveParticipant(ctx, "cus_new")
	assert.NoError(t, err)
	assert.Equal(t, "alice", participant)
}

func TestProvisionCustomer_GatewayFailure(t *testing.T) {
	customers := newFakeMappingStore()
	accounts := newFakeMappingStore()
	gateway := new(MockGateway)
	gateway.On("CreateCustomer", mock.Anything, "bob@example.com").
		Return("", errors.New("provider unavailable"))

	service := newTestLinkService(customers, accounts, gateway)

	_, err := service.ProvisionCustomer(context.Background(), "bob", "bob@example.com")
	assert.Error(t, err)

	// No mapping is written when customer creation fails.
	_, resolveErr := customers.ResolveParticipant(context.Background(), "cus_new")
	assert.ErrorIs(t, resolveErr, domainErrors.ErrMappingNotFound)
}
