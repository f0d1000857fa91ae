package usecase

import (
	"context"
	"fmt"

	"github.com/wekeepgrowing/billing-sync/internal/domain/provider"
	domainRepo "github.com/wekeepgrowing/billing-sync/internal/domain/repository"
	"go.uber.org/zap"
)

// IdentityLinkService manages the participant to external-identity mappings.
// Unlike the sync engine, these operations propagate errors: onboarding flows
// need to react to ErrAlreadyLinked and ErrMappingNotFound.
type IdentityLinkService struct {
	customerMappings         domainRepo.IdentityMappingRepository
	connectedAccountMappings domainRepo.IdentityMappingRepository
	gateway                  provider.Gateway
	logger                   *zap.Logger
}

// NewIdentityLinkService creates a new identity link service instance
func NewIdentityLinkService(
	customerMappings domainRepo.IdentityMappingRepository,
	connectedAccountMappings domainRepo.IdentityMappingRepository,
	gateway provider.Gateway,
	logger *zap.Logger,
) *IdentityLinkService {
	return &IdentityLinkService{
		customerMappings:         customerMappings,
		connectedAccountMappings: connectedAccountMappings,
		gateway:                  gateway,
		logger:                   logger,
	}
}

// LinkParticipantToCustomer binds a participant to an external customer id.
func (s *IdentityLinkService) LinkParticipantToCustomer(ctx context.Context, participant, externalCustomerID string) error {
	if err := s.customerMappings.Link(ctx, participant, externalCustomerID); err != nil {
		return err
	}
	s.logger.Info("Participant linked to customer",
		zap.String("participant", participant),
		zap.String("customer_id", externalCustomerID))
	return nil
}

// LinkParticipantToConnectedAccount binds a participant to an external
// connected-account id.
func (s *IdentityLinkService) LinkParticipantToConnectedAccount(ctx context.Context, participant, externalAccountID string) error {
	if err := s.connectedAccountMappings.Link(ctx, participant, externalAccountID); err != nil {
		return err
	}
	s.logger.Info("Participant linked to connected account",
		zap.String("participant", participant),
		zap.String("account_id", externalAccountID))
	return nil
}

// UnlinkParticipantFromCustomer removes the customer mapping for the external
// id.
func (s *IdentityLinkService) UnlinkParticipantFromCustomer(ctx context.Context, externalCustomerID string) error {
	return s.customerMappings.Unlink(ctx, externalCustomerID)
}

// UnlinkParticipantFromConnectedAccount removes the connected-account mapping
// for the external id.
func (s *IdentityLinkService) UnlinkParticipantFromConnectedAccount(ctx context.Context, externalAccountID string) error {
	return s.connectedAccountMappings.Unlink(ctx, externalAccountID)
}

// ProvisionCustomer creates a provider customer for the participant and links
// it. The created customer id is returned so callers can hand it to checkout
// flows.
func (s *IdentityLinkService) ProvisionCustomer(ctx context.Context, participant, email string) (string, error) {
	customerID, err := s.gateway.CreateCustomer(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to create provider customer: %w", err)
	}

	if err := s.LinkParticipantToCustomer(ctx, participant, customerID); err != nil {
		return "", err
	}
	return customerID, nil
}
