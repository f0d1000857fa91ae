package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	domainErrors "github.com/wekeepgrowing/billing-sync/internal/domain/errors"
	domainRepo "github.com/wekeepgrowing/billing-sync/internal/domain/repository"
	"github.com/wekeepgrowing/billing-sync/internal/middleware/auth"
	"github.com/wekeepgrowing/billing-sync/internal/usecase"
	"go.uber.org/zap"
)

// AccountHandler exposes the identity-linking operations and the
// participant's subscription data. Linking errors propagate to the caller so
// onboarding flows can react to conflicts.
type AccountHandler struct {
	logger           *zap.Logger
	linkService      *usecase.IdentityLinkService
	subscriptionRepo domainRepo.SubscriptionRepository
}

func NewAccountHandler(
	logger *zap.Logger,
	linkService *usecase.IdentityLinkService,
	subscriptionRepo domainRepo.SubscriptionRepository,
) *AccountHandler {
	return &AccountHandler{
		logger:           logger,
		linkService:      linkService,
		subscriptionRepo: subscriptionRepo,
	}
}

type provisionCustomerRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type linkRequest struct {
	ExternalID string `json:"external_id" validate:"required"`
}

// ProvisionCustomer creates a provider customer for the authenticated
// participant and links it.
func (h *AccountHandler) ProvisionCustomer(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req provisionCustomerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	customerID, err := h.linkService.ProvisionCustomer(c.Request().Context(), user.Participant, req.Email)
	if err != nil {
		return h.linkError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"customer_id": customerID})
}

// LinkCustomer binds the authenticated participant to an existing external
// customer id.
func (h *AccountHandler) LinkCustomer(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req linkRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.linkService.LinkParticipantToCustomer(c.Request().Context(), user.Participant, req.ExternalID); err != nil {
		return h.linkError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"linked": true})
}

// UnlinkCustomer removes the customer mapping for the given external id.
func (h *AccountHandler) UnlinkCustomer(c echo.Context) error {
	if _, err := auth.RequireAuth(c); err != nil {
		return err
	}

	externalID := c.Param("id")
	if err := h.linkService.UnlinkParticipantFromCustomer(c.Request().Context(), externalID); err != nil {
		return h.linkError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"unlinked": true})
}

// LinkConnectedAccount binds the authenticated participant to an external
// connected-account id.
func (h *AccountHandler) LinkConnectedAccount(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req linkRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.linkService.LinkParticipantToConnectedAccount(c.Request().Context(), user.Participant, req.ExternalID); err != nil {
		return h.linkError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"linked": true})
}

// UnlinkConnectedAccount removes the connected-account mapping for the given
// external id.
func (h *AccountHandler) UnlinkConnectedAccount(c echo.Context) error {
	if _, err := auth.RequireAuth(c); err != nil {
		return err
	}

	externalID := c.Param("id")
	if err := h.linkService.UnlinkParticipantFromConnectedAccount(c.Request().Context(), externalID); err != nil {
		return h.linkError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"unlinked": true})
}

// GetSubscriptions returns the authenticated participant's subscription
// records.
func (h *AccountHandler) GetSubscriptions(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	subscriptions, err := h.subscriptionRepo.GetByParticipant(c.Request().Context(), user.Participant)
	if err != nil {
		h.logger.Error("Failed to get subscriptions",
			zap.String("participant", user.Participant),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get subscriptions"})
	}

	return c.JSON(http.StatusOK, echo.Map{"subscriptions": subscriptions})
}

// linkError maps the linking error taxonomy onto HTTP statuses.
func (h *AccountHandler) linkError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domainErrors.ErrAlreadyLinked):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "External id is already linked",
			"code":  "ALREADY_LINKED",
		})
	case errors.Is(err, domainErrors.ErrMappingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "No mapping found for external id",
			"code":  "MAPPING_NOT_FOUND",
		})
	default:
		h.logger.Error("Linking operation failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal error"})
	}
}
