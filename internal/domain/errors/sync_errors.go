package errors

import "errors"

var (
	// ErrMappingNotFound indicates that no identity mapping exists for the
	// given external id.
	ErrMappingNotFound = errors.New("identity mapping not found")

	// ErrAlreadyLinked indicates that the external id is already mapped to a
	// participant.
	ErrAlreadyLinked = errors.New("external id is already linked")

	// ErrSubscriptionNotFound indicates that the provider has no subscription
	// object for the given id.
	ErrSubscriptionNotFound = errors.New("provider subscription not found")

	// ErrSubscriptionRecordNotFound indicates that no internal subscription
	// record matches the given id.
	ErrSubscriptionRecordNotFound = errors.New("subscription record not found")

	// ErrDuplicateSubscription indicates that a record with the same external
	// id already exists.
	ErrDuplicateSubscription = errors.New("subscription with this external id already exists")

	// ErrCustomerDeleted indicates that the subscription's customer was
	// deleted on the provider side.
	ErrCustomerDeleted = errors.New("provider customer is deleted")

	// ErrUnresolvableCustomer indicates that the customer reference on a raw
	// subscription carries no usable id.
	ErrUnresolvableCustomer = errors.New("cannot resolve customer reference")

	// ErrUninitializedGateway indicates that the provider gateway was
	// constructed without credentials.
	ErrUninitializedGateway = errors.New("provider gateway is not initialized")
)
