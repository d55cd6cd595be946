package ingest

import "errors"

var (
	// ErrSignatureInvalid indicates the webhook signature did not match
	// the digest computed with the tenant's secret
	ErrSignatureInvalid = errors.New("ingest: invalid webhook signature")

	// ErrTenantNotFound indicates no tenant is registered for the shop domain
	ErrTenantNotFound = errors.New("ingest: tenant not found")

	// ErrTenantInactive indicates the tenant exists but ingestion is disabled
	ErrTenantInactive = errors.New("ingest: tenant is inactive")

	// ErrMalformedPayload indicates the payload could not be decoded or
	// is missing its required external identifier
	ErrMalformedPayload = errors.New("ingest: malformed payload")

	// ErrStoreConflict indicates a concurrent write raced the upsert;
	// it is retried internally and never surfaces to callers
	ErrStoreConflict = errors.New("ingest: store conflict")

	// ErrUpstreamUnavailable indicates the storefront API could not be
	// reached or answered with a failure
	ErrUpstreamUnavailable = errors.New("ingest: upstream unavailable")
)
