package integration

import "errors"

var (
	// Channel errors
	ErrChannelNotConfigured   = errors.New("integration: channel not configured")
	ErrChannelNotEnabled      = errors.New("integration: channel not enabled")
	ErrChannelUnavailable     = errors.New("integration: channel temporarily unavailable")
	ErrChannelRequestFailed   = errors.New("integration: channel request failed")
	ErrChannelInvalidResponse = errors.New("integration: invalid channel response")
	ErrChannelAuthFailed      = errors.New("integration: channel authentication failed")
	ErrChannelRateLimited     = errors.New("integration: channel rate limited")
	ErrInvalidChannelCode     = errors.New("integration: invalid channel code")

	// Mirror errors
	ErrRemoteProductNotFound   = errors.New("integration: remote product not found")
	ErrRemoteProductNotCreated = errors.New("integration: remote product was never successfully created")
	ErrVariationParentMissing  = errors.New("integration: variation has no remote parent product")
	ErrRuleMissing             = errors.New("integration: product has no properties rule; cannot sync")

	// Queue errors
	ErrTaskNotFound     = errors.New("integration: queue task not found")
	ErrTaskNotRetryable = errors.New("integration: queue task exceeded its retry ceiling")
	ErrTaskInvalidState = errors.New("integration: queue task state does not allow this transition")
)
