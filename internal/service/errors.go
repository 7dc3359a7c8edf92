package service

import "errors"

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("service: not found")
	// ErrInvalidCredentials indicates provided credentials are wrong.
	ErrInvalidCredentials = errors.New("service: invalid credentials")
	// ErrRateLimited indicates the caller exceeded allowed attempts.
	ErrRateLimited = errors.New("service: rate limited")
	// ErrAccountDisabled indicates the account is disabled.
	ErrAccountDisabled = errors.New("service: account disabled")
	// ErrUnauthorized indicates missing or invalid auth tokens.
	ErrUnauthorized = errors.New("service: unauthorized")
	// ErrForbidden indicates the caller lacks the required permission.
	ErrForbidden = errors.New("service: forbidden")
	// ErrInvalidRefreshToken indicates refresh token problems.
	ErrInvalidRefreshToken = errors.New("service: invalid refresh token")
	// ErrEmailExists indicates the email is already registered.
	ErrEmailExists = errors.New("service: email already exists")
	// ErrEmptyCart indicates checkout was attempted on an empty cart.
	ErrEmptyCart = errors.New("service: cart is empty")
	// ErrProductUnavailable indicates a cart line references a product that
	// is hidden, out of stock, or deleted.
	ErrProductUnavailable = errors.New("service: product unavailable")
	// ErrSchedulingUnavailable indicates no delivery date could be computed
	// for the account's delivery days under the current cutoff policy.
	ErrSchedulingUnavailable = errors.New("service: scheduling unavailable")
	// ErrInvalidTransition indicates a disallowed order status change.
	ErrInvalidTransition = errors.New("service: invalid status transition")
	// ErrOrderLocked indicates the order moved past the point where the
	// requested change is allowed.
	ErrOrderLocked = errors.New("service: order locked")
	// ErrInvalidCutoffPolicy indicates malformed ordering settings.
	ErrInvalidCutoffPolicy = errors.New("service: invalid cutoff policy")
	// ErrInvalidDeliveryDay indicates a role carries an unknown weekday name.
	ErrInvalidDeliveryDay = errors.New("service: invalid delivery day")
	// ErrInvalidInput indicates a malformed request payload.
	ErrInvalidInput = errors.New("service: invalid input")
)
