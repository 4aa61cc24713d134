package session

import "errors"

var (
	ErrInvalidSession  = errors.New("session.invalid")
	ErrSessionExpired  = errors.New("session.expired")
	ErrSessionNotFound = errors.New("session.not_found")
	ErrTokenGeneration = errors.New("session.token_generation_failed")
	ErrStore           = errors.New("session.store_failed")
	ErrNoCookieManager = errors.New("session.no_cookie_manager")
)
