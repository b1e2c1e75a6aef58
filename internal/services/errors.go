package services

import (
	"errors"
	"fmt"
)

// Auction lifecycle errors. Handlers map these to distinct HTTP statuses;
// only ErrStoreUnavailable is worth a retry.
var (
	ErrDuplicateTurn     = errors.New("auction turn already exists")
	ErrTurnNotFound      = errors.New("auction turn not found")
	ErrInvalidTransition = errors.New("auction status does not permit this transition")
	ErrAuctionInProgress = errors.New("another auction is already in progress")
	ErrStoreUnavailable  = errors.New("backing store unavailable")
)

// Member errors
var (
	ErrMemberNotFound   = errors.New("member not found")
	ErrDuplicateLoginID = errors.New("login id already exists")
	ErrDuplicateEmail   = errors.New("email already exists")
	ErrPasswordMismatch = errors.New("password does not match")
	ErrUsernameMismatch = errors.New("username does not match")
	ErrInvalidToken     = errors.New("invalid or expired token")
)

// Art work and bidding errors
var (
	ErrArtWorkNotFound      = errors.New("art work not found")
	ErrArtWorkNotAssignable = errors.New("art work can only join a scheduled auction")
	ErrAuctionNotInProgress = errors.New("auction is not in progress")
	ErrBidTooLow            = errors.New("bid must exceed the current highest bid")
	ErrSelfBid              = errors.New("artists cannot bid on their own work")
)

// storeErr wraps a backing-store failure so callers can classify it as
// transient via errors.Is(err, ErrStoreUnavailable).
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
