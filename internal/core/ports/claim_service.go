package ports

import "context"

// ClaimResult reports the outcome of a claim attempt. Losing is a normal
// outcome, not an error: Won is false and Message carries a short
// user-presentable reason.
type ClaimResult struct {
	Won     bool
	Message string
}

// ClaimService arbitrates concurrent claim attempts: for a given shift, at
// most one caller ever observes Won == true.
type ClaimService interface {
	ClaimShift(ctx context.Context, shiftID, userID string) (*ClaimResult, error)
}
