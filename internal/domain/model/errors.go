package model

import "errors"

// Sentinel kinds for malformed score records. These allow errors.Is from
// callers that want to distinguish which grouping field was missing.
var (
	ErrMissingDate      = errors.New("score record missing date")
	ErrMissingTeamID    = errors.New("score record missing teamId")
	ErrMissingSubTeamID = errors.New("score record missing subTeamId")
	ErrMissingMemberID  = errors.New("score record missing memberId")
)
