// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"errors"
)

var (
	ValidationErrorAlreadyQueued    = errors.New("player already holds a queue entry")
	ValidationErrorAlreadyInMatch   = errors.New("player is a member of an in-progress match")
	ValidationErrorNotEnoughPlayers = errors.New("at least two valid players are required")
	ValidationErrorMatchNotFound    = errors.New("match not found")
	ValidationErrorMatchTerminal    = errors.New("match already completed or cancelled")
	ValidationErrorTeamNotInMatch   = errors.New("winning team does not belong to this match")
	ValidationErrorPlayerNotFound   = errors.New("player not found")
	ValidationErrorKickSelf         = errors.New("cannot kick yourself")
	ValidationErrorKickNoMatch      = errors.New("no in-progress match contains both players")
	ValidationErrorKickExists       = errors.New("an active vote kick already exists for this target")
	ValidationErrorKickNotFound     = errors.New("vote kick not found")
	ValidationErrorKickResolved     = errors.New("vote kick already resolved")
	ValidationErrorDuplicateVote    = errors.New("voter already cast a vote")
)

var validationErrorCodeMap = map[error]int{
	ValidationErrorAlreadyQueued:    520101,
	ValidationErrorAlreadyInMatch:   520102,
	ValidationErrorNotEnoughPlayers: 520103,
	ValidationErrorMatchNotFound:    520104,
	ValidationErrorMatchTerminal:    520105,
	ValidationErrorTeamNotInMatch:   520106,
	ValidationErrorPlayerNotFound:   520107,
	ValidationErrorKickSelf:         520108,
	ValidationErrorKickNoMatch:      520109,
	ValidationErrorKickExists:       520110,
	ValidationErrorKickNotFound:     520113,
	ValidationErrorKickResolved:     520111,
	ValidationErrorDuplicateVote:    520112,
}

// ValidationErrorCode returns a code for the error.
// It returns 20002 if the error is not registered in the map.
func ValidationErrorCode(err error) int {
	code, ok := validationErrorCodeMap[err]
	if !ok {
		return 20002
	}
	return code
}

// IsValidationError reports whether err is one of the typed validation errors.
// Validation failures are caller-facing results, not unexpected faults.
func IsValidationError(err error) bool {
	_, ok := validationErrorCodeMap[err]
	return ok
}
