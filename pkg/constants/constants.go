// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

package constants

import "time"

const (
	CleanupTickInterval = time.Second
)

const (
	CreateMatchFunction = "createMatch"
	EndMatchFunction    = "endMatch"
	CancelMatchFunction = "cancelMatch"

	// Requeue failure reason constants.
	RequeueReasonAlreadyQueued    = "requeue_already_queued"
	RequeueReasonAlreadyInMatch   = "requeue_already_in_match"
	RequeueReasonPlayerInactive   = "requeue_player_inactive"
	RequeueReasonStoreUnavailable = "requeue_store_unavailable"
)
