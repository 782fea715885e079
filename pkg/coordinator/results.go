// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

package coordinator

// OperationResult is the caller-visible outcome of a lifecycle operation.
// Degraded marks a successful core transition whose cosmetic side effects
// (channel creation, notification delivery) failed.
type OperationResult struct {
	Success  bool   `json:"success"`
	Degraded bool   `json:"degraded,omitempty"`
	Message  string `json:"message"`
	MatchID  string `json:"match_id,omitempty"`
}

func failureResult(message string) OperationResult {
	return OperationResult{Success: false, Message: message}
}

func successResult(message string) OperationResult {
	return OperationResult{Success: true, Message: message}
}

func degradedResult(message string) OperationResult {
	return OperationResult{Success: true, Degraded: true, Message: message}
}
