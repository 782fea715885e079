// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

// Package votekick tracks in-match kick proposals and their ballots. Vote
// collection and tallying live here; the only link to match state is the
// exclusion-cancel call made when a proposal is approved. Any participant of
// the match may start a kick, the initiator and the target do not need to
// share a team.
package votekick

import (
	"math"
	"time"

	"github.com/arenaworks/scrims/pkg/common"
	"github.com/arenaworks/scrims/pkg/config"
	"github.com/arenaworks/scrims/pkg/coordinator"
	"github.com/arenaworks/scrims/pkg/envelope"
	"github.com/arenaworks/scrims/pkg/mathutil"
	"github.com/arenaworks/scrims/pkg/models"
	"github.com/arenaworks/scrims/pkg/notify"
	"github.com/arenaworks/scrims/pkg/storage"
)

// MatchCanceller is the slice of the coordinator the subsystem needs.
type MatchCanceller interface {
	CancelMatchExcluding(scope *envelope.Scope, matchID string, excludedPlayerID string) (coordinator.OperationResult, error)
}

// Service tracks vote kicks for in-progress matches.
type Service struct {
	cfg       *config.Config
	store     storage.Store
	canceller MatchCanceller
	bus       *notify.EventBus
}

// NewService wires the subsystem. bus may be nil.
func NewService(cfg *config.Config, store storage.Store, canceller MatchCanceller, bus *notify.EventBus) *Service {
	return &Service{
		cfg:       cfg,
		store:     store,
		canceller: canceller,
		bus:       bus,
	}
}

// InitiateResult is returned to the command layer so it can display the tally target.
type InitiateResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	VoteKickID    string `json:"vote_kick_id,omitempty"`
	RequiredVotes int    `json:"required_votes,omitempty"`
}

// Initiate opens a kick proposal against a player sharing an in-progress
// match with the initiator. The initiator's approve vote is recorded
// implicitly. Fails when the target is the initiator, when no shared match
// exists, or when a proposal for the same target is already pending.
func (s *Service) Initiate(rootScope *envelope.Scope, initiatorID, targetID string) (InitiateResult, error) {
	scope := rootScope.NewChildScope("VoteKick.Initiate")
	defer scope.Finish()

	if initiatorID == targetID {
		return InitiateResult{Success: false, Message: models.ValidationErrorKickSelf.Error()}, nil
	}

	match, err := s.store.FindInProgressMatchByPlayer(scope.Ctx, initiatorID)
	if err == storage.ErrNotFound {
		return InitiateResult{Success: false, Message: models.ValidationErrorKickNoMatch.Error()}, nil
	}
	if err != nil {
		return InitiateResult{Success: false, Message: "failed to look up match"}, err
	}
	if !match.HasPlayer(targetID) {
		return InitiateResult{Success: false, Message: models.ValidationErrorKickNoMatch.Error()}, nil
	}

	if _, err := s.store.FindPendingVoteKick(scope.Ctx, match.ID, targetID); err == nil {
		return InitiateResult{Success: false, Message: models.ValidationErrorKickExists.Error()}, nil
	} else if err != storage.ErrNotFound {
		return InitiateResult{Success: false, Message: "failed to look up vote kicks"}, err
	}

	// the target has no ballot
	eligibleVoters := len(match.PlayerIDs()) - 1
	required := s.requiredVotes(eligibleVoters)

	vk := &models.VoteKick{
		ID:                common.GenerateUUID(),
		MatchID:           match.ID,
		TargetPlayerID:    targetID,
		InitiatorPlayerID: initiatorID,
		Status:            models.VoteKickStatusPending,
		RequiredVotes:     required,
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.store.CreateVoteKick(scope.Ctx, vk); err != nil {
		return InitiateResult{Success: false, Message: "failed to create vote kick"}, err
	}

	scope.Log.WithField("voteKickID", vk.ID).
		WithField("matchID", match.ID).
		WithField("target", targetID).
		WithField("requiredVotes", required).
		Info("vote kick initiated")

	// initiator votes approve implicitly, which may already resolve a 1v1-sized tally
	result, err := s.CastVote(scope, vk.ID, initiatorID, true)
	if err != nil {
		return InitiateResult{Success: false, Message: "failed to record initiator vote"}, err
	}

	message := "vote kick started"
	if result.Resolved {
		message = "vote kick resolved"
	}
	return InitiateResult{
		Success:       true,
		Message:       message,
		VoteKickID:    vk.ID,
		RequiredVotes: required,
	}, nil
}

// VoteResult reports the tally after one ballot.
type VoteResult struct {
	Approvals  int
	Rejections int
	Required   int
	Resolved   bool
	Approved   bool
}

// CastVote records one ballot and resolves the proposal when approvals reach
// the required count, or rejects it when approval became impossible. Only
// match participants other than the target may vote.
func (s *Service) CastVote(rootScope *envelope.Scope, voteKickID string, voterID string, approve bool) (VoteResult, error) {
	scope := rootScope.NewChildScope("VoteKick.CastVote")
	defer scope.Finish()

	vk, err := s.store.GetVoteKick(scope.Ctx, voteKickID)
	if err == storage.ErrNotFound {
		return VoteResult{}, models.ValidationErrorKickNotFound
	}
	if err != nil {
		return VoteResult{}, err
	}
	if vk.IsResolved() {
		return VoteResult{}, models.ValidationErrorKickResolved
	}
	if vk.TargetPlayerID == voterID {
		return VoteResult{}, models.ValidationErrorKickSelf
	}
	if vk.HasVoted(voterID) {
		return VoteResult{}, models.ValidationErrorDuplicateVote
	}

	match, err := s.store.GetMatch(scope.Ctx, vk.MatchID)
	if err != nil {
		return VoteResult{}, err
	}
	if !common.Contains(match.PlayerIDs(), voterID) {
		return VoteResult{}, models.ValidationErrorKickNoMatch
	}

	vote := &models.Vote{VoteKickID: voteKickID, VoterID: voterID, Approve: approve}
	if err := s.store.AddVote(scope.Ctx, vote); err != nil {
		return VoteResult{}, err
	}
	vk.Votes = append(vk.Votes, *vote)

	result := VoteResult{
		Approvals:  vk.CountApprovals(),
		Rejections: vk.CountRejections(),
		Required:   vk.RequiredVotes,
	}

	eligibleVoters := len(match.PlayerIDs()) - 1

	switch {
	case result.Approvals >= vk.RequiredVotes:
		result.Resolved = true
		result.Approved = true
		if err := s.resolveApproved(scope, vk); err != nil {
			return result, err
		}
	case eligibleVoters-result.Rejections < vk.RequiredVotes:
		// approval became impossible
		result.Resolved = true
		if err := s.resolveRejected(scope, vk); err != nil {
			return result, err
		}
	}

	return result, nil
}

// ResolveApproved finalizes an approved proposal: the vote kick transitions
// to APPROVED and the match is cancelled with the target excluded from
// re-admission. Exposed for external vote-collection collaborators that run
// their own tally.
func (s *Service) ResolveApproved(rootScope *envelope.Scope, voteKickID string) error {
	scope := rootScope.NewChildScope("VoteKick.ResolveApproved")
	defer scope.Finish()

	vk, err := s.store.GetVoteKick(scope.Ctx, voteKickID)
	if err != nil {
		return err
	}
	if vk.IsResolved() {
		return models.ValidationErrorKickResolved
	}
	return s.resolveApproved(scope, vk)
}

func (s *Service) resolveApproved(scope *envelope.Scope, vk *models.VoteKick) error {
	err := s.store.UpdateVoteKickStatus(scope.Ctx, vk.ID, models.VoteKickStatusApproved)
	if err == models.ValidationErrorKickResolved {
		// lost a resolution race, the winner already published and cancelled
		return nil
	}
	if err != nil {
		return err
	}
	scope.Log.WithField("voteKickID", vk.ID).WithField("target", vk.TargetPlayerID).Info("vote kick approved")
	s.publishResolved(vk, true)

	// the only link between vote resolution and match mutation
	_, err = s.canceller.CancelMatchExcluding(scope, vk.MatchID, vk.TargetPlayerID)
	return err
}

func (s *Service) resolveRejected(scope *envelope.Scope, vk *models.VoteKick) error {
	err := s.store.UpdateVoteKickStatus(scope.Ctx, vk.ID, models.VoteKickStatusRejected)
	if err == models.ValidationErrorKickResolved {
		return nil
	}
	if err != nil {
		return err
	}
	scope.Log.WithField("voteKickID", vk.ID).WithField("target", vk.TargetPlayerID).Info("vote kick rejected")
	s.publishResolved(vk, false)
	return nil
}

func (s *Service) publishResolved(vk *models.VoteKick, approved bool) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(notify.Event{
		Type: notify.EventVoteKickResolved,
		Payload: map[string]interface{}{
			"vote_kick_id": vk.ID,
			"match_id":     vk.MatchID,
			"target":       vk.TargetPlayerID,
			"approved":     approved,
		},
	})
}

// requiredVotes = max(minVotesNeeded, ceil(eligibleVoterCount * majorityPercent / 100))
func (s *Service) requiredVotes(eligibleVoters int) int {
	majority := int(math.Ceil(float64(eligibleVoters) * float64(s.cfg.VoteKickMajorityPercent) / 100.0))
	return mathutil.Max(s.cfg.VoteKickMinVotes, majority)
}
