package services

import (
	"context"
	"fmt"

	"guildhall/metrics"
	"guildhall/models"
	"guildhall/repositories"
)

// TeamService manages the directed team relation between users. An edge
// A->B means A added B to their team; B->A is a separate edge.
//
// Joining twice and leaving without a prior join are silent no-ops.
type TeamService interface {
	JoinTeam(ctx context.Context, actorID, otherID uint) error
	LeaveTeam(ctx context.Context, actorID, otherID uint) error
	InTeamWith(ctx context.Context, actorID, otherID uint) (bool, error)

	// Username variants resolve the target first and reject the actor
	// naming themselves.
	JoinTeamByUsername(ctx context.Context, actorID uint, username string) (*models.User, error)
	LeaveTeamByUsername(ctx context.Context, actorID uint, username string) (*models.User, error)
	InTeamWithUsername(ctx context.Context, actorID uint, username string) (bool, error)

	Team(ctx context.Context, actorID uint) ([]models.User, error)
	Teammates(ctx context.Context, actorID uint) ([]models.User, error)
	TeamCharacters(ctx context.Context, actorID uint) ([]models.Character, error)
}

type teamService struct {
	store   *repositories.Store
	metrics *metrics.Metrics
}

var _ TeamService = (*teamService)(nil)

// NewTeamService creates a TeamService. m may be nil.
func NewTeamService(store *repositories.Store, m *metrics.Metrics) TeamService {
	return &teamService{store: store, metrics: m}
}

func requireUsers(tx *repositories.Store, ids ...uint) error {
	for _, id := range ids {
		if _, err := tx.Users.FindByID(id); err != nil {
			return lookupError(fmt.Sprintf("user %d", id), err)
		}
	}
	return nil
}

func (s *teamService) JoinTeam(ctx context.Context, actorID, otherID uint) error {
	changed := false
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := requireUsers(tx, actorID, otherID); err != nil {
			return err
		}
		var err error
		changed, err = joinTeam(tx, actorID, otherID)
		return err
	})
	if err != nil {
		return err
	}
	s.metrics.TeamMutation("join", changed)
	return nil
}

func (s *teamService) LeaveTeam(ctx context.Context, actorID, otherID uint) error {
	changed := false
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := requireUsers(tx, actorID, otherID); err != nil {
			return err
		}
		var err error
		changed, err = leaveTeam(tx, actorID, otherID)
		return err
	})
	if err != nil {
		return err
	}
	s.metrics.TeamMutation("leave", changed)
	return nil
}

func (s *teamService) InTeamWith(ctx context.Context, actorID, otherID uint) (bool, error) {
	in, err := s.store.WithContext(ctx).Team.Exists(actorID, otherID)
	if err != nil {
		return false, fmt.Errorf("database error checking team: %w", err)
	}
	return in, nil
}

func joinTeam(tx *repositories.Store, actorID, otherID uint) (bool, error) {
	in, err := tx.Team.Exists(actorID, otherID)
	if err != nil {
		return false, fmt.Errorf("database error checking team: %w", err)
	}
	if in {
		return false, nil
	}
	if err := tx.Team.Insert(actorID, otherID); err != nil {
		return false, fmt.Errorf("failed to join team: %w", err)
	}
	return true, nil
}

func leaveTeam(tx *repositories.Store, actorID, otherID uint) (bool, error) {
	in, err := tx.Team.Exists(actorID, otherID)
	if err != nil {
		return false, fmt.Errorf("database error checking team: %w", err)
	}
	if !in {
		return false, nil
	}
	if err := tx.Team.Remove(actorID, otherID); err != nil {
		return false, fmt.Errorf("failed to leave team: %w", err)
	}
	return true, nil
}

// resolveTarget loads the actor and the named user, rejecting self-reference.
func resolveTarget(tx *repositories.Store, actorID uint, username string) (*models.User, error) {
	if err := requireUsers(tx, actorID); err != nil {
		return nil, err
	}
	target, err := tx.Users.FindByUsername(username)
	if err != nil {
		return nil, lookupError(fmt.Sprintf("user %q", username), err)
	}
	if target.ID == actorID {
		return nil, ErrSelfReference
	}
	return target, nil
}

func (s *teamService) JoinTeamByUsername(ctx context.Context, actorID uint, username string) (*models.User, error) {
	var target *models.User
	changed := false
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		var err error
		if target, err = resolveTarget(tx, actorID, username); err != nil {
			return err
		}
		changed, err = joinTeam(tx, actorID, target.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.metrics.TeamMutation("join", changed)
	return target, nil
}

func (s *teamService) LeaveTeamByUsername(ctx context.Context, actorID uint, username string) (*models.User, error) {
	var target *models.User
	changed := false
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		var err error
		if target, err = resolveTarget(tx, actorID, username); err != nil {
			return err
		}
		changed, err = leaveTeam(tx, actorID, target.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.metrics.TeamMutation("leave", changed)
	return target, nil
}

func (s *teamService) InTeamWithUsername(ctx context.Context, actorID uint, username string) (bool, error) {
	in := false
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		target, err := tx.Users.FindByUsername(username)
		if err != nil {
			return lookupError(fmt.Sprintf("user %q", username), err)
		}
		in, err = tx.Team.Exists(actorID, target.ID)
		return err
	})
	return in, err
}

func (s *teamService) Team(ctx context.Context, actorID uint) ([]models.User, error) {
	users, err := s.store.WithContext(ctx).Team.Team(actorID)
	if err != nil {
		return nil, fmt.Errorf("database error retrieving team: %w", err)
	}
	return users, nil
}

func (s *teamService) Teammates(ctx context.Context, actorID uint) ([]models.User, error) {
	users, err := s.store.WithContext(ctx).Team.Teammates(actorID)
	if err != nil {
		return nil, fmt.Errorf("database error retrieving teammates: %w", err)
	}
	return users, nil
}

// TeamCharacters returns the actor's character plus the characters of every
// user the actor added, ordered by name descending. Users who added the actor
// without being added back do not contribute.
func (s *teamService) TeamCharacters(ctx context.Context, actorID uint) ([]models.Character, error) {
	var chars []models.Character
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := requireUsers(tx, actorID); err != nil {
			return err
		}
		var err error
		chars, err = tx.Team.TeamCharacters(actorID)
		if err != nil {
			return fmt.Errorf("database error retrieving team characters: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return chars, nil
}
