package services

import (
	"context"
	"fmt"

	"uslugihub/internal/fsm"
	"uslugihub/internal/models"
)

type ProjectStore interface {
	GetProjectByID(ctx context.Context, id int) (models.Project, error)
	ListProjectsByUser(ctx context.Context, userID int) ([]models.Project, error)
	Transition(ctx context.Context, project models.Project, newStatus string) (models.Project, error)
	UpdateProgress(ctx context.Context, id, progress int) error
}

type ProjectService struct {
	ProjectRepo ProjectStore
	Notifier    Notifier
	Cache       MatchCache // optional
}

// Transition applies one step of the project state machine. The repository
// mirrors terminal statuses onto the parent request inside the same
// transaction; the counterparty is notified afterwards, best effort.
func (s *ProjectService) Transition(ctx context.Context, projectID, actingUserID int, role, newStatus string) (models.Project, error) {
	project, err := s.ProjectRepo.GetProjectByID(ctx, projectID)
	if err != nil {
		return models.Project{}, err
	}
	if !s.mayAct(project, actingUserID, role) {
		return models.Project{}, models.ErrForbidden
	}
	if !fsm.ProjectCanTransition(project.Status, newStatus) {
		return models.Project{}, &models.InvalidTransitionError{From: project.Status, To: newStatus}
	}

	updated, err := s.ProjectRepo.Transition(ctx, project, newStatus)
	if err != nil {
		return models.Project{}, err
	}

	if s.Cache != nil && (newStatus == models.ProjectStatusCompleted || newStatus == models.ProjectStatusCancelled) {
		s.Cache.Invalidate(ctx, project.RequestID)
	}

	recipient := project.CompanyOwnerID
	if actingUserID != project.OwnerID {
		recipient = project.OwnerID
	}
	s.Notifier.Emit(recipient, models.NotificationTypeProject,
		"Project status changed",
		fmt.Sprintf("Project #%d is now %s", project.ID, newStatus),
		projectData(updated))
	return updated, nil
}

func (s *ProjectService) GetProject(ctx context.Context, projectID, actingUserID int, role string) (models.Project, error) {
	project, err := s.ProjectRepo.GetProjectByID(ctx, projectID)
	if err != nil {
		return models.Project{}, err
	}
	if !s.mayAct(project, actingUserID, role) {
		return models.Project{}, models.ErrForbidden
	}
	return project, nil
}

func (s *ProjectService) ListByUser(ctx context.Context, userID int) ([]models.Project, error) {
	return s.ProjectRepo.ListProjectsByUser(ctx, userID)
}

// UpdateProgress records completion percentage; both parties may report it.
func (s *ProjectService) UpdateProgress(ctx context.Context, projectID, actingUserID int, role string, progress int) (models.Project, error) {
	project, err := s.ProjectRepo.GetProjectByID(ctx, projectID)
	if err != nil {
		return models.Project{}, err
	}
	if !s.mayAct(project, actingUserID, role) {
		return models.Project{}, models.ErrForbidden
	}
	if project.Status != models.ProjectStatusActive {
		return models.Project{}, models.ErrInvalidInput
	}
	if err := s.ProjectRepo.UpdateProgress(ctx, projectID, progress); err != nil {
		return models.Project{}, err
	}
	project.Progress = progress
	return project, nil
}

func (s *ProjectService) mayAct(project models.Project, actingUserID int, role string) bool {
	return actingUserID == project.OwnerID || actingUserID == project.CompanyOwnerID || role == RoleAdmin
}
