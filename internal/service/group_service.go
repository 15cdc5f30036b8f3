package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/projectfair/backend/internal/domain"
	"github.com/projectfair/backend/internal/events"
	"github.com/projectfair/backend/internal/repository"
	apperrors "github.com/projectfair/backend/pkg/util/errorutil"
)

const (
	maxGroupNameLength = 100

	msgInvalidCode    = "invalid security code"
	msgExpiredCode    = "security code expired"
	msgAlreadyInGroup = "student already has a group for this project"
	msgGroupNameTaken = "group name already taken for this project"
	msgNotGroupLeader = "only the group leader can manage this group"
	msgPendingStudent = "student must confirm their email before joining a group"
	msgRemoveLeader   = "cannot remove the group leader"
)

// GroupService forms student groups from security codes and manages their members.
type GroupService struct {
	groups     repository.GroupRepository
	projects   repository.ProjectRepository
	codes      repository.SecurityCodeRepository
	students   repository.StudentRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// GroupDependencies groups constructor arguments.
type GroupDependencies struct {
	Groups     repository.GroupRepository
	Projects   repository.ProjectRepository
	Codes      repository.SecurityCodeRepository
	Students   repository.StudentRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// CreateGroupInput carries the name of a new group and the code that admits it.
type CreateGroupInput struct {
	Name         string
	SecurityCode string
}

// NewGroupService constructs the service.
func NewGroupService(deps GroupDependencies) *GroupService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GroupService{
		groups:     deps.Groups,
		projects:   deps.Projects,
		codes:      deps.Codes,
		students:   deps.Students,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateGroup uses a security code to open a group in the code's project.
// The creating student becomes its leader.
func (s *GroupService) CreateGroup(ctx context.Context, student *domain.Student, input CreateGroupInput) (*domain.Group, *domain.Project, error) {
	if student == nil {
		return nil, nil, apperrors.NewUnauthorized("jwt token not provided")
	}
	name, err := validateGroupName(input.Name)
	if err != nil {
		return nil, nil, err
	}

	code, err := s.codes.GetByCode(ctx, normalizeCode(input.SecurityCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewValidationError(msgInvalidCode)
		}
		return nil, nil, apperrors.MapError(err)
	}
	if code.Expired(s.now()) {
		return nil, nil, apperrors.NewValidationError(msgExpiredCode)
	}

	project, err := s.projects.GetByID(ctx, code.ProjectID)
	if err != nil {
		return nil, nil, notFoundOr(err, "project")
	}

	inProject, err := s.groups.IsStudentInProject(ctx, student.ID, project.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	if inProject {
		return nil, nil, apperrors.NewConflict(msgAlreadyInGroup)
	}
	taken, err := s.groups.NameExists(ctx, project.ID, name)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	if taken {
		return nil, nil, apperrors.NewConflict(msgGroupNameTaken)
	}

	group := &domain.Group{ProjectID: project.ID, Name: name}
	leader := &domain.GroupMember{StudentID: student.ID, Role: domain.StudentRoleGroupLeader}
	if err := s.groups.CreateWithLeader(ctx, group, leader); err != nil {
		if isUniqueViolation(err) {
			return nil, nil, apperrors.NewConflict(msgGroupNameTaken)
		}
		return nil, nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventGroupCreated, student.ID, events.GroupCreatedPayload{
		GroupID:   group.ID,
		ProjectID: project.ID,
		CodeID:    code.ID,
		Name:      group.Name,
	})
	return group, project, nil
}

// ListStudentGroups returns the groups the student belongs to with their projects.
func (s *GroupService) ListStudentGroups(ctx context.Context, studentID int64) ([]domain.GroupWithProject, error) {
	groups, err := s.groups.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return groups, nil
}

// CheckName reports whether name is already used by a group of the project.
func (s *GroupService) CheckName(ctx context.Context, projectID int64, name string) (bool, error) {
	if projectID <= 0 {
		return false, apperrors.NewValidationError("project_id is required")
	}
	name, err := validateGroupName(name)
	if err != nil {
		return false, err
	}
	exists, err := s.groups.NameExists(ctx, projectID, name)
	if err != nil {
		return false, apperrors.MapError(err)
	}
	return exists, nil
}

// DeleteGroup removes a group and its memberships. Leader only.
func (s *GroupService) DeleteGroup(ctx context.Context, student *domain.Student, groupID int64) error {
	if err := s.requireLeader(ctx, student, groupID); err != nil {
		return err
	}
	if err := s.groups.Delete(ctx, groupID); err != nil {
		return notFoundOr(err, "group")
	}
	return nil
}

// ListMembers returns a group and its members.
func (s *GroupService) ListMembers(ctx context.Context, groupID int64) (*domain.Group, []domain.GroupMemberDetail, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, nil, notFoundOr(err, "group")
	}
	members, err := s.groups.ListMembers(ctx, groupID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return group, members, nil
}

// AddMember lets the group leader add a confirmed student by email.
func (s *GroupService) AddMember(ctx context.Context, leader *domain.Student, groupID int64, email string) (*domain.GroupMemberDetail, error) {
	if err := s.requireLeader(ctx, leader, groupID); err != nil {
		return nil, err
	}

	student, err := s.students.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("student")
		}
		return nil, apperrors.MapError(err)
	}
	if student.IsPending {
		return nil, apperrors.NewValidationError(msgPendingStudent)
	}

	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, notFoundOr(err, "group")
	}
	inProject, err := s.groups.IsStudentInProject(ctx, student.ID, group.ProjectID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if inProject {
		return nil, apperrors.NewConflict(msgAlreadyInGroup)
	}

	project, err := s.projects.GetByID(ctx, group.ProjectID)
	if err != nil {
		return nil, notFoundOr(err, "project")
	}
	count, err := s.groups.CountMembers(ctx, groupID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if count >= project.MaxGroupSize {
		return nil, apperrors.NewValidationError(fmt.Sprintf("group has reached the maximum size of %d members", project.MaxGroupSize))
	}

	member := domain.GroupMember{GroupID: groupID, StudentID: student.ID, Role: domain.StudentRoleMember}
	if err := s.groups.AddMember(ctx, &member); err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewConflict(msgAlreadyInGroup)
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventGroupMemberAdded, leader.ID, events.GroupMemberAddedPayload{
		GroupID:   groupID,
		ProjectID: group.ProjectID,
		StudentID: student.ID,
		Email:     student.Email,
	})
	return &domain.GroupMemberDetail{
		GroupMember: member,
		FirstName:   student.FirstName,
		LastName:    student.LastName,
		Email:       student.Email,
	}, nil
}

// RemoveMember lets the group leader remove a non-leader member.
func (s *GroupService) RemoveMember(ctx context.Context, leader *domain.Student, groupID, studentID int64) error {
	if err := s.requireLeader(ctx, leader, groupID); err != nil {
		return err
	}
	members, err := s.groups.ListMembers(ctx, groupID)
	if err != nil {
		return apperrors.MapError(err)
	}

	var target *domain.GroupMemberDetail
	for i := range members {
		if members[i].StudentID == studentID {
			target = &members[i]
			break
		}
	}
	if target == nil {
		return apperrors.NewNotFound("group member")
	}
	if target.Role == domain.StudentRoleGroupLeader {
		return apperrors.NewValidationError(msgRemoveLeader)
	}
	if err := s.groups.RemoveMember(ctx, groupID, studentID); err != nil {
		return notFoundOr(err, "group member")
	}
	return nil
}

// ListProjectGroups returns every group of a project with its size and leader.
func (s *GroupService) ListProjectGroups(ctx context.Context, projectID int64) ([]domain.GroupSummary, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, notFoundOr(err, "project")
	}
	groups, err := s.groups.ListByProject(ctx, projectID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	summaries := make([]domain.GroupSummary, 0, len(groups))
	for _, group := range groups {
		members, err := s.groups.ListMembers(ctx, group.ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		summary := domain.GroupSummary{Group: group, MemberCount: len(members)}
		for i := range members {
			if members[i].Role == domain.StudentRoleGroupLeader {
				summary.Leader = &members[i]
				break
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *GroupService) requireLeader(ctx context.Context, student *domain.Student, groupID int64) error {
	if student == nil {
		return apperrors.NewUnauthorized("jwt token not provided")
	}
	isLeader, err := s.groups.IsLeader(ctx, student.ID, groupID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !isLeader {
		return apperrors.NewForbidden(msgNotGroupLeader)
	}
	return nil
}

func (s *GroupService) publish(ctx context.Context, eventType events.EventType, studentID int64, payload any) {
	if s.dispatcher == nil {
		return
	}
	err := s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     events.StudentActor(studentID),
		Timestamp: s.now(),
		Payload:   payload,
	})
	if err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}

func validateGroupName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.NewValidationError("group name is required")
	}
	if len(name) > maxGroupNameLength {
		return "", apperrors.NewValidationError(fmt.Sprintf("group name must be at most %d characters", maxGroupNameLength))
	}
	return name, nil
}
