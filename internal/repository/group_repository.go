package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/projectfair/backend/internal/domain"
)

// GroupRepository persists student groups and their members.
type GroupRepository interface {
	CreateWithLeader(ctx context.Context, group *domain.Group, leader *domain.GroupMember) error
	GetByID(ctx context.Context, id int64) (*domain.Group, error)
	Delete(ctx context.Context, id int64) error
	ListForStudent(ctx context.Context, studentID int64) ([]domain.GroupWithProject, error)
	ListByProject(ctx context.Context, projectID int64) ([]domain.Group, error)
	NameExists(ctx context.Context, projectID int64, name string) (bool, error)
	IsStudentInProject(ctx context.Context, studentID, projectID int64) (bool, error)
	IsLeader(ctx context.Context, studentID, groupID int64) (bool, error)

	AddMember(ctx context.Context, member *domain.GroupMember) error
	RemoveMember(ctx context.Context, groupID, studentID int64) error
	ListMembers(ctx context.Context, groupID int64) ([]domain.GroupMemberDetail, error)
	CountMembers(ctx context.Context, groupID int64) (int, error)
}

type groupRepository struct {
	pool *pgxpool.Pool
}

// NewGroupRepository constructs repository.
func NewGroupRepository(pool *pgxpool.Pool) GroupRepository {
	return &groupRepository{pool: pool}
}

const groupColumns = `group_id, project_id, name, created_at`

// CreateWithLeader inserts the group and its leader in one transaction.
func (r *groupRepository) CreateWithLeader(ctx context.Context, group *domain.Group, leader *domain.GroupMember) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const insertGroup = `
            INSERT INTO groups (project_id, name)
            VALUES ($1,$2)
            RETURNING group_id, created_at`
		if err := tx.QueryRow(ctx, insertGroup, group.ProjectID, group.Name).Scan(&group.ID, &group.CreatedAt); err != nil {
			return err
		}
		leader.GroupID = group.ID
		return insertMember(ctx, tx, leader)
	})
}

func (r *groupRepository) GetByID(ctx context.Context, id int64) (*domain.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE group_id=$1`
	return scanGroup(r.pool.QueryRow(ctx, query, id))
}

func (r *groupRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM groups WHERE group_id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *groupRepository) ListForStudent(ctx context.Context, studentID int64) ([]domain.GroupWithProject, error) {
	const query = `
        SELECT g.group_id, g.project_id, g.name, g.created_at,
               p.project_id, p.name, p.year, p.max_student_uploads, p.max_group_size, p.active
        FROM group_members gm
        JOIN groups g ON g.group_id = gm.group_id
        JOIN projects p ON p.project_id = g.project_id
        WHERE gm.student_id=$1
        ORDER BY g.created_at DESC, g.group_id`
	rows, err := r.pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.GroupWithProject, error) {
		var item domain.GroupWithProject
		err := row.Scan(
			&item.Group.ID, &item.Group.ProjectID, &item.Group.Name, &item.Group.CreatedAt,
			&item.Project.ID, &item.Project.Name, &item.Project.Year,
			&item.Project.MaxStudentUploads, &item.Project.MaxGroupSize, &item.Project.Active,
		)
		return item, err
	})
}

func (r *groupRepository) ListByProject(ctx context.Context, projectID int64) ([]domain.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE project_id=$1 ORDER BY group_id`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Group, error) {
		group, err := scanGroup(row)
		if err != nil {
			return domain.Group{}, err
		}
		return *group, nil
	})
}

func (r *groupRepository) NameExists(ctx context.Context, projectID int64, name string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM groups WHERE project_id=$1 AND name=$2`, projectID, name)
}

func (r *groupRepository) IsStudentInProject(ctx context.Context, studentID, projectID int64) (bool, error) {
	const query = `
        SELECT 1 FROM group_members gm
        JOIN groups g ON g.group_id = gm.group_id
        WHERE gm.student_id=$1 AND g.project_id=$2`
	return r.exists(ctx, query, studentID, projectID)
}

func (r *groupRepository) IsLeader(ctx context.Context, studentID, groupID int64) (bool, error) {
	const query = `
        SELECT 1 FROM group_members
        WHERE student_id=$1 AND group_id=$2 AND student_role_id=$3`
	return r.exists(ctx, query, studentID, groupID, int(domain.StudentRoleGroupLeader))
}

func (r *groupRepository) exists(ctx context.Context, subquery string, args ...any) (bool, error) {
	var found bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (`+subquery+`)`, args...).Scan(&found)
	return found, err
}

func (r *groupRepository) AddMember(ctx context.Context, member *domain.GroupMember) error {
	return insertMember(ctx, r.pool, member)
}

func (r *groupRepository) RemoveMember(ctx context.Context, groupID, studentID int64) error {
	cmd, err := r.pool.Exec(ctx,
		`DELETE FROM group_members WHERE group_id=$1 AND student_id=$2`,
		groupID, studentID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *groupRepository) ListMembers(ctx context.Context, groupID int64) ([]domain.GroupMemberDetail, error) {
	const query = `
        SELECT gm.group_member_id, gm.group_id, gm.student_id, gm.student_role_id, gm.joined_at,
               s.first_name, s.last_name, s.email
        FROM group_members gm
        JOIN students s ON s.student_id = gm.student_id
        WHERE gm.group_id=$1
        ORDER BY gm.student_role_id, gm.joined_at`
	rows, err := r.pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.GroupMemberDetail, error) {
		var (
			member domain.GroupMemberDetail
			role   int
		)
		err := row.Scan(
			&member.ID, &member.GroupID, &member.StudentID, &role, &member.JoinedAt,
			&member.FirstName, &member.LastName, &member.Email,
		)
		member.Role = domain.StudentRole(role)
		return member, err
	})
}

func (r *groupRepository) CountMembers(ctx context.Context, groupID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM group_members WHERE group_id=$1`, groupID).Scan(&count)
	return count, err
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertMember(ctx context.Context, q queryRower, member *domain.GroupMember) error {
	const query = `
        INSERT INTO group_members (group_id, student_id, student_role_id)
        VALUES ($1,$2,$3)
        RETURNING group_member_id, joined_at`
	return q.QueryRow(ctx, query, member.GroupID, member.StudentID, int(member.Role)).
		Scan(&member.ID, &member.JoinedAt)
}

func scanGroup(row pgx.Row) (*domain.Group, error) {
	var group domain.Group
	if err := row.Scan(&group.ID, &group.ProjectID, &group.Name, &group.CreatedAt); err != nil {
		return nil, err
	}
	return &group, nil
}
