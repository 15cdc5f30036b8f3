package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/projectfair/backend/internal/domain"
	"github.com/projectfair/backend/internal/events"
	"github.com/projectfair/backend/internal/repository"
)

type fakeAdminRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Admin
}

func newFakeAdminRepo(admins ...domain.Admin) *fakeAdminRepo {
	repo := &fakeAdminRepo{rows: map[int64]domain.Admin{}}
	for _, a := range admins {
		repo.rows[a.ID] = a
		if a.ID > repo.nextID {
			repo.nextID = a.ID
		}
	}
	return repo
}

func (f *fakeAdminRepo) Create(_ context.Context, admin *domain.Admin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	admin.ID = f.nextID
	f.rows[admin.ID] = *admin
	return nil
}

func (f *fakeAdminRepo) Update(_ context.Context, admin *domain.Admin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[admin.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.rows[admin.ID] = *admin
	return nil
}

func (f *fakeAdminRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeAdminRepo) GetByID(_ context.Context, id int64) (*domain.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &a, nil
}

func (f *fakeAdminRepo) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.rows {
		if strings.EqualFold(a.Email, email) {
			a := a
			return &a, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAdminRepo) List(_ context.Context, filter repository.AdminFilter) ([]domain.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Admin
	for _, a := range f.rows {
		if filter.Role != nil && a.Role != *filter.Role {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if filter.Offset >= len(out) {
		return nil, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

type fakeStudentRepo struct {
	mu   sync.Mutex
	rows map[int64]domain.Student
}

func newFakeStudentRepo(students ...domain.Student) *fakeStudentRepo {
	repo := &fakeStudentRepo{rows: map[int64]domain.Student{}}
	for _, s := range students {
		repo.rows[s.ID] = s
	}
	return repo
}

func (f *fakeStudentRepo) Update(_ context.Context, student *domain.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[student.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.rows[student.ID] = *student
	return nil
}

func (f *fakeStudentRepo) GetByID(_ context.Context, id int64) (*domain.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &s, nil
}

func (f *fakeStudentRepo) GetByEmail(_ context.Context, email string) (*domain.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.rows {
		if strings.EqualFold(s.Email, email) {
			s := s
			return &s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeResetRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[string]*domain.PasswordResetToken
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{rows: map[string]*domain.PasswordResetToken{}}
}

func (f *fakeResetRepo) Create(_ context.Context, token *domain.PasswordResetToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	token.ID = f.nextID
	token.CreatedAt = time.Now()
	copied := *token
	f.rows[token.Token] = &copied
	return nil
}

func (f *fakeResetRepo) GetByToken(_ context.Context, token string) (*domain.PasswordResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.rows[token]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *t
	return &copied, nil
}

func (f *fakeResetRepo) MarkUsed(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.rows {
		if t.ID == id && t.UsedAt == nil {
			now := time.Now()
			t.UsedAt = &now
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeProjectRepo struct {
	mu           sync.Mutex
	nextID       int64
	rows         map[int64]domain.Project
	coordinators map[int64][]int64
	admins       *fakeAdminRepo
	groups       *fakeGroupRepo
}

func newFakeProjectRepo(admins *fakeAdminRepo, projects ...domain.Project) *fakeProjectRepo {
	repo := &fakeProjectRepo{
		rows:         map[int64]domain.Project{},
		coordinators: map[int64][]int64{},
		admins:       admins,
	}
	for _, p := range projects {
		repo.rows[p.ID] = p
		if p.ID > repo.nextID {
			repo.nextID = p.ID
		}
	}
	return repo
}

func (f *fakeProjectRepo) Create(_ context.Context, project *domain.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	project.ID = f.nextID
	f.rows[project.ID] = *project
	return nil
}

func (f *fakeProjectRepo) Update(_ context.Context, project *domain.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[project.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.rows[project.ID] = *project
	return nil
}

func (f *fakeProjectRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeProjectRepo) GetByID(_ context.Context, id int64) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (f *fakeProjectRepo) List(_ context.Context) ([]domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Project
	for _, p := range f.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeProjectRepo) ListForStudent(ctx context.Context, studentID int64) ([]domain.Project, error) {
	if f.groups == nil {
		return nil, nil
	}
	joined, err := f.groups.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Project, 0, len(joined))
	for _, item := range joined {
		out = append(out, item.Project)
	}
	return out, nil
}

func (f *fakeProjectRepo) AddCoordinator(_ context.Context, projectID, adminID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.coordinators[projectID] {
		if id == adminID {
			return nil
		}
	}
	f.coordinators[projectID] = append(f.coordinators[projectID], adminID)
	return nil
}

func (f *fakeProjectRepo) ListCoordinators(ctx context.Context, projectID int64) ([]domain.Admin, error) {
	f.mu.Lock()
	ids := append([]int64{}, f.coordinators[projectID]...)
	f.mu.Unlock()

	var out []domain.Admin
	for _, id := range ids {
		a, err := f.admins.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeProjectRepo) RemoveCoordinator(_ context.Context, projectID, adminID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := f.coordinators[projectID]
	for i, id := range ids {
		if id == adminID {
			f.coordinators[projectID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeSecurityCodeRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.SecurityCode
}

func newFakeSecurityCodeRepo(codes ...domain.SecurityCode) *fakeSecurityCodeRepo {
	repo := &fakeSecurityCodeRepo{rows: map[int64]domain.SecurityCode{}}
	for _, c := range codes {
		repo.rows[c.ID] = c
		if c.ID > repo.nextID {
			repo.nextID = c.ID
		}
	}
	return repo
}

func (f *fakeSecurityCodeRepo) Create(_ context.Context, code *domain.SecurityCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.rows {
		if c.Code == code.Code {
			return &pgconn.PgError{Code: pgUniqueViolation}
		}
	}
	f.nextID++
	code.ID = f.nextID
	f.rows[code.ID] = *code
	return nil
}

func (f *fakeSecurityCodeRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeSecurityCodeRepo) GetByCode(_ context.Context, code string) (*domain.SecurityCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.rows {
		if c.Code == code {
			c := c
			return &c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSecurityCodeRepo) Exists(ctx context.Context, code string) (bool, error) {
	_, err := f.GetByCode(ctx, code)
	return err == nil, nil
}

func (f *fakeSecurityCodeRepo) List(_ context.Context, projectID *int64) ([]domain.SecurityCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.SecurityCode
	for _, c := range f.rows {
		if projectID != nil && c.ProjectID != *projectID {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeGroupRepo struct {
	mu           sync.Mutex
	nextGroupID  int64
	nextMemberID int64
	groups       map[int64]domain.Group
	members      []domain.GroupMember
	students     *fakeStudentRepo
	projects     *fakeProjectRepo
}

func newFakeGroupRepo(students *fakeStudentRepo, projects *fakeProjectRepo) *fakeGroupRepo {
	repo := &fakeGroupRepo{groups: map[int64]domain.Group{}, students: students, projects: projects}
	projects.groups = repo
	return repo
}

func (f *fakeGroupRepo) CreateWithLeader(_ context.Context, group *domain.Group, leader *domain.GroupMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.groups {
		if g.ProjectID == group.ProjectID && g.Name == group.Name {
			return &pgconn.PgError{Code: pgUniqueViolation}
		}
	}
	f.nextGroupID++
	group.ID = f.nextGroupID
	group.CreatedAt = time.Now()
	f.groups[group.ID] = *group
	leader.GroupID = group.ID
	f.addMemberLocked(leader)
	return nil
}

func (f *fakeGroupRepo) GetByID(_ context.Context, id int64) (*domain.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &g, nil
}

func (f *fakeGroupRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.groups[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.groups, id)
	kept := f.members[:0]
	for _, m := range f.members {
		if m.GroupID != id {
			kept = append(kept, m)
		}
	}
	f.members = kept
	return nil
}

func (f *fakeGroupRepo) ListForStudent(ctx context.Context, studentID int64) ([]domain.GroupWithProject, error) {
	f.mu.Lock()
	var groups []domain.Group
	for _, m := range f.members {
		if m.StudentID == studentID {
			groups = append(groups, f.groups[m.GroupID])
		}
	}
	f.mu.Unlock()

	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	out := make([]domain.GroupWithProject, 0, len(groups))
	for _, g := range groups {
		project, err := f.projects.GetByID(ctx, g.ProjectID)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.GroupWithProject{Group: g, Project: *project})
	}
	return out, nil
}

func (f *fakeGroupRepo) ListByProject(_ context.Context, projectID int64) ([]domain.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Group
	for _, g := range f.groups {
		if g.ProjectID == projectID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeGroupRepo) NameExists(_ context.Context, projectID int64, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.groups {
		if g.ProjectID == projectID && g.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeGroupRepo) IsStudentInProject(_ context.Context, studentID, projectID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.StudentID == studentID && f.groups[m.GroupID].ProjectID == projectID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeGroupRepo) IsLeader(_ context.Context, studentID, groupID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.GroupID == groupID && m.StudentID == studentID && m.Role == domain.StudentRoleGroupLeader {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeGroupRepo) AddMember(_ context.Context, member *domain.GroupMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.GroupID == member.GroupID && m.StudentID == member.StudentID {
			return &pgconn.PgError{Code: pgUniqueViolation}
		}
	}
	f.addMemberLocked(member)
	return nil
}

func (f *fakeGroupRepo) addMemberLocked(member *domain.GroupMember) {
	f.nextMemberID++
	member.ID = f.nextMemberID
	member.JoinedAt = time.Now()
	f.members = append(f.members, *member)
}

func (f *fakeGroupRepo) RemoveMember(_ context.Context, groupID, studentID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.members {
		if m.GroupID == groupID && m.StudentID == studentID {
			f.members = append(f.members[:i], f.members[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeGroupRepo) ListMembers(ctx context.Context, groupID int64) ([]domain.GroupMemberDetail, error) {
	f.mu.Lock()
	var members []domain.GroupMember
	for _, m := range f.members {
		if m.GroupID == groupID {
			members = append(members, m)
		}
	}
	f.mu.Unlock()

	out := make([]domain.GroupMemberDetail, 0, len(members))
	for _, m := range members {
		student, err := f.students.GetByID(ctx, m.StudentID)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.GroupMemberDetail{
			GroupMember: m,
			FirstName:   student.FirstName,
			LastName:    student.LastName,
			Email:       student.Email,
		})
	}
	return out, nil
}

func (f *fakeGroupRepo) CountMembers(_ context.Context, groupID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, m := range f.members {
		if m.GroupID == groupID {
			count++
		}
	}
	return count, nil
}

type recordingDispatcher struct {
	mu        sync.Mutex
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) all() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event{}, d.published...)
}

type fakeRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func (f *fakeRevocations) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.revoked == nil {
		f.revoked = map[string]time.Time{}
	}
	f.revoked[token] = expiresAt
	return nil
}

func (f *fakeRevocations) IsRevoked(_ context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.revoked[token]
	return ok, nil
}
