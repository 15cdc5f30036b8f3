package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectfair/backend/internal/domain"
	apperrors "github.com/projectfair/backend/pkg/util/errorutil"
)

func newGuardedApp(t *testing.T) (*fiber.App, *TokenManager, *fakeAdmins) {
	t.Helper()
	extractor, tokens, admins, _ := newTestExtractor(nil)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": de.Message})
		},
	})
	app.Use(NewAuthMiddleware(extractor, nil).Handle)

	app.Get("/public", func(c *fiber.Ctx) error {
		_, ok := PrincipalFromContext(c)
		return c.JSON(fiber.Map{"authenticated": ok})
	})
	app.Get("/any", RequireAuthenticated(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	app.Get("/managers", RequireAdmin(domain.AdminRoleRoot, domain.AdminRoleProfessor), func(c *fiber.Ctx) error {
		admin, err := GetAdmin(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"email": admin.Email})
	})
	app.Get("/coordinators", RequireAdmin(domain.AdminRoleCoordinator), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	app.Get("/student", RequireStudent(), func(c *fiber.Ctx) error {
		_, adminErr := GetAdmin(c)
		student, err := GetStudent(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"id":            student.ID,
			"email":         student.Email,
			"university_id": student.UniversityID,
			"admin_error":   adminErr.Error(),
		})
	})
	return app, tokens, admins
}

func doRequest(t *testing.T, app *fiber.App, path string, hdrs map[string]string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range hdrs {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body := map[string]any{}
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	}
	return resp.StatusCode, body
}

func TestMiddlewareAnonymous(t *testing.T) {
	app, _, _ := newGuardedApp(t)

	status, body := doRequest(t, app, "/public", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["authenticated"])

	status, body = doRequest(t, app, "/any", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, msgTokenNotProvided, body["error"])
}

func TestMiddlewareInvalidTokenOnPublicRoute(t *testing.T) {
	app, _, _ := newGuardedApp(t)

	status, body := doRequest(t, app, "/public", map[string]string{StudentHeader: "broken"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid token", body["error"])
}

func TestGuardAdminTiers(t *testing.T) {
	app, tokens, _ := newGuardedApp(t)

	root, _, err := tokens.IssueAdminToken(1, domain.AdminRoleRoot)
	require.NoError(t, err)
	coordinator, _, err := tokens.IssueAdminToken(4, domain.AdminRoleCoordinator)
	require.NoError(t, err)

	status, body := doRequest(t, app, "/managers", map[string]string{AdminHeader: root})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "root@example.com", body["email"])

	status, body = doRequest(t, app, "/coordinators", map[string]string{AdminHeader: root})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, msgInsufficientPermissions, body["error"])

	status, _ = doRequest(t, app, "/coordinators", map[string]string{AdminHeader: coordinator})
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = doRequest(t, app, "/managers", map[string]string{AdminHeader: coordinator})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestGuardStudentIdentity(t *testing.T) {
	app, tokens, _ := newGuardedApp(t)

	token, _, err := tokens.IssueStudentToken(120)
	require.NoError(t, err)

	status, body := doRequest(t, app, "/student", map[string]string{StudentHeader: token})
	assert.Equal(t, http.StatusOK, status)
	_, students := testFixtures()
	want := students.rows[120]
	assert.Equal(t, float64(want.ID), body["id"])
	assert.Equal(t, want.Email, body["email"])
	assert.Equal(t, "s120@studenti.example.edu", body["email"])
	assert.Equal(t, float64(want.UniversityID), body["university_id"])
	assert.Equal(t, ErrUnableToExtractUser.Error(), body["admin_error"])

	status, _ = doRequest(t, app, "/managers", map[string]string{StudentHeader: token})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestGuardDeletedAdmin(t *testing.T) {
	app, tokens, admins := newGuardedApp(t)

	token, _, err := tokens.IssueAdminToken(2, domain.AdminRoleProfessor)
	require.NoError(t, err)
	delete(admins.rows, 2)

	status, body := doRequest(t, app, "/managers", map[string]string{AdminHeader: token})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid token", body["error"])
}

func TestConcurrentRequestsDoNotShareIdentity(t *testing.T) {
	app, tokens, _ := newGuardedApp(t)

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for id := int64(100); id < 150; id++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			token, _, err := tokens.IssueStudentToken(id)
			if err != nil {
				errs <- err
				return
			}
			req := httptest.NewRequest(http.MethodGet, "/student", nil)
			req.Header.Set(StudentHeader, token)
			resp, err := app.Test(req, int((5 * time.Second).Milliseconds()))
			if err != nil {
				errs <- err
				return
			}
			defer resp.Body.Close()

			var body struct {
				ID int64 `json:"id"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				errs <- err
				return
			}
			if body.ID != id {
				errs <- fmt.Errorf("request for student %d saw student %d", id, body.ID)
			}
		}(id)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestIdentityAccessorsWithoutPrincipal(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		_, adminErr := GetAdmin(c)
		_, studentErr := GetStudent(c)
		if !errors.Is(adminErr, ErrUnableToExtractUser) || !errors.Is(studentErr, ErrUnableToExtractUser) {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendStatus(http.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
