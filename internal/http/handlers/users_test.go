package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/yashp387/Job-Board/internal/domain/user"
	"github.com/yashp387/Job-Board/internal/http/handlers"
	"github.com/yashp387/Job-Board/internal/security"
)

// Fake repository implementation of the handlers.UsersStore interface

type fakeUsersRepo struct {
	createFn     func(ctx context.Context, name, email, passwordHash, role string, profile map[string]any) (user.User, error)
	getByEmailFn func(ctx context.Context, email string) (user.User, error)
	getByIDFn    func(ctx context.Context, id string) (user.User, error)
	listFn       func(ctx context.Context) ([]user.User, error)
	updateFn     func(ctx context.Context, id string, req user.UpdateUserRequest, passwordHash *string) (user.User, error)
	deleteFn     func(ctx context.Context, id string) error
}

func (f *fakeUsersRepo) Create(ctx context.Context, name, email, passwordHash, role string, profile map[string]any) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, name, email, passwordHash, role, profile)
	}
	return user.User{}, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return user.User{}, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return user.User{}, nil
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]user.User, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return []user.User{}, nil
}

func (f *fakeUsersRepo) Update(ctx context.Context, id string, req user.UpdateUserRequest, passwordHash *string) (user.User, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req, passwordHash)
	}
	return user.User{}, nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		repoSetUp      func(*fakeUsersRepo)
		wantStatusCode int
		wantToken      bool
	}{
		{
			name: "success",
			body: `{"name":"Alice","email":"alice@example.com","password":"s3cretpass","role":"employer"}`,
			repoSetUp: func(f *fakeUsersRepo) {
				f.createFn = func(ctx context.Context, name, email, passwordHash, role string, profile map[string]any) (user.User, error) {
					if passwordHash == "s3cretpass" {
						return user.User{}, errors.New("plaintext password reached the store")
					}
					return user.User{ID: newUUID(), Name: name, Email: email, PasswordHash: passwordHash, Role: role}, nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantToken:      true,
		},
		{
			name:           "invalid_role",
			body:           `{"name":"Alice","email":"alice@example.com","password":"s3cretpass","role":"admin"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "missing_fields",
			body:           `{"email":"alice@example.com"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "email_taken",
			body: `{"name":"Alice","email":"alice@example.com","password":"s3cretpass","role":"employer"}`,
			repoSetUp: func(f *fakeUsersRepo) {
				f.createFn = func(ctx context.Context, name, email, passwordHash, role string, profile map[string]any) (user.User, error) {
					return user.User{}, user.ErrEmailTaken
				}
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name: "repo_error",
			body: `{"name":"Alice","email":"alice@example.com","password":"s3cretpass","role":"employer"}`,
			repoSetUp: func(f *fakeUsersRepo) {
				f.createFn = func(ctx context.Context, name, email, passwordHash, role string, profile map[string]any) (user.User, error) {
					return user.User{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeUsersRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewUsersHandler(repo, newTestJWT())

			r := setupRouter(http.MethodPost, "/user/register", h.Register)

			w := doRequest(r, http.MethodPost, "/user/register", tt.body, "")

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantToken {
				var resp struct {
					Token string `json:"token"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if resp.Token == "" {
					t.Fatalf("expected a token in the response, body=%s", w.Body.String())
				}
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	hash, err := security.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	known := user.User{
		ID:           newUUID(),
		Name:         "Bob",
		Email:        "bob@example.com",
		PasswordHash: hash,
		Role:         user.RoleJobseeker,
	}

	lookup := func(f *fakeUsersRepo) {
		f.getByEmailFn = func(ctx context.Context, email string) (user.User, error) {
			if email == known.Email {
				return known, nil
			}
			return user.User{}, user.ErrNotFound
		}
	}

	tests := []struct {
		name           string
		body           string
		wantStatusCode int
	}{
		{
			name:           "success",
			body:           `{"name":"Bob","email":"bob@example.com","password":"correct-horse"}`,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "wrong_password",
			body:           `{"name":"Bob","email":"bob@example.com","password":"battery-staple"}`,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "unknown_email",
			body:           `{"name":"Bob","email":"nobody@example.com","password":"correct-horse"}`,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			// all three fields are required before any lookup happens
			name:           "missing_name",
			body:           `{"email":"bob@example.com","password":"correct-horse"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "missing_password",
			body:           `{"name":"Bob","email":"bob@example.com"}`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeUsersRepo{}
			lookup(repo)

			h := handlers.NewUsersHandler(repo, newTestJWT())

			r := setupRouter(http.MethodPost, "/user/login", h.Login)

			w := doRequest(r, http.MethodPost, "/user/login", tt.body, "")

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestListProfilesRedactsPasswordHash(t *testing.T) {
	repo := &fakeUsersRepo{
		listFn: func(ctx context.Context) ([]user.User, error) {
			return []user.User{
				{ID: newUUID(), Name: "Alice", Email: "alice@example.com", PasswordHash: "$2a$10$secret", Role: user.RoleEmployer},
			}, nil
		},
	}

	h := handlers.NewUsersHandler(repo, newTestJWT())

	r := setupRouter(http.MethodGet, "/user/profile", h.ListProfiles)

	w := doRequest(r, http.MethodGet, "/user/profile", "", "")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	if strings.Contains(w.Body.String(), "secret") {
		t.Fatalf("password hash leaked in response: %s", w.Body.String())
	}
}

func TestUpdateProfileAuthorization(t *testing.T) {
	jwt := newTestJWT()

	targetID := newUUID()
	otherID := newUUID()

	tests := []struct {
		name           string
		path           string
		authHeader     func(t *testing.T) string
		repoSetUp      func(*fakeUsersRepo)
		wantStatusCode int
	}{
		{
			name: "self_can_update",
			path: "/user/profile/" + targetID,
			authHeader: func(t *testing.T) string {
				return bearerFor(t, jwt, targetID, "me@example.com", user.RoleJobseeker)
			},
			repoSetUp: func(f *fakeUsersRepo) {
				f.updateFn = func(ctx context.Context, id string, req user.UpdateUserRequest, passwordHash *string) (user.User, error) {
					return user.User{ID: id, Name: "Updated"}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "employer_can_update_others",
			path: "/user/profile/" + targetID,
			authHeader: func(t *testing.T) string {
				return bearerFor(t, jwt, otherID, "boss@example.com", user.RoleEmployer)
			},
			repoSetUp: func(f *fakeUsersRepo) {
				f.updateFn = func(ctx context.Context, id string, req user.UpdateUserRequest, passwordHash *string) (user.User, error) {
					return user.User{ID: id}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "jobseeker_cannot_update_others",
			path: "/user/profile/" + targetID,
			authHeader: func(t *testing.T) string {
				return bearerFor(t, jwt, otherID, "other@example.com", user.RoleJobseeker)
			},
			wantStatusCode: http.StatusForbidden,
		},
		{
			name: "malformed_target_id",
			path: "/user/profile/not-a-uuid",
			authHeader: func(t *testing.T) string {
				return bearerFor(t, jwt, targetID, "me@example.com", user.RoleJobseeker)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "target_not_found",
			path: "/user/profile/" + targetID,
			authHeader: func(t *testing.T) string {
				return bearerFor(t, jwt, targetID, "me@example.com", user.RoleJobseeker)
			},
			repoSetUp: func(f *fakeUsersRepo) {
				f.updateFn = func(ctx context.Context, id string, req user.UpdateUserRequest, passwordHash *string) (user.User, error) {
					return user.User{}, user.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "missing_token",
			path: "/user/profile/" + targetID,
			authHeader: func(t *testing.T) string {
				return ""
			},
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeUsersRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewUsersHandler(repo, jwt)

			r := authedRouter(jwt, http.MethodPut, "/user/profile/:id", h.UpdateProfile)

			w := doRequest(r, http.MethodPut, tt.path, `{"name":"Updated"}`, tt.authHeader(t))

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestUpdateProfileHashesNewPassword(t *testing.T) {
	jwt := newTestJWT()
	targetID := newUUID()

	var gotHash *string

	repo := &fakeUsersRepo{
		updateFn: func(ctx context.Context, id string, req user.UpdateUserRequest, passwordHash *string) (user.User, error) {
			gotHash = passwordHash
			return user.User{ID: id}, nil
		},
	}

	h := handlers.NewUsersHandler(repo, jwt)

	r := authedRouter(jwt, http.MethodPut, "/user/profile/:id", h.UpdateProfile)

	w := doRequest(r, http.MethodPut, "/user/profile/"+targetID,
		`{"password":"new-password-1"}`,
		bearerFor(t, jwt, targetID, "me@example.com", user.RoleJobseeker))

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	if gotHash == nil {
		t.Fatalf("expected the handler to pass a password hash to the repo")
	}
	if *gotHash == "new-password-1" {
		t.Fatalf("plaintext password reached the repo")
	}
	if err := security.CheckPassword(*gotHash, "new-password-1"); err != nil {
		t.Fatalf("stored hash does not match the new password: %v", err)
	}
}

func TestDeleteProfile(t *testing.T) {
	jwt := newTestJWT()
	targetID := newUUID()
	otherID := newUUID()

	tests := []struct {
		name           string
		callerID       string
		callerRole     string
		repoSetUp      func(*fakeUsersRepo)
		wantStatusCode int
	}{
		{
			name:           "self_can_delete",
			callerID:       targetID,
			callerRole:     user.RoleJobseeker,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "other_jobseeker_forbidden",
			callerID:       otherID,
			callerRole:     user.RoleJobseeker,
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:       "not_found",
			callerID:   targetID,
			callerRole: user.RoleJobseeker,
			repoSetUp: func(f *fakeUsersRepo) {
				f.deleteFn = func(ctx context.Context, id string) error {
					return user.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeUsersRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewUsersHandler(repo, jwt)

			r := authedRouter(jwt, http.MethodDelete, "/user/profile/:id", h.DeleteProfile)

			w := doRequest(r, http.MethodDelete, "/user/profile/"+targetID, "",
				bearerFor(t, jwt, tt.callerID, "caller@example.com", tt.callerRole))

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}
