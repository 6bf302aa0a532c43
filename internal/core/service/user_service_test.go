package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/brandshub/user-directory/internal/core/domain"
	"github.com/brandshub/user-directory/internal/core/ports"
	"github.com/brandshub/user-directory/internal/infrastructure/security"
)

// stubUserRepo is an in-memory UserRepository enforcing the same unique
// constraints as the real store's indexes.
type stubUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int
	// blindExists makes the existence pre-checks report false, simulating
	// a concurrent insert the check-then-act sequence cannot see.
	blindExists bool
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]string(nil), u.Roles...)
	if u.LastLogin != nil {
		t := *u.LastLogin
		clone.LastLogin = &t
	}
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	for id, u := range r.users {
		if id == user.ID {
			continue
		}
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if r.blindExists {
		return false, nil
	}
	_, err := r.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *stubUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if r.blindExists {
		return false, nil
	}
	_, err := r.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.User{}
	for _, u := range r.users {
		out = append(out, *cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) FindByType(_ context.Context, userType domain.UserType) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.User{}
	for _, u := range r.users {
		if u.UserType == userType {
			out = append(out, *cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) FindByStatus(_ context.Context, status domain.UserStatus) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.User{}
	for _, u := range r.users {
		if u.Status == status {
			out = append(out, *cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) SearchByName(_ context.Context, name string) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(name)
	out := []domain.User{}
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.FirstName), q) || strings.Contains(strings.ToLower(u.LastName), q) {
			out = append(out, *cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) SearchByCompany(_ context.Context, company string) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(company)
	out := []domain.User{}
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.CompanyName), q) {
			out = append(out, *cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	t := at
	u.LastLogin = &t
	u.UpdatedAt = at
	return nil
}

type capturePublisher struct {
	mu     sync.Mutex
	events []ports.ActivityEvent
}

func (p *capturePublisher) Publish(event ports.ActivityEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturePublisher) kinds() []ports.ActivityKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ports.ActivityKind, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Kind)
	}
	return out
}

func newTestService(t *testing.T) (*UserService, *stubUserRepo, *capturePublisher) {
	t.Helper()
	repo := newStubUserRepo()
	events := &capturePublisher{}
	svc := NewUserService(
		repo,
		security.NewBcryptHasher(4),
		security.NewJWTIssuer("test-secret", time.Hour),
		events,
		LoginPolicy{},
		zerolog.Nop(),
	)
	return svc, repo, events
}

func registerAlice(t *testing.T, svc *UserService) *ports.UserProfile {
	t.Helper()
	profile, err := svc.Register(context.Background(), ports.RegisterInput{
		Username:  "alice",
		Email:     "alice@x.com",
		Password:  "pw1234567",
		FirstName: "Alice",
		LastName:  "A",
	})
	if err != nil {
		t.Fatalf("register alice: %v", err)
	}
	return profile
}

func TestUserService_Register_Defaults(t *testing.T) {
	svc, repo, events := newTestService(t)

	profile := registerAlice(t, svc)

	if profile.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if profile.Status != domain.StatusActive {
		t.Fatalf("expected ACTIVE, got %s", profile.Status)
	}
	if profile.UserType != domain.TypeExternal {
		t.Fatalf("expected EXTERNAL default, got %s", profile.UserType)
	}
	if len(profile.Roles) != 1 || profile.Roles[0] != domain.RoleUser {
		t.Fatalf("expected roles {USER}, got %v", profile.Roles)
	}
	if profile.LastLogin != nil {
		t.Fatalf("expected nil last login before first authentication")
	}
	if profile.FullName != "Alice A" {
		t.Fatalf("unexpected full name: %s", profile.FullName)
	}

	stored, err := repo.FindByID(context.Background(), profile.ID)
	if err != nil {
		t.Fatalf("lookup after register: %v", err)
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "pw1234567" {
		t.Fatalf("password must be stored hashed")
	}
	if stored.Username != profile.Username || stored.Email != profile.Email {
		t.Fatalf("stored fields differ from projection")
	}

	kinds := events.kinds()
	if len(kinds) != 1 || kinds[0] != ports.ActivityRegistered {
		t.Fatalf("expected registered event, got %v", kinds)
	}
}

func TestUserService_Register_DuplicateUsername(t *testing.T) {
	svc, _, _ := newTestService(t)
	registerAlice(t, svc)

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Username:  "alice",
		Email:     "other@x.com",
		Password:  "pw1234567",
		FirstName: "Other",
		LastName:  "O",
	})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("duplicate sentinel should match ErrDuplicate")
	}
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	registerAlice(t, svc)

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Username:  "bob",
		Email:     "alice@x.com",
		Password:  "pw1234567",
		FirstName: "Bob",
		LastName:  "B",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserService_Register_StoreRace(t *testing.T) {
	// The pre-checks cannot see a concurrent insert; the store's unique
	// constraint failure must surface as the same duplicate error.
	svc, repo, _ := newTestService(t)
	registerAlice(t, svc)

	repo.blindExists = true
	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Username:  "ALICE2",
		Email:     "alice@x.com",
		Password:  "pw1234567",
		FirstName: "Racer",
		LastName:  "R",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken from store constraint, got %v", err)
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)

	cases := []ports.RegisterInput{
		{Username: "ab", Email: "a@x.com", Password: "pw1234567", FirstName: "A", LastName: "B"},  // username too short
		{Username: "carol", Email: "not-an-email", Password: "pw1234567", FirstName: "C", LastName: "D"}, // bad email
		{Username: "carol", Email: "c@x.com", Password: "short", FirstName: "C", LastName: "D"},   // short password
		{Username: "carol", Email: "c@x.com", Password: "pw1234567", FirstName: "", LastName: "D"}, // missing first name
	}
	for i, in := range cases {
		if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
}

func TestUserService_Authenticate_Success(t *testing.T) {
	svc, _, events := newTestService(t)
	registerAlice(t, svc)

	result, err := svc.Authenticate(context.Background(), "alice", "pw1234567")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected non-empty token")
	}
	if result.TokenType != "Bearer" {
		t.Fatalf("expected Bearer token type, got %s", result.TokenType)
	}
	if result.ExpiresIn != int64(time.Hour.Seconds()) {
		t.Fatalf("unexpected expiry: %d", result.ExpiresIn)
	}
	if result.User == nil || result.User.Username != "alice" {
		t.Fatalf("unexpected user projection: %+v", result.User)
	}
	if result.User.LastLogin == nil {
		t.Fatalf("expected last login stamped")
	}

	kinds := events.kinds()
	if kinds[len(kinds)-1] != ports.ActivityLogin {
		t.Fatalf("expected login event, got %v", kinds)
	}
}

func TestUserService_Authenticate_ByEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	registerAlice(t, svc)

	result, err := svc.Authenticate(context.Background(), "alice@x.com", "pw1234567")
	if err != nil {
		t.Fatalf("authenticate by email: %v", err)
	}
	if result.User.Username != "alice" {
		t.Fatalf("unexpected user: %s", result.User.Username)
	}
}

func TestUserService_Authenticate_GenericFailure(t *testing.T) {
	// Wrong password and unknown identifier must be indistinguishable.
	svc, _, _ := newTestService(t)
	registerAlice(t, svc)

	_, errWrongPass := svc.Authenticate(context.Background(), "alice", "wrong")
	_, errUnknown := svc.Authenticate(context.Background(), "nobody", "whatever")

	if !errors.Is(errWrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPass)
	}
	if !errors.Is(errUnknown, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown identity: expected ErrInvalidCredentials, got %v", errUnknown)
	}
	if errWrongPass.Error() != errUnknown.Error() {
		t.Fatalf("failure messages differ: %q vs %q", errWrongPass, errUnknown)
	}
}

func TestUserService_Authenticate_StatusGate(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(
		repo,
		security.NewBcryptHasher(4),
		security.NewJWTIssuer("test-secret", time.Hour),
		nil,
		LoginPolicy{RequireActive: true},
		zerolog.Nop(),
	)

	profile, err := svc.Register(context.Background(), ports.RegisterInput{
		Username:  "dave",
		Email:     "dave@x.com",
		Password:  "pw1234567",
		FirstName: "Dave",
		LastName:  "D",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), "dave", "pw1234567"); err != nil {
		t.Fatalf("active account should log in: %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), profile.ID, domain.StatusSuspended); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "dave", "pw1234567"); !errors.Is(err, domain.ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestUserService_Authenticate_NoGateByDefault(t *testing.T) {
	svc, _, _ := newTestService(t)
	profile := registerAlice(t, svc)

	if _, err := svc.UpdateStatus(context.Background(), profile.ID, domain.StatusSuspended); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "alice", "pw1234567"); err != nil {
		t.Fatalf("default policy should not gate on status: %v", err)
	}
}

func TestUserService_Lookups(t *testing.T) {
	svc, _, _ := newTestService(t)
	profile := registerAlice(t, svc)

	byID, err := svc.GetByID(context.Background(), profile.ID)
	if err != nil || byID.Username != "alice" {
		t.Fatalf("get by id: %v %+v", err, byID)
	}
	byName, err := svc.GetByUsername(context.Background(), "alice")
	if err != nil || byName.ID != profile.ID {
		t.Fatalf("get by username: %v", err)
	}
	byEmail, err := svc.GetByEmail(context.Background(), "alice@x.com")
	if err != nil || byEmail.ID != profile.ID {
		t.Fatalf("get by email: %v", err)
	}

	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, repo, _ := newTestService(t)
	profile := registerAlice(t, svc)
	before, _ := repo.FindByID(context.Background(), profile.ID)

	updated, err := svc.UpdateProfile(context.Background(), profile.ID, ports.UpdateProfileInput{
		Email:       "alice@corp.com",
		FirstName:   "Alicia",
		LastName:    "A",
		CompanyName: "Corp",
		PhoneNumber: "555-1234",
		UserType:    domain.TypeInternal,
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Email != "alice@corp.com" || updated.FirstName != "Alicia" || updated.UserType != domain.TypeInternal {
		t.Fatalf("unexpected profile: %+v", updated)
	}

	// No password supplied: credential unchanged.
	after, _ := repo.FindByID(context.Background(), profile.ID)
	if after.PasswordHash != before.PasswordHash {
		t.Fatalf("password hash should be unchanged")
	}
	if _, err := svc.Authenticate(context.Background(), "alice", "pw1234567"); err != nil {
		t.Fatalf("old password should still work: %v", err)
	}
}

func TestUserService_UpdateProfile_PasswordChange(t *testing.T) {
	svc, _, _ := newTestService(t)
	profile := registerAlice(t, svc)

	_, err := svc.UpdateProfile(context.Background(), profile.ID, ports.UpdateProfileInput{
		Email:     "alice@x.com",
		Password:  "newpassword1",
		FirstName: "Alice",
		LastName:  "A",
	})
	if err != nil {
		t.Fatalf("update with password: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), "alice", "pw1234567"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password should be rejected, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "alice", "newpassword1"); err != nil {
		t.Fatalf("new password should work: %v", err)
	}
}

func TestUserService_UpdateProfile_EmailTaken(t *testing.T) {
	svc, _, _ := newTestService(t)
	registerAlice(t, svc)
	bob, err := svc.Register(context.Background(), ports.RegisterInput{
		Username:  "bob",
		Email:     "bob@x.com",
		Password:  "pw1234567",
		FirstName: "Bob",
		LastName:  "B",
	})
	if err != nil {
		t.Fatalf("register bob: %v", err)
	}

	_, err = svc.UpdateProfile(context.Background(), bob.ID, ports.UpdateProfileInput{
		Email:     "alice@x.com",
		FirstName: "Bob",
		LastName:  "B",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	svc, _, events := newTestService(t)
	profile := registerAlice(t, svc)

	if err := svc.Delete(context.Background(), profile.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), profile.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound after delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), profile.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for missing id, got %v", err)
	}

	kinds := events.kinds()
	if kinds[len(kinds)-1] != ports.ActivityDeleted {
		t.Fatalf("expected deleted event, got %v", kinds)
	}
}

func TestUserService_RoleIdempotency(t *testing.T) {
	svc, _, _ := newTestService(t)
	profile := registerAlice(t, svc)
	ctx := context.Background()

	p, err := svc.AddRole(ctx, profile.ID, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("add role: %v", err)
	}
	if !hasRoles(p.Roles, domain.RoleUser, domain.RoleAdmin) {
		t.Fatalf("expected {USER, ADMIN}, got %v", p.Roles)
	}

	// Adding again is a successful no-op.
	p, err = svc.AddRole(ctx, profile.ID, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("re-add role: %v", err)
	}
	if len(p.Roles) != 2 {
		t.Fatalf("expected 2 roles after re-add, got %v", p.Roles)
	}

	p, err = svc.RemoveRole(ctx, profile.ID, domain.RoleUser)
	if err != nil {
		t.Fatalf("remove role: %v", err)
	}
	if len(p.Roles) != 1 || p.Roles[0] != domain.RoleAdmin {
		t.Fatalf("expected {ADMIN}, got %v", p.Roles)
	}

	// Removing an absent role still succeeds.
	p, err = svc.RemoveRole(ctx, profile.ID, "MISSING")
	if err != nil {
		t.Fatalf("remove absent role: %v", err)
	}
	if len(p.Roles) != 1 || p.Roles[0] != domain.RoleAdmin {
		t.Fatalf("role set changed by absent removal: %v", p.Roles)
	}

	// Removing the last role leaves an empty, non-nil set.
	p, err = svc.RemoveRole(ctx, profile.ID, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("remove last role: %v", err)
	}
	if p.Roles == nil || len(p.Roles) != 0 {
		t.Fatalf("expected empty role set, got %v", p.Roles)
	}
}

func TestUserService_ListsAndSearches(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	registerAlice(t, svc)
	if _, err := svc.Register(ctx, ports.RegisterInput{
		Username:    "bob",
		Email:       "bob@x.com",
		Password:    "pw1234567",
		FirstName:   "Bob",
		LastName:    "Builder",
		CompanyName: "Acme Corp",
		UserType:    domain.TypeInternal,
	}); err != nil {
		t.Fatalf("register bob: %v", err)
	}

	all, err := svc.ListAll(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("list all: %v %d", err, len(all))
	}

	internal, err := svc.ListByType(ctx, domain.TypeInternal)
	if err != nil || len(internal) != 1 || internal[0].Username != "bob" {
		t.Fatalf("list by type: %v %+v", err, internal)
	}

	active, err := svc.ListByStatus(ctx, domain.StatusActive)
	if err != nil || len(active) != 2 {
		t.Fatalf("list by status: %v %d", err, len(active))
	}

	// Case-insensitive substring on first or last name.
	byName, err := svc.SearchByName(ctx, "BUILD")
	if err != nil || len(byName) != 1 || byName[0].Username != "bob" {
		t.Fatalf("search by name: %v %+v", err, byName)
	}

	byCompany, err := svc.SearchByCompany(ctx, "acme")
	if err != nil || len(byCompany) != 1 || byCompany[0].Username != "bob" {
		t.Fatalf("search by company: %v %+v", err, byCompany)
	}
}

func TestUserService_UpdateLastLogin(t *testing.T) {
	svc, repo, _ := newTestService(t)
	profile := registerAlice(t, svc)

	if err := svc.UpdateLastLogin(context.Background(), profile.ID); err != nil {
		t.Fatalf("update last login: %v", err)
	}
	stored, _ := repo.FindByID(context.Background(), profile.ID)
	if stored.LastLogin == nil {
		t.Fatalf("expected last login stamped")
	}

	if err := svc.UpdateLastLogin(context.Background(), "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

// TestUserService_Scenario covers the full register → login → role
// management flow end to end.
func TestUserService_Scenario(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	profile := registerAlice(t, svc)
	if profile.Status != domain.StatusActive || profile.UserType != domain.TypeExternal {
		t.Fatalf("unexpected defaults: %+v", profile)
	}

	result, err := svc.Authenticate(ctx, "alice", "pw1234567")
	if err != nil || result.Token == "" || result.User.Username != "alice" {
		t.Fatalf("login: %v %+v", err, result)
	}

	if _, err := svc.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	p, err := svc.AddRole(ctx, profile.ID, "ADMIN")
	if err != nil || !hasRoles(p.Roles, "USER", "ADMIN") {
		t.Fatalf("add admin: %v %v", err, p.Roles)
	}

	p, err = svc.RemoveRole(ctx, profile.ID, "USER")
	if err != nil || len(p.Roles) != 1 || p.Roles[0] != "ADMIN" {
		t.Fatalf("remove user: %v %v", err, p.Roles)
	}
}

func hasRoles(roles []string, want ...string) bool {
	if len(roles) != len(want) {
		return false
	}
	set := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	for _, w := range want {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}
