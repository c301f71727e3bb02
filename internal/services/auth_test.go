package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/T332932/for-dachaung/internal/types"
)

type fakeUserRepo struct {
	users map[string]*types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*types.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, _ *gorm.DB, user *types.User) (*types.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.Username] = user
	return user, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, _ *gorm.DB, username string) (*types.User, error) {
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UsernameExists(_ context.Context, _ *gorm.DB, username string) (bool, error) {
	_, ok := f.users[username]
	return ok, nil
}

type fakeCaptcha struct {
	accept bool
}

func (f *fakeCaptcha) Generate(context.Context) (string, []byte, error) {
	return "id", nil, nil
}

func (f *fakeCaptcha) Verify(context.Context, string, string) (bool, error) {
	return f.accept, nil
}

func newAuthFixture(t *testing.T, accept bool) (AuthService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	svc := NewAuthService(nil, testLogger(t), repo, &fakeCaptcha{accept: accept}, "test-secret", time.Hour)
	return svc, repo
}

func TestAuthRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture(t, true)

	user, err := svc.Register(ctx, "alice", "pa55word", "", "cid", "ABCD")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Password == "pa55word" {
		t.Fatalf("password stored in plaintext")
	}
	if user.Role != types.RoleTeacher {
		t.Fatalf("default role = %q, want teacher", user.Role)
	}

	token, got, err := svc.Login(ctx, "alice", "pa55word")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != user.ID || token == "" {
		t.Fatalf("login returned wrong user or empty token")
	}

	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("token subject = %v, want %v", claims.UserID, user.ID)
	}
	if claims.Role != types.RoleTeacher {
		t.Fatalf("token role = %q, want teacher", claims.Role)
	}
}

func TestAuthRegisterRejectsUnknownRole(t *testing.T) {
	svc, _ := newAuthFixture(t, true)
	if _, err := svc.Register(context.Background(), "eve", "pw", "superuser", "cid", "ABCD"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("want ErrInvalidRole, got %v", err)
	}
}

func TestAuthRegisterRejectsBadCaptcha(t *testing.T) {
	svc, _ := newAuthFixture(t, false)
	if _, err := svc.Register(context.Background(), "bob", "pw", "", "cid", "XXXX"); !errors.Is(err, ErrCaptchaRejected) {
		t.Fatalf("want ErrCaptchaRejected, got %v", err)
	}
}

func TestAuthRegisterRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture(t, true)
	if _, err := svc.Register(ctx, "carol", "pw", "", "cid", "ABCD"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, "carol", "pw2", "", "cid", "ABCD"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("want ErrUsernameTaken, got %v", err)
	}
}

func TestAuthLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture(t, true)
	_, _ = svc.Register(ctx, "dave", "right", "", "cid", "ABCD")
	if _, _, err := svc.Login(ctx, "dave", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: want ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthParseTokenRejectsGarbage(t *testing.T) {
	svc, _ := newAuthFixture(t, true)
	if _, err := svc.ParseToken("not.a.token"); err == nil {
		t.Fatalf("garbage token accepted")
	}
}
