package validate

import (
	"context"
	"strings"
	"testing"
	"time"

	dom "github.com/andradm/Journal-project/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byUsername map[string]dom.User
	byEmail    map[string]dom.User
}

func newFakeUserRepo(users ...dom.User) *fakeUserRepo {
	r := &fakeUserRepo{byUsername: map[string]dom.User{}, byEmail: map[string]dom.User{}}
	for _, u := range users {
		r.byUsername[u.Username] = u
		r.byEmail[u.Email] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, username, email, passwordHash string) (dom.User, error) {
	panic("not used")
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	if u, ok := r.byUsername[username]; ok {
		return u, nil
	}
	return dom.User{}, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return dom.User{}, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	return dom.User{}, pgx.ErrNoRows
}

func fields(errs []FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestRegisterValid(t *testing.T) {
	errs, err := Register(context.Background(), newFakeUserRepo(), RegisterInput{
		Username:  "alice",
		Email:     "alice@x.com",
		Password:  "pw12",
		Password2: "pw12",
	})
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestRegisterFieldRules(t *testing.T) {
	tests := []struct {
		name      string
		in        RegisterInput
		wantField string
	}{
		{
			name:      "username with spaces",
			in:        RegisterInput{Username: "bad name", Email: "a@x.com", Password: "pw12", Password2: "pw12"},
			wantField: "username",
		},
		{
			name:      "username with punctuation",
			in:        RegisterInput{Username: "nope!", Email: "a@x.com", Password: "pw12", Password2: "pw12"},
			wantField: "username",
		},
		{
			name:      "invalid email",
			in:        RegisterInput{Username: "alice", Email: "not-an-email", Password: "pw12", Password2: "pw12"},
			wantField: "email",
		},
		{
			name:      "password too short",
			in:        RegisterInput{Username: "alice", Email: "a@x.com", Password: "p", Password2: "p"},
			wantField: "password",
		},
		{
			name:      "passwords differ",
			in:        RegisterInput{Username: "alice", Email: "a@x.com", Password: "pw12", Password2: "pw13"},
			wantField: "password",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs, err := Register(context.Background(), newFakeUserRepo(), tt.in)
			require.NoError(t, err)
			assert.Contains(t, fields(errs), tt.wantField)
		})
	}
}

func TestRegisterAllMissing(t *testing.T) {
	errs, err := Register(context.Background(), newFakeUserRepo(), RegisterInput{})
	require.NoError(t, err)
	got := fields(errs)
	for _, f := range []string{"username", "email", "password", "password2"} {
		assert.Contains(t, got, f)
	}
}

func TestRegisterTakenAgainstCommittedState(t *testing.T) {
	repo := newFakeUserRepo(dom.User{ID: 1, Username: "alice", Email: "alice@x.com"})

	errs, err := Register(context.Background(), repo, RegisterInput{
		Username: "alice", Email: "fresh@x.com", Password: "pw12", Password2: "pw12",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"username"}, fields(errs))

	errs, err = Register(context.Background(), repo, RegisterInput{
		Username: "alice2", Email: "alice@x.com", Password: "pw12", Password2: "pw12",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"email"}, fields(errs))
}

func TestLoginRules(t *testing.T) {
	errs := Login(LoginInput{Email: "alice@x.com", Password: "pw12"})
	assert.Empty(t, errs)

	errs = Login(LoginInput{Email: "nope", Password: "pw12"})
	assert.Contains(t, fields(errs), "email")

	errs = Login(LoginInput{})
	assert.Contains(t, fields(errs), "email")
	assert.Contains(t, fields(errs), "password")
}

func TestEntryValid(t *testing.T) {
	date, errs := Entry(EntryInput{
		Title:     "Learned X",
		TimeSpent: 3,
		Content:   "notes",
		Resources: "links",
		Date:      "01/02/2023",
	})
	require.Empty(t, errs)
	assert.Equal(t, time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC), date)
}

func TestEntryRules(t *testing.T) {
	tests := []struct {
		name      string
		in        EntryInput
		wantField string
	}{
		{
			name:      "missing title",
			in:        EntryInput{TimeSpent: 3, Content: "c", Resources: "r", Date: "01/02/2023"},
			wantField: "title",
		},
		{
			name:      "title too long",
			in:        EntryInput{Title: strings.Repeat("x", 201), TimeSpent: 3, Content: "c", Resources: "r", Date: "01/02/2023"},
			wantField: "title",
		},
		{
			name:      "zero time spent",
			in:        EntryInput{Title: "t", Content: "c", Resources: "r", Date: "01/02/2023"},
			wantField: "time_spent",
		},
		{
			name:      "missing content",
			in:        EntryInput{Title: "t", TimeSpent: 3, Resources: "r", Date: "01/02/2023"},
			wantField: "content",
		},
		{
			name:      "missing resources",
			in:        EntryInput{Title: "t", TimeSpent: 3, Content: "c", Date: "01/02/2023"},
			wantField: "resources",
		},
		{
			name:      "missing date",
			in:        EntryInput{Title: "t", TimeSpent: 3, Content: "c", Resources: "r"},
			wantField: "date",
		},
		{
			name:      "ISO date rejected",
			in:        EntryInput{Title: "t", TimeSpent: 3, Content: "c", Resources: "r", Date: "2023-01-02"},
			wantField: "date",
		},
		{
			name:      "day and month swapped out of range",
			in:        EntryInput{Title: "t", TimeSpent: 3, Content: "c", Resources: "r", Date: "31/01/2023"},
			wantField: "date",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := Entry(tt.in)
			assert.Contains(t, fields(errs), tt.wantField)
		})
	}
}
