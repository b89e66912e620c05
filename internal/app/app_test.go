package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/andradm/Journal-project/internal/handlers"
	"github.com/andradm/Journal-project/internal/service"

	dom "github.com/andradm/Journal-project/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSessions struct {
	sessions map[string]int64
	counter  int
}

func (m *memSessions) Create(ctx context.Context, userID int64) (string, error) {
	m.counter++
	id := fmt.Sprintf("sess-%d", m.counter)
	m.sessions[id] = userID
	return id, nil
}

func (m *memSessions) GetUserID(ctx context.Context, id string) (int64, bool) {
	userID, ok := m.sessions[id]
	return userID, ok
}

func (m *memSessions) Delete(ctx context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

type memUserRepo struct {
	users  map[int64]dom.User
	nextID int64
}

func (r *memUserRepo) Create(ctx context.Context, username, email, passwordHash string) (dom.User, error) {
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return dom.User{}, &pgconn.PgError{Code: "23505"}
		}
	}
	r.nextID++
	u := dom.User{ID: r.nextID, Username: username, Email: email, PasswordHash: passwordHash, JoinedAt: time.Now()}
	r.users[u.ID] = u
	return u, nil
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (r *memUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return dom.User{}, pgx.ErrNoRows
}

type memEntryRepo struct {
	entries map[int64]dom.Entry
	nextID  int64
}

func (r *memEntryRepo) Create(ctx context.Context, e dom.Entry) (dom.Entry, error) {
	r.nextID++
	e.ID = r.nextID
	e.CreatedAt = time.Now().Add(time.Duration(r.nextID) * time.Millisecond)
	r.entries[e.ID] = e
	return e, nil
}

func (r *memEntryRepo) GetByID(ctx context.Context, id int64) (dom.Entry, error) {
	if e, ok := r.entries[id]; ok {
		return e, nil
	}
	return dom.Entry{}, pgx.ErrNoRows
}

func (r *memEntryRepo) ListRecent(ctx context.Context, limit int) ([]dom.Entry, error) {
	list := make([]dom.Entry, 0, len(r.entries))
	for _, e := range r.entries {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].EntryDate.Equal(list[j].EntryDate) {
			return list[i].EntryDate.After(list[j].EntryDate)
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *memEntryRepo) ListRecentByOwner(ctx context.Context, userID int64, limit int) ([]dom.Entry, error) {
	var list []dom.Entry
	for _, e := range r.entries {
		if e.UserID == userID {
			list = append(list, e)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *memEntryRepo) Update(ctx context.Context, id int64, e dom.Entry) (dom.Entry, error) {
	existing, ok := r.entries[id]
	if !ok {
		return dom.Entry{}, pgx.ErrNoRows
	}
	existing.Title = e.Title
	existing.TimeSpent = e.TimeSpent
	existing.Content = e.Content
	existing.Resources = e.Resources
	existing.EntryDate = e.EntryDate
	r.entries[id] = existing
	return existing, nil
}

func (r *memEntryRepo) Delete(ctx context.Context, id int64) error {
	delete(r.entries, id)
	return nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	sessions := &memSessions{sessions: map[string]int64{}}
	userRepo := &memUserRepo{users: map[int64]dom.User{}}
	entryRepo := &memEntryRepo{entries: map[int64]dom.Entry{}}
	userSvc := service.NewUserService(userRepo)
	entrySvc := service.NewEntryService(entryRepo, nil)
	authHandler := handlers.NewAuthHandler(sessions, userSvc, userRepo, time.Hour)
	entryHandler := handlers.NewEntryHandler(entrySvc, userSvc)

	r := gin.New()
	Register(r, sessions, authHandler, entryHandler)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "session_id" && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func register(t *testing.T, r *gin.Engine, username, email, password string) {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"email":%q,"password":%q,"password2":%q}`, username, email, password, password)
	w := do(t, r, http.MethodPost, "/register", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func login(t *testing.T, r *gin.Engine, email, password string) *http.Cookie {
	t.Helper()
	w := do(t, r, http.MethodPost, "/login", fmt.Sprintf(`{"email":%q,"password":%q}`, email, password))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return sessionCookie(t, w)
}

func TestRegisterLoginCreateFlow(t *testing.T) {
	r := newTestRouter()

	// Register does not log the user in.
	body := `{"username":"alice","email":"alice@x.com","password":"pw12","password2":"pw12"}`
	w := do(t, r, http.MethodPost, "/register", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	for _, c := range w.Result().Cookies() {
		assert.NotEqual(t, "session_id", c.Name)
	}

	// Wrong password: generic message, no session.
	w = do(t, r, http.MethodPost, "/login", `{"email":"alice@x.com","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "email or password doesn't match")
	assert.Empty(t, w.Result().Cookies())

	cookie := login(t, r, "alice@x.com", "pw12")

	entry := `{"title":"Learned X","time_spent":3,"date":"01/02/2023","content":"notes","resources":"links"}`
	w = do(t, r, http.MethodPost, "/entries/new", entry, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// The new entry leads the public feed.
	w = do(t, r, http.MethodGet, "/entries", "")
	require.Equal(t, http.StatusOK, w.Code)
	feed := decode(t, w)
	items := feed["items"].([]any)
	require.NotEmpty(t, items)
	first := items[0].(map[string]any)
	assert.Equal(t, "Learned X", first["title"])
	assert.Equal(t, "01/02/2023", first["date"])

	// And the author's public stream.
	w = do(t, r, http.MethodGet, "/stream/alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	stream := decode(t, w)
	require.Len(t, stream["items"].([]any), 1)
	assert.Equal(t, "alice", stream["user"].(map[string]any)["username"])
}

func TestRegisterValidationErrors(t *testing.T) {
	r := newTestRouter()
	register(t, r, "alice", "alice@x.com", "pw12")

	// Same username again: field error, no second account.
	body := `{"username":"alice","email":"fresh@x.com","password":"pw12","password2":"pw12"}`
	w := do(t, r, http.MethodPost, "/register", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")

	// Malformed username: field error preserving submitted values.
	body = `{"username":"bad name","email":"b@x.com","password":"pw12","password2":"pw12"}`
	w = do(t, r, http.MethodPost, "/register", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "bad name", resp["values"].(map[string]any)["username"])
	assert.NotEmpty(t, resp["errors"])
}

func TestProtectedRoutesRequireLogin(t *testing.T) {
	r := newTestRouter()

	for _, path := range []string{"/stream", "/entries/new", "/logout"} {
		w := do(t, r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestOwnershipOnDeleteAndEdit(t *testing.T) {
	r := newTestRouter()

	register(t, r, "alice", "alice@x.com", "pw12")
	register(t, r, "bob", "bob@x.com", "pw34")
	alice := login(t, r, "alice@x.com", "pw12")
	bob := login(t, r, "bob@x.com", "pw34")

	entry := `{"title":"Learned X","time_spent":3,"date":"01/02/2023","content":"notes","resources":"links"}`
	w := do(t, r, http.MethodPost, "/entries/new", entry, alice)
	require.Equal(t, http.StatusCreated, w.Code)
	id := int64(decode(t, w)["entry"].(map[string]any)["id"].(float64))

	// Bob may not delete Alice's entry; it survives untouched.
	w = do(t, r, http.MethodPost, fmt.Sprintf("/entries/%d/delete", id), "", bob)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "someone else's entry")
	w = do(t, r, http.MethodGet, fmt.Sprintf("/entries/%d", id), "")
	assert.Equal(t, http.StatusOK, w.Code)

	// Nor edit it.
	edited := `{"title":"Hijacked","time_spent":1,"date":"01/02/2023","content":"x","resources":"y"}`
	w = do(t, r, http.MethodPost, fmt.Sprintf("/entries/%d/edit", id), edited, bob)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Alice's edit succeeds and the owner reference is unchanged.
	edited = `{"title":"Learned more","time_spent":5,"date":"02/03/2023","content":"notes2","resources":"links2"}`
	w = do(t, r, http.MethodPost, fmt.Sprintf("/entries/%d/edit", id), edited, alice)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode(t, w)["entry"].(map[string]any)
	assert.Equal(t, "Learned more", got["title"])
	assert.Equal(t, float64(1), got["user_id"])

	// Owner delete works.
	w = do(t, r, http.MethodPost, fmt.Sprintf("/entries/%d/delete", id), "", alice)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, r, http.MethodGet, fmt.Sprintf("/entries/%d", id), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditFormPrefilled(t *testing.T) {
	r := newTestRouter()
	register(t, r, "alice", "alice@x.com", "pw12")
	alice := login(t, r, "alice@x.com", "pw12")

	entry := `{"title":"Learned X","time_spent":3,"date":"01/02/2023","content":"notes","resources":"links"}`
	w := do(t, r, http.MethodPost, "/entries/new", entry, alice)
	require.Equal(t, http.StatusCreated, w.Code)
	id := int64(decode(t, w)["entry"].(map[string]any)["id"].(float64))

	w = do(t, r, http.MethodGet, fmt.Sprintf("/entries/%d/edit", id), "", alice)
	require.Equal(t, http.StatusOK, w.Code)
	values := decode(t, w)["values"].(map[string]any)
	assert.Equal(t, "Learned X", values["title"])
	assert.Equal(t, float64(3), values["time_spent"])
	assert.Equal(t, "01/02/2023", values["date"])
}

func TestNotFoundResponses(t *testing.T) {
	r := newTestRouter()
	register(t, r, "alice", "alice@x.com", "pw12")
	alice := login(t, r, "alice@x.com", "pw12")

	w := do(t, r, http.MethodGet, "/entries/99999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/stream/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPost, "/entries/99999/delete", "", alice)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/no/such/page", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogoutEndsSession(t *testing.T) {
	r := newTestRouter()
	register(t, r, "alice", "alice@x.com", "pw12")
	alice := login(t, r, "alice@x.com", "pw12")

	w := do(t, r, http.MethodGet, "/stream", "", alice)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/logout", "", alice)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/stream", "", alice)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOwnStreamMatchesNamedStream(t *testing.T) {
	r := newTestRouter()
	register(t, r, "alice", "alice@x.com", "pw12")
	alice := login(t, r, "alice@x.com", "pw12")

	entry := `{"title":"Learned X","time_spent":3,"date":"01/02/2023","content":"notes","resources":"links"}`
	w := do(t, r, http.MethodPost, "/entries/new", entry, alice)
	require.Equal(t, http.StatusCreated, w.Code)

	own := do(t, r, http.MethodGet, "/stream", "", alice)
	require.Equal(t, http.StatusOK, own.Code)
	named := do(t, r, http.MethodGet, "/stream/alice", "", alice)
	require.Equal(t, http.StatusOK, named.Code)
	assert.JSONEq(t, own.Body.String(), named.Body.String())
}
