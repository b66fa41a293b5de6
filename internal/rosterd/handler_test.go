package rosterd

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/rosterboard/internal/roster"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) Snapshot(ctx context.Context) (roster.Snapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(roster.Snapshot), args.Error(1)
}

func (m *mockStore) Signup(ctx context.Context, activity, email string) error {
	return m.Called(ctx, activity, email).Error(0)
}

func (m *mockStore) Unregister(ctx context.Context, activity, email string) error {
	return m.Called(ctx, activity, email).Error(0)
}

func (m *mockStore) Replace(ctx context.Context, entries []roster.Entry) error {
	return m.Called(ctx, entries).Error(0)
}

func (m *mockStore) Close() error { return m.Called().Error(0) }

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Detail
}

func TestHandler_Activities(t *testing.T) {
	h := NewHandler(NewMemoryStore(DefaultActivities())).Routes()

	w := serve(h, http.MethodGet, "/activities")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var snap roster.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, []string{"Chess Club", "Programming Class", "Gym Class"}, snap.Names())
}

func TestHandler_SignupAndUnregister(t *testing.T) {
	h := NewHandler(NewMemoryStore(DefaultActivities())).Routes()
	const base = "/activities/Chess%20Club/"

	w := serve(h, http.MethodPost, base+"signup?email=testuser%40example.com")
	require.Equal(t, http.StatusOK, w.Code)
	var msg MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
	assert.Equal(t, "Signed up testuser@example.com for Chess Club", msg.Message)

	w = serve(h, http.MethodPost, base+"signup?email=testuser%40example.com")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Already signed up", detail(t, w))

	w = serve(h, http.MethodPost, base+"unregister?email=testuser%40example.com")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
	assert.Equal(t, "Unregistered testuser@example.com from Chess Club", msg.Message)

	w = serve(h, http.MethodPost, base+"unregister?email=testuser%40example.com")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Not signed up for this activity", detail(t, w))
}

func TestHandler_UnknownActivity(t *testing.T) {
	h := NewHandler(NewMemoryStore(DefaultActivities())).Routes()

	w := serve(h, http.MethodPost, "/activities/Knitting/signup?email=a%40x.com")

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Activity not found", detail(t, w))
}

func TestHandler_MissingEmail(t *testing.T) {
	h := NewHandler(NewMemoryStore(DefaultActivities())).Routes()

	w := serve(h, http.MethodPost, "/activities/Chess%20Club/signup")

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp ValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Detail, 1)
	assert.Equal(t, []string{"query", "email"}, resp.Detail[0].Loc)
}

func TestHandler_StoreFailure(t *testing.T) {
	store := &mockStore{}
	store.On("Signup", mock.Anything, "Chess Club", "a@x.com").Return(errors.New("disk full")).Once()
	store.On("Snapshot", mock.Anything).Return(roster.Snapshot{}, errors.New("disk full")).Twice()
	h := NewHandler(store).Routes()

	w := serve(h, http.MethodPost, "/activities/Chess%20Club/signup?email=a%40x.com")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", detail(t, w))

	w = serve(h, http.MethodGet, "/activities")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = serve(h, http.MethodGet, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	store.AssertExpectations(t)
}

func TestHandler_Health(t *testing.T) {
	h := NewHandler(NewMemoryStore(DefaultActivities())).Routes()

	w := serve(h, http.MethodGet, "/health")

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, HealthResponse{Status: "ok", Activities: 3}, resp)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := NewHandler(NewMemoryStore(DefaultActivities())).Routes()

	w := serve(h, http.MethodGet, "/activities/Chess%20Club/signup?email=a%40x.com")

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

// The client and the dev server agree on the wire format end to end.
func TestClient_AgainstServer(t *testing.T) {
	srv := httptest.NewServer(NewHandler(NewMemoryStore(DefaultActivities())).Routes())
	defer srv.Close()

	client, err := roster.NewClient(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()

	res, err := client.Signup(ctx, "Programming Class", "new/kid@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Signed up new/kid@x.com for Programming Class", res.Message)

	snap, err := client.Snapshot(ctx)
	require.NoError(t, err)
	rec, ok := snap.Get("Programming Class")
	require.True(t, ok)
	assert.Contains(t, rec.Participants, "new/kid@x.com")

	_, err = client.Unregister(ctx, "Programming Class", "nobody@x.com")
	reason, ok := roster.Detail(err)
	require.True(t, ok)
	assert.Equal(t, "Not signed up for this activity", reason)
}

func TestServer_StartStop(t *testing.T) {
	srv, err := NewServer(ServerConfig{Addr: "127.0.0.1:0", Store: NewMemoryStore(DefaultActivities())})
	require.NoError(t, err)
	require.NotZero(t, srv.Port())

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	client, err := roster.NewClient(srv.URL())
	require.NoError(t, err)
	snap, err := client.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Len())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	assert.NoError(t, <-done)
}
