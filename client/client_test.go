package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sumira/appointment-manager/schedule"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *Session) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	session := tempSession(t)
	return New(server.URL, session), session
}

func TestLoginStoresToken(t *testing.T) {
	api, session := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@example.com", body["email"])

		json.NewEncoder(w).Encode(LoginResponse{
			Message: "Login successful",
			Token:   "token-123",
			User:    UserInfo{ID: "u-1", Name: "Ada", Email: "ada@example.com"},
		})
	}))

	resp, err := api.Login(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "token-123", resp.Token)

	assert.True(t, session.IsAuthenticated())
	reloaded, err := LoadSession(session.path)
	require.NoError(t, err)
	assert.Equal(t, "token-123", reloaded.Token)
}

func TestLoginRejected(t *testing.T) {
	api, session := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid email or password"})
	}))

	_, err := api.Login(context.Background(), "ada@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, IsAuthenticationFailure(err))
	assert.Contains(t, err.Error(), "Invalid email or password")
	assert.False(t, session.IsAuthenticated(), "a failed login must not store a token")
}

func TestSignupStoresToken(t *testing.T) {
	api, session := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/signup", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(SignupResponse{Token: "token-456", ID: "u-2", Name: "Grace", Email: "grace@example.com"})
	}))

	resp, err := api.Signup(context.Background(), "Grace", "grace@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u-2", resp.ID)
	assert.True(t, session.IsAuthenticated())
	require.NotNil(t, session.User)
	assert.Equal(t, "Grace", session.User.Name)
}

func TestAuthenticatedRequestCarriesBearerToken(t *testing.T) {
	api, session := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]Appointment{{ID: "a-1", Date: "2024-06-01", StartTime: "18:00", EndTime: "18:30"}})
	}))
	require.NoError(t, session.SetCredentials("token-123", nil))

	appointments, err := api.UserAppointments(context.Background())
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, "a-1", appointments[0].ID)
}

func TestUnauthenticatedCallIssuesNoRequest(t *testing.T) {
	hits := 0
	api, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))

	_, err := api.UserAppointments(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthenticationFailure(err))
	assert.Zero(t, hits, "no network call may be made without a token")
}

func TestBookedSlots(t *testing.T) {
	api, session := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/appointments/booked-slots", r.URL.Path)
		json.NewEncoder(w).Encode([]schedule.BookedSlot{
			{Date: "2024-06-01", StartTime: "19:00"},
			{Date: "2024-06-02", StartTime: "18:00"},
		})
	}))
	require.NoError(t, session.SetCredentials("token-123", nil))

	slots, err := api.BookedSlots(context.Background())
	require.NoError(t, err)
	require.Len(t, slots, 2)

	available := schedule.ComputeAvailable("2024-06-01", slots)
	assert.Len(t, available, 7)
}

func TestCreateAppointmentConflict(t *testing.T) {
	api, session := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "This slot has already been booked"})
	}))
	require.NoError(t, session.SetCredentials("token-123", nil))

	_, err := api.CreateAppointment(context.Background(), "2024-06-01", "19:00", "19:30")
	require.Error(t, err)
	assert.True(t, IsConflictFailure(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
}

func TestCreateAppointmentValidationRejected(t *testing.T) {
	api, session := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "date is in the past"})
	}))
	require.NoError(t, session.SetCredentials("token-123", nil))

	_, err := api.CreateAppointment(context.Background(), "2020-01-01", "18:00", "18:30")
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ValidationFailure, kind)
}

func TestDeleteAppointment(t *testing.T) {
	api, session := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/appointments/delete-appointment/a-1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	require.NoError(t, session.SetCredentials("token-123", nil))

	assert.NoError(t, api.DeleteAppointment(context.Background(), "a-1"))
}

func TestNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	session := tempSession(t)
	require.NoError(t, session.SetCredentials("token-123", nil))
	api := New(server.URL, session)
	server.Close()

	_, err := api.BookedSlots(context.Background())
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, NetworkFailure, kind)
}

func TestFilterOut(t *testing.T) {
	appointments := []Appointment{{ID: "a-1"}, {ID: "a-2"}, {ID: "a-3"}}

	remaining := FilterOut(appointments, "a-2")
	require.Len(t, remaining, 2)
	assert.Equal(t, "a-1", remaining[0].ID)
	assert.Equal(t, "a-3", remaining[1].ID)

	// Filtering an id that is not present removes nothing.
	assert.Equal(t, appointments, FilterOut(appointments, "a-9"))
}
