package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sumira/appointment-manager/schedule"
)

// Client talks to the appointment service. One outstanding request per
// operation; failures surface as *APIError, never as silent catches.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	session *Session
}

func New(baseURL string, session *Session) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		session: session,
	}
}

type Appointment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Date      string    `json:"date"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type LoginResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    UserInfo `json:"user"`
}

type SignupResponse struct {
	Token string `json:"token"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Login authenticates and stores the returned token in the session.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp, false); err != nil {
		return nil, err
	}
	if err := c.session.SetCredentials(resp.Token, &resp.User); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup registers a new account and stores the returned token in the session.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*SignupResponse, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var resp SignupResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", body, &resp, false); err != nil {
		return nil, err
	}
	user := &UserInfo{ID: resp.ID, Name: resp.Name, Email: resp.Email}
	if err := c.session.SetCredentials(resp.Token, user); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UserAppointments fetches the caller's own appointments.
func (c *Client) UserAppointments(ctx context.Context) ([]Appointment, error) {
	var appointments []Appointment
	if err := c.do(ctx, http.MethodGet, "/api/appointments/user-appointments", nil, &appointments, true); err != nil {
		return nil, err
	}
	return appointments, nil
}

// BookedSlots fetches the (date, startTime) pairs booked by all users. It is
// fetched fresh on every date change; nothing is cached across calls.
func (c *Client) BookedSlots(ctx context.Context) ([]schedule.BookedSlot, error) {
	var slots []schedule.BookedSlot
	if err := c.do(ctx, http.MethodGet, "/api/appointments/booked-slots", nil, &slots, true); err != nil {
		return nil, err
	}
	return slots, nil
}

// CreateAppointment books a slot. A ConflictFailure means another user took
// the slot between fetch and submit; the caller keeps its input for retry.
func (c *Client) CreateAppointment(ctx context.Context, date, startTime, endTime string) (*Appointment, error) {
	body := map[string]string{"date": date, "startTime": startTime, "endTime": endTime}
	var appointment Appointment
	if err := c.do(ctx, http.MethodPost, "/api/appointments/create-appointment", body, &appointment, true); err != nil {
		return nil, err
	}
	return &appointment, nil
}

// DeleteAppointment removes one of the caller's appointments. On failure the
// caller's local list stays as it was.
func (c *Client) DeleteAppointment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/appointments/delete-appointment/"+id, nil, nil, true)
}

// FilterOut removes the appointment with the given id from a local list.
// An absent id filters nothing, matching the delete-is-a-local-no-op rule.
func FilterOut(appointments []Appointment, id string) []Appointment {
	out := make([]Appointment, 0, len(appointments))
	for _, a := range appointments {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	if authed && !c.session.IsAuthenticated() {
		return &APIError{Kind: AuthenticationFailure, Message: "not logged in"}
	}

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &APIError{Kind: ValidationFailure, Message: err.Error()}
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return &APIError{Kind: NetworkFailure, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &APIError{Kind: NetworkFailure, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &APIError{
			Kind:    kindForStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Message: errorMessage(resp),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &APIError{Kind: NetworkFailure, Status: resp.StatusCode, Message: fmt.Sprintf("decoding response: %v", err)}
		}
	}
	return nil
}

func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return AuthenticationFailure
	case http.StatusConflict:
		return ConflictFailure
	case http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity:
		return ValidationFailure
	}
	return NetworkFailure
}

func errorMessage(resp *http.Response) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return resp.Status
	}
	if payload.Error != "" {
		return payload.Error
	}
	if payload.Message != "" {
		return payload.Message
	}
	return resp.Status
}
