package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// APIClient handles HTTP communication with the backend. It keeps the auth
// cookies from login so subsequent calls are authenticated the same way the
// real frontend is.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	jar, _ := cookiejar.New(nil)
	return &APIClient{
		baseURL: baseURL + "/api/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}
}

// Response types matching backend

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BatchItem struct {
	IdempotencyKey string `json:"idempotency_key"`
	ActivityType   string `json:"activity_type"`
	ContentID      string `json:"content_id"`
	Score          int    `json:"score"`
	Duration       int    `json:"duration_seconds"`
}

type BatchResult struct {
	IdempotencyKey *string `json:"idempotency_key"`
	Status         string  `json:"status"`
	ServerID       string  `json:"server_id"`
	Error          string  `json:"error"`
}

type BatchResponse struct {
	Results []BatchResult `json:"results"`
}

func (c *APIClient) Register(email, password string) error {
	return c.postJSON("/auth/register", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
}

func (c *APIClient) Login(email, password string) (*User, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	resp, err := c.httpClient.Post(c.baseURL+"/auth/login", "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("login failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result struct {
		User User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result.User, nil
}

func (c *APIClient) ListProfiles() ([]Profile, error) {
	resp, err := c.httpClient.Get(c.baseURL + "/users/me/profiles")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list profiles failed (%d)", resp.StatusCode)
	}

	var profiles []Profile
	if err := json.NewDecoder(resp.Body).Decode(&profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (c *APIClient) CreateProfile(name string) (*Profile, error) {
	var profile Profile
	if err := c.postJSON("/users/me/profiles", map[string]string{"name": name}, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *APIClient) SubmitBatch(profileID string, items []BatchItem) (*BatchResponse, error) {
	var result BatchResponse
	err := c.postJSON("/progress/batch", map[string]interface{}{
		"profile_id": profileID,
		"items":      items,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *APIClient) postJSON(path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("POST %s failed (%d): %s", path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
