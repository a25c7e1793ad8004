// Package crm is a small client for a HubSpot-style v3 contacts API.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const contactsPath = "/crm/v3/objects/contacts"

var ErrNotConfigured = errors.New("crm client is not configured")

// APIError is returned for non-2xx responses.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("crm: unexpected status %d: %s", e.Status, e.Body)
}

type Contact struct {
	ID         string         `json:"id"`
	Properties map[string]any `json:"properties"`
}

// Property returns a property as a string, or "" when it is absent.
func (c Contact) Property(name string) string {
	v, ok := c.Properties[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Page is one batch of a contact listing. Next is empty on the last page.
type Page struct {
	Contacts []Contact
	Next     string
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), token: token, http: httpClient}
}

type searchFilter struct {
	PropertyName string `json:"propertyName"`
	Operator     string `json:"operator"`
	Value        string `json:"value"`
}

type searchRequest struct {
	FilterGroups []struct {
		Filters []searchFilter `json:"filters"`
	} `json:"filterGroups"`
	Properties []string `json:"properties"`
	Limit      int      `json:"limit"`
}

type listResponse struct {
	Results []Contact `json:"results"`
	Paging  *struct {
		Next *struct {
			After string `json:"after"`
		} `json:"next"`
	} `json:"paging"`
}

// FindByEmail returns the contact whose email matches, compared without
// regard to case. ok is false when there is none.
func (c *Client) FindByEmail(ctx context.Context, email string, properties ...string) (Contact, bool, error) {
	if len(properties) == 0 {
		properties = []string{"email", "firstname", "lastname"}
	}
	req := searchRequest{Properties: properties, Limit: 1}
	req.FilterGroups = make([]struct {
		Filters []searchFilter `json:"filters"`
	}, 1)
	req.FilterGroups[0].Filters = []searchFilter{{PropertyName: "email", Operator: "EQ", Value: email}}

	var res listResponse
	if err := c.do(ctx, http.MethodPost, contactsPath+"/search", nil, req, &res); err != nil {
		return Contact{}, false, err
	}
	for _, contact := range res.Results {
		if strings.EqualFold(contact.Property("email"), email) {
			return contact, true, nil
		}
	}
	return Contact{}, false, nil
}

// Create adds a contact with the given properties and returns it.
func (c *Client) Create(ctx context.Context, properties map[string]string) (Contact, error) {
	var out Contact
	body := map[string]any{"properties": properties}
	if err := c.do(ctx, http.MethodPost, contactsPath, nil, body, &out); err != nil {
		return Contact{}, err
	}
	return out, nil
}

// ListContacts fetches one page of up to limit contacts starting at cursor
// after.
func (c *Client) ListContacts(ctx context.Context, limit int, after string, properties ...string) (Page, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if after != "" {
		q.Set("after", after)
	}
	if len(properties) > 0 {
		q.Set("properties", strings.Join(properties, ","))
	}

	var res listResponse
	if err := c.do(ctx, http.MethodGet, contactsPath, q, nil, &res); err != nil {
		return Page{}, err
	}
	page := Page{Contacts: res.Results}
	if res.Paging != nil && res.Paging.Next != nil {
		page.Next = res.Paging.Next.After
	}
	if page.Contacts == nil {
		page.Contacts = []Contact{}
	}
	return page, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	if c == nil || c.baseURL == "" {
		return ErrNotConfigured
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("crm: encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("crm: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("crm: %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &APIError{Status: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("crm: decode response: %w", err)
	}
	return nil
}
