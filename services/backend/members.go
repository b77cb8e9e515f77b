package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"glsalliance/models"
)

// DirectoryParams are the query parameters of GET /member-registration.
// Empty strings and zero numbers are left out of the request.
type DirectoryParams struct {
	ProfileType string
	Status      string
	Country     string
	City        string
	Keyword     string
	CategoryID  string
	UserID      string
	PerPage     int
	Page        int
}

func (p DirectoryParams) values() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("status", p.Status)
	set("profile_type", p.ProfileType)
	set("country", p.Country)
	set("city", p.City)
	set("key_word", p.Keyword)
	set("user_id", p.UserID)
	set("category_id", p.CategoryID)
	if p.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(p.PerPage))
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	return q
}

// ListMembers fetches one directory page.
func (c *Client) ListMembers(ctx context.Context, params DirectoryParams) (*models.MemberPage, error) {
	const endpoint = "members.list"
	raw, err := c.do(ctx, call{
		endpoint: endpoint,
		method:   http.MethodGet,
		path:     "/member-registration",
		query:    params.values(),
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		Data struct {
			Data        []models.MemberRow `json:"data"`
			CurrentPage *models.FlexInt    `json:"current_page"`
			LastPage    *models.FlexInt    `json:"last_page"`
			Total       *models.FlexInt    `json:"total"`
		} `json:"data"`
	}
	if err := decode(endpoint, memberPageV2, raw, &out); err != nil {
		return nil, err
	}

	// A zero last page or total counts as unknown.
	page := &models.MemberPage{Rows: out.Data.Data, CurrentPage: 1}
	if page.Rows == nil {
		page.Rows = []models.MemberRow{}
	}
	if v := out.Data.CurrentPage; v != nil && *v > 0 {
		page.CurrentPage = int(*v)
	}
	if v := out.Data.LastPage; v != nil && *v > 0 {
		n := int(*v)
		page.LastPage = &n
	}
	if v := out.Data.Total; v != nil && *v > 0 {
		n := int(*v)
		page.Total = &n
	}
	return page, nil
}

// GetMember fetches a public member profile.
func (c *Client) GetMember(ctx context.Context, id string) (*models.MemberRegistration, error) {
	return c.getMember(ctx, "members.get", "/member-registration/"+url.PathEscape(id), "")
}

// GetMemberByUser fetches the profile owned by a user account.
func (c *Client) GetMemberByUser(ctx context.Context, userID, token string) (*models.MemberRegistration, error) {
	return c.getMember(ctx, "members.by_user", "/member-registration/user/"+url.PathEscape(userID), token)
}

func (c *Client) getMember(ctx context.Context, endpoint, path, token string) (*models.MemberRegistration, error) {
	raw, err := c.do(ctx, call{
		endpoint: endpoint,
		method:   http.MethodGet,
		path:     path,
		token:    token,
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		Data models.MemberRegistration `json:"data"`
	}
	if err := decode(endpoint, memberV1, raw, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// MultipartBody writes its fields and files into a multipart form.
type MultipartBody interface {
	WriteParts(w *multipart.Writer) error
}

// SubmitRegistration posts a registration application as multipart/form-data
// and returns the backend's raw success payload. It is never retried.
func (c *Client) SubmitRegistration(ctx context.Context, token string, payload MultipartBody) (json.RawMessage, error) {
	const endpoint = "members.register"
	body, contentType, err := encodeMultipart(payload)
	if err != nil {
		return nil, err
	}
	raw, err := c.do(ctx, call{
		endpoint:    endpoint,
		method:      http.MethodPost,
		path:        "/member-registration",
		body:        bytesBody(body),
		contentType: contentType,
		token:       token,
	})
	if err != nil {
		return nil, err
	}
	if err := decode(endpoint, anyObjectV1, raw, nil); err != nil {
		return nil, err
	}
	return raw, nil
}

func encodeMultipart(payload MultipartBody) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := payload.WriteParts(w); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
