package backend

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"glsalliance/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api", 2*time.Second, zap.NewNop())
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// ==========================
// Error Taxonomy
// ==========================

func TestAPIError_ValidationLinesKeepFieldOrder(t *testing.T) {
	client := newTestClient(t, respond(http.StatusUnprocessableEntity, `{
		"message": "The given data was invalid.",
		"errors": {
			"company_name": ["The company name field is required."],
			"brc_number": ["The brc number has already been taken.", "Too short."]
		}
	}`))

	_, err := client.SubmitRegistration(context.Background(), "", emptyBody{})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "The given data was invalid.", apiErr.Message)
	assert.Equal(t, []string{
		"company_name: The company name field is required.",
		"brc_number: The brc number has already been taken., Too short.",
	}, apiErr.Lines())
}

func TestAPIError_MessageFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "message field", body: `{"message":"Nope"}`, message: "Nope"},
		{name: "error field", body: `{"error":"Forbidden area"}`, message: "Forbidden area"},
		{name: "not json", body: `<html>oops</html>`, message: "Request failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, respond(http.StatusBadRequest, tt.body))
			_, err := client.Conferences(context.Background())

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, []string{tt.message}, apiErr.Lines())
		})
	}
}

func TestTransportError_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	client.httpClient.Timeout = 50 * time.Millisecond

	_, err := client.Conferences(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.True(t, te.Timeout)
}

func TestSchemaError_UnexpectedShape(t *testing.T) {
	client := newTestClient(t, respond(http.StatusOK, `{"data": "not-a-list"}`))

	_, err := client.Conferences(context.Background())
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "conferences.v1", schemaErr.Schema)
	assert.NotEmpty(t, schemaErr.Problems)
}

// ==========================
// Auth Endpoints
// ==========================

func TestLogin_TokenAndUserShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "top level", body: `{"token":"t-1","user":{"id":7,"status":"active","email":"a@b.c"}}`},
		{name: "access token in data", body: `{"data":{"access_token":"t-1","user":{"id":"7","status":"active","email":"a@b.c"}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotForm string
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/auth/login", r.URL.Path)
				assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
				require.NoError(t, r.ParseForm())
				gotForm = r.PostForm.Get("email")
				respond(http.StatusOK, tt.body)(w, r)
			})

			res, err := client.Login(context.Background(), "a@b.c", "secret")
			require.NoError(t, err)
			assert.Equal(t, "a@b.c", gotForm)
			assert.Equal(t, "t-1", res.Token)
			assert.Equal(t, models.FlexString("7"), res.User.ID)
			assert.True(t, res.User.IsActive())
		})
	}
}

func TestLogin_MissingTokenIsSchemaError(t *testing.T) {
	client := newTestClient(t, respond(http.StatusOK, `{"user":{"id":1}}`))
	_, err := client.Login(context.Background(), "a@b.c", "x")

	var schemaErr *SchemaError
	assert.True(t, errors.As(err, &schemaErr))
}

func TestChangePassword_UsesResetTokenAsBearer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer reset-123", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "n3w", r.PostForm.Get("password"))
		assert.Equal(t, "n3w", r.PostForm.Get("password_confirmation"))
		respond(http.StatusOK, `{"success":true}`)(w, r)
	})

	_, err := client.ChangePassword(context.Background(), "reset-123", "n3w", "n3w")
	require.NoError(t, err)
}

// ==========================
// Directory Endpoints
// ==========================

func TestListMembers_QueryAndPagination(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "freight_forwarder", q.Get("profile_type"))
		assert.Equal(t, "Sri Lanka", q.Get("country"))
		assert.Equal(t, "20", q.Get("per_page"))
		assert.Equal(t, "2", q.Get("page"))
		assert.False(t, q.Has("city"))
		respond(http.StatusOK, `{"success":true,"data":{"current_page":2,"last_page":4,"total":"61","data":[{"id":1,"company_name":"Advantis","city":"Colombo","years":"12"}]}}`)(w, r)
	})

	page, err := client.ListMembers(context.Background(), DirectoryParams{
		ProfileType: "freight_forwarder",
		Country:     "Sri Lanka",
		PerPage:     20,
		Page:        2,
	})
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "Advantis", page.Rows[0].CompanyName)
	assert.Equal(t, models.FlexInt(12), page.Rows[0].Years)
	assert.Equal(t, 2, page.CurrentPage)
	require.NotNil(t, page.LastPage)
	assert.Equal(t, 4, *page.LastPage)
	require.NotNil(t, page.Total)
	assert.Equal(t, 61, *page.Total)
}

func TestListMembers_PagingFields(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		current  int
		lastPage *int
		rows     int
	}{
		{name: "full paginator", body: `{"data":{"current_page":3,"last_page":5,"data":[{"id":1}]}}`, current: 3, lastPage: intPtr(5), rows: 1},
		{name: "rows only", body: `{"data":{"data":[]}}`, current: 1},
		{name: "zero last page is unknown", body: `{"data":{"last_page":0,"data":[]}}`, current: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, respond(http.StatusOK, tt.body))
			page, err := client.ListMembers(context.Background(), DirectoryParams{})
			require.NoError(t, err)
			assert.Equal(t, tt.current, page.CurrentPage)
			assert.Equal(t, tt.lastPage, page.LastPage)
			assert.NotNil(t, page.Rows)
			assert.Len(t, page.Rows, tt.rows)
		})
	}
}

func TestListMembers_UnknownEnvelopeIsSchemaError(t *testing.T) {
	bodies := map[string]string{
		"renamed list":       `{"members":[{"id":1}]}`,
		"renamed inner list": `{"data":{"items":[{"id":1}]}}`,
		"flat data array":    `{"data":[{"id":1}]}`,
		"bare array":         `[{"id":1}]`,
		"error payload":      `{"error_code":"X"}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, respond(http.StatusOK, body))
			page, err := client.ListMembers(context.Background(), DirectoryParams{})
			assert.Nil(t, page)

			var schemaErr *SchemaError
			require.True(t, errors.As(err, &schemaErr))
			assert.Equal(t, "member_page.v2", schemaErr.Schema)
			assert.Equal(t, "members.list", schemaErr.Endpoint)
		})
	}
}

func TestListCategories_DataArray(t *testing.T) {
	client := newTestClient(t, respond(http.StatusOK, `{"data":[{"id":1,"title":"Tea","parent_id":null},{"id":2,"name":"Green","parent_id":1}]}`))

	rows, err := client.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Tea", rows[0].Title)
	assert.Equal(t, models.FlexString(""), rows[0].ParentID)
	assert.Equal(t, models.FlexString("1"), rows[1].ParentID)
}

func TestListCategories_UnknownEnvelopeIsSchemaError(t *testing.T) {
	bodies := map[string]string{
		"renamed list":  `{"categories":[{"id":1}]}`,
		"nested items":  `{"data":{"items":[{"id":1}]}}`,
		"error payload": `{"error_code":"X"}`,
		"scalar rows":   `{"data":[1,2]}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, respond(http.StatusOK, body))
			rows, err := client.ListCategories(context.Background())
			assert.Nil(t, rows)

			var schemaErr *SchemaError
			require.True(t, errors.As(err, &schemaErr))
			assert.Equal(t, "categories.v2", schemaErr.Schema)
		})
	}
}

func TestMakePayment_MultipartFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "42", r.FormValue("user_id"))
		assert.Equal(t, "manual", r.FormValue("payment_type"))
		assert.Equal(t, "transaction", r.FormValue("payment_method"))
		assert.Equal(t, "TX-9", r.FormValue("transaction_id"))
		_, hdr, err := r.FormFile("avidness")
		require.NoError(t, err)
		assert.Equal(t, "slip.png", hdr.Filename)
		assert.Equal(t, "image/png", hdr.Header.Get("Content-Type"))
		respond(http.StatusOK, `{"success":true}`)(w, r)
	})

	_, err := client.MakePayment(context.Background(), "tok", models.PaymentRequest{
		UserID:        "42",
		Amount:        "10000",
		Method:        models.PaymentBankTransfer,
		TransactionID: "TX-9",
		Slip:          &models.SlipFile{FileName: "slip.png", ContentType: "image/png", Data: []byte{0x89, 'P'}},
	}, "avidness")
	require.NoError(t, err)
}

type emptyBody struct{}

func (emptyBody) WriteParts(w *multipart.Writer) error { return nil }

func intPtr(n int) *int { return &n }
