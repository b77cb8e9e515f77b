package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"glsalliance/handlers"
	"glsalliance/middleware"
	"glsalliance/services/auth"
	"glsalliance/services/backend"
	"glsalliance/services/content"
	"glsalliance/services/directory"
	"glsalliance/services/payment"
	"glsalliance/services/registration"
	"glsalliance/services/storage"
	"glsalliance/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ==========================
// Fake alliance backend
// ==========================

type fakeAlliance struct {
	mu            sync.Mutex
	logouts       int
	registrations []*multipart.Form
	payments      []*multipart.Form
	memberQueries []url.Values
	failDirectory bool
}

func (f *fakeAlliance) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		f.mu.Lock()
		defer f.mu.Unlock()

		path := strings.TrimPrefix(r.URL.Path, "/api")
		switch {
		case r.Method == http.MethodPost && path == "/auth/login":
			assert.NoError(t, r.ParseForm())
			switch r.PostForm.Get("email") {
			case "active@example.com":
				fmt.Fprint(w, `{"token":"tok-1","user":{"id":7,"name":"Active","email":"active@example.com","status":"active"}}`)
			case "inactive@example.com":
				fmt.Fprint(w, `{"token":"tok-2","user":{"id":8,"name":"Idle","email":"inactive@example.com","status":"inactive"}}`)
			default:
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"message":"Invalid credentials."}`)
			}
		case r.Method == http.MethodPost && path == "/auth/logout":
			f.logouts++
			fmt.Fprint(w, `{"success":true}`)
		case r.Method == http.MethodGet && path == "/auth/me":
			fmt.Fprint(w, `{"data":{"id":7,"name":"Active Refreshed","email":"active@example.com","status":"active"}}`)
		case r.Method == http.MethodGet && path == "/member-registration/user/7":
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			fmt.Fprint(w, `{"data":{"id":3,"status":"pending","company_name":"Acme Logistics","profile_type":"service_provider"}}`)
		case r.Method == http.MethodGet && path == "/member-registration":
			f.memberQueries = append(f.memberQueries, r.URL.Query())
			if f.failDirectory {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"message":"boom"}`)
				return
			}
			fmt.Fprint(w, `{"data":{"current_page":1,"last_page":1,"total":2,"data":[`+
				`{"id":1,"company_name":"Zenith Lines","country":"Sri Lanka","city":"Colombo","years":4},`+
				`{"id":2,"company_name":"Advantis Freight","country":"Sri Lanka","city":"Colombo","years":20}]}}`)
		case r.Method == http.MethodPost && path == "/member-registration":
			assert.NoError(t, r.ParseMultipartForm(32<<20))
			f.registrations = append(f.registrations, r.MultipartForm)
			fmt.Fprint(w, `{"success":true,"message":"Registration received"}`)
		case r.Method == http.MethodPost && path == "/payment/make":
			assert.NoError(t, r.ParseMultipartForm(32<<20))
			f.payments = append(f.payments, r.MultipartForm)
			fmt.Fprint(w, `{"success":true}`)
		case r.Method == http.MethodGet && path == "/categories":
			fmt.Fprint(w, `{"data":[{"id":1,"name":"Tea"},{"id":2,"name":"Green Tea","parent_id":1}]}`)
		case r.Method == http.MethodGet && path == "/conferences":
			fmt.Fprint(w, `{"data":[{"id":1,"name":"Logistics Summit","slug":"summit-2026","start_date":"2026-11-02","status":"active"}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not found"}`)
		}
	})
}

func (f *fakeAlliance) failDirectories() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failDirectory = true
}

func (f *fakeAlliance) seenLogouts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logouts
}

func (f *fakeAlliance) seenRegistrations() []*multipart.Form {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*multipart.Form(nil), f.registrations...)
}

func (f *fakeAlliance) seenPayments() []*multipart.Form {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*multipart.Form(nil), f.payments...)
}

func (f *fakeAlliance) seenQueries() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]url.Values(nil), f.memberQueries...)
}

// ==========================
// Test application
// ==========================

type testApp struct {
	server   *httptest.Server
	client   *http.Client
	alliance *fakeAlliance
	mr       *miniredis.Miniredis
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	alliance := &fakeAlliance{}
	upstream := httptest.NewServer(alliance.handler(t))
	t.Cleanup(upstream.Close)

	logger := zap.NewNop()
	client := backend.NewClient(upstream.URL+"/api", 5*time.Second, logger)
	uploads := storage.NewRedisStore(rdb, time.Hour, "/api/registration/uploads/")

	authService := auth.NewService(client, rdb, logger)
	registrationService := registration.NewService(rdb, uploads, client, logger)
	directoryService := directory.NewService(client, rdb, 20, 10*time.Millisecond, logger)
	registry := directory.NewRegistry(directoryService, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	go registry.Run(ctx, time.Minute)
	t.Cleanup(cancel)
	paymentService := payment.NewService(client, nil, nil, "usd", "", logger)
	contentService := content.NewService(client, rdb, logger)

	authHandler := handlers.NewAuthHandler(authService)
	reg := handlers.NewRegistrationHandler(registrationService)
	dir := handlers.NewDirectoryHandler(directoryService, registry)
	member := handlers.NewMemberAreaHandler(client)
	pay := handlers.NewPaymentHandler(paymentService)
	site := handlers.NewContentHandler(contentService)

	hb := &handlers.HandlerBundle{
		AuthSvc: authService,
		Signer:  utils.NewSessionSigner("test-secret"),

		LoginHandler:          authHandler.LoginHandler,
		LogoutHandler:         authHandler.LogoutHandler,
		SessionHandler:        authHandler.SessionHandler,
		RequestOTPHandler:     authHandler.RequestOTPHandler,
		VerifyOTPHandler:      authHandler.VerifyOTPHandler,
		ChangePasswordHandler: authHandler.ChangePasswordHandler,

		StartRegistrationHandler:   reg.StartHandler,
		GetRegistrationHandler:     reg.GetHandler,
		AbandonRegistrationHandler: reg.AbandonHandler,
		PatchRegistrationHandler:   reg.PatchHandler,
		AddContactHandler:          reg.AddContactHandler,
		RemoveContactHandler:       reg.RemoveContactHandler,
		AddAffiliationHandler:      reg.AddAffiliationHandler,
		RemoveAffiliationHandler:   reg.RemoveAffiliationHandler,
		NextStepHandler:            reg.NextHandler,
		BackStepHandler:            reg.BackHandler,
		JumpStepHandler:            reg.JumpHandler,
		UploadHandler:              reg.UploadHandler,
		RemoveUploadHandler:        reg.RemoveUploadHandler,
		PreviewUploadHandler:       reg.PreviewHandler,
		ReviewHandler:              reg.ReviewHandler,
		SubmitRegistrationHandler:  reg.SubmitHandler,
		CatalogHandler:             reg.CatalogHandler,

		DirectoryQueryHandler:   dir.QueryHandler,
		DirectorySessionHandler: dir.SessionHandler,
		DirectoryChangeHandler:  dir.ChangeHandler,
		DirectoryNextHandler:    dir.NextHandler,
		DirectoryPrevHandler:    dir.PrevHandler,
		DirectoryResetHandler:   dir.ResetHandler,
		CategoriesHandler:       dir.CategoriesHandler,
		MemberHandler:           dir.MemberHandler,

		MeHandler:        member.MeHandler,
		ProfileHandler:   member.ProfileHandler,
		DashboardHandler: member.DashboardHandler,

		PaymentHandler:       pay.SubmitHandler,
		CardIntentHandler:    pay.CardIntentHandler,
		PaymentConfigHandler: pay.ConfigHandler,

		ConferencesHandler:    site.ConferencesHandler,
		ConferenceHandler:     site.ConferenceHandler,
		ContactDetailsHandler: site.ContactDetailsHandler,
		HomeHeroesHandler:     site.HomeHeroesHandler,
		TestimonialsHandler:   site.TestimonialsHandler,

		HealthHandler: handlers.HealthHandler,
	}

	router := gin.New()
	router.Use(utils.ErrorHandler(), middleware.RequestLogger(logger), middleware.MetricsMiddleware())
	RegisterRoutes(router, hb)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	httpClient := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testApp{server: server, client: httpClient, alliance: alliance, mr: mr}
}

func (a *testApp) do(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()
	resp, err := a.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

// call sends body as JSON and decodes the JSON answer.
func (a *testApp) call(t *testing.T, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	status, raw := a.do(t, req)
	out := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return status, out
}

type filePart struct {
	field, name, contentType string
	data                     []byte
}

func (a *testApp) multipart(t *testing.T, path string, fields map[string]string, file *filePart) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.field, file.name))
		h.Set("Content-Type", file.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, a.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	status, raw := a.do(t, req)
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return status, out
}

func (a *testApp) login(t *testing.T, email string) (int, map[string]interface{}) {
	t.Helper()
	return a.call(t, http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": "secret"})
}

// dig walks nested JSON objects.
func dig(t *testing.T, m map[string]interface{}, keys ...string) interface{} {
	t.Helper()
	var cur interface{} = m
	for _, k := range keys {
		obj, ok := cur.(map[string]interface{})
		require.True(t, ok, "expected object at %q", k)
		cur = obj[k]
	}
	return cur
}

// ==========================
// Health, metrics and session cookie
// ==========================

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	status, body := app.call(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	req, _ := http.NewRequest(http.MethodGet, app.server.URL+"/metrics", nil)
	status, raw := app.do(t, req)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), "gls_http_requests_total")
}

func TestSessionCookie(t *testing.T) {
	app := newTestApp(t)

	req, _ := http.NewRequest(http.MethodGet, app.server.URL+"/api/registration", nil)
	resp, err := app.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == utils.SessionCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	// The same cookie keeps addressing the same wizard.
	status, _ := app.call(t, http.MethodPatch, "/api/registration/profile-type", map[string]interface{}{"profileType": "importer_exporter"})
	require.Equal(t, http.StatusOK, status)
	_, body := app.call(t, http.MethodGet, "/api/registration", nil)
	assert.Equal(t, "importer_exporter", dig(t, body, "form", "profileType"))

	// A forged cookie starts a new session.
	fresh := &http.Client{}
	req, _ = http.NewRequest(http.MethodGet, app.server.URL+"/api/registration", nil)
	req.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: "not-a-token"})
	resp, err = fresh.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var view map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Empty(t, dig(t, view, "form", "profileType"))
	assert.NotEmpty(t, resp.Cookies())
}

// ==========================
// Registration wizard
// ==========================

func TestRegistration_FullFlow(t *testing.T) {
	app := newTestApp(t)
	pdf := []byte("%PDF-1.4 brc")

	status, body := app.call(t, http.MethodPost, "/api/registration", nil)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "profile-type", body["stepSlug"])

	steps := []struct {
		slug  string
		patch map[string]interface{}
	}{
		{"profile-type", map[string]interface{}{"profileType": "service_provider"}},
		{"company-info", map[string]interface{}{
			"company":  map[string]interface{}{"companyName": "Acme Logistics", "regCountryCode": "LK"},
			"contacts": []interface{}{map[string]interface{}{"index": 0, "fullName": "Jane Doe"}},
		}},
		{"business-registration", map[string]interface{}{"business": map[string]interface{}{"brcNumber": "PV12345"}}},
		{"company-profile", map[string]interface{}{"profileBrief": "Freight forwarding out of Colombo."}},
		{"services", map[string]interface{}{"toggleService": "Sea Freight", "supportedCountries": []string{"LK"}}},
		{"insurance", map[string]interface{}{}},
	}
	for _, s := range steps {
		status, body = app.call(t, http.MethodPatch, "/api/registration/"+s.slug, s.patch)
		require.Equal(t, http.StatusOK, status, "%s: %v", s.slug, body)

		if s.slug == "business-registration" {
			status, body = app.multipart(t, "/api/registration/uploads/brc_file", nil,
				&filePart{field: "file", name: "brc.pdf", contentType: "application/pdf", data: pdf})
			require.Equal(t, http.StatusOK, status, "%v", body)
			preview, _ := dig(t, body, "form", "business", "brcFile", "previewUrl").(string)
			require.NotEmpty(t, preview)

			req, _ := http.NewRequest(http.MethodGet, app.server.URL+preview, nil)
			code, raw := app.do(t, req)
			assert.Equal(t, http.StatusOK, code)
			assert.Equal(t, pdf, raw)
		}

		status, body = app.call(t, http.MethodPost, "/api/registration/next", nil)
		require.Equal(t, http.StatusOK, status, "%s: %v", s.slug, body)
	}
	assert.Equal(t, "review", body["stepSlug"])
	assert.Equal(t, true, body["canSubmit"])

	status, _ = app.call(t, http.MethodGet, "/api/registration/review", nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = app.call(t, http.MethodPost, "/api/registration/submit", nil)
	require.Equal(t, http.StatusOK, status, "%v", body)
	assert.Equal(t, "Registration received", dig(t, body, "data", "message"))
	assert.Equal(t, "success", dig(t, body, "registration", "banner", "kind"))

	require.Len(t, app.alliance.seenRegistrations(), 1)
	form := app.alliance.seenRegistrations()[0]
	assert.Equal(t, []string{"Acme Logistics"}, form.Value["company_name"])
	assert.Equal(t, []string{"service_provider"}, form.Value["profile_type"])
	require.Len(t, form.File["brc_document"], 1)
	assert.Equal(t, "brc.pdf", form.File["brc_document"][0].Filename)

	status, _ = app.call(t, http.MethodPost, "/api/registration/submit", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Len(t, app.alliance.seenRegistrations(), 1)
}

func TestRegistration_NextGuard(t *testing.T) {
	app := newTestApp(t)
	app.call(t, http.MethodPost, "/api/registration", nil)

	status, body := app.call(t, http.MethodPost, "/api/registration/next", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.NotEmpty(t, body["message"])
	assert.Equal(t, "profile-type", dig(t, body, "registration", "stepSlug"))
}

func TestRegistration_Errors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
	}{
		{"patch of inactive step", http.MethodPatch, "/api/registration/business-registration",
			map[string]interface{}{"business": map[string]interface{}{"brcNumber": "X"}}, http.StatusConflict},
		{"patch outside step", http.MethodPatch, "/api/registration/profile-type",
			map[string]interface{}{"insurance": map[string]interface{}{"provider": "X"}}, http.StatusUnprocessableEntity},
		{"unknown step", http.MethodPatch, "/api/registration/payments", map[string]interface{}{}, http.StatusBadRequest},
		{"submit outside review", http.MethodPost, "/api/registration/submit", nil, http.StatusConflict},
		{"bad contact index", http.MethodDelete, "/api/registration/contacts/x", nil, http.StatusBadRequest},
		{"unknown upload", http.MethodGet, "/api/registration/uploads/missing", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			app.call(t, http.MethodPost, "/api/registration", nil)
			status, body := app.call(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, status, "%v", body)
		})
	}
}

func TestRegistration_CoverPhotoRejectedForNonImage(t *testing.T) {
	app := newTestApp(t)
	app.call(t, http.MethodPost, "/api/registration", nil)
	app.call(t, http.MethodPatch, "/api/registration/profile-type", map[string]interface{}{"profileType": "importer_exporter"})
	status, _ := app.call(t, http.MethodPost, "/api/registration/next", nil)
	require.Equal(t, http.StatusOK, status)

	status, body := app.multipart(t, "/api/registration/uploads/cover_photo", nil,
		&filePart{field: "file", name: "cover.pdf", contentType: "application/pdf", data: []byte("%PDF")})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "cover_photo", body["field"])
}

func TestRegistration_PreviewHeaders(t *testing.T) {
	app := newTestApp(t)
	app.call(t, http.MethodPost, "/api/registration", nil)
	app.call(t, http.MethodPatch, "/api/registration/profile-type", map[string]interface{}{"profileType": "service_provider"})
	status, _ := app.call(t, http.MethodPost, "/api/registration/next", nil)
	require.Equal(t, http.StatusOK, status)
	app.call(t, http.MethodPatch, "/api/registration/company-info", map[string]interface{}{
		"company":  map[string]interface{}{"companyName": "Acme Logistics", "regCountryCode": "LK"},
		"contacts": []interface{}{map[string]interface{}{"index": 0, "fullName": "Jane Doe"}},
	})
	status, body := app.call(t, http.MethodPost, "/api/registration/next", nil)
	require.Equal(t, http.StatusOK, status, "%v", body)
	require.Equal(t, "business-registration", body["stepSlug"])

	tests := []struct {
		name, contentType, disposition string
	}{
		{"html is downloaded", "text/html", "attachment"},
		{"svg is downloaded", "image/svg+xml", "attachment"},
		{"pdf is shown", "application/pdf", "inline"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := app.multipart(t, "/api/registration/uploads/brc_file", nil,
				&filePart{field: "file", name: "brc", contentType: tt.contentType, data: []byte("<script>alert(1)</script>")})
			require.Equal(t, http.StatusOK, status, "%v", body)
			preview, _ := dig(t, body, "form", "business", "brcFile", "previewUrl").(string)
			require.NotEmpty(t, preview)

			resp, err := app.client.Get(app.server.URL + preview)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
			assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Disposition"), tt.disposition+";"),
				resp.Header.Get("Content-Disposition"))
			assert.Equal(t, "private, no-store", resp.Header.Get("Cache-Control"))
		})
	}
}

// ==========================
// Auth and member area
// ==========================

func TestAuth_InactiveAccountIsSignedOut(t *testing.T) {
	app := newTestApp(t)

	status, body := app.login(t, "inactive@example.com")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, auth.ErrAccountInactive.Error(), body["message"])
	assert.Equal(t, 1, app.alliance.seenLogouts())

	status, body = app.call(t, http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, utils.LoginPath, body["redirect"])
}

func TestAuth_WrongPassword(t *testing.T) {
	app := newTestApp(t)
	status, body := app.login(t, "nobody@example.com")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials.", body["message"])
}

func TestAuth_LoginDashboardLogout(t *testing.T) {
	app := newTestApp(t)

	status, body := app.login(t, "active@example.com")
	require.Equal(t, http.StatusOK, status, "%v", body)
	assert.Equal(t, true, body["authenticated"])
	assert.NotContains(t, body, "Token")

	status, body = app.call(t, http.MethodGet, "/api/me", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Active", dig(t, body, "user", "name"))

	status, body = app.call(t, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["hasProfile"])
	assert.Equal(t, "pending", body["profileStatus"])
	assert.Equal(t, "Acme Logistics", body["companyName"])

	status, body = app.call(t, http.MethodGet, "/api/me/profile", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Acme Logistics", body["company_name"])

	status, body = app.call(t, http.MethodGet, "/api/auth/session", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Active Refreshed", dig(t, body, "user", "name"))

	status, _ = app.call(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, app.alliance.seenLogouts())

	status, _ = app.call(t, http.MethodGet, "/api/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuth_ChangePasswordWithoutOTP(t *testing.T) {
	app := newTestApp(t)
	status, body := app.call(t, http.MethodPost, "/api/auth/password/change",
		map[string]string{"password": "n3w-Secret", "password_confirmation": "n3w-Secret"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, auth.ErrResetTokenMissing.Error(), body["message"])
}

// ==========================
// Directory
// ==========================

func TestDirectory_Query(t *testing.T) {
	app := newTestApp(t)

	status, body := app.call(t, http.MethodGet, "/api/directory/forwarders?country=Sri%20Lanka&sort=az", nil)
	require.Equal(t, http.StatusOK, status, "%v", body)
	rows := body["rows"].([]interface{})
	require.Len(t, rows, 2)
	assert.Equal(t, "Advantis Freight", rows[0].(map[string]interface{})["name"])

	q := app.alliance.seenQueries()[0]
	assert.Equal(t, "freight_forwarder", q.Get("profile_type"))
	assert.Equal(t, "active", q.Get("status"))
	assert.Equal(t, "Sri Lanka", q.Get("country"))

	status, _ = app.call(t, http.MethodGet, "/api/directory/airlines", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDirectory_QueryFailure(t *testing.T) {
	app := newTestApp(t)
	app.alliance.failDirectories()

	status, body := app.call(t, http.MethodGet, "/api/directory/exporters", nil)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, directory.FailureMessage, body["message"])
	assert.Empty(t, body["rows"])
}

func TestDirectory_SessionChange(t *testing.T) {
	app := newTestApp(t)

	status, body := app.call(t, http.MethodPatch, "/api/directory/importer_exporter/session?wait=true",
		map[string]interface{}{"country": "Sri Lanka", "categoryId": "4"})
	require.Equal(t, http.StatusOK, status, "%v", body)
	assert.Equal(t, "Sri Lanka", dig(t, body, "filter", "country"))
	assert.EqualValues(t, 1, dig(t, body, "filter", "page"))
	assert.Equal(t, false, body["loading"])
	assert.Len(t, body["rows"], 2)
	assert.Equal(t, false, body["canNext"])

	queries := app.alliance.seenQueries()
	last := queries[len(queries)-1]
	assert.Equal(t, "4", last.Get("category_id"))

	status, _ = app.call(t, http.MethodPatch, "/api/directory/importer_exporter/session",
		map[string]interface{}{"sort": "loudest"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, body = app.call(t, http.MethodPost, "/api/directory/importer_exporter/session/reset?wait=true", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["hasFilters"])
}

func TestCategoriesTree(t *testing.T) {
	app := newTestApp(t)
	status, body := app.call(t, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, status, "%v", body)
	tree := body["categories"].([]interface{})
	require.Len(t, tree, 1)
	root := tree[0].(map[string]interface{})
	assert.Equal(t, "Tea", root["name"])
	assert.Len(t, root["children"], 1)
}

// ==========================
// Payment and content
// ==========================

func TestPayment_RequiresLogin(t *testing.T) {
	app := newTestApp(t)
	status, body := app.multipart(t, "/api/payment", map[string]string{"amount": "150"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, utils.LoginPath, body["redirect"])
}

func TestPayment_ManualTransfer(t *testing.T) {
	app := newTestApp(t)
	status, _ := app.login(t, "active@example.com")
	require.Equal(t, http.StatusOK, status)

	status, body := app.multipart(t, "/api/payment", map[string]string{"amount": "150"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "Transaction ID required.", body["message"])

	status, body = app.multipart(t, "/api/payment",
		map[string]string{"amount": "150", "transaction_id": "TX-1"},
		&filePart{field: "slip", name: "slip.png", contentType: "image/png", data: []byte("\x89PNG slip")})
	require.Equal(t, http.StatusOK, status, "%v", body)

	require.Len(t, app.alliance.seenPayments(), 1)
	form := app.alliance.seenPayments()[0]
	assert.Equal(t, []string{"7"}, form.Value["user_id"])
	assert.Equal(t, []string{"transaction"}, form.Value["payment_method"])
	assert.Equal(t, []string{"TX-1"}, form.Value["transaction_id"])
	require.Len(t, form.File["avidness"], 1)

	status, _ = app.call(t, http.MethodPost, "/api/payment/card-intent", map[string]string{"amount": "150"})
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestContent_Conferences(t *testing.T) {
	app := newTestApp(t)

	status, body := app.call(t, http.MethodGet, "/api/content/conferences/summit-2026", nil)
	require.Equal(t, http.StatusOK, status, "%v", body)
	assert.Equal(t, "Logistics Summit", body["name"])

	status, _ = app.call(t, http.MethodGet, "/api/content/conferences/missing", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
