package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/BseoY/120EastState3/internal/config"
	"github.com/BseoY/120EastState3/internal/models"
	"github.com/BseoY/120EastState3/internal/routes"
	"github.com/BseoY/120EastState3/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubUploader struct {
	mu        sync.Mutex
	uploaded  []string
	destroyed []string
	failOn    map[string]bool
}

func (s *stubUploader) Upload(_ context.Context, r io.Reader, filename string) (*services.UploadResult, error) {
	kind, err := services.MediaTypeFromFilename(filename)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn[filename] {
		return nil, errors.New("simulated storage outage")
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}
	s.uploaded = append(s.uploaded, filename)
	return &services.UploadResult{
		URL:       "https://cdn.test/" + filename,
		PublicID:  "test/" + filename,
		MediaType: kind,
		Filename:  filename,
	}, nil
}

func (s *stubUploader) Destroy(_ context.Context, publicID, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyed = append(s.destroyed, publicID)
	return nil
}

type decisionCall struct {
	Email    string
	Decision string
	Title    string
	Feedback string
}

type contactCall struct {
	Name    string
	Email   string
	Message string
}

type stubNotifier struct {
	mu        sync.Mutex
	ok        bool
	decisions []decisionCall
	contacts  []contactCall
}

func (s *stubNotifier) SendDecision(toEmail, decision, postTitle, feedback string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisions = append(s.decisions, decisionCall{toEmail, decision, postTitle, feedback})
	return s.ok
}

func (s *stubNotifier) SendContactForm(name, fromEmail, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = append(s.contacts, contactCall{name, fromEmail, message})
	return s.ok
}

type testEnv struct {
	t        *testing.T
	db       *gorm.DB
	router   *gin.Engine
	tokens   *services.TokenService
	uploader *stubUploader
	notifier *stubNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Post{},
		&models.Media{},
		&models.Announcement{},
	))

	cfg := &config.Config{
		Server: config.ServerConfig{FrontendOrigin: "http://localhost:3000"},
		JWT:    config.JWTConfig{Secret: "handler-secret", TTL: time.Hour},
		Admin: config.AdminConfig{
			Domains: []string{"@120eaststate.org"},
			Emails:  []string{"120eaststate@gmail.com"},
		},
		CORS: config.CORSConfig{Origins: []string{"http://localhost:3000"}},
	}

	tokens := services.NewTokenService(cfg)
	uploader := &stubUploader{failOn: map[string]bool{}}
	notifier := &stubNotifier{ok: true}

	router := routes.Setup(db, cfg, routes.Dependencies{
		Tokens:    tokens,
		Verifier:  services.NewGoogleVerifier(cfg),
		Directory: services.NewUserDirectory(db, cfg),
		Storage:   uploader,
		Notifier:  notifier,
	})

	return &testEnv{
		t:        t,
		db:       db,
		router:   router,
		tokens:   tokens,
		uploader: uploader,
		notifier: notifier,
	}
}

func (e *testEnv) seedUser(googleID, email, role string) *models.User {
	e.t.Helper()
	user := &models.User{
		GoogleID: googleID,
		Email:    email,
		Name:     "Test " + googleID,
		Role:     role,
	}
	require.NoError(e.t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) tokenFor(user *models.User) string {
	e.t.Helper()
	token, err := e.tokens.Issue(user)
	require.NoError(e.t, err)
	return token
}

func (e *testEnv) seedPost(user *models.User, title, status string, createdAt time.Time) *models.Post {
	e.t.Helper()
	post := &models.Post{
		Title:     title,
		Content:   "content of " + title,
		UserID:    &user.ID,
		Status:    status,
		CreatedAt: createdAt,
	}
	require.NoError(e.t, e.db.Create(post).Error)
	return post
}

func (e *testEnv) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	e.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(method, path, token string, payload any) *httptest.ResponseRecorder {
	e.t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(e.t, err)
		body = bytes.NewReader(raw)
	}
	return e.do(method, path, token, body, "application/json")
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func decodeJSONList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// multipartForm builds a post-submission body. files maps form field
// name to filename; contents are throwaway bytes.
func multipartForm(t *testing.T, fields map[string]string, files map[string]string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, filename := range files {
		fw, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte("file data"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func (e *testEnv) postStatus(id uint) string {
	e.t.Helper()
	var post models.Post
	require.NoError(e.t, e.db.First(&post, id).Error)
	return post.Status
}
