package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"survey-server/database"
	"survey-server/middleware"
	"survey-server/models"
	"survey-server/services"
	"survey-server/sessions"
	"survey-server/utils"
	ws "survey-server/websocket"
)

const testBcryptCost = 4

type testServer struct {
	t          *testing.T
	db         *gorm.DB
	router     *gin.Engine
	hub        *ws.Hub
	department models.Department
	employee   models.Employee
	admin      models.Admin
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	hub := ws.NewHub()
	handler := &Handler{
		DB:       db,
		Sessions: middleware.NewSessionManager(sessions.NewMemoryStore(), services.NewSessionTokenService("test-secret"), time.Hour, false),
		Auth:     services.NewAuthService(db, testBcryptCost),
		Answers:  services.NewAnswerService(db),
		Results:  services.NewResultsService(db),
		Hub:      hub,
		Upgrader: ws.NewUpgrader(nil),
	}

	router := gin.New()
	RegisterRoutes(router, handler)

	s := &testServer{t: t, db: db, router: router, hub: hub}

	s.department = models.Department{Name: "HR"}
	require.NoError(t, db.Create(&s.department).Error)

	s.employee = models.Employee{Username: "alice", PasswordHash: s.hash("secret"), DepartmentID: s.department.ID}
	require.NoError(t, db.Create(&s.employee).Error)

	s.admin = models.Admin{Username: "root", PasswordHash: s.hash("adminpass")}
	require.NoError(t, db.Create(&s.admin).Error)

	return s
}

func (s *testServer) hash(password string) string {
	s.t.Helper()
	h, err := utils.HashPassword(password, testBcryptCost)
	require.NoError(s.t, err)
	return h
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName && c.Value != "" {
			return c
		}
	}
	return nil
}

func (s *testServer) do(method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) postForm(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(username, password string) *http.Cookie {
	s.t.Helper()
	w := s.postForm("/login", url.Values{"username": {username}, "password": {password}}, nil)
	require.Equal(s.t, http.StatusOK, w.Code)
	cookie := sessionCookie(w)
	require.NotNil(s.t, cookie, "login as %s did not set a session cookie: %s", username, w.Body.String())
	return cookie
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

type loginResponse struct {
	Success      bool                `json:"success"`
	LocationHref string              `json:"location_href"`
	FormErrors   map[string][]string `json:"form_errors"`
}

type meResponse struct {
	Data struct {
		UserID   uint   `json:"user_id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	} `json:"data"`
}
