package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"bloodbank/pkg/auth"
	"bloodbank/pkg/config"
	"bloodbank/pkg/database"
	"bloodbank/pkg/models"
)

type testEnv struct {
	srv    *Server
	router *gin.Engine
	db     *gorm.DB
}

func setupTestEnv(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		SecretKey:           "test-secret",
		Debug:               true,
		MinDonorAge:         18,
		MaxDonorAge:         65,
		MaxDonationQuantity: 500,
	}
	srv := New(db, cfg, zap.NewNop())
	return &testEnv{srv: srv, router: srv.Router(), db: db}
}

func (e *testEnv) do(t *testing.T, method, path string, form url.Values, token string) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) token(t *testing.T, sess auth.Session) string {
	t.Helper()
	token, err := auth.MintToken(e.srv.cfg.SecretKey, sess)
	require.NoError(t, err)
	return token
}

func (e *testEnv) adminToken(t *testing.T) string {
	return e.token(t, auth.Session{UserID: 1, Name: "admin", Role: auth.RoleAdmin})
}

func (e *testEnv) createAdmin(t *testing.T, username, password string) models.Admin {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	admin := models.Admin{Username: username, PasswordHash: hash}
	require.NoError(t, e.db.Create(&admin).Error)
	return admin
}

func (e *testEnv) createDonor(t *testing.T, name, contact, bloodGroup string) models.Donor {
	t.Helper()
	donor := models.Donor{
		Name:             name,
		Age:              30,
		Gender:           "F",
		BloodGroup:       bloodGroup,
		Contact:          contact,
		Address:          "12 Test St",
		IsActive:         true,
		RegistrationDate: time.Now(),
	}
	require.NoError(t, e.db.Create(&donor).Error)
	return donor
}

func (e *testEnv) createHospital(t *testing.T, name, contact string) models.Hospital {
	t.Helper()
	hospital := models.Hospital{
		Name:             name,
		Location:         "Test City",
		Contact:          contact,
		IsActive:         true,
		RegistrationDate: time.Now(),
	}
	require.NoError(t, e.db.Create(&hospital).Error)
	return hospital
}

func (e *testEnv) available(t *testing.T, bloodGroup string) int {
	t.Helper()
	var row models.BloodInventory
	err := e.db.Where("blood_group = ?", bloodGroup).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return 0
	}
	require.NoError(t, err)
	return row.AvailableQuantity
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	return nil
}
