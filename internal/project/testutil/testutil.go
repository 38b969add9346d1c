package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/NhatBangLe/sc-project-service/internal/project/entity"
	"github.com/NhatBangLe/sc-project-service/internal/project/handler"
	"github.com/NhatBangLe/sc-project-service/internal/project/repository"
	"github.com/NhatBangLe/sc-project-service/internal/project/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestEnv holds test environment resources
type TestEnv struct {
	DB       *gorm.DB
	Repos    *repository.Repositories
	Services *service.Services
	Router   *gin.Engine
	Users    *FakeUserClient
	Files    *FakeFileClient
}

// SetupTestDB opens an isolated in-memory sqlite database with all tables migrated.
// TranslateError makes duplicate-key violations surface as gorm.ErrDuplicatedKey,
// matching the production postgres behavior.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&entity.User{},
		&entity.Project{},
		&entity.Form{},
		&entity.Field{},
		&entity.Stage{},
		&entity.Sample{},
		&entity.Answer{},
		&entity.DynamicField{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})

	return db
}

// SetupEnv wires repositories, services, handlers and a test router
// against an in-memory database and fake collaborator clients.
func SetupEnv(t *testing.T) *TestEnv {
	t.Helper()

	db := SetupTestDB(t)
	repos := repository.NewRepositories(db)
	users := NewFakeUserClient()
	files := NewFakeFileClient()
	lg := zap.NewNop()
	cleaner := service.NewFileCleaner(files, nil, lg)
	services := service.NewServices(repos, users, files, cleaner)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler.RegisterRoutes(router, handler.NewHandlers(services, lg))

	return &TestEnv{
		DB:       db,
		Repos:    repos,
		Services: services,
		Router:   router,
		Users:    users,
		Files:    files,
	}
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses a JSON response body into a map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// Date builds a date-only timestamp for request payloads
func Date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

// FakeUserClient is an in-memory UserClient double.
// Unknown users report false; Fail forces the unknown (error) outcome.
type FakeUserClient struct {
	mu     sync.Mutex
	known  map[string]bool
	failed bool
}

func NewFakeUserClient() *FakeUserClient {
	return &FakeUserClient{known: make(map[string]bool)}
}

// Know registers user ids as existing remotely
func (f *FakeUserClient) Know(ids ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		f.known[id] = true
	}
}

// Fail makes every subsequent check return an error
func (f *FakeUserClient) Fail(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = fail
}

func (f *FakeUserClient) CheckUserExists(_ context.Context, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failed {
		return false, fmt.Errorf("user service unavailable")
	}
	return f.known[userID], nil
}

// FakeFileClient is an in-memory FileClient double recording deletions.
type FakeFileClient struct {
	mu      sync.Mutex
	known   map[string]bool
	deleted []string
	failed  bool
}

func NewFakeFileClient() *FakeFileClient {
	return &FakeFileClient{known: make(map[string]bool)}
}

// Know registers file ids as existing remotely
func (f *FakeFileClient) Know(ids ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		f.known[id] = true
	}
}

// Fail makes every subsequent check or delete return an error
func (f *FakeFileClient) Fail(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = fail
}

// Deleted returns the file ids deleted so far, in call order
func (f *FakeFileClient) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.deleted))
	copy(out, f.deleted)
	return out
}

func (f *FakeFileClient) CheckFileExists(_ context.Context, fileID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failed {
		return false, fmt.Errorf("file service unavailable")
	}
	return f.known[fileID], nil
}

func (f *FakeFileClient) DeleteFile(_ context.Context, fileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failed {
		return fmt.Errorf("file service unavailable")
	}
	f.deleted = append(f.deleted, fileID)
	delete(f.known, fileID)
	return nil
}
