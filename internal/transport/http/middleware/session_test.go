package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-accounts/internal/core/port"
)

type memoryStore struct {
	values map[string]string
}

func (s *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	val, ok := s.values[key]
	return val, ok, nil
}

func (s *memoryStore) Set(_ context.Context, values map[string]string) error {
	for key, val := range values {
		s.values[key] = val
	}
	return nil
}

func (s *memoryStore) Clear(_ context.Context) error {
	s.values = make(map[string]string)
	return nil
}

func (s *memoryStore) Active(_ context.Context) (bool, error) {
	return len(s.values) > 0, nil
}

type memoryResolver struct {
	stores map[string]*memoryStore
}

func newMemoryResolver() *memoryResolver {
	return &memoryResolver{stores: make(map[string]*memoryStore)}
}

func (r *memoryResolver) Handle(sessionID string) port.SessionStore {
	store, ok := r.stores[sessionID]
	if !ok {
		store = &memoryStore{values: make(map[string]string)}
		r.stores[sessionID] = store
	}
	return store
}

func TestSessionMiddlewareIssuesCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)

	resolver := newMemoryResolver()
	router := gin.New()
	router.Use(Session(resolver, time.Hour, false))
	router.GET("/probe", func(c *gin.Context) {
		if SessionFromContext(c) == nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	cookies := rr.Result().Cookies()
	var found *http.Cookie
	for _, cookie := range cookies {
		if cookie.Name == sessionCookieName {
			found = cookie
		}
	}
	if found == nil || found.Value == "" {
		t.Fatalf("expected session cookie to be issued")
	}
	if !found.HttpOnly {
		t.Fatalf("expected HttpOnly cookie")
	}
}

func TestSessionMiddlewareReusesExistingID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	resolver := newMemoryResolver()
	router := gin.New()
	router.Use(Session(resolver, time.Hour, false))
	router.GET("/probe", func(c *gin.Context) {
		sess := SessionFromContext(c)
		val, present, _ := sess.Get(c.Request.Context(), "marker")
		if present {
			c.String(http.StatusOK, val)
			return
		}
		_ = sess.Set(c.Request.Context(), map[string]string{"marker": "first"})
		c.String(http.StatusOK, "")
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sid-fixed"})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	req = httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sid-fixed"})
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Body.String() != "first" {
		t.Fatalf("expected state to persist across requests, got %q", rr.Body.String())
	}
}
