package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/advoga-scheduler/internal/config"
	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/financial"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/infra/events"
	"github.com/BruksfildServices01/advoga-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/advoga-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/advoga-scheduler/internal/logger"
	"github.com/BruksfildServices01/advoga-scheduler/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func postJSON(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ======================================================
// AUTH
// ======================================================

func TestRegisterAndLogin(t *testing.T) {
	h := NewAuthHandler(memory.NewStore(), &config.Config{JWTSecret: "test"})
	h.emailCheck = func(email string) bool { return !strings.HasSuffix(email, "@invalid.test") }

	r := gin.New()
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)

	w := postJSON(r, "/register", gin.H{"name": "Ana", "email": "Ana@Advoga.com", "password": "segredo1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}

	var out struct {
		User struct {
			Email string `json:"email"`
			Code  string `json:"code"`
		} `json:"user"`
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.User.Email != "ana@advoga.com" || !strings.HasPrefix(out.User.Code, "ADV-") || out.Token == "" {
		t.Fatalf("unexpected register response %s", w.Body.String())
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Fatal("password hash must not be serialized")
	}

	cases := []struct {
		name string
		path string
		body gin.H
		want int
	}{
		{"duplicate email", "/register", gin.H{"name": "Ana", "email": "ana@advoga.com", "password": "segredo1"}, http.StatusConflict},
		{"bad domain", "/register", gin.H{"name": "X", "email": "x@invalid.test", "password": "segredo1"}, http.StatusBadRequest},
		{"short password", "/register", gin.H{"name": "X", "email": "x@advoga.com", "password": "123"}, http.StatusBadRequest},
		{"login ok", "/login", gin.H{"email": "ANA@advoga.com", "password": "segredo1"}, http.StatusOK},
		{"wrong password", "/login", gin.H{"email": "ana@advoga.com", "password": "errada"}, http.StatusUnauthorized},
		{"unknown user", "/login", gin.H{"email": "ghost@advoga.com", "password": "segredo1"}, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		if w := postJSON(r, tc.path, tc.body); w.Code != tc.want {
			t.Errorf("%s: want %d, got %d %s", tc.name, tc.want, w.Code, w.Body.String())
		}
	}
}

// ======================================================
// ERRORS
// ======================================================

func TestRespondError(t *testing.T) {
	cases := []struct {
		err  error
		want int
		code string
	}{
		{httperr.ErrBusiness(appointment.ErrSlotTaken), http.StatusConflict, "slot_taken"},
		{fmt.Errorf("wrap: %w", httperr.ErrBusiness(appointment.ErrNotFound)), http.StatusNotFound, "appointment_not_found"},
		{httperr.ErrBusiness(financial.ErrInsufficientFunds), http.StatusUnprocessableEntity, "insufficient_funds"},
		{httperr.ErrBusiness("forbidden"), http.StatusForbidden, "forbidden"},
		{httperr.ErrBusiness("something_new"), http.StatusBadRequest, "something_new"},
		{lock.ErrLockTimeout, http.StatusServiceUnavailable, "resource_busy"},
		{errors.New("db down"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondError(c, tc.err)

		var body httperr.HTTPError
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if w.Code != tc.want || body.Code != tc.code || body.Message == "" {
			t.Errorf("%v: want %d/%s, got %d/%+v", tc.err, tc.want, tc.code, w.Code, body)
		}
	}
}

// ======================================================
// STREAM
// ======================================================

// streamRecorder é um ResponseWriter seguro para leitura concorrente,
// com CloseNotify exigido pelo c.Stream.
type streamRecorder struct {
	mu     sync.Mutex
	header http.Header
	buf    bytes.Buffer
	status int
}

func newStreamRecorder() *streamRecorder {
	return &streamRecorder{header: http.Header{}}
}

func (r *streamRecorder) Header() http.Header { return r.header }

func (r *streamRecorder) Write(b []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.buf.Write(b)
}

func (r *streamRecorder) WriteHeader(status int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = status
}

func (r *streamRecorder) Flush() {}

func (r *streamRecorder) CloseNotify() <-chan bool {
	return make(chan bool)
}

func (r *streamRecorder) body() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestInviteStream(t *testing.T) {
	broker := events.NewLocal()
	h := NewCollaborationHandler(CollaborationUseCases{}, broker, nil, logger.Nop())

	r := gin.New()
	r.GET("/stream", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "userx")
		c.Next()
	}, h.Stream)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/stream", nil).WithContext(ctx)
	rec := newStreamRecorder()

	done := make(chan struct{})
	go func() {
		r.ServeHTTP(rec, req)
		close(done)
	}()

	waitFor(t, "subscription", func() bool { return broker.Subscribers("userx") == 1 })

	_ = broker.Publish(context.Background(), "userx", events.InviteEvent{
		Type:     events.InviteSent,
		InviteID: "inv-1",
		PageID:   "p1",
	})

	waitFor(t, "event delivery", func() bool { return strings.Contains(rec.body(), "inv-1") })

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream must end with the request context")
	}

	body := rec.body()
	if !strings.Contains(body, "event:ready") || !strings.Contains(body, "event:invite_sent") {
		t.Fatalf("unexpected stream body %q", body)
	}
	waitFor(t, "unsubscribe", func() bool { return broker.Subscribers("userx") == 0 })
}

func TestInviteStreamEndsOnShutdown(t *testing.T) {
	broker := events.NewLocal()
	shutdown, closeStreams := context.WithCancel(context.Background())
	h := NewCollaborationHandler(CollaborationUseCases{}, broker, shutdown, logger.Nop())

	r := gin.New()
	r.GET("/stream", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "userx")
		c.Next()
	}, h.Stream)

	req := httptest.NewRequest(http.MethodGet, "/stream", nil)
	rec := newStreamRecorder()

	done := make(chan struct{})
	go func() {
		r.ServeHTTP(rec, req)
		close(done)
	}()

	waitFor(t, "subscription", func() bool { return broker.Subscribers("userx") == 1 })

	// a requisição segue viva; só o desligamento encerra o stream
	closeStreams()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream must end when the server shuts down")
	}
	waitFor(t, "unsubscribe", func() bool { return broker.Subscribers("userx") == 0 })
}
