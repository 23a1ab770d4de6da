package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/advoga-scheduler/internal/audit"
	"github.com/BruksfildServices01/advoga-scheduler/internal/config"
	"github.com/BruksfildServices01/advoga-scheduler/internal/infra/events"
	"github.com/BruksfildServices01/advoga-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/advoga-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/advoga-scheduler/internal/infra/objectstore"
	"github.com/BruksfildServices01/advoga-scheduler/internal/logger"
	"github.com/BruksfildServices01/advoga-scheduler/internal/middleware"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
	"github.com/BruksfildServices01/advoga-scheduler/internal/payment"
	"github.com/BruksfildServices01/advoga-scheduler/internal/timezone"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type server struct {
	t       *testing.T
	r       *gin.Engine
	cfg     *config.Config
	store   *memory.Store
	gateway *payment.Simulated
	tokens  map[string]string
}

func newServer(t *testing.T) *server {
	t.Helper()

	cfg := &config.Config{JWTSecret: "test-secret", Timezone: timezone.DefaultTimezone}
	store := memory.NewStore()
	sink := audit.NewMemorySink()
	disp := audit.NewDispatcher(sink, logger.Nop())
	t.Cleanup(disp.Close)

	s := &server{
		t:       t,
		r:       gin.New(),
		cfg:     cfg,
		store:   store,
		gateway: payment.NewSimulated(),
		tokens:  map[string]string{},
	}

	RegisterRoutes(s.r, Deps{
		Config:        cfg,
		Log:           logger.Nop(),
		Accounts:      store,
		Pages:         store,
		Appointments:  store,
		Financial:     store,
		Collaboration: store,
		Locker:        lock.NewLocal(),
		Broker:        events.NewLocal(),
		Objects:       objectstore.NewMemory(),
		Gateway:       s.gateway,
		Audit:         disp,
		AuditReader:   sink,
	})

	for _, u := range []models.User{
		{ID: "owner", Name: "Dra. Ana", Email: "ana@advoga.com", Code: "ADV-OWNER001"},
		{ID: "client", Name: "Carlos", Email: "carlos@mail.com", Phone: "11987654321", Code: "ADV-CLIENT01"},
		{ID: "intern", Name: "Bia", Email: "bia@advoga.com", Code: "ADV-INTERN01"},
	} {
		u := u
		if err := store.CreateUser(context.Background(), &u); err != nil {
			t.Fatal(err)
		}
		token, err := middleware.GenerateToken(cfg, &u)
		if err != nil {
			t.Fatal(err)
		}
		s.tokens[u.ID] = token
	}

	return s
}

func (s *server) do(method, path, user string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatal(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+s.tokens[user])
	}

	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	return w
}

func (s *server) expect(w *httptest.ResponseRecorder, status int) map[string]any {
	s.t.Helper()

	if w.Code != status {
		s.t.Fatalf("want %d, got %d: %s", status, w.Code, w.Body.String())
	}
	out := map[string]any{}
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			s.t.Fatalf("decode: %v", err)
		}
	}
	return out
}

func money(t *testing.T, v any) decimal.Decimal {
	t.Helper()
	switch x := v.(type) {
	case string:
		return decimal.RequireFromString(x)
	case float64:
		return decimal.NewFromFloat(x)
	}
	t.Fatalf("not a money value: %#v", v)
	return decimal.Zero
}

// setupPage cria a página da owner com todos os dias abertos às 09:00 e 10:00.
func (s *server) setupPage() string {
	s.t.Helper()

	page := s.expect(s.do(http.MethodPost, "/api/pages", "owner", map[string]any{
		"slug":               "dra-ana",
		"name":               "Dra. Ana",
		"consultation_price": "250",
	}), http.StatusCreated)
	pageID := page["id"].(string)

	days := make([]map[string]any, 0, 7)
	for wd := 0; wd < 7; wd++ {
		days = append(days, map[string]any{"weekday": wd, "active": true, "slots": []string{"10:00", "09:00"}})
	}
	s.expect(s.do(http.MethodPut, "/api/pages/"+pageID+"/availability", "owner", map[string]any{"days": days}), http.StatusOK)

	return pageID
}

func tomorrow() string {
	return timezone.NowIn(timezone.DefaultTimezone).AddDate(0, 0, 1).Format("2006-01-02")
}

func (s *server) book(pageID, hm string) string {
	s.t.Helper()
	ap := s.expect(s.do(http.MethodPost, "/api/appointments", "client", map[string]any{
		"page_id":          pageID,
		"date":             tomorrow(),
		"time":             hm,
		"case_description": "Revisão de contrato de aluguel",
	}), http.StatusCreated)
	return ap["id"].(string)
}

// ======================================================
// TESTS
// ======================================================

func TestHealthAndAuth(t *testing.T) {
	s := newServer(t)

	s.expect(s.do(http.MethodGet, "/health", "", nil), http.StatusOK)
	s.expect(s.do(http.MethodGet, "/api/me", "", nil), http.StatusUnauthorized)

	me := s.expect(s.do(http.MethodGet, "/api/me", "client", nil), http.StatusOK)
	if me["user"].(map[string]any)["code"] != "ADV-CLIENT01" {
		t.Fatalf("unexpected me %v", me)
	}
}

func TestBookingToSettlementOverHTTP(t *testing.T) {
	s := newServer(t)
	pageID := s.setupPage()

	// -------- disponibilidade pública --------
	avail := s.expect(s.do(http.MethodGet, "/api/public/pages/dra-ana/availability?date="+tomorrow(), "", nil), http.StatusOK)
	if slots := avail["slots"].([]any); len(slots) != 2 {
		t.Fatalf("want 2 open slots, got %v", slots)
	}

	// -------- agendamento --------
	apID := s.book(pageID, "09:00")

	dup := s.expect(s.do(http.MethodPost, "/api/appointments", "client", map[string]any{
		"page_id": pageID, "date": tomorrow(), "time": "09:00",
	}), http.StatusConflict)
	if dup["error_code"] != "slot_taken" {
		t.Fatalf("want slot_taken, got %v", dup)
	}

	avail = s.expect(s.do(http.MethodGet, "/api/public/pages/dra-ana/availability?date="+tomorrow(), "", nil), http.StatusOK)
	if slots := avail["slots"].([]any); len(slots) != 1 {
		t.Fatalf("booked slot must disappear, got %v", slots)
	}

	// -------- confirmação --------
	s.expect(s.do(http.MethodPost, "/api/appointments/"+apID+"/confirm", "client", map[string]any{"final_price": "300"}), http.StatusForbidden)

	confirmed := s.expect(s.do(http.MethodPost, "/api/appointments/"+apID+"/confirm", "owner", map[string]any{
		"final_price":     "300",
		"video_call_link": "https://meet.example.com/abc",
	}), http.StatusOK)
	if confirmed["status"] != "awaiting_payment" {
		t.Fatalf("unexpected status %v", confirmed["status"])
	}

	checkout := s.expect(s.do(http.MethodPost, "/api/appointments/"+apID+"/checkout", "client", nil), http.StatusOK)
	if checkout["checkout_url"] == "" {
		t.Fatalf("checkout must return a url, got %v", checkout)
	}

	// -------- pagamento --------
	s.expect(s.do(http.MethodPost, "/api/appointments/"+apID+"/pay", "client", map[string]any{"amount": "299"}), http.StatusBadRequest)

	paid := s.expect(s.do(http.MethodPost, "/api/appointments/"+apID+"/pay", "client", map[string]any{
		"amount": "300",
		"method": "pix",
	}), http.StatusOK)
	if paid["client_record_synced"] != true {
		t.Fatalf("client record must be synced, got %v", paid)
	}

	s.expect(s.do(http.MethodPost, "/api/appointments/"+apID+"/pay", "client", nil), http.StatusConflict)

	// -------- financeiro --------
	summary := s.expect(s.do(http.MethodGet, "/api/me/financial/summary", "owner", nil), http.StatusOK)
	if !money(t, summary["total_received"]).Equal(decimal.NewFromInt(300)) ||
		!money(t, summary["pending_amount"]).Equal(decimal.NewFromInt(300)) ||
		!money(t, summary["available_for_withdrawal"]).IsZero() {
		t.Fatalf("unexpected summary %v", summary)
	}

	entries := s.expect(s.do(http.MethodGet, "/api/me/financial/entries?type=income", "owner", nil), http.StatusOK)
	if entries["total"].(float64) != 1 {
		t.Fatalf("want one income entry, got %v", entries)
	}

	rejected := s.expect(s.do(http.MethodPost, "/api/me/financial/withdrawals", "owner", map[string]any{
		"amount": "100",
		"bank_details": map[string]any{
			"bank_name": "Banco", "agency": "0001", "account": "123",
			"holder_name": "Ana", "holder_document": "12345678900",
		},
	}), http.StatusUnprocessableEntity)
	if rejected["error_code"] != "insufficient_funds" {
		t.Fatalf("held income cannot be withdrawn, got %v", rejected)
	}

	clients := s.expect(s.do(http.MethodGet, "/api/pages/"+pageID+"/clients", "owner", nil), http.StatusOK)
	if clients["total"].(float64) != 1 {
		t.Fatalf("want one client record, got %v", clients)
	}

	// -------- calendário --------
	w := s.do(http.MethodGet, "/api/appointments/"+apID+"/calendar.ics", "client", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "BEGIN:VCALENDAR") {
		t.Fatalf("want ics, got %d %s", w.Code, w.Body.String())
	}
	exported := s.expect(s.do(http.MethodPost, "/api/appointments/"+apID+"/calendar/export", "owner", nil), http.StatusOK)
	if !strings.HasPrefix(exported["url"].(string), "memory://calendar/") {
		t.Fatalf("unexpected export %v", exported)
	}
	s.expect(s.do(http.MethodGet, "/api/appointments/"+apID+"/calendar.ics", "intern", nil), http.StatusForbidden)

	// -------- ciclo final --------
	s.expect(s.do(http.MethodPost, "/api/appointments/"+apID+"/acknowledge", "owner", nil), http.StatusOK)
	final := s.expect(s.do(http.MethodPost, "/api/appointments/"+apID+"/finalize", "owner", nil), http.StatusOK)
	if final["status"] != "finalized" {
		t.Fatalf("unexpected status %v", final["status"])
	}
	s.expect(s.do(http.MethodPost, "/api/appointments/"+apID+"/cancel", "client", nil), http.StatusConflict)

	mine := s.expect(s.do(http.MethodGet, "/api/me/appointments?as=professional", "owner", nil), http.StatusOK)
	if mine["total"].(float64) != 1 {
		t.Fatalf("owner should see one appointment, got %v", mine)
	}
	s.expect(s.do(http.MethodGet, "/api/me/appointments?as=boss", "owner", nil), http.StatusBadRequest)
}

func TestWebhookIsIdempotent(t *testing.T) {
	s := newServer(t)
	pageID := s.setupPage()
	apID := s.book(pageID, "10:00")

	s.expect(s.do(http.MethodPost, "/api/appointments/"+apID+"/confirm", "owner", map[string]any{"final_price": "200"}), http.StatusOK)

	s.gateway.Approve("pay-1", apID, decimal.NewFromInt(200))

	body := map[string]any{"type": "payment", "data": map[string]any{"id": "pay-1"}}
	first := s.expect(s.do(http.MethodPost, "/api/webhooks/mercadopago", "", body), http.StatusOK)
	if first["outcome"] != "paid" {
		t.Fatalf("first notification must pay, got %v", first)
	}

	second := s.expect(s.do(http.MethodPost, "/api/webhooks/mercadopago?topic=payment&id=pay-1", "", nil), http.StatusOK)
	if second["outcome"] != "already_paid" {
		t.Fatalf("repeat notification must be a no-op, got %v", second)
	}

	other := s.expect(s.do(http.MethodPost, "/api/webhooks/mercadopago", "", map[string]any{"type": "merchant_order"}), http.StatusOK)
	if other["outcome"] != "ignored" {
		t.Fatalf("non-payment notification must be ignored, got %v", other)
	}

	s.expect(s.do(http.MethodPost, "/api/webhooks/mercadopago", "", map[string]any{"type": "payment"}), http.StatusBadRequest)

	entries := s.expect(s.do(http.MethodGet, "/api/me/financial/entries", "owner", nil), http.StatusOK)
	if entries["total"].(float64) != 1 {
		t.Fatalf("webhook must record exactly one income, got %v", entries)
	}
}

func TestInternCollaborationOverHTTP(t *testing.T) {
	s := newServer(t)
	pageID := s.setupPage()
	s.book(pageID, "09:00")

	s.expect(s.do(http.MethodGet, "/api/pages/"+pageID+"/appointments", "intern", nil), http.StatusForbidden)

	inv := s.expect(s.do(http.MethodPost, "/api/pages/"+pageID+"/invites", "owner", map[string]any{
		"target_code": "ADV-INTERN01",
		"role":        "intern",
	}), http.StatusCreated)
	inviteID := inv["id"].(string)

	inbox := s.expect(s.do(http.MethodGet, "/api/me/invites?box=inbox", "intern", nil), http.StatusOK)
	if inbox["total"].(float64) != 1 {
		t.Fatalf("intern inbox should hold the invite, got %v", inbox)
	}
	outbox := s.expect(s.do(http.MethodGet, "/api/me/invites?box=outbox", "owner", nil), http.StatusOK)
	if outbox["total"].(float64) != 1 {
		t.Fatalf("owner outbox should hold the invite, got %v", outbox)
	}

	s.expect(s.do(http.MethodPost, "/api/invites/"+inviteID+"/accept", "intern", nil), http.StatusOK)

	access := s.expect(s.do(http.MethodGet, "/api/pages/"+pageID+"/access", "intern", nil), http.StatusOK)
	perms := access["permissions"].([]any)
	if access["role"] != "intern" || len(perms) != 2 || perms[0] != "appointments" || perms[1] != "clients" {
		t.Fatalf("unexpected intern access %v", access)
	}

	list := s.expect(s.do(http.MethodGet, "/api/pages/"+pageID+"/appointments", "intern", nil), http.StatusOK)
	if list["total"].(float64) != 1 {
		t.Fatalf("intern should see the page agenda, got %v", list)
	}

	s.expect(s.do(http.MethodGet, "/api/pages/"+pageID+"/clients", "intern", nil), http.StatusOK)
	s.expect(s.do(http.MethodGet, "/api/pages/"+pageID+"/financial/summary", "intern", nil), http.StatusForbidden)
	s.expect(s.do(http.MethodPatch, "/api/pages/"+pageID, "intern", map[string]any{"name": "X"}), http.StatusForbidden)
	s.expect(s.do(http.MethodDelete, "/api/pages/"+pageID, "intern", nil), http.StatusForbidden)
	s.expect(s.do(http.MethodGet, "/api/pages/"+pageID+"/audit-logs", "intern", nil), http.StatusForbidden)
	s.expect(s.do(http.MethodGet, "/api/pages/"+pageID+"/audit-logs", "owner", nil), http.StatusOK)

	mine := s.expect(s.do(http.MethodGet, "/api/me/collaborations", "intern", nil), http.StatusOK)
	item := mine["data"].([]any)[0].(map[string]any)
	if item["page_slug"] != "dra-ana" {
		t.Fatalf("collaboration should carry the page, got %v", item)
	}

	collabs := s.expect(s.do(http.MethodGet, "/api/pages/"+pageID+"/collaborators", "owner", nil), http.StatusOK)
	collabID := collabs["data"].([]any)[0].(map[string]any)["id"].(string)

	s.expect(s.do(http.MethodPatch, "/api/pages/"+pageID+"/collaborators/"+collabID, "owner", map[string]any{"role": "financial"}), http.StatusOK)
	s.expect(s.do(http.MethodGet, "/api/pages/"+pageID+"/financial/summary", "intern", nil), http.StatusOK)

	s.expect(s.do(http.MethodDelete, "/api/pages/"+pageID+"/collaborators/"+collabID, "owner", nil), http.StatusNoContent)
	s.expect(s.do(http.MethodGet, "/api/pages/"+pageID+"/financial/summary", "intern", nil), http.StatusForbidden)
}

func TestPageLifecycle(t *testing.T) {
	s := newServer(t)
	pageID := s.setupPage()

	s.expect(s.do(http.MethodPost, "/api/pages", "intern", map[string]any{"slug": "dra-ana", "name": "Outra"}), http.StatusConflict)
	s.expect(s.do(http.MethodPost, "/api/pages", "intern", map[string]any{"slug": "Nope!", "name": "Outra"}), http.StatusBadRequest)

	updated := s.expect(s.do(http.MethodPatch, "/api/pages/"+pageID, "owner", map[string]any{"bio": "Direito civil", "state": "sp"}), http.StatusOK)
	if updated["bio"] != "Direito civil" || updated["state"] != "SP" {
		t.Fatalf("unexpected update %v", updated)
	}

	s.expect(s.do(http.MethodGet, "/api/public/pages/dra-ana", "", nil), http.StatusOK)
	s.expect(s.do(http.MethodPost, "/api/pages/"+pageID+"/deactivate", "owner", nil), http.StatusOK)
	s.expect(s.do(http.MethodGet, "/api/public/pages/dra-ana", "", nil), http.StatusNotFound)

	inactive := s.expect(s.do(http.MethodPost, "/api/appointments", "client", map[string]any{
		"page_id": pageID, "date": tomorrow(), "time": "09:00",
	}), http.StatusConflict)
	if inactive["error_code"] != "page_inactive" {
		t.Fatalf("want page_inactive, got %v", inactive)
	}

	s.expect(s.do(http.MethodDelete, "/api/pages/"+pageID, "owner", nil), http.StatusNoContent)
	s.expect(s.do(http.MethodGet, "/api/pages/"+pageID+"/availability", "owner", nil), http.StatusNotFound)

	mine := s.expect(s.do(http.MethodGet, "/api/me/pages", "owner", nil), http.StatusOK)
	if mine["total"].(float64) != 0 {
		t.Fatalf("deleted page must be gone, got %v", mine)
	}
}
