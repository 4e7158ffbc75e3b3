package transactions

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ishantswami13-crypto/ledger-api/internal/session"
)

func newTestApp(store Store) *fiber.App {
	h := NewHandler(NewService(store), false)

	app := fiber.New()
	g := app.Group("/transactions")
	g.Post("/", h.Create)
	g.Get("/", session.Require(), h.List)
	g.Get("/summary", session.Require(), h.Summary)
	g.Get("/statement", session.Require(), h.Statement)
	g.Get("/:id", session.Require(), h.Get)
	return app
}

func postJSON(t *testing.T, app *fiber.App, body any, cookie *http.Cookie) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest("POST", "/transactions", bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	return resp
}

func get(t *testing.T, app *fiber.App, path string, cookie *http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, ck := range resp.Cookies() {
		if ck.Name == session.CookieName {
			return ck
		}
	}
	return nil
}

func TestCreateThenList(t *testing.T) {
	app := newTestApp(&memStore{})

	resp := postJSON(t, app, map[string]any{"title": "Nova Transação", "amount": 5000, "type": "credit"}, nil)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create: got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) != 0 {
		t.Errorf("create should answer with an empty body, got %q", body)
	}
	cookie := sessionCookie(resp)
	if cookie == nil {
		t.Fatal("create without a session must set the cookie")
	}

	resp = get(t, app, "/transactions", cookie)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("list: got %d", resp.StatusCode)
	}
	var list struct {
		Transactions []struct {
			ID     string  `json:"id"`
			Title  string  `json:"title"`
			Amount float64 `json:"amount"`
		} `json:"transactions"`
	}
	decode(t, resp, &list)

	if len(list.Transactions) != 1 {
		t.Fatalf("want 1 transaction, got %d", len(list.Transactions))
	}
	got := list.Transactions[0]
	if got.Title != "Nova Transação" || got.Amount != 5000 {
		t.Errorf("unexpected transaction %+v", got)
	}
	if _, err := uuid.Parse(got.ID); err != nil {
		t.Errorf("id %q is not a UUID", got.ID)
	}
}

func TestCreateKeepsExistingSession(t *testing.T) {
	store := &memStore{}
	app := newTestApp(store)
	existing := &http.Cookie{Name: session.CookieName, Value: "known-session"}

	resp := postJSON(t, app, map[string]any{"title": "t", "amount": 10, "type": "debit"}, existing)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create: got %d", resp.StatusCode)
	}
	if ck := sessionCookie(resp); ck != nil {
		t.Errorf("existing session was overwritten with %q", ck.Value)
	}

	items, _ := store.ListBySession(context.Background(), "known-session")
	if len(items) != 1 || !items[0].Amount.Equal(decimal.NewFromInt(-10)) {
		t.Errorf("stored rows %+v", items)
	}
}

func TestCreateValidation(t *testing.T) {
	store := &memStore{}
	app := newTestApp(store)

	bodies := []map[string]any{
		{"amount": 10, "type": "credit"},
		{"title": "", "amount": 10, "type": "credit"},
		{"title": "t", "type": "credit"},
		{"title": "t", "amount": 10},
		{"title": "t", "amount": 10, "type": "income"},
		{"title": "t", "amount": "ten", "type": "credit"},
		{"title": "t", "amount": "5000", "type": "credit"},
		{"title": "t", "amount": nil, "type": "credit"},
		{"title": 5, "amount": 10, "type": "credit"},
	}
	for _, b := range bodies {
		resp := postJSON(t, app, b, nil)
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("body %v: got %d", b, resp.StatusCode)
		}
		if ck := sessionCookie(resp); ck != nil {
			t.Errorf("body %v: rejected create must not mint a session", b)
		}
	}

	resp := postJSON(t, app, map[string]any{"title": "t", "type": "credit"}, nil)
	var verr struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	decode(t, resp, &verr)
	if verr.Fields["amount"] != "required" {
		t.Errorf("fields: %v", verr.Fields)
	}

	if store.callCount() != 0 {
		t.Errorf("invalid input reached the store %d times", store.callCount())
	}
}

func TestReadRoutesRequireSession(t *testing.T) {
	store := &memStore{}
	app := newTestApp(store)

	for _, path := range []string{"/transactions", "/transactions/summary", "/transactions/statement", "/transactions/" + uuid.NewString()} {
		resp := get(t, app, path, nil)
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Errorf("%s: got %d", path, resp.StatusCode)
		}
	}
	if store.callCount() != 0 {
		t.Errorf("unauthenticated reads reached the store %d times", store.callCount())
	}
}

func TestGetByID(t *testing.T) {
	store := &memStore{}
	app := newTestApp(store)

	resp := postJSON(t, app, map[string]any{"title": "Nova Transação", "amount": 5000, "type": "credit"}, nil)
	cookie := sessionCookie(resp)

	var list ListResponse
	decode(t, get(t, app, "/transactions", cookie), &list)
	id := list.Transactions[0].ID

	resp = get(t, app, "/transactions/"+id.String(), cookie)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("get: got %d", resp.StatusCode)
	}
	var one GetResponse
	decode(t, resp, &one)
	if one.Transaction == nil || one.Transaction.Title != "Nova Transação" || !one.Transaction.Amount.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("unexpected %+v", one.Transaction)
	}

	// Hex case does not matter.
	resp = get(t, app, "/transactions/"+strings.ToUpper(id.String()), cookie)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("get uppercase: got %d", resp.StatusCode)
	}
	one = GetResponse{}
	decode(t, resp, &one)
	if one.Transaction == nil || one.Transaction.ID != id {
		t.Errorf("uppercase id: unexpected %+v", one.Transaction)
	}

	// Same id under another session is invisible.
	other := &http.Cookie{Name: session.CookieName, Value: "someone-else"}
	resp = get(t, app, "/transactions/"+id.String(), other)
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusOK || string(raw) != "{}" {
		t.Errorf("foreign session: got %d %s", resp.StatusCode, raw)
	}
}

func TestGetUnknownIDIsEmpty(t *testing.T) {
	app := newTestApp(&memStore{})
	cookie := &http.Cookie{Name: session.CookieName, Value: "s"}

	resp := get(t, app, "/transactions/"+uuid.NewString(), cookie)
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("got %d", resp.StatusCode)
	}
	if string(raw) != "{}" {
		t.Errorf("want empty payload, got %s", raw)
	}
}

func TestGetRejectsMalformedID(t *testing.T) {
	store := &memStore{}
	app := newTestApp(store)
	cookie := &http.Cookie{Name: session.CookieName, Value: "s"}

	for _, id := range []string{
		"123",
		"not-a-uuid",
		"6ba7b8109dad11d180b400c04fd430c8",
		"6BA7B8109DAD11D180B400C04FD430C8",
		"urn:uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"6BA7B810-9DAD-11D1-80B4-00C04FD430CG",
	} {
		resp := get(t, app, "/transactions/"+id, cookie)
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("%s: got %d", id, resp.StatusCode)
		}
	}
	if store.callCount() != 0 {
		t.Errorf("malformed ids reached the store %d times", store.callCount())
	}

	resp := get(t, app, "/transactions/A57DB207-0792-42F1-A77B-4ADA1E1EE526", cookie)
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusOK || string(raw) != "{}" {
		t.Errorf("uppercase id: got %d %s", resp.StatusCode, raw)
	}
}

func TestSummaryRoute(t *testing.T) {
	app := newTestApp(&memStore{})

	resp := postJSON(t, app, map[string]any{"title": "Transação de crédito", "amount": 10000, "type": "credit"}, nil)
	cookie := sessionCookie(resp)
	postJSON(t, app, map[string]any{"title": "Transação de débito", "amount": 5000, "type": "debit"}, cookie)

	var sum struct {
		Summary []struct {
			Balance float64 `json:"balance"`
		} `json:"summary"`
	}
	resp = get(t, app, "/transactions/summary", cookie)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("summary: got %d", resp.StatusCode)
	}
	decode(t, resp, &sum)
	if len(sum.Summary) != 1 || sum.Summary[0].Balance != 5000 {
		t.Errorf("unexpected summary %+v", sum)
	}

	fresh := &http.Cookie{Name: session.CookieName, Value: "empty"}
	decode(t, get(t, app, "/transactions/summary", fresh), &sum)
	if len(sum.Summary) != 1 || sum.Summary[0].Balance != 0 {
		t.Errorf("empty session summary %+v", sum)
	}
}

func TestStatementRoute(t *testing.T) {
	app := newTestApp(&memStore{})

	resp := postJSON(t, app, map[string]any{"title": "Café ☕", "amount": 12.5, "type": "debit"}, nil)
	cookie := sessionCookie(resp)

	resp = get(t, app, "/transactions/statement", cookie)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("statement: got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type %q", ct)
	}
	doc, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(doc, []byte("%PDF-")) {
		t.Errorf("body is not a PDF: %q", doc[:min(len(doc), 16)])
	}
}

func TestStoreFailureIs500(t *testing.T) {
	app := newTestApp(&memStore{fail: true})
	cookie := &http.Cookie{Name: session.CookieName, Value: "s"}

	resp := get(t, app, "/transactions", cookie)
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("list: got %d", resp.StatusCode)
	}
	resp = postJSON(t, app, map[string]any{"title": "t", "amount": 1, "type": "credit"}, nil)
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("create: got %d", resp.StatusCode)
	}
	if ck := sessionCookie(resp); ck != nil {
		t.Errorf("failed create must not mint a session")
	}
}
