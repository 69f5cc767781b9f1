package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"livestock-records/internal/middleware"
	"livestock-records/internal/ports/changes"
	"livestock-records/internal/router"
)

func newServer(t *testing.T, opts router.Options) *httptest.Server {
	t.Helper()

	h, err := router.NewRouter(context.Background(), opts)
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_Breeds(t *testing.T) {
	ts := newServer(t, router.Options{})

	// 1) Alta
	{
		st, body := doReq(t, ts.URL, "POST", "/api/breeds", map[string]any{"breedId": "B1", "breedName": "Boer"})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create breed, got %d body=%s", st, string(body))
		}
		if msg := messageOf(t, body); msg != "Breed added successfully" {
			t.Fatalf("unexpected message %q", msg)
		}
	}

	// 2) Aparece en el listado
	{
		st, body := doReq(t, ts.URL, "GET", "/api/breeds", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list breeds, got %d body=%s", st, string(body))
		}
		var list []map[string]any
		if err := json.Unmarshal(body, &list); err != nil {
			t.Fatalf("decode list: %v", err)
		}
		if len(list) != 1 || list[0]["breedId"] != "B1" || list[0]["breedName"] != "Boer" {
			t.Fatalf("unexpected list %s", string(body))
		}
	}

	// 3) Duplicado => 409
	{
		st, body := doReq(t, ts.URL, "POST", "/api/breeds", map[string]any{"breedId": "B1", "breedName": "Boer"})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 duplicate breed, got %d body=%s", st, string(body))
		}
		if msg := messageOf(t, body); msg != "Duplicate breedId not allowed" {
			t.Fatalf("unexpected message %q", msg)
		}
	}
}

func TestHTTP_EndToEnd_TagStatus(t *testing.T) {
	ts := newServer(t, router.Options{})

	st, body := doReq(t, ts.URL, "POST", "/api/tags", map[string]any{
		"tagId":           "T1",
		"tagColor":        "red",
		"dateOfAcquiring": "2024-01-01",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create tag, got %d body=%s", st, string(body))
	}

	tag := onlyItem(t, ts.URL, "/api/tags")
	if tag["status"] != "available" {
		t.Fatalf("expected stored status available, got %v", tag["status"])
	}

	st, body = doReq(t, ts.URL, "PUT", "/api/tags/"+tag["_id"].(string), map[string]any{
		"tagId":           "T1",
		"tagColor":        "red",
		"dateOfAcquiring": "2024-01-01",
		"status":          "Used",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 update tag, got %d body=%s", st, string(body))
	}

	tag = onlyItem(t, ts.URL, "/api/tags")
	if tag["status"] != "Used" {
		t.Fatalf("expected status Used after update, got %v", tag["status"])
	}
}

func TestHTTP_EndToEnd_RegisterAndSignIn(t *testing.T) {
	ts := newServer(t, router.Options{})

	// password corto => 400 con errores por campo y sin usuario creado
	{
		st, body := doReq(t, ts.URL, "POST", "/api/users/register", map[string]any{
			"email": "ana@farm.io", "password": "short", "role": "Admin",
		})
		if st != http.StatusBadRequest || !strings.Contains(string(body), `"path":"password"`) {
			t.Fatalf("expected 400 field error, got %d body=%s", st, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/api/users/signin", map[string]any{
			"email": "ana@farm.io", "password": "longpassword",
		})
		if st != http.StatusBadRequest || !strings.Contains(string(body), "Invalid credentials") {
			t.Fatalf("expected rejected sign-in before register, got %d body=%s", st, string(body))
		}
	}

	{
		st, body := doReq(t, ts.URL, "POST", "/api/users/register", map[string]any{
			"email": "ana@farm.io", "password": "longpassword", "role": "Admin",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 register, got %d body=%s", st, string(body))
		}
		if strings.Contains(string(body), "password") {
			t.Fatalf("register response leaks password: %s", string(body))
		}
	}

	wrong, wrongBody := doReq(t, ts.URL, "POST", "/api/users/signin", map[string]any{"email": "ana@farm.io", "password": "wrongpassword"})
	unknown, unknownBody := doReq(t, ts.URL, "POST", "/api/users/signin", map[string]any{"email": "bob@farm.io", "password": "longpassword"})
	if wrong != unknown || string(wrongBody) != string(unknownBody) {
		t.Fatalf("sign-in failures differ: %d %s vs %d %s", wrong, wrongBody, unknown, unknownBody)
	}

	st, body := doReq(t, ts.URL, "POST", "/api/users/signin", map[string]any{"email": "ana@farm.io", "password": "longpassword"})
	if st != http.StatusOK || !strings.Contains(string(body), "User SignIn") {
		t.Fatalf("expected 200 sign-in, got %d body=%s", st, string(body))
	}
}

type capturePublisher struct {
	mu     sync.Mutex
	events []changes.Event
}

func (p *capturePublisher) Publish(_ context.Context, ev changes.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func TestHTTP_PublishesChanges(t *testing.T) {
	pub := &capturePublisher{}
	ts := newServer(t, router.Options{Publisher: pub})

	if st, body := doReq(t, ts.URL, "POST", "/api/medicines", map[string]any{
		"medicineId": "M1", "medicineName": "Ivermectin", "availability": "Yes",
	}); st != http.StatusCreated {
		t.Fatalf("expected 201 create medicine, got %d body=%s", st, string(body))
	}
	med := onlyItem(t, ts.URL, "/api/medicines")
	if st, _ := doReq(t, ts.URL, "DELETE", "/api/medicines/"+med["_id"].(string), nil); st != http.StatusOK {
		t.Fatalf("expected 200 delete medicine, got %d", st)
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	if len(pub.events) != 2 || pub.events[0].Op != changes.OpInsert || pub.events[1].Op != changes.OpDelete {
		t.Fatalf("unexpected events %+v", pub.events)
	}
	if pub.events[0].Collection != "Medicines" || pub.events[0].Key != "M1" {
		t.Fatalf("unexpected insert event %+v", pub.events[0])
	}
}

func TestHTTP_OpsEndpoints(t *testing.T) {
	ts := newServer(t, router.Options{APIPrefix: "v1"})

	if st, body := doReq(t, ts.URL, "GET", "/health", nil); st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("expected 200 ok health, got %d body=%s", st, string(body))
	}
	if st, _ := doReq(t, ts.URL, "GET", "/v1/vendors", nil); st != http.StatusOK {
		t.Fatalf("expected 200 under custom prefix, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/api/vendors", nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 on default prefix, got %d", st)
	}

	st, body := doReq(t, ts.URL, "GET", "/metrics", nil)
	if st != http.StatusOK || !strings.Contains(string(body), "livestock_http_requests_total") {
		t.Fatalf("expected metrics exposition, got %d", st)
	}

	if st, body := doReq(t, ts.URL, "GET", "/swagger/doc.json", nil); st != http.StatusOK || !strings.Contains(string(body), `"/v1"`) {
		t.Fatalf("expected swagger doc, got %d body=%.200s", st, string(body))
	}
}

func TestHTTP_CORSPreflight(t *testing.T) {
	ts := newServer(t, router.Options{CORSAllowedOrigins: []string{"http://localhost:3000"}})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/breeds", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	if got := res.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}

func TestHTTP_RateLimit(t *testing.T) {
	ts := newServer(t, router.Options{RateLimit: middleware.RateLimiterConfig{Rate: 0.001, Burst: 2}})

	for i := 0; i < 2; i++ {
		if st, _ := doReq(t, ts.URL, "GET", "/api/breeds", nil); st != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, st)
		}
	}
	if st, _ := doReq(t, ts.URL, "GET", "/api/breeds", nil); st != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", st)
	}
}

func onlyItem(t *testing.T, baseURL, path string) map[string]any {
	t.Helper()

	st, body := doReq(t, baseURL, "GET", path, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list %s, got %d body=%s", path, st, string(body))
	}
	var list []map[string]any
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one item in %s, got %d", path, len(list))
	}
	return list[0]
}

func messageOf(t *testing.T, body []byte) string {
	t.Helper()

	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode message: %v body=%s", err, string(body))
	}
	return resp.Message
}

func doReq(t *testing.T, baseURL, method, path string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
