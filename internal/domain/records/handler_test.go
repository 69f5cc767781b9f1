package records

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"livestock-records/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWidgetRouter(svc *Service[widget]) http.Handler {
	r := chi.NewRouter()
	r.Route("/widgets", func(wr chi.Router) {
		Mount(wr, CreateHandler(svc), ListHandler(svc), UpdateHandler(svc), DeleteHandler(svc))
	})
	return r
}

func doReq(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var out MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.Message
}

func TestHandlers_CRUDFlow(t *testing.T) {
	h := newWidgetRouter(newWidgetService(t, newMemoryStore(t), nil))

	rec := doReq(t, h, http.MethodPost, "/widgets", map[string]string{"widgetId": "W1", "label": "first"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Widget added successfully.", message(t, rec))

	rec = doReq(t, h, http.MethodPost, "/widgets", map[string]string{"widgetId": "W1", "label": "again"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Widget ID already exists.", message(t, rec))

	rec = doReq(t, h, http.MethodGet, "/widgets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []widget
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	id := items[0].ID

	rec = doReq(t, h, http.MethodPut, "/widgets/"+id, map[string]string{"widgetId": "W1", "label": "renamed"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Widget updated successfully.", message(t, rec))

	rec = doReq(t, h, http.MethodDelete, "/widgets/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Widget deleted successfully.", message(t, rec))

	// id inexistente: igual 200
	rec = doReq(t, h, http.MethodDelete, "/widgets/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doReq(t, h, http.MethodPut, "/widgets/nope", map[string]string{"widgetId": "W1", "label": "x"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doReq(t, h, http.MethodGet, "/widgets", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandlers_BadInput(t *testing.T) {
	h := newWidgetRouter(newWidgetService(t, newMemoryStore(t), nil))

	rec := doReq(t, h, http.MethodPost, "/widgets", `{"widgetId":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid json", message(t, rec))

	rec = doReq(t, h, http.MethodPost, "/widgets", map[string]string{"widgetId": "W1"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "All fields are required.", message(t, rec))

	rec = doReq(t, h, http.MethodPut, "/widgets/x", map[string]string{"label": "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "All fields are required.", message(t, rec))
}

func TestHandlers_UpdateCollisionUsesDuplicateResponse(t *testing.T) {
	svc := newWidgetService(t, newMemoryStore(t), nil)
	h := newWidgetRouter(svc)
	ctx := context.Background()

	_, err := svc.Create(ctx, widget{WidgetID: "W1", Label: "a"})
	require.NoError(t, err)
	id2, err := svc.Create(ctx, widget{WidgetID: "W2", Label: "b"})
	require.NoError(t, err)

	rec := doReq(t, h, http.MethodPut, "/widgets/"+id2, map[string]string{"widgetId": "W1", "label": "b"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Widget ID already exists.", message(t, rec))
}

func TestHandlers_BackendFailures(t *testing.T) {
	st := failingStore{Store: newMemoryStore(t), err: errBackend}

	t.Run("generic kind hides error", func(t *testing.T) {
		h := newWidgetRouter(newWidgetService(t, st, nil))

		rec := doReq(t, h, http.MethodPost, "/widgets", map[string]string{"widgetId": "W1", "label": "a"})
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal server error.", message(t, rec))

		rec = doReq(t, h, http.MethodGet, "/widgets", nil)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"message":"Internal server error."}`, rec.Body.String())

		rec = doReq(t, h, http.MethodDelete, "/widgets/x", nil)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("kind exposing insert error", func(t *testing.T) {
		kind := widgetKind
		kind.ExposeInsertError = true
		kind.ListFailure = map[string]string{"error": "An error occurred when getting widgets"}
		svc, err := NewService[widget](context.Background(), st, kind, Deps{})
		require.NoError(t, err)
		h := newWidgetRouter(svc)

		rec := doReq(t, h, http.MethodPost, "/widgets", map[string]string{"widgetId": "W1", "label": "a"})
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, errBackend.Error(), message(t, rec))

		rec = doReq(t, h, http.MethodGet, "/widgets", nil)
		assert.JSONEq(t, `{"error":"An error occurred when getting widgets"}`, rec.Body.String())
	})
}

func TestDecode(t *testing.T) {
	w, err := Decode[widget](store.Document{"_id": "abc", "widgetId": "W1", "label": "x", "extra": 1})
	require.NoError(t, err)
	assert.Equal(t, widget{ID: "abc", WidgetID: "W1", Label: "x"}, w)

	_, err = Decode[widget](store.Document{"label": 5})
	require.Error(t, err)
}
