package tags

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"livestock-records/internal/adapters/storage/memory"
	"livestock-records/internal/domain/records"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	st, err := memory.NewStore()
	require.NoError(t, err)
	svc, err := NewService(context.Background(), st, records.Deps{})
	require.NoError(t, err)

	r := chi.NewRouter()
	RegisterRoutes(r, svc)
	return r
}

func doRaw(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func listTags(t *testing.T, h http.Handler) []Tag {
	t.Helper()
	rec := doRaw(h, http.MethodGet, "/tags", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out []Tag
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestTags_CreateForcesAvailable(t *testing.T) {
	h := newRouter(t)

	rec := doRaw(h, http.MethodPost, "/tags", `{"tagId":"T1","tagColor":"red","dateOfAcquiring":"2024-03-01","status":"Used"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"Tag added successfully."}`, rec.Body.String())

	list := listTags(t, h)
	require.Len(t, list, 1)
	assert.Equal(t, StatusAvailable, list[0].Status)
}

func TestTags_UpdateStatus(t *testing.T) {
	h := newRouter(t)

	require.Equal(t, http.StatusCreated,
		doRaw(h, http.MethodPost, "/tags", `{"tagId":"T1","tagColor":"red","dateOfAcquiring":"2024-03-01"}`).Code)
	id := listTags(t, h)[0].ID

	rec := doRaw(h, http.MethodPut, "/tags/"+id, `{"tagId":"T1","tagColor":"red","dateOfAcquiring":"2024-03-01","status":"Used"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusUsed, listTags(t, h)[0].Status)

	// sin status se conserva el actual
	rec = doRaw(h, http.MethodPut, "/tags/"+id, `{"tagId":"T1","tagColor":"blue","dateOfAcquiring":"2024-03-01"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got := listTags(t, h)[0]
	assert.Equal(t, StatusUsed, got.Status)
	assert.Equal(t, "blue", got.TagColor)
}

func TestTags_Validation(t *testing.T) {
	h := newRouter(t)

	rec := doRaw(h, http.MethodPost, "/tags", `{"tagId":"T1","tagColor":"red"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"All fields are required."}`, rec.Body.String())

	require.Equal(t, http.StatusCreated,
		doRaw(h, http.MethodPost, "/tags", `{"tagId":"T1","tagColor":"red","dateOfAcquiring":"2024-03-01"}`).Code)
	rec = doRaw(h, http.MethodPost, "/tags", `{"tagId":"T1","tagColor":"green","dateOfAcquiring":"2024-03-02"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Tag ID already exists."}`, rec.Body.String())
}

func TestTag_NormalizeOnlyOnCreate(t *testing.T) {
	in := Tag{TagID: "T1", TagColor: "red", DateOfAcquiring: "2024-03-01", Status: StatusUsed}
	assert.Equal(t, StatusAvailable, in.Normalize(records.OpCreate).Status)
	assert.Equal(t, StatusUsed, in.Normalize(records.OpUpdate).Status)

	in.Status = ""
	assert.NotContains(t, in.Document(), "status")
}
