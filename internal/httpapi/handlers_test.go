package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"knowledge-network/internal/apperr"
	"knowledge-network/internal/assets"
	"knowledge-network/internal/audit"
	"knowledge-network/internal/auth"
	"knowledge-network/internal/locks"
	"knowledge-network/internal/rbac"
	"knowledge-network/internal/scoring"
	"knowledge-network/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		apperr.Validationf("x"):         http.StatusBadRequest,
		apperr.Unauthorizedf("x"):       http.StatusUnauthorized,
		apperr.Forbiddenf("x"):          http.StatusForbidden,
		apperr.NotFoundf("x"):           http.StatusNotFound,
		apperr.Conflictf("x"):           http.StatusConflict,
		apperr.Storage(errors.New("x")): http.StatusInternalServerError,
		context.Canceled:                http.StatusServiceUnavailable,
		context.DeadlineExceeded:        http.StatusServiceUnavailable,
		errors.New("unclassified"):      http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, statusFor(err), err.Error())
	}
}

func TestWriteError_HidesStorageDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	writeError(c, apperr.Storage(errors.New("pq: password authentication failed")))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	writeError(c, apperr.NotFoundf("knowledge asset a1"))
	assert.JSONEq(t, `{"error":"knowledge asset a1"}`, w.Body.String())
}

type harness struct {
	router *gin.Engine
	ledger *scoring.Ledger
	caller auth.Identity
}

// newHarness wires the asset handlers over in-memory stores. The caller's
// identity is injected in place of token verification.
func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	ledger := scoring.NewLedger(scoring.NewMemoryRepo(), nil)
	auditSvc := audit.NewService(audit.NewMemoryRepo())
	engine := assets.NewEngine(assets.NewMemoryRepo(), utils.NewMemoryTransactor(), ledger, auditSvc, locks.NewMemory())
	h := Handlers{Assets: engine, Ledger: ledger, Audit: auditSvc}

	hs := &harness{ledger: ledger, caller: auth.Identity{ID: "u1", Name: "Ana", Role: rbac.RoleConsultant}}
	require.NoError(t, ledger.Open(ctx, "u1"))

	r := gin.New()
	api := r.Group("/api", func(c *gin.Context) {
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), hs.caller))
		c.Set("role", hs.caller.Role)
		c.Next()
	})
	api.POST("/assets", h.CreateAsset)
	api.GET("/assets/:id", h.GetAsset)
	api.PUT("/assets/:id", h.UpdateAsset)
	api.POST("/assets/:id/review", rbac.RequireReviewer(), h.ReviewAsset)
	api.DELETE("/assets/:id", h.DeleteAsset)
	api.GET("/leaderboard", h.Leaderboard)
	api.GET("/audit-logs", h.AuditLogs)
	admin := api.Group("/admin", rbac.RequireAdmin())
	admin.POST("/documents/:id/approve", h.AdminApprove)
	admin.POST("/documents/:id/reject", h.AdminReject)
	hs.router = r
	return hs
}

func (hs *harness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	hs.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestCreateAndGetAsset_RoundTrip(t *testing.T) {
	hs := newHarness(t)

	w := hs.do(t, http.MethodPost, "/api/assets", map[string]any{
		"title":       "Cloud Migration Guide",
		"description": "A complete guide to migrating workloads to the cloud safely.",
		"tags":        []string{"z", "a", "m"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[assets.Asset](t, w)
	assert.Equal(t, assets.StatusPending, created.Status)

	w = hs.do(t, http.MethodGet, "/api/assets/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[map[string]any](t, w)
	assert.Equal(t, "Cloud Migration Guide", got["title"])
	assert.Equal(t, []any{"z", "a", "m"}, got["tags"])
	assert.Equal(t, "pending", got["reviewStatus"])
	assert.Nil(t, got["reviewedBy"])

	w = hs.do(t, http.MethodGet, "/api/assets/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateAsset_BadInput(t *testing.T) {
	hs := newHarness(t)

	w := hs.do(t, http.MethodPost, "/api/assets", map[string]any{"title": "AB", "description": "d"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/assets", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	hs.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewAsset_StatusCodes(t *testing.T) {
	hs := newHarness(t)
	w := hs.do(t, http.MethodPost, "/api/assets", map[string]any{"title": "Guide one", "description": "d"})
	require.Equal(t, http.StatusCreated, w.Code)
	a := decode[assets.Asset](t, w)
	path := "/api/assets/" + a.ID + "/review"

	w = hs.do(t, http.MethodPost, path, map[string]any{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	hs.caller = auth.Identity{ID: "r1", Name: "Rui", Role: rbac.RoleKnowledgeChampion}
	w = hs.do(t, http.MethodPost, path, map[string]any{"status": "rejected"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = hs.do(t, http.MethodPost, path, map[string]any{"status": "approved", "reviewComments": "Good"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, assets.StatusApproved, decode[assets.Asset](t, w).Status)

	w = hs.do(t, http.MethodPost, path, map[string]any{"status": "approved"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = hs.do(t, http.MethodPost, "/api/assets/missing/review", map[string]any{"status": "approved"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = hs.do(t, http.MethodGet, "/api/leaderboard", nil)
	board := decode[[]scoring.Standing](t, w)
	require.Len(t, board, 1)
	assert.EqualValues(t, 50, board[0].Points)
	assert.Equal(t, 1, board[0].Rank)
}

func TestAdminRoutesUseReviewTransition(t *testing.T) {
	hs := newHarness(t)
	w := hs.do(t, http.MethodPost, "/api/assets", map[string]any{"title": "Guide one", "description": "d"})
	a := decode[assets.Asset](t, w)

	w = hs.do(t, http.MethodPost, "/api/admin/documents/"+a.ID+"/approve", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	hs.caller = auth.Identity{ID: "adm", Name: "Admin", Role: rbac.RoleAdmin}
	w = hs.do(t, http.MethodPost, "/api/admin/documents/"+a.ID+"/reject", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = hs.do(t, http.MethodPost, "/api/admin/documents/"+a.ID+"/approve", map[string]any{"adminComments": "ok"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Message string       `json:"message"`
		Asset   assets.Asset `json:"asset"`
	}](t, w)
	assert.Equal(t, "Document approved successfully", body.Message)
	assert.Equal(t, assets.StatusApproved, body.Asset.Status)

	rec, err := hs.ledger.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 50, rec.Points)
}

func TestAuditLogs_LimitAndOrder(t *testing.T) {
	hs := newHarness(t)
	for _, title := range []string{"First guide", "Second guide", "Third guide"} {
		w := hs.do(t, http.MethodPost, "/api/assets", map[string]any{"title": title, "description": "d"})
		require.Equal(t, http.StatusCreated, w.Code)
		time.Sleep(time.Millisecond)
	}

	w := hs.do(t, http.MethodGet, "/api/audit-logs?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries := decode[[]audit.Entry](t, w)
	require.Len(t, entries, 2)
	assert.Equal(t, "Third guide", entries[0].Changes["title"])
	assert.False(t, entries[0].Timestamp.Before(entries[1].Timestamp))

	w = hs.do(t, http.MethodGet, "/api/audit-logs?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteAsset(t *testing.T) {
	hs := newHarness(t)
	w := hs.do(t, http.MethodPost, "/api/assets", map[string]any{"title": "Guide one", "description": "d"})
	a := decode[assets.Asset](t, w)

	w = hs.do(t, http.MethodDelete, "/api/assets/"+a.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = hs.do(t, http.MethodDelete, "/api/assets/"+a.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth_Ready(t *testing.T) {
	r := gin.New()
	h := Health{Checks: map[string]Check{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("dial tcp: refused") },
	}}
	r.GET("/healthz", h.Live)
	r.GET("/readyz", h.Ready)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"postgres":"ok"`)
}
