package httpapi

import (
	"net/http"
	"strconv"

	"knowledge-network/internal/assets"
	"knowledge-network/internal/audit"
	"knowledge-network/internal/auth"
	"knowledge-network/internal/recommend"
	"knowledge-network/internal/reporting"
	"knowledge-network/internal/scoring"
	"knowledge-network/internal/trainings"
	"knowledge-network/internal/users"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Users     *users.Service
	Assets    *assets.Engine
	Ledger    *scoring.Ledger
	Audit     *audit.Service
	Trainings *trainings.Service
	Recommend *recommend.Filter
	Reports   *reporting.Service
}

func identity(c *gin.Context) (auth.Identity, bool) {
	id, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
		return auth.Identity{}, false
	}
	return id, true
}

// --- Auth ---

func (h Handlers) Signup(c *gin.Context) {
	var req users.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	s, err := h.Users.Signup(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h Handlers) Login(c *gin.Context) {
	var req users.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	s, err := h.Users.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h Handlers) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	s, err := h.Users.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h Handlers) Me(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	u, err := h.Users.Me(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// --- Assets ---

func (h Handlers) ListAssets(c *gin.Context) {
	h.writeAssets(c, func() ([]assets.Asset, error) { return h.Assets.List(c.Request.Context()) })
}

func (h Handlers) ListPendingAssets(c *gin.Context) {
	h.writeAssets(c, func() ([]assets.Asset, error) { return h.Assets.ListPending(c.Request.Context()) })
}

func (h Handlers) ListMyAssets(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	h.writeAssets(c, func() ([]assets.Asset, error) { return h.Assets.ListByAuthor(c.Request.Context(), id.ID) })
}

func (h Handlers) SearchAssets(c *gin.Context) {
	term := c.Param("term")
	h.writeAssets(c, func() ([]assets.Asset, error) { return h.Assets.Search(c.Request.Context(), term) })
}

func (h Handlers) writeAssets(c *gin.Context, list func() ([]assets.Asset, error)) {
	out, err := list()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) GetAsset(c *gin.Context) {
	a, err := h.Assets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h Handlers) CreateAsset(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req assets.CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	a, err := h.Assets.Create(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h Handlers) UpdateAsset(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req assets.Patch
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	a, err := h.Assets.Update(c.Request.Context(), id, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h Handlers) ReviewAsset(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req assets.Decision
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	a, err := h.Assets.Review(c.Request.Context(), id, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h Handlers) DeleteAsset(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	if err := h.Assets.Delete(c.Request.Context(), id, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted successfully"})
}

// --- Admin documents ---

func (h Handlers) AdminDocuments(c *gin.Context) {
	docs, err := h.Assets.AdminDocuments(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

type adminDecisionRequest struct {
	AdminComments string `json:"adminComments"`
}

func (h Handlers) AdminApprove(c *gin.Context) {
	h.adminDecide(c, assets.StatusApproved, "Document approved successfully")
}

func (h Handlers) AdminReject(c *gin.Context) {
	h.adminDecide(c, assets.StatusRejected, "Document rejected successfully")
}

// adminDecide routes admin decisions through the regular review transition.
func (h Handlers) adminDecide(c *gin.Context, status assets.Status, message string) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req adminDecisionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badJSON(c)
			return
		}
	}
	a, err := h.Assets.Review(c.Request.Context(), id, c.Param("id"), assets.Decision{
		Status:         status,
		ReviewComments: req.AdminComments,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "asset": a})
}

// --- Scoring, trainings, recommendations, audit, statistics ---

func (h Handlers) Leaderboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.Ledger.RankedView(c.Request.Context()))
}

func (h Handlers) ListTrainings(c *gin.Context) {
	out, err := h.Trainings.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) CompleteTraining(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	t, err := h.Trainings.Complete(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h Handlers) RecommendAssets(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.Recommend.Assets(c.Request.Context(), id))
}

func (h Handlers) RecommendExperts(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.Recommend.Experts(c.Request.Context(), id))
}

func (h Handlers) AuditLogs(c *gin.Context) {
	limit := audit.DefaultRecentLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	out, err := h.Audit.Recent(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) Statistics(c *gin.Context) {
	c.JSON(http.StatusOK, h.Reports.Statistics(c.Request.Context()))
}
