package assets

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"assetverse-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

// r: 認証済みグループ / hr: RequireRole("hr") 付きグループ
func RegisterRoutes(r gin.IRoutes, hr gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/assets", h.ListAssets)
	r.GET("/assets/:asset_id", h.GetAsset)

	hr.POST("/assets", h.CreateAsset)
	hr.PATCH("/assets/:asset_id", h.UpdateAsset)
	hr.DELETE("/assets/:asset_id", h.DeleteAsset)
}

func (h *Handler) CreateAsset(c *gin.Context) {
	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apiErr(CodeInvalidArgument, "invalid json"))
		return
	}
	email := c.GetString(auth.CtxUserIDKey)
	res, err := h.svc.Create(c.Request.Context(), email, req)
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.Header("Location", "/assets/"+strconv.FormatInt(res.AssetID, 10))
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) GetAsset(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("asset_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apiErr(CodeInvalidArgument, "asset_id must be a number"))
		return
	}
	res, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListAssets(c *gin.Context) {
	var q AssetSearchQuery
	if v := c.Query("search"); v != "" {
		q.Search = &v
	}
	if v := c.Query("type"); v != "" {
		q.Type = &v
	}
	if v := c.Query("availability"); v != "" {
		q.Availability = &v
	}

	p := Page{
		Limit:  atoiDef(c.Query("limit"), 50),
		Offset: atoiDef(c.Query("offset"), 0),
		Order:  c.DefaultQuery("order", "desc"),
	}

	email := c.GetString(auth.CtxUserIDKey)
	role := c.GetString(auth.CtxRoleKey)
	items, total, err := h.svc.List(c.Request.Context(), email, role, q, p)
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total, "next_offset": nextOffset(total, p)})
}

func (h *Handler) UpdateAsset(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("asset_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apiErr(CodeInvalidArgument, "invalid asset_id"))
		return
	}
	var req UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apiErr(CodeInvalidArgument, "invalid json"))
		return
	}
	email := c.GetString(auth.CtxUserIDKey)
	res, err := h.svc.Update(c.Request.Context(), email, id, req)
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) DeleteAsset(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("asset_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apiErr(CodeInvalidArgument, "invalid asset_id"))
		return
	}
	email := c.GetString(auth.CtxUserIDKey)
	if err := h.svc.Delete(c.Request.Context(), email, id); err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "asset deleted"})
}

// ===== helpers =====

func atoiDef(s string, d int) int {
	if s == "" {
		return d
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return n
}
func nextOffset(total int64, p Page) int {
	n := p.Offset + p.Limit
	if n >= int(total) {
		return 0
	}
	return n
}

type errDTO struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func apiErr(code Code, msg string) errDTO {
	var e errDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}
func apiErrFrom(err error) errDTO {
	if api, ok := err.(*APIError); ok {
		return apiErr(api.Code, api.Message)
	}
	return apiErr(CodeInternal, err.Error())
}
