package requests

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"assetverse-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

// r: 認証済み / hr: HRのみ / emp: 社員のみ
func RegisterRoutes(r gin.IRoutes, hr gin.IRoutes, emp gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/requests", h.ListRequests)
	r.GET("/requests/:request_ulid", h.GetRequest)

	emp.POST("/requests", h.CreateRequest)
	emp.PATCH("/requests/return/:request_ulid", h.ReturnRequest)

	hr.PATCH("/requests/approve/:request_ulid", h.ApproveRequest)
	hr.PATCH("/requests/reject/:request_ulid", h.RejectRequest)
	hr.POST("/assets/direct-assign", h.DirectAssign)
}

// ---------- handlers ----------

func (h *Handler) CreateRequest(c *gin.Context) {
	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(ErrCodeInvalidArgument, "invalid json or missing required fields"))
		return
	}

	email := c.GetString(auth.CtxUserIDKey)
	res, err := h.svc.Create(c.Request.Context(), email, req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}

	c.Header("Location", "/requests/"+res.RequestULID)
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) GetRequest(c *gin.Context) {
	email := c.GetString(auth.CtxUserIDKey)
	role := c.GetString(auth.CtxRoleKey)
	res, err := h.svc.Get(c.Request.Context(), email, role, c.Param("request_ulid"))
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListRequests(c *gin.Context) {
	f := RequestFilter{}
	if v := c.Query("status"); v != "" {
		st := Status(v)
		f.Status = &st
	}
	if v := c.Query("requester"); v != "" {
		f.RequesterEmail = &v
	}
	if v := c.Query("asset_id"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.AssetID = &n
		}
	}
	p := Page{
		Limit:  parseIntDefault(c.Query("limit"), 50),
		Offset: parseIntDefault(c.Query("offset"), 0),
		Order:  c.DefaultQuery("order", "desc"),
	}

	email := c.GetString(auth.CtxUserIDKey)
	role := c.GetString(auth.CtxRoleKey)
	items, total, err := h.svc.List(c.Request.Context(), email, role, f, p)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *Handler) ApproveRequest(c *gin.Context) {
	email := c.GetString(auth.CtxUserIDKey)
	res, err := h.svc.Approve(c.Request.Context(), email, c.Param("request_ulid"))
	if err != nil {
		h.logTransitionBug(c, "approve", err)
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) RejectRequest(c *gin.Context) {
	email := c.GetString(auth.CtxUserIDKey)
	res, err := h.svc.Reject(c.Request.Context(), email, c.Param("request_ulid"))
	if err != nil {
		h.logTransitionBug(c, "reject", err)
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ReturnRequest(c *gin.Context) {
	email := c.GetString(auth.CtxUserIDKey)
	res, err := h.svc.Return(c.Request.Context(), email, c.Param("request_ulid"))
	if err != nil {
		h.logTransitionBug(c, "return", err)
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) DirectAssign(c *gin.Context) {
	var req DirectAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(ErrCodeInvalidArgument, "invalid json or missing required fields"))
		return
	}

	email := c.GetString(auth.CtxUserIDKey)
	res, err := h.svc.DirectAssign(c.Request.Context(), email, req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}

	c.Header("Location", "/requests/"+res.RequestULID)
	c.JSON(http.StatusCreated, res)
}

// 状態機械違反は正規UIからは出ないはずなのでログに残す
func (h *Handler) logTransitionBug(c *gin.Context, action string, err error) {
	if de, ok := err.(*DomainError); ok && de.Code == ErrCodeInvalidTransition {
		log.Printf("[WARN] invalid transition on %s %s: %v", action, c.Param("request_ulid"), err)
	}
}

// ---------- helpers ----------

func parseIntDefault(s string, d int) int {
	if s == "" {
		return d
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return n
}

type errDTO struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func errorBody(code, msg string) errDTO {
	var e errDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

func errorFromErr(err error) errDTO {
	if de, ok := err.(*DomainError); ok {
		return errorBody(de.Code, de.Message)
	}
	return errorBody(ErrCodeInternal, err.Error())
}
