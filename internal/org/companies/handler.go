package companies

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assetverse-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

// hr は RequireRole("hr") を掛けたグループを渡す
func RegisterRoutes(r gin.IRoutes, hr gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/packages", h.ListPackages)
	hr.GET("/companies/me", h.GetMyCompany)
	hr.PATCH("/companies/package", h.UpdatePackage)
}

func (h *Handler) ListPackages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.svc.ListPackages(c.Request.Context())})
}

func (h *Handler) GetMyCompany(c *gin.Context) {
	email := c.GetString(auth.CtxUserIDKey)
	res, err := h.svc.GetMyCompany(c.Request.Context(), email)
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) UpdatePackage(c *gin.Context) {
	var req UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apiErr(CodeInvalidArgument, "invalid json"))
		return
	}
	email := c.GetString(auth.CtxUserIDKey)
	res, err := h.svc.UpdatePackage(c.Request.Context(), email, req)
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
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
