package analytics

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"assetverse-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

func RegisterRoutes(hr gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	hr.GET("/analytics/hr/:email", h.CompanySummary)
}

func (h *Handler) CompanySummary(c *gin.Context) {
	if c.Param("email") != c.GetString(auth.CtxUserIDKey) {
		c.JSON(http.StatusForbidden, apiErr(CodeForbidden, "can only view your own company analytics"))
		return
	}

	threshold := atoiDef(c.Query("threshold"), DefaultLowStockThreshold)
	topN := atoiDef(c.Query("top"), DefaultTopN)

	res, err := h.svc.CompanySummary(c.Request.Context(), c.GetString(auth.CtxUserIDKey), threshold, topN)
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

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
