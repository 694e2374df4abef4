package affiliations

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assetverse-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

func RegisterRoutes(hr gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	hr.GET("/employees/:hr_email", h.ListEmployees)
	hr.DELETE("/employees/:email", h.RemoveEmployee)
}

func (h *Handler) ListEmployees(c *gin.Context) {
	// 他社HRの一覧は見せない
	if c.Param("hr_email") != c.GetString(auth.CtxUserIDKey) {
		c.JSON(http.StatusForbidden, errorBody(ErrCodeForbidden, "can only list your own company"))
		return
	}

	items, err := h.svc.ListForHR(c.Request.Context(), c.GetString(auth.CtxUserIDKey))
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

func (h *Handler) RemoveEmployee(c *gin.Context) {
	hrEmail := c.GetString(auth.CtxUserIDKey)
	res, err := h.svc.Remove(c.Request.Context(), hrEmail, c.Param("email"))
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "affiliation removed", "returned_requests": res.ReturnedRequests})
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
