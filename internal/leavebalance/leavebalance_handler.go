package leavebalance

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go-officeops/internal/shared/apperror"
	"go-officeops/internal/shared/response"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Get mengembalikan saldo cuti. Default untuk employee yang login, tahun
// berjalan. user_id dan year bisa dioverride lewat query param.
func (h *Handler) Get(c *gin.Context) {
	companyID := c.GetString("company_id")
	if companyID == "" {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	employeeID := c.Query("user_id")
	if employeeID == "" {
		employeeID = c.GetString("employee_id")
	}
	if employeeID == "" {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Employee could not be determined", nil)
		return
	}

	year := time.Now().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid year", nil)
			return
		}
		year = parsed
	}

	balance, err := h.service.Get(c.Request.Context(), companyID, employeeID, year)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, balance, nil)
}
