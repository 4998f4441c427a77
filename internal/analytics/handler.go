package analytics

import (
	"fmt"
	"net/http"

	"ms-restaurant/internal/logger"
	"ms-restaurant/internal/utils"
)

type Handler struct {
	Service *Service
	Logger  *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

// GetSalesReport handles GET /api/analytics/sales
func (h *Handler) GetSalesReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.GetSalesReport(r.Context())
	if err != nil {
		h.Logger.Error("ANALYTICS", fmt.Sprintf("Failed to build sales report: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("failed to build sales report", err))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("sales report", report))
}
