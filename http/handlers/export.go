package handlers

import (
	"fmt"
	"net/http"
	"time"

	"enrollment-module/http/response"
	"enrollment-module/logger"
	"enrollment-module/services"
)

// ExportHandler streams the orders report.
type ExportHandler struct {
	export *services.ExportService
	log    *logger.Logger
}

// NewExportHandler builds the export handler.
func NewExportHandler(export *services.ExportService, log *logger.Logger) *ExportHandler {
	return &ExportHandler{export: export, log: log}
}

// Orders handles GET /orders/export.
func (h *ExportHandler) Orders(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("orders_%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.export.WriteOrders(r.Context(), w); err != nil {
		h.log.Error("Orders export failed: %v", err)
		// Headers may already be written; best we can do is report
		response.FromError(w, err)
	}
}
