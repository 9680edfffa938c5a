package handler

import "net/http"

type dashboardResponse struct {
	TotalClients   int64   `json:"totalClients"`
	TotalProducts  int64   `json:"totalProducts"`
	TotalPurchases int64   `json:"totalPurchases"`
	TotalRevenue   float64 `json:"totalRevenue"`
}

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardResponse{
		TotalClients:   stats.TotalClients,
		TotalProducts:  stats.TotalProducts,
		TotalPurchases: stats.TotalPurchases,
		TotalRevenue:   stats.TotalRevenue.InexactFloat64(),
	})
}
