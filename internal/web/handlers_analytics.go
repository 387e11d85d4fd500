package web

import (
	"net/http"
)

// handleBloodGroupData handles GET /api/v1/analytics/bloodGroups-data.
// Always eight rows, in the fixed group order.
func (s *Server) handleBloodGroupData(w http.ResponseWriter, r *http.Request) {
	rows, err := s.service.BloodGroupReport(r.Context())
	if err != nil {
		s.respondError(w, r, err, "Error In Blood Group Data Analytics API")
		return
	}
	writeJSON(w, http.StatusOK, success("Blood Group Data Fetched Successfully").with("bloodGroupData", rows))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, success("ok").with("status", "healthy"))
}
