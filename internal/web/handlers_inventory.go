package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/BloodBank/internal/core"
)

type createInventoryRequest struct {
	Email         string   `json:"email"`
	Role          string   `json:"role"`
	InventoryType string   `json:"inventoryType"`
	BloodGroup    string   `json:"bloodGroup"`
	Quantity      quantity `json:"quantity"`
	UserID        string   `json:"userId"`
}

// handleCreateInventory handles POST /api/v1/inventory/create-inventory.
func (s *Server) handleCreateInventory(w http.ResponseWriter, r *http.Request) {
	const fallback = "Error In Create Inventory API"

	var req createInventoryRequest
	if err := decodeJSON(w, r, &req, lenient); err != nil {
		s.respondError(w, r, err, fallback)
		return
	}

	_, err := s.service.RecordTransaction(r.Context(), core.TransactionRequest{
		Email:          req.Email,
		Role:           req.Role,
		InventoryType:  req.InventoryType,
		BloodGroup:     req.BloodGroup,
		Quantity:       int64(req.Quantity),
		OrganisationID: actorID(r, req.UserID),
		IdempotencyKey: strings.TrimSpace(r.Header.Get(idempotencyHeader)),
	})
	if err != nil {
		s.respondError(w, r, err, fallback)
		return
	}

	writeJSON(w, http.StatusCreated, success("New Blood Record Added"))
}

// handleGetInventory handles GET /api/v1/inventory/get-inventory.
func (s *Server) handleGetInventory(w http.ResponseWriter, r *http.Request) {
	recs, err := s.service.ListOrganisationLedger(r.Context(), actorID(r, ""))
	if err != nil {
		s.respondError(w, r, err, "Error In Get All Inventory")
		return
	}
	writeJSON(w, http.StatusOK, success("Get all records successfully").with("inventory", emptyIfNil(recs)))
}

type filteredInventoryRequest struct {
	Filters core.RecordFilter `json:"filters"`
	UserID  string            `json:"userId"`
}

// handleGetInventoryHospital handles POST /api/v1/inventory/get-inventory-hospital.
// Unknown filter keys are rejected rather than silently matching everything.
func (s *Server) handleGetInventoryHospital(w http.ResponseWriter, r *http.Request) {
	const fallback = "Error In Get Consumer Inventory"

	var req filteredInventoryRequest
	if err := decodeJSON(w, r, &req, strict); err != nil && !errors.Is(err, errEmptyBody) {
		s.respondError(w, r, err, fallback)
		return
	}

	recs, err := s.service.ListFilteredLedger(r.Context(), req.Filters)
	if err != nil {
		s.respondError(w, r, err, fallback)
		return
	}
	writeJSON(w, http.StatusOK, success("Get hospital consumer records successfully").with("inventory", emptyIfNil(recs)))
}

// handleGetRecentInventory handles GET /api/v1/inventory/get-recent-inventory.
func (s *Server) handleGetRecentInventory(w http.ResponseWriter, r *http.Request) {
	recs, err := s.service.RecentLedger(r.Context())
	if err != nil {
		s.respondError(w, r, err, "Error In Recent Inventory API")
		return
	}
	writeJSON(w, http.StatusOK, success("Recent Inventory Data").with("inventory", emptyIfNil(recs)))
}

func (s *Server) handleGetDonors(w http.ResponseWriter, r *http.Request) {
	donors, err := s.service.ListDonors(r.Context())
	if err != nil {
		s.respondError(w, r, err, "Error in Donar records")
		return
	}
	writeJSON(w, http.StatusOK, success("Donar Records Fetched Successfully").with("donars", emptyIfNil(donors)))
}

func (s *Server) handleGetHospitals(w http.ResponseWriter, r *http.Request) {
	hospitals, err := s.service.ListHospitals(r.Context())
	if err != nil {
		s.respondError(w, r, err, "Error In Get Hospital API")
		return
	}
	writeJSON(w, http.StatusOK, success("Hospitals Data Fetched Successfully").with("hospitals", emptyIfNil(hospitals)))
}

// handleGetOrganisations handles GET /api/v1/inventory/get-organisation:
// the organisations a donor or hospital has dealt with.
func (s *Server) handleGetOrganisations(w http.ResponseWriter, r *http.Request) {
	orgs, err := s.service.ListCounterpartyOrganisations(r.Context(), actorID(r, ""))
	if err != nil {
		s.respondError(w, r, err, "Error In Fetching Organisation Data")
		return
	}
	writeJSON(w, http.StatusOK, success("Organisation Data Fetched Successfully").with("organisations", emptyIfNil(orgs)))
}

// handleAvailable handles GET /api/v1/inventory/available?bloodGroup=O%2B.
func (s *Server) handleAvailable(w http.ResponseWriter, r *http.Request) {
	avail, err := s.service.AvailableForOrganisation(r.Context(), actorID(r, ""), r.URL.Query().Get("bloodGroup"))
	if err != nil {
		s.respondError(w, r, err, "Error In Available Blood API")
		return
	}
	writeJSON(w, http.StatusOK, success("Available Blood Fetched Successfully").with("availability", avail))
}
