/*
handlers.go - HTTP handlers for the asset engine API

PURPOSE:
  Translates HTTP requests into engine calls and engine results/errors
  into JSON responses. No business logic lives here: classification and
  depreciation are pure functions in finance, booking rules live in the
  booking service.

TIME INJECTION:
  Every financial or availability computation takes an explicit instant.
  Handlers resolve it from the optional "as_of" query parameter
  (RFC3339), falling back to the injected clock. The engine itself never
  reads the wall clock, which keeps it deterministic and testable.

ERROR MAPPING:
  asset.ErrValidation (and wrapped) -> 422
  not-found sentinels               -> 404
  malformed request bodies/params   -> 400
  everything else                   -> 500

SEE ALSO:
  - server.go: Router configuration
  - dto.go: Request/response types
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/equiptrack/asset-engine/asset"
	"github.com/equiptrack/asset-engine/booking"
	"github.com/equiptrack/asset-engine/finance"
	"github.com/equiptrack/asset-engine/store/sqlite"
)

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	store   *sqlite.Store
	booking *booking.Service
	cfg     asset.Config
	log     *zap.Logger

	// now is the injected clock, overridable in tests.
	now func() time.Time
}

func NewHandler(store *sqlite.Store, bookingSvc *booking.Service, cfg asset.Config, log *zap.Logger) *Handler {
	return &Handler{
		store:   store,
		booking: bookingSvc,
		cfg:     cfg,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// asOf resolves the evaluation instant: "as_of" query parameter when
// present, else the injected clock.
func (h *Handler) asOf(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return h.now(), nil
	}
	return time.Parse(time.RFC3339, raw)
}

// =============================================================================
// HEALTH
// =============================================================================

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// ASSETS
// =============================================================================

func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.store.ListAssets(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	dtos := make([]AssetDTO, 0, len(assets))
	for _, a := range assets {
		dtos = append(dtos, toAssetDTO(a, h.cfg))
	}
	h.respondJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var req CreateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "invalid JSON body")
		return
	}
	if req.ID == "" || req.Name == "" || req.Category == "" {
		h.badRequest(w, "id, name, and category are required")
		return
	}

	purchaseDate, err := time.Parse(time.RFC3339, req.PurchaseDate)
	if err != nil {
		h.badRequest(w, "purchase_date must be RFC3339")
		return
	}

	a := asset.Asset{
		ID:                      asset.AssetID(req.ID),
		Name:                    req.Name,
		Category:                asset.Category(req.Category),
		PurchaseDate:            purchaseDate,
		ExplicitUsefulLifeYears: req.ExplicitUsefulLifeYears,
		ForceFixedAsset:         req.ForceFixedAsset,
		ForceLowValue:           req.ForceLowValue,
		IsPoolDevice:            req.IsPoolDevice,
		AssignedTo:              asset.EmployeeID(req.AssignedTo),
		CreatedAt:               h.now(),
	}

	if req.NetPurchaseValue != "" {
		a.NetPurchaseValue, err = decimal.NewFromString(req.NetPurchaseValue)
		if err != nil {
			h.badRequest(w, "net_purchase_value must be a decimal string")
			return
		}
	}
	if req.GrossPurchaseValue != "" {
		a.GrossPurchaseValue, err = decimal.NewFromString(req.GrossPurchaseValue)
		if err != nil {
			h.badRequest(w, "gross_purchase_value must be a decimal string")
			return
		}
	}
	if req.CommissioningDate != nil {
		d, err := time.Parse(time.RFC3339, *req.CommissioningDate)
		if err != nil {
			h.badRequest(w, "commissioning_date must be RFC3339")
			return
		}
		a.CommissioningDate = &d
	}

	if err := h.store.SaveAsset(r.Context(), a); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, toAssetDTO(a, h.cfg))
}

func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	a, err := h.store.GetAsset(r.Context(), asset.AssetID(chi.URLParam(r, "id")))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toAssetDTO(a, h.cfg))
}

// GetValuation returns the asset's book value at "as_of" (default now).
func (h *Handler) GetValuation(w http.ResponseWriter, r *http.Request) {
	now, err := h.asOf(r)
	if err != nil {
		h.badRequest(w, "as_of must be RFC3339")
		return
	}

	a, err := h.store.GetAsset(r.Context(), asset.AssetID(chi.URLParam(r, "id")))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	result, err := finance.BookValue(a, h.cfg, now)
	if errors.Is(err, asset.ErrUnclassifiedAsset) {
		h.respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error: "asset has no resolvable net value",
			Code:  "unclassified",
		})
		return
	}
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toValuationDTO(a.ID, result, now))
}

// GetAvailability returns the live booking status of a pool asset.
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	now, err := h.asOf(r)
	if err != nil {
		h.badRequest(w, "as_of must be RFC3339")
		return
	}

	// Single read; status and current/upcoming are derived from the
	// same snapshot, so a store failure surfaces instead of silently
	// degrading the payload.
	assetID := asset.AssetID(chi.URLParam(r, "id"))
	reservations, err := h.booking.Reservations(r.Context(), assetID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	status := booking.Availability(reservations, now)
	dto := AvailabilityDTO{
		AssetID:       string(assetID),
		State:         string(status.State),
		UpcomingCount: status.UpcomingCount,
		AsOf:          now.Format(time.RFC3339),
	}
	if current := booking.CurrentOrUpcoming(reservations, now); current != nil {
		d := toReservationDTO(*current)
		dto.Current = &d
	}
	h.respondJSON(w, http.StatusOK, dto)
}

// =============================================================================
// RESERVATIONS
// =============================================================================

func (h *Handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.booking.Reservations(r.Context(), asset.AssetID(chi.URLParam(r, "id")))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	dtos := make([]ReservationDTO, 0, len(reservations))
	for _, res := range reservations {
		dtos = append(dtos, toReservationDTO(res))
	}
	h.respondJSON(w, http.StatusOK, dtos)
}

func (h *Handler) ProposeReservation(w http.ResponseWriter, r *http.Request) {
	var req ProposeReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "invalid JSON body")
		return
	}

	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		h.badRequest(w, "start must be RFC3339")
		return
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		h.badRequest(w, "end must be RFC3339")
		return
	}

	if _, err := h.store.GetEmployee(r.Context(), asset.EmployeeID(req.EmployeeID)); err != nil {
		h.respondError(w, r, err)
		return
	}

	reservation, err := h.booking.Propose(r.Context(), booking.Proposal{
		AssetID:    asset.AssetID(chi.URLParam(r, "id")),
		EmployeeID: asset.EmployeeID(req.EmployeeID),
		Start:      start,
		End:        end,
		Purpose:    req.Purpose,
	}, h.now())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.log.Info("reservation created",
		zap.String("reservation_id", string(reservation.ID)),
		zap.String("asset_id", string(reservation.AssetID)),
		zap.String("employee_id", string(reservation.EmployeeID)),
	)
	h.respondJSON(w, http.StatusCreated, toReservationDTO(reservation))
}

func (h *Handler) ActivateReservation(w http.ResponseWriter, r *http.Request) {
	reservation, err := h.booking.Activate(r.Context(), booking.ReservationID(chi.URLParam(r, "id")))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toReservationDTO(reservation))
}

func (h *Handler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	reservation, err := h.booking.Cancel(r.Context(), booking.ReservationID(chi.URLParam(r, "id")))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toReservationDTO(reservation))
}

func (h *Handler) ReturnReservation(w http.ResponseWriter, r *http.Request) {
	reservation, err := h.booking.Complete(r.Context(), booking.ReservationID(chi.URLParam(r, "id")), h.now())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toReservationDTO(reservation))
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.store.ListEmployees(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	dtos := make([]EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		dtos = append(dtos, EmployeeDTO{ID: string(e.ID), Name: e.Name, Email: e.Email})
	}
	h.respondJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "invalid JSON body")
		return
	}
	if req.ID == "" || req.Name == "" {
		h.badRequest(w, "id and name are required")
		return
	}

	e := asset.Employee{
		ID:        asset.EmployeeID(req.ID),
		Name:      req.Name,
		Email:     req.Email,
		CreatedAt: h.now(),
	}
	if err := h.store.SaveEmployee(r.Context(), e); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, EmployeeDTO{ID: req.ID, Name: req.Name, Email: req.Email})
}

// =============================================================================
// REPORTS
// =============================================================================

// FleetDepreciationReport sums book values per category across all
// assets, recomputed on demand.
func (h *Handler) FleetDepreciationReport(w http.ResponseWriter, r *http.Request) {
	now, err := h.asOf(r)
	if err != nil {
		h.badRequest(w, "as_of must be RFC3339")
		return
	}

	assets, err := h.store.ListAssets(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	summaries, skipped, err := finance.FleetSummary(assets, h.cfg, now)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	report := FleetReportDTO{
		Categories:   make([]CategorySummaryDTO, 0, len(summaries)),
		Unclassified: skipped,
		AsOf:         now.Format(time.RFC3339),
	}
	for _, s := range summaries {
		report.Categories = append(report.Categories, CategorySummaryDTO{
			Category:         string(s.Category),
			AssetCount:       s.AssetCount,
			OriginalValue:    s.OriginalValue.StringFixed(2),
			CurrentBookValue: s.CurrentBookValue.StringFixed(2),
		})
	}
	h.respondJSON(w, http.StatusOK, report)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error("encode response", zap.Error(err))
	}
}

func (h *Handler) badRequest(w http.ResponseWriter, message string) {
	h.respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: message})
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *asset.ValidationError
	switch {
	case errors.As(err, &validation):
		h.respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error: validation.Message,
			Code:  validation.Code,
		})
	case asset.IsNotFound(err):
		h.respondJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case asset.IsClientError(err):
		h.respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	default:
		h.log.Error("internal error",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		h.respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
