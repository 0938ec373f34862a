package track

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/parcel-proxy/internal/common"
	"github.com/noah-isme/parcel-proxy/internal/obs"
)

// Request is the POST /api/track body.
type Request struct {
	TrackingNumber string `json:"trackingNumber" validate:"required"`
	Carrier        string `json:"carrier" validate:"required"`
}

// Handler exposes the tracking lookup endpoint.
type Handler struct {
	Provider Provider
	APIKey   string
	Validate *validator.Validate
	Logger   zerolog.Logger
}

// Track normalizes the request, resolves it through the upstream provider
// and writes the normalized record. The credential check happens first so a
// misconfigured deployment never reaches the provider.
func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	if strings.TrimSpace(h.APIKey) == "" {
		obs.ObserveTrackLookup("", outcomeLabel(CodeConfig))
		common.JSONError(w, http.StatusInternalServerError, msgNoAPIKey)
		return
	}
	if h.Provider == nil {
		common.JSONError(w, http.StatusInternalServerError, "tracking provider not configured")
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		obs.ObserveTrackLookup("", outcomeLabel(CodeValidation))
		common.JSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := h.validate(req); err != nil {
		obs.ObserveTrackLookup(req.Carrier, outcomeLabel(CodeValidation))
		common.JSONError(w, http.StatusBadRequest, "Missing required fields: trackingNumber, carrier")
		return
	}

	result, err := h.Provider.Track(r.Context(), req.TrackingNumber, req.Carrier)
	if err != nil {
		h.writeError(w, req, err)
		return
	}

	obs.ObserveTrackLookup(req.Carrier, "ok")
	common.JSON(w, http.StatusOK, result)
}

func (h *Handler) validate(req Request) error {
	if h.Validate != nil {
		return h.Validate.Struct(req)
	}
	if strings.TrimSpace(req.TrackingNumber) == "" || strings.TrimSpace(req.Carrier) == "" {
		return errors.New("missing required fields")
	}
	return nil
}

func (h *Handler) writeError(w http.ResponseWriter, req Request, err error) {
	var app *common.AppError
	if errors.As(err, &app) {
		obs.ObserveTrackLookup(req.Carrier, outcomeLabel(app.Code))
		h.Logger.Warn().
			Err(err).
			Str("code", app.Code).
			Str("carrier", req.Carrier).
			Str("tracking_number", NormalizeNumber(req.TrackingNumber)).
			Msg("tracking lookup failed")
		common.JSONError(w, app.HTTPStatus, app.Message)
		return
	}
	obs.ObserveTrackLookup(req.Carrier, outcomeLabel(CodeUnclassified))
	h.Logger.Error().Err(err).Str("carrier", req.Carrier).Msg("tracking lookup failed")
	common.JSONError(w, http.StatusInternalServerError, msgUnclassified)
}

func outcomeLabel(code string) string {
	return strings.ToLower(code)
}
