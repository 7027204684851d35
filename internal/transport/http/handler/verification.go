package handler

import (
	"encoding/json"
	"net/http"

	"github.com/monicaDelao/brokerx/internal/application/verification"
	"github.com/monicaDelao/brokerx/internal/pkg/validate"
)

// VerificationHandler handles the email-code and SMS-OTP submission
// endpoints of the activation flow.
type VerificationHandler struct {
	svc verification.Service
}

func NewVerificationHandler(svc verification.Service) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

type submitCodeRequest struct {
	Token string `json:"token" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

func (h *VerificationHandler) SubmitEmailCode(w http.ResponseWriter, r *http.Request) {
	var req submitCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	auditID, err := h.svc.SubmitEmailCode(r.Context(), req.Token, req.Code)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VerifyEnvelope{Message: "account activated", AuditID: auditID})
}

// VerifyEmailLink handles the emailed activation link. The link carries the
// code as a query parameter and no token, so the session is found by code.
func (h *VerificationHandler) VerifyEmailLink(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "code required")
		return
	}
	auditID, err := h.svc.SubmitEmailCodeByLookup(r.Context(), code)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VerifyEnvelope{Message: "account activated", AuditID: auditID})
}

func (h *VerificationHandler) SubmitOTP(w http.ResponseWriter, r *http.Request) {
	var req submitCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.SubmitOTPCode(r.Context(), req.Token, req.Code); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VerifyEnvelope{Message: "phone verified"})
}
