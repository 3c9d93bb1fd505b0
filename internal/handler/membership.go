package handler

import (
	"net/http"
	"time"

	"github.com/bskmt/club-api/internal/middleware"
	"github.com/bskmt/club-api/internal/model"
	"github.com/bskmt/club-api/internal/service"
)

// MembershipHandler handles membership and renewal endpoints
type MembershipHandler struct {
	renewalService *service.RenewalService
	memberships    service.MembershipRepository
}

// NewMembershipHandler creates a new membership handler
func NewMembershipHandler(renewalService *service.RenewalService, memberships service.MembershipRepository) *MembershipHandler {
	return &MembershipHandler{
		renewalService: renewalService,
		memberships:    memberships,
	}
}

// GetMembership handles GET /v1/memberships/{membershipId}
func (h *MembershipHandler) GetMembership(w http.ResponseWriter, r *http.Request) {
	membershipID := r.PathValue("membershipId")
	if membershipID == "" {
		WriteError(w, model.NewBadRequestError("membership ID required"))
		return
	}

	m, err := h.memberships.GetByID(r.Context(), membershipID)
	if err != nil {
		WriteError(w, model.NewNotFoundError("membership"))
		return
	}

	WriteData(w, http.StatusOK, m, map[string]string{
		"self":        "/v1/memberships/" + membershipID,
		"eligibility": "/v1/memberships/" + membershipID + "/eligibility",
	})
}

// ListMemberships handles GET /v1/memberships
func (h *MembershipHandler) ListMemberships(w http.ResponseWriter, r *http.Request) {
	memberships, err := h.memberships.List(r.Context())
	if err != nil {
		WriteError(w, model.NewInternalError("failed to list memberships"))
		return
	}

	WriteCollection(w, http.StatusOK, memberships, map[string]string{
		"self": "/v1/memberships",
	})
}

// GetEligibility handles GET /v1/memberships/{membershipId}/eligibility
func (h *MembershipHandler) GetEligibility(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	membershipID := r.PathValue("membershipId")
	if membershipID == "" {
		WriteError(w, model.NewBadRequestError("membership ID required"))
		return
	}

	elig, err := h.renewalService.CanRenew(r.Context(), userID, membershipID, time.Now())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, elig, map[string]string{
		"self":  "/v1/memberships/" + membershipID + "/eligibility",
		"renew": "/v1/memberships/" + membershipID + "/renew",
	})
}

// Renew handles POST /v1/memberships/{membershipId}/renew
func (h *MembershipHandler) Renew(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	membershipID := r.PathValue("membershipId")
	if membershipID == "" {
		WriteError(w, model.NewBadRequestError("membership ID required"))
		return
	}

	if err := h.renewalService.Renew(r.Context(), userID, membershipID, time.Now()); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, map[string]string{"status": "renewed"}, map[string]string{
		"membership": "/v1/memberships/" + membershipID,
	})
}

// RunRenewalPass handles POST /v1/admin/renewals/run
func (h *MembershipHandler) RunRenewalPass(w http.ResponseWriter, r *http.Request) {
	result, err := h.renewalService.RunRenewalPass(r.Context(), time.Now())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, result, nil)
}

// ListDueRenewals handles GET /v1/admin/renewals/due
func (h *MembershipHandler) ListDueRenewals(w http.ResponseWriter, r *http.Request) {
	due, err := h.renewalService.ListDue(r.Context(), time.Now())
	if err != nil {
		WriteError(w, model.NewInternalError("failed to list due renewals"))
		return
	}

	WriteCollection(w, http.StatusOK, due, map[string]string{
		"self": "/v1/admin/renewals/due",
	})
}
