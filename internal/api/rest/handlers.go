package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apperrors "github.com/procurebid/procurement-exchange-backend/internal/domain/errors"
	"github.com/procurebid/procurement-exchange-backend/internal/domain/notification"
	"github.com/procurebid/procurement-exchange-backend/internal/domain/profile"
	"github.com/procurebid/procurement-exchange-backend/internal/domain/values"
	"github.com/procurebid/procurement-exchange-backend/internal/infrastructure/auth"
	"github.com/procurebid/procurement-exchange-backend/internal/infrastructure/cache"
	"github.com/procurebid/procurement-exchange-backend/internal/service/export"
	"github.com/procurebid/procurement-exchange-backend/internal/service/lifecycle"
)

// NotificationLister reads a recipient's stored notifications.
type NotificationLister interface {
	ListNotifications(ctx context.Context, userID uuid.UUID) ([]*notification.Notification, error)
}

// Handler exposes the lifecycle engine over HTTP.
type Handler struct {
	engine        *lifecycle.Service
	tokens        *auth.TokenService
	credentials   auth.CredentialStore
	exporter      *export.Exporter
	notifications NotificationLister
	cache         *cache.ProjectCache
	validate      *validator.Validate
	logger        *slog.Logger
}

// NewHandler wires the handler. The cache and notification lister may be nil.
func NewHandler(
	engine *lifecycle.Service,
	tokens *auth.TokenService,
	credentials auth.CredentialStore,
	exporter *export.Exporter,
	notifications NotificationLister,
	projectCache *cache.ProjectCache,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		engine:        engine,
		tokens:        tokens,
		credentials:   credentials,
		exporter:      exporter,
		notifications: notifications,
		cache:         projectCache,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		logger:        logger,
	}
}

func (h *Handler) decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.NewValidationError("INVALID_BODY", "request body is not valid JSON")
	}
	if err := h.validate.Struct(v); err != nil {
		return apperrors.NewValidationError("INVALID_BODY", err.Error())
	}
	return nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, apperrors.NewValidationError("INVALID_ID", fmt.Sprintf("%s is not a valid id", name))
	}
	return id, nil
}

func parseMoney(amount, currency string) (values.Money, error) {
	if currency == "" {
		currency = values.KRW
	}
	m, err := values.NewMoneyFromString(amount, currency)
	if err != nil {
		return values.Money{}, apperrors.NewValidationError("INVALID_AMOUNT", err.Error())
	}
	return m, nil
}

// --- auth ---

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	userType, err := profile.ParseUserType(req.UserType)
	if err != nil {
		writeError(w, r, apperrors.NewValidationError("INVALID_USER_TYPE", err.Error()))
		return
	}

	if _, err := h.credentials.GetCredentialsByEmail(r.Context(), req.Email); err == nil {
		writeError(w, r, apperrors.NewConflictError("EMAIL_TAKEN", "email is already registered"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	prof, err := h.engine.Register(r.Context(), userType, req.CompanyName, req.RepresentativeName, req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = h.credentials.SaveCredentials(r.Context(), &auth.Credentials{
		ProfileID:    prof.ID,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.tokens.GenerateToken(prof.ID, prof.Type.String(), time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: token, Profile: toProfileResponse(prof)})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	creds, err := h.credentials.GetCredentialsByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, apperrors.NewUnauthorizedError("invalid email or password"))
		return
	}
	if err := auth.CheckPassword(creds.PasswordHash, req.Password); err != nil {
		writeError(w, r, err)
		return
	}

	prof, err := h.engine.GetProfile(r.Context(), creds.ProfileID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.tokens.GenerateToken(prof.ID, prof.Type.String(), time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, Profile: toProfileResponse(prof)})
}

// --- profiles ---

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	prof, err := h.engine.GetProfile(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(prof))
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updateProfileRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	prof, err := h.engine.UpdateProfile(r.Context(), caller.ID, id,
		req.CompanyName, req.RepresentativeName, req.Phone, req.BusinessNumber, req.Address)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(prof))
}

// --- projects ---

func (h *Handler) handleListOpenProjects(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		if projects, ok := h.cache.GetOpenProjects(r.Context()); ok {
			writeJSON(w, http.StatusOK, toProjectResponses(projects))
			return
		}
	}

	projects, err := h.engine.ListOpenProjects(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if h.cache != nil {
		h.cache.SetOpenProjects(r.Context(), projects)
	}
	writeJSON(w, http.StatusOK, toProjectResponses(projects))
}

func (h *Handler) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	caller, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req createProjectRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	svcReq := lifecycle.CreateProjectRequest{
		OwnerID:      caller.ID,
		Title:        req.Title,
		Category:     req.Category,
		Region:       req.Region,
		Requirements: req.Requirements,
		ScheduleFrom: req.ScheduleFrom,
		ScheduleTo:   req.ScheduleTo,
		Deadline:     req.Deadline,
	}
	if req.BudgetMin != "" || req.BudgetMax != "" {
		if req.BudgetMin == "" || req.BudgetMax == "" {
			writeError(w, r, apperrors.NewValidationError("INVALID_BUDGET", "budget range requires both bounds"))
			return
		}
		min, err := parseMoney(req.BudgetMin, req.Currency)
		if err != nil {
			writeError(w, r, err)
			return
		}
		max, err := parseMoney(req.BudgetMax, req.Currency)
		if err != nil {
			writeError(w, r, err)
			return
		}
		svcReq.BudgetMin = &min
		svcReq.BudgetMax = &max
	}

	p, err := h.engine.CreateProject(r.Context(), svcReq)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if h.cache != nil {
		h.cache.InvalidateOpenProjects(r.Context())
	}
	writeJSON(w, http.StatusCreated, toProjectResponse(p))
}

func (h *Handler) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.engine.GetProject(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponse(p))
}

func (h *Handler) handleListMyProjects(w http.ResponseWriter, r *http.Request) {
	caller, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	projects, err := h.engine.ListProjectsByOwner(r.Context(), caller.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponses(projects))
}

// --- bids ---

func (h *Handler) handleSubmitBid(w http.ResponseWriter, r *http.Request) {
	caller, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	projectID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req submitBidRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	amount, err := parseMoney(req.Amount, req.Currency)
	if err != nil {
		writeError(w, r, err)
		return
	}

	b, err := h.engine.SubmitBid(r.Context(), lifecycle.SubmitBidRequest{
		ProjectID:    projectID,
		BidderID:     caller.ID,
		Amount:       amount,
		DeliveryDays: req.DeliveryDays,
		Proposal:     req.Proposal,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBidResponse(b))
}

func (h *Handler) handleListProjectBids(w http.ResponseWriter, r *http.Request) {
	caller, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	projectID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	bids, err := h.engine.ListBidsForProject(r.Context(), projectID, caller.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBidResponses(bids))
}

func (h *Handler) handleExportProjectBids(w http.ResponseWriter, r *http.Request) {
	caller, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	projectID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	bids, err := h.engine.ListBidsForProject(r.Context(), projectID, caller.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="bids-%s.csv"`, projectID))
	if err := h.exporter.WriteCSV(r.Context(), w, bids); err != nil {
		h.logger.ErrorContext(r.Context(), "bid export failed", "project_id", projectID, "error", err)
	}
}

func (h *Handler) handleAcceptBid(w http.ResponseWriter, r *http.Request) {
	caller, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	projectID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	bidID, err := pathUUID(r, "bidID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.engine.AcceptBid(r.Context(), projectID, bidID, caller.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if h.cache != nil {
		h.cache.InvalidateOpenProjects(r.Context())
	}
	writeJSON(w, http.StatusOK, toProjectResponse(p))
}

func (h *Handler) handleReviewBid(w http.ResponseWriter, r *http.Request) {
	caller, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	projectID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	bidID, err := pathUUID(r, "bidID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	b, err := h.engine.MarkBidReviewed(r.Context(), projectID, bidID, caller.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBidResponse(b))
}

func (h *Handler) handleListMyBids(w http.ResponseWriter, r *http.Request) {
	caller, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	bids, err := h.engine.ListBidsByBidder(r.Context(), caller.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBidResponses(bids))
}

// --- dashboards ---

func (h *Handler) handleSupplierDashboard(w http.ResponseWriter, r *http.Request) {
	caller, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	stats, err := h.engine.SupplierDashboard(r.Context(), caller.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDashboardResponse(stats))
}

func (h *Handler) handleBuyerDashboard(w http.ResponseWriter, r *http.Request) {
	caller, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	dash, err := h.engine.BuyerDashboard(r.Context(), caller.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, buyerDashboardResponse{
		TotalProjects: dash.TotalProjects,
		OpenProjects:  dash.OpenProjects,
		Bids:          toDashboardResponse(dash.Bids),
	})
}

// --- notifications ---

func (h *Handler) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	caller, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	if h.notifications == nil {
		writeJSON(w, http.StatusOK, []*notification.Notification{})
		return
	}
	items, err := h.notifications.ListNotifications(r.Context(), caller.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []*notification.Notification{}
	}
	writeJSON(w, http.StatusOK, items)
}

// --- health ---

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
