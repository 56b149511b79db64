package rest

import (
	"time"

	"github.com/google/uuid"

	"github.com/procurebid/procurement-exchange-backend/internal/domain/bid"
	"github.com/procurebid/procurement-exchange-backend/internal/domain/profile"
	"github.com/procurebid/procurement-exchange-backend/internal/domain/project"
	"github.com/procurebid/procurement-exchange-backend/internal/service/lifecycle"
)

// --- requests ---

type signupRequest struct {
	UserType           string `json:"user_type" validate:"required,oneof=buyer supplier"`
	CompanyName        string `json:"company_name" validate:"required,max=200"`
	RepresentativeName string `json:"representative_name" validate:"required,max=100"`
	Email              string `json:"email" validate:"required,email"`
	Password           string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	CompanyName        string `json:"company_name" validate:"omitempty,max=200"`
	RepresentativeName string `json:"representative_name" validate:"omitempty,max=100"`
	Phone              string `json:"phone" validate:"omitempty,max=30"`
	BusinessNumber     string `json:"business_number" validate:"omitempty,max=30"`
	Address            string `json:"address" validate:"omitempty,max=300"`
}

type createProjectRequest struct {
	Title        string     `json:"title" validate:"required,max=200"`
	Category     string     `json:"category" validate:"required,max=100"`
	Region       string     `json:"region" validate:"omitempty,max=100"`
	Requirements string     `json:"requirements" validate:"required"`
	BudgetMin    string     `json:"budget_min" validate:"omitempty"`
	BudgetMax    string     `json:"budget_max" validate:"omitempty"`
	Currency     string     `json:"currency" validate:"omitempty,len=3"`
	ScheduleFrom *time.Time `json:"schedule_from"`
	ScheduleTo   *time.Time `json:"schedule_to"`
	Deadline     time.Time  `json:"deadline" validate:"required"`
}

type submitBidRequest struct {
	Amount       string `json:"amount" validate:"required"`
	Currency     string `json:"currency" validate:"omitempty,len=3"`
	DeliveryDays int    `json:"delivery_days" validate:"required,gt=0"`
	Proposal     string `json:"proposal" validate:"required"`
}

// --- responses ---

type authResponse struct {
	Token   string          `json:"token"`
	Profile profileResponse `json:"profile"`
}

type profileResponse struct {
	ID                 uuid.UUID `json:"id"`
	UserType           string    `json:"user_type"`
	CompanyName        string    `json:"company_name"`
	RepresentativeName string    `json:"representative_name"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone,omitempty"`
	BusinessNumber     string    `json:"business_number,omitempty"`
	Address            string    `json:"address,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

type moneyResponse struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type projectResponse struct {
	ID           uuid.UUID      `json:"id"`
	OwnerID      uuid.UUID      `json:"owner_id"`
	Title        string         `json:"title"`
	Category     string         `json:"category"`
	Region       string         `json:"region,omitempty"`
	Requirements string         `json:"requirements"`
	BudgetMin    *moneyResponse `json:"budget_min,omitempty"`
	BudgetMax    *moneyResponse `json:"budget_max,omitempty"`
	ScheduleFrom *time.Time     `json:"schedule_from,omitempty"`
	ScheduleTo   *time.Time     `json:"schedule_to,omitempty"`
	Deadline     time.Time      `json:"deadline"`
	Status       string         `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
}

type bidResponse struct {
	ID           uuid.UUID     `json:"id"`
	ProjectID    uuid.UUID     `json:"project_id"`
	BidderID     uuid.UUID     `json:"bidder_id"`
	Amount       moneyResponse `json:"amount"`
	DeliveryDays int           `json:"delivery_days"`
	Proposal     string        `json:"proposal"`
	Status       string        `json:"status"`
	SubmittedAt  time.Time     `json:"submitted_at"`
	AcceptedAt   *time.Time    `json:"accepted_at,omitempty"`
}

type dashboardResponse struct {
	Count         int    `json:"count"`
	AcceptedCount int    `json:"accepted_count"`
	PendingCount  int    `json:"pending_count"`
	AverageAmount string `json:"average_amount"`
}

type buyerDashboardResponse struct {
	TotalProjects int               `json:"total_projects"`
	OpenProjects  int               `json:"open_projects"`
	Bids          dashboardResponse `json:"bids"`
}

// --- converters ---

func toProfileResponse(p *profile.Profile) profileResponse {
	return profileResponse{
		ID:                 p.ID,
		UserType:           p.Type.String(),
		CompanyName:        p.CompanyName,
		RepresentativeName: p.RepresentativeName,
		Email:              p.Email,
		Phone:              p.Phone,
		BusinessNumber:     p.BusinessNumber,
		Address:            p.Address,
		CreatedAt:          p.CreatedAt,
	}
}

func toProjectResponse(p *project.Project) projectResponse {
	resp := projectResponse{
		ID:           p.ID,
		OwnerID:      p.OwnerID,
		Title:        p.Title,
		Category:     p.Category,
		Region:       p.Region,
		Requirements: p.Requirements,
		ScheduleFrom: p.ScheduleStart,
		ScheduleTo:   p.ScheduleEnd,
		Deadline:     p.Deadline,
		Status:       p.Status.String(),
		CreatedAt:    p.CreatedAt,
	}
	if p.BudgetMin != nil {
		resp.BudgetMin = &moneyResponse{Amount: p.BudgetMin.Amount().String(), Currency: p.BudgetMin.Currency()}
	}
	if p.BudgetMax != nil {
		resp.BudgetMax = &moneyResponse{Amount: p.BudgetMax.Amount().String(), Currency: p.BudgetMax.Currency()}
	}
	return resp
}

func toProjectResponses(projects []*project.Project) []projectResponse {
	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	return out
}

func toBidResponse(b *bid.Bid) bidResponse {
	return bidResponse{
		ID:        b.ID,
		ProjectID: b.ProjectID,
		BidderID:  b.BidderID,
		Amount: moneyResponse{
			Amount:   b.Amount.Amount().String(),
			Currency: b.Amount.Currency(),
		},
		DeliveryDays: b.DeliveryDays,
		Proposal:     b.Proposal,
		Status:       b.Status.String(),
		SubmittedAt:  b.SubmittedAt,
		AcceptedAt:   b.AcceptedAt,
	}
}

func toBidResponses(bids []*bid.Bid) []bidResponse {
	out := make([]bidResponse, 0, len(bids))
	for _, b := range bids {
		out = append(out, toBidResponse(b))
	}
	return out
}

func toDashboardResponse(s lifecycle.DashboardStats) dashboardResponse {
	return dashboardResponse{
		Count:         s.Count,
		AcceptedCount: s.AcceptedCount,
		PendingCount:  s.PendingCount,
		AverageAmount: s.AverageAmount.String(),
	}
}
