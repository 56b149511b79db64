package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/procurebid/procurement-exchange-backend/internal/domain/project"
	"github.com/procurebid/procurement-exchange-backend/internal/domain/values"
	"github.com/procurebid/procurement-exchange-backend/internal/service/lifecycle"
)

// projectRepository implements lifecycle.ProjectRepository using PostgreSQL
type projectRepository struct {
	db *pgxpool.Pool
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *pgxpool.Pool) lifecycle.ProjectRepository {
	return &projectRepository{db: db}
}

const projectColumns = `
	id, owner_id, title, category, region, requirements,
	budget_min::text, budget_max::text, budget_currency,
	schedule_start, schedule_end, deadline, status, created_at, updated_at`

func (r *projectRepository) Create(ctx context.Context, p *project.Project) error {
	query := `
		INSERT INTO projects (
			id, owner_id, title, category, region, requirements,
			budget_min, budget_max, budget_currency,
			schedule_start, schedule_end, deadline, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	var budgetMin, budgetMax *string
	budgetCurrency := values.KRW
	if p.BudgetMin != nil && p.BudgetMax != nil {
		minStr := p.BudgetMin.Amount().String()
		maxStr := p.BudgetMax.Amount().String()
		budgetMin, budgetMax = &minStr, &maxStr
		budgetCurrency = p.BudgetMin.Currency()
	}

	_, err := r.db.Exec(ctx, query,
		p.ID, p.OwnerID, p.Title, p.Category, p.Region, p.Requirements,
		budgetMin, budgetMax, budgetCurrency,
		p.ScheduleStart, p.ScheduleEnd, p.Deadline, p.Status.String(), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return translateError(err, "project")
	}

	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	query := `SELECT` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(r.db.QueryRow(ctx, query, id))
}

func (r *projectRepository) ListOpen(ctx context.Context, now time.Time) ([]*project.Project, error) {
	query := `
		SELECT` + projectColumns + `
		FROM projects
		WHERE status = 'open' AND deadline > $1
		ORDER BY created_at DESC
	`
	return r.queryProjects(ctx, query, now)
}

func (r *projectRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*project.Project, error) {
	query := `
		SELECT` + projectColumns + `
		FROM projects
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	return r.queryProjects(ctx, query, ownerID)
}

func (r *projectRepository) queryProjects(ctx context.Context, query string, args ...interface{}) ([]*project.Project, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "project")
	}
	defer rows.Close()

	var projects []*project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "project")
	}

	return projects, nil
}

func scanProject(row pgx.Row) (*project.Project, error) {
	var p project.Project
	var statusStr, budgetCurrency string
	var budgetMin, budgetMax *string

	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Category, &p.Region, &p.Requirements,
		&budgetMin, &budgetMax, &budgetCurrency,
		&p.ScheduleStart, &p.ScheduleEnd, &p.Deadline, &statusStr, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err, "project")
	}

	status, err := project.ParseStatus(statusStr)
	if err != nil {
		return nil, translateError(err, "project")
	}
	p.Status = status

	if budgetMin != nil && budgetMax != nil {
		min, err := values.NewMoneyFromString(*budgetMin, budgetCurrency)
		if err != nil {
			return nil, translateError(err, "project")
		}
		max, err := values.NewMoneyFromString(*budgetMax, budgetCurrency)
		if err != nil {
			return nil, translateError(err, "project")
		}
		p.BudgetMin, p.BudgetMax = &min, &max
	}

	return &p, nil
}
