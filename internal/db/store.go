package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eimlabs/bidpilot/internal/models"
)

// ErrNotFound is returned when a row does not exist or belongs to a
// different user.
var ErrNotFound = errors.New("not found")

// Store wraps the connection pool with the queries the API needs. Every
// query is scoped to a user id; there is no cross-user access path.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const userOpportunityColumns = `
	id, user_id, opportunity_id,
	COALESCE(opportunity_data::text, ''),
	COALESCE(ai_analysis::text, ''),
	relevance_score, is_saved, is_applied, source_platform, created_at`

func scanUserOpportunity(row pgx.Row) (models.UserOpportunity, error) {
	var o models.UserOpportunity
	err := row.Scan(&o.ID, &o.UserID, &o.OpportunityID, &o.OpportunityRaw, &o.AIAnalysisRaw,
		&o.RelevanceScore, &o.IsSaved, &o.IsApplied, &o.SourcePlatform, &o.CreatedAt)
	return o, err
}

// ListUserOpportunities returns the user's opportunities, newest first.
func (s *Store) ListUserOpportunities(ctx context.Context, userID uuid.UUID) ([]models.UserOpportunity, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+userOpportunityColumns+`
		FROM user_opportunities
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing opportunities: %w", err)
	}
	defer rows.Close()

	var out []models.UserOpportunity
	for rows.Next() {
		o, err := scanUserOpportunity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning opportunity: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// GetUserOpportunity fetches one opportunity row by its opportunity id.
func (s *Store) GetUserOpportunity(ctx context.Context, userID uuid.UUID, opportunityID string) (models.UserOpportunity, error) {
	o, err := scanUserOpportunity(s.pool.QueryRow(ctx, `
		SELECT `+userOpportunityColumns+`
		FROM user_opportunities
		WHERE user_id = $1 AND opportunity_id = $2`, userID, opportunityID))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.UserOpportunity{}, ErrNotFound
	}
	if err != nil {
		return models.UserOpportunity{}, fmt.Errorf("fetching opportunity: %w", err)
	}
	return o, nil
}

// SetSaved flips the saved flag on an opportunity.
func (s *Store) SetSaved(ctx context.Context, userID uuid.UUID, opportunityID string, saved bool) error {
	return s.setFlag(ctx, "is_saved", userID, opportunityID, saved)
}

// SetApplied flips the applied flag on an opportunity.
func (s *Store) SetApplied(ctx context.Context, userID uuid.UUID, opportunityID string, applied bool) error {
	return s.setFlag(ctx, "is_applied", userID, opportunityID, applied)
}

func (s *Store) setFlag(ctx context.Context, column string, userID uuid.UUID, opportunityID string, value bool) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE user_opportunities SET "+column+" = $3 WHERE user_id = $1 AND opportunity_id = $2",
		userID, opportunityID, value)
	if err != nil {
		return fmt.Errorf("updating %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const proposalColumns = `
	id, user_id, opportunity_id, title, content,
	COALESCE(compliance_analysis::text, ''),
	status, deadline, submission_date, created_at, updated_at`

func scanProposal(row pgx.Row) (models.Proposal, error) {
	var p models.Proposal
	err := row.Scan(&p.ID, &p.UserID, &p.OpportunityID, &p.Title, &p.Content, &p.ComplianceRaw,
		&p.Status, &p.Deadline, &p.SubmissionDate, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// ListProposals returns the user's proposals, most recently updated first.
func (s *Store) ListProposals(ctx context.Context, userID uuid.UUID) ([]models.Proposal, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+proposalColumns+`
		FROM proposals
		WHERE user_id = $1
		ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing proposals: %w", err)
	}
	defer rows.Close()

	var out []models.Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning proposal: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetProposal fetches a single proposal owned by the user.
func (s *Store) GetProposal(ctx context.Context, userID, proposalID uuid.UUID) (models.Proposal, error) {
	p, err := scanProposal(s.pool.QueryRow(ctx, `
		SELECT `+proposalColumns+`
		FROM proposals
		WHERE user_id = $1 AND id = $2`, userID, proposalID))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Proposal{}, ErrNotFound
	}
	if err != nil {
		return models.Proposal{}, fmt.Errorf("fetching proposal: %w", err)
	}
	return p, nil
}

// UpdateProposalStatus sets a proposal's status. Submitting stamps the
// submission date; moving back to draft clears it.
func (s *Store) UpdateProposalStatus(ctx context.Context, userID, proposalID uuid.UUID, status string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE proposals
		SET status = $3,
		    submission_date = CASE
		        WHEN LOWER($3) IN ('submitted', 'in review') THEN COALESCE(submission_date, NOW())
		        WHEN LOWER($3) IN ('draft', 'in progress') THEN NULL
		        ELSE submission_date
		    END,
		    updated_at = NOW()
		WHERE user_id = $1 AND id = $2`, userID, proposalID, status)
	if err != nil {
		return fmt.Errorf("updating proposal status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProposal removes a proposal owned by the user.
func (s *Store) DeleteProposal(ctx context.Context, userID, proposalID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM proposals WHERE user_id = $1 AND id = $2", userID, proposalID)
	if err != nil {
		return fmt.Errorf("deleting proposal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkOverdueProposals flips drafts whose deadline has passed to the
// overdue status. Returns the number of rows touched.
func (s *Store) MarkOverdueProposals(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE proposals
		SET status = 'overdue', updated_at = NOW()
		WHERE LOWER(status) IN ('draft', 'in progress')
		  AND deadline IS NOT NULL
		  AND deadline < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("marking overdue proposals: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DashboardCounts are the headline numbers for the dashboard view.
type DashboardCounts struct {
	TotalOpportunities int `json:"total_opportunities"`
	SavedCount         int `json:"saved_count"`
	AppliedCount       int `json:"applied_count"`
	ProposalCount      int `json:"proposal_count"`
	DraftCount         int `json:"draft_count"`
	SubmittedCount     int `json:"submitted_count"`
	WonCount           int `json:"won_count"`
}

// DashboardStats gathers the counts in a single round trip per table.
func (s *Store) DashboardStats(ctx context.Context, userID uuid.UUID) (DashboardCounts, error) {
	var c DashboardCounts
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_saved),
		       COUNT(*) FILTER (WHERE is_applied)
		FROM user_opportunities
		WHERE user_id = $1`, userID).
		Scan(&c.TotalOpportunities, &c.SavedCount, &c.AppliedCount)
	if err != nil {
		return c, fmt.Errorf("counting opportunities: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE LOWER(status) IN ('draft', 'in progress')),
		       COUNT(*) FILTER (WHERE LOWER(status) IN ('submitted', 'in review')),
		       COUNT(*) FILTER (WHERE LOWER(status) = 'won')
		FROM proposals
		WHERE user_id = $1`, userID).
		Scan(&c.ProposalCount, &c.DraftCount, &c.SubmittedCount, &c.WonCount)
	if err != nil {
		return c, fmt.Errorf("counting proposals: %w", err)
	}
	return c, nil
}

// RecentOpportunities returns the newest opportunity rows for the
// dashboard preview.
func (s *Store) RecentOpportunities(ctx context.Context, userID uuid.UUID, limit int) ([]models.UserOpportunity, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+userOpportunityColumns+`
		FROM user_opportunities
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent opportunities: %w", err)
	}
	defer rows.Close()

	var out []models.UserOpportunity
	for rows.Next() {
		o, err := scanUserOpportunity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning opportunity: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// RecentProposals returns the most recently updated proposals for the
// dashboard preview.
func (s *Store) RecentProposals(ctx context.Context, userID uuid.UUID, limit int) ([]models.Proposal, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+proposalColumns+`
		FROM proposals
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent proposals: %w", err)
	}
	defer rows.Close()

	var out []models.Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning proposal: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// OpportunityPayloads returns the raw payload per opportunity id the
// user has rows for. Key presence marks the opportunity as existing;
// proposals pointing at absent ids are flagged as orphaned.
func (s *Store) OpportunityPayloads(ctx context.Context, userID uuid.UUID) (map[string]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT opportunity_id, COALESCE(opportunity_data::text, '')
		FROM user_opportunities
		WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing opportunity payloads: %w", err)
	}
	defer rows.Close()

	payloads := make(map[string]string)
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("scanning opportunity payload: %w", err)
		}
		payloads[id] = payload
	}
	return payloads, rows.Err()
}

// CreateUser inserts a new user and returns the stored row.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, password_hash, created_at`, email, passwordHash).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return models.User{}, fmt.Errorf("creating user: %w", err)
	}
	return u, nil
}

// GetUserByEmail looks up a user for login.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("fetching user: %w", err)
	}
	return u, nil
}
