package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/proposal"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/database"
)

type proposalRow struct {
	ID                       string
	Kind                     string
	Status                   string
	SubmitterEmployeeID      string
	SubmitterNIK             string
	SubmitterName            string
	SubmitterSection         string
	SubmitterRole            string
	ManagerID                *string
	AdminNote                *string
	ApprovedAt               *time.Time
	DecidedBy                *string
	StatusBeforeCancellation *string
	Payload                  []byte
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

var proposalFields = fieldMap[proposalRow]{
	col("id", func(r *proposalRow) any { return &r.ID }),
	col("kind", func(r *proposalRow) any { return &r.Kind }),
	col("status", func(r *proposalRow) any { return &r.Status }),
	col("submitter_employee_id", func(r *proposalRow) any { return &r.SubmitterEmployeeID }),
	col("submitter_nik", func(r *proposalRow) any { return &r.SubmitterNIK }),
	col("submitter_name", func(r *proposalRow) any { return &r.SubmitterName }),
	col("submitter_section", func(r *proposalRow) any { return &r.SubmitterSection }),
	col("submitter_role", func(r *proposalRow) any { return &r.SubmitterRole }),
	col("manager_id", func(r *proposalRow) any { return &r.ManagerID }),
	col("admin_note", func(r *proposalRow) any { return &r.AdminNote }),
	col("approved_at", func(r *proposalRow) any { return &r.ApprovedAt }),
	col("decided_by", func(r *proposalRow) any { return &r.DecidedBy }),
	col("status_before_cancellation", func(r *proposalRow) any { return &r.StatusBeforeCancellation }),
	col("payload", func(r *proposalRow) any { return &r.Payload }),
	col("created_at", func(r *proposalRow) any { return &r.CreatedAt }),
	col("updated_at", func(r *proposalRow) any { return &r.UpdatedAt }),
}

var proposalInsertFields = proposalFields.without("created_at", "updated_at")

func newProposalRow(p proposal.Proposal) (proposalRow, error) {
	payload, err := json.Marshal(p.Payload)
	if err != nil {
		return proposalRow{}, fmt.Errorf("encode %s payload: %w", p.Kind, err)
	}
	row := proposalRow{
		ID:                  p.ID,
		Kind:                string(p.Kind),
		Status:              string(p.Status),
		SubmitterEmployeeID: p.Submitter.EmployeeID,
		SubmitterNIK:        p.Submitter.NIK,
		SubmitterName:       p.Submitter.Name,
		SubmitterSection:    p.Submitter.Section,
		SubmitterRole:       string(p.Submitter.Role),
		ManagerID:           p.ManagerID,
		AdminNote:           p.AdminNote,
		ApprovedAt:          p.ApprovedAt,
		DecidedBy:           p.DecidedBy,
		Payload:             payload,
	}
	if p.StatusBeforeCancellation != nil {
		s := string(*p.StatusBeforeCancellation)
		row.StatusBeforeCancellation = &s
	}
	return row, nil
}

func (r proposalRow) toDomain() (proposal.Proposal, error) {
	kind := proposal.Kind(r.Kind)
	payload, err := proposal.DecodePayload(kind, r.Payload)
	if err != nil {
		return proposal.Proposal{}, fmt.Errorf("decode payload of proposal %s: %w", r.ID, err)
	}
	p := proposal.Proposal{
		ID:     r.ID,
		Kind:   kind,
		Status: proposal.Status(r.Status),
		Submitter: proposal.Submitter{
			EmployeeID: r.SubmitterEmployeeID,
			NIK:        r.SubmitterNIK,
			Name:       r.SubmitterName,
			Section:    r.SubmitterSection,
			Role:       user.Role(r.SubmitterRole),
		},
		ManagerID:  r.ManagerID,
		AdminNote:  r.AdminNote,
		ApprovedAt: r.ApprovedAt,
		DecidedBy:  r.DecidedBy,
		Payload:    payload,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.StatusBeforeCancellation != nil {
		s := proposal.Status(*r.StatusBeforeCancellation)
		p.StatusBeforeCancellation = &s
	}
	return p, nil
}

func statusStrings(statuses []proposal.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

type proposalRepositoryImpl struct {
	db *database.DB
}

func NewProposalRepository(db *database.DB) proposal.ProposalRepository {
	return &proposalRepositoryImpl{db: db}
}

// Create implements proposal.ProposalRepository.
func (r *proposalRepositoryImpl) Create(ctx context.Context, p proposal.Proposal) (proposal.Proposal, error) {
	q := GetQuerier(ctx, r.db)

	row, err := newProposalRow(p)
	if err != nil {
		return proposal.Proposal{}, err
	}
	query := proposalInsertFields.insert("proposals", "RETURNING "+proposalFields.columns(""))
	saved, err := scanOne(q.QueryRow(ctx, query, proposalInsertFields.values(&row)...), proposalFields)
	if err != nil {
		return proposal.Proposal{}, translateError(err, "proposals", nil)
	}
	return saved.toDomain()
}

// GetByID implements proposal.ProposalRepository.
func (r *proposalRepositoryImpl) GetByID(ctx context.Context, id string) (proposal.Proposal, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM proposals WHERE id = $1`, proposalFields.columns(""))
	row, err := scanOne(q.QueryRow(ctx, query, id), proposalFields)
	if err != nil {
		return proposal.Proposal{}, translateError(err, "proposals", proposal.ErrProposalNotFound)
	}
	return row.toDomain()
}

// TransitionStatus implements proposal.ProposalRepository.
func (r *proposalRepositoryImpl) TransitionStatus(ctx context.Context, id string, from []proposal.Status, change proposal.StatusChange) (proposal.Proposal, error) {
	q := GetQuerier(ctx, r.db)

	var before *string
	if change.StatusBeforeCancellation != nil {
		s := string(*change.StatusBeforeCancellation)
		before = &s
	}

	// COALESCE keeps decision columns untouched when the change carries none.
	query := fmt.Sprintf(`
		UPDATE proposals SET
			status = $3,
			admin_note = COALESCE($4, admin_note),
			decided_by = COALESCE($5, decided_by),
			approved_at = COALESCE($6, approved_at),
			status_before_cancellation = CASE WHEN $8 THEN NULL ELSE COALESCE($7, status_before_cancellation) END,
			updated_at = $9
		WHERE id = $1 AND status = ANY($2)
		RETURNING %s`, proposalFields.columns(""))

	row, err := scanOne(q.QueryRow(ctx, query,
		id, statusStrings(from), string(change.To),
		change.AdminNote, change.DecidedBy, change.ApprovedAt,
		before, change.ClearStatusBefore, change.At,
	), proposalFields)
	if err != nil {
		return proposal.Proposal{}, translateError(err, "proposals", proposal.ErrConcurrentUpdate)
	}
	return row.toDomain()
}

// UpdatePayload implements proposal.ProposalRepository.
func (r *proposalRepositoryImpl) UpdatePayload(ctx context.Context, id string, payload proposal.Payload, expectedUpdatedAt, at time.Time) (proposal.Proposal, error) {
	q := GetQuerier(ctx, r.db)

	raw, err := json.Marshal(payload)
	if err != nil {
		return proposal.Proposal{}, fmt.Errorf("encode %s payload: %w", payload.Kind(), err)
	}

	query := fmt.Sprintf(`
		UPDATE proposals SET payload = $2, updated_at = $3
		WHERE id = $1 AND status = ANY($4) AND updated_at = $5
		RETURNING %s`, proposalFields.columns(""))

	row, err := scanOne(q.QueryRow(ctx, query,
		id, raw, at, statusStrings(proposal.AmendableFrom), expectedUpdatedAt,
	), proposalFields)
	if err != nil {
		return proposal.Proposal{}, translateError(err, "proposals", proposal.ErrConcurrentUpdate)
	}
	return row.toDomain()
}

// List implements proposal.ProposalRepository.
func (r *proposalRepositoryImpl) List(ctx context.Context, scope proposal.Scope, filter proposal.ListFilter) ([]proposal.Proposal, int64, error) {
	q := GetQuerier(ctx, r.db)

	var where []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if scope.SubmitterNIK != nil {
		add("submitter_nik = $%d", *scope.SubmitterNIK)
	}
	if scope.ManagerID != nil {
		add("manager_id = $%d", *scope.ManagerID)
	}
	if filter.Kind != nil && *filter.Kind != "" {
		add("kind = $%d", *filter.Kind)
	}
	if filter.Status != nil && *filter.Status != "" {
		add("status = $%d", *filter.Status)
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM proposals "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, translateError(err, "proposals", nil)
	}

	order := "ASC"
	if filter.SortOrder == "desc" {
		order = "DESC"
	}
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`SELECT %s FROM proposals %s ORDER BY created_at %s, id %s LIMIT $%d OFFSET $%d`,
		proposalFields.columns(""), whereClause, order, order, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, translateError(err, "proposals", nil)
	}
	list, err := scanAll(rows, proposalFields)
	if err != nil {
		return nil, 0, err
	}

	out := make([]proposal.Proposal, 0, len(list))
	for _, row := range list {
		p, err := row.toDomain()
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, nil
}
