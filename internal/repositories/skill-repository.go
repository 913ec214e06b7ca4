package repositories

import (
	"context"
	"errors"
	"time"

	"lab-system/internal/dto"
	"lab-system/internal/entities"
	"lab-system/internal/matching"
	apperrors "lab-system/pkg/errors"
	"lab-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var skillFilterColumns = map[string]string{
	"category":   "category",
	"name":       "name",
	"created_at": "created_at",
}

type SkillRepositoryInterface interface {
	GetSkills(ctx context.Context, filter types.Filter) ([]entities.Skill, uint64, error)
	FindSkill(ctx context.Context, id uint64) (*entities.Skill, error)
	CreateSkill(ctx context.Context, payload dto.CreateSkillDTO) (uint64, error)
	UpdateSkill(ctx context.Context, id uint64, payload dto.UpdateSkillDTO) error
	DeleteSkill(ctx context.Context, id uint64) error
	GetTechnicianSkills(ctx context.Context, userID uint64) ([]entities.TechnicianSkill, error)
	GetSkillsForTechnicians(ctx context.Context, userIDs []uint64) (map[uint64][]entities.TechnicianSkill, error)
	UpsertTechnicianSkill(ctx context.Context, record entities.TechnicianSkill) error
	DeleteTechnicianSkill(ctx context.Context, userID, skillID uint64) error
}

type SkillRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewSkillRepository(storage *pgxpool.Pool, logger *zap.Logger) SkillRepositoryInterface {
	return &SkillRepository{storage: storage, logger: logger}
}

func (r *SkillRepository) GetSkills(ctx context.Context, filter types.Filter) ([]entities.Skill, uint64, error) {
	countQuery, countArgs, err := countWithFilters("skills", filter, skillFilterColumns).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	builder := psql.Select("id, name, category, created_at, updated_at").From("skills")
	if filter.Search != "" {
		builder = builder.Where(sq.ILike{"name": "%" + filter.Search + "%"})
	}
	builder = applyListParams(builder, filter, skillFilterColumns)
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("name ASC")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []entities.Skill
	for rows.Next() {
		var s entities.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

func (r *SkillRepository) FindSkill(ctx context.Context, id uint64) (*entities.Skill, error) {
	var s entities.Skill
	err := r.storage.QueryRow(ctx,
		`SELECT id, name, category, created_at, updated_at FROM skills WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.Category, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SkillRepository) CreateSkill(ctx context.Context, payload dto.CreateSkillDTO) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx,
		`INSERT INTO skills (name, category) VALUES ($1, $2) RETURNING id`,
		payload.Name, payload.Category).Scan(&id)
	if err != nil {
		r.logger.Error("failed to insert skill", zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (r *SkillRepository) UpdateSkill(ctx context.Context, id uint64, payload dto.UpdateSkillDTO) error {
	builder := psql.Update("skills").Set("updated_at", sq.Expr("NOW()")).Where(sq.Eq{"id": id})
	if payload.Name.Valid {
		builder = builder.Set("name", payload.Name.String)
	}
	if payload.Category.Valid {
		builder = builder.Set("category", payload.Category.String)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *SkillRepository) DeleteSkill(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanTechnicianSkill(rows pgx.Rows) (entities.TechnicianSkill, error) {
	var ts entities.TechnicianSkill
	var proficiency string
	var expiry *time.Time
	if err := rows.Scan(&ts.UserID, &ts.SkillID, &proficiency, &ts.IsCertified, &expiry, &ts.CreatedAt, &ts.UpdatedAt); err != nil {
		return ts, err
	}
	p, ok := matching.ParseProficiency(proficiency)
	if !ok {
		return ts, errors.New("corrupt proficiency value: " + proficiency)
	}
	ts.Proficiency = p
	ts.CertificationExpiry = expiry
	return ts, nil
}

func (r *SkillRepository) GetTechnicianSkills(ctx context.Context, userID uint64) ([]entities.TechnicianSkill, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT user_id, skill_id, proficiency, is_certified, certification_expiry, created_at, updated_at
		FROM technician_skills
		WHERE user_id = $1
		ORDER BY skill_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []entities.TechnicianSkill
	for rows.Next() {
		ts, err := scanTechnicianSkill(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, ts)
	}
	return list, rows.Err()
}

// GetSkillsForTechnicians loads skill records for a set of users in one
// query, keyed by user. The matcher scores candidates from this map.
func (r *SkillRepository) GetSkillsForTechnicians(ctx context.Context, userIDs []uint64) (map[uint64][]entities.TechnicianSkill, error) {
	out := make(map[uint64][]entities.TechnicianSkill, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	query, args, err := psql.Select("user_id, skill_id, proficiency, is_certified, certification_expiry, created_at, updated_at").
		From("technician_skills").
		Where(sq.Eq{"user_id": userIDs}).
		OrderBy("user_id, skill_id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		ts, err := scanTechnicianSkill(rows)
		if err != nil {
			return nil, err
		}
		out[ts.UserID] = append(out[ts.UserID], ts)
	}
	return out, rows.Err()
}

func (r *SkillRepository) UpsertTechnicianSkill(ctx context.Context, record entities.TechnicianSkill) error {
	_, err := r.storage.Exec(ctx, `
		INSERT INTO technician_skills (user_id, skill_id, proficiency, is_certified, certification_expiry)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, skill_id) DO UPDATE SET
			proficiency = EXCLUDED.proficiency,
			is_certified = EXCLUDED.is_certified,
			certification_expiry = EXCLUDED.certification_expiry,
			updated_at = NOW()`,
		record.UserID, record.SkillID, record.Proficiency.String(),
		record.IsCertified, record.CertificationExpiry)
	if err != nil {
		r.logger.Error("failed to upsert technician skill", zap.Error(err))
	}
	return err
}

func (r *SkillRepository) DeleteTechnicianSkill(ctx context.Context, userID, skillID uint64) error {
	tag, err := r.storage.Exec(ctx,
		`DELETE FROM technician_skills WHERE user_id = $1 AND skill_id = $2`, userID, skillID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
