package mysql

import (
	"context"

	riskDomain "p2plending-backend/internal/domain/riskprofile"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RiskProfileRepository struct{ db *gorm.DB }

func NewRiskProfileRepository(db *gorm.DB) *RiskProfileRepository {
	return &RiskProfileRepository{db: db}
}

func (r *RiskProfileRepository) GetByUserID(ctx context.Context, userID string) (*riskDomain.Profile, error) {
	var out riskDomain.Profile
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out)
	return &out, res.Error
}

func (r *RiskProfileRepository) Upsert(ctx context.Context, p *riskDomain.Profile) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"credit_score", "risk_level", "income_stability",
			"debt_to_income_ratio", "payment_history_score",
			"factors_json", "updated_at",
		}),
	}).Create(p).Error
}
