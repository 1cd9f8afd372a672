package postgres

import (
	"context"

	"github.com/user/secnews-crawler/internal/entity"
)

// CompanyRepoImpl provides a concrete implementation for the CompanyRepository interface using PostgreSQL.
type CompanyRepoImpl struct {
	db DBTX
}

func NewCompanyRepo(db DBTX) *CompanyRepoImpl {
	return &CompanyRepoImpl{db: db}
}

// ListActive returns active companies in name order.
func (r *CompanyRepoImpl) ListActive(ctx context.Context) ([]entity.Company, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name
		FROM companies
		WHERE is_active
		ORDER BY name ASC;
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []entity.Company
	for rows.Next() {
		var c entity.Company
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}
