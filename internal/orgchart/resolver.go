package orgchart

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultMaxDepth membatasi berapa tingkat manager yang ikut dalam approval chain.
const DefaultMaxDepth = 2

//go:generate mockgen -source=resolver.go -destination=mock/resolver_mock.go -package=mock

// Resolver menghasilkan daftar approver terurut untuk seorang employee:
// manager langsung, lalu manager di atasnya, ditutup admin company.
type Resolver interface {
	ResolveChain(ctx context.Context, companyID, employeeID string) ([]string, error)
}

type resolver struct {
	db       *gorm.DB
	maxDepth int
	logger   *zap.Logger
}

func NewResolver(db *gorm.DB, logger ...*zap.Logger) Resolver {
	l := zap.L().Named("orgchart.resolver")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("orgchart.resolver")
	}
	return &resolver{db: db, maxDepth: DefaultMaxDepth, logger: l}
}

func (r *resolver) ResolveChain(ctx context.Context, companyID, employeeID string) ([]string, error) {
	ladder, err := r.managerLadder(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}

	admins, err := r.companyAdmins(ctx, companyID)
	if err != nil {
		return nil, err
	}

	chain := BuildChain(ladder, admins, employeeID)

	r.logger.Debug("approval chain resolved",
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID),
		zap.Int("levels", len(chain)),
	)

	return chain, nil
}

func (r *resolver) managerLadder(ctx context.Context, companyID, employeeID string) ([]string, error) {
	ladder := make([]string, 0, r.maxDepth)
	current := employeeID

	for i := 0; i < r.maxDepth; i++ {
		var managerID sql.NullString
		err := r.db.WithContext(ctx).
			Table("employees").
			Select("manager_id").
			Where("id = ?", current).
			Where("company_id = ?", companyID).
			Where("deleted_at IS NULL").
			Scan(&managerID).Error
		if err != nil {
			return nil, err
		}
		if !managerID.Valid || managerID.String == "" {
			break
		}
		ladder = append(ladder, managerID.String)
		current = managerID.String
	}

	return ladder, nil
}

func (r *resolver) companyAdmins(ctx context.Context, companyID string) ([]string, error) {
	var admins []string
	err := r.db.WithContext(ctx).
		Table("employee_roles").
		Select("employee_roles.employee_id").
		Joins("JOIN roles ON roles.id = employee_roles.role_id").
		Where("roles.company_id = ?", companyID).
		Where("UPPER(roles.name) = ?", "ADMIN").
		Order("employee_roles.employee_id ASC").
		Scan(&admins).Error
	return admins, err
}

// BuildChain menggabungkan manager ladder dan daftar admin menjadi satu chain
// terurut tanpa duplikat. Requester tidak pernah jadi approver dirinya sendiri.
func BuildChain(ladder, admins []string, requester string) []string {
	seen := map[string]bool{requester: true}
	chain := make([]string, 0, len(ladder)+len(admins))

	for _, id := range ladder {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		chain = append(chain, id)
	}

	for _, id := range admins {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		chain = append(chain, id)
	}

	return chain
}
