package pgsql

import (
	portsrepo "github.com/complianceos/cos_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TenantRepo:     newPgxTenantRepository(dbPool),
		UserRepo:       newPgxUserRepository(dbPool),
		WorkItemRepo:   newPgxWorkItemRepository(dbPool),
		AssignmentRepo: newPgxAssignmentRepository(dbPool),
		EngagementRepo: newPgxEngagementRepository(dbPool),
		GapRepo:        newPgxGapRepository(dbPool),
	}
}
