package postgres

// Repositories bundles the PostgreSQL repositories into the combined
// database.Store surface.
type Repositories struct {
	*BookRepository
	*AssetRepository
	*PlanRepository
}

// NewRepositories creates all repositories over one pool.
func NewRepositories(pool *Pool) *Repositories {
	return &Repositories{
		BookRepository:  NewBookRepository(pool),
		AssetRepository: NewAssetRepository(pool),
		PlanRepository:  NewPlanRepository(pool),
	}
}
