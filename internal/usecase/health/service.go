package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure. The service still answers, with
	// empty or uncached results.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckAbsent indicates a data source that was not loaded.
	CheckAbsent CheckResult = "absent"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status   Status
	Checks   map[string]CheckResult
	Products int
	Snapshot string
}

// Service coordinates health checks.
type Service struct {
	catalog CatalogSource
	cache   CachePinger
}

// New creates a Service. cache can be nil when caching is disabled.
func New(catalog CatalogSource, cache CachePinger) *Service {
	return &Service{catalog: catalog, cache: cache}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	snap := s.catalog.Load()
	if snap.IsAbsent() {
		checks["catalog"] = CheckAbsent
	} else {
		checks["catalog"] = CheckOK
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = CheckError
		} else {
			checks["cache"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v != CheckOK {
			status = Degraded
			break
		}
	}

	return Report{
		Status:   status,
		Checks:   checks,
		Products: snap.Len(),
		Snapshot: snap.Version(),
	}
}
