package admission

import (
	"log/slog"
	"time"

	"atlas-hq/gatewarden/pkg/admission/capacity"
)

// Config configures a Limiter.
//
// Only Capacity is required; zero values for the rest fall back to the
// documented defaults.
type Config struct {
	// Capacity resolves tenant, user, and path capacities. Required.
	Capacity capacity.Provider

	// Algorithm selects the bucket variant backing every level.
	// Default: AlgorithmTokenBucket.
	Algorithm Algorithm

	// Window is the window duration for the sliding log and fixed window
	// variants. Ignored by the token bucket. Default: 1s.
	Window time.Duration

	// AnonymousCapacity is the base capacity for identity-less callers,
	// strictly below any authenticated tier. Default: 10.
	AnonymousCapacity int64

	// WriteCost and ReadCost weigh methods at every level.
	// Defaults: 5 and 1.
	WriteCost int64
	ReadCost  int64

	// Metrics, when set, records check outcomes. Optional.
	Metrics *Metrics

	// Logger, when set, logs denials at debug level. Optional.
	Logger *slog.Logger
}

// Limiter is the admission façade: it composes hierarchy levels, resolves
// their buckets through the registry, and evaluates them in priority order.
//
// Create one Limiter per process (or per isolated limiting domain) at startup
// and share it by reference; its registry is the process-wide state.
type Limiter struct {
	registry  *Registry
	composer  *Composer
	algorithm Algorithm
	window    time.Duration
	metrics   *Metrics
	logger    *slog.Logger
}

// New creates a Limiter from cfg.
func New(cfg Config) *Limiter {
	if cfg.Algorithm == "" {
		cfg.Algorithm = AlgorithmTokenBucket
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Second
	}
	if cfg.AnonymousCapacity <= 0 {
		cfg.AnonymousCapacity = 10
	}
	if cfg.WriteCost <= 0 {
		cfg.WriteCost = 5
	}
	if cfg.ReadCost <= 0 {
		cfg.ReadCost = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if !cfg.Algorithm.Valid() {
		panic("admission: unknown algorithm " + string(cfg.Algorithm))
	}

	return &Limiter{
		registry:  NewRegistry(),
		composer:  NewComposer(cfg.Capacity, cfg.AnonymousCapacity, cfg.WriteCost, cfg.ReadCost),
		algorithm: cfg.Algorithm,
		window:    cfg.Window,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger.With("component", "admission"),
	}
}

// Check evaluates req against every hierarchy level in order and returns the
// resulting decision.
//
// Levels are fail-closed: the first denial stops evaluation, and tokens
// already consumed at higher levels stay consumed. A request denied at the
// identity level has still charged the tenant bucket — a denied request cost
// resources to process, so charging the broader quota is the accepted
// trade-off rather than rolling it back.
func (l *Limiter) Check(req Request) (*Decision, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		l.metrics.ObserveCheckDuration(time.Since(start))
	}()

	eventTime := req.Time()

	var decision *Decision
	for _, level := range l.composer.Levels(req) {
		bucket := l.registry.GetOrCreate(level.Key, eventTime, func() Bucket {
			b, err := newBucket(l.algorithm, level.Capacity, level.RefillRate, l.window, eventTime)
			if err != nil {
				// Algorithm is validated at construction; an unknown
				// variant here is a programming error.
				panic(err)
			}
			return b
		})

		allowed := bucket.Admit(level.Cost, eventTime)
		decision = &Decision{
			Allowed:   allowed,
			Level:     level.Name,
			Key:       level.Key,
			Cost:      level.Cost,
			Remaining: bucket.Remaining(),
		}

		if !allowed {
			l.metrics.RecordCheck(false)
			l.metrics.RecordDenial(level.Name)
			l.metrics.SetTrackedKeys(l.registry.Len())
			l.logger.Debug("request denied",
				"level", level.Name,
				"key", level.Key,
				"cost", level.Cost,
			)
			return decision, nil
		}
	}

	l.metrics.RecordCheck(true)
	l.metrics.SetTrackedKeys(l.registry.Len())
	return decision, nil
}

// Allow is the boolean form of Check.
func (l *Limiter) Allow(req Request) (bool, error) {
	decision, err := l.Check(req)
	if err != nil {
		return false, err
	}
	return decision.Allowed, nil
}

// Registry exposes the limiter's bucket registry for deployment-level
// concerns such as idle-key sweeping.
func (l *Limiter) Registry() *Registry {
	return l.registry
}
