package buildstatus

import (
	"context"
	"sort"
	"sync"
	"time"

	"gitscope/internal/logging"
	"gitscope/internal/notify"
)

// Fetcher retrieves builds from a CI server. *Client implements it.
type Fetcher interface {
	LatestBuilds(ctx context.Context, buildType, branch string) ([]Build, error)
}

// Service polls tracked build configurations in the background and caches
// the latest results. Observers are notified whenever a poll changes the
// cached state.
type Service struct {
	fetcher  Fetcher
	cache    *cache
	interval time.Duration
	log      logging.Logger

	observers *notify.Registry

	mu      sync.Mutex
	tracked map[string]trackedTarget

	cancel context.CancelFunc
	done   chan struct{}
}

type trackedTarget struct {
	buildType string
	branch    string
}

func NewService(fetcher Fetcher, interval time.Duration, logger logging.Logger) *Service {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{
		fetcher:   fetcher,
		cache:     newCache(interval),
		interval:  interval,
		log:       logger,
		observers: notify.NewRegistry(),
		tracked:   make(map[string]trackedTarget),
	}
}

// Track adds a build configuration to the polling set.
func (s *Service) Track(buildType, branch string) {
	if buildType == "" {
		return
	}
	s.mu.Lock()
	s.tracked[cacheKey(buildType, branch)] = trackedTarget{buildType: buildType, branch: branch}
	s.mu.Unlock()
}

// Untrack removes a build configuration and drops its cached builds.
func (s *Service) Untrack(buildType, branch string) {
	key := cacheKey(buildType, branch)
	s.mu.Lock()
	delete(s.tracked, key)
	s.mu.Unlock()
	s.cache.invalidate(key)
}

// Latest returns the cached builds for a configuration, fetching on a cache
// miss. The result is newest first.
func (s *Service) Latest(ctx context.Context, buildType, branch string) ([]Build, error) {
	key := cacheKey(buildType, branch)
	if builds, ok := s.cache.get(key); ok {
		return builds, nil
	}
	builds, err := s.fetcher.LatestBuilds(ctx, buildType, branch)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(builds, func(i, j int) bool { return builds[i].ID > builds[j].ID })
	s.cache.put(key, builds)
	return builds, nil
}

// Subscribe registers fn to run after each polling pass that refreshed at
// least one target.
func (s *Service) Subscribe(fn func()) string {
	return s.observers.Subscribe(fn)
}

func (s *Service) Unsubscribe(handle string) {
	s.observers.Unsubscribe(handle)
}

// Start launches the background polling loop. Stop cancels it.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.loop(ctx)
}

func (s *Service) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Service) loop(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pollOnce(ctx)
		}
	}
}

func (s *Service) pollOnce(ctx context.Context) {
	s.mu.Lock()
	targets := make([]trackedTarget, 0, len(s.tracked))
	for _, target := range s.tracked {
		targets = append(targets, target)
	}
	s.mu.Unlock()

	refreshed := false
	for _, target := range targets {
		builds, err := s.fetcher.LatestBuilds(ctx, target.buildType, target.branch)
		if err != nil {
			s.log.Warn("build status poll failed", "buildType", target.buildType, "error", err)
			continue
		}
		sort.SliceStable(builds, func(i, j int) bool { return builds[i].ID > builds[j].ID })
		s.cache.put(cacheKey(target.buildType, target.branch), builds)
		refreshed = true
	}
	if refreshed {
		s.observers.Notify()
	}
}
