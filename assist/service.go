package assist

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Snapshot is every derived view for one selection, computed from a single record set version.
type Snapshot struct {
	Version            uint64
	Records            int
	SourceCourses      []string
	TargetInstitutions []string
	BySource           []Row
	ByTarget           []Row
	// Err is the most recent load failure, nil when the last load succeeded.
	Err error
}

// Rows returns the result rows of view.
func (s Snapshot) Rows(view View) []Row {
	if view == ViewByTarget {
		return s.ByTarget
	}
	return s.BySource
}

// Options returns the selector values of view.
func (s Snapshot) Options(view View) []string {
	if view == ViewByTarget {
		return s.TargetInstitutions
	}
	return s.SourceCourses
}

// Service owns the loaded record set and answers lookups against it.
type Service struct {
	cfgMu sync.RWMutex
	cfg   Config

	store *RecordStore
	cache *viewCache

	errMu      sync.RWMutex
	lastErr    error
	errVersion uint64

	logger *zap.Logger
}

// NewService constructs a service with the given configuration. Nothing is loaded until Load.
func NewService(cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.ApplyDefaults()
	return &Service{
		cfg:    cfg,
		store:  NewRecordStore(),
		cache:  newViewCache(),
		logger: logger,
	}
}

// Config returns a copy of the current configuration.
func (s *Service) Config() Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg.Clone()
}

// UpdateConfig replaces the configuration and returns the applied version.
// A changed data source takes effect on the next Load.
func (s *Service) UpdateConfig(cfg Config) Config {
	cfg.ApplyDefaults()
	s.cfgMu.Lock()
	s.cfg = cfg
	s.cfgMu.Unlock()
	return cfg.Clone()
}

// Load reads the configured data source and replaces the record set wholesale.
// On failure the previous record set is kept and the error is available from LastError.
// Concurrent calls are safe: the newest started load wins.
func (s *Service) Load(ctx context.Context) error {
	cfg := s.Config()
	version := s.store.Begin()
	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.LoadTimeoutSeconds)*time.Second)
	defer cancel()

	start := time.Now()
	records, err := LoadRecords(ctx, cfg.DataSource, LoadOptions{Columns: cfg.Columns})
	if err != nil {
		s.recordError(version, err)
		s.logger.Warn("load failed",
			zap.String("source", cfg.DataSource),
			zap.Uint64("version", version),
			zap.Error(err))
		return err
	}
	if !s.store.Replace(version, records) {
		s.logger.Debug("discarding stale load",
			zap.String("source", cfg.DataSource),
			zap.Uint64("version", version))
		return nil
	}
	s.clearError(version)
	s.logger.Info("records loaded",
		zap.String("source", cfg.DataSource),
		zap.Int("records", len(records)),
		zap.Uint64("version", version),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (s *Service) recordError(version uint64, err error) {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if version <= s.store.Applied() || version < s.errVersion {
		return
	}
	s.lastErr = err
	s.errVersion = version
}

func (s *Service) clearError(version uint64) {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if version < s.errVersion {
		return
	}
	s.lastErr = nil
	s.errVersion = version
}

// LastError returns the error of the most recent load, or nil.
func (s *Service) LastError() error {
	s.errMu.RLock()
	defer s.errMu.RUnlock()
	return s.lastErr
}

// Records returns a copy of the current record set.
func (s *Service) Records() RecordSet {
	records, _ := s.store.Snapshot()
	return records.Clone()
}

// RecordCount returns the number of loaded records.
func (s *Service) RecordCount() int {
	return s.store.Size()
}

// DistinctSourceCourses lists the selectable source courses.
func (s *Service) DistinctSourceCourses() []string {
	records, scope := s.scope()
	return cloneStrings(s.distinct(records, scope, FieldSourceCourse))
}

// DistinctTargetInstitutions lists the selectable institutions.
func (s *Service) DistinctTargetInstitutions() []string {
	records, scope := s.scope()
	return cloneStrings(s.distinct(records, scope, FieldTargetInstitution))
}

// Lookup returns the projected rows of view for the selected value.
func (s *Service) Lookup(view View, value string) []Row {
	records, scope := s.scope()
	return cloneRows(s.lookup(records, scope, view, value))
}

// Snapshot computes every view for sel against the current record set.
func (s *Service) Snapshot(sel Selection) Snapshot {
	records, scope := s.scope()
	return Snapshot{
		Version:            scope.version,
		Records:            len(records),
		SourceCourses:      cloneStrings(s.distinct(records, scope, FieldSourceCourse)),
		TargetInstitutions: cloneStrings(s.distinct(records, scope, FieldTargetInstitution)),
		BySource:           cloneRows(s.lookup(records, scope, ViewBySource, sel.SourceCourse)),
		ByTarget:           cloneRows(s.lookup(records, scope, ViewByTarget, sel.TargetInstitution)),
		Err:                s.LastError(),
	}
}

func (s *Service) scope() (RecordSet, cacheScope) {
	records, version := s.store.Snapshot()
	s.cfgMu.RLock()
	locale := s.cfg.Locale
	s.cfgMu.RUnlock()
	scope := cacheScope{version: version, locale: locale}
	s.cache.sync(scope)
	return records, scope
}

func (s *Service) distinct(records RecordSet, scope cacheScope, f Field) []string {
	if v, ok := s.cache.getDistinct(scope, f); ok {
		return v
	}
	values := DistinctValues(records, f, NewCollator(scope.locale))
	s.cache.putDistinct(scope, f, values)
	return values
}

func (s *Service) lookup(records RecordSet, scope cacheScope, view View, value string) []Row {
	key := lookupKey{view: view, value: value}
	if rows, ok := s.cache.getLookup(scope, key); ok {
		return rows
	}
	rows := Lookup(records, view, value)
	s.cache.putLookup(scope, key, rows)
	return rows
}

func cloneRows(rows []Row) []Row {
	if rows == nil {
		return nil
	}
	out := make([]Row, len(rows))
	copy(out, rows)
	return out
}
