package services

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"venue-finder/logging"
	"venue-finder/models"
	"venue-finder/models/venue"
	"venue-finder/store"
)

// ErrSessionNotFound is returned for session ids that were never issued or have expired.
var ErrSessionNotFound = errors.New("session not found")

const STATUS_OK = "OK"

// CriteriaDAO persists filter criteria per session.
type CriteriaDAO interface {
	SaveCriteria(sessionID string, c models.FilterCriteria) error
	LoadCriteria(sessionID string) (models.FilterCriteria, bool, error)
	DeleteCriteria(sessionID string) error
	ListSessionIDs() ([]string, error)
}

type session struct {
	store    *store.Store
	lastSeen time.Time
}

// VenueService keeps one store per session over a shared catalog. Stores are
// not safe for concurrent use, so every call goes through mu.
type VenueService struct {
	mu       sync.Mutex
	sessions map[string]*session
	catalog  []venue.Venue
	byName   map[string]venue.Venue

	criteriaDao CriteriaDAO
	sessionTTL  time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

type VenueServiceOption func(*VenueService)

// WithServiceClock sets the clock used for open-now filtering and status checks.
func WithServiceClock(now func() time.Time) VenueServiceOption {
	return func(vs *VenueService) { vs.now = now }
}

// WithSessionTTL sets how long a session may sit idle. Zero keeps sessions
// until they are closed.
func WithSessionTTL(ttl time.Duration) VenueServiceOption {
	return func(vs *VenueService) { vs.sessionTTL = ttl }
}

func WithServiceLogger(logger *slog.Logger) VenueServiceOption {
	return func(vs *VenueService) { vs.logger = logger }
}

// NewVenueService constructs a new VenueService with criteria persistence.
func NewVenueService(criteriaDao CriteriaDAO, opts ...VenueServiceOption) *VenueService {
	vs := &VenueService{
		sessions:    make(map[string]*session),
		byName:      make(map[string]venue.Venue),
		criteriaDao: criteriaDao,
		now:         time.Now,
		logger:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(vs)
	}
	vs.logger = vs.logger.With("component", "VenueService")
	return vs
}

// NewSession opens a session with default criteria and returns its id.
func (vs *VenueService) NewSession() string {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	id := uuid.NewString()
	criteria := models.DefaultCriteria()
	vs.sessions[id] = &session{store: vs.newStore(id, criteria), lastSeen: vs.now()}
	if err := vs.criteriaDao.SaveCriteria(id, criteria); err != nil {
		vs.logger.Warn("could not persist new session", "session", id, "error", err)
	}
	vs.logger.Info("session opened", "session", id)
	return id
}

// CloseSession drops the session and its saved criteria.
func (vs *VenueService) CloseSession(sessionID string) error {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if _, err := vs.storeFor(sessionID); err != nil {
		return err
	}
	delete(vs.sessions, sessionID)
	if err := vs.criteriaDao.DeleteCriteria(sessionID); err != nil {
		return fmt.Errorf("[VenueService] close session %s: %w", sessionID, err)
	}
	return nil
}

// Visible recomputes and returns the session's visible set.
func (vs *VenueService) Visible(sessionID string) (models.VenueFilterResponse, error) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	s, err := vs.storeFor(sessionID)
	if err != nil {
		return models.VenueFilterResponse{}, err
	}
	s.Refresh()
	return filterResponse(s), nil
}

func (vs *VenueService) SetCriteria(sessionID string, patch models.CriteriaPatch) (models.VenueFilterResponse, error) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	s, err := vs.storeFor(sessionID)
	if err != nil {
		return models.VenueFilterResponse{}, err
	}
	s.SetCriteria(patch)
	return filterResponse(s), nil
}

func (vs *VenueService) Criteria(sessionID string) (models.FilterCriteria, error) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	s, err := vs.storeFor(sessionID)
	if err != nil {
		return models.FilterCriteria{}, err
	}
	return s.Criteria(), nil
}

func (vs *VenueService) Select(sessionID, name string) (store.Selection, error) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	s, err := vs.storeFor(sessionID)
	if err != nil {
		return store.Selection{}, err
	}
	return s.Select(name)
}

func (vs *VenueService) Deselect(sessionID string) error {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	s, err := vs.storeFor(sessionID)
	if err != nil {
		return err
	}
	s.Deselect()
	return nil
}

func (vs *VenueService) Selection(sessionID string) (store.Selection, error) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	s, err := vs.storeFor(sessionID)
	if err != nil {
		return store.Selection{}, err
	}
	return s.Selection(), nil
}

// Status evaluates a venue's hours at the current time.
func (vs *VenueService) Status(name string) (models.VenueStatus, error) {
	vs.mu.Lock()
	v, ok := vs.byName[name]
	vs.mu.Unlock()
	if !ok {
		return models.VenueStatus{}, fmt.Errorf("%w: %q", store.ErrVenueNotFound, name)
	}
	return models.StatusOf(v, vs.now()), nil
}

// ReloadCatalog replaces the catalog in every open session.
func (vs *VenueService) ReloadCatalog(venues []venue.Venue) store.LoadReport {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	// A scratch store applies the same exclusions the sessions will.
	scratch := store.New(store.WithLogger(vs.logger))
	report := scratch.Load(venues)

	kept := scratch.Visible().Venues
	byName := make(map[string]venue.Venue, len(kept))
	for _, v := range kept {
		byName[v.Name] = v
	}
	vs.catalog, vs.byName = kept, byName

	for _, sess := range vs.sessions {
		sess.store.Load(vs.catalog)
	}
	vs.logger.Info("catalog reloaded", "venues", len(kept), "sessions", len(vs.sessions))
	return report
}

// CatalogSize is the number of venues currently served.
func (vs *VenueService) CatalogSize() int {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return len(vs.catalog)
}

// EvictIdleSessions drops sessions idle longer than the session TTL along with
// sessions whose saved criteria have expired. It returns how many were dropped.
func (vs *VenueService) EvictIdleSessions() int {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	var stored map[string]struct{}
	ids, err := vs.criteriaDao.ListSessionIDs()
	if err != nil {
		vs.logger.Warn("could not list saved sessions", "error", err)
	} else {
		stored = make(map[string]struct{}, len(ids))
		for _, id := range ids {
			stored[id] = struct{}{}
		}
	}

	now := vs.now()
	evicted := 0
	for id, sess := range vs.sessions {
		idle := vs.sessionTTL > 0 && now.Sub(sess.lastSeen) > vs.sessionTTL
		_, saved := stored[id]
		if !idle && (stored == nil || saved) {
			continue
		}
		delete(vs.sessions, id)
		if idle && saved {
			if err := vs.criteriaDao.DeleteCriteria(id); err != nil {
				vs.logger.Warn("could not delete idle session criteria", "session", id, "error", err)
			}
		}
		evicted++
	}
	if evicted > 0 {
		vs.logger.Info("idle sessions evicted", "evicted", evicted, "sessions", len(vs.sessions))
	}
	return evicted
}

// SessionCount is the number of sessions held in memory.
func (vs *VenueService) SessionCount() int {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return len(vs.sessions)
}

// storeFor finds the session's store, restoring it from saved criteria after a
// restart, and marks the session as used. Callers hold mu.
func (vs *VenueService) storeFor(sessionID string) (*store.Store, error) {
	if sess, ok := vs.sessions[sessionID]; ok {
		vs.touch(sessionID, sess)
		return sess.store, nil
	}
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}

	criteria, found, err := vs.criteriaDao.LoadCriteria(sessionID)
	if err != nil {
		return nil, fmt.Errorf("[VenueService] restore session %s: %w", sessionID, err)
	}
	if !found {
		return nil, ErrSessionNotFound
	}
	sess := &session{store: vs.newStore(sessionID, criteria)}
	vs.sessions[sessionID] = sess
	vs.touch(sessionID, sess)
	vs.logger.Info("session restored", "session", sessionID, "district", criteria.District, "hours", criteria.Hours)
	return sess.store, nil
}

// touch records the access and restarts the expiry of the saved criteria.
func (vs *VenueService) touch(sessionID string, sess *session) {
	sess.lastSeen = vs.now()
	if vs.sessionTTL <= 0 {
		return
	}
	if err := vs.criteriaDao.SaveCriteria(sessionID, sess.store.Criteria()); err != nil {
		vs.logger.Warn("could not refresh session expiry", "session", sessionID, "error", err)
	}
}

func (vs *VenueService) newStore(sessionID string, criteria models.FilterCriteria) *store.Store {
	hook := store.CriteriaHookFunc(func(c models.FilterCriteria) error {
		return vs.criteriaDao.SaveCriteria(sessionID, c)
	})
	s := store.New(
		store.WithClock(vs.now),
		store.WithLogger(vs.logger.With("session", sessionID)),
		store.WithCriteria(criteria),
		store.WithCriteriaHook(hook),
	)
	s.Load(vs.catalog)
	return s
}

func filterResponse(s *store.Store) models.VenueFilterResponse {
	return models.VenueFilterResponse{
		Status:     STATUS_OK,
		Criteria:   s.Criteria(),
		VisibleSet: s.Visible(),
		Selected:   s.Selection().NamePtr(),
	}
}
