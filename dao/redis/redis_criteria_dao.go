package redis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"venue-finder/db"
	"venue-finder/models"
	"venue-finder/models/venue"
)

const CRITERIA_KEY_FORMAT = "%s:criteria:%s"
const CATALOG_SNAPSHOT_KEY_FORMAT = "%s:catalog_snapshot"

// CatalogSnapshot is the last catalog fetched successfully.
type CatalogSnapshot struct {
	FetchedAt time.Time     `json:"fetched_at"`
	Venues    []venue.Venue `json:"venues"`
}

// RedisCriteriaDAO keeps per-session filter criteria and the catalog snapshot.
type RedisCriteriaDAO struct {
	client db.RedisClient
	prefix string
	ttl    time.Duration
}

// NewRedisCriteriaDAO initializes a RedisCriteriaDAO. Criteria expire after
// ttl of inactivity; 0 keeps them forever.
func NewRedisCriteriaDAO(client db.RedisClient, prefix string, ttl time.Duration) *RedisCriteriaDAO {
	return &RedisCriteriaDAO{client: client, prefix: prefix, ttl: ttl}
}

func (dao *RedisCriteriaDAO) criteriaKey(sessionID string) string {
	return fmt.Sprintf(CRITERIA_KEY_FORMAT, dao.prefix, sessionID)
}

// SaveCriteria stores the criteria of a session.
func (dao *RedisCriteriaDAO) SaveCriteria(sessionID string, c models.FilterCriteria) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("[RedisCriteriaDAO] failed to marshal criteria for session %s: %w", sessionID, err)
	}
	if err := dao.client.Set(dao.criteriaKey(sessionID), string(data), dao.ttl); err != nil {
		return fmt.Errorf("[RedisCriteriaDAO] failed to save criteria: %w", err)
	}
	return nil
}

// LoadCriteria returns the saved criteria of a session. found is false on a
// cache miss.
func (dao *RedisCriteriaDAO) LoadCriteria(sessionID string) (models.FilterCriteria, bool, error) {
	str, err := dao.client.Get(dao.criteriaKey(sessionID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return models.FilterCriteria{}, false, nil
		}
		return models.FilterCriteria{}, false, fmt.Errorf("[RedisCriteriaDAO] failed to load criteria: %w", err)
	}

	c := models.DefaultCriteria()
	if err := json.Unmarshal([]byte(str), &c); err != nil {
		return models.FilterCriteria{}, false, fmt.Errorf("[RedisCriteriaDAO] failed to unmarshal criteria JSON: %w", err)
	}
	// older entries may carry "" or "all" for the district wildcard
	district := c.District
	return c.Merge(models.CriteriaPatch{District: &district}), true, nil
}

func (dao *RedisCriteriaDAO) DeleteCriteria(sessionID string) error {
	if err := dao.client.Del(dao.criteriaKey(sessionID)); err != nil {
		return fmt.Errorf("[RedisCriteriaDAO] failed to delete criteria of %s: %w", sessionID, err)
	}
	return nil
}

// ListSessionIDs returns the sessions that have saved criteria.
func (dao *RedisCriteriaDAO) ListSessionIDs() ([]string, error) {
	keys, err := dao.client.Keys(dao.criteriaKey("*"))
	if err != nil {
		return nil, fmt.Errorf("[RedisCriteriaDAO] failed to list criteria keys: %w", err)
	}
	prefix := dao.criteriaKey("")
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, prefix))
	}
	return ids, nil
}

// SetCatalogSnapshot stores the catalog so it can be served when the source is down.
func (dao *RedisCriteriaDAO) SetCatalogSnapshot(s CatalogSnapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("[RedisCriteriaDAO] failed to marshal catalog snapshot: %w", err)
	}
	key := fmt.Sprintf(CATALOG_SNAPSHOT_KEY_FORMAT, dao.prefix)
	if err := dao.client.Set(key, string(data), 0); err != nil {
		return fmt.Errorf("[RedisCriteriaDAO] failed to save catalog snapshot: %w", err)
	}
	return nil
}

// GetCatalogSnapshot returns nil without error when no snapshot exists.
func (dao *RedisCriteriaDAO) GetCatalogSnapshot() (*CatalogSnapshot, error) {
	key := fmt.Sprintf(CATALOG_SNAPSHOT_KEY_FORMAT, dao.prefix)
	str, err := dao.client.Get(key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("[RedisCriteriaDAO] failed to get catalog snapshot: %w", err)
	}
	var s CatalogSnapshot
	if err := json.Unmarshal([]byte(str), &s); err != nil {
		return nil, fmt.Errorf("[RedisCriteriaDAO] failed to unmarshal catalog snapshot: %w", err)
	}
	return &s, nil
}
