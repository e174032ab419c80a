package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/dockeeper/internal/cache"
	"github.com/dmitrijs2005/dockeeper/internal/common"
	"github.com/dmitrijs2005/dockeeper/internal/gateway"
	"github.com/dmitrijs2005/dockeeper/internal/logging"
	"github.com/dmitrijs2005/dockeeper/internal/models"
	"github.com/dmitrijs2005/dockeeper/internal/netwatch"
	"github.com/dmitrijs2005/dockeeper/internal/session"
	"github.com/dmitrijs2005/dockeeper/internal/store"
)

// SyncService reconciles the local store with the remote gateway. A cycle
// runs push (projects, documents, standard info, in that order), then pull,
// then cache eviction and a stats refresh. Only one cycle runs at a time.
type SyncService struct {
	store      *store.Store
	gw         gateway.Gateway
	watcher    *netwatch.Watcher
	cache      *cache.Cache
	maxRetries int
	log        logging.Logger
	now        func() time.Time

	syncing atomic.Bool

	mu         sync.RWMutex
	sess       *session.Session
	syncError  string
	stats      models.SyncStats
	lastSyncAt *time.Time
	nextSubID  int
	dataSubs   map[int]func()
}

func NewSyncService(st *store.Store, gw gateway.Gateway, watcher *netwatch.Watcher, cache *cache.Cache, maxRetries int, log logging.Logger) *SyncService {
	s := &SyncService{
		store:      st,
		gw:         gw,
		watcher:    watcher,
		cache:      cache,
		maxRetries: maxRetries,
		log:        log,
		now:        time.Now,
		dataSubs:   make(map[int]func()),
	}

	// connectivity regained is a sync trigger
	watcher.OnChange(func(online bool) {
		if !online || !s.Session().Active(s.now()) {
			return
		}
		ctx := context.Background()
		if err := s.Sync(ctx); err != nil {
			s.log.Warn(ctx, "automatic sync failed", "error", err)
		}
	})

	return s
}

// SetSession installs the active session and, when the gateway is
// reachable, runs a cycle right away.
func (s *SyncService) SetSession(ctx context.Context, sess *session.Session) {
	s.mu.Lock()
	s.sess = sess
	s.mu.Unlock()

	if sess != nil && s.watcher.IsOnline() {
		if err := s.Sync(ctx); err != nil {
			s.log.Warn(ctx, "sync after login failed", "error", err)
		}
	}
}

func (s *SyncService) Session() *session.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess
}

// OnDataChanged registers a callback fired after a cycle's pull phase has
// rewritten local records. The returned function unsubscribes.
func (s *SyncService) OnDataChanged(fn func()) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.dataSubs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.dataSubs, id)
		s.mu.Unlock()
	}
}

// State reports the current snapshot for status displays.
func (s *SyncService) State() models.SyncState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.SyncState{
		IsOnline:   s.watcher.IsOnline(),
		IsSyncing:  s.syncing.Load(),
		LastSyncAt: s.lastSyncAt,
		SyncError:  s.syncError,
		Stats:      s.stats,
	}
}

// ResetErrors zeroes the retry counters so capped records rejoin the next
// automatic push.
func (s *SyncService) ResetErrors(ctx context.Context) error {
	sess := s.Session()
	if !sess.Active(s.now()) {
		return common.ErrNoSession
	}
	return s.store.Queue.ResetRetries(ctx, sess.UserID)
}

// Sync runs one reconciliation cycle. A cycle already in flight yields
// common.ErrSyncBusy; callers decide whether to retry later.
func (s *SyncService) Sync(ctx context.Context) error {
	if !s.syncing.CompareAndSwap(false, true) {
		return common.ErrSyncBusy
	}
	defer s.syncing.Store(false)

	sess := s.Session()
	if !sess.Active(s.now()) {
		return common.ErrNoSession
	}
	owner := sess.UserID

	s.log.Info(ctx, "sync cycle started", "owner", owner)

	keepProjects, keepDocuments, keepInfo := s.pushAll(ctx, owner)

	pullErr := s.pullAll(ctx, owner, keepProjects, keepDocuments, keepInfo)
	if pullErr != nil {
		s.log.Error(ctx, "pull phase failed", "error", pullErr)
	} else {
		s.notifyDataChanged()
	}

	if n, err := s.cache.EvictExpired(ctx); err != nil {
		s.log.Warn(ctx, "cache eviction failed", "error", err)
	} else if n > 0 {
		s.log.Debug(ctx, "evicted expired cache entries", "count", n)
	}

	s.refreshStats(ctx, owner, pullErr)

	if pullErr != nil {
		return pullErr
	}
	s.log.Info(ctx, "sync cycle finished", "owner", owner)
	return nil
}

func (s *SyncService) notifyDataChanged() {
	s.mu.RLock()
	fns := make([]func(), 0, len(s.dataSubs))
	for _, fn := range s.dataSubs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}

// retriesExhausted reports whether the record's queue item has hit the
// retry ceiling. Records without a queue item are always eligible.
func (s *SyncService) retriesExhausted(item *models.SyncQueueItem) bool {
	return item != nil && item.RetryCount >= s.maxRetries
}

// recordFailure marks the record errored and bumps the retry counter.
func (s *SyncService) recordFailure(ctx context.Context, table, recordID string, item *models.SyncQueueItem, markError func(context.Context, string) error, cause error) {
	s.log.Warn(ctx, "push failed", "table", table, "record", recordID, "error", cause)
	if err := markError(ctx, recordID); err != nil {
		s.log.Error(ctx, "failed to mark record errored", "table", table, "record", recordID, "error", err)
	}
	if item != nil {
		if err := s.store.Queue.IncrementRetry(ctx, item.ID, cause.Error()); err != nil {
			s.log.Error(ctx, "failed to bump retry counter", "record", recordID, "error", err)
		}
	}
}

// queueItemFor fetches the newest queue item for a record, nil when none.
func (s *SyncService) queueItemFor(ctx context.Context, recordID string) *models.SyncQueueItem {
	item, err := s.store.Queue.LatestByRecord(ctx, recordID)
	if err != nil {
		return nil
	}
	return item
}

// drainQueue removes every staged operation for a confirmed record.
func (s *SyncService) drainQueue(ctx context.Context, recordID string) {
	if err := s.store.Queue.DeleteByRecord(ctx, recordID); err != nil {
		s.log.Error(ctx, "failed to drain queue", "record", recordID, "error", err)
	}
}

func (s *SyncService) refreshStats(ctx context.Context, owner string, cycleErr error) {
	stats := models.SyncStats{}
	var firstErr error

	collect := func(dst *models.TableStats, fn func(context.Context, string) (models.TableStats, error)) {
		ts, err := fn(ctx, owner)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		*dst = ts
	}
	collect(&stats.Projects, s.store.Projects.CountByStatus)
	collect(&stats.Documents, s.store.Documents.CountByStatus)
	collect(&stats.StandardInfo, s.store.StandardInfo.CountByStatus)

	if n, err := s.store.Queue.CountByOwner(ctx, owner); err == nil {
		stats.QueueLength = n
	} else if firstErr == nil {
		firstErr = err
	}

	for _, fn := range []func(context.Context, string) (*time.Time, error){
		s.store.Projects.LastSyncedAt,
		s.store.Documents.LastSyncedAt,
		s.store.StandardInfo.LastSyncedAt,
	} {
		t, err := fn(ctx, owner)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if t != nil && (stats.LastSyncAt == nil || t.After(*stats.LastSyncAt)) {
			stats.LastSyncAt = t
		}
	}

	if firstErr != nil {
		s.log.Error(ctx, "stats refresh incomplete", "error", firstErr)
	}

	s.mu.Lock()
	s.stats = stats
	s.lastSyncAt = stats.LastSyncAt
	if cycleErr != nil {
		s.syncError = cycleErr.Error()
	} else {
		s.syncError = ""
	}
	s.mu.Unlock()
}

// decodeRecord maps a gateway record onto a local model via its JSON tags.
func decodeRecord[T any](rec gateway.Record) (*T, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode gateway record: %w", err)
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode gateway record: %w", err)
	}
	return &v, nil
}

// pushAll pushes the three tables in order and returns, per table, the ids
// whose push did not complete this cycle. The pull phase leaves those rows
// alone so the local write survives until the next retry.
func (s *SyncService) pushAll(ctx context.Context, owner string) (projects, documents, info map[string]struct{}) {
	projects = s.pushProjects(ctx, owner)
	documents = s.pushDocuments(ctx, owner)
	info = s.pushStandardInfo(ctx, owner)
	return projects, documents, info
}

func (s *SyncService) pushProjects(ctx context.Context, owner string) map[string]struct{} {
	keep := make(map[string]struct{})

	recs, err := s.store.Projects.ListUnsynced(ctx, owner)
	if err != nil {
		s.log.Error(ctx, "failed to list unsynced projects", "error", err)
		return keep
	}

	for _, rec := range recs {
		item := s.queueItemFor(ctx, rec.ID)
		if s.retriesExhausted(item) {
			s.log.Debug(ctx, "skipping record past retry limit", "table", TableProjects, "record", rec.ID)
			keep[rec.ID] = struct{}{}
			continue
		}
		now := s.now().UTC()

		switch {
		case rec.DeletedAt != nil:
			if err := s.gw.DeleteRecord(ctx, TableProjects, rec.ID); err != nil {
				s.recordFailure(ctx, TableProjects, rec.ID, item, s.store.Projects.MarkError, err)
				keep[rec.ID] = struct{}{}
				continue
			}
			if err := s.store.Projects.Purge(ctx, rec.ID); err != nil {
				s.log.Error(ctx, "failed to purge deleted project", "record", rec.ID, "error", err)
				continue
			}
			s.drainQueue(ctx, rec.ID)

		case models.IsTempID(rec.ID):
			remote, err := s.gw.CreateRecord(ctx, TableProjects, rec.RemoteFields())
			if err == nil && remote.ID() == "" {
				err = fmt.Errorf("%w: create response carried no id", common.ErrGatewayRejected)
			}
			if err != nil {
				s.recordFailure(ctx, TableProjects, rec.ID, item, s.store.Projects.MarkError, err)
				continue
			}
			tempID := rec.ID
			rec.ID = remote.ID()
			rec.MarkSynced(now)
			if err := s.store.Projects.ReplaceID(ctx, tempID, rec); err != nil {
				s.log.Error(ctx, "failed to adopt server id", "table", TableProjects, "record", tempID, "error", err)
				keep[rec.ID] = struct{}{}
				continue
			}
			s.drainQueue(ctx, tempID)

		default:
			if _, err := s.gw.UpdateRecord(ctx, TableProjects, rec.ID, rec.RemoteFields()); err != nil {
				s.recordFailure(ctx, TableProjects, rec.ID, item, s.store.Projects.MarkError, err)
				keep[rec.ID] = struct{}{}
				continue
			}
			if err := s.store.Projects.MarkSynced(ctx, rec.ID, now); err != nil {
				s.log.Error(ctx, "failed to mark project synced", "record", rec.ID, "error", err)
				continue
			}
			s.drainQueue(ctx, rec.ID)
		}
	}

	return keep
}

func (s *SyncService) pushDocuments(ctx context.Context, owner string) map[string]struct{} {
	keep := make(map[string]struct{})

	recs, err := s.store.Documents.ListUnsynced(ctx, owner)
	if err != nil {
		s.log.Error(ctx, "failed to list unsynced documents", "error", err)
		return keep
	}

	for _, rec := range recs {
		item := s.queueItemFor(ctx, rec.ID)
		if s.retriesExhausted(item) {
			s.log.Debug(ctx, "skipping record past retry limit", "table", TableDocuments, "record", rec.ID)
			keep[rec.ID] = struct{}{}
			continue
		}
		now := s.now().UTC()

		switch {
		case rec.DeletedAt != nil:
			if err := s.gw.DeleteRecord(ctx, TableDocuments, rec.ID); err != nil {
				s.recordFailure(ctx, TableDocuments, rec.ID, item, s.store.Documents.MarkError, err)
				keep[rec.ID] = struct{}{}
				continue
			}
			if err := s.store.Documents.Purge(ctx, rec.ID); err != nil {
				s.log.Error(ctx, "failed to purge deleted document", "record", rec.ID, "error", err)
				continue
			}
			s.drainQueue(ctx, rec.ID)

		case models.IsTempID(rec.ID):
			remote, err := s.gw.CreateRecord(ctx, TableDocuments, rec.RemoteFields())
			if err == nil && remote.ID() == "" {
				err = fmt.Errorf("%w: create response carried no id", common.ErrGatewayRejected)
			}
			if err != nil {
				s.recordFailure(ctx, TableDocuments, rec.ID, item, s.store.Documents.MarkError, err)
				continue
			}
			tempID := rec.ID
			rec.ID = remote.ID()
			rec.MarkSynced(now)
			if err := s.store.Documents.ReplaceID(ctx, tempID, rec); err != nil {
				s.log.Error(ctx, "failed to adopt server id", "table", TableDocuments, "record", tempID, "error", err)
				keep[rec.ID] = struct{}{}
				continue
			}
			s.drainQueue(ctx, tempID)

		default:
			if _, err := s.gw.UpdateRecord(ctx, TableDocuments, rec.ID, rec.RemoteFields()); err != nil {
				s.recordFailure(ctx, TableDocuments, rec.ID, item, s.store.Documents.MarkError, err)
				keep[rec.ID] = struct{}{}
				continue
			}
			if err := s.store.Documents.MarkSynced(ctx, rec.ID, now); err != nil {
				s.log.Error(ctx, "failed to mark document synced", "record", rec.ID, "error", err)
				continue
			}
			s.drainQueue(ctx, rec.ID)
		}
	}

	return keep
}

func (s *SyncService) pushStandardInfo(ctx context.Context, owner string) map[string]struct{} {
	keep := make(map[string]struct{})

	recs, err := s.store.StandardInfo.ListUnsynced(ctx, owner)
	if err != nil {
		s.log.Error(ctx, "failed to list unsynced standard info", "error", err)
		return keep
	}

	for _, rec := range recs {
		item := s.queueItemFor(ctx, rec.ID)
		if s.retriesExhausted(item) {
			s.log.Debug(ctx, "skipping record past retry limit", "table", TableStandardInfo, "record", rec.ID)
			keep[rec.ID] = struct{}{}
			continue
		}
		now := s.now().UTC()

		switch {
		case rec.DeletedAt != nil:
			if err := s.gw.DeleteRecord(ctx, TableStandardInfo, rec.ID); err != nil {
				s.recordFailure(ctx, TableStandardInfo, rec.ID, item, s.store.StandardInfo.MarkError, err)
				keep[rec.ID] = struct{}{}
				continue
			}
			if err := s.store.StandardInfo.Purge(ctx, rec.ID); err != nil {
				s.log.Error(ctx, "failed to purge deleted standard info", "record", rec.ID, "error", err)
				continue
			}
			s.drainQueue(ctx, rec.ID)

		case models.IsTempID(rec.ID):
			remote, err := s.gw.CreateRecord(ctx, TableStandardInfo, rec.RemoteFields())
			if err == nil && remote.ID() == "" {
				err = fmt.Errorf("%w: create response carried no id", common.ErrGatewayRejected)
			}
			if err != nil {
				s.recordFailure(ctx, TableStandardInfo, rec.ID, item, s.store.StandardInfo.MarkError, err)
				continue
			}
			tempID := rec.ID
			rec.ID = remote.ID()
			rec.MarkSynced(now)
			if err := s.store.StandardInfo.ReplaceID(ctx, tempID, rec); err != nil {
				s.log.Error(ctx, "failed to adopt server id", "table", TableStandardInfo, "record", tempID, "error", err)
				keep[rec.ID] = struct{}{}
				continue
			}
			s.drainQueue(ctx, tempID)

		default:
			if _, err := s.gw.UpdateRecord(ctx, TableStandardInfo, rec.ID, rec.RemoteFields()); err != nil {
				s.recordFailure(ctx, TableStandardInfo, rec.ID, item, s.store.StandardInfo.MarkError, err)
				keep[rec.ID] = struct{}{}
				continue
			}
			if err := s.store.StandardInfo.MarkSynced(ctx, rec.ID, now); err != nil {
				s.log.Error(ctx, "failed to mark standard info synced", "record", rec.ID, "error", err)
				continue
			}
			s.drainQueue(ctx, rec.ID)
		}
	}

	return keep
}

// pullAll fetches the three remote snapshots concurrently and overwrites
// the matching local rows. Records the server no longer returns are left
// alone; deletion only ever happens through a confirmed push. Rows whose
// push did not complete this cycle, and rows soft-deleted locally, keep
// their local state so the server's stale copy cannot clobber them.
func (s *SyncService) pullAll(ctx context.Context, owner string, keepProjects, keepDocuments, keepInfo map[string]struct{}) error {
	var (
		projectRecs  []gateway.Record
		documentRecs []gateway.Record
		infoRecs     []gateway.Record
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		projectRecs, err = s.gw.ListUserRecords(gctx, TableProjects, owner)
		return err
	})
	g.Go(func() (err error) {
		documentRecs, err = s.gw.ListUserRecords(gctx, TableDocuments, owner)
		return err
	})
	g.Go(func() (err error) {
		infoRecs, err = s.gw.ListUserRecords(gctx, TableStandardInfo, owner)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}

	now := s.now().UTC()

	for _, raw := range projectRecs {
		rec, err := decodeRecord[models.Project](raw)
		if err != nil {
			return err
		}
		if _, held := keepProjects[rec.ID]; held {
			continue
		}
		local, err := s.store.Projects.GetAnyByID(ctx, rec.ID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}
		if local != nil && local.DeletedAt != nil {
			continue
		}
		rec.MarkSynced(now)
		if err := s.store.Projects.Upsert(ctx, rec); err != nil {
			return err
		}
	}
	for _, raw := range documentRecs {
		rec, err := decodeRecord[models.Document](raw)
		if err != nil {
			return err
		}
		if _, held := keepDocuments[rec.ID]; held {
			continue
		}
		local, err := s.store.Documents.GetAnyByID(ctx, rec.ID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}
		if local != nil && local.DeletedAt != nil {
			continue
		}
		rec.MarkSynced(now)
		if err := s.store.Documents.Upsert(ctx, rec); err != nil {
			return err
		}
	}
	for _, raw := range infoRecs {
		rec, err := decodeRecord[models.StandardInfo](raw)
		if err != nil {
			return err
		}
		if _, held := keepInfo[rec.ID]; held {
			continue
		}
		local, err := s.store.StandardInfo.GetAnyByID(ctx, rec.ID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}
		if local != nil && local.DeletedAt != nil {
			continue
		}
		rec.MarkSynced(now)
		if err := s.store.StandardInfo.Upsert(ctx, rec); err != nil {
			return err
		}
	}

	s.log.Debug(ctx, "pull finished",
		"projects", len(projectRecs),
		"documents", len(documentRecs),
		"standard_info", len(infoRecs))
	return nil
}
