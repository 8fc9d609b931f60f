// Package preview maintains the disk-backed, per-bookmark cache of link
// previews shared between the main process, widgets and extensions.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tkoster/linkmark/internal/logger"
	"github.com/tkoster/linkmark/internal/model"
)

const legacySweepFlag = ".legacy-swept"

// Cache stores one serialized preview record per bookmark id. Each process
// writes only whole files via atomic rename, so no cross-process locking is
// needed.
type Cache struct {
	dir     string
	fetcher *Fetcher
	log     logger.Logger

	mu       sync.Mutex
	inflight map[string]*inflightFetch
}

type inflightFetch struct {
	done    chan struct{}
	preview model.CachedPreview
}

// NewCache creates the cache directory if needed and returns a Cache.
func NewCache(dir string, fetcher *Fetcher, log logger.Logger) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Cache{
		dir:      dir,
		fetcher:  fetcher,
		log:      log,
		inflight: make(map[string]*inflightFetch),
	}, nil
}

func (c *Cache) filePath(id string) string {
	return filepath.Join(c.dir, id+".json")
}

// Get reads the cached preview for a bookmark id. Returns false on miss or
// on a record that no longer decodes.
func (c *Cache) Get(id string) (model.CachedPreview, bool) {
	data, err := os.ReadFile(c.filePath(id))
	if err != nil {
		return model.CachedPreview{}, false
	}

	var p model.CachedPreview
	if err := json.Unmarshal(data, &p); err != nil {
		c.log.Warn("dropping undecodable preview record",
			logger.String("bookmark", id), logger.Error(err))
		return model.CachedPreview{}, false
	}
	return p, true
}

// Put serializes and writes a preview record, replacing any existing entry.
// The write is tmp+rename so concurrent readers never observe a torn file.
func (c *Cache) Put(p model.CachedPreview) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	path := c.filePath(p.BookmarkID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Remove deletes the cache entry for a bookmark id. Removing a missing
// entry is not an error; deletes race with fetch completions by design.
func (c *Cache) Remove(id string) error {
	err := os.Remove(c.filePath(id))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Populate resolves a preview for the bookmark, fetching and caching it on
// a miss. Concurrent calls for the same id share one fetch. The result is
// always terminal: fetch failures resolve to the first-letter state.
func (c *Cache) Populate(ctx context.Context, b model.Bookmark) model.CachedPreview {
	if p, ok := c.Get(b.ID); ok && p.State.Terminal() {
		return p
	}

	c.mu.Lock()
	if call, ok := c.inflight[b.ID]; ok {
		c.mu.Unlock()
		<-call.done
		return call.preview
	}
	call := &inflightFetch{done: make(chan struct{})}
	c.inflight[b.ID] = call
	c.mu.Unlock()

	p := c.fetch(ctx, b)
	if err := c.Put(p); err != nil {
		c.log.Warn("preview cache write failed",
			logger.String("bookmark", b.ID), logger.Error(err))
	}

	call.preview = p
	close(call.done)

	c.mu.Lock()
	delete(c.inflight, b.ID)
	c.mu.Unlock()

	return p
}

// Observe resolves a preview asynchronously and delivers exactly one
// terminal record on the returned channel. If the fetch has produced
// nothing within fallbackAfter, a first-letter preview is delivered instead
// and the state never reverts to loading; a late fetch result still lands
// in the cache for the next lookup.
func (c *Cache) Observe(ctx context.Context, b model.Bookmark, fallbackAfter time.Duration) <-chan model.CachedPreview {
	out := make(chan model.CachedPreview, 1)

	go func() {
		fetched := make(chan model.CachedPreview, 1)
		go func() {
			fetched <- c.Populate(ctx, b)
		}()

		timer := time.NewTimer(fallbackAfter)
		defer timer.Stop()

		select {
		case p := <-fetched:
			out <- p
		case <-timer.C:
			out <- FirstLetter(b)
		case <-ctx.Done():
			out <- FirstLetter(b)
		}
	}()

	return out
}

// FirstLetter builds the imageless terminal preview for a bookmark. The
// letter itself is derived from the title at render time.
func FirstLetter(b model.Bookmark) model.CachedPreview {
	return model.CachedPreview{
		BookmarkID: b.ID,
		State:      model.PreviewFirstLetter,
	}
}

func (c *Cache) fetch(ctx context.Context, b model.Bookmark) model.CachedPreview {
	meta, err := c.fetcher.Metadata(ctx, b.URL)
	if err != nil {
		c.log.Debug("metadata fetch failed",
			logger.String("bookmark", b.ID), logger.Error(err))
		return FirstLetter(b)
	}

	if meta.ImageURL != "" {
		if p, ok := c.fetchImage(ctx, b, meta.ImageURL, model.PreviewThumbnail); ok {
			return p
		}
	}

	iconURL := meta.IconURL
	if iconURL == "" {
		iconURL = guessFaviconURL(b.URL)
	}
	if iconURL != "" {
		if p, ok := c.fetchImage(ctx, b, iconURL, model.PreviewIcon); ok {
			return p
		}
	}

	return FirstLetter(b)
}

func (c *Cache) fetchImage(ctx context.Context, b model.Bookmark, imageURL string, state model.PreviewState) (model.CachedPreview, bool) {
	raw, err := c.fetcher.Image(ctx, imageURL)
	if err != nil {
		c.log.Debug("preview image fetch failed",
			logger.String("bookmark", b.ID), logger.Error(err))
		return model.CachedPreview{}, false
	}

	compressed, err := compressImage(raw)
	if err != nil {
		c.log.Debug("preview image decode failed",
			logger.String("bookmark", b.ID), logger.Error(err))
		return model.CachedPreview{}, false
	}

	return model.CachedPreview{
		BookmarkID: b.ID,
		Image:      compressed,
		State:      state,
	}, true
}

func guessFaviconURL(pageURL string) string {
	host := model.HostOf(pageURL)
	if host == "" {
		return ""
	}
	return "https://" + host + "/favicon.ico"
}

// SweepLegacy deletes preview files left in the old per-app cache
// directory. A persisted flag in the shared cache directory makes the sweep
// run exactly once.
func (c *Cache) SweepLegacy(legacyDir string) {
	flag := filepath.Join(c.dir, legacySweepFlag)
	if _, err := os.Stat(flag); err == nil {
		return
	}

	entries, err := os.ReadDir(legacyDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		c.log.Warn("legacy preview sweep failed", logger.Error(err))
		return
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(legacyDir, e.Name())); err == nil {
			removed++
		}
	}
	if removed > 0 {
		c.log.Info("swept legacy preview cache", logger.Int("removed", removed))
	}

	if err := os.WriteFile(flag, []byte(time.Now().Format(time.RFC3339)+"\n"), 0644); err != nil {
		c.log.Warn("could not persist legacy sweep flag", logger.Error(err))
	}
}
