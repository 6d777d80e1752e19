package predict

import (
	"encoding/json"
	"fmt"

	"tally/pkg/patstore"
)

// cachedEntry returns the fresh cache entry for a fingerprint, if any.
// Expired entries are ignored (and cleaned up lazily by putCache).
func (p *Predictor) cachedEntry(fp string) (cacheEntry, bool, error) {
	var doc cacheDoc
	err := p.store.Load(patstore.DocCache, &doc)
	switch {
	case err == nil:
	case patstore.IsNotFound(err):
		return cacheEntry{}, false, nil
	default:
		return cacheEntry{}, false, err
	}

	entry, ok := doc.Entries[fp]
	if !ok {
		return cacheEntry{}, false, nil
	}
	if p.now().Sub(entry.CachedAt) > p.cacheTTL {
		return cacheEntry{}, false, nil
	}
	return entry, true, nil
}

// putCache stores a cache entry and drops any expired ones it finds.
func (p *Predictor) putCache(entry cacheEntry) error {
	return p.store.Update(patstore.DocCache, func(raw json.RawMessage) (any, error) {
		doc, err := decodeCache(raw)
		if err != nil {
			return nil, err
		}
		for fp, e := range doc.Entries {
			if p.now().Sub(e.CachedAt) > p.cacheTTL {
				delete(doc.Entries, fp)
			}
		}
		doc.Entries[entry.Fingerprint] = entry
		return doc, nil
	})
}

// evictCache removes the cache entry for a fingerprint. Missing entries and
// a missing cache document are not errors.
func (p *Predictor) evictCache(fp string) error {
	return p.store.Update(patstore.DocCache, func(raw json.RawMessage) (any, error) {
		if len(raw) == 0 {
			return nil, nil // no cache yet, nothing to evict
		}
		doc, err := decodeCache(raw)
		if err != nil {
			return nil, err
		}
		if _, ok := doc.Entries[fp]; !ok {
			return nil, nil
		}
		delete(doc.Entries, fp)
		return doc, nil
	})
}

// decodeCache parses a raw prediction_cache.json document, seeding an empty
// one when raw is nil.
func decodeCache(raw json.RawMessage) (*cacheDoc, error) {
	doc := cacheDoc{Versioned: patstore.Versioned{SchemaVersion: patstore.SchemaVersion}}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", patstore.DocCache, err)
		}
	}
	if doc.Entries == nil {
		doc.Entries = make(map[string]cacheEntry)
	}
	doc.SchemaVersion = patstore.SchemaVersion
	return &doc, nil
}
