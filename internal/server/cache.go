package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"codect/internal/engine"
)

type analyzeFunc func(ctx context.Context, req engine.Request) (*engine.Result, error)

// resultCache memoises analyses. Analysis is deterministic, so identical requests can
// share one result and concurrent ones can share one computation.
type resultCache struct {
	entries *lru.Cache[string, *engine.Result]
	group   singleflight.Group
}

// newResultCache returns a cache holding size results; size 0 only deduplicates.
func newResultCache(size int) (*resultCache, error) {
	c := &resultCache{}
	if size > 0 {
		entries, err := lru.New[string, *engine.Result](size)
		if err != nil {
			return nil, err
		}
		c.entries = entries
	}
	return c, nil
}

func (c *resultCache) Get(ctx context.Context, req engine.Request, analyze analyzeFunc) (*engine.Result, error) {
	key := cacheKey(req)
	if c.entries != nil {
		if res, ok := c.entries.Get(key); ok {
			return res, nil
		}
	}

	// The shared analysis outlives any one caller; each caller stops waiting when its
	// own request ends.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		res, err := analyze(shared, req)
		if err != nil {
			return nil, err
		}
		if c.entries != nil {
			c.entries.Add(key, res)
		}
		return res, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*engine.Result), nil
	}
}

func (c *resultCache) Len() int {
	if c.entries == nil {
		return 0
	}
	return c.entries.Len()
}

func cacheKey(req engine.Request) string {
	h := sha256.New()
	h.Write([]byte(req.Language))
	h.Write([]byte{0})
	h.Write([]byte(req.Filename))
	h.Write([]byte{0})
	if req.Detailed {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	h.Write([]byte(req.Code))
	return hex.EncodeToString(h.Sum(nil))
}
