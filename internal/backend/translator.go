package backend

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// cachingClient wraps a Client and memoizes translation results. Users
// repeatedly toggle the same message between the same pair of languages, so a
// small LRU removes most round-trips; singleflight collapses concurrent
// requests for the same text/language pair into one backend call.
type cachingClient struct {
	Client
	cache *lru.Cache[string, *TranslationResponse]
	group singleflight.Group
}

// WithTranslationCache decorates a backend client with an LRU translation
// cache of the given size.
func WithTranslationCache(inner Client, size int) (Client, error) {
	if size <= 0 {
		size = 256
	}
	cache, err := lru.New[string, *TranslationResponse](size)
	if err != nil {
		return nil, fmt.Errorf("create translation cache: %w", err)
	}
	return &cachingClient{Client: inner, cache: cache}, nil
}

func (c *cachingClient) Translate(ctx context.Context, text, targetLanguage string) (*TranslationResponse, error) {
	key := targetLanguage + "\x00" + text
	if cached, ok := c.cache.Get(key); ok {
		return cached, nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		resp, err := c.Client.Translate(ctx, text, targetLanguage)
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, resp)
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*TranslationResponse), nil
}
