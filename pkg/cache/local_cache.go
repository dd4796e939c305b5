package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// LocalCache 基于github.com/patrickmn/go-cache的本地cache
// expire为0时key没有超时时间，清理内存中超时key的时间间隔是1min
type LocalCache struct {
	c      *gocache.Cache
	expire time.Duration
}

func NewLocalCache(expire time.Duration) *LocalCache {
	if expire <= 0 {
		expire = gocache.NoExpiration
	}
	return &LocalCache{
		c:      gocache.New(expire, time.Minute),
		expire: expire,
	}
}

func (lc *LocalCache) Get(key string) (interface{}, bool) {
	return lc.c.Get(key)
}

func (lc *LocalCache) Set(key string, value interface{}) {
	lc.c.Set(key, value, gocache.DefaultExpiration)
}

func (lc *LocalCache) Delete(key string) {
	lc.c.Delete(key)
}

func (lc *LocalCache) ItemCount() int {
	return lc.c.ItemCount()
}
