package postal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
)

// CachedLookuper keeps resolved addresses in Redis. Cache errors fall
// through to the wrapped Lookuper.
type CachedLookuper struct {
	next   Lookuper
	client *redis.Client
	ttl    time.Duration
	log    logrus.FieldLogger
}

func NewCachedLookuper(next Lookuper, client *redis.Client, ttl time.Duration, log logrus.FieldLogger) *CachedLookuper {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &CachedLookuper{next: next, client: client, ttl: ttl, log: log}
}

func cacheKey(cep string) string {
	return fmt.Sprintf("cep:%s", cep)
}

func (c *CachedLookuper) Lookup(ctx context.Context, code string) (domain.Address, error) {
	cep, err := NormalizeCode(code)
	if err != nil {
		return domain.Address{}, err
	}

	data, err := c.client.Get(ctx, cacheKey(cep)).Bytes()
	switch {
	case err == nil:
		var addr domain.Address
		if err := json.Unmarshal(data, &addr); err == nil {
			return addr, nil
		}
		c.log.WithField("cep", cep).Warn("discarding unreadable cached address")
	case !errors.Is(err, redis.Nil):
		c.log.WithError(err).Warn("postal cache read failed")
	}

	addr, err := c.next.Lookup(ctx, cep)
	if err != nil {
		return domain.Address{}, err
	}

	if data, err := json.Marshal(addr); err == nil {
		if err := c.client.Set(ctx, cacheKey(cep), data, c.ttl).Err(); err != nil {
			c.log.WithError(err).Warn("postal cache write failed")
		}
	}
	return addr, nil
}
