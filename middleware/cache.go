package middleware

import (
	"context"
	"time"

	"cityguide/config"
	"cityguide/utils"

	"github.com/gofiber/fiber/v2"
)

const cacheKeyPrefix = "cache:"

// Cache serves successful GET responses from utils.ResponseCache. It is a pass-through
// when no cache is configured.
func Cache() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cache := utils.ResponseCache
		if cache == nil || c.Method() != fiber.MethodGet {
			return c.Next()
		}

		key := cacheKeyPrefix + c.OriginalURL()
		if cached, err := cache.Get(c.UserContext(), key); err == nil {
			c.Set("X-Cache", "HIT")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
			return c.Status(fiber.StatusOK).Send(cached)
		}

		c.Set("X-Cache", "MISS")
		if err := c.Next(); err != nil {
			return err
		}

		if c.Response().StatusCode() == fiber.StatusOK {
			body := append([]byte(nil), c.Response().Body()...)
			ttl := time.Duration(config.AppConfig.CacheTTLSeconds) * time.Second
			if err := cache.Set(c.UserContext(), key, body, ttl); err != nil {
				utils.Logger.Warn().Err(err).Str("key", key).Msg("cache store failed")
			}
		}
		return nil
	}
}

// InvalidateCache drops cached responses whose path starts with prefix
func InvalidateCache(ctx context.Context, prefix string) {
	cache := utils.ResponseCache
	if cache == nil {
		return
	}
	if err := cache.DeletePrefix(ctx, cacheKeyPrefix+prefix); err != nil {
		utils.Logger.Warn().Err(err).Str("prefix", prefix).Msg("cache invalidation failed")
	}
}
