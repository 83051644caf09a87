// Package redis connects to Redis with go-redis and exposes a readiness probe.
//
// Connect retries the initial ping according to Config, so the service can
// start alongside a Redis container that is still booting:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	probe := redis.Healthcheck(client)
//
// Config is populated from REDIS_URL, REDIS_RETRY_ATTEMPTS,
// REDIS_RETRY_INTERVAL, REDIS_CONNECT_TIMEOUT and REDIS_KEY_PREFIX.
package redis
