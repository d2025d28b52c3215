package document

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mohammad-safakhou/computesales/config"
	"github.com/mohammad-safakhou/computesales/internal/report"
)

// NewLoaderForConfig builds a Loader for names, connecting remote sources only
// when some name refers to them. The returned close func releases them.
func NewLoaderForConfig(ctx context.Context, cfg config.StorageConfig, out report.Printer, log zerolog.Logger, names ...string) (*Loader, func() error, error) {
	opts := []Option{WithLogger(log)}
	closeFn := func() error { return nil }

	var needS3, needRedis bool
	for _, n := range names {
		needS3 = needS3 || strings.HasPrefix(n, s3Prefix)
		needRedis = needRedis || strings.HasPrefix(n, redisPrefix)
	}

	if needS3 {
		src, err := NewS3Source(ctx, cfg.S3)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, WithS3(src))
		log.Debug().Str("region", cfg.S3.Region).Str("endpoint", cfg.S3.Endpoint).Msg("s3 source enabled")
	}
	if needRedis {
		client, err := NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, WithRedis(NewRedisSource(client)))
		closeFn = client.Close
		log.Debug().Str("addr", client.Options().Addr).Int("db", cfg.Redis.DB).Msg("redis source enabled")
	}
	return NewLoader(out, opts...), closeFn, nil
}
