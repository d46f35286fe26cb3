package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const sessionPrefix = "sess:"

type dumpOptions struct {
	UserID  string
	Delete  bool
	Count   int64
	Timeout time.Duration
}

// dump walks sess:* with SCAN and prints one entry per session.
// Session ids are truncated; the full value is a bearer credential.
func dump(rdb *goredis.Client, w io.Writer, opts dumpOptions) (int, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Second
	}
	if opts.Count <= 0 {
		opts.Count = 200
	}

	var cursor uint64
	total := 0

	for {
		ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
		keys, next, err := rdb.Scan(ctx, cursor, sessionPrefix+"*", opts.Count).Result()
		cancel()
		if err != nil {
			return total, err
		}

		for _, k := range keys {
			ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
			uid, err := rdb.Get(ctx, k).Result()
			ttl, _ := rdb.TTL(ctx, k).Result()
			cancel()
			if errors.Is(err, goredis.Nil) {
				// expired between SCAN and GET
				continue
			}
			if err != nil {
				return total, err
			}
			if opts.UserID != "" && uid != opts.UserID {
				continue
			}

			total++
			fmt.Fprintf(w, "%d) sid=%s user=%s ttl=%s\n", total, shortSID(k), uid, ttl)

			if opts.Delete {
				ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
				err := rdb.Del(ctx, k).Err()
				cancel()
				if err != nil {
					fmt.Fprintf(w, "   DEL error: %v\n", err)
				} else {
					fmt.Fprintln(w, "   revoked")
				}
			}
		}

		cursor = next
		if cursor == 0 {
			return total, nil
		}
	}
}

func shortSID(key string) string {
	sid := strings.TrimPrefix(key, sessionPrefix)
	if len(sid) <= 8 {
		return sid
	}
	return sid[:8] + "..."
}
