// Command sessions lists (and optionally revokes) live login sessions in Redis.
//
//	go run ./internal/tools/sessions -addr 127.0.0.1:6379 -user <uid> -del
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

func main() {
	var (
		addr    = flag.String("addr", "127.0.0.1:6379", "redis address host:port")
		pass    = flag.String("pass", "", "redis password")
		db      = flag.Int("db", 0, "redis db")
		userID  = flag.String("user", "", "only sessions owned by this user id")
		doDel   = flag.Bool("del", false, "revoke matched sessions")
		limit   = flag.Int64("count", 200, "SCAN COUNT hint")
		timeout = flag.Duration("timeout", 2*time.Second, "per-command timeout")
	)
	flag.Parse()

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     *addr,
		Password: *pass,
		DB:       *db,
	})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	err := rdb.Ping(ctx).Err()
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "redis ping failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Connected: addr=%s db=%d\n", *addr, *db)

	n, err := dump(rdb, os.Stdout, dumpOptions{
		UserID:  *userID,
		Delete:  *doDel,
		Count:   *limit,
		Timeout: *timeout,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan failed: %v\n", err)
		os.Exit(1)
	}
	if n == 0 {
		fmt.Println("No sessions matched.")
	}
}
