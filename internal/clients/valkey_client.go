package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spacesedan/feedsheet/internal/models"
	"github.com/valkey-io/valkey-go"
)

const releaseLockScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) else return 0 end`

type ValkeyOptions struct {
	Addr     string
	Password string
	TLS      bool
}

func NewValkeyClient(opts ValkeyOptions) (valkey.Client, error) {
	clientOpts := valkey.ClientOption{
		InitAddress:      []string{opts.Addr},
		Password:         opts.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if opts.TLS {
		clientOpts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey")
	return client, nil
}

// ValkeyLock is a single holder lock keyed per spreadsheet tab. It keeps two
// sync runs from appending to the same sink at once.
type ValkeyLock struct {
	client valkey.Client
	key    string
	token  string
	ttl    time.Duration
}

func NewValkeyLock(client valkey.Client, spreadsheetID, sheetName string) *ValkeyLock {
	return &ValkeyLock{
		client: client,
		key:    fmt.Sprintf("sync:lock:%s:%s", spreadsheetID, sheetName),
		token:  uuid.NewString(),
		ttl:    LOCK_TTL,
	}
}

// Acquire returns models.ErrLockHeld when another run owns the key.
func (l *ValkeyLock) Acquire(ctx context.Context) error {
	cmd := l.client.B().Set().Key(l.key).Value(l.token).Nx().ExSeconds(int64(l.ttl.Seconds())).Build()
	err := l.client.Do(ctx, cmd).Error()
	if valkey.IsValkeyNil(err) {
		return fmt.Errorf("[ValkeyLock] %s: %w", l.key, models.ErrLockHeld)
	}
	if err != nil {
		return fmt.Errorf("[ValkeyLock] failed to acquire %s: %w", l.key, err)
	}

	slog.Debug("[ValkeyLock] Acquired", slog.String("key", l.key))
	return nil
}

// Release deletes the key only if this lock still owns it.
func (l *ValkeyLock) Release(ctx context.Context) error {
	cmd := l.client.B().Eval().Script(releaseLockScript).Numkeys(1).Key(l.key).Arg(l.token).Build()
	if err := l.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("[ValkeyLock] failed to release %s: %w", l.key, err)
	}

	slog.Debug("[ValkeyLock] Released", slog.String("key", l.key))
	return nil
}
