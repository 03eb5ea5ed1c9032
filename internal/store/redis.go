package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"SheetBoard/internal/state"
)

// DefaultRedisAddr is used when no address is configured.
const DefaultRedisAddr = "localhost:6379"

const (
	redisSheetsKey  = "sheetboard:sheets"
	redisDataPrefix = "sheetboard:sheet_data:"
)

// Redis keeps sheet metadata in one hash and each sheet's content under
// its own key.
type Redis struct {
	rdb *redis.Client
}

func OpenRedis(ctx context.Context, addr string) (*Redis, error) {
	if addr == "" {
		addr = DefaultRedisAddr
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("store: connect redis %s: %w", addr, err)
	}
	return &Redis{rdb: rdb}, nil
}

func (r *Redis) ListSheets(ctx context.Context, userID string) ([]Sheet, error) {
	all, err := r.rdb.HGetAll(ctx, redisSheetsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("store: list sheets: %w", err)
	}
	out := make([]Sheet, 0, len(all))
	for id, v := range all {
		var s Sheet
		if err := json.Unmarshal([]byte(v), &s); err != nil {
			return nil, fmt.Errorf("store: decode sheet %s: %w", id, err)
		}
		if userID == "" || s.UserID == userID {
			out = append(out, s)
		}
	}
	sortSheets(out)
	return out, nil
}

func (r *Redis) GetSheet(ctx context.Context, id string) (Sheet, error) {
	v, err := r.rdb.HGet(ctx, redisSheetsKey, id).Result()
	if errors.Is(err, redis.Nil) {
		return Sheet{}, fmt.Errorf("%w: %s", ErrSheetNotFound, id)
	}
	if err != nil {
		return Sheet{}, fmt.Errorf("store: get sheet %s: %w", id, err)
	}
	var s Sheet
	if err := json.Unmarshal([]byte(v), &s); err != nil {
		return Sheet{}, fmt.Errorf("store: decode sheet %s: %w", id, err)
	}
	return s, nil
}

func (r *Redis) putSheet(ctx context.Context, s Sheet) error {
	v, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.rdb.HSet(ctx, redisSheetsKey, s.ID, v).Err()
}

func (r *Redis) CreateSheet(ctx context.Context, userID, name string) (Sheet, error) {
	s := newSheet(userID, name)
	if err := r.putSheet(ctx, s); err != nil {
		return Sheet{}, fmt.Errorf("store: create sheet: %w", err)
	}
	return s, nil
}

func (r *Redis) UpdateSheet(ctx context.Context, sheet Sheet) (Sheet, error) {
	ok, err := r.rdb.HExists(ctx, redisSheetsKey, sheet.ID).Result()
	if err != nil {
		return Sheet{}, fmt.Errorf("store: update sheet %s: %w", sheet.ID, err)
	}
	if !ok {
		return Sheet{}, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet.ID)
	}
	sheet.UpdatedAt = now()
	if err := r.putSheet(ctx, sheet); err != nil {
		return Sheet{}, fmt.Errorf("store: update sheet %s: %w", sheet.ID, err)
	}
	return sheet, nil
}

func (r *Redis) DeleteSheet(ctx context.Context, id string) error {
	n, err := r.rdb.HDel(ctx, redisSheetsKey, id).Result()
	if err != nil {
		return fmt.Errorf("store: delete sheet %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, id)
	}
	return r.rdb.Del(ctx, redisDataPrefix+id).Err()
}

func (r *Redis) LoadSheet(ctx context.Context, id string) (state.SheetData, error) {
	v, err := r.rdb.Get(ctx, redisDataPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return emptyData(id), nil
	}
	if err != nil {
		return state.SheetData{}, fmt.Errorf("store: load sheet %s: %w", id, err)
	}
	var data state.SheetData
	if err := json.Unmarshal(v, &data); err != nil {
		return state.SheetData{}, fmt.Errorf("store: decode sheet %s: %w", id, err)
	}
	return data, nil
}

func (r *Redis) SaveSheet(ctx context.Context, data state.SheetData) error {
	v, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("store: encode sheet %s: %w", data.ID, err)
	}
	if err := r.rdb.Set(ctx, redisDataPrefix+data.ID, v, 0).Err(); err != nil {
		return fmt.Errorf("store: save sheet %s: %w", data.ID, err)
	}
	s, err := r.GetSheet(ctx, data.ID)
	if errors.Is(err, ErrSheetNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	s.UpdatedAt = now()
	return r.putSheet(ctx, s)
}

func (r *Redis) Close() error { return r.rdb.Close() }
