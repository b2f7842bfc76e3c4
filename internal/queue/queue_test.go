package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"park-with-ease/internal/cache"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func restoreGlobals() {
	newID = uuid.NewString
	timeNow = time.Now
}

// memCache is a FakeCache backed by a map and a slice.
func memCache() (*cache.FakeCache, map[string][]byte, *[][]byte) {
	kv := map[string][]byte{}
	list := [][]byte{}
	c := &cache.FakeCache{
		SetFn: func(_ context.Context, key string, val any, _ time.Duration) *redis.StatusCmd {
			kv[key] = val.([]byte)
			return redis.NewStatusResult("OK", nil)
		},
		GetFn: func(_ context.Context, key string) *redis.StringCmd {
			v, ok := kv[key]
			if !ok {
				return redis.NewStringResult("", redis.Nil)
			}
			return redis.NewStringResult(string(v), nil)
		},
		LPushFn: func(_ context.Context, _ string, values ...any) *redis.IntCmd {
			for _, v := range values {
				list = append([][]byte{v.([]byte)}, list...)
			}
			return redis.NewIntResult(int64(len(list)), nil)
		},
		BRPopFn: func(_ context.Context, _ time.Duration, keys ...string) *redis.StringSliceCmd {
			if len(list) == 0 {
				return redis.NewStringSliceResult(nil, redis.Nil)
			}
			last := list[len(list)-1]
			list = list[:len(list)-1]
			return redis.NewStringSliceResult([]string{keys[0], string(last)}, nil)
		},
	}
	return c, kv, &list
}

func TestSubmitAndNext(t *testing.T) {
	t.Cleanup(restoreGlobals)
	ctx := context.Background()
	ids := []string{"job-1", "job-2"}
	newID = func() string { id := ids[0]; ids = ids[1:]; return id }

	c, kv, _ := memCache()
	q := NewRedisQueue(c, 0)
	require.Equal(t, DefaultResultTTL, q.ttl)

	id1, err := q.Submit(ctx, KindExportCSV, 7)
	require.NoError(t, err)
	require.Equal(t, "job-1", id1)
	id2, err := q.Submit(ctx, KindSendReminders, 0)
	require.NoError(t, err)

	var pending Result
	require.NoError(t, json.Unmarshal(kv["parking:job:job-1"], &pending))
	require.Equal(t, StatePending, pending.State)
	require.Equal(t, 7, pending.UserID)

	job, err := q.Next(ctx, time.Second)
	require.NoError(t, err)
	require.Equal(t, id1, job.ID)
	require.Equal(t, KindExportCSV, job.Kind)
	job, err = q.Next(ctx, time.Second)
	require.NoError(t, err)
	require.Equal(t, id2, job.ID)

	job, err = q.Next(ctx, time.Second)
	require.NoError(t, err)
	require.Nil(t, job)
}

func TestStatus(t *testing.T) {
	t.Cleanup(restoreGlobals)
	ctx := context.Background()
	c, kv, _ := memCache()
	q := NewRedisQueue(c, time.Hour)

	_, err := q.Status(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, q.SetResult(ctx, Result{ID: "j", Kind: KindExportCSV, UserID: 7, State: StateSuccess, Filename: "user_7_j.csv"}))
	r, err := q.Status(ctx, "j")
	require.NoError(t, err)
	require.Equal(t, StateSuccess, r.State)
	require.Equal(t, "user_7_j.csv", r.Filename)

	kv["parking:job:bad"] = []byte("{")
	_, err = q.Status(ctx, "bad")
	require.ErrorContains(t, err, "decode job bad")

	c.GetFn = func(context.Context, string) *redis.StringCmd { return redis.NewStringResult("", errors.New("down")) }
	_, err = q.Status(ctx, "j")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestQueueErrors(t *testing.T) {
	t.Cleanup(restoreGlobals)
	ctx := context.Background()

	c, _, _ := memCache()
	c.SetFn = func(context.Context, string, any, time.Duration) *redis.StatusCmd {
		return redis.NewStatusResult("", errors.New("set"))
	}
	q := NewRedisQueue(c, time.Hour)
	_, err := q.Submit(ctx, KindExportCSV, 1)
	require.ErrorContains(t, err, "store job")

	c, _, _ = memCache()
	c.LPushFn = func(context.Context, string, ...any) *redis.IntCmd { return redis.NewIntResult(0, errors.New("push")) }
	q = NewRedisQueue(c, time.Hour)
	_, err = q.Submit(ctx, KindExportCSV, 1)
	require.ErrorContains(t, err, "enqueue job")

	c, _, _ = memCache()
	c.BRPopFn = func(context.Context, time.Duration, ...string) *redis.StringSliceCmd {
		return redis.NewStringSliceResult([]string{QueueKey, "not json"}, nil)
	}
	q = NewRedisQueue(c, time.Hour)
	_, err = q.Next(ctx, time.Second)
	require.ErrorContains(t, err, "decode job")

	c.BRPopFn = func(context.Context, time.Duration, ...string) *redis.StringSliceCmd {
		return redis.NewStringSliceResult(nil, errors.New("conn"))
	}
	_, err = q.Next(ctx, time.Second)
	require.ErrorContains(t, err, "dequeue job")
}
