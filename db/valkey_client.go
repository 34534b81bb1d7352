package db

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// ValkeyClient implements RedisClient on a Valkey-compatible server.
type ValkeyClient struct {
	client valkey.Client
	ctx    context.Context
}

func NewValkeyClient(ctx context.Context, client valkey.Client) *ValkeyClient {
	return &ValkeyClient{client: client, ctx: ctx}
}

func (v *ValkeyClient) Set(key, value string, ttl time.Duration) error {
	builder := v.client.B().Set().Key(key).Value(value)
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return v.client.Do(v.ctx, cmd).Error()
}

func (v *ValkeyClient) Get(key string) (string, error) {
	val, err := v.client.Do(v.ctx, v.client.B().Get().Key(key).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		return "", err
	}
	return val, nil
}

func (v *ValkeyClient) Del(key string) error {
	return v.client.Do(v.ctx, v.client.B().Del().Key(key).Build()).Error()
}

func (v *ValkeyClient) Keys(pattern string) ([]string, error) {
	keys, err := v.client.Do(v.ctx, v.client.B().Keys().Pattern(pattern).Build()).AsStrSlice()
	if err != nil && valkey.IsValkeyNil(err) {
		return nil, nil
	}
	return keys, err
}

func (v *ValkeyClient) GetContext() context.Context {
	return v.ctx
}

func (v *ValkeyClient) Ping() error {
	return v.client.Do(v.ctx, v.client.B().Ping().Build()).Error()
}

func (v *ValkeyClient) Close() error {
	v.client.Close()
	return nil
}
