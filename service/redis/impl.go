package redis

import (
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/x-xyz/permapi/base/ctx"
	"github.com/x-xyz/permapi/base/metrics"
)

const (
	keyAttribute = "key"
)

type redImpl struct {
	name string
	met  metrics.Service
	pool *redis.Pool
}

// New redis service backed by the given pool
func New(name string, met metrics.Service, pool *redis.Pool) Service {
	return &redImpl{
		name: name,
		met:  met,
		pool: pool,
	}
}

func (r *redImpl) getConn() (redis.Conn, error) {
	defer r.met.BumpTime("getconn.time", "cluster", r.name).End()

	conn := r.pool.Get()
	if err := conn.Err(); err != nil {
		r.met.BumpSum("getConn.err", 1, "cluster", r.name, "reason", err.Error())
		return nil, err
	}
	return conn, nil
}

func (r *redImpl) connDo(context ctx.Ctx, commandName string, args ...interface{}) (interface{}, error) {
	defer r.met.BumpTime("command.time", "cluster", r.name, "command", commandName).End()

	conn, err := r.getConn()
	if err != nil {
		context.WithField("err", err).Error("redis getConn failed")
		return nil, err
	}
	defer conn.Close()

	reply, err := conn.Do(commandName, args...)
	if err != nil {
		r.met.BumpSum("command.err", 1, "cluster", r.name, "command", commandName)
	}
	return reply, err
}

func (r *redImpl) Get(context ctx.Ctx, key string) ([]byte, error) {
	reply, err := r.connDo(context, "GET", key)
	if err != nil {
		context.WithField("err", err).WithField(keyAttribute, key).Error("redis GET failed")
		return nil, err
	}
	if reply == nil {
		return nil, ErrNotFound
	}
	return redis.Bytes(reply, nil)
}

func (r *redImpl) Set(context ctx.Ctx, key string, value []byte, expire time.Duration) error {
	var err error
	if expire > 0 {
		_, err = r.connDo(context, "SET", key, value, "PX", int64(expire/time.Millisecond))
	} else {
		_, err = r.connDo(context, "SET", key, value)
	}
	if err != nil {
		context.WithField("err", err).WithField(keyAttribute, key).Error("redis SET failed")
		return err
	}
	return nil
}

func (r *redImpl) Del(context ctx.Ctx, key string) (int, error) {
	reply, err := r.connDo(context, "DEL", key)
	if err != nil {
		context.WithField("err", err).WithField(keyAttribute, key).Error("redis DEL failed")
		return 0, err
	}
	return redis.Int(reply, nil)
}

func (r *redImpl) Incrby(context ctx.Ctx, key string, diff int) (int64, error) {
	reply, err := r.connDo(context, "INCRBY", key, diff)
	if err != nil {
		context.WithField("err", err).WithField(keyAttribute, key).Error("redis INCRBY failed")
		return 0, err
	}
	return redis.Int64(reply, nil)
}

func (r *redImpl) TTL(context ctx.Ctx, key string) (int, error) {
	reply, err := r.connDo(context, "TTL", key)
	if err != nil {
		context.WithField("err", err).WithField(keyAttribute, key).Error("redis TTL failed")
		return 0, err
	}
	return redis.Int(reply, nil)
}

func (r *redImpl) Exists(context ctx.Ctx, key string) (bool, error) {
	reply, err := r.connDo(context, "EXISTS", key)
	if err != nil {
		context.WithField("err", err).WithField(keyAttribute, key).Error("redis EXISTS failed")
		return false, err
	}
	return redis.Bool(reply, nil)
}
