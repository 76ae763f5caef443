package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/permapi/base/ctx"
	"github.com/x-xyz/permapi/base/database/mongoclient"
	"github.com/x-xyz/permapi/base/log"
	"github.com/x-xyz/permapi/domain"
	"github.com/x-xyz/permapi/domain/keys"
	"github.com/x-xyz/permapi/domain/permission"
	"github.com/x-xyz/permapi/service/cache"
	"github.com/x-xyz/permapi/service/cache/provider"
	"github.com/x-xyz/permapi/service/cache/provider/compound"
	"github.com/x-xyz/permapi/service/cache/provider/primitive"
	redisCache "github.com/x-xyz/permapi/service/cache/provider/redis"
	"github.com/x-xyz/permapi/service/query"
	"github.com/x-xyz/permapi/service/redis"
)

type impl struct {
	query           query.Mongo
	permissionCache cache.Service
}

// New creates new signer permission repo
func New(query query.Mongo, redis redis.Service) permission.Repo {
	cacheProviders := []provider.Provider{
		primitive.NewPrimitive("permission", 64),
	}

	if redis != nil {
		cacheProviders = append(cacheProviders, redisCache.NewRedis(redis))
	}

	return &impl{
		query: query,
		permissionCache: cache.New(cache.ServiceConfig{
			Ttl:   10 * time.Minute,
			Pfx:   keys.PfxPermissions,
			Cache: compound.NewCompound(cacheProviders),
		}),
	}
}

func (im *impl) FindOne(c ctx.Ctx, signer domain.Address) (*permission.SignerPermission, error) {
	res := &permission.SignerPermission{}

	if err := im.permissionCache.GetByFunc(c, signer.ToLowerStr(), res, func() (interface{}, error) {
		return im.findOne(c, signer)
	}); err != nil {
		return nil, err
	}

	return res, nil
}

func (im *impl) findOne(c ctx.Ctx, signer domain.Address) (*permission.SignerPermission, error) {
	res := &permission.SignerPermission{}

	err := im.query.FindOne(c, domain.TableSignerPermissions, bson.M{"signer": signer.ToLowerStr()}, res)
	if err != nil && err != query.ErrNotFound {
		c.WithFields(log.Fields{
			"signer": signer,
			"err":    err,
		}).Error("find signer permission failed")
	} else if err == query.ErrNotFound {
		err = domain.ErrNotFound
	}
	return res, err
}

func (im *impl) FindAll(c ctx.Ctx) ([]*permission.SignerPermission, error) {
	res := []*permission.SignerPermission{}

	// to prevent scancol error
	qry := bson.M{"signer": bson.M{"$exists": true}}

	if err := im.query.Search(c, domain.TableSignerPermissions, 0, 0, "signer", qry, &res); err != nil {
		return nil, err
	}

	return res, nil
}

// Upsert replaces the stored permission of the signer wholesale. It runs
// inside the delegate transaction, so the cache is not touched here; a Del
// before commit would let a concurrent read refill it with the pre commit
// record. Callers invalidate after the transaction commits.
func (im *impl) Upsert(c ctx.Ctx, value *permission.SignerPermission) error {
	slr, err := mongoclient.MakeBsonM(&permission.SignerPermission{Signer: value.Signer.ToLower()})
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	}

	if err := im.query.Upsert(c, domain.TableSignerPermissions, slr, value); err != nil {
		c.WithFields(log.Fields{
			"signer": value.Signer,
			"err":    err,
		}).Error("upsert signer permission failed")
		return err
	}

	return nil
}

// Invalidate drops the cached record of the signer
func (im *impl) Invalidate(c ctx.Ctx, signer domain.Address) error {
	if err := im.permissionCache.Del(c, signer.ToLowerStr()); err != nil {
		c.WithFields(log.Fields{
			"signer": signer,
			"err":    err,
		}).Error("permissionCache.Del failed")
		return err
	}
	return nil
}
