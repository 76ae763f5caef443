package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/permapi/base/ctx"
	"github.com/x-xyz/permapi/base/database/mongoclient"
	"github.com/x-xyz/permapi/domain"
	"github.com/x-xyz/permapi/domain/admin"
	"github.com/x-xyz/permapi/service/query"
)

type impl struct {
	q query.Mongo
}

func New(q query.Mongo) admin.Repo {
	return &impl{q}
}

func (im *impl) FindAll(c ctx.Ctx) ([]*admin.Admin, error) {
	res := []*admin.Admin{}

	// to prevent scancol error
	qry := bson.M{"address": bson.M{"$exists": true}}

	if err := im.q.Search(c, domain.TableAdmins, 0, 0, "_id", qry, &res); err != nil {
		return nil, err
	}

	return res, nil
}

func (im *impl) FindOne(c ctx.Ctx, address domain.Address) (*admin.Admin, error) {
	res := &admin.Admin{}

	if qry, err := mongoclient.MakeBsonM(&admin.Admin{Address: address.ToLower()}); err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return nil, err
	} else if err := im.q.FindOne(c, domain.TableAdmins, qry, res); err != nil && err != query.ErrNotFound {
		c.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	} else if err == query.ErrNotFound {
		return nil, nil
	}
	return res, nil
}

func (im *impl) Create(c ctx.Ctx, value admin.Admin) error {
	if err := im.q.Insert(c, domain.TableAdmins, value); err != nil {
		c.WithField("err", err).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *impl) Delete(c ctx.Ctx, address domain.Address) error {
	if slr, err := mongoclient.MakeBsonM(admin.Admin{Address: address.ToLower()}); err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	} else if err := im.q.Remove(c, domain.TableAdmins, slr); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("q.Remove failed")
		return err
	}
	return nil
}
