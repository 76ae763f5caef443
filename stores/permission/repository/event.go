package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/permapi/base/ctx"
	"github.com/x-xyz/permapi/domain"
	"github.com/x-xyz/permapi/domain/permission"
	"github.com/x-xyz/permapi/service/query"
)

type eventImpl struct {
	q query.Mongo
}

func NewEventRepo(q query.Mongo) permission.EventRepo {
	return &eventImpl{q}
}

func (im *eventImpl) Insert(c ctx.Ctx, event *permission.Event) error {
	if err := im.q.Insert(c, domain.TablePermissionEvents, event); err != nil {
		c.WithField("err", err).WithField("event", *event).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *eventImpl) FindBySigner(c ctx.Ctx, signer domain.Address) ([]*permission.Event, error) {
	res := []*permission.Event{}

	qry := bson.M{"signer": signer.ToLowerStr()}

	if err := im.q.Search(c, domain.TablePermissionEvents, 0, 0, "-createdAt", qry, &res); err != nil {
		return nil, err
	}

	return res, nil
}
