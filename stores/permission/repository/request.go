package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/permapi/base/ctx"
	"github.com/x-xyz/permapi/domain"
	"github.com/x-xyz/permapi/domain/permission"
	"github.com/x-xyz/permapi/service/query"
)

type executedRequest struct {
	RequestId  domain.RequestId `bson:"requestId"`
	ExecutedAt time.Time        `bson:"executedAt"`
}

type requestImpl struct {
	q query.Mongo
}

// NewRequestRepo creates the executed request id book keeper. The table
// carries a unique index on requestId, see EnsureIndexes.
func NewRequestRepo(q query.Mongo) permission.RequestRepo {
	return &requestImpl{q}
}

// EnsureIndexes creates the unique index replay protection relies on
func EnsureIndexes(c ctx.Ctx, q query.Mongo) error {
	if err := q.EnsureIndex(c, domain.TableExecutedRequests, true, "requestId"); err != nil {
		c.WithField("err", err).Error("q.EnsureIndex failed")
		return err
	}
	return nil
}

func (im *requestImpl) IsExecuted(c ctx.Ctx, id domain.RequestId) (bool, error) {
	if n, err := im.q.Count(c, domain.TableExecutedRequests, bson.M{"requestId": id.ToLower()}); err != nil {
		c.WithField("err", err).WithField("requestId", id).Error("q.Count failed")
		return false, err
	} else {
		return n > 0, nil
	}
}

func (im *requestImpl) MarkExecuted(c ctx.Ctx, id domain.RequestId) error {
	record := executedRequest{
		RequestId:  id.ToLower(),
		ExecutedAt: time.Now(),
	}
	if err := im.q.Insert(c, domain.TableExecutedRequests, record); err == query.ErrDuplicateKey {
		return domain.ErrReplayedRequest
	} else if err != nil {
		c.WithField("err", err).WithField("requestId", id).Error("q.Insert failed")
		return err
	}
	return nil
}
