package mongoclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/permapi/base/ptr"
)

func TestMakeBsonM(t *testing.T) {
	type PatchableRecord struct {
		Signer     *string `bson:"signer,omitempty"`
		ValidFrom  *int64  `bson:"validFrom,omitempty"`
		ValidUntil int64   `bson:"validUntil"`
		Note       string  `bson:"note"`
	}

	patchable := &PatchableRecord{}
	patchable.Signer = ptr.String("")
	patchable.ValidFrom = ptr.Int64(10)
	patchable.Note = "hey!yo!"

	updater, err := MakeBsonM(patchable)

	assert.NoError(t, err)
	assert.Equal(
		t,
		bson.M{
			"signer":    "",
			"validFrom": int64(10),
			// field validUntil is zero, so ignore
			"note": "hey!yo!",
		},
		updater,
	)
}
