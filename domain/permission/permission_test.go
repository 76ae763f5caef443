package permission

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/x-xyz/permapi/domain"
)

func TestToSignerPermission(t *testing.T) {
	now := time.Unix(1500, 0)
	r := &SignerPermissionRequest{
		Signer: "0x71C7656EC7ab88b098defB751B7401B5f6d8976F",
		ApprovedTargets: []domain.Address{
			"0x0000000000000000000000000000000000000001",
			"0x0000000000000000000000000000000000000002",
			// duplicates collapse to set semantics
			"0x0000000000000000000000000000000000000001",
		},
		NativeValueLimitPerCall: "100",
		ValidFrom:               1000,
		ValidUntil:              2000,
	}

	p := r.ToSignerPermission(now)
	assert.Equal(t, domain.Address("0x71c7656ec7ab88b098defb751b7401b5f6d8976f"), p.Signer)
	assert.Equal(t, []domain.Address{
		"0x0000000000000000000000000000000000000001",
		"0x0000000000000000000000000000000000000002",
	}, p.ApprovedTargets)
	assert.Equal(t, "100", p.NativeValueLimitPerCall)
	assert.Equal(t, int64(1000), p.ValidFrom)
	assert.Equal(t, int64(2000), p.ValidUntil)
	assert.Equal(t, now.UTC(), p.UpdatedAt)
}

func TestToSignerPermissionEmptyTargets(t *testing.T) {
	r := &SignerPermissionRequest{
		Signer:     "0x71c7656ec7ab88b098defb751b7401b5f6d8976f",
		ValidFrom:  0,
		ValidUntil: 1 << 40,
	}
	p := r.ToSignerPermission(time.Now())
	assert.Empty(t, p.ApprovedTargets)
}
