package permission

import (
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/permapi/base/ethereum"
	"github.com/x-xyz/permapi/domain"
)

func makeRequest() *SignerPermissionRequest {
	return &SignerPermissionRequest{
		Signer: "0x71c7656ec7ab88b098defb751b7401b5f6d8976f",
		ApprovedTargets: []domain.Address{
			"0x0000000000000000000000000000000000000001",
			"0x0000000000000000000000000000000000000002",
		},
		NativeValueLimitPerCall: "100",
		ValidFrom:               1000,
		ValidUntil:              2000,
		RequestValidFrom:        0,
		RequestValidUntil:       3000,
		RequestId:               "0x0000000000000000000000000000000000000000000000000000000000000abc",
	}
}

func TestDigestHashIsDeterministic(t *testing.T) {
	req := require.New(t)

	r := makeRequest()
	h1, err := r.DigestHash(1, "0x0000000000000000000000000000000000001234")
	req.NoError(err)
	h2, err := r.DigestHash(1, "0x0000000000000000000000000000000000001234")
	req.NoError(err)
	req.Equal(h1, h2)
}

func TestDigestHashBindsDomain(t *testing.T) {
	req := require.New(t)

	r := makeRequest()
	h1, err := r.DigestHash(1, "0x0000000000000000000000000000000000001234")
	req.NoError(err)

	// other network
	h2, err := r.DigestHash(5, "0x0000000000000000000000000000000000001234")
	req.NoError(err)
	req.NotEqual(h1, h2)

	// other engine instance
	h3, err := r.DigestHash(1, "0x0000000000000000000000000000000000005678")
	req.NoError(err)
	req.NotEqual(h1, h3)
}

func TestDigestHashBindsEveryField(t *testing.T) {
	req := require.New(t)

	base := makeRequest()
	h1, err := base.DigestHash(1, "0x0000000000000000000000000000000000001234")
	req.NoError(err)

	mutated := makeRequest()
	mutated.NativeValueLimitPerCall = "101"
	h2, err := mutated.DigestHash(1, "0x0000000000000000000000000000000000001234")
	req.NoError(err)
	req.NotEqual(h1, h2)

	mutated = makeRequest()
	mutated.ApprovedTargets = mutated.ApprovedTargets[:1]
	h3, err := mutated.DigestHash(1, "0x0000000000000000000000000000000000001234")
	req.NoError(err)
	req.NotEqual(h1, h3)

	mutated = makeRequest()
	mutated.RequestId = "0x0000000000000000000000000000000000000000000000000000000000000abd"
	h4, err := mutated.DigestHash(1, "0x0000000000000000000000000000000000001234")
	req.NoError(err)
	req.NotEqual(h1, h4)
}

func TestSignAndRecoverDigest(t *testing.T) {
	req := require.New(t)

	privateKey, publicKey, err := ethereum.GenerateKey()
	req.NoError(err)
	signer := crypto.PubkeyToAddress(*publicKey)

	r := makeRequest()
	digest, err := r.DigestHash(1, "0x0000000000000000000000000000000000001234")
	req.NoError(err)

	sig, err := crypto.Sign(digest, privateKey)
	req.NoError(err)

	recovered, err := ethereum.RecoverHashSignature(digest, hexutil.Encode(sig))
	req.NoError(err)
	req.Equal(signer, recovered)
}
