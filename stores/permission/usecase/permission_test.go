package usecase

import (
	"crypto/ecdsa"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/permapi/base/ctx"
	"github.com/x-xyz/permapi/base/ethereum"
	"github.com/x-xyz/permapi/domain"
	mAdmin "github.com/x-xyz/permapi/domain/admin/mocks"
	"github.com/x-xyz/permapi/domain/permission"
	mPermission "github.com/x-xyz/permapi/domain/permission/mocks"
	mQuery "github.com/x-xyz/permapi/service/query/mocks"
)

const (
	testChainId  = domain.ChainId(1)
	testContract = domain.Address("0x00000000000000000000000000000000000000ff")
	targetA      = domain.Address("0x00000000000000000000000000000000000000a1")
	targetB      = domain.Address("0x00000000000000000000000000000000000000b2")
	targetC      = domain.Address("0x00000000000000000000000000000000000000c3")
	signerAddr   = domain.Address("0x00000000000000000000000000000000000000dd")
)

var testRequestId = domain.RequestId("0xabc" + strings.Repeat("0", 61))

type engineMocks struct {
	permissions *mPermission.Repo
	requests    *mPermission.RequestRepo
	events      *mPermission.EventRepo
	admin       *mAdmin.Usecase
	query       *mQuery.Mongo
}

func newTestEngine(t *testing.T) (permission.Usecase, *engineMocks, *ecdsa.PrivateKey, domain.Address) {
	t.Helper()

	priv, pub, err := ethereum.GenerateKey()
	require.NoError(t, err)
	adminAddr := domain.Address(crypto.PubkeyToAddress(*pub).Hex()).ToLower()

	m := &engineMocks{
		permissions: &mPermission.Repo{},
		requests:    &mPermission.RequestRepo{},
		events:      &mPermission.EventRepo{},
		admin:       &mAdmin.Usecase{},
		query:       &mQuery.Mongo{},
	}

	m.admin.On("IsAdmin", mock.Anything, mock.Anything).Return(func(c ctx.Ctx, a domain.Address) bool {
		return a.Equals(adminAddr)
	}, nil)

	m.query.On("RunWithTransaction", mock.Anything, mock.Anything).Return(func(c ctx.Ctx, run func(ctx.Ctx) error) error {
		return run(c)
	})

	u := New(&PermissionUseCaseCfg{
		PermissionRepo:    m.permissions,
		RequestRepo:       m.requests,
		EventRepo:         m.events,
		AdminUC:           m.admin,
		Query:             m.query,
		ChainId:           testChainId,
		VerifyingContract: testContract,
	})

	return u, m, priv, adminAddr
}

func newRequest(targets ...domain.Address) *permission.SignerPermissionRequest {
	return &permission.SignerPermissionRequest{
		Signer:                  signerAddr,
		ApprovedTargets:         targets,
		NativeValueLimitPerCall: "100",
		ValidFrom:               1000,
		ValidUntil:              3000,
		RequestValidFrom:        1000,
		RequestValidUntil:       2000,
		RequestId:               testRequestId,
	}
}

func signRequest(t *testing.T, req *permission.SignerPermissionRequest, priv *ecdsa.PrivateKey) string {
	t.Helper()
	digest, err := req.DigestHash(testChainId, testContract)
	require.NoError(t, err)
	sig, err := crypto.Sign(digest, priv)
	require.NoError(t, err)
	return hexutil.Encode(sig)
}

func stubTime(t *testing.T, unix int64) {
	t.Helper()
	old := timeNow
	timeNow = func() time.Time { return time.Unix(unix, 0) }
	t.Cleanup(func() { timeNow = old })
}

func TestDelegateStoresPermission(t *testing.T) {
	req := require.New(t)
	u, m, priv, adminAddr := newTestEngine(t)
	stubTime(t, 1500)

	request := newRequest(targetA, targetB, targetA)
	sig := signRequest(t, request, priv)

	var stored *permission.SignerPermission
	m.requests.On("IsExecuted", mock.Anything, testRequestId).Return(false, nil).Once()
	m.requests.On("MarkExecuted", mock.Anything, testRequestId).Return(nil).Once()
	m.permissions.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*permission.SignerPermission)
	}).Return(nil).Once()
	m.events.On("Insert", mock.Anything, mock.MatchedBy(func(e *permission.Event) bool {
		return e.Type == permission.EventTypePermissionUpdated && e.Approver == adminAddr && e.Signer == signerAddr
	})).Return(nil).Once()
	m.permissions.On("Invalidate", mock.Anything, signerAddr).Return(nil).Once()

	req.NoError(u.Delegate(ctx.Background(), request, sig))

	req.NotNil(stored)
	req.Equal(signerAddr, stored.Signer)
	// duplicated targets collapse, first occurrence order is kept
	req.Equal([]domain.Address{targetA, targetB}, stored.ApprovedTargets)
	req.Equal("100", stored.NativeValueLimitPerCall)
	req.Equal(int64(1000), stored.ValidFrom)
	req.Equal(int64(3000), stored.ValidUntil)

	m.requests.AssertExpectations(t)
	m.permissions.AssertExpectations(t)
	m.events.AssertExpectations(t)
}

func TestDelegateInvokesHooks(t *testing.T) {
	req := require.New(t)
	u, m, priv, adminAddr := newTestEngine(t)
	stubTime(t, 1500)

	request := newRequest(targetA)
	sig := signRequest(t, request, priv)

	m.requests.On("IsExecuted", mock.Anything, testRequestId).Return(false, nil)
	m.requests.On("MarkExecuted", mock.Anything, testRequestId).Return(nil)
	m.permissions.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	m.permissions.On("Invalidate", mock.Anything, mock.Anything).Return(nil)
	m.events.On("Insert", mock.Anything, mock.Anything).Return(nil)

	notified := make(chan domain.Address, 1)
	u.RegisterUpdateHook(func(c ctx.Ctx, approver domain.Address, r *permission.SignerPermissionRequest) {
		notified <- approver
	})

	req.NoError(u.Delegate(ctx.Background(), request, sig))

	select {
	case approver := <-notified:
		req.Equal(adminAddr, approver)
	case <-time.After(time.Second):
		req.Fail("hook was not invoked")
	}
}

func TestDelegateReplayRejected(t *testing.T) {
	req := require.New(t)
	u, m, priv, _ := newTestEngine(t)
	stubTime(t, 1500)

	request := newRequest(targetA)
	sig := signRequest(t, request, priv)

	m.requests.On("IsExecuted", mock.Anything, testRequestId).Return(true, nil).Once()

	req.Equal(domain.ErrReplayedRequest, u.Delegate(ctx.Background(), request, sig))
	m.permissions.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestDelegateReplacesWholesale(t *testing.T) {
	req := require.New(t)
	u, m, priv, _ := newTestEngine(t)
	stubTime(t, 1500)

	first := newRequest(targetA, targetB)
	second := newRequest(targetC)
	second.RequestId = domain.RequestId("0xdef" + strings.Repeat("0", 61))

	stored := []*permission.SignerPermission{}
	m.requests.On("IsExecuted", mock.Anything, mock.Anything).Return(false, nil)
	m.requests.On("MarkExecuted", mock.Anything, mock.Anything).Return(nil)
	m.permissions.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = append(stored, args.Get(1).(*permission.SignerPermission))
	}).Return(nil)
	m.permissions.On("Invalidate", mock.Anything, mock.Anything).Return(nil)
	m.events.On("Insert", mock.Anything, mock.Anything).Return(nil)

	req.NoError(u.Delegate(ctx.Background(), first, signRequest(t, first, priv)))
	req.NoError(u.Delegate(ctx.Background(), second, signRequest(t, second, priv)))

	req.Len(stored, 2)
	req.Equal([]domain.Address{targetA, targetB}, stored[0].ApprovedTargets)
	// second grant does not merge with the first
	req.Equal([]domain.Address{targetC}, stored[1].ApprovedTargets)
}

func TestDelegateInvalidatesCacheAfterCommit(t *testing.T) {
	req := require.New(t)
	u, m, priv, _ := newTestEngine(t)
	stubTime(t, 1500)

	request := newRequest(targetA)
	sig := signRequest(t, request, priv)

	order := []string{}
	m.requests.On("IsExecuted", mock.Anything, testRequestId).Return(false, nil)
	m.requests.On("MarkExecuted", mock.Anything, testRequestId).Return(nil)
	m.permissions.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		order = append(order, "upsert")
	}).Return(nil)
	m.permissions.On("Invalidate", mock.Anything, signerAddr).Run(func(args mock.Arguments) {
		order = append(order, "invalidate")
	}).Return(nil)
	m.events.On("Insert", mock.Anything, mock.Anything).Return(nil)

	req.NoError(u.Delegate(ctx.Background(), request, sig))

	// the cached record is dropped only once the transaction committed
	req.Equal([]string{"upsert", "invalidate"}, order)
}

func TestDelegateRejectsAdminSigner(t *testing.T) {
	req := require.New(t)
	u, _, _, adminAddr := newTestEngine(t)
	stubTime(t, 1500)

	request := newRequest(targetA)
	request.Signer = adminAddr

	// rejected before the signature is even looked at
	req.Equal(domain.ErrSignerIsAdmin, u.Delegate(ctx.Background(), request, "0x1234"))
}

func TestDelegateSubmissionWindow(t *testing.T) {
	req := require.New(t)
	u, m, priv, _ := newTestEngine(t)

	request := newRequest(targetA)
	sig := signRequest(t, request, priv)

	m.requests.On("IsExecuted", mock.Anything, mock.Anything).Return(false, nil)
	m.requests.On("MarkExecuted", mock.Anything, mock.Anything).Return(nil)
	m.permissions.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	m.permissions.On("Invalidate", mock.Anything, mock.Anything).Return(nil)
	m.events.On("Insert", mock.Anything, mock.Anything).Return(nil)

	// lower bound is inclusive
	stubTime(t, request.RequestValidFrom)
	req.NoError(u.Delegate(ctx.Background(), request, sig))

	// upper bound is exclusive
	stubTime(t, request.RequestValidUntil)
	req.Equal(domain.ErrRequestWindowExpired, u.Delegate(ctx.Background(), request, sig))

	stubTime(t, request.RequestValidFrom-1)
	req.Equal(domain.ErrRequestWindowExpired, u.Delegate(ctx.Background(), request, sig))
}

func TestDelegateRejectsNonAdminSignature(t *testing.T) {
	req := require.New(t)
	u, m, _, _ := newTestEngine(t)
	stubTime(t, 1500)

	outsider, _, err := ethereum.GenerateKey()
	req.NoError(err)

	request := newRequest(targetA)
	sig := signRequest(t, request, outsider)

	req.Equal(domain.ErrInvalidSignature, u.Delegate(ctx.Background(), request, sig))
	m.permissions.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestDelegateRejectsTamperedRequest(t *testing.T) {
	req := require.New(t)
	u, _, priv, _ := newTestEngine(t)
	stubTime(t, 1500)

	request := newRequest(targetA)
	sig := signRequest(t, request, priv)

	// recovery yields a different address for a tampered payload
	request.NativeValueLimitPerCall = "999"

	req.Equal(domain.ErrInvalidSignature, u.Delegate(ctx.Background(), request, sig))
}

func TestVerify(t *testing.T) {
	req := require.New(t)
	u, m, priv, adminAddr := newTestEngine(t)
	stubTime(t, 1500)

	request := newRequest(targetA)
	sig := signRequest(t, request, priv)

	m.requests.On("IsExecuted", mock.Anything, testRequestId).Return(false, nil)

	valid, recovered, err := u.Verify(ctx.Background(), request, sig)
	req.NoError(err)
	req.True(valid)
	req.Equal(adminAddr, recovered)

	// no state was touched
	m.requests.AssertNotCalled(t, "MarkExecuted", mock.Anything, mock.Anything)
	m.permissions.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestVerifyIgnoresSubmissionWindow(t *testing.T) {
	req := require.New(t)
	u, m, priv, adminAddr := newTestEngine(t)

	request := newRequest(targetA)
	sig := signRequest(t, request, priv)

	m.requests.On("IsExecuted", mock.Anything, testRequestId).Return(false, nil)

	// an unused id signed by an admin pre-validates regardless of the
	// submission window, before it opens and after it lapses
	stubTime(t, request.RequestValidFrom-100)
	valid, recovered, err := u.Verify(ctx.Background(), request, sig)
	req.NoError(err)
	req.True(valid)
	req.Equal(adminAddr, recovered)

	stubTime(t, request.RequestValidUntil+500)
	valid, recovered, err = u.Verify(ctx.Background(), request, sig)
	req.NoError(err)
	req.True(valid)
	req.Equal(adminAddr, recovered)

	// the same request is still rejected by Delegate outside the window
	req.Equal(domain.ErrRequestWindowExpired, u.Delegate(ctx.Background(), request, sig))
}

func TestVerifyReplayedRequest(t *testing.T) {
	req := require.New(t)
	u, m, priv, adminAddr := newTestEngine(t)
	stubTime(t, 1500)

	request := newRequest(targetA)
	sig := signRequest(t, request, priv)

	m.requests.On("IsExecuted", mock.Anything, testRequestId).Return(true, nil)

	valid, recovered, err := u.Verify(ctx.Background(), request, sig)
	req.NoError(err)
	req.False(valid)
	req.Equal(adminAddr, recovered)
}

func TestVerifyNonAdminSignature(t *testing.T) {
	req := require.New(t)
	u, _, _, _ := newTestEngine(t)
	stubTime(t, 1500)

	outsider, pub, err := ethereum.GenerateKey()
	req.NoError(err)
	outsiderAddr := domain.Address(crypto.PubkeyToAddress(*pub).Hex()).ToLower()

	request := newRequest(targetA)
	sig := signRequest(t, request, outsider)

	valid, recovered, err := u.Verify(ctx.Background(), request, sig)
	req.NoError(err)
	req.False(valid)
	req.Equal(outsiderAddr, recovered)
}

func TestVerifyMalformedSignature(t *testing.T) {
	req := require.New(t)
	u, _, _, _ := newTestEngine(t)
	stubTime(t, 1500)

	request := newRequest(targetA)

	valid, recovered, err := u.Verify(ctx.Background(), request, "0x1234")
	req.Equal(domain.ErrInvalidSignature, err)
	req.False(valid)
	req.Equal(domain.EmptyAddress, recovered)
}

func TestIsActiveSigner(t *testing.T) {
	req := require.New(t)
	u, m, _, _ := newTestEngine(t)

	perm := &permission.SignerPermission{
		Signer:          signerAddr,
		ApprovedTargets: []domain.Address{targetA},
		ValidFrom:       1000,
		ValidUntil:      3000,
	}
	m.permissions.On("FindOne", mock.Anything, signerAddr).Return(perm, nil)

	stubTime(t, 1000)
	active, err := u.IsActiveSigner(ctx.Background(), signerAddr)
	req.NoError(err)
	req.True(active)

	stubTime(t, 3000)
	active, err = u.IsActiveSigner(ctx.Background(), signerAddr)
	req.NoError(err)
	req.False(active)

	stubTime(t, 999)
	active, err = u.IsActiveSigner(ctx.Background(), signerAddr)
	req.NoError(err)
	req.False(active)
}

func TestIsActiveSignerEmptyTargets(t *testing.T) {
	req := require.New(t)
	u, m, _, _ := newTestEngine(t)
	stubTime(t, 1500)

	perm := &permission.SignerPermission{
		Signer:          signerAddr,
		ApprovedTargets: []domain.Address{},
		ValidFrom:       1000,
		ValidUntil:      3000,
	}
	m.permissions.On("FindOne", mock.Anything, signerAddr).Return(perm, nil)

	// an in-window grant with no targets is a revocation
	active, err := u.IsActiveSigner(ctx.Background(), signerAddr)
	req.NoError(err)
	req.False(active)
}

func TestIsActiveSignerUnknown(t *testing.T) {
	req := require.New(t)
	u, m, _, _ := newTestEngine(t)
	stubTime(t, 1500)

	m.permissions.On("FindOne", mock.Anything, signerAddr).Return(nil, domain.ErrNotFound)

	active, err := u.IsActiveSigner(ctx.Background(), signerAddr)
	req.NoError(err)
	req.False(active)
}

func TestGetPermissions(t *testing.T) {
	req := require.New(t)
	u, m, _, _ := newTestEngine(t)

	perm := &permission.SignerPermission{
		Signer:                  signerAddr,
		ApprovedTargets:         []domain.Address{targetA},
		NativeValueLimitPerCall: "1500000000000000000",
		ValidFrom:               1000,
		ValidUntil:              3000,
	}
	m.permissions.On("FindOne", mock.Anything, signerAddr).Return(perm, nil)

	info, err := u.GetPermissions(ctx.Background(), signerAddr)
	req.NoError(err)
	req.Equal(signerAddr, info.Signer)
	req.Equal("1500000000000000000", info.NativeValueLimitPerCall)
	req.Equal("1.5", info.NativeValueLimitDisplay)
}
