package permission

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/x-xyz/permapi/domain"
)

const (
	PrimaryType      = "SignerPermissionRequest"
	Eip712DomainName = "EIP712Domain"
)

// GetDomainSeparator binds protocol name, version, chain and engine instance,
// preventing cross-deployment and cross-network replay.
func GetDomainSeparator(chainId domain.ChainId, address domain.Address) apitypes.TypedDataDomain {
	return apitypes.TypedDataDomain{
		Name:              "XPermissions",
		Version:           "1",
		ChainId:           math.NewHexOrDecimal256(int64(chainId)),
		VerifyingContract: address.ToLowerStr(),
	}
}

// RequestTypes is the canonical schema of the delegation request. Field
// order, names and types are part of the signature compatibility contract.
var RequestTypes = apitypes.Types{
	"SignerPermissionRequest": {
		{Name: "signer", Type: "address"},
		{Name: "approvedTargets", Type: "address[]"},
		{Name: "nativeValueLimitPerCall", Type: "uint256"},
		{Name: "validFrom", Type: "uint256"},
		{Name: "validUntil", Type: "uint256"},
		{Name: "requestValidFrom", Type: "uint256"},
		{Name: "requestValidUntil", Type: "uint256"},
		{Name: "requestId", Type: "bytes32"},
	},
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
}

func (r *SignerPermissionRequest) ToMessage() apitypes.TypedDataMessage {
	targets := []interface{}{}
	for _, t := range r.ApprovedTargets {
		targets = append(targets, t.ToLowerStr())
	}
	return apitypes.TypedDataMessage{
		"signer":                  r.Signer.ToLowerStr(),
		"approvedTargets":         targets,
		"nativeValueLimitPerCall": r.NativeValueLimitPerCall,
		"validFrom":               strconv.FormatInt(r.ValidFrom, 10),
		"validUntil":              strconv.FormatInt(r.ValidUntil, 10),
		"requestValidFrom":        strconv.FormatInt(r.RequestValidFrom, 10),
		"requestValidUntil":       strconv.FormatInt(r.RequestValidUntil, 10),
		"requestId":               string(r.RequestId),
	}
}

// Hash returns the struct hash of the request, without domain binding
func (r *SignerPermissionRequest) Hash() ([]byte, error) {
	typedData := apitypes.TypedData{
		Types:       RequestTypes,
		PrimaryType: PrimaryType,
		Message:     r.ToMessage(),
	}
	return typedData.HashStruct(typedData.PrimaryType, typedData.Message)
}

// DigestHash returns the final domain bound digest that admins sign
func (r *SignerPermissionRequest) DigestHash(chainId domain.ChainId, verifyingContract domain.Address) ([]byte, error) {
	typedData := apitypes.TypedData{
		Types:       RequestTypes,
		PrimaryType: PrimaryType,
		Domain:      GetDomainSeparator(chainId, verifyingContract),
		Message:     r.ToMessage(),
	}

	domainSeparator, err := typedData.HashStruct(Eip712DomainName, typedData.Domain.Map())
	if err != nil {
		return nil, err
	}
	dataHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return nil, err
	}
	rawData := []byte(fmt.Sprintf("\x19\x01%s%s", string(domainSeparator), string(dataHash)))
	return crypto.Keccak256(rawData), nil
}
