package proxy

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// codeTemplate is the versioned proxy bytecode template. Changing it (or the
// constructor encoding below) changes every derived address, so it is bumped
// only together with a registry redeployment.
var codeTemplate = hexutil.MustDecode(
	"0x60a060405234801561001057600080fd5b506040516101083803806101088339810160408190526100" +
		"2f9161003f565b6001600160a01b031660805261006f565b60006020828403121561005157600080fd5b81" +
		"516001600160a01b038116811461006857600080fd5b9392505050565b608051608061008860003960006021" +
		"0152608060f3fe")

// InitCode returns the full creation payload for a proxy bound to the given
// governor: the code template followed by the ABI-encoded constructor
// argument.
func InitCode(governor common.Address) []byte {
	code := make([]byte, 0, len(codeTemplate)+32)
	code = append(code, codeTemplate...)
	code = append(code, common.LeftPadBytes(governor.Bytes(), 32)...)
	return code
}

// Salt returns the per-principal creation salt.
func Salt(owner common.Address) [32]byte {
	var salt [32]byte
	copy(salt[12:], owner.Bytes())
	return salt
}

// Address derives the proxy identity for owner deterministically from the
// registry identity, the owner, and the governor-bound init code. It is a
// pure function: no lookup table is consulted and no state is required, so
// authority can be verified for proxies that were never materialized.
func Address(registry, governor, owner common.Address) common.Address {
	return crypto.CreateAddress2(registry, Salt(owner), crypto.Keccak256(InitCode(governor)))
}
