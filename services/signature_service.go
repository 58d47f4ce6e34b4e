package services

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"go.uber.org/zap"

	"github.com/relaylabs/delegation-relay/events"
	"github.com/relaylabs/delegation-relay/proxy"
	"github.com/relaylabs/delegation-relay/store"
	"github.com/relaylabs/delegation-relay/types"
)

// ValidSignatureSentinel is the fixed value returned by the
// contract-signature protocol when a digest checks out (the ERC-1271 magic
// value).
var ValidSignatureSentinel = [4]byte{0x16, 0x26, 0xba, 0x7e}

var (
	domainTypeHash = crypto.Keccak256Hash([]byte("EIP712Domain(string name,uint256 chainId,address verifyingContract)"))
	voteTypeHash   = crypto.Keccak256Hash([]byte("Vote(uint256 proposalId,uint8 support)"))
	domainName     = crypto.Keccak256Hash([]byte("DelegationRelay"))
)

// SignaturePayload is the non-empty form accepted by the contract-signature
// protocol: a claimed authority chain plus a raw signature over the digest.
type SignaturePayload struct {
	Authority []common.Address
	Signature []byte
}

// SignatureService owns message digesting, signer recovery, the
// contract-signature protocol, and SIGN-permissioned digest pre-approval.
type SignatureService struct {
	authority *AuthorityService
	store     store.Store
	proxies   *proxy.Manager
	emitter   events.Emitter
	logger    *zap.Logger

	domainSeparator common.Hash
}

// NewSignatureService creates the service. chainID and registry bind digests
// to this deployment so signatures cannot be replayed across relays.
func NewSignatureService(authority *AuthorityService, s store.Store, proxies *proxy.Manager, chainID *big.Int, registry common.Address, emitter events.Emitter, logger *zap.Logger) *SignatureService {
	return &SignatureService{
		authority:       authority,
		store:           s,
		proxies:         proxies,
		emitter:         emitter,
		logger:          logger,
		domainSeparator: domainSeparator(chainID, registry),
	}
}

func domainSeparator(chainID *big.Int, registry common.Address) common.Hash {
	var buf []byte
	buf = append(buf, domainTypeHash.Bytes()...)
	buf = append(buf, domainName.Bytes()...)
	buf = append(buf, common.BigToHash(chainID).Bytes()...)
	buf = append(buf, common.LeftPadBytes(registry.Bytes(), 32)...)
	return crypto.Keccak256Hash(buf)
}

// VoteDigest returns the domain-separated digest a voter signs to authorize
// (proposalID, support) through this relay.
func (s *SignatureService) VoteDigest(proposalID *big.Int, support uint8) common.Hash {
	var structBuf []byte
	structBuf = append(structBuf, voteTypeHash.Bytes()...)
	structBuf = append(structBuf, common.BigToHash(proposalID).Bytes()...)
	structBuf = append(structBuf, common.LeftPadBytes([]byte{support}, 32)...)
	structHash := crypto.Keccak256(structBuf)

	var buf []byte
	buf = append(buf, 0x19, 0x01)
	buf = append(buf, s.domainSeparator.Bytes()...)
	buf = append(buf, structHash...)
	return crypto.Keccak256Hash(buf)
}

// RecoverVoter recovers the address that signed a vote digest.
func (s *SignatureService) RecoverVoter(proposalID *big.Int, support uint8, signature []byte) (common.Address, error) {
	return recoverSigner(s.VoteDigest(proposalID, support), signature)
}

func recoverSigner(digest common.Hash, signature []byte) (common.Address, error) {
	if len(signature) != crypto.SignatureLength {
		return common.Address{}, types.ErrBadSignature
	}

	// Accept both the 27/28 convention and raw recovery ids.
	sig := make([]byte, crypto.SignatureLength)
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	pub, err := crypto.SigToPub(digest.Bytes(), sig)
	if err != nil {
		return common.Address{}, types.ErrBadSignature
	}
	signer := crypto.PubkeyToAddress(*pub)
	if signer == (common.Address{}) {
		return common.Address{}, types.ErrBadSignature
	}
	return signer, nil
}

// Sign pre-approves digest for the chain root's proxy, after proving SIGN
// authority over the chain. An external verifier asking the proxy about the
// digest later gets the valid sentinel back.
func (s *SignatureService) Sign(ctx context.Context, sender common.Address, authority types.Authority, digest common.Hash) error {
	if err := s.authority.Validate(ctx, sender, authority, types.PermissionSign, new(big.Int).SetBytes(digest.Bytes()), 0); err != nil {
		return err
	}

	proxyAddr := s.proxies.AddressFor(authority.Root())
	if err := s.store.ApproveSignature(ctx, proxyAddr, digest); err != nil {
		return fmt.Errorf("failed to record signature approval: %w", err)
	}

	s.emitter.Emit(events.Signed{Signer: sender, Authority: authority, Digest: digest})
	s.logger.Info("message signed",
		zap.String("signer", sender.Hex()),
		zap.String("proxy", proxyAddr.Hex()),
		zap.String("digest", digest.Hex()),
	)
	return nil
}

// IsValidProxySignature is the contract-signature protocol endpoint. Two
// payload forms are accepted: an RLP-encoded (authority, signature) pair,
// verified live against the chain with SIGN permission, or an empty payload,
// satisfied only by a previously recorded approval. The zero sentinel with a
// nil error means "not approved".
func (s *SignatureService) IsValidProxySignature(ctx context.Context, proxyAddr common.Address, digest common.Hash, payload []byte) ([4]byte, error) {
	if len(payload) == 0 {
		approved, err := s.store.IsSignatureApproved(ctx, proxyAddr, digest)
		if err != nil {
			return [4]byte{}, fmt.Errorf("failed to check signature approval: %w", err)
		}
		if approved {
			return ValidSignatureSentinel, nil
		}
		return [4]byte{}, nil
	}

	var decoded SignaturePayload
	if err := rlp.DecodeBytes(payload, &decoded); err != nil {
		return [4]byte{}, types.ErrBadSignature
	}

	signer, err := recoverSigner(digest, decoded.Signature)
	if err != nil {
		return [4]byte{}, err
	}

	authority := types.Authority(decoded.Authority)
	if s.proxies.AddressFor(authority.Root()) != proxyAddr {
		return [4]byte{}, &types.NotDelegatedError{From: authority.Root(), To: proxyAddr, Permission: types.PermissionSign}
	}

	if err := s.authority.Validate(ctx, signer, authority, types.PermissionSign, new(big.Int).SetBytes(digest.Bytes()), 0); err != nil {
		return [4]byte{}, err
	}
	return ValidSignatureSentinel, nil
}
