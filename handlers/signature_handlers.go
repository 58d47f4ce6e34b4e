package handlers

import (
	"errors"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/relaylabs/delegation-relay/middleware"
)

// SignatureHandler serves digest pre-approval and the contract-signature
// verification endpoint
type SignatureHandler struct {
	common *CommonServices
	logger *zap.Logger
}

// NewSignatureHandler creates a signature handler
func NewSignatureHandler(common *CommonServices, logger *zap.Logger) *SignatureHandler {
	if logger == nil {
		logger = common.logger
	}
	return &SignatureHandler{common: common, logger: logger}
}

// SignRequest pre-approves a digest for the chain root's proxy
type SignRequest struct {
	Authority []string `json:"authority" binding:"required"`
	Digest    string   `json:"digest" binding:"required"`
}

// VerifySignatureRequest asks whether a digest is valid for a proxy
type VerifySignatureRequest struct {
	Proxy   string `json:"proxy" binding:"required"`
	Digest  string `json:"digest" binding:"required"`
	Payload string `json:"payload,omitempty"`
}

// VerifySignatureResponse carries the 4-byte verification sentinel
type VerifySignatureResponse struct {
	Valid    bool   `json:"valid"`
	Sentinel string `json:"sentinel"`
}

func parseDigest(raw string) (common.Hash, error) {
	b, err := hexutil.Decode(raw)
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, errors.New("digest must be a 32-byte 0x-prefixed hash")
	}
	return common.BytesToHash(b), nil
}

// Sign records digest approval for the chain root's proxy after proving SIGN
// authority for the caller.
func (h *SignatureHandler) Sign(c *gin.Context) {
	var req SignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	authority, err := parseAuthority(req.Authority)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	digest, err := parseDigest(req.Digest)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	caller := middleware.CallerAddress(c)
	if err := h.common.signatures.Sign(c.Request.Context(), caller, authority, digest); err != nil {
		respondDispatchError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "digest approved"})
}

// VerifySignature runs the contract-signature protocol for a proxy: either a
// recorded approval (empty payload) or a live authority-plus-signature check.
// An invalid signature answers valid=false rather than an error status, the
// way an on-chain verifier would return the zero sentinel.
func (h *SignatureHandler) VerifySignature(c *gin.Context) {
	var req VerifySignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	proxyAddr, err := parseAddress(req.Proxy, "proxy")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	digest, err := parseDigest(req.Digest)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	var payload []byte
	if req.Payload != "" {
		payload, err = hexutil.Decode(req.Payload)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "payload must be 0x-prefixed hex"})
			return
		}
	}

	sentinel, err := h.common.signatures.IsValidProxySignature(c.Request.Context(), proxyAddr, digest, payload)
	if err != nil {
		c.JSON(http.StatusOK, VerifySignatureResponse{Valid: false, Sentinel: hexutil.Encode(make([]byte, 4))})
		return
	}

	c.JSON(http.StatusOK, VerifySignatureResponse{
		Valid:    sentinel != [4]byte{},
		Sentinel: hexutil.Encode(sentinel[:]),
	})
}
