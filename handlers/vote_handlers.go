package handlers

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/relaylabs/delegation-relay/middleware"
	"github.com/relaylabs/delegation-relay/types"
)

// VoteHandler serves the vote relay endpoints
type VoteHandler struct {
	common *CommonServices
	logger *zap.Logger
}

// NewVoteHandler creates a vote handler
func NewVoteHandler(common *CommonServices, logger *zap.Logger) *VoteHandler {
	if logger == nil {
		logger = common.logger
	}
	return &VoteHandler{common: common, logger: logger}
}

// CastVoteRequest relays a single vote under one authority chain
type CastVoteRequest struct {
	Authority  []string `json:"authority" binding:"required"`
	ProposalID string   `json:"proposal_id" binding:"required"`
	Support    uint8    `json:"support"`
	Reason     string   `json:"reason,omitempty"`
}

// CastVoteBySigRequest relays a vote authorized by a detached signature
type CastVoteBySigRequest struct {
	Authority  []string `json:"authority" binding:"required"`
	ProposalID string   `json:"proposal_id" binding:"required"`
	Support    uint8    `json:"support"`
	Signature  string   `json:"signature" binding:"required"`
}

// CastVotesBatchedRequest relays one vote per chain, same proposal and support
type CastVotesBatchedRequest struct {
	Authorities [][]string `json:"authorities" binding:"required"`
	ProposalID  string     `json:"proposal_id" binding:"required"`
	Support     uint8      `json:"support"`
	Reason      string     `json:"reason,omitempty"`
}

// CastVote relays a vote for the caller, optionally with a reason.
func (h *VoteHandler) CastVote(c *gin.Context) {
	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	authority, err := parseAuthority(req.Authority)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	proposalID, err := parseProposalID(req.ProposalID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	caller := middleware.CallerAddress(c)
	if err := h.common.dispatch.CastVoteWithReason(c.Request.Context(), caller, authority, proposalID, req.Support, req.Reason); err != nil {
		respondDispatchError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "vote cast"})
}

// CastVoteBySig relays a vote whose actor is recovered from the signature,
// not the caller identity. No caller header is required.
func (h *VoteHandler) CastVoteBySig(c *gin.Context) {
	var req CastVoteBySigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	authority, err := parseAuthority(req.Authority)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	proposalID, err := parseProposalID(req.ProposalID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	signature, err := hexutil.Decode(req.Signature)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "signature must be 0x-prefixed hex"})
		return
	}

	if err := h.common.dispatch.CastVoteBySig(c.Request.Context(), authority, proposalID, req.Support, signature); err != nil {
		respondDispatchError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "vote cast"})
}

// CastVotesBatched relays one vote per authority chain. All chains are
// validated up front; one bad chain fails the whole batch before any vote.
func (h *VoteHandler) CastVotesBatched(c *gin.Context) {
	req, authorities, proposalID, ok := h.bindBatch(c)
	if !ok {
		return
	}

	caller := middleware.CallerAddress(c)
	if err := h.common.dispatch.CastVotesWithReasonBatched(c.Request.Context(), caller, authorities, proposalID, req.Support, req.Reason); err != nil {
		respondDispatchError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "votes cast"})
}

// CastRefundableVotesBatched is CastVotesBatched plus a gas refund to the
// caller from the funding pool, bounded by the refund caps.
func (h *VoteHandler) CastRefundableVotesBatched(c *gin.Context) {
	req, authorities, proposalID, ok := h.bindBatch(c)
	if !ok {
		return
	}

	caller := middleware.CallerAddress(c)
	if err := h.common.dispatch.CastRefundableVotesWithReasonBatched(c.Request.Context(), caller, authorities, proposalID, req.Support, req.Reason); err != nil {
		respondDispatchError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "votes cast"})
}

func (h *VoteHandler) bindBatch(c *gin.Context) (CastVotesBatchedRequest, []types.Authority, *big.Int, bool) {
	var req CastVotesBatchedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return req, nil, nil, false
	}

	authorities := make([]types.Authority, len(req.Authorities))
	for i, raw := range req.Authorities {
		chain, err := parseAuthority(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return req, nil, nil, false
		}
		authorities[i] = chain
	}

	proposalID, err := parseProposalID(req.ProposalID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return req, nil, nil, false
	}
	return req, authorities, proposalID, true
}
