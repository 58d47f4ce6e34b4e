package handlers

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/relaylabs/delegation-relay/middleware"
	"github.com/relaylabs/delegation-relay/types"
)

// DelegationHandler serves delegation-edge reads and writes
type DelegationHandler struct {
	common *CommonServices
	logger *zap.Logger
}

// NewDelegationHandler creates a delegation handler
func NewDelegationHandler(common *CommonServices, logger *zap.Logger) *DelegationHandler {
	if logger == nil {
		logger = common.logger
	}
	return &DelegationHandler{common: common, logger: logger}
}

// RulesRequest is the wire form of a delegation rule set
type RulesRequest struct {
	Permissions            uint8  `json:"permissions"`
	MaxRedelegations       uint8  `json:"max_redelegations"`
	NotValidBefore         uint64 `json:"not_valid_before"`
	NotValidAfter          uint64 `json:"not_valid_after"`
	BlocksBeforeVoteCloses uint16 `json:"blocks_before_vote_closes"`
	CustomRule             string `json:"custom_rule,omitempty"`
}

func (r RulesRequest) toRules() (types.Rules, error) {
	rules := types.Rules{
		Permissions:            types.Permission(r.Permissions),
		MaxRedelegations:       r.MaxRedelegations,
		NotValidBefore:         r.NotValidBefore,
		NotValidAfter:          r.NotValidAfter,
		BlocksBeforeVoteCloses: r.BlocksBeforeVoteCloses,
	}
	if r.CustomRule != "" {
		addr, err := parseAddress(r.CustomRule, "custom_rule")
		if err != nil {
			return types.Rules{}, err
		}
		rules.CustomRule = addr
	}
	return rules, nil
}

// SubDelegateRequest sets one outgoing edge for the caller
type SubDelegateRequest struct {
	Delegate string       `json:"delegate" binding:"required"`
	Rules    RulesRequest `json:"rules"`
}

// SubDelegateBatchedRequest sets several outgoing edges at once
type SubDelegateBatchedRequest struct {
	Delegates []string       `json:"delegates" binding:"required"`
	Rules     []RulesRequest `json:"rules" binding:"required"`
}

// SubDelegate writes the (caller, delegate) edge. Zero rules revoke.
func (h *DelegationHandler) SubDelegate(c *gin.Context) {
	var req SubDelegateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	delegate, err := parseAddress(req.Delegate, "delegate")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	rules, err := req.Rules.toRules()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	caller := middleware.CallerAddress(c)
	if err := h.common.dispatch.SubDelegate(c.Request.Context(), caller, delegate, rules); err != nil {
		respondDispatchError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "delegation updated"})
}

// SubDelegateBatched writes several (caller, delegate) edges with per-index
// rules. Delegates and rules must be the same length.
func (h *DelegationHandler) SubDelegateBatched(c *gin.Context) {
	var req SubDelegateBatchedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	if len(req.Delegates) != len(req.Rules) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "delegates and rules must have the same length"})
		return
	}

	delegates := make([]common.Address, len(req.Delegates))
	rules := make([]types.Rules, len(req.Rules))
	for i := range req.Delegates {
		addr, err := parseAddress(req.Delegates[i], "delegates")
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		delegates[i] = addr

		rules[i], err = req.Rules[i].toRules()
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
	}

	caller := middleware.CallerAddress(c)
	if err := h.common.dispatch.SubDelegateBatched(c.Request.Context(), caller, delegates, rules); err != nil {
		respondDispatchError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "delegations updated"})
}

// ValidateRequest asks whether a chain authorizes the caller
type ValidateRequest struct {
	Authority  []string `json:"authority" binding:"required"`
	Permission uint8    `json:"permission" binding:"required"`
	ProposalID string   `json:"proposal_id" binding:"required"`
	Support    uint8    `json:"support"`
}

// ValidateResponse reports the outcome of a dry-run validation
type ValidateResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// Validate dry-runs authority validation without dispatching anything, so
// relayers can check a chain before spending gas on it.
func (h *DelegationHandler) Validate(c *gin.Context) {
	var req ValidateRequest
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
	err = h.common.authority.Validate(c.Request.Context(), caller, authority, types.Permission(req.Permission), proposalID, req.Support)
	if err != nil {
		c.JSON(http.StatusOK, ValidateResponse{Valid: false, Reason: err.Error()})
		return
	}
	c.JSON(http.StatusOK, ValidateResponse{Valid: true})
}
