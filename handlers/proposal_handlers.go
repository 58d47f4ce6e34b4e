package handlers

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/relaylabs/delegation-relay/middleware"
)

// ProposalHandler serves proposal submission through delegated authority
type ProposalHandler struct {
	common *CommonServices
	logger *zap.Logger
}

// NewProposalHandler creates a proposal handler
func NewProposalHandler(common *CommonServices, logger *zap.Logger) *ProposalHandler {
	if logger == nil {
		logger = common.logger
	}
	return &ProposalHandler{common: common, logger: logger}
}

// ProposalAction is one target call inside a proposal
type ProposalAction struct {
	Target    string `json:"target" binding:"required"`
	Value     string `json:"value,omitempty"`
	Signature string `json:"signature,omitempty"`
	Calldata  string `json:"calldata,omitempty"`
}

// ProposeRequest submits a proposal through the chain root's proxy
type ProposeRequest struct {
	Authority   []string         `json:"authority" binding:"required"`
	Actions     []ProposalAction `json:"actions" binding:"required"`
	Description string           `json:"description" binding:"required"`
}

// ProposeResponse reports the governor-assigned proposal id
type ProposeResponse struct {
	ProposalID string `json:"proposal_id"`
}

// Propose submits a proposal for the chain's root principal. If the caller
// turns out not to hold PROPOSE authority the proposal still exists on the
// governor; the error response carries its id.
func (h *ProposalHandler) Propose(c *gin.Context) {
	var req ProposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	authority, err := parseAuthority(req.Authority)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	targets := make([]common.Address, len(req.Actions))
	values := make([]*big.Int, len(req.Actions))
	signatures := make([]string, len(req.Actions))
	calldatas := make([][]byte, len(req.Actions))
	for i, action := range req.Actions {
		targets[i], err = parseAddress(action.Target, "target")
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}

		values[i] = big.NewInt(0)
		if action.Value != "" {
			v, ok := new(big.Int).SetString(action.Value, 10)
			if !ok || v.Sign() < 0 {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: "value must be a non-negative decimal number"})
				return
			}
			values[i] = v
		}

		signatures[i] = action.Signature

		if action.Calldata != "" {
			calldatas[i], err = hexutil.Decode(action.Calldata)
			if err != nil {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: "calldata must be 0x-prefixed hex"})
				return
			}
		}
	}

	caller := middleware.CallerAddress(c)
	proposalID, err := h.common.dispatch.Propose(c.Request.Context(), caller, authority, targets, values, signatures, calldatas, req.Description)
	if err != nil {
		respondDispatchError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, ProposeResponse{ProposalID: proposalID.String()})
}
