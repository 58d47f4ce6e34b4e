package handlers

import (
	"errors"
	"fmt"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/relaylabs/delegation-relay/events"
	"github.com/relaylabs/delegation-relay/logger"
	"github.com/relaylabs/delegation-relay/proxy"
	"github.com/relaylabs/delegation-relay/services"
	"github.com/relaylabs/delegation-relay/types"
)

// CommonServices holds common dependencies used across handlers
type CommonServices struct {
	dispatch   *services.DispatchService
	authority  *services.AuthorityService
	signatures *services.SignatureService
	proxies    *proxy.Manager
	bus        *events.Bus
	logger     *zap.Logger
}

// CommonServicesConfig contains all dependencies needed to create CommonServices
type CommonServicesConfig struct {
	Dispatch   *services.DispatchService
	Authority  *services.AuthorityService
	Signatures *services.SignatureService
	Proxies    *proxy.Manager
	Bus        *events.Bus
	Logger     *zap.Logger
}

// NewCommonServices creates a new instance of CommonServices
func NewCommonServices(config CommonServicesConfig) *CommonServices {
	if config.Logger == nil {
		config.Logger = logger.Log
	}
	return &CommonServices{
		dispatch:   config.Dispatch,
		authority:  config.Authority,
		signatures: config.Signatures,
		proxies:    config.Proxies,
		bus:        config.Bus,
		logger:     config.Logger,
	}
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`

	// ProposalID is set when a proposal was created on the governor before
	// authorization failed; callers need the id to follow up out of band.
	ProposalID string `json:"proposal_id,omitempty"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// parseAddress parses a required hex address field.
func parseAddress(raw, field string) (common.Address, error) {
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("%s must be a hex address", field)
	}
	return common.HexToAddress(raw), nil
}

// parseAuthority parses a hex-address chain, root first.
func parseAuthority(raw []string) (types.Authority, error) {
	if len(raw) == 0 {
		return nil, errors.New("authority must not be empty")
	}
	chain := make(types.Authority, len(raw))
	for i, s := range raw {
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("authority[%d] must be a hex address", i)
		}
		chain[i] = common.HexToAddress(s)
	}
	return chain, nil
}

// parseProposalID parses a decimal proposal id.
func parseProposalID(raw string) (*big.Int, error) {
	id, ok := new(big.Int).SetString(raw, 10)
	if !ok || id.Sign() < 0 {
		return nil, errors.New("proposal_id must be a non-negative decimal number")
	}
	return id, nil
}

// respondDispatchError translates relay errors into HTTP responses. Authority
// failures are the caller's problem (403); malformed signatures are bad
// requests; anything else is a relay fault.
func respondDispatchError(c *gin.Context, log *zap.Logger, err error) {
	var (
		notDelegated  *types.NotDelegatedError
		tooMany       *types.TooManyRedelegationsError
		notYet        *types.NotValidYetError
		notAnymore    *types.NotValidAnymoreError
		tooEarly      *types.TooEarlyError
		invalidRule   *types.InvalidCustomRuleError
		notAuthorized *types.ProposalNotAuthorizedError
	)

	switch {
	case errors.As(err, &notAuthorized):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:      notAuthorized.Error(),
			ProposalID: notAuthorized.ProposalID.String(),
		})
	case errors.As(err, &notDelegated),
		errors.As(err, &tooMany),
		errors.As(err, &notYet),
		errors.As(err, &notAnymore),
		errors.As(err, &tooEarly),
		errors.As(err, &invalidRule):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, types.ErrBadSignature):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		log.Error("relay operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "relay operation failed"})
	}
}
