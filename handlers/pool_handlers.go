package handlers

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/relaylabs/delegation-relay/services"
)

// PoolHandler serves the refund funding pool
type PoolHandler struct {
	pool    services.RefundPool
	account common.Address
	logger  *zap.Logger
}

// NewPoolHandler creates a pool handler. account is the address deposits
// should be sent to.
func NewPoolHandler(pool services.RefundPool, account common.Address, logger *zap.Logger) *PoolHandler {
	return &PoolHandler{pool: pool, account: account, logger: logger}
}

// PoolResponse describes the refund pool
type PoolResponse struct {
	// Address receives deposits; anyone may top the pool up with a plain
	// transfer, there is no accounting beyond the raw balance.
	Address string `json:"address"`
	Balance string `json:"balance"`
}

// GetPool reports the pool address and its current raw balance in wei.
func (h *PoolHandler) GetPool(c *gin.Context) {
	balance, err := h.pool.Balance(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to read pool balance", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to read pool balance"})
		return
	}

	c.JSON(http.StatusOK, PoolResponse{
		Address: h.account.Hex(),
		Balance: balance.String(),
	})
}
