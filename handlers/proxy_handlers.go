package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/relaylabs/delegation-relay/middleware"
)

// ProxyHandler serves proxy derivation and materialization endpoints
type ProxyHandler struct {
	common *CommonServices
	logger *zap.Logger
}

// NewProxyHandler creates a proxy handler
func NewProxyHandler(common *CommonServices, logger *zap.Logger) *ProxyHandler {
	if logger == nil {
		logger = common.logger
	}
	return &ProxyHandler{common: common, logger: logger}
}

// ProxyResponse describes a proxy identity
type ProxyResponse struct {
	Owner string `json:"owner"`
	Proxy string `json:"proxy"`
}

// GetProxyAddress derives the proxy address for an owner without touching the
// chain. Works for proxies that were never created.
func (h *ProxyHandler) GetProxyAddress(c *gin.Context) {
	owner, err := parseAddress(c.Param("owner"), "owner")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, ProxyResponse{
		Owner: owner.Hex(),
		Proxy: h.common.proxies.AddressFor(owner).Hex(),
	})
}

// CreateProxy materializes the caller's proxy. Safe to call repeatedly.
func (h *ProxyHandler) CreateProxy(c *gin.Context) {
	caller := middleware.CallerAddress(c)

	addr, err := h.common.proxies.Create(c.Request.Context(), caller)
	if err != nil {
		respondDispatchError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, ProxyResponse{Owner: caller.Hex(), Proxy: addr.Hex()})
}
