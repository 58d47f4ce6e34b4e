package middleware

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

const (
	// CallerAddressHeader carries the authenticated caller's address. The
	// relay trusts it blindly: an upstream gateway is expected to have
	// verified ownership (signature-carrying endpoints need no header at
	// all, the signature itself identifies the actor).
	CallerAddressHeader = "X-Caller-Address"

	callerAddressKey = "callerAddress"
)

// CallerAddressMiddleware requires a well-formed caller address on the
// request and parks it in the context for handlers.
func CallerAddressMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(CallerAddressHeader)
		if !common.IsHexAddress(raw) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or malformed caller address"})
			c.Abort()
			return
		}

		c.Set(callerAddressKey, common.HexToAddress(raw))
		c.Next()
	}
}

// CallerAddress retrieves the authenticated caller set by
// CallerAddressMiddleware. The zero address means none was set.
func CallerAddress(c *gin.Context) common.Address {
	if v, exists := c.Get(callerAddressKey); exists {
		if addr, ok := v.(common.Address); ok {
			return addr
		}
	}
	return common.Address{}
}
