package auth

import (
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/eskildht/inginious/internal/utils"
)

// CasdoorConfig describes the Casdoor application this service
// authenticates against.
type CasdoorConfig struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	Certificate  string
	Organization string
	Application  string
}

// Authenticator verifies Casdoor access tokens and resolves them to a
// session username.
type Authenticator struct {
	client *casdoorsdk.Client
	logger utils.Logger
}

func NewAuthenticator(cfg CasdoorConfig, logger utils.Logger) *Authenticator {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Certificate,
		cfg.Organization,
		cfg.Application,
	)
	return &Authenticator{client: client, logger: logger}
}

// Middleware rejects requests without a valid bearer token and stores the
// token's username in the gin context for the handlers.
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing bearer token"})
			return
		}

		claims, err := a.client.ParseJwtToken(token)
		if err != nil {
			a.logger.Warn("Rejected invalid access token", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid access token"})
			return
		}
		if claims.Name == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token carries no username"})
			return
		}

		c.Set("username", claims.Name)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
