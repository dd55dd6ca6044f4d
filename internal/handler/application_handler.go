package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hack-neuron/frontend/internal/models"
	"github.com/hack-neuron/frontend/internal/service"
	"github.com/hack-neuron/frontend/internal/utils"
	"github.com/hack-neuron/frontend/pkg/metadata"
)

// ApplicationHandler handles application registration and credential
// lifecycle endpoints. All persistent state lives in the metadata service;
// this handler only validates, issues tokens, and relays.
type ApplicationHandler struct {
	authService  *service.AuthService
	tokenService *service.TokenService
	metadata     *metadata.Client
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(authService *service.AuthService, tokenService *service.TokenService, metadataClient *metadata.Client) *ApplicationHandler {
	return &ApplicationHandler{
		authService:  authService,
		tokenService: tokenService,
		metadata:     metadataClient,
	}
}

// CreateApplication handles POST /create_application. No authentication: this
// is the entry point for new applications. The password is hashed before it
// leaves the handler; the plain text is never forwarded or logged.
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	var req models.Application
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Detail(c, http.StatusBadRequest, "Invalid request body!")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("password hashing failed")
		utils.Detail(c, http.StatusInternalServerError, "Internal error!")
		return
	}

	token, err := h.tokenService.Issue(req.Name)
	if err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("token issuance failed")
		utils.Detail(c, http.StatusInternalServerError, "Internal error!")
		return
	}

	err = h.metadata.CreateApplication(c.Request.Context(), metadata.CreateApplicationRequest{
		Name:           req.Name,
		HashedPassword: hashedPassword,
		AdminEmail:     req.AdminEmail,
		Token:          token,
	})
	if err != nil {
		var statusErr *metadata.StatusError
		if errors.As(err, &statusErr) {
			// Already-exists and friends come from the metadata service;
			// relay its verdict untouched.
			utils.Relay(c, statusErr.Status, "application/json", statusErr.Body)
			return
		}
		utils.Detail(c, http.StatusBadGateway, "Upstream unavailable!")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// DeleteApplication handles DELETE /delete_application. Requires password
// proof, not a token: deletion must stay possible after every token was
// revoked or lost.
func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	creds, ok := h.bindAuthorizedCredentials(c)
	if !ok {
		return
	}

	body, err := h.metadata.DeleteApplication(c.Request.Context(), creds.Name)
	if err != nil {
		h.relayMetadataError(c, err)
		return
	}

	log.Info().Str("name", creds.Name).Msg("application deleted")
	utils.Relay(c, http.StatusOK, "application/json", body)
}

// RevokeToken handles POST /revoke_token. A new token is issued and stored as
// the application's current one, which invalidates every previously issued
// token at the next Authenticate call.
func (h *ApplicationHandler) RevokeToken(c *gin.Context) {
	creds, ok := h.bindAuthorizedCredentials(c)
	if !ok {
		return
	}

	token, err := h.tokenService.Issue(creds.Name)
	if err != nil {
		log.Error().Err(err).Str("name", creds.Name).Msg("token issuance failed")
		utils.Detail(c, http.StatusInternalServerError, "Internal error!")
		return
	}

	if err := h.metadata.UpdateToken(c.Request.Context(), creds.Name, token); err != nil {
		h.relayMetadataError(c, err)
		return
	}

	log.Info().Str("name", creds.Name).Msg("token reissued")
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// bindAuthorizedCredentials parses the credentials body and verifies the
// password proof. On failure it writes the response and returns ok=false.
func (h *ApplicationHandler) bindAuthorizedCredentials(c *gin.Context) (models.Credentials, bool) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		utils.Detail(c, http.StatusBadRequest, "Invalid request body!")
		return creds, false
	}

	if err := h.authService.AuthorizeCredentials(c.Request.Context(), creds.Name, creds.Password); err != nil {
		utils.Detail(c, http.StatusForbidden, "Permission denied!")
		return creds, false
	}

	return creds, true
}

// relayMetadataError maps a Credential Store failure: upstream verdicts are
// relayed with their status and detail, transport failures become 502.
func (h *ApplicationHandler) relayMetadataError(c *gin.Context, err error) {
	var statusErr *metadata.StatusError
	if errors.As(err, &statusErr) {
		utils.Detail(c, statusErr.Status, statusErr.Detail)
		return
	}
	utils.Detail(c, http.StatusBadGateway, "Upstream unavailable!")
}
