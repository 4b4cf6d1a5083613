package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"evently/internal/delivery/http/helpers"
	"evently/internal/domain"
)

const signatureHeader = "X-Webhook-Signature"

// maxWebhookBody caps the webhook payload we are willing to read.
const maxWebhookBody = 1 << 20

// Webhook event types pushed by the identity provider.
const (
	webhookUserCreated = "user.created"
	webhookUserUpdated = "user.updated"
	webhookUserDeleted = "user.deleted"
)

// WebhookUserData is the user payload inside an identity webhook.
type WebhookUserData struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	PhotoURL  string `json:"photo_url"`
}

// IdentityWebhookRequest is the request body for POST /webhooks/identity.
type IdentityWebhookRequest struct {
	Type string          `json:"type"`
	Data WebhookUserData `json:"data"`
}

type WebhookController struct {
	Logger  *slog.Logger
	Service domain.UserService
	secret  []byte
}

func NewWebhookController(logger *slog.Logger, svc domain.UserService, secret string) *WebhookController {
	return &WebhookController{
		Logger:  logger,
		Service: svc,
		secret:  []byte(secret),
	}
}

// HandleIdentity godoc
// @Summary Identity provider user-sync webhook
// @Description Receives user lifecycle events from the identity provider and mirrors them into the local user store. The raw body must be signed with HMAC-SHA256 (hex) in the X-Webhook-Signature header.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param payload body IdentityWebhookRequest true "Webhook payload"
// @Success 200 {object} helpers.APIResponse "data contains the synced user, or null for deletes"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /webhooks/identity [post]
func (c *WebhookController) HandleIdentity(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unreadable body")
		return
	}
	if !c.verifySignature(body, r.Header.Get(signatureHeader)) {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid webhook signature")
		return
	}

	var req IdentityWebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	if req.Data.ID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "data.id is required")
		return
	}

	user := &domain.User{
		ExternalID: req.Data.ID,
		Email:      req.Data.Email,
		Username:   req.Data.Username,
		FirstName:  req.Data.FirstName,
		LastName:   req.Data.LastName,
		PhotoURL:   req.Data.PhotoURL,
	}

	switch req.Type {
	case webhookUserCreated:
		created, err := c.Service.Create(r.Context(), user)
		if err != nil {
			c.fail(w, r, err)
			return
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, created)
	case webhookUserUpdated:
		updated, err := c.Service.UpdateByExternalID(r.Context(), req.Data.ID, user)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
				return
			}
			c.fail(w, r, err)
			return
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, updated)
	case webhookUserDeleted:
		if err := c.Service.DeleteByExternalID(r.Context(), req.Data.ID); err != nil {
			c.fail(w, r, err)
			return
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, nil)
	default:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unknown webhook type")
	}
}

func (c *WebhookController) verifySignature(body []byte, signature string) bool {
	if len(c.secret) == 0 || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (c *WebhookController) fail(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
}
