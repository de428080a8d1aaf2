package handler

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/insighthq/insightd/internal/api/middleware"
	"github.com/insighthq/insightd/internal/api/response"
	"github.com/insighthq/insightd/internal/store"
	"github.com/insighthq/insightd/pkg/models"
)

const (
	rawKeyBytes  = 24
	keyPrefixLen = 8
)

type KeysHandler struct {
	store store.Store
}

func NewKeysHandler(s store.Store) *KeysHandler {
	return &KeysHandler{store: s}
}

type createKeyRequest struct {
	Name   string   `json:"name"`
	Scopes []string `json:"scopes"`
}

type createKeyResponse struct {
	*models.APIKey
	RawKey string `json:"key"`
}

// Create handles POST /api/v1/admin/keys. The raw key appears only in
// this response; afterwards only the bcrypt hash exists.
func (h *KeysHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing tenant context", nil)
		return
	}

	var req createKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
		return
	}
	if req.Name == "" {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "name is required", nil)
		return
	}
	if len(req.Scopes) == 0 {
		req.Scopes = []string{"analyze"}
	}

	rawKey, err := generateRawKey()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate key", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rawKey), bcrypt.DefaultCost)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to hash key", nil)
		return
	}

	now := time.Now().UTC()
	key := &models.APIKey{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Name:      req.Name,
		KeyHash:   string(hash),
		KeyPrefix: rawKey[:keyPrefixLen],
		Scopes:    req.Scopes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.CreateAPIKey(r.Context(), key); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			response.Error(w, http.StatusConflict, "CONFLICT", "Key collision, retry the request", nil)
			return
		}
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create key", nil)
		return
	}

	response.Created(w, createKeyResponse{APIKey: key, RawKey: rawKey})
}

// List handles GET /api/v1/admin/keys.
func (h *KeysHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing tenant context", nil)
		return
	}

	keys, err := h.store.ListAPIKeys(r.Context(), tenantID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list keys", nil)
		return
	}

	response.JSON(w, keys)
}

// Revoke handles DELETE /api/v1/admin/keys/{keyID}.
func (h *KeysHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing tenant context", nil)
		return
	}

	keyID, err := uuid.Parse(chi.URLParam(r, "keyID"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid key ID", nil)
		return
	}

	if err := h.store.RevokeAPIKey(r.Context(), keyID, tenantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Key not found", nil)
			return
		}
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to revoke key", nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// generateRawKey returns a new API key of the form in_<hex>.
func generateRawKey() (string, error) {
	buf := make([]byte, rawKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "in_" + hex.EncodeToString(buf), nil
}
