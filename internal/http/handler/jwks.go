package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	jwkKeyTypeOctet = "oct"
	jwkUseSignature = "sig"
)

// JWK describes one verification key. The signing scheme is symmetric, so
// the key material itself is never published and the RSA fields stay empty.
type JWK struct {
	KeyID     string `json:"kid"`
	KeyType   string `json:"kty"`
	Algorithm string `json:"alg"`
	Use       string `json:"use"`
	N         string `json:"n"`
	E         string `json:"e"`
}

type JWKSet struct {
	Keys []JWK `json:"keys"`
}

type JWKSHandler struct {
	key KeyDescriptor
}

func NewJWKSHandler(key KeyDescriptor) *JWKSHandler {
	return &JWKSHandler{key: key}
}

func (h *JWKSHandler) KeySet(c echo.Context) error {
	return c.JSON(http.StatusOK, JWKSet{
		Keys: []JWK{{
			KeyID:     h.key.KeyID(),
			KeyType:   jwkKeyTypeOctet,
			Algorithm: h.key.Algorithm(),
			Use:       jwkUseSignature,
		}},
	})
}
