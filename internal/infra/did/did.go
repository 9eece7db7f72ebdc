// Package did generates connector identities and verifies DID-signed
// challenges.
package did

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"tdsconnector/internal/domain"
)

// Generator mints did:example connector identities backed by fresh Ed25519
// keys. The private key is handed back to the caller and never kept.
type Generator struct {
	now func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

func (g *Generator) Generate() (domain.DIDKeypair, error) {
	public, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return domain.DIDKeypair{}, fmt.Errorf("generate keypair: %w", err)
	}

	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		return domain.DIDKeypair{}, fmt.Errorf("generate did suffix: %w", err)
	}
	id := "did:example:connector" + hex.EncodeToString(suffix)

	publicKey := base64.StdEncoding.EncodeToString(public)
	privateKey := base64.StdEncoding.EncodeToString(private)
	fingerprint := sha256.Sum256(public)

	document := map[string]any{
		"@context": []string{"https://www.w3.org/ns/did/v1"},
		"id":       id,
		"verificationMethod": []map[string]any{
			{
				"id":              id + "#key-1",
				"type":            "Ed25519VerificationKey2018",
				"controller":      id,
				"publicKeyBase64": publicKey,
			},
		},
		"authentication": []string{id + "#key-1"},
		"service": []map[string]any{
			{
				"id":              id + "#connector",
				"type":            "ConnectorService",
				"serviceEndpoint": "https://connector.example.com/" + hex.EncodeToString(fingerprint[:8]),
			},
		},
	}

	return domain.DIDKeypair{
		DID:        id,
		PublicKey:  publicKey,
		PrivateKey: privateKey,
		Document:   document,
		CreatedAt:  g.now().UTC(),
	}, nil
}

// StubVerifier accepts any non-empty signature. Real challenge verification
// against the DID document's keys is left to a production verifier.
type StubVerifier struct{}

func (StubVerifier) Verify(did, signature, message string) bool {
	return signature != ""
}
