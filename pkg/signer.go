package pkg

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mr-tron/base58"
)

// ArtifactPayload is the claim covered by the signature: this wallet
// owns this hero for the stated validity window.
type ArtifactPayload struct {
	HeroID    string `json:"hero_id"`
	Owner     string `json:"owner"`
	IssuedAt  int64  `json:"issued_at"`
	ExpiresAt int64  `json:"expires_at"`
}

// SignedArtifact is the payload plus its detached ed25519 signature.
type SignedArtifact struct {
	Payload   ArtifactPayload `json:"payload"`
	Signature string          `json:"signature"`  // base64
	SignerKey string          `json:"signer_key"` // base58 ed25519 public key
}

// HeroSigner produces signed ownership artifacts.
type HeroSigner struct {
	key ed25519.PrivateKey
	ttl time.Duration
	now func() time.Time
}

// NewHeroSigner builds a signer from a base58-encoded ed25519 seed.
func NewHeroSigner(seed string, ttl time.Duration) (*HeroSigner, error) {
	seedBytes, err := base58.Decode(seed)
	if err != nil {
		return nil, fmt.Errorf("decode signer seed: %w", err)
	}
	if len(seedBytes) != ed25519.SeedSize {
		return nil, fmt.Errorf("ed25519: bad seed length: %d", len(seedBytes))
	}
	return &HeroSigner{
		key: ed25519.NewKeyFromSeed(seedBytes),
		ttl: ttl,
		now: time.Now,
	}, nil
}

// PublicKey returns the base58-encoded verification key.
func (s *HeroSigner) PublicKey() string {
	return base58.Encode(s.key.Public().(ed25519.PublicKey))
}

// Sign produces the artifact for a hero and its owner. Validity windows
// are aligned to wall-clock multiples of the TTL, so repeated calls
// inside one window yield a bit-identical artifact.
func (s *HeroSigner) Sign(ctx context.Context, heroID, owner string) (*SignedArtifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	issued := s.now().Truncate(s.ttl)
	payload := ArtifactPayload{
		HeroID:    heroID,
		Owner:     owner,
		IssuedAt:  issued.Unix(),
		ExpiresAt: issued.Add(s.ttl).Unix(),
	}

	msg, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal artifact payload: %w", err)
	}

	sig := ed25519.Sign(s.key, msg)
	return &SignedArtifact{
		Payload:   payload,
		Signature: base64.StdEncoding.EncodeToString(sig),
		SignerKey: s.PublicKey(),
	}, nil
}

// Verify checks an artifact signature against the signer's public key.
func (s *HeroSigner) Verify(artifact *SignedArtifact) (bool, error) {
	msg, err := json.Marshal(artifact.Payload)
	if err != nil {
		return false, err
	}
	sig, err := base64.StdEncoding.DecodeString(artifact.Signature)
	if err != nil {
		return false, err
	}
	return ed25519.Verify(s.key.Public().(ed25519.PublicKey), msg, sig), nil
}
