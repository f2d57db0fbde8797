package service

import (
	"context"
	"crypto/rand"
	"fmt"

	"pix-link-gateway/internal/core/ports"
	"pix-link-gateway/pkg/apperror"
)

// Code alphabet excludes 0/O and 1/I to keep codes transcribable.
// 32 characters, so an unbiased byte-modulo draw works.
const (
	codeAlphabet        = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength          = 6
	maxGenerateAttempts = 5
)

// ShortCodeGenerator implements ports.CodeGenerator. It mints random codes
// and checks them against the link store; the store's unique index remains
// the authoritative collision signal, the check here only narrows the race.
type ShortCodeGenerator struct {
	linkRepo ports.LinkRepository
}

// NewShortCodeGenerator creates a new ShortCodeGenerator.
func NewShortCodeGenerator(linkRepo ports.LinkRepository) *ShortCodeGenerator {
	return &ShortCodeGenerator{linkRepo: linkRepo}
}

// Generate mints a code that does not exist in the store at call time.
// Attempts are bounded; exhaustion returns LNK_002 rather than looping.
func (g *ShortCodeGenerator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		code, err := randomCode()
		if err != nil {
			return "", apperror.InternalError(fmt.Errorf("generate code: %w", err))
		}

		exists, err := g.linkRepo.ExistsByCode(ctx, code)
		if err != nil {
			return "", apperror.InternalError(fmt.Errorf("check code: %w", err))
		}
		if !exists {
			return code, nil
		}
	}
	return "", apperror.ErrGenerationExhausted()
}

func randomCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	code := make([]byte, codeLength)
	for i, b := range buf {
		code[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(code), nil
}
