package memory

import (
	"context"
	"strings"
	"sync"

	domainerrors "encore/contexts/finance-core/payment-verifier/domain/errors"
	"encore/contexts/finance-core/payment-verifier/ports"
)

// FakeProvider is an in-memory stand-in for the payment provider. Tests and
// local runs seed it with the verification each tx_ref should resolve to.
type FakeProvider struct {
	mu            sync.RWMutex
	verifications map[string]ports.ProviderVerification
}

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		verifications: make(map[string]ports.ProviderVerification),
	}
}

func (p *FakeProvider) SetVerification(verification ports.ProviderVerification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.verifications[strings.TrimSpace(verification.TxRef)] = verification
}

func (p *FakeProvider) VerifyTransaction(_ context.Context, txRef string) (ports.ProviderVerification, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	verification, ok := p.verifications[strings.TrimSpace(txRef)]
	if !ok {
		return ports.ProviderVerification{}, domainerrors.ErrProviderVerificationFailed
	}
	return verification, nil
}
