// Package ledger provides the contract deployment backend.
package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// HashLedger derives deterministic-looking addresses from the contract id and
// a nanosecond timestamp instead of talking to a real chain. Two deploys of
// the same contract id still yield distinct addresses.
type HashLedger struct {
	now func() time.Time
}

func NewHashLedger() *HashLedger {
	return &HashLedger{now: time.Now}
}

// NewHashLedgerWithClock is for tests that need reproducible output.
func NewHashLedgerWithClock(now func() time.Time) *HashLedger {
	ledger := NewHashLedger()
	if now != nil {
		ledger.now = now
	}
	return ledger
}

func (l *HashLedger) Deploy(_ context.Context, contractID string) (string, string, error) {
	stamp := fmt.Sprintf("%d", l.now().UnixNano())

	addrSum := sha256.Sum256([]byte(contractID + stamp))
	address := "0x" + hex.EncodeToString(addrSum[:])[:40]

	txSum := sha256.Sum256([]byte("tx" + contractID + stamp))
	txID := "0x" + hex.EncodeToString(txSum[:])

	return address, txID, nil
}
