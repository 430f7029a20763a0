package clients

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"go.openly.dev/pointy"
)

// CustomerDirectory answers age lookups for the scorer's senior
// multiplier from an in-memory roster keyed by lowercased display name.
// A production deployment would back this with a KYC system; the roster
// here is loaded from configuration at startup and mutated only through
// Register, so it stays safe under concurrent transforms.
type CustomerDirectory struct {
	logger *slog.Logger

	mu   sync.RWMutex
	ages map[string]int
}

// NewCustomerDirectory builds a directory from configured name/age pairs.
func NewCustomerDirectory(logger *slog.Logger, seed map[string]int) *CustomerDirectory {
	ages := make(map[string]int, len(seed))
	for name, age := range seed {
		ages[strings.ToLower(strings.TrimSpace(name))] = age
	}

	logger.Info("Initialized customer directory", "known_customers", len(ages))

	return &CustomerDirectory{
		logger: logger,
		ages:   ages,
	}
}

// AgeFor returns the customer's age, or nil when the name is unknown.
func (d *CustomerDirectory) AgeFor(_ context.Context, customerName string) *int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if age, ok := d.ages[strings.ToLower(strings.TrimSpace(customerName))]; ok {
		return pointy.Int(age)
	}
	return nil
}

// Register adds or updates one customer's age.
func (d *CustomerDirectory) Register(customerName string, age int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ages[strings.ToLower(strings.TrimSpace(customerName))] = age
}
