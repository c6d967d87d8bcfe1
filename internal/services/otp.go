package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	OTPTTL         = 2 * time.Minute
	DevelopmentOTP = "888888"

	otpAlphabet = "23456789abcdefghijkmnpqrstuvwxyz"
	otpLength   = 6
)

// OTPStore keeps one pending login code per email address.
type OTPStore interface {
	Put(email, code string, ttl time.Duration) error
	// Consume reports whether code matches the pending entry for email and
	// deletes the entry when it does.
	Consume(email, code string) bool
}

type otpEntry struct {
	hash      []byte
	expiresAt time.Time
}

// MemoryOTPStore is a process-local OTPStore. Codes are kept as bcrypt hashes.
type MemoryOTPStore struct {
	mu      sync.Mutex
	entries map[string]otpEntry
	now     func() time.Time
}

func NewMemoryOTPStore() *MemoryOTPStore {
	return &MemoryOTPStore{entries: make(map[string]otpEntry), now: time.Now}
}

func (s *MemoryOTPStore) Put(email, code string, ttl time.Duration) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("failed to hash otp: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	s.entries[email] = otpEntry{hash: hash, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryOTPStore) Consume(email, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[email]
	if !ok || code == "" {
		return false
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, email)
		return false
	}
	if bcrypt.CompareHashAndPassword(entry.hash, []byte(code)) != nil {
		return false
	}
	delete(s.entries, email)
	return true
}

// sweep drops expired entries. Caller holds mu.
func (s *MemoryOTPStore) sweep() {
	now := s.now()
	for email, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, email)
		}
	}
}

func generateOTP() (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(otpAlphabet)))
	for i := 0; i < otpLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate otp: %w", err)
		}
		b.WriteByte(otpAlphabet[n.Int64()])
	}
	return b.String(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
