package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/domain"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/repository"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/pkg/logger"
)

const (
	minOTPTTL = 1 * time.Minute
	maxOTPTTL = 60 * time.Minute
)

// OTPService issues and verifies pickup codes. Codes are stored on the
// challan row itself so issuing and verifying share the row lock with every
// other challan mutation.
type OTPService struct {
	repo       repository.ChallanRepository
	limiter    AttemptLimiter
	defaultTTL time.Duration
	log        *logger.Logger
}

// NewOTPService creates a new OTPService
func NewOTPService(repo repository.ChallanRepository, limiter AttemptLimiter, defaultTTL time.Duration, log *logger.Logger) *OTPService {
	if defaultTTL <= 0 {
		defaultTTL = 2 * time.Minute
	}
	if log == nil {
		log = logger.Get()
	}
	return &OTPService{repo: repo, limiter: limiter, defaultTTL: defaultTTL, log: log}
}

// Issue generates a fresh code for the challan and persists it with its
// expiry, replacing any earlier code. The returned challan carries the new
// code so the caller can notify the customer.
func (s *OTPService) Issue(ctx context.Context, tenantID, challanNo string, ttl time.Duration) (*domain.Challan, time.Duration, error) {
	ttl = s.clampTTL(ttl)

	code, err := generateOTP()
	if err != nil {
		return nil, 0, fmt.Errorf("generate otp: %w", err)
	}
	expiresAt := time.Now().Add(ttl)

	challan, err := s.repo.Mutate(ctx, tenantID, challanNo, func(c *domain.Challan) error {
		if c.IsDelivered() {
			return ErrInvalidState
		}
		if !c.HasRecipient() {
			return ErrRecipientMissing
		}
		c.OTPCode = &code
		c.OTPExpiresAt = &expiresAt
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	if challan == nil {
		return nil, 0, ErrChallanNotFound
	}

	s.log.Info("otp issued",
		zap.String("tenant_id", tenantID),
		zap.String("challan_no", challanNo),
		zap.Duration("ttl", ttl))
	return challan, ttl, nil
}

// Verify checks a submitted code against the stored one, gated by the
// attempt limiter. A successful match clears the stored code, runs
// onVerified inside the same locked mutation and resets the attempt
// counter. An expired code is also cleared so it can never match later.
// A challan without a stored code, delivered ones included, reports
// ErrNoOtpIssued.
func (s *OTPService) Verify(ctx context.Context, tenantID, challanNo, submitted string, onVerified func(c *domain.Challan)) (*domain.Challan, error) {
	allowed, err := s.limiter.Allowed(ctx, tenantID, challanNo)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrTooManyAttempts
	}

	var verifyErr error
	challan, err := s.repo.Mutate(ctx, tenantID, challanNo, func(c *domain.Challan) error {
		verifyErr = validateOTP(c, submitted, time.Now())
		switch verifyErr {
		case nil:
			c.OTPCode = nil
			c.OTPExpiresAt = nil
			if onVerified != nil {
				onVerified(c)
			}
		case ErrOTPExpired:
			c.OTPCode = nil
			c.OTPExpiresAt = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if challan == nil {
		return nil, ErrChallanNotFound
	}

	switch verifyErr {
	case nil:
		if err := s.limiter.Reset(ctx, tenantID, challanNo); err != nil {
			s.log.Warn("reset otp attempt counter failed", zap.String("challan_no", challanNo), zap.Error(err))
		}
		return challan, nil
	case ErrOTPMismatch:
		if err := s.limiter.RecordFailure(ctx, tenantID, challanNo); err != nil {
			s.log.Warn("record otp failure failed", zap.String("challan_no", challanNo), zap.Error(err))
		}
		return nil, ErrOTPMismatch
	default:
		return nil, verifyErr
	}
}

func (s *OTPService) clampTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return s.defaultTTL
	}
	if ttl < minOTPTTL {
		return minOTPTTL
	}
	if ttl > maxOTPTTL {
		return maxOTPTTL
	}
	return ttl
}

// validateOTP compares a submitted code against the stored one as exact
// strings, so "007007" and "7007" never match
func validateOTP(c *domain.Challan, submitted string, now time.Time) error {
	if c.OTPCode == nil || *c.OTPCode == "" {
		return ErrNoOtpIssued
	}
	if submitted != *c.OTPCode {
		return ErrOTPMismatch
	}
	if c.OTPExpiresAt == nil || now.After(*c.OTPExpiresAt) {
		return ErrOTPExpired
	}
	return nil
}

// generateOTP draws a uniform six digit code, zero padded
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
