package license

import (
	"context"
	"time"

	"github.com/AndreeJait/email-storm/errow"
	"github.com/AndreeJait/email-storm/jwt"
	"github.com/AndreeJait/email-storm/loggerw"
	"github.com/pkg/errors"
)

const tokenIssuer = "email-storm"

type Config struct {
	ActivationURL string        `json:"activation_url" yaml:"activation_url"`
	AppName       string        `json:"app_name" yaml:"app_name"`
	Timeout       time.Duration `json:"timeout" yaml:"timeout"`
	// Secret signs license tokens. Without it no token is issued.
	Secret   string        `json:"secret" yaml:"secret"`
	TokenTTL time.Duration `json:"token_ttl" yaml:"token_ttl"`
	// Enforce requires a valid license token on campaign submission.
	Enforce bool `json:"enforce" yaml:"enforce"`
}

type tokenData struct {
	SystemID string `json:"systemId"`
}

type Service struct {
	prober  Prober
	checker Checker
	cfg     Config
	log     loggerw.Logger
}

func NewService(prober Prober, checker Checker, cfg Config, log loggerw.Logger) *Service {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &Service{prober: prober, checker: checker, cfg: cfg, log: log}
}

// Enforced reports whether campaign submission needs a license token.
func (s *Service) Enforced() bool {
	return s.cfg.Enforce && s.cfg.Secret != ""
}

// SystemInfo probes the hardware and derives the device key.
func (s *Service) SystemInfo(ctx context.Context) (string, error) {
	serial, err := s.prober.MotherboardSerial(ctx)
	if err != nil {
		s.log.Errorf("failed to get motherboard serial: %v", err)
		return "", errors.Wrap(errow.ErrSystemInfoUnavailable, "motherboard: "+err.Error())
	}
	processorID, err := s.prober.ProcessorID(ctx)
	if err != nil {
		s.log.Errorf("failed to get processor id: %v", err)
		return "", errors.Wrap(errow.ErrSystemInfoUnavailable, "processor: "+err.Error())
	}
	return SystemID(processorID, serial), nil
}

// CheckActivation asks the activation server about this device and, when
// the device is active and a secret is configured, attaches a license token.
func (s *Service) CheckActivation(ctx context.Context) Status {
	systemID, err := s.SystemInfo(ctx)
	if err != nil {
		return errorStatus(nil, "Failed to retrieve complete system information.")
	}

	s.log.WithField("system_id", systemID).Info("sending activation check")
	status := s.checker.Check(ctx, systemID)
	if status.ActivationStatus == StatusError {
		s.log.Errorf("activation check failed: %s", status.Message)
	}

	if status.Success && s.cfg.Secret != "" {
		token, err := jwt.CreateToken(jwt.CreateTokenRequest[tokenData]{
			SecretToken: s.cfg.Secret,
			Issuer:      tokenIssuer,
			Subject:     systemID,
			TTL:         s.cfg.TokenTTL,
			Data:        tokenData{SystemID: systemID},
		})
		if err != nil {
			s.log.Errorf("failed to issue license token: %v", err)
		} else {
			status.LicenseToken = token
		}
	}
	return status
}

// VerifyToken returns the system id a license token was issued for.
func (s *Service) VerifyToken(token string) (string, error) {
	if token == "" {
		return "", errors.WithStack(errow.ErrLicenseRequired)
	}
	claims, err := jwt.ParseToken[tokenData](token, s.cfg.Secret)
	if err != nil {
		return "", err
	}
	return claims.Data.SystemID, nil
}
