package mail

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"construmax/internal/domain/entities"
	"construmax/internal/usecase/interfaces"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

var ErrMissingSMTPHost = errors.New("missing SMTP_HOST")

const (
	defaultRetryCount   = 3
	defaultRetryBackoff = 2 * time.Second
	defaultSendTimeout  = 15 * time.Second
)

// smtpDialer is the slice of *gomail.Dialer the sender uses; tests swap in a
// fake transport.
type smtpDialer interface {
	Dial() (gomail.SendCloser, error)
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender delivers notification messages over SMTP with bounded retries.
//
// Retry policy: the first attempt plus up to retryCount retries, waiting
// base*n before retry n. With the defaults (3 retries, 2s base) the worst
// case spends 2+4+6 = 12s waiting.
//
// Readiness: a single advisory flag, written by Verify and by send attempts,
// read everywhere without a lock. While the flag is confirmed not-ready the
// sender fails fast instead of burning retries against a dead transport; a
// successful Verify flips it back.
type SMTPSender struct {
	dialer       smtpDialer
	host         string
	retryCount   int
	retryBackoff time.Duration
	sendTimeout  time.Duration
	ready        atomic.Bool
}

var _ interfaces.IMailSender = (*SMTPSender)(nil)

// SMTPSenderConfig carries transport settings. Zero retry/backoff/timeout
// values fall back to the defaults above.
type SMTPSenderConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	RetryCount   int
	RetryBackoff time.Duration
	SendTimeout  time.Duration
}

func NewSMTPSender(cfg SMTPSenderConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		log.Printf("[mail][sender] missing SMTP host")
		return nil, ErrMissingSMTPHost
	}
	if cfg.Port <= 0 {
		cfg.Port = 587
	}
	if cfg.RetryCount <= 0 {
		cfg.RetryCount = defaultRetryCount
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = defaultRetryBackoff
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}

	log.Printf("[mail][sender] initializing smtp sender host=%s port=%d user=%s retries=%d backoff=%s", cfg.Host, cfg.Port, cfg.User, cfg.RetryCount, cfg.RetryBackoff)
	return &SMTPSender{
		dialer:       gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		host:         cfg.Host,
		retryCount:   cfg.RetryCount,
		retryBackoff: cfg.RetryBackoff,
		sendTimeout:  cfg.SendTimeout,
	}, nil
}

// NewSMTPSenderFromEnv builds the sender from environment variables.
// Returns ErrMissingSMTPHost when SMTP_HOST is unset so the caller can wire
// a nil sender (deliveries become skipped, not failed).
func NewSMTPSenderFromEnv() (*SMTPSender, error) {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	retries, _ := strconv.Atoi(os.Getenv("MAIL_RETRY_COUNT"))
	backoffSec, _ := strconv.Atoi(os.Getenv("MAIL_RETRY_BACKOFF_SECONDS"))
	timeoutSec, _ := strconv.Atoi(os.Getenv("MAIL_SEND_TIMEOUT_SECONDS"))

	return NewSMTPSender(SMTPSenderConfig{
		Host:         os.Getenv("SMTP_HOST"),
		Port:         port,
		User:         os.Getenv("SMTP_USER"),
		Password:     os.Getenv("SMTP_PASSWORD"),
		RetryCount:   retries,
		RetryBackoff: time.Duration(backoffSec) * time.Second,
		SendTimeout:  time.Duration(timeoutSec) * time.Second,
	})
}

// Ready reports the last-known transport health without probing.
func (s *SMTPSender) Ready() bool {
	return s.ready.Load()
}

// Verify probes the transport with a dial and refreshes the readiness flag.
func (s *SMTPSender) Verify(ctx context.Context) bool {
	type dialResult struct {
		closer gomail.SendCloser
		err    error
	}
	done := make(chan dialResult, 1)
	go func() {
		c, err := s.dialer.Dial()
		done <- dialResult{closer: c, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			log.Printf("[mail][sender] verify failed host=%s err=%v", s.host, res.err)
			s.ready.Store(false)
			return false
		}
		if res.closer != nil {
			_ = res.closer.Close()
		}
		s.ready.Store(true)
		return true
	case <-time.After(s.sendTimeout):
		log.Printf("[mail][sender] verify timed out host=%s", s.host)
		s.ready.Store(false)
		return false
	case <-ctx.Done():
		s.ready.Store(false)
		return false
	}
}

// Send delivers one message, retrying per the backoff schedule. It always
// returns an outcome: delivery failure is data for the caller to record, not
// an error to propagate.
func (s *SMTPSender) Send(ctx context.Context, m entities.NotificationMessage) entities.SendOutcome {
	// The flag may be stale; a successful re-verify lets the send proceed.
	if !s.ready.Load() && !s.Verify(ctx) {
		log.Printf("[mail][sender] transport not ready, failing fast quote_id=%s", m.QuoteID)
		return entities.SendOutcome{ErrorDetail: "smtp transport not ready", Exhausted: false}
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), s.host)
	msg := buildMessage(m, messageID)

	var lastErr error
	attempts := 0
	for attempt := 0; attempt <= s.retryCount; attempt++ {
		if attempt > 0 {
			// Retry n waits base*n; not capped, the schedule is short.
			wait := time.Duration(attempt) * s.retryBackoff
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return entities.SendOutcome{ErrorDetail: ctx.Err().Error(), Attempts: attempts, Exhausted: false}
			}
		}

		attempts++
		err := s.attemptSend(ctx, msg)
		if err == nil {
			s.ready.Store(true)
			log.Printf("[mail][sender] sent quote_id=%s to=%s attempt=%d", m.QuoteID, m.To, attempts)
			return entities.SendOutcome{Delivered: true, MessageID: messageID, Attempts: attempts}
		}

		lastErr = err
		s.ready.Store(false)
		log.Printf("[mail][sender] attempt %d failed quote_id=%s to=%s err=%v", attempts, m.QuoteID, m.To, err)

		// Don't burn the remaining retries against a transport that a
		// fresh probe confirms is down.
		if attempt < s.retryCount && !s.Verify(ctx) {
			log.Printf("[mail][sender] transport unverified after failure, aborting retries quote_id=%s", m.QuoteID)
			return entities.SendOutcome{ErrorDetail: lastErr.Error(), Attempts: attempts, Exhausted: false}
		}
	}

	log.Printf("[mail][sender] exhausted %d attempts quote_id=%s to=%s err=%v", attempts, m.QuoteID, m.To, lastErr)
	return entities.SendOutcome{ErrorDetail: lastErr.Error(), Attempts: attempts, Exhausted: true}
}

func (s *SMTPSender) attemptSend(ctx context.Context, msg *gomail.Message) error {
	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(s.sendTimeout):
		return fmt.Errorf("smtp send timed out after %s", s.sendTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func buildMessage(m entities.NotificationMessage, messageID string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.SenderAddress, m.SenderName)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetHeader("Message-ID", messageID)
	msg.SetBody("text/plain", m.Body)
	return msg
}
