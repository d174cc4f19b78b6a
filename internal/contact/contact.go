// Package contact validates and acknowledges contact form submissions.
// Accepted messages are logged and discarded; nothing is stored or sent.
package contact

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/themeflex/internal/notify"
	"github.com/jmylchreest/themeflex/internal/observability"
)

// Acknowledgement texts shown after a successful submission.
const (
	SuccessTitle       = "Message Sent!"
	SuccessDescription = "Thank you for your message. We'll get back to you soon."
)

// Field length limits.
const (
	maxShortField = 200
	maxMessage    = 5000
)

// Submission is a contact form message. Email is tagged for log redaction.
type Submission struct {
	Name    string `json:"name" maxLength:"200" doc:"Sender name"`
	Email   string `json:"email" masq:"secret" format:"email" maxLength:"200" doc:"Sender email address"`
	Subject string `json:"subject" maxLength:"200" doc:"Message subject"`
	Message string `json:"message" maxLength:"5000" doc:"Message body"`
}

// Normalize trims surrounding whitespace from every field.
func (s Submission) Normalize() Submission {
	return Submission{
		Name:    strings.TrimSpace(s.Name),
		Email:   strings.TrimSpace(s.Email),
		Subject: strings.TrimSpace(s.Subject),
		Message: strings.TrimSpace(s.Message),
	}
}

// Validate checks that every field is present and the email is well formed.
// Whitespace-only values count as missing. Failures are *ValidationError.
func (s Submission) Validate() error {
	n := s.Normalize()
	err := validation.ValidateStruct(&n,
		validation.Field(&n.Name,
			validation.Required.Error("Name is required"),
			validation.RuneLength(0, maxShortField),
		),
		validation.Field(&n.Email,
			validation.Required.Error("Email is required"),
			validation.RuneLength(0, maxShortField),
			is.EmailFormat.Error("Email must be a valid email address"),
		),
		validation.Field(&n.Subject,
			validation.Required.Error("Subject is required"),
			validation.RuneLength(0, maxShortField),
		),
		validation.Field(&n.Message,
			validation.Required.Error("Message is required"),
			validation.RuneLength(0, maxMessage),
		),
	)
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for field, fieldErr := range verrs {
		fields[field] = fieldErr.Error()
	}
	return &ValidationError{Fields: fields}
}

// ValidationError lists per-field problems keyed by the JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "invalid contact submission: " + strings.Join(parts, "; ")
}

// Receipt acknowledges an accepted submission.
type Receipt struct {
	Reference  string    `json:"reference" doc:"Submission reference"`
	ReceivedAt time.Time `json:"received_at"`
}

// Service accepts contact submissions.
type Service struct {
	logger  *slog.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

// NewService creates a contact service. A nil logger uses slog.Default.
func NewService(logger *slog.Logger, metrics *observability.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		logger:  observability.WithComponent(logger, "contact"),
		metrics: metrics,
		now:     time.Now,
	}
}

// Submit validates sub and, when valid, acknowledges it with a receipt.
func (s *Service) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	if err := sub.Validate(); err != nil {
		s.metrics.ObserveContact("rejected")
		s.logger.DebugContext(ctx, "contact submission rejected", slog.String("error", err.Error()))
		return Receipt{}, err
	}

	sub = sub.Normalize()
	receivedAt := s.now().UTC()
	receipt := Receipt{
		Reference:  ulid.MustNew(ulid.Timestamp(receivedAt), ulid.DefaultEntropy()).String(),
		ReceivedAt: receivedAt,
	}

	s.metrics.ObserveContact("accepted")
	s.logger.InfoContext(ctx, "contact message received",
		slog.String("reference", receipt.Reference),
		slog.Any("submission", sub),
	)
	return receipt, nil
}

// SuccessNotification is the toast shown after an accepted submission.
func SuccessNotification() notify.Notification {
	return notify.Success(SuccessTitle, SuccessDescription)
}
