package contact

import (
	"context"
	"errors"
	"net/mail"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Field names as posted by the form.
const (
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldDate      = "preferred_date"
	FieldCompany   = "company"
	FieldMessage   = "message"
)

const (
	minNameRunes    = 2
	minPhoneChars   = 8
	minMessageRunes = 10
	maxFieldRunes   = 2000
	dateLayout      = "2006-01-02"
)

// ErrInvalid is returned by Submit when the form does not validate.
var ErrInvalid = errors.New("contact: invalid enquiry")

// Form is the submitted enquiry.
type Form struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	PreferredDate string
	Company       string
	Message       string
}

// FormFromValues reads a form from posted values, trimming whitespace.
func FormFromValues(v url.Values) Form {
	get := func(k string) string { return strings.TrimSpace(v.Get(k)) }
	return Form{
		FirstName:     get(FieldFirstName),
		LastName:      get(FieldLastName),
		Email:         get(FieldEmail),
		Phone:         get(FieldPhone),
		PreferredDate: get(FieldDate),
		Company:       get(FieldCompany),
		Message:       get(FieldMessage),
	}
}

// Errors maps a field name to the i18n key of its validation message.
type Errors map[string]string

// Has reports whether field failed validation.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Get returns the message key for field.
func (e Errors) Get(field string) string { return e[field] }

// Validate checks the form against today's date in the given location.
func (f Form) Validate(today time.Time) Errors {
	errs := Errors{}
	if utf8.RuneCountInString(f.FirstName) < minNameRunes {
		errs[FieldFirstName] = "contact.errors.firstName"
	}
	if utf8.RuneCountInString(f.LastName) < minNameRunes {
		errs[FieldLastName] = "contact.errors.lastName"
	}
	if !validEmail(f.Email) {
		errs[FieldEmail] = "contact.errors.email"
	}
	switch {
	case len(f.Phone) < minPhoneChars:
		errs[FieldPhone] = "contact.errors.phoneShort"
	case !validPhone(f.Phone):
		errs[FieldPhone] = "contact.errors.phone"
	}
	if f.PreferredDate != "" {
		d, err := time.ParseInLocation(dateLayout, f.PreferredDate, today.Location())
		y, m, day := today.Date()
		midnight := time.Date(y, m, day, 0, 0, 0, 0, today.Location())
		if err != nil {
			errs[FieldDate] = "contact.errors.date"
		} else if d.Before(midnight) {
			errs[FieldDate] = "contact.errors.datePast"
		}
	}
	if f.Message != "" && utf8.RuneCountInString(f.Message) < minMessageRunes {
		errs[FieldMessage] = "contact.errors.message"
	}
	for field, v := range map[string]string{FieldCompany: f.Company, FieldMessage: f.Message, FieldFirstName: f.FirstName, FieldLastName: f.LastName} {
		if utf8.RuneCountInString(v) > maxFieldRunes {
			errs[field] = "contact.errors.tooLong"
		}
	}
	return errs
}

// validEmail accepts a bare address with a dotted domain.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	_, domain, _ := strings.Cut(addr.Address, "@")
	return strings.Contains(strings.Trim(domain, "."), ".")
}

func validPhone(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == ' ', r == '+', r == '(', r == ')', r == '-':
		default:
			return false
		}
	}
	return true
}

// Enquiry is an accepted form.
type Enquiry struct {
	ID         string
	Lang       string
	Form       Form
	ReceivedAt time.Time
	RemoteIP   string
}

// Sink receives accepted enquiries.
type Sink interface {
	Deliver(ctx context.Context, e Enquiry) error
}

// LogSink writes enquiries to the log. There is no delivery backend.
type LogSink struct {
	Logger *zap.Logger
}

// Deliver logs e at info level.
func (s LogSink) Deliver(_ context.Context, e Enquiry) error {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("contact enquiry received",
		zap.String("enquiry_id", e.ID),
		zap.String("lang", e.Lang),
		zap.String("name", e.Form.FirstName+" "+e.Form.LastName),
		zap.String("email", e.Form.Email),
		zap.String("company", e.Form.Company),
		zap.String("preferred_date", e.Form.PreferredDate),
		zap.Int("message_runes", utf8.RuneCountInString(e.Form.Message)),
		zap.String("remote_ip", e.RemoteIP),
	)
	return nil
}

// Service validates and accepts enquiries.
type Service struct {
	sink   Sink
	logger *zap.Logger
	now    func() time.Time
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService builds a Service delivering to sink.
func NewService(sink Sink, logger *zap.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sink == nil {
		sink = LogSink{Logger: logger}
	}
	s := &Service{sink: sink, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result is the outcome of Submit. Errors is non-empty when validation failed.
type Result struct {
	Enquiry Enquiry
	Errors  Errors
}

// Submit validates form and hands it to the sink. Validation failures return
// ErrInvalid together with the per-field errors.
func (s *Service) Submit(ctx context.Context, lang, remoteIP string, form Form) (Result, error) {
	now := s.now()
	if errs := form.Validate(now); len(errs) > 0 {
		s.logger.Debug("contact enquiry rejected", zap.Int("errors", len(errs)), zap.String("lang", lang))
		return Result{Errors: errs}, ErrInvalid
	}
	e := Enquiry{
		ID:         ulid.Make().String(),
		Lang:       lang,
		Form:       form,
		ReceivedAt: now.UTC(),
		RemoteIP:   remoteIP,
	}
	if err := s.sink.Deliver(ctx, e); err != nil {
		s.logger.Error("contact enquiry delivery failed", zap.String("enquiry_id", e.ID), zap.Error(err))
		return Result{Enquiry: e}, err
	}
	return Result{Enquiry: e}, nil
}
