package contact

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var today = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func validForm() Form {
	return Form{
		FirstName: "Nina",
		LastName:  "Gibbons",
		Email:     "nina@example.ge",
		Phone:     "+995 (577) 311-043",
	}
}

func TestValidateAcceptsMinimalForm(t *testing.T) {
	require.Empty(t, validForm().Validate(today))

	f := validForm()
	f.PreferredDate = "2026-03-10"
	f.Message = "Looking for 60 m² office"
	require.Empty(t, f.Validate(today), "today is not in the past")
}

func TestValidateRules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Form)
		field  string
		key    string
	}{
		{"short first name", func(f *Form) { f.FirstName = "N" }, FieldFirstName, "contact.errors.firstName"},
		{"georgian name counts runes", func(f *Form) { f.LastName = "ნ" }, FieldLastName, "contact.errors.lastName"},
		{"email without at", func(f *Form) { f.Email = "nina.example.ge" }, FieldEmail, "contact.errors.email"},
		{"email with display name", func(f *Form) { f.Email = "Nina <nina@example.ge>" }, FieldEmail, "contact.errors.email"},
		{"email without dotted domain", func(f *Form) { f.Email = "nina@localhost" }, FieldEmail, "contact.errors.email"},
		{"short phone", func(f *Form) { f.Phone = "12345" }, FieldPhone, "contact.errors.phoneShort"},
		{"phone letters", func(f *Form) { f.Phone = "call me maybe" }, FieldPhone, "contact.errors.phone"},
		{"bad date", func(f *Form) { f.PreferredDate = "10/03/2026" }, FieldDate, "contact.errors.date"},
		{"past date", func(f *Form) { f.PreferredDate = "2026-03-09" }, FieldDate, "contact.errors.datePast"},
		{"short message", func(f *Form) { f.Message = "hi there" }, FieldMessage, "contact.errors.message"},
		{"huge company", func(f *Form) { f.Company = strings.Repeat("x", maxFieldRunes+1) }, FieldCompany, "contact.errors.tooLong"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := validForm()
			tc.mutate(&f)
			errs := f.Validate(today)
			require.Len(t, errs, 1, "%v", errs)
			require.True(t, errs.Has(tc.field))
			require.Equal(t, tc.key, errs.Get(tc.field))
		})
	}
}

func TestFormFromValuesTrims(t *testing.T) {
	v := url.Values{}
	v.Set(FieldFirstName, "  Ani ")
	v.Set(FieldEmail, "ani@m25.ge\n")
	f := FormFromValues(v)
	require.Equal(t, "Ani", f.FirstName)
	require.Equal(t, "ani@m25.ge", f.Email)
	require.Empty(t, f.Company)
}

type recordingSink struct {
	got []Enquiry
	err error
}

func (s *recordingSink) Deliver(_ context.Context, e Enquiry) error {
	s.got = append(s.got, e)
	return s.err
}

func TestSubmitDeliversValidEnquiry(t *testing.T) {
	sink := &recordingSink{}
	svc := NewService(sink, zap.NewNop(), WithClock(func() time.Time { return today }))

	res, err := svc.Submit(context.Background(), "ka", "203.0.113.7", validForm())
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	require.Len(t, sink.got, 1)
	require.Equal(t, res.Enquiry.ID, sink.got[0].ID)
	_, perr := ulid.Parse(res.Enquiry.ID)
	require.NoError(t, perr)
	require.Equal(t, "ka", res.Enquiry.Lang)
	require.Equal(t, today, res.Enquiry.ReceivedAt)
}

func TestSubmitRejectsInvalid(t *testing.T) {
	sink := &recordingSink{}
	svc := NewService(sink, nil, WithClock(func() time.Time { return today }))

	f := validForm()
	f.Email = ""
	res, err := svc.Submit(context.Background(), "en", "", f)
	require.ErrorIs(t, err, ErrInvalid)
	require.True(t, res.Errors.Has(FieldEmail))
	require.Empty(t, sink.got)
}

func TestSubmitPropagatesSinkError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(&recordingSink{err: boom}, nil, WithClock(func() time.Time { return today }))
	_, err := svc.Submit(context.Background(), "en", "", validForm())
	require.ErrorIs(t, err, boom)
}

func TestLogSinkWritesStructuredEntry(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	svc := NewService(nil, zap.New(core), WithClock(func() time.Time { return today }))

	res, err := svc.Submit(context.Background(), "en", "198.51.100.2", validForm())
	require.NoError(t, err)

	entries := logs.FilterMessage("contact enquiry received").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, res.Enquiry.ID, fields["enquiry_id"])
	require.Equal(t, "nina@example.ge", fields["email"])
	require.Equal(t, "198.51.100.2", fields["remote_ip"])
}
