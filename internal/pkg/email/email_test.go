package email

import (
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, cfg config.SMTPConfig) *emailServiceImpl {
	t.Helper()
	svc, err := NewEmailService(cfg)
	require.NoError(t, err)
	impl := svc.(*emailServiceImpl)
	impl.backoff = func(int) time.Duration { return 0 }
	return impl
}

func TestSendProposalSubmitted_RendersTemplate(t *testing.T) {
	svc := newTestService(t, config.SMTPConfig{Host: "smtp.test", Port: 587, From: "no-reply@test", FromName: "Presensi"})

	var sent []byte
	var recipients []string
	svc.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		assert.Equal(t, "smtp.test:587", addr)
		assert.Equal(t, "no-reply@test", from)
		recipients = to
		sent = msg
		return nil
	}

	err := svc.SendProposalSubmitted("manager@test", ProposalSubmittedData{
		ManagerName:   "Budi",
		SubmitterName: "Sari",
		SubmitterNIK:  "00005950",
		Section:       "Produksi",
		Kind:          "leave",
		SubmittedAt:   "06 Nov 2025",
		ReviewLink:    "http://localhost:3000/proposals/abc",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"manager@test"}, recipients)
	body := string(sent)
	assert.Contains(t, body, "Subject: Pengajuan leave baru dari Sari")
	assert.Contains(t, body, "00005950, Produksi")
	assert.Contains(t, body, "http://localhost:3000/proposals/abc")
}

func TestSendHTML_SkipsWhenSMTPUnconfigured(t *testing.T) {
	svc := newTestService(t, config.SMTPConfig{})
	svc.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called without SMTP host")
		return nil
	}

	assert.NoError(t, svc.SendPasswordReset("user@test", "http://reset", "tomorrow"))
}

func TestSendHTML_RetriesThenFails(t *testing.T) {
	svc := newTestService(t, config.SMTPConfig{Host: "smtp.test", Port: 25})

	calls := 0
	svc.send = func(string, smtp.Auth, string, []string, []byte) error {
		calls++
		return errors.New("connection refused")
	}

	err := svc.SendPasswordReset("user@test", "http://reset", "tomorrow")
	require.Error(t, err)
	assert.Equal(t, maxRetries, calls)
	assert.Contains(t, err.Error(), "connection refused")
}
