package report

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
)

type SmtpConfig struct {
	Host     string   `json:"host"`
	Port     int      `json:"port"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	From     string   `json:"from"`
	To       []string `json:"to"`
}

// EmailAudit mails a rendered audit report to the operators listed in
// the config, for teams that review data quality asynchronously.
func EmailAudit(cfg SmtpConfig, subject, body string) error {
	if cfg.Host == "" || len(cfg.To) == 0 {
		return fmt.Errorf("smtp host and recipients must be configured")
	}

	e := email.NewEmail()
	e.From = cfg.From
	e.To = cfg.To
	e.Subject = subject
	e.Text = []byte(body)

	return e.Send(
		fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host),
	)
}
