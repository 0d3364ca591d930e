// Package email sends transactional mail through SendGrid. Sends are
// expected to run on the background pool: a failed send is an error to
// log, never a reason to fail the request that triggered it.
package email

import (
	"fmt"

	"github.com/mentorx/platform/config"
	"github.com/mentorx/platform/core/claims"
	"github.com/sendgrid/rest"
	sendgrid "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Mailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

func New(cfg config.Email) *Mailer {
	return &Mailer{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.FromAddress),
	}
}

func (m *Mailer) send(to string, toName string, subject string, html string) error {
	msg := mail.NewSingleEmail(m.from, subject, mail.NewEmail(toName, to), "", html)

	resp, err := m.client.Send(msg)
	if err != nil {
		return fmt.Errorf("sending email[%s] to %s: %w", subject, to, err)
	}
	if !accepted(resp) {
		return fmt.Errorf("sending email[%s] to %s: provider status %d", subject, to, resp.StatusCode)
	}

	return nil
}

func accepted(resp *rest.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func (m *Mailer) SendWelcome(to string, name string, role string) error {
	html := Render(welcomeTmpl, Data{
		Vars:   map[string]string{"NAME": name},
		Blocks: map[string]bool{"IS_MENTOR": role == claims.RoleMentor},
	})

	return m.send(to, name, "Bem-vindo ao MentorX", html)
}

func (m *Mailer) SendPurchaseNotice(to string, mentorName string, courseTitle string, studentName string) error {
	html := Render(purchaseTmpl, Data{
		Vars: map[string]string{
			"NAME":         mentorName,
			"COURSE_TITLE": courseTitle,
			"STUDENT_NAME": studentName,
		},
	})

	return m.send(to, mentorName, "Você tem uma nova venda!", html)
}

func (m *Mailer) SendEnrollmentConfirmation(to string, name string, courseTitle string) error {
	html := Render(enrollmentTmpl, Data{
		Vars: map[string]string{
			"NAME":         name,
			"COURSE_TITLE": courseTitle,
		},
	})

	return m.send(to, name, "Matrícula confirmada", html)
}
