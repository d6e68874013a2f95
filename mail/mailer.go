package mail

import (
	"fmt"

	"github.com/microblog-hq/api-go/config"
	"github.com/microblog-hq/api-go/models"
	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

// Message is one outbound mail.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer performs best-effort asynchronous delivery. Enqueue hands the
// message to a single background worker and returns immediately; delivery
// failures are logged, never surfaced to the caller.
type Mailer struct {
	cfg   *config.Config
	queue chan Message
	send  func(Message) error
}

func New(cfg *config.Config) *Mailer {
	m := &Mailer{
		cfg:   cfg,
		queue: make(chan Message, 64),
	}
	m.send = m.deliver
	return m
}

// Start launches the delivery worker. It drains the queue until the channel
// is closed.
func (m *Mailer) Start() {
	go func() {
		for msg := range m.queue {
			if err := m.send(msg); err != nil {
				log.Error().Err(err).Str("to", msg.To).Msg("mail delivery failed")
			}
		}
	}()
}

// Enqueue queues a message for delivery without blocking the caller. When
// the queue is full the message is dropped and logged.
func (m *Mailer) Enqueue(msg Message) {
	select {
	case m.queue <- msg:
	default:
		log.Warn().Str("to", msg.To).Msg("mail queue full, dropping message")
	}
}

// SendPasswordReset mails the reset link for an issued token.
func (m *Mailer) SendPasswordReset(user *models.User, token string) {
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"To reset your password visit the following link:\n\n"+
			"%s/reset-password?token=%s\n\n"+
			"If you have not requested a password reset simply ignore this message.\n",
		user.Username, m.cfg.PublicURL, token)

	m.Enqueue(Message{
		To:      user.Email,
		Subject: "[Microblog] Reset Your Password",
		Body:    body,
	})
}

func (m *Mailer) deliver(msg Message) error {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.cfg.MailSender)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)

	d := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUsername, m.cfg.SMTPPassword)
	return d.DialAndSend(gm)
}
