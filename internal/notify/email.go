package notify

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/certidao-digital/atendimento/internal/config"
)

// SMTPEmailSender delivers completion emails over SMTP.
type SMTPEmailSender struct {
	cfg config.NotificationConfig
}

// NewSMTPEmailSender constructs the sender.
func NewSMTPEmailSender(cfg config.NotificationConfig) *SMTPEmailSender {
	return &SMTPEmailSender{cfg: cfg}
}

// Send builds and delivers the message to the ticket's contact email.
func (s *SMTPEmailSender) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.From(s.cfg.EmailFrom); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.Ticket.Email); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(fmt.Sprintf("Sua certidão está pronta - pedido %s", msg.Ticket.Codigo))
	m.SetBodyString(mail.TypeTextPlain, emailBody(msg))

	if msg.Anexo != nil && len(msg.Anexo.Conteudo) > 0 {
		if err := m.AttachReader(msg.Anexo.Nome, bytes.NewReader(msg.Anexo.Conteudo),
			mail.WithFileContentType(mail.ContentType(msg.Anexo.Tipo))); err != nil {
			return fmt.Errorf("attach %s: %w", msg.Anexo.Nome, err)
		}
	}

	opts := []mail.Option{mail.WithPort(s.cfg.SMTPPort), mail.WithTLSPolicy(mail.TLSOpportunistic)}
	if s.cfg.SMTPUsername != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.SMTPUsername),
			mail.WithPassword(s.cfg.SMTPPassword),
		)
	}
	client, err := mail.NewClient(s.cfg.SMTPHost, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, m)
}

func emailBody(msg Message) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "Olá %s,\n\n", msg.Ticket.NomeCompleto)
	fmt.Fprintf(&b, "Seu pedido de certidão (%s) foi concluído.\n\n", msg.Ticket.Codigo)
	if msg.Mensagem != "" {
		fmt.Fprintf(&b, "%s\n\n", msg.Mensagem)
	}
	if msg.Anexo != nil && msg.Anexo.DownloadURL != "" {
		fmt.Fprintf(&b, "O documento também pode ser baixado em: %s\n\n", msg.Anexo.DownloadURL)
	}
	b.WriteString("Atenciosamente,\nEquipe de Atendimento")
	return b.String()
}
