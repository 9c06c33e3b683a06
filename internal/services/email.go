package services

import (
	"crypto/tls"
	"fmt"

	"github.com/emenu-app/emenu-backend/internal/config"
	"gopkg.in/gomail.v2"
)

type EmailService struct {
	config *config.Config
}

func NewEmailService(config *config.Config) *EmailService {
	return &EmailService{config: config}
}

func (s *EmailService) SendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	d.TLSConfig = &tls.Config{InsecureSkipVerify: true}

	return d.DialAndSend(m)
}

func (s *EmailService) SendPasswordResetEmail(email, resetToken, baseURL string) error {
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", baseURL, resetToken)

	subject := "Réinitialisation de votre mot de passe"
	body := fmt.Sprintf(`
		<h2>Réinitialisation du mot de passe</h2>
		<p>Une demande de réinitialisation a été faite pour le compte <strong>%s</strong>.</p>
		<p><a href="%s">Cliquez ici pour choisir un nouveau mot de passe</a></p>
		<p>Ce lien expire dans une heure. Si vous n'êtes pas à l'origine de cette
		demande, ignorez simplement ce message.</p>
	`, email, resetLink)

	return s.SendEmail(email, subject, body)
}

func (s *EmailService) SendWelcomeEmail(email, firstName string) error {
	subject := "Bienvenue sur E-Menu"
	body := fmt.Sprintf(`
		<h2>Bienvenue %s !</h2>
		<p>Votre compte a bien été créé. Vous pouvez dès maintenant découvrir
		les structures et plats autour de vous, ou publier les vôtres.</p>
	`, firstName)

	return s.SendEmail(email, subject, body)
}
