package mailer

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

func dialer() (*gomail.Dialer, string, error) {
	host := os.Getenv("MAIL_HOST")
	portStr := os.Getenv("MAIL_PORT")
	user := os.Getenv("MAIL_USER")
	pass := os.Getenv("MAIL_PASSWORD")
	from := os.Getenv("MAIL_FROM")

	if host == "" || user == "" {
		return nil, "", fmt.Errorf("mail credentials not configured")
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		port = 587
	}
	if from == "" {
		from = user
	}
	return gomail.NewDialer(host, port, user, pass), from, nil
}

// SendPasswordResetEmail mails the raw reset token as a link into the web
// app. APP_URL is the public frontend base URL.
func SendPasswordResetEmail(to string, rawToken string) error {
	d, from, err := dialer()
	if err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", os.Getenv("APP_URL"), rawToken)

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Reset your password")
	m.SetBody("text/html", fmt.Sprintf(
		`<p>We received a request to reset your password.</p>
<p><a href="%s">Click here to choose a new password.</a></p>
<p>The link expires in one hour. If you didn't ask for this, you can ignore this email.</p>`,
		resetURL,
	))

	return d.DialAndSend(m)
}
