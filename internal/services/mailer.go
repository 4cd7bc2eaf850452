package services

import "log"

// Mailer sends password-reset mail. Swap in a real provider client in
// production; the log sender below covers development and tests.
type Mailer interface {
	SendPasswordReset(email, link string) error
}

// LogMailer writes the mail to the process log instead of sending it.
type LogMailer struct{}

// SendPasswordReset logs the reset mail that would have been sent.
func (LogMailer) SendPasswordReset(email, link string) error {
	log.Println("========================================================")
	log.Printf("SENDING PASSWORD RESET EMAIL")
	log.Printf("To: %s", email)
	log.Printf("Subject: Reset Your Password")
	log.Printf("Body: To reset your password, please click the following link: %s", link)
	log.Println("========================================================")
	return nil
}
