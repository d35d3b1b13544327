package utils

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"
)

// SendEmail gửi mail HTML qua SMTP, host/port đọc từ env để đổi được
// nhà cung cấp mà không sửa code
func SendEmail(to, subject, body string) error {
	from := os.Getenv("SMTP_EMAIL")
	pass := os.Getenv("SMTP_PASSWORD")

	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}

	sender := from
	if name := os.Getenv("SMTP_FROM_NAME"); name != "" {
		sender = fmt.Sprintf("%s <%s>", name, from)
	}

	// Headers: hỗ trợ UTF-8 & HTML
	var msg strings.Builder
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString(fmt.Sprintf("From: %s\r\n", sender))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("\r\n" + body)

	err := smtp.SendMail(
		host+":"+port,
		smtp.PlainAuth("", from, pass, host),
		from,
		[]string{to},
		[]byte(msg.String()),
	)
	if err != nil {
		return fmt.Errorf("gửi email thất bại: %v", err)
	}
	return nil
}
