// Package smtp реализует почтовый транспорт поверх net/smtp с обязательным STARTTLS.
package smtp

import "io"

// Client описывает минимальный набор операций SMTP-клиента,
// необходимый сервису рассылки. Позволяет подменять клиента в тестах.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}
