package mail

// Message is an outgoing email. Headers are added verbatim after the standard
// ones.
type Message struct {
	From        string
	To          []string
	Cc          []string
	Bcc         []string
	Subject     string
	Body        string
	IsHTML      bool
	Headers     map[string]string
	Attachments []string
}

type MailSender interface {
	Send(message *Message) error
}
