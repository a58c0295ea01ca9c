package mailer

// Attachment is a file sent along with a notification.
type Attachment struct {
	Filename string
	Content  []byte
}

// Message is one transactional mail.
type Message struct {
	From        string
	To          []string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Domain is a sending domain attached to the mail API account.
type Domain struct {
	Name  string `json:"name"`
	State string `json:"state"`
}
