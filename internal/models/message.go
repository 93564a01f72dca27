package models

// Message is a single outgoing html mail.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}
