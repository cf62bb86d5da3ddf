package notify

// Notify delivers a short message to a human.
type Notify interface {
	Webhook(title string, content string) error
}
