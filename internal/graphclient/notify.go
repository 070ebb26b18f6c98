package graphclient

// Kind classifies a notification.
type Kind string

const (
	// KindSuccess confirms a change was saved.
	KindSuccess Kind = "success"
	// KindError reports a change that was not applied; the user can retry.
	KindError Kind = "error"
	// KindUnsaved reports a change that is shown but was not saved.
	KindUnsaved Kind = "unsaved"
)

// Notification is a user-visible message about the outcome of a gesture.
type Notification struct {
	Kind        Kind
	Title       string
	Description string
}

// Notifier receives notifications from the reconciler loop. Notify must not
// block.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notification) {}
