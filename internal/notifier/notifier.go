package notifier

// Notifier defines a high-level interface for surfacing user-facing notices.
// Every dispatcher operation emits exactly one notice (success or failure);
// this decouples the session layer from the notification provider (e.g., Slack).
type Notifier interface {
	// Notify surfaces a transient success or informational notice.
	Notify(message string, dryRun bool) error
	// NotifyError surfaces a failure notice.
	NotifyError(message string, dryRun bool) error
}
