package domain

import "time"

// NotificationKind is the visual variant of a toast.
type NotificationKind string

const (
	KindDefault     NotificationKind = "default"
	KindDestructive NotificationKind = "destructive"
)

// Notification is a transient message shown to the dashboard user.
type Notification struct {
	Title   string
	Message string
	Kind    NotificationKind
	At      time.Time
}
