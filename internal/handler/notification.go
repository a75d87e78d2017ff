package handler

import "net/http"

const defaultNotificationLimit = 20

// NotificationList is the body of GET /api/notifications.
type NotificationList struct {
	Data []Notification `json:"data"`
}

// ListNotifications handles GET /api/notifications?limit=, newest first.
func (s *Server) ListNotifications(w http.ResponseWriter, r *http.Request) {
	var limit *int
	if err := bindQuery(r, "limit", &limit); err != nil {
		badRequest(w, "limit must be an integer")
		return
	}
	n := defaultNotificationLimit
	if limit != nil && *limit > 0 {
		n = *limit
	}
	writeJSON(w, http.StatusOK, NotificationList{Data: notificationsToResponse(s.notifications.Recent(n))})
}
