package server

// Notification levels, matching the alert styles of the page front end.
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelDanger  = "danger"
)

// Notification is the payload returned for anything that is not a result:
// parse failures, rejected input and server faults. Message is either a
// string or a map of labelled strings.
type Notification struct {
	Level   string      `json:"level" msgpack:"level"`
	Message interface{} `json:"message" msgpack:"message"`
}

func danger(msg string) Notification {
	return Notification{Level: LevelDanger, Message: msg}
}

func warning(msg string) Notification {
	return Notification{Level: LevelWarning, Message: msg}
}
