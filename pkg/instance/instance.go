package instance

import "os"

var idKeys = []string{"DYNO", "HOSTNAME"}

// ID identifies the running process in logs. A platform dyno name wins over
// the host name; "local" is returned when neither is set.
func ID() string {
	for _, key := range idKeys {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	return "local"
}
