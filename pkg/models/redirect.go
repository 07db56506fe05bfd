package models

// RedirectEntry is one access-log line that redirected to a watched domain.
type RedirectEntry struct {
	SourceIP  string `json:"source_ip"`
	Timestamp string `json:"timestamp"`
	Request   string `json:"request"`
	Status    int    `json:"status"`
	Target    string `json:"target"`
}
