package audit

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Logger writes one structured line per account or catalog mutation.
type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// privileged actions are logged at warn level even when they succeed.
var privileged = map[string]bool{
	"admin.block_student":   true,
	"admin.unblock_student": true,
	"admin.delete_student":  true,
	"dev.promote_admin":     true,
	"course.delete":         true,
}

// Record is the hook passed to the services' WithAudit.
func (l *Logger) Record(action string, fields map[string]string) {
	ev := l.log.Info()
	if fields["result"] == "error" || privileged[action] || fields["requested_role"] == "admin" {
		ev = l.log.Warn()
	}
	ev = ev.Str("action", action)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := fields[k]
		if k == "email" {
			v = maskEmail(v)
		}
		ev = ev.Str(k, v)
	}
	ev.Msg("audit")
}

// maskEmail keeps the first two characters of the local part and the domain.
func maskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	switch {
	case len(email) < 5 || at < 0:
		return "***"
	case at < 2:
		return email[:1] + "***" + email[at:]
	default:
		return email[:2] + "***" + email[at:]
	}
}
