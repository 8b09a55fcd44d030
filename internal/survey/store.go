package survey

import (
	"encoding/json"

	"github.com/pulse-hr/pulse/internal/shared"
)

const sessionKey = "survey_attempt"

// AttemptFromSession restores the session's in-progress attempt, nil when
// none exists. Attempts are session-local by design: they die with the
// session and are never shared.
func AttemptFromSession(sess *shared.Session) *Attempt {
	if sess == nil {
		return nil
	}
	raw := sess.Get(sessionKey)
	if raw == "" {
		return nil
	}
	var attempt Attempt
	if err := json.Unmarshal([]byte(raw), &attempt); err != nil {
		return nil
	}
	return &attempt
}

// SaveAttempt writes the attempt back to the session.
func SaveAttempt(sess *shared.Session, attempt *Attempt) error {
	if sess == nil {
		return nil
	}
	data, err := json.Marshal(attempt)
	if err != nil {
		return err
	}
	sess.Set(sessionKey, string(data))
	return nil
}

// DiscardAttempt drops the session's attempt.
func DiscardAttempt(sess *shared.Session) {
	if sess == nil {
		return
	}
	sess.Delete(sessionKey)
}
