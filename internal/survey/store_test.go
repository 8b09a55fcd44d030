package survey

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pulse-hr/pulse/internal/shared"
)

func TestAttemptSessionRoundTrip(t *testing.T) {
	sess := shared.NewDetachedSession()
	require.Nil(t, AttemptFromSession(sess))

	a := loadedAttempt(t, ratingCatalog(12, 2))
	answerPage(t, a, 1)
	require.NoError(t, a.Next())
	require.NoError(t, SaveAttempt(sess, a))

	restored := AttemptFromSession(sess)
	require.NotNil(t, restored)
	require.Equal(t, a.SurveyID, restored.SurveyID)
	require.Equal(t, StatusInProgress, restored.Status)
	require.Equal(t, 2, restored.Page)
	require.Equal(t, a.Drafts, restored.Drafts)
	require.Equal(t, a.Generation, restored.Generation)
}

func TestDiscardAttempt(t *testing.T) {
	sess := shared.NewDetachedSession()
	require.NoError(t, SaveAttempt(sess, loadedAttempt(t, ratingCatalog(3, 0))))
	require.NotNil(t, AttemptFromSession(sess))

	DiscardAttempt(sess)
	require.Nil(t, AttemptFromSession(sess))
}

func TestAttemptFromSessionIgnoresGarbage(t *testing.T) {
	sess := shared.NewDetachedSession()
	sess.Set("survey_attempt", "{broken")
	require.Nil(t, AttemptFromSession(sess))
}

func TestSessionHelpersNilSafe(t *testing.T) {
	require.Nil(t, AttemptFromSession(nil))
	require.NoError(t, SaveAttempt(nil, nil))
	DiscardAttempt(nil)
}
