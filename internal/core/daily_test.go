package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soreahq/sorea/internal/model"
)

func TestRunDailySummarizesAndCleansUp(t *testing.T) {
	st := newMockStore()
	st.users = []string{testUserID}
	st.lastTurn = time.Now().UTC().Add(-20 * time.Hour)
	st.turns = []model.Turn{{
		User:      model.UserMessage{Content: "failed my quiz"},
		Assistant: model.AssistantMessage{Content: "One quiz doesn't define you."},
	}}
	m := newRoutedLLM(
		route{name: "summary", marker: markSummary,
			resp: "User talked about a failed quiz and seemed discouraged."},
	)
	e := newTestEngine(t, st, m)

	require.NoError(t, e.RunDaily(context.Background()))

	today := time.Now().UTC().Format("2006-01-02")
	assert.Equal(t, "User talked about a failed quiz and seemed discouraged.",
		st.summaries[testUserID+"/"+today])
	assert.Equal(t, 1, st.cleanups)
}

func TestRunDailySkipsExistingSummary(t *testing.T) {
	st := newMockStore()
	st.users = []string{testUserID}
	st.hasSummary = true
	st.lastTurn = time.Now().UTC()
	m := newRoutedLLM(
		route{name: "summary", marker: markSummary, resp: "should not be called"},
	)
	e := newTestEngine(t, st, m)

	require.NoError(t, e.RunDaily(context.Background()))
	assert.Zero(t, m.count("summary"))
	assert.Empty(t, st.summaries)
	assert.Equal(t, 1, st.cleanups, "event cleanup still runs")
}

func TestRunDailySkipsUsersWithNoHistory(t *testing.T) {
	st := newMockStore()
	st.users = []string{testUserID}
	e := newTestEngine(t, st, newRoutedLLM())

	require.NoError(t, e.RunDaily(context.Background()))
	assert.Empty(t, st.summaries)
	assert.Equal(t, 1, st.cleanups)
}

func TestRunDailyNoUsers(t *testing.T) {
	st := newMockStore()
	e := newTestEngine(t, st, newRoutedLLM())

	require.NoError(t, e.RunDaily(context.Background()))
	assert.Zero(t, st.cleanups)
}
