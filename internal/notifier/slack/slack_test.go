package slack

import (
	"context"
	"errors"
	"testing"

	"github.com/courtsidehq/courtside/internal/metrics"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func TestNotify_DryRun(t *testing.T) {
	metricsSvc := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	n := NewNotifierWithAPI(nil, "C123", metricsSvc)

	err := n.Notify("You've joined the session!", true)
	require.NoError(t, err)
	assert.Equal(t, 0, metricsSvc.NoticesSent())
}

func TestNotify_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metricsSvc := metrics.NewMock()
	n := NewNotifierWithAPI(api, "C123", metricsSvc)

	err := n.Notify("You've joined the session!", false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metricsSvc.NoticesSent())
	assert.Equal(t, 0, metricsSvc.NoticesFailed())
}

func TestNotifyError_SendFailure(t *testing.T) {
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", errors.New("slack is down")
		},
	}

	metricsSvc := metrics.NewMock()
	n := NewNotifierWithAPI(api, "C123", metricsSvc)

	err := n.NotifyError("Failed to join session.", false)

	require.Error(t, err)
	assert.Equal(t, 0, metricsSvc.NoticesSent())
	assert.Equal(t, 1, metricsSvc.NoticesFailed())
}
