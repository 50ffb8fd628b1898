package aws

import (
	"context"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSNSAPI struct {
	mock.Mock
}

func (m *mockSNSAPI) Publish(ctx context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*sns.PublishOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestSNSClient_PublishMessage(t *testing.T) {
	api := new(mockSNSAPI)
	api.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		return awssdk.ToString(in.TopicArn) == "arn:topic" &&
			awssdk.ToString(in.Message) == "View Entry" &&
			awssdk.ToString(in.Subject) == "Bank import"
	})).Return(&sns.PublishOutput{MessageId: awssdk.String("m-1")}, nil)

	id, err := NewSNSClientWithAPI(api).PublishMessage(context.Background(), "arn:topic", "Bank import", "View Entry")
	require.NoError(t, err)
	assert.Equal(t, "m-1", id)
	api.AssertExpectations(t)
}

func TestSNSClient_PublishMessage_NoSubject(t *testing.T) {
	api := new(mockSNSAPI)
	api.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		return in.Subject == nil
	})).Return(&sns.PublishOutput{}, nil)

	_, err := NewSNSClientWithAPI(api).PublishMessage(context.Background(), "arn:topic", "", "x")
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestSNSClient_PublishMessage_Error(t *testing.T) {
	api := new(mockSNSAPI)
	api.On("Publish", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	_, err := NewSNSClientWithAPI(api).PublishMessage(context.Background(), "arn:topic", "", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}
