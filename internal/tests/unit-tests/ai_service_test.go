package unit_tests

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiteam/internal/metrics"
	"aiteam/internal/services"
	"aiteam/internal/tests/mocks"
)

type aiFixture struct {
	svc     *services.AIService
	chat    *mocks.ChatModelMock
	creds   *mocks.CredentialsMock
	random  *mocks.RandomMock
	metrics *metrics.Metrics
	gotKey  string
	gotName string
}

func newAIFixture(t *testing.T, keys map[string]string) *aiFixture {
	t.Helper()
	f := &aiFixture{
		chat:    &mocks.ChatModelMock{},
		creds:   &mocks.CredentialsMock{Keys: keys},
		random:  &mocks.RandomMock{},
		metrics: metrics.New(),
	}
	svc, err := services.NewAIService(services.AIServiceConfig{
		Provider: "openai",
		Factory:  f.chat.Factory(&f.gotKey, &f.gotName),
		Random:   f.random,
	}, f.creds, newRoster(t), newCatalog(t), zerolog.Nop(), f.metrics)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func TestAIService_GenerateResponse_EmptyPrompt(t *testing.T) {
	f := newAIFixture(t, map[string]string{"openai": "sk-test"})

	_, err := f.svc.GenerateResponse(context.Background(), "   ", "1", nil)

	assert.ErrorIs(t, err, services.ErrEmptyPrompt)
	assert.Equal(t, 0, f.chat.CallCount())
}

func TestAIService_GenerateResponse_DemoReplyFromPersonaTable(t *testing.T) {
	f := newAIFixture(t, nil)

	for _, persona := range []string{"1", "2", "3", "4", "5"} {
		for pick := 0; pick < 3; pick++ {
			f.random.Values = []int{pick}
			reply, err := f.svc.GenerateResponse(context.Background(), "Build a login page", persona, nil)
			require.NoError(t, err)

			require.True(t, strings.HasSuffix(reply, services.DemoDisclaimer("openai")), "persona %s reply %d", persona, pick)
			body := strings.TrimSuffix(reply, services.DemoDisclaimer("openai"))
			assert.NotEmpty(t, body)
			assert.Equal(t, f.svc.DemoReplies(persona)[pick], body)
		}
	}
	assert.Equal(t, 0, f.chat.CallCount(), "demo path makes no completion call")
	assert.Equal(t, 15.0, testutil.ToFloat64(f.metrics.DispatchCounter("demo", true)))
}

func TestAIService_GenerateResponse_UnknownPersonaUsesFirstTable(t *testing.T) {
	f := newAIFixture(t, nil)
	f.random.Values = []int{2}

	reply, err := f.svc.GenerateResponse(context.Background(), "hello", "99", nil)

	require.NoError(t, err)
	assert.Equal(t, f.svc.DemoReplies("1")[2]+services.DemoDisclaimer("openai"), reply)
	assert.Equal(t, []int{3}, f.random.Asked)
}

func TestAIService_GenerateResponse_LiveCall(t *testing.T) {
	f := newAIFixture(t, map[string]string{"openai": "sk-test"})
	f.chat.GenerateFunc = func(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
		return schema.AssistantMessage("Use a JWT cookie.", nil), nil
	}

	reply, err := f.svc.GenerateResponse(context.Background(), "How should auth work?", "1", nil)

	require.NoError(t, err)
	assert.Equal(t, "Use a JWT cookie.", reply)
	assert.Equal(t, "sk-test", f.gotKey)
	assert.Equal(t, "gpt-3.5-turbo", f.gotName)

	require.Equal(t, 1, f.chat.CallCount())
	call := f.chat.Calls[0]
	require.Len(t, call.Input, 2)
	assert.Equal(t, schema.System, call.Input[0].Role)
	assert.Contains(t, call.Input[0].Content, "You are Alex Chen")
	assert.Equal(t, "How should auth work?", call.Input[1].Content)
	require.NotNil(t, call.Options.MaxTokens)
	assert.Equal(t, 500, *call.Options.MaxTokens)
	require.NotNil(t, call.Options.Temperature)
	assert.InDelta(t, 0.7, *call.Options.Temperature, 1e-6)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.DispatchCounter("live", true)))
}

func TestAIService_GenerateResponse_UnknownPersonaGenericPrompt(t *testing.T) {
	f := newAIFixture(t, map[string]string{"openai": "sk-test"})

	_, err := f.svc.GenerateResponse(context.Background(), "hi", "42", nil)

	require.NoError(t, err)
	assert.Equal(t, "You are a helpful AI assistant.", f.chat.Calls[0].Input[0].Content)
}

func TestAIService_GenerateResponse_EmptyChoiceApologizes(t *testing.T) {
	f := newAIFixture(t, map[string]string{"openai": "sk-test"})
	f.chat.GenerateFunc = func(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
		return schema.AssistantMessage("", nil), nil
	}

	reply, err := f.svc.GenerateResponse(context.Background(), "hi", "2", nil)

	require.NoError(t, err)
	assert.Equal(t, services.EmptyReplyText, reply)
}

func TestAIService_GenerateResponse_RemoteFailureIsNotMasked(t *testing.T) {
	f := newAIFixture(t, map[string]string{"openai": "sk-bad"})
	f.chat.GenerateFunc = func(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
		return nil, errors.New("401 invalid api key")
	}

	reply, err := f.svc.GenerateResponse(context.Background(), "hi", "3", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrCompletionFailed)
	assert.Empty(t, reply)
	assert.NotContains(t, err.Error(), "demo response")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.DispatchCounter("live", false)))
}

func TestAIService_GenerateCode(t *testing.T) {
	f := newAIFixture(t, map[string]string{"openai": "sk-test"})
	f.chat.GenerateFunc = func(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
		return schema.AssistantMessage("func main() {}", nil), nil
	}

	code, err := f.svc.GenerateCode(context.Background(), "empty main", "go")
	require.NoError(t, err)
	assert.Equal(t, "func main() {}", code)

	call := f.chat.Calls[0]
	assert.True(t, strings.HasPrefix(call.Input[0].Content, "You are an expert go developer."))
	assert.Equal(t, 1000, *call.Options.MaxTokens)
	assert.InDelta(t, 0.3, *call.Options.Temperature, 1e-6)

	_, err = f.svc.GenerateCode(context.Background(), "a button", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(f.chat.Calls[1].Input[0].Content, "You are an expert javascript developer."))
}

func TestAIService_GenerateCode_RequiresCredential(t *testing.T) {
	f := newAIFixture(t, nil)

	_, err := f.svc.GenerateCode(context.Background(), "sort a list", "python")

	assert.ErrorIs(t, err, services.ErrNoCredential)
	assert.Equal(t, 0, f.chat.CallCount())
}

func TestAIService_PerformResearch(t *testing.T) {
	f := newAIFixture(t, nil)

	res, err := f.svc.PerformResearch(context.Background(), "vector databases")

	require.NoError(t, err)
	assert.Equal(t, "Research results for: vector databases", res.Summary)
	assert.Len(t, res.Sources, 2)
}

func TestAIService_IsConfigured(t *testing.T) {
	f := newAIFixture(t, map[string]string{"anthropic": "sk-ant"})

	assert.False(t, f.svc.IsConfigured(""))
	assert.False(t, f.svc.IsConfigured("openai"))
	assert.True(t, f.svc.IsConfigured("anthropic"))
}

func TestAIService_DemoDisclaimerNamesProvider(t *testing.T) {
	svc, err := services.NewAIService(services.AIServiceConfig{
		Provider: "anthropic",
		Random:   &mocks.RandomMock{},
	}, &mocks.CredentialsMock{Keys: map[string]string{"openai": "sk-other"}}, newRoster(t), newCatalog(t), zerolog.Nop(), nil)
	require.NoError(t, err)

	reply, err := svc.GenerateResponse(context.Background(), "hello", "1", nil)

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(reply, "Connect your Anthropic API key in Settings for full AI capabilities.*"))
	assert.Contains(t, services.DemoDisclaimer("gemini"), "Google Gemini API key")
}
