package naming_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/application/naming"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func TestBuildPrompt(t *testing.T) {
	prompt := naming.BuildPrompt(catalog.CategoryOutdoorGear)
	assert.Contains(t, prompt, "in the outdoor gear category")
	assert.Contains(t, prompt, "Use title case.")
	assert.Contains(t, prompt, "No parentheses, dashes, or dollar signs.")
	assert.Contains(t, prompt, "up to 50 characters")
	assert.Contains(t, prompt, "```json")
	assert.NotContains(t, prompt, "%!")
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence after prose", "Sure! Here it is:\n```json\n{\"a\":1}\n```\nEnjoy.", `{"a":1}`},
		{"unterminated fence", "```json\n{\"a\":1}", `{"a":1}`},
		{"no fence", "  {\"a\":1}  ", `{"a":1}`},
		{"first of two fences", "```json\n{\"a\":1}\n```\n```json\n{\"a\":2}\n```", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := naming.ExtractJSON(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("empty", func(t *testing.T) {
		_, err := naming.ExtractJSON("  \n ")
		assert.ErrorIs(t, err, naming.ErrEmptyCompletion)
	})
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"bath towel", "Bath Towel"},
		{"LED Light Bulbs", "LED Light Bulbs"},
		{"Solar-Powered Lantern (Large)", "Solar Powered Lantern Large"},
		{"$Deluxe Hair Dryer!", "Deluxe Hair Dryer"},
		{"Two Pack Wool Socks", "Pack Wool Socks"},
		{"Men's Rain Jacket", "Mens Rain Jacket"},
		{"  spaced   out   lamp ", "Spaced Out Lamp"},
		{"4K Monitor", "4K Monitor"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, naming.SanitizeName(tt.in))
		})
	}
}

func TestService_Generate(t *testing.T) {
	completer := new(MockCompleter)
	completer.On("Complete", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "home goods")
	})).Return("```json\n{\"product_name\": \"bath towel\", \"description\": \""+strings.Repeat("x", 70)+"\"}\n```", nil)

	svc := naming.NewService(completer, time.Second, zaptest.NewLogger(t))
	product, err := svc.Generate(context.Background(), catalog.CategoryHomeGoods)

	require.NoError(t, err)
	assert.Equal(t, "Bath Towel", product.Name)
	assert.Len(t, product.Description, catalog.MaxDescriptionLength)
	completer.AssertExpectations(t)
}

func TestService_Generate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		callErr error
		wantErr error
	}{
		{"model unavailable", "", errors.New("connection refused"), nil},
		{"empty completion", "   ", nil, naming.ErrEmptyCompletion},
		{"not json", "```json\nBath Towel\n```", nil, naming.ErrMalformedCompletion},
		{"missing description", `{"product_name":"Bath Towel"}`, nil, naming.ErrMalformedCompletion},
		{"missing name", `{"description":"Soft"}`, nil, naming.ErrMalformedCompletion},
		{"name only punctuation", `{"product_name":"---","description":"Soft"}`, nil, naming.ErrEmptyProductName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := new(MockCompleter)
			completer.On("Complete", mock.Anything, mock.Anything).Return(tt.raw, tt.callErr)

			_, err := naming.NewService(completer, 0, nil).Generate(context.Background(), catalog.CategoryBeauty)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.callErr != nil {
				assert.ErrorIs(t, err, tt.callErr)
			}
		})
	}
}

func TestService_Generate_AppliesTimeout(t *testing.T) {
	completer := new(MockCompleter)
	completer.On("Complete", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		ctx := args.Get(0).(context.Context)
		_, ok := ctx.Deadline()
		assert.True(t, ok)
	}).Return(`{"product_name":"Desk Lamp","description":"Bright"}`, nil)

	product, err := naming.NewService(completer, 5*time.Second, nil).Generate(context.Background(), catalog.CategoryElectronics)
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", product.Name)
}
