package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stirlingv/honey-biz/internal/config"
)

func setRequired(t *testing.T) {
	t.Setenv("POSTGRES_USER", "shop")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("STAFF_PASSWORD", "correct-horse")
}

func TestConfig_Defaults(t *testing.T) {
	setRequired(t)

	conf := config.New()

	require.NoError(t, conf.Validate())
	assert.Equal(t, "development", conf.Env)
	assert.Equal(t, "invoice-payments", conf.Kafka.Topic)
	assert.Equal(t, 15*time.Second, conf.QuickBooks.CallTimeout)
	assert.False(t, conf.QuickBooks.Configured())
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{
			name: "quickbooks configured",
			env: map[string]string{
				"QUICKBOOKS_CLIENT_ID":     "id",
				"QUICKBOOKS_CLIENT_SECRET": "secret",
				"QUICKBOOKS_REDIRECT_URI":  "https://shop.example.com/integrations/quickbooks/callback",
			},
		},
		{
			name:    "client id without secret",
			env:     map[string]string{"QUICKBOOKS_CLIENT_ID": "id"},
			wantErr: true,
		},
		{
			name:    "unknown environment",
			env:     map[string]string{"QUICKBOOKS_ENVIRONMENT": "staging"},
			wantErr: true,
		},
		{
			name:    "invalid admin email",
			env:     map[string]string{"ADMIN_NOTIFICATION_EMAIL": "not-an-email"},
			wantErr: true,
		},
		{
			name:    "short staff password",
			env:     map[string]string{"STAFF_PASSWORD": "short"},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			err := config.New().Validate()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
