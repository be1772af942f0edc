package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing JWT secret",
			env:     map[string]string{"JWT_SECRET": "", "AI_PROVIDER": ""},
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "unknown AI provider",
			env:     map[string]string{"JWT_SECRET": "test-secret", "AI_PROVIDER": "unknown"},
			wantErr: "unknown AI_PROVIDER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			// 設定エラーはos.Exitせずにエラーとして返る
			err := run()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to load config")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
