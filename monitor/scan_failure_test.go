package monitor

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanFailureReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "permission error value",
			err:  fmt.Errorf("failed to open adapter: %w", os.ErrPermission),
			want: "adapter access denied",
		},
		{
			name: "permission in message",
			err:  errors.New("operation not permitted"),
			want: "adapter access denied",
		},
		{
			name: "scan already running",
			err:  errors.New("scan already running"),
			want: "scan already running",
		},
		{
			name: "adapter cannot be initialized",
			err:  errors.New("can't init hci: no devices available"),
			want: "adapter unavailable",
		},
		{
			name: "adapter is down",
			err:  errors.New("hci0: adapter down"),
			want: "adapter unavailable",
		},
		{
			name: "anything else",
			err:  errors.New("hci command timed out"),
			want: "internal radio error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scanFailureReason(tt.err))
		})
	}
}
