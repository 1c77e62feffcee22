package workers

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/feedfusion/bot-service/config"
	"github.com/feedfusion/bot-service/internal/domain/feed/usecase/buissines"
)

func TestNewOrphanSweeper_Schedule(t *testing.T) {
	uc := buissines.NewUseCase(nil, nil, nil, nil, nil, zerolog.Nop())

	tests := []struct {
		name     string
		schedule string
		wantErr  bool
	}{
		{name: "daily at 3am", schedule: "0 3 * * *"},
		{name: "every minute", schedule: "* * * * *"},
		{name: "garbage", schedule: "not a cron expr", wantErr: true},
		{name: "empty", schedule: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sweeper, err := NewOrphanSweeper(&config.SweeperConfig{Schedule: tt.schedule}, uc, zerolog.Nop())

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, sweeper)

			sweeper.Start()
			sweeper.Stop()
		})
	}
}
