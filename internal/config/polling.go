package config

import (
	"github.com/spf13/viper"

	"github.com/preston-bernstein/live-event-tracker/internal/retry"
)

// PollConfig controls per-event polling cadence and retry budgets.
type PollConfig struct {
	InitialDelay Duration
	Period       Duration
	Fetch        retry.Policy
	Publish      retry.Policy
}

func loadPoll(v *viper.Viper) PollConfig {
	return PollConfig{
		InitialDelay: durationOrDefault(v, keyPollInitialDelay, defaultPollInitialDelay),
		Period:       durationOrDefault(v, keyPollPeriod, defaultPollPeriod),
		Fetch: retry.Policy{
			MaxAttempts: intOrDefault(v, keyFetchAttempts, defaultFetchAttempts),
			Initial:     durationOrDefault(v, keyFetchBackoff, defaultFetchBackoff),
		},
		Publish: retry.Policy{
			MaxAttempts: intOrDefault(v, keyPublishAttempts, defaultPublishAttempts),
			Initial:     durationOrDefault(v, keyPublishBackoff, defaultPublishBackoff),
		},
	}
}
