package trigger

import (
	"context"

	"github.com/tradeacademy/tradeacademy-api/pkg/httpclient"
	"github.com/tradeacademy/tradeacademy-api/pkg/logger"
	"github.com/tradeacademy/tradeacademy-api/pkg/retry"
	"go.uber.org/zap"
)

// CallAsyncWithPayload POSTs a JSON event payload to a configured trigger URL
// (content pipeline hooks fired after course/lecture mutations).
// Failures are logged but never block the mutation that produced the event.
func CallAsyncWithPayload(triggerURL string, payload map[string]interface{}, httpClient httpclient.Client) {
	if triggerURL == "" {
		// No trigger URL configured, skip silently
		return
	}

	go func() {
		log := logger.With(zap.String("url", triggerURL))

		err := retry.Do(context.Background(), retry.WebhookConfig(), "eventTrigger", func() error {
			resp, postErr := httpclient.PostJSON(httpClient, triggerURL, payload)
			if postErr != nil {
				return postErr
			}
			defer resp.Body.Close()

			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				log.Warn("Trigger URL returned non-success status",
					zap.Int("status_code", resp.StatusCode))
			}
			return nil
		})
		if err != nil {
			log.Error("Failed to call trigger URL", zap.Error(err))
			return
		}

		log.Debug("Trigger URL called")
	}()
}
