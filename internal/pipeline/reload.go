package pipeline

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
)

// ScheduleReload re-reads the source table on a standard cron schedule so a
// refreshed agency export is picked up without a restart. A failed reload
// keeps serving the previous table. The caller stops the returned scheduler.
func (s *Service) ScheduleReload(ctx context.Context, schedule string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if err := s.Load(ctx); err != nil {
			s.logger.Error("source reload failed, keeping previous table", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule source reload %q: %w", schedule, err)
	}
	c.Start()
	return c, nil
}
