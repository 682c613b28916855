package service

import (
	"context"
	"sort"

	"leadcrm/internal/events"
	"leadcrm/internal/formnumber"
	"leadcrm/internal/lead/models"
	dErrors "leadcrm/pkg/domain-errors"
	"leadcrm/pkg/requestcontext"
)

// MigrateFormNumbers rewrites legacy form numbers to PREFIX-NNNNN. Leads
// that are already canonical, or whose prefix no active project owns, are
// skipped. The whole run is one unit of work bounded by the migration
// timeout rather than the runner's default; a dry run reports the changes it
// would make without writing them.
func (s *Service) MigrateFormNumbers(ctx context.Context, dryRun bool) (*models.MigrationReport, error) {
	report := &models.MigrationReport{DryRun: dryRun, Changes: []models.FormNumberChange{}}

	runCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.migrationTimeout)
		defer cancel()
	}

	err := s.runner.RunInTx(runCtx, func(ctx context.Context) error {
		resolver, err := s.resolver(ctx)
		if err != nil {
			return err
		}
		leads, err := s.store.List(ctx, models.ListFilter{})
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load leads")
		}
		sort.SliceStable(leads, func(i, j int) bool {
			return leads[i].CreatedAt.Before(leads[j].CreatedAt)
		})

		reserved := make(map[string]struct{})
		exists := func(ctx context.Context, candidate string) (bool, error) {
			if _, ok := reserved[candidate]; ok {
				return true, nil
			}
			return s.store.FormNumberExists(ctx, candidate)
		}

		for _, l := range leads {
			if formnumber.IsCanonical(l.FormNumber) {
				report.Skipped++
				continue
			}
			prefix := resolver.Extract(l.FormNumber)
			project, ok := resolver.Lookup(prefix)
			if !ok {
				s.logger.WarnContext(ctx, "no active project for legacy form number",
					"lead_id", l.ID.String(),
					"form_number", l.FormNumber,
					"prefix", prefix,
				)
				report.Skipped++
				continue
			}

			next, err := s.generator.Claim(ctx, project.Prefix, exists, func(ctx context.Context, candidate string) error {
				if dryRun {
					return nil
				}
				return s.store.UpdateFormNumber(ctx, l.ID, project.ID, candidate)
			})
			if err != nil {
				if _, ok := dErrors.As(err); ok {
					return err
				}
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to migrate form number")
			}
			reserved[next] = struct{}{}
			report.Changes = append(report.Changes, models.FormNumberChange{LeadID: l.ID, From: l.FormNumber, To: next})
			report.Updated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "form number migration finished",
		"event", events.TypeFormNumberMigrated,
		"log_type", "audit",
		"dry_run", dryRun,
		"updated", report.Updated,
		"skipped", report.Skipped,
		"request_id", requestcontext.RequestID(ctx),
	)
	if !dryRun {
		s.metrics.AddMigrated(report.Updated)
		for _, c := range report.Changes {
			s.emitter.Emit(ctx, events.TypeFormNumberMigrated, c.LeadID.String(), c)
		}
	}
	return report, nil
}
